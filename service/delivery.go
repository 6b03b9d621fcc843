/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-25 11:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 21:44:09
 * @FilePath: \go-sio\service\delivery.go
 * @Description: 投递可靠性服务 - 传输冲刷路径之外唯一的投递状态写入方
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package service

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/gorm"
)

// DeliveryService 投递可靠性服务
// 不主动重发：重试是调用方驱动的动作（管理操作或下一次广播）
type DeliveryService struct {
	connRepo     repository.ConnectionRepository
	roomRepo     repository.RoomRepository
	messageRepo  repository.MessageRepository
	deliveryRepo repository.DeliveryRepository
	notifier     *DeliveryNotifier // 可选
	logger       logger.ILogger
}

// NewDeliveryService 创建投递服务，notifier 可为 nil
func NewDeliveryService(
	connRepo repository.ConnectionRepository,
	roomRepo repository.RoomRepository,
	messageRepo repository.MessageRepository,
	deliveryRepo repository.DeliveryRepository,
	notifier *DeliveryNotifier,
	log logger.ILogger,
) *DeliveryService {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &DeliveryService{
		connRepo:     connRepo,
		roomRepo:     roomRepo,
		messageRepo:  messageRepo,
		deliveryRepo: deliveryRepo,
		notifier:     notifier,
		logger:       log,
	}
}

// GetPendingDeliveries 获取连接的全部待投递记录（接收方 FIFO）
func (s *DeliveryService) GetPendingDeliveries(ctx context.Context, connectionID uint) ([]*models.Delivery, error) {
	return s.deliveryRepo.GetPending(ctx, connectionID)
}

// MarkDelivered 置为已投递，投递时间以当前时刻重戳
func (s *DeliveryService) MarkDelivered(ctx context.Context, deliveryID uint) error {
	return s.deliveryRepo.MarkDelivered(ctx, deliveryID, time.Now())
}

// MarkFailed 置为失败并记录可读原因
func (s *DeliveryService) MarkFailed(ctx context.Context, deliveryID uint, reason string) error {
	return s.deliveryRepo.MarkFailed(ctx, deliveryID, reason)
}

// RetryDelivery 重试投递：retries 自增并回到 PENDING，唤醒目标会话
// 已投递的记录不可重试
func (s *DeliveryService) RetryDelivery(ctx context.Context, deliveryID uint) error {
	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errorx.NewError(ErrTypeDeliveryNotFound, deliveryID)
		}
		return errorx.WrapError("failed to load delivery", err)
	}
	if delivery.Status == models.DeliveryStatusDelivered {
		return errorx.NewError(ErrTypeDeliveryNotPending, deliveryID)
	}

	if err := s.deliveryRepo.Retry(ctx, deliveryID); err != nil {
		return err
	}

	s.notifyConnection(ctx, delivery.ConnectionID)
	return nil
}

// Broadcast 向目标房间广播事件
// 落库消息并按房间成员扇出 PENDING 投递（跳过已断开成员、成员去重），
// 返回创建的投递数。不存在的房间静默跳过，没有扇出
func (s *DeliveryService) Broadcast(ctx context.Context, namespace, event, data string, roomNames []string) (int, error) {
	roomIDs := make([]uint, 0, len(roomNames))
	for _, name := range roomNames {
		room, err := s.roomRepo.GetByName(ctx, name, namespace)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return 0, errorx.WrapError("failed to resolve room", err)
		}
		roomIDs = append(roomIDs, room.ID)
	}

	msg := &models.Message{Event: event, Data: data, CreateTime: time.Now()}
	if err := s.messageRepo.Create(ctx, msg, roomIDs); err != nil {
		return 0, err
	}

	// 跨房间成员去重，已断开的连接不再产生新投递
	seen := make(map[uint]*models.Connection)
	for _, roomID := range roomIDs {
		members, err := s.roomRepo.Members(ctx, roomID)
		if err != nil {
			return 0, err
		}
		for _, conn := range members {
			if conn.Connected {
				seen[conn.ID] = conn
			}
		}
	}

	return s.fanOut(ctx, msg.ID, seen)
}

// BroadcastToActive 向活跃窗口内全部存活连接广播事件，返回触达数
func (s *DeliveryService) BroadcastToActive(ctx context.Context, event, data string, window time.Duration) (int, error) {
	conns, err := s.connRepo.FindActive(ctx, window)
	if err != nil {
		return 0, err
	}

	msg := &models.Message{Event: event, Data: data, CreateTime: time.Now()}
	if err := s.messageRepo.Create(ctx, msg, nil); err != nil {
		return 0, err
	}

	targets := make(map[uint]*models.Connection, len(conns))
	for _, conn := range conns {
		targets[conn.ID] = conn
	}
	return s.fanOut(ctx, msg.ID, targets)
}

// SendToConnection 点对点发送事件到指定会话
func (s *DeliveryService) SendToConnection(ctx context.Context, sessionID, event, data string) error {
	conn, err := s.connRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errorx.NewError(ErrTypeConnectionNotFound, sessionID)
		}
		return errorx.WrapError("failed to load connection", err)
	}
	if !conn.Connected {
		return errorx.NewError(ErrTypeConnectionClosed)
	}

	msg := &models.Message{Event: event, Data: data, CreateTime: time.Now()}
	if err := s.messageRepo.Create(ctx, msg, nil); err != nil {
		return err
	}
	if err := s.deliveryRepo.Create(ctx, &models.Delivery{
		MessageID:    msg.ID,
		ConnectionID: conn.ID,
	}); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, conn.SessionID)
	}
	return nil
}

// CleanupDeliveries 删除早于保留期的投递（不分状态），返回删除数
func (s *DeliveryService) CleanupDeliveries(ctx context.Context, retentionDays int) (int64, error) {
	return s.deliveryRepo.CleanupOlderThan(ctx, retentionDays)
}

// CleanupQueues 轻量队列清扫：删除目标连接已不存在的孤儿投递
func (s *DeliveryService) CleanupQueues(ctx context.Context) (int64, error) {
	return s.deliveryRepo.CleanupOrphans(ctx)
}

// fanOut 为目标连接集合批量创建 PENDING 投递并逐会话唤醒
func (s *DeliveryService) fanOut(ctx context.Context, messageID uint, targets map[uint]*models.Connection) (int, error) {
	if len(targets) == 0 {
		return 0, nil
	}

	deliveries := make([]*models.Delivery, 0, len(targets))
	for connID := range targets {
		deliveries = append(deliveries, &models.Delivery{
			MessageID:    messageID,
			ConnectionID: connID,
		})
	}
	if err := s.deliveryRepo.BatchCreate(ctx, deliveries); err != nil {
		return 0, err
	}

	if s.notifier != nil {
		for _, conn := range targets {
			_ = s.notifier.Publish(ctx, conn.SessionID)
		}
	}

	s.logger.DebugKV("消息扇出完成", "message_id", messageID, "deliveries", len(deliveries))
	return len(deliveries), nil
}

// notifyConnection 按连接主键解析会话并发布唤醒，失败仅记日志
func (s *DeliveryService) notifyConnection(ctx context.Context, connectionID uint) {
	if s.notifier == nil {
		return
	}
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		s.logger.WarnKV("唤醒目标连接解析失败", "connection_id", connectionID, "error", err)
		return
	}
	_ = s.notifier.Publish(ctx, conn.SessionID)
}
