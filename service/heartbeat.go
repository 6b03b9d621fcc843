/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-26 09:35:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 22:08:51
 * @FilePath: \go-sio\service\heartbeat.go
 * @Description: 心跳/生命周期服务 - 活性裁决、违规断开、周期清理与存活广播
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// LivenessStatus 活性裁决状态
type LivenessStatus string

const (
	LivenessOK              LivenessStatus = "OK"
	LivenessPingTimeout     LivenessStatus = "PING_TIMEOUT"
	LivenessDeliveryTimeout LivenessStatus = "DELIVERY_TIMEOUT"
)

// AliveEvent 存活广播事件名
const AliveEvent = "alive"

// LivenessVerdict 活性裁决结果（值类型，不是错误）
// 裁决携带判定依据：会话、触发阈值与参与比较的两个时间戳
type LivenessVerdict struct {
	Status          LivenessStatus
	SessionID       string
	Threshold       time.Duration
	LastPingTime    *time.Time
	LastDeliverTime *time.Time
}

// OK 是否通过活性检查
func (v LivenessVerdict) OK() bool {
	return v.Status == LivenessOK
}

// String 裁决的可读描述，用于违规日志与投递失败原因
func (v LivenessVerdict) String() string {
	if v.OK() {
		return string(LivenessOK)
	}
	return fmt.Sprintf("%s: session=%s threshold=%s ping=%s deliver=%s",
		v.Status, v.SessionID, v.Threshold,
		formatTimePtr(v.LastPingTime), formatTimePtr(v.LastDeliverTime))
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

// HeartbeatOptions 心跳服务配置
type HeartbeatOptions struct {
	PingTimeout           time.Duration // PING 应答超时阈值
	DeliveryTimeout       time.Duration // 投递停滞阈值（仅在存在待投递时生效）
	LivenessWindow        time.Duration // 活跃窗口
	DeliveryRetentionDays int           // 投递记录保留天数
	MessageRetentionDays  int           // 消息记录保留天数，独立于投递保留期
}

// normalize 空值回退为默认配置
func (o HeartbeatOptions) normalize() HeartbeatOptions {
	o.PingTimeout = mathx.IfNotZero(o.PingTimeout, 20*time.Second)
	o.DeliveryTimeout = mathx.IfNotZero(o.DeliveryTimeout, 60*time.Second)
	o.LivenessWindow = mathx.IfNotZero(o.LivenessWindow, 30*time.Second)
	o.DeliveryRetentionDays = mathx.IF(o.DeliveryRetentionDays <= 0, 7, o.DeliveryRetentionDays)
	o.MessageRetentionDays = mathx.IF(o.MessageRetentionDays <= 0, 7, o.MessageRetentionDays)
	return o
}

// HeartbeatService 心跳/生命周期服务
// 每周期：活性扫描→违规断开→保留期与孤儿清理→存活广播
// 周期内无阻塞等待，防重叠由外部驱动方负责
type HeartbeatService struct {
	connRepo     repository.ConnectionRepository
	deliveryRepo repository.DeliveryRepository
	messageRepo  repository.MessageRepository
	delivery     *DeliveryService
	opts         HeartbeatOptions
	logger       logger.ILogger
}

// NewHeartbeatService 创建心跳服务
func NewHeartbeatService(
	connRepo repository.ConnectionRepository,
	deliveryRepo repository.DeliveryRepository,
	messageRepo repository.MessageRepository,
	delivery *DeliveryService,
	opts HeartbeatOptions,
	log logger.ILogger,
) *HeartbeatService {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &HeartbeatService{
		connRepo:     connRepo,
		deliveryRepo: deliveryRepo,
		messageRepo:  messageRepo,
		delivery:     delivery,
		opts:         opts.normalize(),
		logger:       log,
	}
}

// CheckLiveness 对单个连接做活性裁决
// PING 超时：距最后 PING 超过阈值且其后无客户端活动；
// 投递超时：存在待投递且距最后成功投递超过阈值
func (s *HeartbeatService) CheckLiveness(ctx context.Context, conn *models.Connection, now time.Time) (LivenessVerdict, error) {
	verdict := LivenessVerdict{
		Status:          LivenessOK,
		SessionID:       conn.SessionID,
		LastPingTime:    conn.LastPingTime,
		LastDeliverTime: conn.LastDeliverTime,
	}

	if conn.LastPingTime != nil && now.Sub(*conn.LastPingTime) > s.opts.PingTimeout {
		answered := conn.LastActiveTime != nil && conn.LastActiveTime.After(*conn.LastPingTime)
		if !answered {
			verdict.Status = LivenessPingTimeout
			verdict.Threshold = s.opts.PingTimeout
			return verdict, nil
		}
	}

	if conn.LastDeliverTime != nil && now.Sub(*conn.LastDeliverTime) > s.opts.DeliveryTimeout {
		pending, err := s.deliveryRepo.GetPending(ctx, conn.ID)
		if err != nil {
			return verdict, errorx.WrapError("failed to query pending deliveries", err)
		}
		if len(pending) > 0 {
			verdict.Status = LivenessDeliveryTimeout
			verdict.Threshold = s.opts.DeliveryTimeout
			return verdict, nil
		}
	}

	return verdict, nil
}

// RunCycle 执行一个完整心跳周期，返回存活广播触达数
// 活性扫描失败中止整个周期上抛；单连接裁决失败只隔离该连接
func (s *HeartbeatService) RunCycle(ctx context.Context) (int, error) {
	now := time.Now()

	conns, err := s.connRepo.FindActive(ctx, s.opts.LivenessWindow)
	if err != nil {
		return 0, errorx.WrapError("heartbeat scan failed", err)
	}

	violations := 0
	for _, conn := range conns {
		if err := s.checkOne(ctx, conn, now, &violations); err != nil {
			s.logger.ErrorKV("连接活性裁决失败，跳过",
				"session_id", conn.SessionID,
				"error", err,
			)
		}
	}

	if _, err := s.delivery.CleanupDeliveries(ctx, s.opts.DeliveryRetentionDays); err != nil {
		return 0, err
	}
	if _, err := s.messageRepo.CleanupOldMessages(ctx, s.opts.MessageRetentionDays); err != nil {
		return 0, err
	}
	if _, err := s.delivery.CleanupQueues(ctx); err != nil {
		return 0, err
	}
	if _, err := s.connRepo.CleanupInactive(ctx, s.opts.LivenessWindow); err != nil {
		return 0, err
	}

	reached, err := s.delivery.BroadcastToActive(ctx, AliveEvent,
		"["+strconv.FormatInt(now.Unix(), 10)+"]", s.opts.LivenessWindow)
	if err != nil {
		return 0, err
	}

	s.logger.InfoKV("心跳周期完成",
		"scanned", len(conns),
		"violations", violations,
		"reached", reached,
	)
	return reached, nil
}

// checkOne 单连接裁决与违规处置，panic 同样只隔离该连接
func (s *HeartbeatService) checkOne(ctx context.Context, conn *models.Connection, now time.Time, violations *int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("liveness check panic: %v", r)
		}
	}()

	verdict, err := s.CheckLiveness(ctx, conn, now)
	if err != nil {
		return err
	}
	if verdict.OK() {
		return nil
	}

	*violations++
	if err := s.connRepo.MarkDisconnected(ctx, conn.SessionID); err != nil {
		return errorx.WrapError("failed to disconnect connection", err)
	}
	failed, err := s.deliveryRepo.FailAllPending(ctx, conn.ID, verdict.String())
	if err != nil {
		return err
	}

	s.logger.WarnKV("活性违规，连接已断开",
		"session_id", conn.SessionID,
		"verdict", verdict.String(),
		"failed_deliveries", failed,
	)
	return nil
}
