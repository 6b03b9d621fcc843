/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-18 10:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 23:18:44
 * @FilePath: \go-sio\sio.go
 * @Description: Server 结构体及其方法 - 仓库/服务/端点装配
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"context"
	"net/http"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-sio/handler"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/repository"
	"github.com/kamalyes/go-sio/service"
	"github.com/kamalyes/go-sio/transport"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/gorm"
)

// Server Socket.IO 服务端核心
// 持有仓库、服务与 HTTP 端点的完整装配；存储是唯一事实源，
// Server 实例本身无会话状态，可在多进程间水平扩展
type Server struct {
	config *Config
	logger SIOLogger

	ConnRepo     repository.ConnectionRepository
	RoomRepo     repository.RoomRepository
	MessageRepo  repository.MessageRepository
	DeliveryRepo repository.DeliveryRepository

	Notifier  *service.DeliveryNotifier
	Delivery  *service.DeliveryService
	Heartbeat *service.HeartbeatService

	handler *handler.SocketIOHandler
}

// NewServer 创建服务端核心
// pubsub 可为 nil（单节点部署，长轮询退化为纯退避重查）；
// config/log 为 nil 时使用默认值
func NewServer(db *gorm.DB, config *Config, pubsub *cachex.PubSub, log SIOLogger) (*Server, error) {
	if db == nil {
		return nil, errorx.NewError(ErrTypeRepositoryNotSet)
	}
	if config == nil {
		config = NewDefaultConfig()
	}
	if log == nil {
		log = DefaultLogger
	}

	connRepo := repository.NewConnectionRepository(db, log)
	roomRepo := repository.NewRoomRepository(db, log)
	messageRepo := repository.NewMessageRepository(db, log)
	deliveryRepo := repository.NewDeliveryRepository(db, log)

	notifier := service.NewDeliveryNotifier(pubsub, log)
	delivery := service.NewDeliveryService(connRepo, roomRepo, messageRepo, deliveryRepo, notifier, log)
	heartbeat := service.NewHeartbeatService(connRepo, deliveryRepo, messageRepo, delivery,
		service.HeartbeatOptions{
			PingTimeout:           config.PingTimeout,
			DeliveryTimeout:       config.DeliveryTimeout,
			LivenessWindow:        config.LivenessWindow,
			DeliveryRetentionDays: config.DeliveryRetention,
			MessageRetentionDays:  config.MessageRetention,
		}, log)

	h := handler.NewSocketIOHandler(
		handler.Options{
			Transport: transport.Options{
				PingInterval: config.PingInterval,
				PingTimeout:  config.PingTimeout,
				PollTimeout:  config.PollTimeout,
				MaxPayload:   config.MaxPayload,
			},
			Namespace: config.Namespace,
		},
		connRepo, messageRepo, deliveryRepo, log,
	).WithNotifier(notifier)

	return &Server{
		config:       config,
		logger:       log,
		ConnRepo:     connRepo,
		RoomRepo:     roomRepo,
		MessageRepo:  messageRepo,
		DeliveryRepo: deliveryRepo,
		Notifier:     notifier,
		Delivery:     delivery,
		Heartbeat:    heartbeat,
		handler:      h,
	}, nil
}

// AutoMigrate 建表：四张实体表与两张关联表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Connection{},
		&models.Room{},
		&models.RoomConnection{},
		&models.Message{},
		&models.MessageRoom{},
		&models.Delivery{},
	)
}

// Start 启动跨节点投递唤醒订阅；未配置 PubSub 时为 no-op
func (s *Server) Start(ctx context.Context) error {
	return s.Notifier.Start(ctx)
}

// Handler 返回 /socket.io/ 端点处理器
func (s *Server) Handler() http.Handler {
	return s.handler
}

// WithPacketHandler 注册客户端包回调并返回当前服务端
func (s *Server) WithPacketHandler(ph transport.PacketHandler) *Server {
	s.handler.WithPacketHandler(ph)
	return s
}

// Config 返回服务端配置
func (s *Server) Config() *Config {
	return s.config
}

// RunHeartbeat 执行一个心跳周期，返回存活广播触达数
func (s *Server) RunHeartbeat(ctx context.Context) (int, error) {
	return s.Heartbeat.RunCycle(ctx)
}

// CleanupDeliveries 删除早于保留期的投递记录，返回删除数
func (s *Server) CleanupDeliveries(ctx context.Context, retentionDays int) (int64, error) {
	return s.Delivery.CleanupDeliveries(ctx, retentionDays)
}

// CleanupMessages 删除早于保留期的消息记录，返回删除数
func (s *Server) CleanupMessages(ctx context.Context, retentionDays int) (int64, error) {
	return s.MessageRepo.CleanupOldMessages(ctx, retentionDays)
}

// Close 关闭服务端，断开全部本地长轮询等待方
func (s *Server) Close() {
	s.Notifier.Close()
}
