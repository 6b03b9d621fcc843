/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-25 10:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 21:10:33
 * @FilePath: \go-sio\service\notifier.go
 * @Description: 投递唤醒通知器 - 本进程扇出 + 可选 Redis PubSub 跨节点广播
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package service

import (
	"context"
	"sync"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// deliveryWakeChannel 跨节点唤醒频道，消息体为目标 sessionId
const deliveryWakeChannel = "sio:delivery:wake"

// DeliveryNotifier 投递唤醒通知器
// 长轮询等待方通过 Watch 注册唤醒通道；新投递产生时 Publish 先唤醒本进程
// 等待方，再经 PubSub 广播到其他节点。未配置 PubSub 时退化为纯本地唤醒，
// 跨节点等待方依靠退避重查兜底
type DeliveryNotifier struct {
	pubsub *cachex.PubSub
	logger logger.ILogger

	mu      sync.Mutex
	waiters map[string]map[uint64]chan struct{}
	nextID  uint64
	closed  bool
}

// NewDeliveryNotifier 创建通知器，pubsub 可为 nil（单节点部署）
func NewDeliveryNotifier(pubsub *cachex.PubSub, log logger.ILogger) *DeliveryNotifier {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &DeliveryNotifier{
		pubsub:  pubsub,
		logger:  log,
		waiters: make(map[string]map[uint64]chan struct{}),
	}
}

// Start 订阅跨节点唤醒频道；未配置 PubSub 时为 no-op
func (n *DeliveryNotifier) Start(ctx context.Context) error {
	if n.pubsub == nil {
		return nil
	}

	syncx.Go(ctx).
		OnPanic(func(r any) {
			n.logger.ErrorKV("投递唤醒订阅 panic", "panic", r, "channel", deliveryWakeChannel)
		}).
		Exec(func() {
			_, err := n.pubsub.Subscribe([]string{deliveryWakeChannel}, func(subCtx context.Context, ch string, msg string) error {
				n.notifyLocal(msg)
				return nil
			})
			if err != nil {
				n.logger.ErrorKV("订阅投递唤醒频道失败", "error", err, "channel", deliveryWakeChannel)
				return
			}

			syncx.NewEventLoop(ctx).
				OnShutdown(func() {
					n.logger.InfoKV("投递唤醒订阅已停止", "channel", deliveryWakeChannel)
				}).
				Run()
		})

	return nil
}

// Publish 通知某会话出现新投递：先本地扇出，再跨节点广播
func (n *DeliveryNotifier) Publish(ctx context.Context, sessionID string) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errorx.NewError(ErrTypeNotifierClosed)
	}
	n.mu.Unlock()

	n.notifyLocal(sessionID)

	if n.pubsub != nil {
		if err := n.pubsub.Publish(ctx, deliveryWakeChannel, sessionID); err != nil {
			// 跨节点广播失败不致命：远端等待方由退避重查兜底
			n.logger.WarnKV("跨节点唤醒广播失败", "session_id", sessionID, "error", err)
		}
	}
	return nil
}

// Watch 注册会话的唤醒通道；release 释放注册，必须被调用
func (n *DeliveryNotifier) Watch(ctx context.Context, sessionID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	n.nextID++
	id := n.nextID
	if n.waiters[sessionID] == nil {
		n.waiters[sessionID] = make(map[uint64]chan struct{})
	}
	n.waiters[sessionID][id] = ch

	release := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.waiters[sessionID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(n.waiters, sessionID)
			}
		}
	}
	return ch, release
}

// Close 关闭通知器并断开全部等待方
func (n *DeliveryNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for sessionID, set := range n.waiters {
		for _, ch := range set {
			close(ch)
		}
		delete(n.waiters, sessionID)
	}
}

// notifyLocal 非阻塞唤醒本进程内该会话的全部等待方
func (n *DeliveryNotifier) notifyLocal(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.waiters[sessionID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
