/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-08 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-09-01 13:05:18
 * @FilePath: \go-sio\delivery_service_test.go
 * @Description: 投递服务测试 - 房间广播扇出、点对点发送、调用方驱动重试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"context"
	"testing"
	"time"

	"github.com/kamalyes/go-sio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDeliveryService 构造无跨节点通知的投递服务
func newTestDeliveryService(db *gorm.DB, notifier *DeliveryNotifier) *DeliveryService {
	return NewDeliveryService(
		NewConnectionRepository(db, NoOpLoggerInstance),
		NewRoomRepository(db, NoOpLoggerInstance),
		NewMessageRepository(db, NoOpLoggerInstance),
		NewDeliveryRepository(db, NoOpLoggerInstance),
		notifier,
		NoOpLoggerInstance,
	)
}

// errorTypeOf 取出错误携带的错误码，非 errorx 错误返回 0
func errorTypeOf(err error) ErrorType {
	if typed, ok := err.(interface{ GetType() ErrorType }); ok {
		return typed.GetType()
	}
	return 0
}

// TestBroadcastFanOut 测试房间广播的成员扇出语义
func TestBroadcastFanOut(t *testing.T) {
	db := GetTestDB(t)
	roomRepo := NewRoomRepository(db, NoOpLoggerInstance)
	connRepo := NewConnectionRepository(db, NoOpLoggerInstance)
	deliveryRepo := NewDeliveryRepository(db, NoOpLoggerInstance)
	svc := newTestDeliveryService(db, nil)
	ctx := context.Background()

	lobby, err := roomRepo.GetOrCreate(ctx, "lobby", "/")
	require.NoError(t, err)
	news, err := roomRepo.GetOrCreate(ctx, "news", "/")
	require.NoError(t, err)

	alice := CreateTestConnection(t, db)
	bob := CreateTestConnection(t, db)
	ghost := CreateTestConnection(t, db)
	require.NoError(t, connRepo.MarkDisconnected(ctx, ghost.SessionID))

	// alice 同时在两个房间，验证跨房间去重
	require.NoError(t, roomRepo.AddMember(ctx, lobby.ID, alice.ID))
	require.NoError(t, roomRepo.AddMember(ctx, news.ID, alice.ID))
	require.NoError(t, roomRepo.AddMember(ctx, lobby.ID, bob.ID))
	require.NoError(t, roomRepo.AddMember(ctx, lobby.ID, ghost.ID))

	created, err := svc.Broadcast(ctx, "/", "announce", `["hello"]`, []string{"lobby", "news"})
	require.NoError(t, err)
	assert.Equal(t, 2, created, "去重后仅存活成员各得一条投递")

	alicePending, err := deliveryRepo.GetPending(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, alicePending, 1, "跨房间成员只收到一条")

	ghostPending, err := deliveryRepo.GetPending(ctx, ghost.ID)
	require.NoError(t, err)
	assert.Empty(t, ghostPending, "已断开成员不产生新投递")

	t.Run("不存在的房间静默跳过", func(t *testing.T) {
		created, err := svc.Broadcast(ctx, "/", "noop", `[]`, []string{"no-such-room"})
		require.NoError(t, err)
		assert.Zero(t, created)
	})
}

// TestSendToConnection 测试点对点发送的三条路径
func TestSendToConnection(t *testing.T) {
	db := GetTestDB(t)
	connRepo := NewConnectionRepository(db, NoOpLoggerInstance)
	deliveryRepo := NewDeliveryRepository(db, NoOpLoggerInstance)
	svc := newTestDeliveryService(db, nil)
	ctx := context.Background()

	t.Run("正常发送创建待投递", func(t *testing.T) {
		conn := CreateTestConnection(t, db)
		require.NoError(t, svc.SendToConnection(ctx, conn.SessionID, "whisper", `["hi"]`))

		pending, err := deliveryRepo.GetPending(ctx, conn.ID)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})

	t.Run("会话不存在报错", func(t *testing.T) {
		err := svc.SendToConnection(ctx, "ghost-session", "whisper", `[]`)
		require.Error(t, err)
		assert.Equal(t, ErrTypeConnectionNotFound, errorTypeOf(err))
	})

	t.Run("会话已关闭报错", func(t *testing.T) {
		conn := CreateTestConnection(t, db)
		require.NoError(t, connRepo.MarkDisconnected(ctx, conn.SessionID))

		err := svc.SendToConnection(ctx, conn.SessionID, "whisper", `[]`)
		require.Error(t, err)
		assert.Equal(t, ErrTypeConnectionClosed, errorTypeOf(err))
	})
}

// TestRetryDelivery 测试调用方驱动的重试语义
func TestRetryDelivery(t *testing.T) {
	db := GetTestDB(t)
	deliveryRepo := NewDeliveryRepository(db, NoOpLoggerInstance)
	svc := newTestDeliveryService(db, nil)
	ctx := context.Background()

	conn := CreateTestConnection(t, db)

	t.Run("失败投递重试回到待投递", func(t *testing.T) {
		delivery := CreateTestPendingDelivery(t, db, conn.ID, "chat", `[]`)
		require.NoError(t, deliveryRepo.MarkFailed(ctx, delivery.ID, "boom"))

		require.NoError(t, svc.RetryDelivery(ctx, delivery.ID))

		got, err := deliveryRepo.GetByID(ctx, delivery.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryStatusPending, got.Status)
		assert.Equal(t, 1, got.Retries)
	})

	t.Run("已投递记录不可重试", func(t *testing.T) {
		delivery := CreateTestPendingDelivery(t, db, conn.ID, "chat", `[]`)
		require.NoError(t, deliveryRepo.MarkDelivered(ctx, delivery.ID, time.Now()))

		err := svc.RetryDelivery(ctx, delivery.ID)
		require.Error(t, err)
		assert.Equal(t, ErrTypeDeliveryNotPending, errorTypeOf(err))
	})

	t.Run("投递不存在报错", func(t *testing.T) {
		err := svc.RetryDelivery(ctx, 99999)
		require.Error(t, err)
		assert.Equal(t, ErrTypeDeliveryNotFound, errorTypeOf(err))
	})
}

// TestBroadcastToActive 测试活跃窗口广播
func TestBroadcastToActive(t *testing.T) {
	db := GetTestDB(t)
	connRepo := NewConnectionRepository(db, NoOpLoggerInstance)
	svc := newTestDeliveryService(db, nil)
	ctx := context.Background()

	CreateTestConnection(t, db) // 无活动记录的新连接也在触达范围内
	stale := CreateTestConnection(t, db)
	require.NoError(t, connRepo.TouchActive(ctx, stale.SessionID, time.Now().Add(-10*time.Minute)))

	reached, err := svc.BroadcastToActive(ctx, "alive", `[1]`, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, reached, "窗口外的连接不被触达")
}

// TestCleanupQueues 测试孤儿投递清扫
func TestCleanupQueues(t *testing.T) {
	db := GetTestDB(t)
	deliveryRepo := NewDeliveryRepository(db, NoOpLoggerInstance)
	svc := newTestDeliveryService(db, nil)
	ctx := context.Background()

	conn := CreateTestConnection(t, db)
	keep := CreateTestPendingDelivery(t, db, conn.ID, "keep", `[]`)

	msg := CreateTestMessage(t, db, "orphan", `[]`, nil)
	require.NoError(t, deliveryRepo.Create(ctx, &models.Delivery{
		MessageID:    msg.ID,
		ConnectionID: conn.ID + 5000,
	}))

	removed, err := svc.CleanupQueues(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = deliveryRepo.GetByID(ctx, keep.ID)
	assert.NoError(t, err, "有效投递不受清扫影响")
}
