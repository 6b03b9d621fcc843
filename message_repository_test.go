/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-06 11:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-09-01 10:52:30
 * @FilePath: \go-sio\message_repository_test.go
 * @Description: 消息仓库测试 - 房间关联与按龄清理
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
)

// TestMessageCreateWithRooms 测试消息落库与目标房间关联
func TestMessageCreateWithRooms(t *testing.T) {
	db := GetTestDB(t)
	msgRepo := NewMessageRepository(db, NoOpLoggerInstance)
	roomRepo := NewRoomRepository(db, NoOpLoggerInstance)
	ctx := context.Background()

	lobby, err := roomRepo.GetOrCreate(ctx, "lobby", "/")
	require.NoError(t, err)
	news, err := roomRepo.GetOrCreate(ctx, "news", "/")
	require.NoError(t, err)

	msg := CreateTestMessage(t, db, "announce", `["maintenance"]`, []uint{lobby.ID, news.ID})
	assert.True(t, msg.IsSystem(), "无发送方连接的消息是系统消息")

	roomIDs, err := msgRepo.RoomIDs(ctx, msg.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{lobby.ID, news.ID}, roomIDs)

	t.Run("无房间关联的消息合法", func(t *testing.T) {
		p2p := CreateTestMessage(t, db, "whisper", `["psst"]`, nil)
		roomIDs, err := msgRepo.RoomIDs(ctx, p2p.ID)
		require.NoError(t, err)
		assert.Empty(t, roomIDs)
	})
}

// TestCleanupOldMessages 测试按保留期清理消息及其房间关联
func TestCleanupOldMessages(t *testing.T) {
	db := GetTestDB(t)
	msgRepo := NewMessageRepository(db, NoOpLoggerInstance)
	roomRepo := NewRoomRepository(db, NoOpLoggerInstance)
	ctx := context.Background()

	room, err := roomRepo.GetOrCreate(ctx, "archive", "/")
	require.NoError(t, err)

	old := &models.Message{
		Event:      "old",
		Data:       `[]`,
		CreateTime: time.Now().AddDate(0, 0, -10),
	}
	require.NoError(t, msgRepo.Create(ctx, old, []uint{room.ID}))
	fresh := CreateTestMessage(t, db, "fresh", `[]`, []uint{room.ID})

	removed, err := msgRepo.CleanupOldMessages(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = msgRepo.GetByID(ctx, old.ID)
	assert.Error(t, err, "过期消息应被删除")
	_, err = msgRepo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)

	var linkCount int64
	require.NoError(t, db.Model(&models.MessageRoom{}).
		Where("message_id = ?", old.ID).Count(&linkCount).Error)
	assert.Zero(t, linkCount, "房间关联应随消息一并删除")
}
