/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-06 10:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-09-01 10:22:18
 * @FilePath: \go-sio\room_repository_test.go
 * @Description: 房间仓库测试 - (name, namespace) 归一化与成员关系
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoomGetOrCreate 测试 (name, namespace) 逻辑唯一性
func TestRoomGetOrCreate(t *testing.T) {
	db := GetTestDB(t)
	repo := NewRoomRepository(db, NoOpLoggerInstance)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "lobby", "/")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	t.Run("重复获取返回同一房间", func(t *testing.T) {
		again, err := repo.GetOrCreate(ctx, "lobby", "/")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("空命名空间归一化为默认值", func(t *testing.T) {
		normalized, err := repo.GetOrCreate(ctx, "lobby", "")
		require.NoError(t, err)
		assert.Equal(t, first.ID, normalized.ID)
	})

	t.Run("不同命名空间是不同房间", func(t *testing.T) {
		admin, err := repo.GetOrCreate(ctx, "lobby", "/admin")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, admin.ID)
		assert.Equal(t, "/admin", admin.Namespace)
	})
}

// TestRoomMembership 测试成员加入、去重、查询与移除
func TestRoomMembership(t *testing.T) {
	db := GetTestDB(t)
	repo := NewRoomRepository(db, NoOpLoggerInstance)
	ctx := context.Background()

	room, err := repo.GetOrCreate(ctx, "chat", "/")
	require.NoError(t, err)
	other, err := repo.GetOrCreate(ctx, "news", "/")
	require.NoError(t, err)

	alice := CreateTestConnection(t, db)
	bob := CreateTestConnection(t, db)

	require.NoError(t, repo.AddMember(ctx, room.ID, alice.ID))
	require.NoError(t, repo.AddMember(ctx, room.ID, alice.ID)) // 幂等
	require.NoError(t, repo.AddMember(ctx, room.ID, bob.ID))
	require.NoError(t, repo.AddMember(ctx, other.ID, alice.ID))

	t.Run("成员列表去重", func(t *testing.T) {
		members, err := repo.Members(ctx, room.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("反向查询连接的房间", func(t *testing.T) {
		rooms, err := repo.RoomsOf(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})

	t.Run("移出单个房间", func(t *testing.T) {
		require.NoError(t, repo.RemoveMember(ctx, room.ID, bob.ID))
		members, err := repo.Members(ctx, room.ID)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})

	t.Run("移除全部成员关系", func(t *testing.T) {
		require.NoError(t, repo.RemoveAllMemberships(ctx, alice.ID))
		rooms, err := repo.RoomsOf(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})
}
