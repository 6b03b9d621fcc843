/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-09 14:50:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-09-01 14:48:36
 * @FilePath: \go-sio\notifier_test.go
 * @Description: 投递唤醒通知器测试 - 本地扇出、释放与关闭语义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotifierWatchPublish 测试唤醒信号送达注册的等待方
func TestNotifierWatchPublish(t *testing.T) {
	n := NewDeliveryNotifier(nil, NoOpLoggerInstance)
	defer n.Close()
	ctx := context.Background()

	ch, release := n.Watch(ctx, "sess-1")
	defer release()

	require.NoError(t, n.Publish(ctx, "sess-1"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("等待方未收到唤醒信号")
	}

	t.Run("其他会话的发布不唤醒", func(t *testing.T) {
		require.NoError(t, n.Publish(ctx, "sess-2"))
		select {
		case <-ch:
			t.Fatal("不应收到其他会话的唤醒")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("无等待方时发布不阻塞", func(t *testing.T) {
		assert.NoError(t, n.Publish(ctx, "nobody-watching"))
	})
}

// TestNotifierCoalesce 测试连续发布在缓冲内合并而不丢唤醒
func TestNotifierCoalesce(t *testing.T) {
	n := NewDeliveryNotifier(nil, NoOpLoggerInstance)
	defer n.Close()
	ctx := context.Background()

	ch, release := n.Watch(ctx, "sess-1")
	defer release()

	// 等待方未消费时重复发布不会阻塞发布方
	require.NoError(t, n.Publish(ctx, "sess-1"))
	require.NoError(t, n.Publish(ctx, "sess-1"))
	require.NoError(t, n.Publish(ctx, "sess-1"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("合并后的唤醒信号丢失")
	}
}

// TestNotifierRelease 测试释放后不再收到唤醒
func TestNotifierRelease(t *testing.T) {
	n := NewDeliveryNotifier(nil, NoOpLoggerInstance)
	defer n.Close()
	ctx := context.Background()

	ch, release := n.Watch(ctx, "sess-1")
	release()

	require.NoError(t, n.Publish(ctx, "sess-1"))
	select {
	case <-ch:
		t.Fatal("释放后不应再收到唤醒")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestNotifierClose 测试关闭断开全部等待方并拒绝后续发布
func TestNotifierClose(t *testing.T) {
	n := NewDeliveryNotifier(nil, NoOpLoggerInstance)
	ctx := context.Background()

	ch, release := n.Watch(ctx, "sess-1")
	defer release()

	n.Close()

	_, ok := <-ch
	assert.False(t, ok, "关闭时等待通道被关闭")

	err := n.Publish(ctx, "sess-1")
	require.Error(t, err)
	assert.Equal(t, ErrTypeNotifierClosed, errorTypeOf(err))

	t.Run("重复关闭幂等", func(t *testing.T) {
		n.Close()
	})

	t.Run("关闭后注册立即得到已关闭通道", func(t *testing.T) {
		late, lateRelease := n.Watch(ctx, "sess-2")
		defer lateRelease()
		_, ok := <-late
		assert.False(t, ok)
	})

	t.Run("未配置PubSub时启动为no-op", func(t *testing.T) {
		assert.NoError(t, NewDeliveryNotifier(nil, nil).Start(ctx))
	})
}
