/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-10 16:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-09-01 16:10:29
 * @FilePath: \go-sio\sio_test.go
 * @Description: Server 装配测试 - 配置、建库、端到端收发闭环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewServer 测试服务端装配
func TestNewServer(t *testing.T) {
	t.Run("缺失数据库拒绝装配", func(t *testing.T) {
		_, err := NewServer(nil, nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, ErrTypeRepositoryNotSet, errorTypeOf(err))
	})

	t.Run("空配置回退默认值", func(t *testing.T) {
		db := GetTestDB(t)
		server, err := NewServer(db, nil, nil, NoOpLoggerInstance)
		require.NoError(t, err)
		defer server.Close()

		assert.Equal(t, DefaultPingInterval, server.Config().PingInterval)
		assert.Equal(t, DefaultNamespace, server.Config().Namespace)
		assert.NotNil(t, server.Handler())
	})

	t.Run("单节点启动为no-op", func(t *testing.T) {
		db := GetTestDB(t)
		server, err := NewServer(db, nil, nil, NoOpLoggerInstance)
		require.NoError(t, err)
		defer server.Close()

		assert.NoError(t, server.Start(context.Background()))
	})
}

// TestConfigBuilder 测试链式配置
func TestConfigBuilder(t *testing.T) {
	cfg := NewDefaultConfig().
		WithPingInterval(10 * time.Second).
		WithNamespace("/admin").
		WithDeliveryRetention(3)

	assert.Equal(t, 10*time.Second, cfg.PingInterval)
	assert.Equal(t, "/admin", cfg.Namespace)
	assert.Equal(t, 3, cfg.DeliveryRetention)
	assert.Equal(t, DefaultMaxPayload, cfg.MaxPayload, "未覆盖的字段保持默认值")
}

// TestServerEndToEnd 测试 握手→服务端发信→轮询收信 的完整闭环
func TestServerEndToEnd(t *testing.T) {
	db := GetTestDB(t)
	cfg := NewDefaultConfig().WithPingInterval(5 * time.Second)
	server, err := NewServer(db, cfg, nil, NoOpLoggerInstance)
	require.NoError(t, err)
	defer server.Close()
	require.NoError(t, server.Start(context.Background()))

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()
	client := ts.Client()
	ctx := context.Background()

	// 握手建连
	resp, err := client.Get(ts.URL + "/socket.io/?EIO=4&transport=polling")
	require.NoError(t, err)
	raw := readBody(t, resp)
	packet, err := protocol.DecodeEnginePacket(raw)
	require.NoError(t, err)
	require.Equal(t, protocol.EngineOpen, packet.Type)

	hs, err := protocol.DecodeHandshake(packet.Data)
	require.NoError(t, err)

	conn, err := server.ConnRepo.GetBySocketID(ctx, hs.SID)
	require.NoError(t, err)

	// 保持 PING 新鲜，使下一次轮询进入等待/冲刷路径
	require.NoError(t, server.ConnRepo.TouchPing(ctx, conn.SessionID, time.Now()))

	// 服务端点对点发信
	require.NoError(t, server.Delivery.SendToConnection(ctx, conn.SessionID, "welcome", `["hi"]`))

	// 轮询收信
	resp, err = client.Get(ts.URL + "/socket.io/?EIO=4&transport=polling&sid=" + conn.SessionID)
	require.NoError(t, err)
	flushed := readBody(t, resp)
	assert.Equal(t, `42["welcome","hi"]`, flushed)

	pending, err := server.DeliveryRepo.GetPending(ctx, conn.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "冲刷后队列应为空")

	// 客户端上行 PONG
	resp, err = client.Post(
		ts.URL+"/socket.io/?EIO=4&transport=polling&sid="+conn.SessionID,
		"text/plain; charset=UTF-8",
		strings.NewReader("3"),
	)
	require.NoError(t, err)
	assert.Equal(t, "ok", readBody(t, resp))

	// 心跳周期对健康连接无副作用
	reached, err := server.RunHeartbeat(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reached, 1)

	survivor, err := server.ConnRepo.GetBySessionID(ctx, conn.SessionID)
	require.NoError(t, err)
	assert.True(t, survivor.Connected)
}

// TestAutoMigrate 测试建表幂等
func TestAutoMigrate(t *testing.T) {
	db := GetTestDB(t) // 内部已执行过一次 AutoMigrate
	require.NoError(t, AutoMigrate(db), "重复建表必须幂等")
	assert.True(t, db.Migrator().HasTable(&models.Connection{}))
	assert.True(t, db.Migrator().HasTable(&models.Delivery{}))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
