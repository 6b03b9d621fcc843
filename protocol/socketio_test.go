/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-05 09:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-22 11:02:15
 * @FilePath: \go-sio\protocol\socketio_test.go
 * @Description: Socket.IO 包编解码测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSocketPacketEncodeWire 测试编码的线上精确值
func TestSocketPacketEncodeWire(t *testing.T) {
	ackID := uint64(25)

	tests := []struct {
		name     string
		packet   *SocketPacket
		expected string
	}{
		{
			"EVENT带命名空间和ackId",
			NewEventPacket("/admin", &ackID, `["test"]`, false),
			`2/admin,25["test"]`,
		},
		{
			"EVENT默认命名空间",
			NewEventPacket("/", nil, `["hello"]`, false),
			`2["hello"]`,
		},
		{
			"EVENT空命名空间等价默认",
			NewEventPacket("", nil, `["hello"]`, false),
			`2["hello"]`,
		},
		{
			"ACK带ackId",
			NewAckPacket("/", 13, `["ok"]`, false),
			`313["ok"]`,
		},
		{
			"二进制EVENT类型位加3",
			NewEventPacket("", nil, `["b"]`, true),
			`5["b"]`,
		},
		{
			"二进制ACK类型位加3",
			NewAckPacket("", 15, `["response"]`, true),
			`615["response"]`,
		},
		{
			"ERROR包",
			NewErrorPacket("/admin", `{"message":"denied"}`),
			`4/admin,{"message":"denied"}`,
		},
		{
			"CONNECT无载荷",
			&SocketPacket{Type: SocketConnect},
			"0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.packet.Encode())
		})
	}
}

// TestDecodeSocketPacketWire 测试解码的线上精确值
func TestDecodeSocketPacketWire(t *testing.T) {
	t.Run("二进制ACK还原类型与标记", func(t *testing.T) {
		packet, err := DecodeSocketPacket(`615["response"]`)
		require.NoError(t, err)
		assert.Equal(t, SocketAck, packet.Type)
		assert.True(t, packet.IsBinary)
		require.NotNil(t, packet.AckID)
		assert.Equal(t, uint64(15), *packet.AckID)
		assert.Equal(t, `["response"]`, packet.Data)
	})

	t.Run("EVENT带命名空间和ackId", func(t *testing.T) {
		packet, err := DecodeSocketPacket(`2/admin,25["test"]`)
		require.NoError(t, err)
		assert.Equal(t, SocketEvent, packet.Type)
		assert.False(t, packet.IsBinary)
		assert.Equal(t, "/admin", packet.Namespace)
		require.NotNil(t, packet.AckID)
		assert.Equal(t, uint64(25), *packet.AckID)
		assert.Equal(t, `["test"]`, packet.Data)
	})

	t.Run("CONNECT单字符", func(t *testing.T) {
		packet, err := DecodeSocketPacket("0")
		require.NoError(t, err)
		assert.Equal(t, SocketConnect, packet.Type)
		assert.Empty(t, packet.Namespace)
		assert.Nil(t, packet.AckID)
		assert.Empty(t, packet.Data)
	})

	t.Run("命名空间无逗号时剩余全是命名空间", func(t *testing.T) {
		packet, err := DecodeSocketPacket("1/admin")
		require.NoError(t, err)
		assert.Equal(t, SocketDisconnect, packet.Type)
		assert.Equal(t, "/admin", packet.Namespace)
	})

	t.Run("贪婪消费连续数字作为ackId", func(t *testing.T) {
		packet, err := DecodeSocketPacket(`31234["late"]`)
		require.NoError(t, err)
		require.NotNil(t, packet.AckID)
		assert.Equal(t, uint64(1234), *packet.AckID)
		assert.Equal(t, `["late"]`, packet.Data)
	})

	t.Run("空帧报错", func(t *testing.T) {
		_, err := DecodeSocketPacket("")
		assert.Error(t, err)
	})

	t.Run("非法类型位报错", func(t *testing.T) {
		_, err := DecodeSocketPacket("7x")
		assert.Error(t, err)
	})
}

// TestSocketPacketRoundTrip 测试构造器可达组合的编解码双程
func TestSocketPacketRoundTrip(t *testing.T) {
	ackID := uint64(42)

	packets := []*SocketPacket{
		NewEventPacket("/chat", &ackID, `["msg","hi"]`, false),
		NewEventPacket("", nil, `["msg"]`, true),
		NewAckPacket("/chat", 7, `[]`, false),
		NewAckPacket("", 0, `["zero"]`, true),
	}

	for _, original := range packets {
		decoded, err := DecodeSocketPacket(original.Encode())
		require.NoError(t, err)
		assert.Equal(t, original.Type, decoded.Type)
		assert.Equal(t, original.IsBinary, decoded.IsBinary)
		assert.Equal(t, original.Data, decoded.Data)
		if original.AckID != nil {
			require.NotNil(t, decoded.AckID)
			assert.Equal(t, *original.AckID, *decoded.AckID)
		}
	}
}
