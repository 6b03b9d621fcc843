/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-05 10:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-22 11:30:08
 * @FilePath: \go-sio\protocol\payload_test.go
 * @Description: Engine.IO 载荷与 EVENT 载荷编解码测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPayloadMultiFrame 测试多帧以 0x1e 分隔符拼接与拆分
func TestPayloadMultiFrame(t *testing.T) {
	packets := []*EnginePacket{
		{Type: EnginePong},
		{Type: EngineMessage, Data: []byte(`2["chat","hi"]`)},
		{Type: EngineClose},
	}

	body := EncodePayload(packets)
	assert.Equal(t, "3\x1e42[\"chat\",\"hi\"]\x1e1", body)

	decoded, err := DecodePayload(body)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, EnginePong, decoded[0].Type)
	assert.Equal(t, EngineMessage, decoded[1].Type)
	assert.Equal(t, []byte(`2["chat","hi"]`), decoded[1].Data)
	assert.Equal(t, EngineClose, decoded[2].Type)
}

// TestPayloadSingleFrame 测试单帧无分隔符
func TestPayloadSingleFrame(t *testing.T) {
	body := EncodePayload([]*EnginePacket{{Type: EnginePing}})
	assert.Equal(t, "2", body)

	decoded, err := DecodePayload(body)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, EnginePing, decoded[0].Type)
}

// TestDecodePayloadInvalid 测试任一帧非法即整体失败
func TestDecodePayloadInvalid(t *testing.T) {
	_, err := DecodePayload("")
	assert.Error(t, err)

	_, err = DecodePayload("2\x1ex\x1e3")
	assert.Error(t, err, "中间帧非法应整体失败")
}

// TestEventPayload 测试事件名与参数数组的拼装与拆解
func TestEventPayload(t *testing.T) {
	t.Run("带参数", func(t *testing.T) {
		payload, err := EncodeEventPayload("chat", `["a",1]`)
		require.NoError(t, err)
		assert.Equal(t, `["chat","a",1]`, payload)

		event, args, err := DecodeEventPayload(payload)
		require.NoError(t, err)
		assert.Equal(t, "chat", event)
		assert.Equal(t, `["a",1]`, args)
	})

	t.Run("无参数", func(t *testing.T) {
		payload, err := EncodeEventPayload("ping", "")
		require.NoError(t, err)
		assert.Equal(t, `["ping"]`, payload)

		event, args, err := DecodeEventPayload(payload)
		require.NoError(t, err)
		assert.Equal(t, "ping", event)
		assert.Equal(t, "[]", args)
	})

	t.Run("非法参数数组", func(t *testing.T) {
		_, err := EncodeEventPayload("chat", `{"not":"array"}`)
		assert.Error(t, err)
	})

	t.Run("非法载荷", func(t *testing.T) {
		_, _, err := DecodeEventPayload(`[]`)
		assert.Error(t, err, "空数组没有事件名")

		_, _, err = DecodeEventPayload(`[42]`)
		assert.Error(t, err, "事件名必须是字符串")
	})
}
