/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-19 10:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-07-28 18:40:09
 * @FilePath: \go-sio\protocol\payload.go
 * @Description: Engine.IO 载荷编解码 - 多帧以 0x1e 记录分隔符拼接
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"strings"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// PayloadSeparator Engine.IO v4 载荷记录分隔符
const PayloadSeparator = "\x1e"

// EncodePayload 将多个 Engine.IO 帧编码为一个 HTTP 响应体
func EncodePayload(packets []*EnginePacket) string {
	if len(packets) == 0 {
		return ""
	}
	frames := make([]string, 0, len(packets))
	for _, p := range packets {
		frames = append(frames, p.Encode())
	}
	return strings.Join(frames, PayloadSeparator)
}

// DecodePayload 将 HTTP 请求体拆分为多个 Engine.IO 帧
// 任一帧非法即整体失败，调用方应按无效载荷处理
func DecodePayload(body string) ([]*EnginePacket, error) {
	if body == "" {
		return nil, errorx.NewError(ErrTypeEmptyPacket)
	}

	frames := strings.Split(body, PayloadSeparator)
	packets := make([]*EnginePacket, 0, len(frames))
	for _, frame := range frames {
		packet, err := DecodeEnginePacket(frame)
		if err != nil {
			return nil, err
		}
		packets = append(packets, packet)
	}
	return packets, nil
}
