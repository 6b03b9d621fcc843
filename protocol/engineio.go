/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-19 09:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-20 14:23:51
 * @FilePath: \go-sio\protocol\engineio.go
 * @Description: Engine.IO 包编解码 - 文本帧 "<typeDigit><data>"
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"
	"strconv"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 协议编解码错误码 (84400-84499)
const (
	ErrTypeEmptyPacket       errorx.ErrorType = 84405 // 空包
	ErrTypeInvalidPacketType errorx.ErrorType = 84404 // 无效包类型
	ErrTypeInvalidHandshake  errorx.ErrorType = 84406 // 无效握手载荷
)

func init() {
	errorx.RegisterError(ErrTypeEmptyPacket, "empty packet")
	errorx.RegisterError(ErrTypeInvalidPacketType, "invalid packet type: %s")
	errorx.RegisterError(ErrTypeInvalidHandshake, "invalid handshake payload")
}

// EnginePacketType Engine.IO 包类型
type EnginePacketType byte

const (
	EngineOpen EnginePacketType = iota
	EngineClose
	EnginePing
	EnginePong
	EngineMessage
	EngineUpgrade
	EngineNoop
)

// String 返回包类型名称
func (pt EnginePacketType) String() string {
	switch pt {
	case EngineOpen:
		return "open"
	case EngineClose:
		return "close"
	case EnginePing:
		return "ping"
	case EnginePong:
		return "pong"
	case EngineMessage:
		return "message"
	case EngineUpgrade:
		return "upgrade"
	case EngineNoop:
		return "noop"
	default:
		return "unknown(" + strconv.Itoa(int(pt)) + ")"
	}
}

// EnginePacket Engine.IO 包
// Data 为 nil 表示帧中无载荷（单字符帧），与空字符串语义不同
type EnginePacket struct {
	Type EnginePacketType
	Data []byte
}

// Encode 编码为文本帧：类型位 + 可选载荷
func (p *EnginePacket) Encode() string {
	if len(p.Data) == 0 {
		return string('0' + byte(p.Type))
	}
	buf := make([]byte, 0, len(p.Data)+1)
	buf = append(buf, '0'+byte(p.Type))
	buf = append(buf, p.Data...)
	return string(buf)
}

// DecodeEnginePacket 从文本帧解码 Engine.IO 包
// 单字符帧解码后 Data 必须为 nil，而非空切片
func DecodeEnginePacket(data string) (*EnginePacket, error) {
	if len(data) == 0 {
		return nil, errorx.NewError(ErrTypeEmptyPacket)
	}

	typeChar := data[0]
	if typeChar < '0' || typeChar > '6' {
		return nil, errorx.NewError(ErrTypeInvalidPacketType, string(typeChar))
	}

	packet := &EnginePacket{
		Type: EnginePacketType(typeChar - '0'),
	}

	if len(data) > 1 {
		packet.Data = []byte(data[1:])
	}

	return packet, nil
}

// Handshake Engine.IO 握手描述符，OPEN 包的 JSON 载荷
type Handshake struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"` // 毫秒
	PingTimeout  int      `json:"pingTimeout"`  // 毫秒
	MaxPayload   int      `json:"maxPayload,omitempty"`
}

// EncodeHandshake 构造携带握手载荷的 OPEN 帧
// 长轮询为唯一深度建模传输，upgrades 固定为空列表
func EncodeHandshake(sid string, pingInterval, pingTimeout, maxPayload int) (string, error) {
	data, err := json.Marshal(&Handshake{
		SID:          sid,
		Upgrades:     []string{},
		PingInterval: pingInterval,
		PingTimeout:  pingTimeout,
		MaxPayload:   maxPayload,
	})
	if err != nil {
		return "", errorx.WrapError("failed to marshal handshake", err)
	}

	packet := &EnginePacket{Type: EngineOpen, Data: data}
	return packet.Encode(), nil
}

// DecodeHandshake 从 OPEN 包载荷解析握手描述符
func DecodeHandshake(data []byte) (*Handshake, error) {
	var hs Handshake
	if err := json.Unmarshal(data, &hs); err != nil {
		return nil, errorx.NewError(ErrTypeInvalidHandshake)
	}
	return &hs, nil
}
