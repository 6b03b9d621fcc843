/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-19 09:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-20 15:02:17
 * @FilePath: \go-sio\protocol\socketio.go
 * @Description: Socket.IO 包编解码 - 帧序 <type>[<ns>,][<ackId>][<data>]
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"strconv"
	"strings"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// SocketPacketType Socket.IO 包类型
type SocketPacketType byte

const (
	SocketConnect SocketPacketType = iota
	SocketDisconnect
	SocketEvent
	SocketAck
	SocketError
)

// binaryOffset 二进制包在线上表示为基础类型位 +3
// （EVENT+binary ⇒ 5，ACK+binary ⇒ 6），解码时还原并置 IsBinary
const binaryOffset = 3

// String 返回包类型名称
func (pt SocketPacketType) String() string {
	switch pt {
	case SocketConnect:
		return "connect"
	case SocketDisconnect:
		return "disconnect"
	case SocketEvent:
		return "event"
	case SocketAck:
		return "ack"
	case SocketError:
		return "error"
	default:
		return "unknown(" + strconv.Itoa(int(pt)) + ")"
	}
}

// SocketPacket Socket.IO 包
// AckID 为 nil 表示帧中无 ack id；Data 为空字符串表示帧中无载荷
type SocketPacket struct {
	Type      SocketPacketType
	Namespace string // 空或 "/" 表示默认命名空间
	AckID     *uint64
	Data      string // 原始 JSON 文本，编解码层不解析
	IsBinary  bool   // BINARY_EVENT / BINARY_ACK 标记
}

// Encode 编码为文本帧
// 命名空间为默认 "/" 时省略；存在时以逗号结尾；ackId 与 data 之间无分隔符
func (p *SocketPacket) Encode() string {
	var builder strings.Builder

	digit := byte(p.Type)
	if p.IsBinary {
		digit += binaryOffset
	}
	builder.WriteByte('0' + digit)

	if p.Namespace != "" && p.Namespace != "/" {
		builder.WriteString(p.Namespace)
		builder.WriteByte(',')
	}

	if p.AckID != nil {
		builder.WriteString(strconv.FormatUint(*p.AckID, 10))
	}

	builder.WriteString(p.Data)

	return builder.String()
}

// DecodeSocketPacket 从文本帧解码 Socket.IO 包
// 解析顺序：类型位（>3 减 3 并置 IsBinary）→ 命名空间（'/' 开头扫描至逗号）→
// 贪婪消费连续数字作为 ack id → 剩余字节即 data
func DecodeSocketPacket(data string) (*SocketPacket, error) {
	if len(data) == 0 {
		return nil, errorx.NewError(ErrTypeEmptyPacket)
	}

	if data[0] < '0' || data[0] > '6' {
		return nil, errorx.NewError(ErrTypeInvalidPacketType, string(data[0]))
	}

	packet := &SocketPacket{}
	digit := data[0] - '0'
	if digit > byte(SocketAck) {
		digit -= binaryOffset
		packet.IsBinary = true
	}
	packet.Type = SocketPacketType(digit)
	pos := 1

	if pos < len(data) && data[pos] == '/' {
		end := strings.IndexByte(data[pos:], ',')
		if end == -1 {
			// 无逗号：整个剩余部分都是命名空间
			packet.Namespace = data[pos:]
			return packet, nil
		}
		packet.Namespace = data[pos : pos+end]
		pos += end + 1
	}

	if pos < len(data) && data[pos] >= '0' && data[pos] <= '9' {
		end := pos
		for end < len(data) && data[end] >= '0' && data[end] <= '9' {
			end++
		}
		id, err := strconv.ParseUint(data[pos:end], 10, 64)
		if err != nil {
			return nil, errorx.WrapError("failed to parse ack id", err)
		}
		packet.AckID = &id
		pos = end
	}

	if pos < len(data) {
		packet.Data = data[pos:]
	}

	return packet, nil
}

// NewEventPacket 构造 EVENT 包
func NewEventPacket(namespace string, ackID *uint64, data string, isBinary bool) *SocketPacket {
	return &SocketPacket{
		Type:      SocketEvent,
		Namespace: namespace,
		AckID:     ackID,
		Data:      data,
		IsBinary:  isBinary,
	}
}

// NewAckPacket 构造 ACK 包
func NewAckPacket(namespace string, ackID uint64, data string, isBinary bool) *SocketPacket {
	return &SocketPacket{
		Type:      SocketAck,
		Namespace: namespace,
		AckID:     &ackID,
		Data:      data,
		IsBinary:  isBinary,
	}
}

// NewErrorPacket 构造 ERROR 包
// ERROR 包仅由服务端构造下发，不出现在解码路径的常规用法中
func NewErrorPacket(namespace string, data string) *SocketPacket {
	return &SocketPacket{
		Type:      SocketError,
		Namespace: namespace,
		Data:      data,
	}
}
