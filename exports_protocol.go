/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:22:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:33:12
 * @FilePath: \go-sio\exports_protocol.go
 * @Description: Protocol模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/protocol"
)

// ==================== 包类型 ====================
type (
	EnginePacket     = protocol.EnginePacket
	EnginePacketType = protocol.EnginePacketType
	SocketPacket     = protocol.SocketPacket
	SocketPacketType = protocol.SocketPacketType
	Handshake        = protocol.Handshake
)

// ==================== Engine.IO 包类型常量 ====================
const (
	EngineOpen    = protocol.EngineOpen
	EngineClose   = protocol.EngineClose
	EnginePing    = protocol.EnginePing
	EnginePong    = protocol.EnginePong
	EngineMessage = protocol.EngineMessage
	EngineUpgrade = protocol.EngineUpgrade
	EngineNoop    = protocol.EngineNoop
)

// ==================== Socket.IO 包类型常量 ====================
const (
	SocketConnect    = protocol.SocketConnect
	SocketDisconnect = protocol.SocketDisconnect
	SocketEvent      = protocol.SocketEvent
	SocketAck        = protocol.SocketAck
	SocketError      = protocol.SocketError
)

// ==================== 载荷常量 ====================
const PayloadSeparator = protocol.PayloadSeparator

// ==================== 编解码函数 ====================
var (
	DecodeEnginePacket = protocol.DecodeEnginePacket
	DecodeSocketPacket = protocol.DecodeSocketPacket
	EncodeHandshake    = protocol.EncodeHandshake
	DecodeHandshake    = protocol.DecodeHandshake
	EncodePayload      = protocol.EncodePayload
	DecodePayload      = protocol.DecodePayload
	EncodeEventPayload = protocol.EncodeEventPayload
	DecodeEventPayload = protocol.DecodeEventPayload
	NewEventPacket     = protocol.NewEventPacket
	NewAckPacket       = protocol.NewAckPacket
	NewErrorPacket     = protocol.NewErrorPacket
)
