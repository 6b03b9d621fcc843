/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:36:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:38:21
 * @FilePath: \go-sio\exports_transport.go
 * @Description: Transport模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/transport"
)

// ==================== 传输类型 ====================
type (
	PollingTransport = transport.PollingTransport
	TransportOptions = transport.Options
	PacketHandler    = transport.PacketHandler
	Notifier         = transport.Notifier
)

// ==================== 常量 ====================
const CloseReason = transport.CloseReason

// ==================== 构造函数 ====================
var NewPollingTransport = transport.NewPollingTransport
