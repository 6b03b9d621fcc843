/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:15:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:30:27
 * @FilePath: \go-sio\exports_models.go
 * @Description: Models模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/models"
)

// ==================== 基础类型 ====================
type (
	IDGenerator       = models.IDGenerator
	HandshakeSnapshot = models.HandshakeSnapshot
)

// ==================== 实体类型 ====================
type (
	Connection     = models.Connection
	Room           = models.Room
	RoomConnection = models.RoomConnection
	Message        = models.Message
	MessageRoom    = models.MessageRoom
	Delivery       = models.Delivery
)

// ==================== 枚举类型 ====================
type (
	TransportType  = models.TransportType
	DeliveryStatus = models.DeliveryStatus
)

// ==================== 枚举常量 - TransportType ====================
const (
	TransportPolling   = models.TransportPolling
	TransportWebsocket = models.TransportWebsocket
)

// ==================== 枚举常量 - DeliveryStatus ====================
const (
	DeliveryStatusPending   = models.DeliveryStatusPending
	DeliveryStatusDelivered = models.DeliveryStatusDelivered
	DeliveryStatusFailed    = models.DeliveryStatusFailed
)
