/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:42:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:40:02
 * @FilePath: \go-sio\exports_service.go
 * @Description: Service模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/service"
)

// ==================== 服务类型 ====================
type (
	DeliveryService  = service.DeliveryService
	HeartbeatService = service.HeartbeatService
	HeartbeatOptions = service.HeartbeatOptions
	DeliveryNotifier = service.DeliveryNotifier
	LivenessVerdict  = service.LivenessVerdict
	LivenessStatus   = service.LivenessStatus
)

// ==================== 活性状态常量 ====================
const (
	LivenessOK              = service.LivenessOK
	LivenessPingTimeout     = service.LivenessPingTimeout
	LivenessDeliveryTimeout = service.LivenessDeliveryTimeout
)

// ==================== 事件常量 ====================
const AliveEvent = service.AliveEvent

// ==================== 构造函数 ====================
var (
	NewDeliveryService  = service.NewDeliveryService
	NewHeartbeatService = service.NewHeartbeatService
	NewDeliveryNotifier = service.NewDeliveryNotifier
)
