/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-05 11:13:36
 * @FilePath: \go-sio\models\enums.go
 * @Description: 枚举定义 - 传输类型、投递状态
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/types"
)

// TransportType 传输类型
type TransportType string

const (
	TransportPolling   TransportType = "polling"   // HTTP 长轮询
	TransportWebsocket TransportType = "websocket" // WebSocket（并行传输，核心外）
)

// DeliveryStatus 投递状态
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"   // 待投递
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED" // 已投递
	DeliveryStatusFailed    DeliveryStatus = "FAILED"    // 投递失败
)

// 枚举验证器
var (
	TransportTypeValidator = types.NewEnumValidator(
		TransportPolling,
		TransportWebsocket,
	)

	DeliveryStatusValidator = types.NewEnumValidator(
		DeliveryStatusPending,
		DeliveryStatusDelivered,
		DeliveryStatusFailed,
	)
)

// IsValid 判断传输类型是否合法
func (t TransportType) IsValid() bool {
	return TransportTypeValidator.IsValid(t)
}

// IsValid 判断投递状态是否合法
func (s DeliveryStatus) IsValid() bool {
	return DeliveryStatusValidator.IsValid(s)
}

// IsTerminal 判断投递状态是否为终态
// FAILED 可经重试回到 PENDING，严格意义上只有 DELIVERED 不再被传输层改写
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered
}
