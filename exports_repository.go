/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:35:49
 * @FilePath: \go-sio\exports_repository.go
 * @Description: Repository模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/repository"
)

// ==================== 仓储接口 ====================
type (
	ConnectionRepository = repository.ConnectionRepository
	RoomRepository       = repository.RoomRepository
	MessageRepository    = repository.MessageRepository
	DeliveryRepository   = repository.DeliveryRepository
	DeliveryQueryOptions = repository.DeliveryQueryOptions
)

// ==================== 构造函数 ====================
var (
	NewConnectionRepository = repository.NewConnectionRepository
	NewRoomRepository       = repository.NewRoomRepository
	NewMessageRepository    = repository.NewMessageRepository
	NewDeliveryRepository   = repository.NewDeliveryRepository
)
