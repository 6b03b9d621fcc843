/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-29 09:48:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-06 14:41:33
 * @FilePath: \go-sio\exports_handler.go
 * @Description: Handler模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/handler"
)

// ==================== 端点类型 ====================
type (
	SocketIOHandler = handler.SocketIOHandler
	HandlerOptions  = handler.Options
)

// ==================== 构造函数 ====================
var NewSocketIOHandler = handler.NewSocketIOHandler
