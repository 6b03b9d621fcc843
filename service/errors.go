/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-25 10:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-14 09:48:02
 * @FilePath: \go-sio\service\errors.go
 * @Description: 服务层错误定义 - 连接生命周期与投递状态错误
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package service

import (
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 服务层错误码
const (
	// 连接生命周期错误 (84100-84199)
	ErrTypeConnectionClosed   errorx.ErrorType = 84101 // 连接已关闭
	ErrTypeConnectionNotFound errorx.ErrorType = 84102 // 连接不存在

	// 投递错误 (84200-84299)
	ErrTypeDeliveryNotFound   errorx.ErrorType = 84201 // 投递记录不存在
	ErrTypeDeliveryNotPending errorx.ErrorType = 84202 // 投递记录已投递，不可重试

	// 依赖错误 (84300-84399)
	ErrTypeNotifierClosed errorx.ErrorType = 84302 // 通知器已关闭
)

func init() {
	errorx.RegisterError(ErrTypeConnectionClosed, "Connection closed")
	errorx.RegisterError(ErrTypeConnectionNotFound, "connection not found: %s")
	errorx.RegisterError(ErrTypeDeliveryNotFound, "delivery not found: %d")
	errorx.RegisterError(ErrTypeDeliveryNotPending, "delivery is not pending: %d")
	errorx.RegisterError(ErrTypeNotifierClosed, "delivery notifier is closed")
}
