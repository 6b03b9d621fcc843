/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-18 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-14 09:31:27
 * @FilePath: \go-sio\errors.go
 * @Description: Socket.IO 服务端错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-sio/handler"
	"github.com/kamalyes/go-sio/service"
	"github.com/kamalyes/go-sio/transport"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// Socket.IO 服务端错误码常量定义
// 使用 84xxx 区间，避免与其他包冲突（SIO = Socket.IO）
// 会话/方法错误 (84001/84006) 由 transport 包定义并注册，此处转发别名；
// 包编解码错误 (84404-84407) 由 protocol 包定义并注册，同样属于客户端输入错误
const (
	ErrTypeInvalidSession   = transport.ErrTypeInvalidSession
	ErrTypeMethodNotAllowed = transport.ErrTypeMethodNotAllowed

	// 协议/输入错误 (84000-84099) - 客户端导致，映射为 HTTP 4xx
	ErrTypeInvalidTransport = handler.ErrTypeInvalidTransport
	ErrTypeInvalidPayload   = handler.ErrTypeInvalidPayload
	ErrTypeMissingSession   = handler.ErrTypeMissingSession

	// 连接生命周期/投递/通知器错误由 service 包定义并注册
	ErrTypeConnectionClosed   = service.ErrTypeConnectionClosed
	ErrTypeConnectionNotFound = service.ErrTypeConnectionNotFound
	ErrTypeDeliveryNotFound   = service.ErrTypeDeliveryNotFound
	ErrTypeDeliveryNotPending = service.ErrTypeDeliveryNotPending
	ErrTypeNotifierClosed     = service.ErrTypeNotifierClosed

	// 依赖/配置错误 (84300-84399)
	ErrTypeRepositoryNotSet ErrorType = 84301 // 仓库未设置
)

// init 初始化所有错误类型注册
// 注意：在运行多个测试包时，可能会看到 "ErrorType XXX is already registered" 的警告信息
// 这是正常现象，errorx包内部会忽略重复注册
func init() {
	// 注册依赖/配置错误
	errorx.RegisterError(ErrTypeRepositoryNotSet, "repository is not set")
}

// 错误变量定义
var (
	ErrInvalidPayload   = errorx.NewError(ErrTypeInvalidPayload)
	ErrMethodNotAllowed = errorx.NewError(ErrTypeMethodNotAllowed)
	ErrConnectionClosed = errorx.NewError(ErrTypeConnectionClosed)
	ErrRepositoryNotSet = errorx.NewError(ErrTypeRepositoryNotSet)
	ErrNotifierClosed   = errorx.NewError(ErrTypeNotifierClosed)
)

// IsClientError 判断错误是否由客户端输入导致（应映射为 HTTP 4xx）
// 覆盖会话/传输输入错误区间 (84000-84099) 与协议编解码错误区间 (84400-84499)
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ GetType() ErrorType }); ok {
		errType := errxErr.GetType()
		return (errType >= 84000 && errType < 84100) ||
			(errType >= 84400 && errType < 84500)
	}
	return err == ErrInvalidPayload || err == ErrMethodNotAllowed
}

// IsInvalidSessionError 判断是否为无效会话错误
func IsInvalidSessionError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ GetType() ErrorType }); ok {
		return errxErr.GetType() == ErrTypeInvalidSession
	}
	return false
}

// IsMethodNotAllowedError 判断是否为不支持方法错误
func IsMethodNotAllowedError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ GetType() ErrorType }); ok {
		return errxErr.GetType() == ErrTypeMethodNotAllowed
	}
	return err == ErrMethodNotAllowed
}
