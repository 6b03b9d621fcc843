/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-18 10:35:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-07-02 21:08:45
 * @FilePath: \go-sio\logger.go
 * @Description: go-sio 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import (
	"github.com/kamalyes/go-logger"
)

// SIOLogger 直接使用 go-logger.ILogger
type SIOLogger = logger.ILogger

// NewSIOLogger 创建新的 SIO 日志器，基于 go-logger
func NewSIOLogger(config *logger.LogConfig) SIOLogger {
	return logger.NewLogger(config)
}

// NewDefaultSIOLogger 创建默认配置的 SIO 日志器
func NewDefaultSIOLogger() SIOLogger {
	config := logger.DefaultConfig().
		WithLevel(logger.INFO).
		WithPrefix("[SIO] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat("2006-01-02 15:04:05")

	return logger.NewLogger(config)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() SIOLogger {
	return logger.NewEmptyLogger()
}

// 全局日志器
var (
	// DefaultLogger 默认日志器实例
	DefaultLogger SIOLogger = NewDefaultSIOLogger()

	// NoOpLoggerInstance 空日志器实例
	NoOpLoggerInstance SIOLogger = NewNoOpLogger()
)

// SetDefaultLogger 设置默认日志器
func SetDefaultLogger(l SIOLogger) {
	DefaultLogger = l
}
