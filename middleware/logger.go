/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-28 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-18 11:52:06
 * @FilePath: \go-sio\middleware\logger.go
 * @Description: HTTP 请求日志中间件 - 方法、路径、状态、耗时
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package middleware

import (
	"net/http"
	"time"

	"github.com/kamalyes/go-logger"
)

// statusRecorder 捕获下游写入的状态码
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger 请求日志中间件
// 长轮询 GET 会长时间挂起，duration 反映的是挂起时长而非处理开销
func RequestLogger(log logger.ILogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.DebugKV("HTTP请求",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
