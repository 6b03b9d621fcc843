/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:50:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-07-03 18:21:40
 * @FilePath: \go-sio\models\types.go
 * @Description: 公共类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// IDGenerator ID生成器接口
// 用于生成会话ID、协议可见ID等唯一标识符
type IDGenerator interface {
	GenerateTraceID() string
	GenerateSpanID() string
	GenerateRequestID() string
	GenerateCorrelationID() string
}

// HandshakeSnapshot 握手快照，连接建立时采集的请求上下文
type HandshakeSnapshot struct {
	RemoteAddr string              `json:"remote_addr"`
	Headers    map[string]string   `json:"headers,omitempty"`
	Query      map[string][]string `json:"query,omitempty"`
	Issued     int64               `json:"issued"` // Unix 秒
}
