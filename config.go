/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-18 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 16:42:11
 * @FilePath: \go-sio\config.go
 * @Description: Socket.IO 服务端核心配置结构体
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package sio

import "time"

// 协议默认值
// 注意：历史实现中 ping interval 存在 25000ms 与 60000ms 两套回退值，
// 本实现统一为 Socket.IO 官方默认 25000ms
const (
	DefaultPingInterval = 25 * time.Second // ping 间隔，同时是长轮询阻塞上限
	DefaultPingTimeout  = 20 * time.Second // ping 应答超时
	DefaultPollTimeout  = 20 * time.Second // 单次轮询超时，2 倍即传输过期阈值
	DefaultMaxPayload   = 1_000_000        // 单次响应最大载荷（字节）
	DefaultNamespace    = "/"              // 默认命名空间
)

// 生命周期默认值
const (
	DefaultLivenessWindow    = 30 * time.Second // 连接不活跃清理窗口
	DefaultDeliveryTimeout   = 60 * time.Second // 有待投递消息时允许的最长静默
	DefaultDeliveryRetention = 7                // 投递记录保留天数
	DefaultMessageRetention  = 7                // 消息记录保留天数
)

// Config 结构体表示 Socket.IO 服务端核心的配置
type Config struct {
	PingInterval      time.Duration // ping 间隔 / 长轮询阻塞上限
	PingTimeout       time.Duration // ping 应答超时，写入握手响应
	PollTimeout       time.Duration // 单次轮询超时
	MaxPayload        int           // 单次冲刷最大载荷（字节）
	Namespace         string        // 默认命名空间
	LivenessWindow    time.Duration // 心跳扫描的活跃窗口
	DeliveryTimeout   time.Duration // 投递超时阈值
	DeliveryRetention int           // 投递记录保留天数
	MessageRetention  int           // 消息记录保留天数
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		PingInterval:      DefaultPingInterval,
		PingTimeout:       DefaultPingTimeout,
		PollTimeout:       DefaultPollTimeout,
		MaxPayload:        DefaultMaxPayload,
		Namespace:         DefaultNamespace,
		LivenessWindow:    DefaultLivenessWindow,
		DeliveryTimeout:   DefaultDeliveryTimeout,
		DeliveryRetention: DefaultDeliveryRetention,
		MessageRetention:  DefaultMessageRetention,
	}
}

// WithPingInterval 设置 ping 间隔并返回当前配置对象
func (c *Config) WithPingInterval(d time.Duration) *Config {
	c.PingInterval = d
	return c
}

// WithPingTimeout 设置 ping 应答超时并返回当前配置对象
func (c *Config) WithPingTimeout(d time.Duration) *Config {
	c.PingTimeout = d
	return c
}

// WithPollTimeout 设置单次轮询超时并返回当前配置对象
func (c *Config) WithPollTimeout(d time.Duration) *Config {
	c.PollTimeout = d
	return c
}

// WithMaxPayload 设置最大载荷并返回当前配置对象
func (c *Config) WithMaxPayload(size int) *Config {
	c.MaxPayload = size
	return c
}

// WithNamespace 设置默认命名空间并返回当前配置对象
func (c *Config) WithNamespace(ns string) *Config {
	c.Namespace = ns
	return c
}

// WithLivenessWindow 设置活跃窗口并返回当前配置对象
func (c *Config) WithLivenessWindow(d time.Duration) *Config {
	c.LivenessWindow = d
	return c
}

// WithDeliveryTimeout 设置投递超时阈值并返回当前配置对象
func (c *Config) WithDeliveryTimeout(d time.Duration) *Config {
	c.DeliveryTimeout = d
	return c
}

// WithDeliveryRetention 设置投递记录保留天数并返回当前配置对象
func (c *Config) WithDeliveryRetention(days int) *Config {
	c.DeliveryRetention = days
	return c
}

// WithMessageRetention 设置消息记录保留天数并返回当前配置对象
func (c *Config) WithMessageRetention(days int) *Config {
	c.MessageRetention = days
	return c
}
