/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:55:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-29 18:12:04
 * @FilePath: \go-sio\models\delivery.go
 * @Description: 投递记录 - (Message, Connection) 至少一次投递追踪的唯一单元
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// Delivery 投递记录
// 每条属于且仅属于一个 Message 和一个 Connection；除本记录外无去重，
// 重投失败投递对模型幂等（传输层可能重复送达同一事件数据）
type Delivery struct {
	ID           uint `gorm:"primaryKey;autoIncrement;comment:主键" json:"id"`
	MessageID    uint `gorm:"column:message_id;not null;index;comment:消息ID" json:"message_id"`
	ConnectionID uint `gorm:"column:connection_id;not null;index:idx_delivery_conn_status;comment:接收方连接ID" json:"connection_id"`

	Status      DeliveryStatus `gorm:"size:16;not null;default:'PENDING';index:idx_delivery_conn_status;comment:投递状态 PENDING|DELIVERED|FAILED" json:"status"`
	Retries     int            `gorm:"not null;default:0;comment:重试次数,只增不减" json:"retries"`
	Error       string         `gorm:"size:512;comment:失败原因,可空" json:"error,omitempty"`
	DeliveredAt *time.Time     `gorm:"column:delivered_at;comment:状态转入DELIVERED的时刻,重入时重戳" json:"delivered_at,omitempty"`

	CreateTime time.Time `gorm:"column:create_time;not null;index;comment:创建时间,接收方FIFO排序键" json:"create_time"`
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "sio_deliveries"
}

// TableComment 表注释
func (Delivery) TableComment() string {
	return "Socket.IO投递表-每(消息,接收连接)一行,至少一次投递追踪与失败原因"
}

// IsPending 判断是否处于待投递状态
func (d *Delivery) IsPending() bool {
	return d.Status == DeliveryStatusPending
}

// MarkDelivered 置为已投递并重戳投递时间
// 从任何状态重入 DELIVERED 都会重新盖时间戳
func (d *Delivery) MarkDelivered(now time.Time) {
	d.Status = DeliveryStatusDelivered
	d.DeliveredAt = &now
}

// MarkFailed 置为失败并记录可读原因
func (d *Delivery) MarkFailed(reason string) {
	d.Status = DeliveryStatusFailed
	d.Error = reason
}

// MarkRetry 重试：次数自增并回到待投递，不触碰 delivered_at
func (d *Delivery) MarkRetry() {
	d.Retries++
	d.Status = DeliveryStatusPending
}
