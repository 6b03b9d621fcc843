/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:42:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-11 10:55:33
 * @FilePath: \go-sio\models\message.go
 * @Description: 消息记录 - 事件名 + 有序JSON载荷,经房间扇出为投递
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// Message 消息记录
// 无关联房间的消息没有扇出投递（点对点发送时投递由调用方直接创建）
type Message struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;comment:主键" json:"id"`
	Event    string `gorm:"size:255;not null;index;comment:事件名" json:"event"`
	Data     string `gorm:"type:text;not null;comment:事件载荷,有序JSON数组文本" json:"data"`
	SenderID *uint  `gorm:"column:sender_id;index;comment:发送方连接ID,NULL表示系统消息" json:"sender_id,omitempty"`
	Metadata string `gorm:"type:text;comment:附加元数据JSON,可空" json:"metadata,omitempty"`

	CreateTime time.Time `gorm:"column:create_time;not null;index;comment:消息创建时间" json:"create_time"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "sio_messages"
}

// TableComment 表注释
func (Message) TableComment() string {
	return "Socket.IO消息表-事件载荷与发送方,按关联房间扇出为每接收方投递记录"
}

// IsSystem 判断是否为系统消息（无发送方连接）
func (m *Message) IsSystem() bool {
	return m.SenderID == nil
}

// MessageRoom 消息目标房间关系（Message ↔ Room 多对多 join 表）
type MessageRoom struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false;comment:消息ID" json:"message_id"`
	RoomID    uint      `gorm:"primaryKey;autoIncrement:false;comment:房间ID" json:"room_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:关联时间" json:"created_at"`
}

// TableName 指定表名
func (MessageRoom) TableName() string {
	return "sio_message_rooms"
}

// TableComment 表注释
func (MessageRoom) TableComment() string {
	return "Socket.IO消息目标房间关系表"
}
