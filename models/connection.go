/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:18:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-29 17:50:42
 * @FilePath: \go-sio\models\connection.go
 * @Description: Socket.IO 连接记录 - 每个逻辑客户端一行，状态全量落库
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// Connection Socket.IO 连接记录
// 存储是跨进程的唯一事实源：传输层每次请求都按 session_id 重新装载本记录，
// 进程内不缓存会话状态
type Connection struct {
	ID        uint   `gorm:"primaryKey;autoIncrement;comment:主键" json:"id"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex;comment:内部关联键,全局唯一" json:"session_id"`
	SocketID  string `gorm:"column:socket_id;size:64;not null;uniqueIndex;comment:协议可见ID,全局唯一" json:"socket_id"`
	Namespace string `gorm:"size:128;not null;default:'/';index;comment:命名空间" json:"namespace"`
	ClientID  string `gorm:"column:client_id;size:255;index;comment:应用层客户端标识,可空" json:"client_id,omitempty"`

	Transport TransportType `gorm:"size:16;not null;default:'polling';comment:传输类型 polling|websocket" json:"transport"`
	Connected bool          `gorm:"not null;default:true;index;comment:连接是否存活" json:"connected"`
	PollCount uint64        `gorm:"column:poll_count;not null;default:0;comment:GET轮询单调计数,首轮=1触发握手" json:"poll_count"`
	Handshake string        `gorm:"type:text;comment:连接时捕获的握手快照JSON(headers/address/query)" json:"handshake,omitempty"`

	LastPingTime    *time.Time `gorm:"column:last_ping_time;index;comment:最后一次下发PING的时间" json:"last_ping_time,omitempty"`
	LastActiveTime  *time.Time `gorm:"column:last_active_time;index;comment:最后一次收到客户端活动的时间" json:"last_active_time,omitempty"`
	LastDeliverTime *time.Time `gorm:"column:last_deliver_time;comment:最后一次成功冲刷投递的时间" json:"last_deliver_time,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:记录最后更新时间" json:"updated_at"`
}

// TableName 指定表名
func (Connection) TableName() string {
	return "sio_connections"
}

// TableComment 表注释
func (Connection) TableComment() string {
	return "Socket.IO连接表-每个逻辑客户端一行,会话状态跨进程共享的唯一事实源"
}

// IsFirstPoll 判断是否处于首轮握手（poll_count 自增后等于 1）
func (c *Connection) IsFirstPoll() bool {
	return c.PollCount == 1
}

// RoomConnection 房间成员关系（Connection ↔ Room 多对多 join 表）
// 反向引用由仓库显式维护，不依赖对象图副作用
type RoomConnection struct {
	RoomID       uint      `gorm:"primaryKey;autoIncrement:false;comment:房间ID" json:"room_id"`
	ConnectionID uint      `gorm:"primaryKey;autoIncrement:false;comment:连接ID" json:"connection_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:加入时间" json:"created_at"`
}

// TableName 指定表名
func (RoomConnection) TableName() string {
	return "sio_room_connections"
}

// TableComment 表注释
func (RoomConnection) TableComment() string {
	return "Socket.IO房间成员关系表"
}
