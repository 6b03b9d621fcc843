/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-20 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-07-15 13:21:08
 * @FilePath: \go-sio\models\room.go
 * @Description: 房间记录 - 命名空间内的扇出寻址分组
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// Room 房间记录
// (name, namespace) 逻辑唯一，由仓库 GetOrCreate 归一化保证，不加数据库唯一索引
type Room struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;comment:主键" json:"id"`
	Name      string    `gorm:"size:255;not null;index:idx_room_name_ns;comment:房间名" json:"name"`
	Namespace string    `gorm:"size:128;not null;default:'/';index:idx_room_name_ns;comment:命名空间" json:"namespace"`
	Metadata  string    `gorm:"type:text;comment:附加元数据JSON,可空" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:记录最后更新时间" json:"updated_at"`
}

// TableName 指定表名
func (Room) TableName() string {
	return "sio_rooms"
}

// TableComment 表注释
func (Room) TableComment() string {
	return "Socket.IO房间表-命名空间内的连接分组,用于消息扇出寻址"
}
