/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-21 11:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-12 09:27:44
 * @FilePath: \go-sio\repository\room_repository.go
 * @Description: 房间仓库 - (name, namespace) 归一化与成员关系维护
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"gorm.io/gorm"
)

// RoomRepository 房间仓储接口
// "加入房间维护反向引用"之类的对象图副作用在这里是显式的两步仓库操作
type RoomRepository interface {
	// GetOrCreate 按 (name, namespace) 归一化获取或创建房间
	GetOrCreate(ctx context.Context, name, namespace string) (*models.Room, error)

	// GetByName 按 (name, namespace) 查找房间
	GetByName(ctx context.Context, name, namespace string) (*models.Room, error)

	// AddMember 将连接加入房间（幂等）
	AddMember(ctx context.Context, roomID, connectionID uint) error

	// RemoveMember 将连接移出房间
	RemoveMember(ctx context.Context, roomID, connectionID uint) error

	// Members 获取房间全部成员连接
	Members(ctx context.Context, roomID uint) ([]*models.Connection, error)

	// RoomsOf 获取连接加入的全部房间
	RoomsOf(ctx context.Context, connectionID uint) ([]*models.Room, error)

	// RemoveAllMemberships 移除连接的全部房间成员关系
	RemoveAllMemberships(ctx context.Context, connectionID uint) error
}

// gormRoomRepository GORM 实现
type gormRoomRepository struct {
	db     *gorm.DB
	logger logger.ILogger
}

// NewRoomRepository 创建房间仓储实例
func NewRoomRepository(db *gorm.DB, log logger.ILogger) RoomRepository {
	return &gormRoomRepository{db: db, logger: log}
}

// GetOrCreate 按 (name, namespace) 归一化获取或创建房间
// 逻辑唯一性由本方法保证，数据库层不加唯一索引
func (r *gormRoomRepository) GetOrCreate(ctx context.Context, name, namespace string) (*models.Room, error) {
	namespace = mathx.IF(namespace == "", DefaultNamespace, namespace)

	room, err := r.GetByName(ctx, name, namespace)
	if err == nil {
		return room, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errorx.WrapError("failed to query room", err)
	}

	room = &models.Room{Name: name, Namespace: namespace}
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return nil, errorx.WrapError("failed to create room", err)
	}
	return room, nil
}

// GetByName 按 (name, namespace) 查找房间
func (r *gormRoomRepository) GetByName(ctx context.Context, name, namespace string) (*models.Room, error) {
	namespace = mathx.IF(namespace == "", DefaultNamespace, namespace)

	var room models.Room
	err := r.db.WithContext(ctx).
		Where("name = ? AND namespace = ?", name, namespace).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// AddMember 将连接加入房间（幂等：重复加入不报错不重复建行）
func (r *gormRoomRepository) AddMember(ctx context.Context, roomID, connectionID uint) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoomConnection{}).
		Where("room_id = ? AND connection_id = ?", roomID, connectionID).
		Count(&count).Error
	if err != nil {
		return errorx.WrapError("failed to query room membership", err)
	}
	if count > 0 {
		return nil
	}

	member := &models.RoomConnection{RoomID: roomID, ConnectionID: connectionID}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return errorx.WrapError("failed to add room member", err)
	}
	return nil
}

// RemoveMember 将连接移出房间
func (r *gormRoomRepository) RemoveMember(ctx context.Context, roomID, connectionID uint) error {
	return r.db.WithContext(ctx).
		Where("room_id = ? AND connection_id = ?", roomID, connectionID).
		Delete(&models.RoomConnection{}).Error
}

// Members 获取房间全部成员连接
func (r *gormRoomRepository) Members(ctx context.Context, roomID uint) ([]*models.Connection, error) {
	var conns []*models.Connection
	err := r.db.WithContext(ctx).
		Joins("JOIN sio_room_connections rc ON rc.connection_id = sio_connections.id").
		Where("rc.room_id = ?", roomID).
		Order("sio_connections.id ASC").
		Find(&conns).Error
	if err != nil {
		return nil, errorx.WrapError("failed to list room members", err)
	}
	return conns, nil
}

// RoomsOf 获取连接加入的全部房间
func (r *gormRoomRepository) RoomsOf(ctx context.Context, connectionID uint) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN sio_room_connections rc ON rc.room_id = sio_rooms.id").
		Where("rc.connection_id = ?", connectionID).
		Order("sio_rooms.id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, errorx.WrapError("failed to list rooms of connection", err)
	}
	return rooms, nil
}

// RemoveAllMemberships 移除连接的全部房间成员关系
func (r *gormRoomRepository) RemoveAllMemberships(ctx context.Context, connectionID uint) error {
	return r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Delete(&models.RoomConnection{}).Error
}
