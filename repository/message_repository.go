/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-21 11:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-12 10:02:19
 * @FilePath: \go-sio\repository\message_repository.go
 * @Description: 消息仓库 - 消息落库、房间关联、按龄清理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/gorm"
)

// MessageRepository 消息仓储接口
type MessageRepository interface {
	// Create 落库消息并建立目标房间关联
	Create(ctx context.Context, msg *models.Message, roomIDs []uint) error

	// GetByID 按ID获取消息
	GetByID(ctx context.Context, id uint) (*models.Message, error)

	// RoomIDs 获取消息的目标房间ID列表
	RoomIDs(ctx context.Context, messageID uint) ([]uint, error)

	// CleanupOldMessages 删除早于保留期的消息及其房间关联，返回删除数
	CleanupOldMessages(ctx context.Context, retentionDays int) (int64, error)
}

// gormMessageRepository GORM 实现
type gormMessageRepository struct {
	db     *gorm.DB
	logger logger.ILogger
}

// NewMessageRepository 创建消息仓储实例
func NewMessageRepository(db *gorm.DB, log logger.ILogger) MessageRepository {
	return &gormMessageRepository{db: db, logger: log}
}

// Create 落库消息并建立目标房间关联
// 无房间关联的消息合法（点对点场景），只是没有扇出
func (r *gormMessageRepository) Create(ctx context.Context, msg *models.Message, roomIDs []uint) error {
	if msg.CreateTime.IsZero() {
		msg.CreateTime = time.Now()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return errorx.WrapError("failed to create message", err)
		}

		if len(roomIDs) == 0 {
			return nil
		}

		links := make([]*models.MessageRoom, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			links = append(links, &models.MessageRoom{MessageID: msg.ID, RoomID: roomID})
		}
		if err := tx.CreateInBatches(links, DefaultBatchSize).Error; err != nil {
			return errorx.WrapError("failed to link message rooms", err)
		}
		return nil
	})
}

// GetByID 按ID获取消息
func (r *gormMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// RoomIDs 获取消息的目标房间ID列表
func (r *gormMessageRepository) RoomIDs(ctx context.Context, messageID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.MessageRoom{}).
		Where("message_id = ?", messageID).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, errorx.WrapError("failed to list message rooms", err)
	}
	return ids, nil
}

// CleanupOldMessages 删除早于保留期的消息及其房间关联，返回删除数
func (r *gormMessageRepository) CleanupOldMessages(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Message{}).
			Where("create_time < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("message_id IN ?", ids).
			Delete(&models.MessageRoom{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Message{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, errorx.WrapError("failed to cleanup old messages", err)
	}
	if removed > 0 && r.logger != nil {
		r.logger.InfoKV("清理过期消息", "count", removed, "retention_days", retentionDays)
	}
	return removed, nil
}
