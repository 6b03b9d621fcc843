/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-21 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-30 21:15:38
 * @FilePath: \go-sio\repository\delivery_repository.go
 * @Description: 投递仓库 - FIFO待投递队列、状态转移、保留期与孤儿清理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	sqlbuilder "github.com/kamalyes/go-sqlbuilder/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"gorm.io/gorm"
)

// DeliveryQueryOptions 投递列表查询选项
type DeliveryQueryOptions struct {
	ConnectionID uint                  // 接收连接过滤（0 表示不过滤）
	MessageID    uint                  // 消息过滤（0 表示不过滤）
	Status       models.DeliveryStatus // 状态过滤（空表示不过滤）
	Limit        int                   // 返回上限
}

// DeliveryRepository 投递仓储接口
// 状态转移语义：转入 DELIVERED 必重戳 delivered_at（重入亦然）；
// retries 只增不减；PENDING 不触碰 delivered_at
type DeliveryRepository interface {
	// Create 创建待投递记录
	Create(ctx context.Context, delivery *models.Delivery) error

	// BatchCreate 批量创建待投递记录（广播扇出）
	BatchCreate(ctx context.Context, deliveries []*models.Delivery) error

	// GetByID 按ID获取投递记录
	GetByID(ctx context.Context, id uint) (*models.Delivery, error)

	// GetPending 获取连接的全部待投递记录，按创建时间升序（接收方FIFO）
	GetPending(ctx context.Context, connectionID uint) ([]*models.Delivery, error)

	// MarkDelivered 置为已投递并重戳投递时间
	MarkDelivered(ctx context.Context, id uint, at time.Time) error

	// MarkFailed 置为失败并记录可读原因
	MarkFailed(ctx context.Context, id uint, reason string) error

	// Retry 重试次数自增并回到待投递
	Retry(ctx context.Context, id uint) error

	// FailAllPending 将连接的全部待投递记录置为失败，返回影响行数
	FailAllPending(ctx context.Context, connectionID uint, reason string) (int64, error)

	// CleanupOlderThan 删除早于保留期的投递（不区分状态），返回删除数
	CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error)

	// CleanupOrphans 删除目标连接已不存在的投递，返回删除数
	CleanupOrphans(ctx context.Context) (int64, error)

	// List 条件查询投递列表
	List(ctx context.Context, opts *DeliveryQueryOptions) ([]*models.Delivery, error)
}

// gormDeliveryRepository GORM 实现
type gormDeliveryRepository struct {
	db     *gorm.DB
	logger logger.ILogger
}

// NewDeliveryRepository 创建投递仓储实例
func NewDeliveryRepository(db *gorm.DB, log logger.ILogger) DeliveryRepository {
	return &gormDeliveryRepository{db: db, logger: log}
}

// Create 创建待投递记录
func (r *gormDeliveryRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	if delivery.Status == "" {
		delivery.Status = models.DeliveryStatusPending
	}
	if delivery.CreateTime.IsZero() {
		delivery.CreateTime = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return errorx.WrapError("failed to create delivery", err)
	}
	return nil
}

// BatchCreate 批量创建待投递记录（广播扇出）
func (r *gormDeliveryRepository) BatchCreate(ctx context.Context, deliveries []*models.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	now := time.Now()
	for _, d := range deliveries {
		if d.Status == "" {
			d.Status = models.DeliveryStatusPending
		}
		if d.CreateTime.IsZero() {
			d.CreateTime = now
		}
	}
	if err := r.db.WithContext(ctx).CreateInBatches(deliveries, DefaultBatchSize).Error; err != nil {
		return errorx.WrapError("failed to batch create deliveries", err)
	}
	return nil
}

// GetByID 按ID获取投递记录
func (r *gormDeliveryRepository) GetByID(ctx context.Context, id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).First(&delivery, id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// GetPending 获取连接的全部待投递记录，按创建时间升序（接收方FIFO）
// 排序以 id 兜底，保证同一时刻创建的记录顺序稳定
func (r *gormDeliveryRepository) GetPending(ctx context.Context, connectionID uint) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	err := r.db.WithContext(ctx).
		Where("connection_id = ? AND status = ?", connectionID, models.DeliveryStatusPending).
		Order("create_time ASC, id ASC").
		Find(&deliveries).Error
	if err != nil {
		return nil, errorx.WrapError("failed to query pending deliveries", err)
	}
	return deliveries, nil
}

// MarkDelivered 置为已投递并重戳投递时间
// 从任何状态重入 DELIVERED 都会重新盖时间戳
func (r *gormDeliveryRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.DeliveryStatusDelivered,
			"delivered_at": at,
		}).Error
}

// MarkFailed 置为失败并记录可读原因
func (r *gormDeliveryRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": models.DeliveryStatusFailed,
			"error":  reason,
		}).Error
}

// Retry 重试次数自增并回到待投递，不触碰 delivered_at
func (r *gormDeliveryRepository) Retry(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  models.DeliveryStatusPending,
			"retries": gorm.Expr("retries + ?", 1),
		})
	if result.Error != nil {
		return errorx.WrapError("failed to retry delivery", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FailAllPending 将连接的全部待投递记录置为失败，返回影响行数
func (r *gormDeliveryRepository) FailAllPending(ctx context.Context, connectionID uint, reason string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("connection_id = ? AND status = ?", connectionID, models.DeliveryStatusPending).
		Updates(map[string]any{
			"status": models.DeliveryStatusFailed,
			"error":  reason,
		})
	if result.Error != nil {
		return 0, errorx.WrapError("failed to fail pending deliveries", result.Error)
	}
	return result.RowsAffected, nil
}

// CleanupOlderThan 删除早于保留期的投递，返回删除数
// 不区分状态：已投递、失败、滞留待投递的旧记录统一回收
func (r *gormDeliveryRepository) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := r.db.WithContext(ctx).
		Where("create_time < ?", cutoff).
		Delete(&models.Delivery{})
	if result.Error != nil {
		return 0, errorx.WrapError("failed to cleanup deliveries", result.Error)
	}
	if result.RowsAffected > 0 && r.logger != nil {
		r.logger.InfoKV("清理过期投递", "count", result.RowsAffected, "retention_days", retentionDays)
	}
	return result.RowsAffected, nil
}

// CleanupOrphans 删除目标连接已不存在的投递，返回删除数
func (r *gormDeliveryRepository) CleanupOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("connection_id NOT IN (?)",
			r.db.Model(&models.Connection{}).Select("id")).
		Delete(&models.Delivery{})
	if result.Error != nil {
		return 0, errorx.WrapError("failed to cleanup orphan deliveries", result.Error)
	}
	return result.RowsAffected, nil
}

// List 条件查询投递列表
func (r *gormDeliveryRepository) List(ctx context.Context, opts *DeliveryQueryOptions) ([]*models.Delivery, error) {
	gormDB := r.db.WithContext(ctx).Model(&models.Delivery{})

	if opts != nil {
		// 使用 go-sqlbuilder 构建过滤条件
		query := sqlbuilder.NewQuery().
			AddFilterIfNotEmpty("connection_id", mathx.IF(opts.ConnectionID > 0, any(opts.ConnectionID), nil)).
			AddFilterIfNotEmpty("message_id", mathx.IF(opts.MessageID > 0, any(opts.MessageID), nil)).
			AddFilterIfNotEmpty("status", mathx.IF(opts.Status != "", any(opts.Status), nil)).
			AddOrder("create_time", "ASC")

		gormDB = sqlbuilder.ApplyFilters(gormDB, query.Filters)
		gormDB = sqlbuilder.ApplyOrders(gormDB, query.Orders)

		limit := mathx.IF(opts.Limit <= 0, DefaultListLimit, min(opts.Limit, DefaultListLimit))
		gormDB = gormDB.Limit(limit)
	}

	var deliveries []*models.Delivery
	if err := gormDB.Find(&deliveries).Error; err != nil {
		return nil, errorx.WrapError("failed to list deliveries", err)
	}
	return deliveries, nil
}
