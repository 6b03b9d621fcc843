/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-21 10:15:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-30 20:41:26
 * @FilePath: \go-sio\repository\connection_repository.go
 * @Description: Socket.IO 连接仓库 - 会话装载、原子轮询计数、活性时间戳
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
	"gorm.io/gorm/clause"
)

// ConnectionRepository 连接仓储接口
// 设计原则：存储是跨进程的唯一事实源，每次请求按 session_id 重新装载
type ConnectionRepository interface {
	// Create 创建连接记录
	Create(ctx context.Context, conn *models.Connection) error

	// GetByID 根据主键获取连接
	GetByID(ctx context.Context, id uint) (*models.Connection, error)

	// GetBySessionID 根据会话ID获取连接
	GetBySessionID(ctx context.Context, sessionID string) (*models.Connection, error)

	// GetBySocketID 根据协议可见ID获取连接
	GetBySocketID(ctx context.Context, socketID string) (*models.Connection, error)

	// Save 整行保存连接
	Save(ctx context.Context, conn *models.Connection) error

	// IncrementPollCount 原子自增轮询计数并返回自增后的值
	// 两个并发 GET 不允许观察到相同的自增前值（行级锁保证）
	IncrementPollCount(ctx context.Context, sessionID string) (uint64, error)

	// MarkDisconnected 标记连接为已断开
	MarkDisconnected(ctx context.Context, sessionID string) error

	// TouchPing 刷新最后PING时间
	TouchPing(ctx context.Context, sessionID string, at time.Time) error

	// TouchActive 刷新最后活动时间
	TouchActive(ctx context.Context, sessionID string, at time.Time) error

	// TouchDeliver 刷新最后投递时间
	TouchDeliver(ctx context.Context, sessionID string, at time.Time) error

	// FindActive 获取存活且在活跃窗口内的连接
	FindActive(ctx context.Context, window time.Duration) ([]*models.Connection, error)

	// CleanupInactive 清理已断开或超出不活跃窗口的连接，返回删除数
	CleanupInactive(ctx context.Context, window time.Duration) (int64, error)
}

// gormConnectionRepository GORM 实现
type gormConnectionRepository struct {
	db     *gorm.DB
	logger logger.ILogger
}

// NewConnectionRepository 创建连接仓储实例
func NewConnectionRepository(db *gorm.DB, log logger.ILogger) ConnectionRepository {
	return &gormConnectionRepository{db: db, logger: log}
}

// Create 创建连接记录
func (r *gormConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.Namespace == "" {
		conn.Namespace = DefaultNamespace
	}
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		return errorx.WrapError("failed to create connection", err)
	}
	return nil
}

// GetByID 根据主键获取连接
func (r *gormConnectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).First(&conn, id).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetBySessionID 根据会话ID获取连接
func (r *gormConnectionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetBySocketID 根据协议可见ID获取连接
func (r *gormConnectionRepository) GetBySocketID(ctx context.Context, socketID string) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("socket_id = ?", socketID).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Save 整行保存连接
func (r *gormConnectionRepository) Save(ctx context.Context, conn *models.Connection) error {
	if err := r.db.WithContext(ctx).Save(conn).Error; err != nil {
		return errorx.WrapError("failed to save connection", err)
	}
	return nil
}

// IncrementPollCount 原子自增轮询计数并返回自增后的值
// 事务内行级锁读取 + 自增，保证并发轮询各自观察到唯一计数
func (r *gormConnectionRepository) IncrementPollCount(ctx context.Context, sessionID string) (uint64, error) {
	var newCount uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conn models.Connection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ?", sessionID).
			First(&conn).Error; err != nil {
			return err
		}

		newCount = conn.PollCount + 1
		return tx.Model(&models.Connection{}).
			Where("session_id = ?", sessionID).
			UpdateColumn("poll_count", gorm.Expr("poll_count + ?", 1)).Error
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// MarkDisconnected 标记连接为已断开
func (r *gormConnectionRepository) MarkDisconnected(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("session_id = ?", sessionID).
		Update("connected", false).Error
}

// TouchPing 刷新最后PING时间
func (r *gormConnectionRepository) TouchPing(ctx context.Context, sessionID string, at time.Time) error {
	return r.touch(ctx, sessionID, "last_ping_time", at)
}

// TouchActive 刷新最后活动时间
func (r *gormConnectionRepository) TouchActive(ctx context.Context, sessionID string, at time.Time) error {
	return r.touch(ctx, sessionID, "last_active_time", at)
}

// TouchDeliver 刷新最后投递时间
func (r *gormConnectionRepository) TouchDeliver(ctx context.Context, sessionID string, at time.Time) error {
	return r.touch(ctx, sessionID, "last_deliver_time", at)
}

func (r *gormConnectionRepository) touch(ctx context.Context, sessionID string, column string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("session_id = ?", sessionID).
		Update(column, at).Error
}

// FindActive 获取存活且在活跃窗口内的连接
// last_active_time 为空的存活连接视为刚建立，同样返回
func (r *gormConnectionRepository) FindActive(ctx context.Context, window time.Duration) ([]*models.Connection, error) {
	var conns []*models.Connection
	cutoff := time.Now().Add(-window)
	err := r.db.WithContext(ctx).
		Where("connected = ?", true).
		Where("last_active_time IS NULL OR last_active_time > ?", cutoff).
		Order("id ASC").
		Find(&conns).Error
	if err != nil {
		return nil, errorx.WrapError("failed to find active connections", err)
	}
	return conns, nil
}

// CleanupInactive 清理超出窗口的连接，返回删除数
// 断开且陈旧、或长期无活动的才删；刚断开的连接保留到下个窗口，
// 便于排查与投递失败原因回溯
func (r *gormConnectionRepository) CleanupInactive(ctx context.Context, window time.Duration) (int64, error) {
	cutoff := time.Now().Add(-window)
	result := r.db.WithContext(ctx).
		Where("(connected = ? AND updated_at < ?) OR (last_active_time IS NOT NULL AND last_active_time < ?)",
			false, cutoff, cutoff).
		Delete(&models.Connection{})
	if result.Error != nil {
		return 0, errorx.WrapError("failed to cleanup inactive connections", result.Error)
	}
	if result.RowsAffected > 0 && r.logger != nil {
		r.logger.InfoKV("清理不活跃连接", "count", result.RowsAffected, "window", window)
	}
	return result.RowsAffected, nil
}
