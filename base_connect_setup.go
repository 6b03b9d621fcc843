/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-01 14:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 23:40:18
 * @FilePath: \go-sio\base_connect_setup.go
 * @Description: 测试连接配置 - 默认 sqlite 内存库，支持环境变量切换 MySQL
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDBSeq 内存库命名序号，保证每次 GetTestDB 得到隔离的库
var testDBSeq atomic.Int64

// GetTestDB 获取测试数据库并完成建表
// 默认使用 sqlite 内存库（每次调用独立实例）；设置 TEST_MYSQL_DSN
// 环境变量时切换到 MySQL，适用于 CI/CD 验证真实方言行为
func GetTestDB(t *testing.T) *gorm.DB {
	var dialector gorm.Dialector
	if dsn := os.Getenv("TEST_MYSQL_DSN"); dsn != "" {
		t.Logf("📌 使用环境变量 MySQL 配置")
		dialector = mysql.Open(dsn)
	} else {
		// cache=shared 让 gorm 连接池的多条连接命中同一个内存库
		dsn := fmt.Sprintf("file:sio_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "测试数据库连接失败")

	require.NoError(t, AutoMigrate(db), "测试数据库建表失败")

	// MySQL 库在多个测试间共享，开始前清空
	if os.Getenv("TEST_MYSQL_DSN") != "" {
		CleanTestTables(t, db)
	}
	return db
}

// CleanTestTables 清空全部业务表
func CleanTestTables(t *testing.T, db *gorm.DB) {
	for _, table := range []string{
		"sio_deliveries",
		"sio_message_rooms",
		"sio_messages",
		"sio_room_connections",
		"sio_rooms",
		"sio_connections",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
}
