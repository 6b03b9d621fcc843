/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-21 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-07-09 14:18:52
 * @FilePath: \go-sio\repository\constants.go
 * @Description: 仓库层常量
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "time"

const (
	// DefaultNamespace 默认命名空间
	DefaultNamespace = "/"

	// DefaultInactiveWindow 连接不活跃清理窗口
	DefaultInactiveWindow = 30 * time.Second

	// DefaultBatchSize 批量写入的分批大小
	DefaultBatchSize = 1000

	// DefaultListLimit 列表查询上限
	DefaultListLimit = 10000
)
