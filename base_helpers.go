/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-07-01 15:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 23:46:52
 * @FilePath: \go-sio\base_helpers.go
 * @Description: 测试辅助函数 - 连接/房间/消息/投递的快速构造
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package sio

import (
	"context"
	"testing"
	"time"

	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-toolbox/pkg/osx"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateTestConnection 创建存活的测试连接，返回落库后的记录
func CreateTestConnection(t *testing.T, db *gorm.DB) *models.Connection {
	id := osx.HashUnixMicroCipherText()
	conn := &models.Connection{
		SessionID: "sess-" + id,
		SocketID:  "sock-" + id,
		Namespace: DefaultNamespace,
		Transport: models.TransportPolling,
		Connected: true,
	}
	require.NoError(t, NewConnectionRepository(db, NoOpLoggerInstance).Create(context.Background(), conn))
	return conn
}

// CreateTestMessage 创建测试消息并关联目标房间
func CreateTestMessage(t *testing.T, db *gorm.DB, event, data string, roomIDs []uint) *models.Message {
	msg := &models.Message{
		Event:      event,
		Data:       data,
		CreateTime: time.Now(),
	}
	require.NoError(t, NewMessageRepository(db, NoOpLoggerInstance).Create(context.Background(), msg, roomIDs))
	return msg
}

// CreateTestDelivery 为连接创建待投递记录
func CreateTestDelivery(t *testing.T, db *gorm.DB, messageID, connectionID uint) *models.Delivery {
	delivery := &models.Delivery{
		MessageID:    messageID,
		ConnectionID: connectionID,
	}
	require.NoError(t, NewDeliveryRepository(db, NoOpLoggerInstance).Create(context.Background(), delivery))
	return delivery
}

// CreateTestPendingDelivery 一步构造 消息+投递，返回投递记录
func CreateTestPendingDelivery(t *testing.T, db *gorm.DB, connectionID uint, event, data string) *models.Delivery {
	msg := CreateTestMessage(t, db, event, data, nil)
	return CreateTestDelivery(t, db, msg.ID, connectionID)
}
