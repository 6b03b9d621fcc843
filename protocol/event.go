/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-19 10:25:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 20:05:12
 * @FilePath: \go-sio\protocol\event.go
 * @Description: EVENT 载荷编解码 - ["事件名", ...参数] 与存储形态的互转
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// EVENT 载荷错误码
const ErrTypeInvalidEventPayload errorx.ErrorType = 84407 // 无效事件载荷

func init() {
	errorx.RegisterError(ErrTypeInvalidEventPayload, "invalid event payload")
}

// EncodeEventPayload 将事件名与参数数组拼成线上 EVENT 载荷
// args 为存储形态的 JSON 数组文本（如 `["a",1]`），空串视为无参数
func EncodeEventPayload(event string, args string) (string, error) {
	elems := []json.RawMessage{}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &elems); err != nil {
			return "", errorx.NewError(ErrTypeInvalidEventPayload)
		}
	}

	name, err := json.Marshal(event)
	if err != nil {
		return "", errorx.WrapError("failed to marshal event name", err)
	}

	payload := make([]json.RawMessage, 0, len(elems)+1)
	payload = append(payload, name)
	payload = append(payload, elems...)

	out, err := json.Marshal(payload)
	if err != nil {
		return "", errorx.WrapError("failed to marshal event payload", err)
	}
	return string(out), nil
}

// DecodeEventPayload 从线上 EVENT 载荷拆出事件名与参数数组
// 返回的 args 为 JSON 数组文本，无参数时为 "[]"
func DecodeEventPayload(payload string) (event string, args string, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elems); err != nil || len(elems) == 0 {
		return "", "", errorx.NewError(ErrTypeInvalidEventPayload)
	}

	if err := json.Unmarshal(elems[0], &event); err != nil {
		return "", "", errorx.NewError(ErrTypeInvalidEventPayload)
	}

	rest, err := json.Marshal(elems[1:])
	if err != nil {
		return "", "", errorx.WrapError("failed to marshal event args", err)
	}
	return event, string(rest), nil
}
