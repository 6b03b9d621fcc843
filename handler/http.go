/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-27 09:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 22:41:17
 * @FilePath: \go-sio\handler\http.go
 * @Description: /socket.io/ HTTP 端点 - 传输校验、握手建连、轮询/载荷分发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/repository"
	"github.com/kamalyes/go-sio/transport"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/osx"
)

// HTTP 边界错误码
const (
	ErrTypeInvalidTransport errorx.ErrorType = 84002 // 无效传输类型
	ErrTypeInvalidPayload   errorx.ErrorType = 84003 // 无效载荷
	ErrTypeMissingSession   errorx.ErrorType = 84004 // POST 缺失会话ID
)

func init() {
	errorx.RegisterError(ErrTypeInvalidTransport, "invalid transport: %s")
	errorx.RegisterError(ErrTypeInvalidPayload, "invalid payload")
	errorx.RegisterError(ErrTypeMissingSession, "session id required")
}

// transportPolling 唯一支持的传输类型查询值
const transportPolling = "polling"

// Options HTTP 端点配置
type Options struct {
	Transport   transport.Options // 透传给长轮询传输
	Namespace   string            // 新建连接的默认命名空间
	AllowOrigin string            // CORS 允许来源，默认 "*"
}

func (o Options) normalize() Options {
	o.Namespace = mathx.IfEmpty(o.Namespace, "/")
	o.AllowOrigin = mathx.IfEmpty(o.AllowOrigin, "*")
	return o
}

// SocketIOHandler /socket.io/ 端点处理器
// 每个请求按 sid 构造无状态传输实例，存储是唯一事实源
type SocketIOHandler struct {
	opts Options

	connRepo     repository.ConnectionRepository
	messageRepo  repository.MessageRepository
	deliveryRepo repository.DeliveryRepository

	notifier      transport.Notifier      // 可选
	packetHandler transport.PacketHandler // 可选
	idGen         models.IDGenerator
	logger        logger.ILogger
}

// NewSocketIOHandler 创建端点处理器
func NewSocketIOHandler(
	opts Options,
	connRepo repository.ConnectionRepository,
	messageRepo repository.MessageRepository,
	deliveryRepo repository.DeliveryRepository,
	log logger.ILogger,
) *SocketIOHandler {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &SocketIOHandler{
		opts:         opts.normalize(),
		connRepo:     connRepo,
		messageRepo:  messageRepo,
		deliveryRepo: deliveryRepo,
		idGen:        idgen.NewShortFlakeGenerator(osx.GetWorkerIdForSnowflake()),
		logger:       log,
	}
}

// WithNotifier 设置投递唤醒通知器并返回当前处理器
func (h *SocketIOHandler) WithNotifier(n transport.Notifier) *SocketIOHandler {
	h.notifier = n
	return h
}

// WithPacketHandler 设置客户端包回调并返回当前处理器
func (h *SocketIOHandler) WithPacketHandler(ph transport.PacketHandler) *SocketIOHandler {
	h.packetHandler = ph
	return h
}

// WithIDGenerator 替换ID生成器并返回当前处理器
func (h *SocketIOHandler) WithIDGenerator(gen models.IDGenerator) *SocketIOHandler {
	h.idGen = gen
	return h
}

// ServeHTTP 实现 http.Handler
func (h *SocketIOHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if tr := r.URL.Query().Get("transport"); tr != transportPolling {
		h.writeError(w, http.StatusBadRequest, errorx.NewError(ErrTypeInvalidTransport, tr))
		return
	}

	// 握手建连只允许 GET 触发；sid 缺失的 POST 是客户端错误，
	// 其余方法透传到传输层统一回 405
	sessionID := r.URL.Query().Get("sid")
	if sessionID == "" {
		switch r.Method {
		case http.MethodGet:
			conn, err := h.openConnection(r)
			if err != nil {
				h.writeError(w, http.StatusInternalServerError, err)
				return
			}
			sessionID = conn.SessionID
		case http.MethodPost:
			h.writeError(w, http.StatusBadRequest, errorx.NewError(ErrTypeMissingSession))
			return
		}
	}

	pt := transport.NewPollingTransport(
		sessionID,
		h.opts.Transport,
		h.connRepo,
		h.messageRepo,
		h.deliveryRepo,
		h.logger,
	)
	if h.notifier != nil {
		pt = pt.WithNotifier(h.notifier)
	}
	if h.packetHandler != nil {
		pt = pt.WithPacketHandler(h.packetHandler)
	}

	body := ""
	if r.Method == http.MethodPost {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, errorx.NewError(ErrTypeInvalidPayload))
			return
		}
		body = string(raw)
	}

	resp, err := pt.HandleRequest(r.Context(), r.Method, body)
	if err != nil {
		h.writeTransportError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	_, _ = w.Write([]byte(resp))
}

// openConnection 握手建连：生成会话/协议ID并采集握手快照
func (h *SocketIOHandler) openConnection(r *http.Request) (*models.Connection, error) {
	snapshot := &models.HandshakeSnapshot{
		RemoteAddr: r.RemoteAddr,
		Headers: map[string]string{
			"User-Agent": r.Header.Get("User-Agent"),
			"Origin":     r.Header.Get("Origin"),
		},
		Query:  r.URL.Query(),
		Issued: time.Now().Unix(),
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errorx.WrapError("failed to marshal handshake snapshot", err)
	}

	conn := &models.Connection{
		SessionID: h.idGen.GenerateTraceID(),
		SocketID:  h.idGen.GenerateRequestID(),
		Namespace: h.opts.Namespace,
		Transport: models.TransportPolling,
		Connected: true,
		Handshake: string(raw),
	}
	if err := h.connRepo.Create(r.Context(), conn); err != nil {
		return nil, err
	}

	h.logger.InfoKV("新建连接",
		"session_id", conn.SessionID,
		"socket_id", conn.SocketID,
		"remote_addr", r.RemoteAddr,
	)
	return conn, nil
}

// writeTransportError 将传输层错误映射到 HTTP 状态
// 405 按协议返回固定文案纯文本，客户端输入错误回 400，其余回 500
func (h *SocketIOHandler) writeTransportError(w http.ResponseWriter, r *http.Request, err error) {
	if isErrorType(err, transport.ErrTypeMethodNotAllowed) {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("Method not allowed"))
		return
	}
	if isClientInputError(err) {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.Context().Err() != nil {
		// 客户端已断开，响应无处可写
		return
	}
	h.writeError(w, http.StatusInternalServerError, err)
}

// writeError 输出 JSON 错误体，CORS 头已在入口设置
func (h *SocketIOHandler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.ErrorKV("请求处理失败", "status", status, "error", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// setCORSHeaders 设置跨域响应头
func (h *SocketIOHandler) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.opts.AllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// isErrorType 判断错误是否携带指定错误码
func isErrorType(err error, t errorx.ErrorType) bool {
	if err == nil {
		return false
	}
	typed, ok := err.(interface{ GetType() errorx.ErrorType })
	return ok && typed.GetType() == t
}

// isClientInputError 判断错误码是否落在客户端输入错误区间
// 84000-84099 为会话/传输输入错误，84400-84499 为协议编解码错误
func isClientInputError(err error) bool {
	typed, ok := err.(interface{ GetType() errorx.ErrorType })
	if !ok {
		return false
	}
	t := typed.GetType()
	return (t >= 84000 && t < 84100) || (t >= 84400 && t < 84500)
}
