/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-06-23 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-31 19:22:40
 * @FilePath: \go-sio\transport\polling.go
 * @Description: 长轮询传输状态机 - HTTP GET/POST 映射为逻辑持久连接
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package transport

import (
	"context"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-sio/models"
	"github.com/kamalyes/go-sio/protocol"
	"github.com/kamalyes/go-sio/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"gorm.io/gorm"
)

// 传输层错误码，84000-84099 区间为客户端输入错误（映射 HTTP 4xx）
const (
	ErrTypeInvalidSession   errorx.ErrorType = 84001 // 无效会话
	ErrTypeMethodNotAllowed errorx.ErrorType = 84006 // 不支持的 HTTP 方法
)

func init() {
	errorx.RegisterError(ErrTypeInvalidSession, "invalid session: %s")
	errorx.RegisterError(ErrTypeMethodNotAllowed, "Method not allowed")
}

// CloseReason 会话关闭时在待投递记录上登记的固定原因文案
const CloseReason = "Connection closed"

// Notifier 投递事件唤醒接口
// Watch 返回的通道在该会话出现新投递时收到信号；release 必须被调用以释放订阅
type Notifier interface {
	Watch(ctx context.Context, sessionID string) (ch <-chan struct{}, release func())
}

// PacketHandler 收到客户端 Socket.IO 包时的回调
type PacketHandler func(ctx context.Context, conn *models.Connection, packet *protocol.SocketPacket) error

// Options 长轮询传输配置
type Options struct {
	PingInterval time.Duration // ping 间隔 / 长轮询阻塞上限
	PingTimeout  time.Duration // 写入握手响应的应答超时
	PollTimeout  time.Duration // 单次轮询超时，2 倍即传输过期阈值
	MaxPayload   int           // 单次冲刷最大载荷（字节）
}

// normalize 空值回退为默认配置
func (o Options) normalize() Options {
	o.PingInterval = mathx.IfNotZero(o.PingInterval, 25*time.Second)
	o.PingTimeout = mathx.IfNotZero(o.PingTimeout, 20*time.Second)
	o.PollTimeout = mathx.IfNotZero(o.PollTimeout, 20*time.Second)
	o.MaxPayload = mathx.IF(o.MaxPayload <= 0, 1_000_000, o.MaxPayload)
	return o
}

// PollingTransport 长轮询传输状态机
// 一个实例绑定一个 sessionId；跨请求无状态——每次操作都按 session_id
// 重新装载连接行，进程内只保留本传输实例自身的轮询时间
type PollingTransport struct {
	sessionID string
	opts      Options

	connRepo     repository.ConnectionRepository
	messageRepo  repository.MessageRepository
	deliveryRepo repository.DeliveryRepository

	notifier Notifier      // 可选：新投递提前唤醒
	handler  PacketHandler // 可选：客户端包回调
	logger   logger.ILogger

	lastPollTime time.Time // 传输本地轮询时间，仅用于 IsExpired 自检
}

// NewPollingTransport 创建绑定指定会话的长轮询传输
func NewPollingTransport(
	sessionID string,
	opts Options,
	connRepo repository.ConnectionRepository,
	messageRepo repository.MessageRepository,
	deliveryRepo repository.DeliveryRepository,
	log logger.ILogger,
) *PollingTransport {
	return &PollingTransport{
		sessionID:    sessionID,
		opts:         opts.normalize(),
		connRepo:     connRepo,
		messageRepo:  messageRepo,
		deliveryRepo: deliveryRepo,
		logger:       mathx.IF[logger.ILogger](log == nil, logger.NewEmptyLogger(), log),
		lastPollTime: time.Now(),
	}
}

// WithNotifier 设置投递唤醒通知器并返回当前传输
func (t *PollingTransport) WithNotifier(n Notifier) *PollingTransport {
	t.notifier = n
	return t
}

// WithPacketHandler 设置客户端包回调并返回当前传输
func (t *PollingTransport) WithPacketHandler(h PacketHandler) *PollingTransport {
	t.handler = h
	return t
}

// SessionID 返回绑定的会话ID
func (t *PollingTransport) SessionID() string {
	return t.sessionID
}

// HandleRequest 按 HTTP 方法分发：GET→轮询，POST→载荷处理，其他→405
func (t *PollingTransport) HandleRequest(ctx context.Context, method string, body string) (string, error) {
	switch method {
	case "GET":
		return t.HandlePoll(ctx)
	case "POST":
		return t.HandleData(ctx, body)
	default:
		return "", errorx.NewError(ErrTypeMethodNotAllowed)
	}
}

// HandlePoll 处理一次 GET 轮询
// 首轮（计数自增后==1）返回携带 socketId 的 OPEN 握手；已过半 ping 间隔
// 未下发 PING 则立即下发 PING 并刷新 last_ping_time；否则进入长轮询等待
func (t *PollingTransport) HandlePoll(ctx context.Context) (string, error) {
	t.lastPollTime = time.Now()

	conn, err := t.connRepo.GetBySessionID(ctx, t.sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errorx.NewError(ErrTypeInvalidSession, t.sessionID)
		}
		return "", errorx.WrapError("failed to load connection", err)
	}

	count, err := t.connRepo.IncrementPollCount(ctx, t.sessionID)
	if err != nil {
		return "", errorx.WrapError("failed to increment poll count", err)
	}

	// 首轮轮询：唯一执行握手的轮询，从不冲刷数据
	if count == 1 {
		return protocol.EncodeHandshake(
			conn.SocketID,
			int(t.opts.PingInterval/time.Millisecond),
			int(t.opts.PingTimeout/time.Millisecond),
			t.opts.MaxPayload,
		)
	}

	// 超过半个 ping 间隔未下发 PING：立即下发，不等待
	now := time.Now()
	half := t.opts.PingInterval / 2
	if conn.LastPingTime == nil || now.Sub(*conn.LastPingTime) >= half {
		if err := t.connRepo.TouchPing(ctx, t.sessionID, now); err != nil {
			return "", errorx.WrapError("failed to touch ping time", err)
		}
		ping := &protocol.EnginePacket{Type: protocol.EnginePing}
		return ping.Encode(), nil
	}

	return t.waitAndFlush(ctx, conn)
}

// waitAndFlush 长轮询等待：有待投递立即冲刷；否则退避重查直至
// ping 间隔超时（返回 NOOP）或 ctx 取消
func (t *PollingTransport) waitAndFlush(ctx context.Context, conn *models.Connection) (string, error) {
	deadline := time.Now().Add(t.opts.PingInterval)

	var wake <-chan struct{}
	if t.notifier != nil {
		ch, release := t.notifier.Watch(ctx, t.sessionID)
		defer release()
		wake = ch
	}

	// 退避重查：存储是跨进程唯一共享状态，短间隔重查是默认等待机制
	b := &backoff.Backoff{
		Min:    50 * time.Millisecond,
		Max:    500 * time.Millisecond,
		Factor: 2,
		Jitter: true,
	}

	for {
		pending, err := t.deliveryRepo.GetPending(ctx, conn.ID)
		if err != nil {
			return "", err
		}
		if len(pending) > 0 {
			return t.flush(ctx, conn, pending)
		}

		remain := time.Until(deadline)
		if remain <= 0 {
			noop := &protocol.EnginePacket{Type: protocol.EngineNoop}
			return noop.Encode(), nil
		}

		wait := b.Duration()
		if remain < wait {
			wait = remain
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			// 客户端断开：不写任何行，连接与投递保持原状
			return "", ctx.Err()
		case _, ok := <-wake:
			timer.Stop()
			if !ok {
				// 通知器已关闭，通道永远就绪；置 nil 退回纯退避重查
				wake = nil
				continue
			}
			b.Reset()
		case <-timer.C:
		}
	}
}

// flush 按 FIFO 冲刷待投递记录，受最大载荷预算约束
// 每条成功编码的投递立即置为 DELIVERED，冲刷后刷新连接的投递时间戳
func (t *PollingTransport) flush(ctx context.Context, conn *models.Connection, pending []*models.Delivery) (string, error) {
	var builder strings.Builder
	now := time.Now()
	flushed := 0

	for _, delivery := range pending {
		frame, err := t.encodeDelivery(ctx, conn, delivery)
		if err != nil {
			// 载荷损坏的投递置为失败，不阻塞队列
			_ = t.deliveryRepo.MarkFailed(ctx, delivery.ID, err.Error())
			t.logger.WarnKV("投递载荷编码失败",
				"delivery_id", delivery.ID,
				"session_id", t.sessionID,
				"error", err,
			)
			continue
		}

		projected := builder.Len() + len(frame)
		if flushed > 0 {
			projected += len(protocol.PayloadSeparator)
		}
		if flushed > 0 && projected > t.opts.MaxPayload {
			break
		}

		if flushed > 0 {
			builder.WriteString(protocol.PayloadSeparator)
		}
		builder.WriteString(frame)

		if err := t.deliveryRepo.MarkDelivered(ctx, delivery.ID, now); err != nil {
			return "", errorx.WrapError("failed to mark delivery delivered", err)
		}
		flushed++
	}

	if flushed == 0 {
		noop := &protocol.EnginePacket{Type: protocol.EngineNoop}
		return noop.Encode(), nil
	}

	if err := t.connRepo.TouchDeliver(ctx, t.sessionID, now); err != nil {
		return "", errorx.WrapError("failed to touch deliver time", err)
	}

	t.logger.DebugKV("冲刷投递",
		"session_id", t.sessionID,
		"count", flushed,
		"bytes", builder.Len(),
	)
	return builder.String(), nil
}

// encodeDelivery 将投递记录编码为 MESSAGE 帧（内嵌 Socket.IO EVENT）
func (t *PollingTransport) encodeDelivery(ctx context.Context, conn *models.Connection, delivery *models.Delivery) (string, error) {
	msg, err := t.messageRepo.GetByID(ctx, delivery.MessageID)
	if err != nil {
		return "", errorx.WrapError("failed to load message", err)
	}

	eventPayload, err := protocol.EncodeEventPayload(msg.Event, msg.Data)
	if err != nil {
		return "", err
	}

	sioFrame := protocol.NewEventPacket(conn.Namespace, nil, eventPayload, false).Encode()
	engineFrame := &protocol.EnginePacket{Type: protocol.EngineMessage, Data: []byte(sioFrame)}
	return engineFrame.Encode(), nil
}

// HandleData 处理一次 POST 载荷：逐帧分发，全部成功返回 "ok"
func (t *PollingTransport) HandleData(ctx context.Context, body string) (string, error) {
	conn, err := t.connRepo.GetBySessionID(ctx, t.sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errorx.NewError(ErrTypeInvalidSession, t.sessionID)
		}
		return "", errorx.WrapError("failed to load connection", err)
	}

	packets, err := protocol.DecodePayload(body)
	if err != nil {
		return "", err
	}

	now := time.Now()
	for _, packet := range packets {
		switch packet.Type {
		case protocol.EnginePong:
			if err := t.connRepo.TouchActive(ctx, t.sessionID, now); err != nil {
				return "", errorx.WrapError("failed to touch active time", err)
			}
		case protocol.EngineClose:
			if err := t.Close(ctx); err != nil {
				return "", err
			}
		case protocol.EngineMessage:
			if err := t.dispatchMessage(ctx, conn, packet, now); err != nil {
				return "", err
			}
		default:
			// OPEN/PING/UPGRADE/NOOP 不属于客户端上行路径，忽略
		}
	}

	return "ok", nil
}

// dispatchMessage 解出内嵌 Socket.IO 帧并回调注册的包处理器
func (t *PollingTransport) dispatchMessage(ctx context.Context, conn *models.Connection, packet *protocol.EnginePacket, now time.Time) error {
	sioPacket, err := protocol.DecodeSocketPacket(string(packet.Data))
	if err != nil {
		return err
	}

	if err := t.connRepo.TouchActive(ctx, t.sessionID, now); err != nil {
		return errorx.WrapError("failed to touch active time", err)
	}

	if t.handler != nil {
		return t.handler(ctx, conn, sioPacket)
	}
	return nil
}

// Send 发信路径（即发即弃）：连接缺失或已断开时静默丢弃
// 仅处理 MESSAGE 包装的 Socket.IO 帧；落库消息与直接寻址投递后由
// 下一次轮询冲刷
func (t *PollingTransport) Send(ctx context.Context, rawFrame string) error {
	conn, err := t.connRepo.GetBySessionID(ctx, t.sessionID)
	if err != nil || !conn.Connected {
		return nil
	}

	enginePacket, err := protocol.DecodeEnginePacket(rawFrame)
	if err != nil || enginePacket.Type != protocol.EngineMessage {
		return nil
	}

	sioPacket, err := protocol.DecodeSocketPacket(string(enginePacket.Data))
	if err != nil {
		return nil
	}

	event, data, err := protocol.DecodeEventPayload(sioPacket.Data)
	if err != nil {
		return nil
	}

	msg := &models.Message{
		Event:      event,
		Data:       data,
		SenderID:   &conn.ID,
		CreateTime: time.Now(),
	}
	if err := t.messageRepo.Create(ctx, msg, nil); err != nil {
		return err
	}

	return t.deliveryRepo.Create(ctx, &models.Delivery{
		MessageID:    msg.ID,
		ConnectionID: conn.ID,
	})
}

// Close 关闭会话：连接缺失时为无副作用的 no-op
// 否则置 connected=false 并将全部待投递记录置为失败（固定文案）
func (t *PollingTransport) Close(ctx context.Context) error {
	conn, err := t.connRepo.GetBySessionID(ctx, t.sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return errorx.WrapError("failed to load connection", err)
	}

	if err := t.connRepo.MarkDisconnected(ctx, t.sessionID); err != nil {
		return errorx.WrapError("failed to mark disconnected", err)
	}

	failed, err := t.deliveryRepo.FailAllPending(ctx, conn.ID, CloseReason)
	if err != nil {
		return err
	}
	if failed > 0 {
		t.logger.InfoKV("会话关闭，待投递置失败",
			"session_id", t.sessionID,
			"failed", failed,
		)
	}
	return nil
}

// IsExpired 传输自检：距本地最后轮询时间超过 2 倍轮询超时即过期
// 这是传输层的客户端活性信号，与心跳扫描的服务端判定相互独立
func (t *PollingTransport) IsExpired() bool {
	return time.Since(t.lastPollTime) > 2*t.opts.PollTimeout
}
