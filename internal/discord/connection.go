// Package discord - менеджер соединения моста с чат-сетью.
//
// Connection скрывает два пути отправки: от имени бота (Send) и через вебхук
// от имени игрока (SendAsUser). У каждого пути своя очередь и одна горутина
// доставки, поэтому порядок сообщений сохраняется. Отправка не блокирует
// вызывающего и не повторяется: при полной очереди сообщение теряется,
// ошибки только логируются. Start возвращает Future, который
// разрешается, когда канал моста найден, или ошибкой подключения (без
// автоматических повторов).
package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var ErrShutdown = eris.New("discord connection is shut down")

const (
	// drainTimeout - сколько Shutdown ждёт доставку уже поставленных сообщений.
	drainTimeout = 5 * time.Second
	queueSize    = 256
)

// delivery - одна отложенная отправка.
type delivery struct {
	send    func(ctx context.Context) error
	failure string
}

type Options struct {
	ChannelID       string
	AvatarURLFormat string
}

type Connection struct {
	session   Session
	webhook   WebhookSender
	channelID string
	avatarFmt string
	onMessage func(InboundMessage)

	ctx    context.Context
	cancel context.CancelFunc

	ready        *Future
	started      atomic.Bool
	shuttingDown atomic.Bool
	channel      atomic.Pointer[Channel]

	smu     sync.RWMutex
	botq    chan delivery
	hookq   chan delivery
	workers sync.WaitGroup
}

// NewConnection связывает сессию, (опционально) вебхук и обработчик входящих.
// webhook == nil - вебхук не настроен, SendAsUser недоступен.
func NewConnection(opts Options, session Session, webhook WebhookSender, onMessage func(InboundMessage)) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		session:   session,
		webhook:   webhook,
		channelID: strings.TrimSpace(opts.ChannelID),
		avatarFmt: opts.AvatarURLFormat,
		onMessage: onMessage,
		ctx:       ctx,
		cancel:    cancel,
		ready:     NewFuture(),
		botq:      make(chan delivery, queueSize),
	}
	c.spawn(c.botq)
	if webhook != nil {
		c.hookq = make(chan delivery, queueSize)
		c.spawn(c.hookq)
	}
	session.OnMessage(c.handleMessage)
	return c
}

// Start открывает сессию и ищет канал. Повторный вызов вернёт тот же Future.
func (c *Connection) Start(ctx context.Context) *Future {
	if !c.started.CompareAndSwap(false, true) {
		return c.ready
	}
	if c.shuttingDown.Load() {
		c.ready.Resolve(ErrShutdown)
		return c.ready
	}

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	go func() {
		defer cancel()
		defer stop()
		err := c.connect(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to start discord bridge bot")
		}
		c.ready.Resolve(err)
	}()
	return c.ready
}

func (c *Connection) connect(ctx context.Context) error {
	if err := c.session.Open(ctx); err != nil {
		return eris.Wrap(err, "open discord session")
	}
	ch, err := c.session.ResolveChannel(ctx, c.channelID)
	if err != nil {
		return eris.Wrapf(err, "resolve channel %s", c.channelID)
	}
	if c.shuttingDown.Load() {
		return ErrShutdown
	}
	c.channel.Store(&ch)
	log.Info().Str("channel", ch.ID).Str("name", ch.Name).Msg("discord bot connected")
	return nil
}

// Ready - Future, который вернул Start.
func (c *Connection) Ready() *Future { return c.ready }

func (c *Connection) IsReady() bool {
	return c.ready.Succeeded() && c.channel.Load() != nil && !c.shuttingDown.Load()
}

// Send отправляет текст от имени бота. Если канал ещё не готов - сообщение теряется.
func (c *Connection) Send(text string) {
	if c.shuttingDown.Load() {
		log.Debug().Msg("discord connection shut down; dropping message")
		return
	}
	ch := c.channel.Load()
	if ch == nil {
		log.Debug().Msg("discord channel not ready; dropping message")
		return
	}

	c.enqueue(c.botq, delivery{
		send:    func(ctx context.Context) error { return c.session.SendMessage(ctx, ch.ID, text) },
		failure: "failed to send chat message to discord",
	})
}

func (c *Connection) HasWebhook() bool {
	return c.webhook != nil
}

// SendAsUser отправляет текст через вебхук с именем и аватаркой игрока.
func (c *Connection) SendAsUser(username, identityKey, text string) {
	if c.shuttingDown.Load() {
		log.Debug().Msg("discord connection shut down; dropping message")
		return
	}
	if c.webhook == nil {
		log.Debug().Msg("webhook not configured; dropping message")
		return
	}

	msg := WebhookMessage{
		Username:  username,
		AvatarURL: AvatarURL(c.avatarFmt, identityKey),
		Content:   text,
	}
	c.enqueue(c.hookq, delivery{
		send:    func(ctx context.Context) error { return c.webhook.Execute(ctx, msg) },
		failure: "failed to send webhook message to discord",
	})
}

// enqueue ставит отправку в очередь, не блокируясь. Очередь закрывается
// в Shutdown под smu, поэтому запись в закрытый канал невозможна.
func (c *Connection) enqueue(q chan delivery, d delivery) {
	c.smu.RLock()
	defer c.smu.RUnlock()
	if c.shuttingDown.Load() {
		log.Debug().Msg("discord connection shut down; dropping message")
		return
	}
	select {
	case q <- d:
	default:
		log.Debug().Int("queued", len(q)).Msg("discord send queue full; dropping message")
	}
}

func (c *Connection) spawn(q <-chan delivery) {
	c.workers.Add(1)
	go c.deliver(q)
}

// deliver отправляет сообщения очереди строго по одному.
func (c *Connection) deliver(q <-chan delivery) {
	defer c.workers.Done()
	for d := range q {
		if c.ctx.Err() != nil {
			continue
		}
		if err := d.send(c.ctx); err != nil {
			log.Warn().Err(err).Msg(d.failure)
		}
	}
}

// Shutdown закрывает очереди и дожидается их доставки (не дольше drainTimeout), затем
// закрывает вебхук и сессию ровно один раз. Безопасен при повторных и
// конкурентных вызовах, а также если Start не вызывался.
func (c *Connection) Shutdown() {
	c.smu.Lock()
	if c.shuttingDown.Load() {
		c.smu.Unlock()
		return
	}
	c.shuttingDown.Store(true)
	close(c.botq)
	if c.hookq != nil {
		close(c.hookq)
	}
	c.smu.Unlock()

	c.ready.Resolve(ErrShutdown)
	c.drain()
	c.cancel()

	if c.webhook != nil {
		if err := c.webhook.Close(); err != nil {
			log.Debug().Err(err).Msg("close webhook")
		}
	}
	if c.started.Load() {
		if err := c.session.Close(); err != nil {
			log.Debug().Err(err).Msg("close discord session")
		}
	}
}

func (c *Connection) drain() {
	done := make(chan struct{})
	go func() {
		c.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		log.Warn().Msg("discord shutdown: pending messages abandoned")
	}
}

func (c *Connection) Close() error {
	c.Shutdown()
	return nil
}

func (c *Connection) handleMessage(msg InboundMessage, meta MessageMeta) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("inbound message handler panicked")
		}
	}()
	if meta.Bot || meta.Webhook || meta.ChannelID != c.channelID {
		return
	}
	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

// AvatarURL подставляет ключ игрока (hex без дефисов) в формат.
// Ключ, не похожий на UUID, подставляется как есть, только без дефисов.
func AvatarURL(format, identityKey string) string {
	if !strings.Contains(format, "%s") {
		return format
	}
	key := strings.TrimSpace(identityKey)
	if id, err := uuid.Parse(key); err == nil {
		key = id.String()
	}
	return fmt.Sprintf(format, strings.ToLower(strings.ReplaceAll(key, "-", "")))
}
