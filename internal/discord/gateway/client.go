package gateway

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"

	"github.com/EgorLis/discordbridge/internal/discord"
)

const defaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

var (
	ErrClosed         = eris.New("gateway client is closed")
	ErrAuthentication = eris.New("discord authentication failed")
	ErrRejected       = eris.New("discord gateway rejected the session")

	errInvalidSession = eris.New("discord gateway invalidated the session")
	errReconnect      = eris.New("discord gateway requested a reconnect")
)

type Option func(*Client)

// WithPresence - текст статуса "Playing ...".
func WithPresence(text string) Option {
	return func(c *Client) { c.presence = text }
}

func WithAllowMentions(allow bool) Option {
	return func(c *Client) { c.allowMentions = allow }
}

func WithGatewayURL(u string) Option {
	return func(c *Client) { c.gatewayURL = u }
}

func WithAPIBase(u string) Option {
	return func(c *Client) { c.apiBase = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

type Client struct {
	token         string
	presence      string
	intents       int
	allowMentions bool
	gatewayURL    string
	apiBase       string
	http          *http.Client
	dialer        *websocket.Dialer

	cmu    sync.Mutex
	conn   *websocket.Conn
	hbStop chan struct{}
	wmu    sync.Mutex // сериализует запись в websocket

	seq       atomic.Int64
	acked     atomic.Bool
	sessionID atomic.Pointer[string]

	ctx    context.Context
	cancel context.CancelFunc
	opened atomic.Bool
	closed atomic.Bool
	wg     sync.WaitGroup

	hmu     sync.RWMutex
	handler func(discord.InboundMessage, discord.MessageMeta)
	roles   *roleCache
}

var _ discord.Session = (*Client)(nil)

func New(token string, opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		token:      token,
		intents:    defaultIntents,
		gatewayURL: defaultGatewayURL,
		apiBase:    defaultAPIBase,
		http:       &http.Client{Timeout: 15 * time.Second},
		dialer:     websocket.DefaultDialer,
		ctx:        ctx,
		cancel:     cancel,
		roles:      newRoleCache(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) OnMessage(h func(discord.InboundMessage, discord.MessageMeta)) {
	c.hmu.Lock()
	c.handler = h
	c.hmu.Unlock()
}

// Open подключается к gateway и ждёт READY. Ошибка до READY возвращается
// как есть; дальнейшие обрывы readLoop чинит сам.
func (c *Client) Open(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.opened.CompareAndSwap(false, true) {
		return eris.New("gateway client is already open")
	}
	if err := c.connect(ctx); err != nil {
		c.opened.Store(false)
		return err
	}

	c.wg.Add(1)
	go c.readLoop()
	return nil
}

// Close безопасно вызывать несколько раз и до Open.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()
	c.closeConn()
	c.wg.Wait()
	return nil
}

// SessionID - id сессии из последнего READY; пусто до подключения.
func (c *Client) SessionID() string {
	if p := c.sessionID.Load(); p != nil {
		return *p
	}
	return ""
}
