package hostlink

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"

	"github.com/EgorLis/discordbridge/internal/engine"
)

var (
	ErrNotConnected   = eris.New("hostlink is not connected")
	ErrConnectionLost = eris.New("hostlink connection lost")
)

type Client struct {
	url   string
	token string
	bus   *engine.Bus

	cmu    sync.Mutex
	conn   *websocket.Conn
	seq    atomic.Uint64
	mu     sync.Mutex
	cbs    map[uint64]func(Frame)
	closed atomic.Bool

	wmu          sync.Mutex    // сериализует запись в websocket
	pingStop     chan struct{} // стоп-канал app-heartbeat
	lastActivity atomic.Int64  // unix nanos последнего принятого кадра

	heartbeatEvery   time.Duration
	heartbeatTimeout time.Duration

	// "События" соединения
	OnConnecting   func()
	OnConnected    func()
	OnDisconnected func()
	OnError        func(error)
}

var _ engine.Host = (*Client)(nil)

// New: url - ws(s)://host:port/path событийного канала, token - Bearer-токен
// (пустой - без авторизации).
func New(url, token string) *Client {
	return &Client{
		url:              url,
		token:            token,
		bus:              engine.NewBus(),
		cbs:              make(map[uint64]func(Frame)),
		heartbeatEvery:   25 * time.Second,
		heartbeatTimeout: 8 * time.Second,
	}
}

// Bus - шина, в которую публикуются события сервера.
func (c *Client) Bus() *engine.Bus { return c.bus }

// Connect - устанавливает WebSocket и запускает readLoop.
// Отмена ctx останавливает readLoop и переподключения.
func (c *Client) Connect(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	conn, err := c.dialAndSetup(ctx)
	if err != nil {
		return err
	}
	c.setConn(conn)
	c.closed.Store(false)

	if c.OnConnected != nil {
		c.OnConnected()
	}

	go c.readLoop(ctx)
	return nil
}

func (c *Client) Disconnect() {
	c.closed.Store(true)
	c.closeConn()
}

func (c *Client) IsConnected() bool {
	return c.currentConn() != nil && !c.closed.Load()
}

// SendRequest - отправляет кадр запроса с новым seq.
// Если cb != nil, он будет вызван на ответ с тем же seq.
func (c *Client) SendRequest(typ string, payload any, cb func(Frame)) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrNotConnected
	}
	f, err := newFrame(typ, payload)
	if err != nil {
		return err
	}
	f.Seq = c.nextSeq()

	data, err := encodeFrame(f)
	if err != nil {
		return err
	}
	if cb != nil {
		c.mu.Lock()
		c.cbs[f.Seq] = cb
		c.mu.Unlock()
	}

	// запись строго через один мьютекс + write-deadline
	c.wmu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	werr := conn.WriteMessage(websocket.BinaryMessage, data)
	c.wmu.Unlock()

	if werr != nil {
		// сеть упала между подготовкой и записью - подчищаем cb
		c.mu.Lock()
		delete(c.cbs, f.Seq)
		c.mu.Unlock()
		return eris.Wrapf(werr, "send %s", typ)
	}
	return nil
}

// Request - SendRequest с ожиданием ответа.
func (c *Client) Request(ctx context.Context, typ string, payload any) (Frame, error) {
	respCh := make(chan Frame, 1)
	err := c.SendRequest(typ, payload, func(f Frame) {
		respCh <- f
	})
	if err != nil {
		return Frame{}, err
	}

	select {
	case f := <-respCh:
		if f.Error != "" {
			return f, eris.Errorf("%s: %s", typ, f.Error)
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, eris.Wrapf(ctx.Err(), "waiting for %s response", typ)
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}
