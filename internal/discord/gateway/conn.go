package gateway

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const (
	handshakeTimeout = 30 * time.Second
	writeTimeout     = 5 * time.Second
)

// connect: dial → HELLO → IDENTIFY → READY, затем heartbeat.
func (c *Client) connect(ctx context.Context) error {
	hctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	conn, _, err := c.dialer.DialContext(hctx, c.gatewayURL, nil)
	if err != nil {
		return eris.Wrap(err, "dial discord gateway")
	}
	conn.SetReadLimit(4 << 20)

	// отмена посреди рукопожатия разблокирует ReadMessage
	unblock := context.AfterFunc(hctx, func() { _ = conn.Close() })
	interval, err := c.handshake(conn)
	if !unblock() {
		_ = conn.Close()
		if c.closed.Load() {
			return ErrClosed
		}
		return eris.Wrap(hctx.Err(), "discord gateway handshake")
	}
	if err != nil {
		_ = conn.Close()
		return err
	}

	c.cmu.Lock()
	c.conn = conn
	c.cmu.Unlock()
	if c.closed.Load() {
		c.closeConn()
		return ErrClosed
	}
	c.startHeartbeat(conn, interval)
	return nil
}

func (c *Client) handshake(conn *websocket.Conn) (time.Duration, error) {
	p, err := readPayload(conn)
	if err != nil {
		return 0, classify(err)
	}
	if p.Op != opHello {
		return 0, eris.Errorf("expected HELLO, got op %d", p.Op)
	}
	var h hello
	if err := json.Unmarshal(p.D, &h); err != nil || h.HeartbeatInterval <= 0 {
		return 0, eris.New("malformed HELLO payload")
	}

	if err := c.write(conn, opIdentify, c.identify()); err != nil {
		return 0, eris.Wrap(err, "send IDENTIFY")
	}

	for {
		p, err := readPayload(conn)
		if err != nil {
			return 0, classify(err)
		}
		switch p.Op {
		case opDispatch:
			if p.S != nil {
				c.seq.Store(*p.S)
			}
			if p.T == "READY" {
				var r ready
				if err := json.Unmarshal(p.D, &r); err != nil {
					return 0, eris.Wrap(err, "decode READY")
				}
				c.sessionID.Store(&r.SessionID)
				log.Info().Str("user", r.User.Username).Msg("discord gateway ready")
				return time.Duration(h.HeartbeatInterval) * time.Millisecond, nil
			}
			c.dispatch(p.T, p.D)
		case opHeartbeat:
			if err := c.write(conn, opHeartbeat, c.lastSeq()); err != nil {
				return 0, eris.Wrap(err, "send heartbeat")
			}
		case opInvalidSession:
			return 0, errInvalidSession
		}
	}
}

func (c *Client) identify() identify {
	id := identify{
		Token:   c.token,
		Intents: c.intents,
		Properties: map[string]string{
			"os":      runtime.GOOS,
			"browser": "discordbridge",
			"device":  "discordbridge",
		},
	}
	if c.presence != "" {
		id.Presence = &presenceUpdate{
			Activities: []activity{{Name: c.presence, Type: activityPlaying}},
			Status:     "online",
		}
	}
	return id
}

func readPayload(conn *websocket.Conn) (payload, error) {
	var p payload
	_, data, err := conn.ReadMessage()
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, eris.Wrap(err, "decode gateway payload")
	}
	return p, nil
}

// classify помечает close-коды, после которых переподключаться бессмысленно.
func classify(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if reason, ok := fatalCloseCodes[ce.Code]; ok {
			if ce.Code == 4004 {
				return eris.Wrapf(ErrAuthentication, "gateway close %d", ce.Code)
			}
			return eris.Wrapf(ErrRejected, "%s (%d)", reason, ce.Code)
		}
	}
	return eris.Wrap(err, "read discord gateway")
}

func isFatal(err error) bool {
	return eris.Is(err, ErrAuthentication) || eris.Is(err, ErrRejected)
}

func (c *Client) lastSeq() *int64 {
	if s := c.seq.Load(); s > 0 {
		return &s
	}
	return nil
}

func (c *Client) write(conn *websocket.Conn, op int, d any) error {
	data, err := json.Marshal(outgoing{Op: op, D: d})
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) currentConn() *websocket.Conn {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.conn
}

// startHeartbeat шлёт heartbeat каждые interval. Если ACK на предыдущий не
// пришёл, соединение считается зависшим и закрывается; readLoop переподключит.
func (c *Client) startHeartbeat(conn *websocket.Conn, interval time.Duration) {
	stop := make(chan struct{})
	c.cmu.Lock()
	if c.hbStop != nil {
		close(c.hbStop)
	}
	c.hbStop = stop
	c.cmu.Unlock()
	c.acked.Store(true)

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if !c.acked.Swap(false) {
					log.Warn().Msg("discord heartbeat not acknowledged; dropping connection")
					_ = conn.Close()
					return
				}
				if err := c.write(conn, opHeartbeat, c.lastSeq()); err != nil {
					log.Debug().Err(err).Msg("heartbeat write failed")
					return
				}
			}
		}
	}()
}

// closeConn безопасно закрывает текущее соединение и останавливает heartbeat.
func (c *Client) closeConn() {
	c.cmu.Lock()
	conn := c.conn
	c.conn = nil
	if c.hbStop != nil {
		close(c.hbStop)
		c.hbStop = nil
	}
	c.cmu.Unlock()

	if conn == nil {
		return
	}
	c.wmu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
		time.Now().Add(500*time.Millisecond))
	c.wmu.Unlock()
	_ = conn.Close()
}
