package hostlink

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const maxBackoff = 30 * time.Second

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.closeConn()
		c.failPendingCallbacks(ErrConnectionLost)
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	stop := context.AfterFunc(ctx, c.closeConn)
	defer stop()

	backoff := time.Second

	for {
		if conn := c.currentConn(); conn != nil {
			_, data, err := conn.ReadMessage()
			if err == nil {
				c.touchActivity()
				c.handleFrame(data)
				continue
			}
			if c.closed.Load() || ctx.Err() != nil {
				return
			}
			c.reportError(eris.Wrap(err, "hostlink read"))
		}

		// закрываем и фейлим ожидающие
		c.closeConn()
		c.failPendingCallbacks(ErrConnectionLost)

		// реконнект с backoff
		for {
			if c.closed.Load() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			conn, err := c.dialAndSetup(ctx)
			if err != nil {
				c.reportError(eris.Wrapf(err, "reconnect failed (wait %v)", backoff))
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			c.setConn(conn)
			if c.OnConnected != nil {
				c.OnConnected()
			}
			backoff = time.Second
			break
		}
	}
}

func (c *Client) handleFrame(data []byte) {
	f, err := decodeFrame(data)
	if err != nil {
		c.reportError(err)
		return
	}

	// callbacks по seq
	if f.Seq != 0 && f.Type == typeResponse {
		c.mu.Lock()
		cb, ok := c.cbs[f.Seq]
		delete(c.cbs, f.Seq)
		c.mu.Unlock()
		if ok {
			cb(f)
		}
		return
	}

	ev, err := decodeEvent(f)
	if err != nil {
		log.Debug().Err(err).Msg("skip hostlink frame")
		return
	}
	c.bus.Publish(ev)
}

func (c *Client) reportError(err error) {
	if c.OnError != nil {
		c.OnError(err)
		return
	}
	log.Warn().Err(err).Msg("hostlink")
}

// пометить все ожидающие callbacks ошибкой при реконнекте/закрытии
func (c *Client) failPendingCallbacks(err error) {
	c.mu.Lock()
	cbs := c.cbs
	c.cbs = make(map[uint64]func(Frame))
	c.mu.Unlock()

	for _, cb := range cbs {
		if cb != nil {
			cb(Frame{Type: typeResponse, Error: err.Error()})
		}
	}
}
