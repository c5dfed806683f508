package hostlink

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
)

func (c *Client) nextSeq() uint64 {
	return c.seq.Add(1)
}

func (c *Client) dialAndSetup(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, c.header())
	if err != nil {
		return nil, eris.Wrapf(err, "dial %s", c.url)
	}
	conn.SetReadLimit(16 << 20)

	// всегда обновляем отметку активности сразу
	c.touchActivity()
	c.startAppHeartbeat()
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.cmu.Lock()
	c.conn = conn
	c.cmu.Unlock()
}

func (c *Client) currentConn() *websocket.Conn {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.conn
}

// безопасно закрыть текущее соединение
func (c *Client) closeConn() {
	c.stopPing()

	c.cmu.Lock()
	conn := c.conn
	c.conn = nil
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

// startAppHeartbeat: если давно не было трафика - шлём ping и ждём ответ.
// Нет ответа - соединение считается подвисшим, readLoop переподключит.
func (c *Client) startAppHeartbeat() {
	c.stopPing()
	stop := make(chan struct{})
	c.cmu.Lock()
	c.pingStop = stop
	c.cmu.Unlock()

	go func() {
		tick := time.NewTicker(c.heartbeatEvery)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				if c.sinceLastActivity() < c.heartbeatEvery*4/5 {
					continue
				}
				done := make(chan struct{}, 1)
				if err := c.Ping(func(Frame) { done <- struct{}{} }); err != nil {
					continue
				}
				select {
				case <-done:
					c.touchActivity()
				case <-stop:
					return
				case <-time.After(c.heartbeatTimeout):
					c.closeConn()
					return
				}
			}
		}
	}()
}

func (c *Client) stopPing() {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	if c.pingStop != nil {
		close(c.pingStop)
		c.pingStop = nil
	}
}

func (c *Client) touchActivity() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *Client) sinceLastActivity() time.Duration {
	n := c.lastActivity.Load()
	if n == 0 {
		return time.Hour
	}
	return time.Since(time.Unix(0, n))
}
