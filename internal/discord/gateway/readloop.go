package gateway

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const maxBackoff = 30 * time.Second

func (c *Client) readLoop() {
	defer c.wg.Done()
	backoff := time.Second

	for {
		err := errReconnect
		if conn := c.currentConn(); conn != nil {
			err = c.serve(conn)
		}
		if c.closed.Load() {
			return
		}
		c.closeConn()
		if isFatal(err) {
			log.Error().Err(err).Msg("discord gateway closed permanently")
			return
		}
		log.Warn().Err(err).Msg("discord gateway connection lost; reconnecting")

		// реконнект с backoff
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(backoff):
			}
			rerr := c.connect(c.ctx)
			if rerr == nil {
				backoff = time.Second
				log.Info().Msg("discord gateway reconnected")
				break
			}
			if c.closed.Load() {
				return
			}
			if isFatal(rerr) {
				log.Error().Err(rerr).Msg("discord gateway closed permanently")
				return
			}
			log.Warn().Err(rerr).Dur("wait", backoff).Msg("discord gateway reconnect failed")
			backoff = min(backoff*2, maxBackoff)
		}
	}
}

// serve читает соединение до ошибки или запроса на переподключение.
func (c *Client) serve(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return classify(err)
		}
		var p payload
		if err := json.Unmarshal(data, &p); err != nil {
			log.Debug().Err(err).Msg("skip malformed gateway payload")
			continue
		}

		switch p.Op {
		case opDispatch:
			if p.S != nil {
				c.seq.Store(*p.S)
			}
			c.dispatch(p.T, p.D)
		case opHeartbeat:
			if err := c.write(conn, opHeartbeat, c.lastSeq()); err != nil {
				return err
			}
		case opHeartbeatACK:
			c.acked.Store(true)
		case opReconnect:
			return errReconnect
		case opInvalidSession:
			return errInvalidSession
		}
	}
}

func (c *Client) dispatch(event string, d json.RawMessage) {
	switch event {
	case "GUILD_CREATE", "GUILD_UPDATE":
		var g guildCreate
		if c.decode(event, d, &g) && g.Roles != nil {
			c.roles.setGuild(g.ID, g.Roles)
		}
	case "GUILD_DELETE":
		var g guildCreate
		if c.decode(event, d, &g) {
			c.roles.dropGuild(g.ID)
		}
	case "GUILD_ROLE_CREATE", "GUILD_ROLE_UPDATE":
		var ev guildRoleEvent
		if c.decode(event, d, &ev) {
			c.roles.put(ev.GuildID, ev.Role)
		}
	case "GUILD_ROLE_DELETE":
		var ev guildRoleEvent
		if c.decode(event, d, &ev) {
			c.roles.remove(ev.GuildID, ev.RoleID)
		}
	case "MESSAGE_CREATE":
		var msg messageCreate
		if !c.decode(event, d, &msg) {
			return
		}
		c.hmu.RLock()
		h := c.handler
		c.hmu.RUnlock()
		if h != nil {
			h(c.roles.toInbound(msg))
		}
	}
}

func (c *Client) decode(event string, d json.RawMessage, v any) bool {
	if err := json.Unmarshal(d, v); err != nil {
		log.Debug().Err(err).Str("event", event).Msg("failed to decode gateway event")
		return false
	}
	return true
}
