package hostlink

import (
	"github.com/rs/zerolog/log"

	"github.com/EgorLis/discordbridge/internal/render"
)

type segment struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type broadcast struct {
	Segments []segment `json:"segments"`
}

// Broadcast рассылает цветное сообщение всем игрокам. Ответ сервера не
// ждём: ошибка в ответе только логируется.
func (c *Client) Broadcast(segments []render.Segment) error {
	b := broadcast{Segments: make([]segment, 0, len(segments))}
	for _, s := range segments {
		b.Segments = append(b.Segments, segment{Text: s.Text, Color: s.Color.Hex()})
	}
	return c.SendRequest(typeBroadcast, b, func(f Frame) {
		if f.Error != "" {
			log.Warn().Str("error", f.Error).Msg("server rejected broadcast")
		}
	})
}

func (c *Client) Ping(cb func(Frame)) error {
	return c.SendRequest(typePing, nil, cb)
}
