package discord

import (
	"context"

	"github.com/EgorLis/discordbridge/internal/render"
)

// InboundMessage - сообщение из канала Discord. nil-цвета и пустая роль = не заданы.
type InboundMessage struct {
	AuthorName   string
	TopRoleName  string
	RoleColor    *render.Color
	DisplayColor *render.Color
	Content      string
}

// Sender переводит автора в вид, нужный рендереру.
func (m InboundMessage) Sender() render.Sender {
	return render.Sender{
		Name:         m.AuthorName,
		RoleName:     m.TopRoleName,
		RoleColor:    m.RoleColor,
		DisplayColor: m.DisplayColor,
	}
}

// MessageMeta - служебные поля, по которым Connection фильтрует входящие.
type MessageMeta struct {
	MessageID string
	ChannelID string
	GuildID   string
	AuthorID  string
	Bot       bool
	Webhook   bool
}

type Channel struct {
	ID      string
	Name    string
	GuildID string
}

// Session - граница с клиентом чат-сети (gateway + REST).
type Session interface {
	Open(ctx context.Context) error
	Close() error
	ResolveChannel(ctx context.Context, id string) (Channel, error)
	SendMessage(ctx context.Context, channelID, content string) error
	OnMessage(func(InboundMessage, MessageMeta))
}

// WebhookMessage - сообщение "от имени" игрока.
type WebhookMessage struct {
	Username  string
	AvatarURL string
	Content   string
}

type WebhookSender interface {
	Execute(ctx context.Context, msg WebhookMessage) error
	Close() error
}
