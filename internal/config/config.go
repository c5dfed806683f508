package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrIncomplete - нет токена бота или id канала: мост остаётся выключенным.
var ErrIncomplete = eris.New("discord bridge config is incomplete: bot token or channel id missing")

const (
	DefaultLocale           = "en-US"
	DefaultPresenceMessage  = "Hytale"
	DefaultDiscordLabel     = "[Discord]"
	DefaultInboundTemplate  = "%label% %role% %username%: %message%"
	DefaultOutboundTemplate = "**%player%**: %message%"
	DefaultLabelColor       = "#5865F2"
	DefaultRoleColor        = "#99AAB5"
	DefaultContentColor     = "#FFFFFF"
	DefaultAvatarURLFormat  = "https://crafthead.net/hytale/cube/%s"
)

// Config - корневой конфиг моста. Читается один раз на старте, дальше только чтение.
type Config struct {
	Enabled            bool `json:"Enabled" env:"BRIDGE_ENABLED"`
	RelayGameToDiscord bool `json:"RelayGameToDiscord" env:"BRIDGE_RELAY_GAME_TO_DISCORD"`
	RelayDiscordToGame bool `json:"RelayDiscordToGame" env:"BRIDGE_RELAY_DISCORD_TO_GAME"`
	Debug              bool `json:"Debug" env:"BRIDGE_DEBUG"`

	Discord  Discord  `json:"Discord"`
	Events   Events   `json:"Events"`
	Messages Messages `json:"Messages"`
	HostLink HostLink `json:"HostLink"`
	I18n     I18n     `json:"I18n"`
}

type Discord struct {
	BotToken          string `json:"BotToken" env:"DISCORD_BOT_TOKEN"`
	ChannelID         string `json:"ChannelId" env:"DISCORD_CHANNEL_ID"`
	PresenceMessage   string `json:"PresenceMessage" env:"DISCORD_PRESENCE_MESSAGE"`
	Locale            string `json:"Locale" env:"DISCORD_LOCALE"`
	AllowMentions     bool   `json:"AllowMentions" env:"DISCORD_ALLOW_MENTIONS"`
	UseWebhookForChat bool   `json:"UseWebhookForChat" env:"DISCORD_USE_WEBHOOK_FOR_CHAT"`
	WebhookURL        string `json:"WebhookUrl" env:"DISCORD_WEBHOOK_URL"`
}

// HostLink - адрес event-feed игрового сервера (websocket).
type HostLink struct {
	URL   string `json:"Url" env:"HOSTLINK_URL"`
	Token string `json:"Token" env:"HOSTLINK_TOKEN"`
}

// I18n - каталог переводов; пустой Dir = только встроенные ключи.
type I18n struct {
	Dir string `json:"Dir" env:"BRIDGE_I18N_DIR"`
}

// EventMessage - включатель и шаблон одного уведомления.
type EventMessage struct {
	Enabled bool   `json:"Enabled"`
	Message string `json:"Message"`
}

// PlayerKill - четыре варианта сообщения об убийстве с общим Enabled.
type PlayerKill struct {
	Enabled                      bool   `json:"Enabled"`
	Message                      string `json:"Message"`
	MessageWithItem              string `json:"MessageWithItem"`
	MessageWithProjectile        string `json:"MessageWithProjectile"`
	MessageWithProjectileUnknown string `json:"MessageWithProjectileUnknown"`
}

type Events struct {
	ServerStart   EventMessage `json:"ServerStart"`
	ServerStop    EventMessage `json:"ServerStop"`
	PlayerJoin    EventMessage `json:"PlayerJoin"`
	PlayerLeave   EventMessage `json:"PlayerLeave"`
	WorldEnter    EventMessage `json:"WorldEnter"`
	WorldLeave    EventMessage `json:"WorldLeave"`
	WorldChange   EventMessage `json:"WorldChange"`
	PlayerDeath   EventMessage `json:"PlayerDeath"`
	PlayerKill    PlayerKill   `json:"PlayerKill"`
	ZoneDiscovery EventMessage `json:"ZoneDiscovery"`
}

type Messages struct {
	DiscordLabel     string `json:"DiscordLabel"`
	InboundTemplate  string `json:"InboundTemplate"`
	OutboundTemplate string `json:"OutboundTemplate"`
	LabelColor       string `json:"LabelColor"`
	DefaultRoleColor string `json:"DefaultRoleColor"`
	ContentColor     string `json:"ContentColor"`
	AvatarURLFormat  string `json:"AvatarUrlFormat"`
}

// Default возвращает конфиг со значениями по умолчанию.
func Default() Config {
	return Config{
		Enabled:            true,
		RelayGameToDiscord: true,
		RelayDiscordToGame: true,
		Discord: Discord{
			PresenceMessage: DefaultPresenceMessage,
			Locale:          DefaultLocale,
		},
		Events: DefaultEvents(),
		Messages: Messages{
			DiscordLabel:     DefaultDiscordLabel,
			InboundTemplate:  DefaultInboundTemplate,
			OutboundTemplate: DefaultOutboundTemplate,
			LabelColor:       DefaultLabelColor,
			DefaultRoleColor: DefaultRoleColor,
			ContentColor:     DefaultContentColor,
			AvatarURLFormat:  DefaultAvatarURLFormat,
		},
	}
}

func DefaultEvents() Events {
	on := func(msg string) EventMessage { return EventMessage{Enabled: true, Message: msg} }
	return Events{
		ServerStart: on(":white_check_mark: Server is now online!"),
		ServerStop:  on(":octagonal_sign: Server is shutting down."),
		PlayerJoin:  on(":inbox_tray: %player% joined the server."),
		PlayerLeave: on(":outbox_tray: %player% left the server."),
		WorldEnter:  on(":compass: %player% entered %world%."),
		WorldLeave:  on(":door: %player% left %world%."),
		WorldChange: on(":repeat: %player% moved from %from% to %to%."),
		PlayerDeath: on(":skull: %player% died to %cause%."),
		PlayerKill: PlayerKill{
			Enabled:                      true,
			Message:                      ":crossed_swords: %killer% killed %victim%.",
			MessageWithItem:              ":crossed_swords: %killer% killed %victim% using %item%.",
			MessageWithProjectile:        ":bow_and_arrow: %killer% shot %victim% with %projectile%.",
			MessageWithProjectileUnknown: ":bow_and_arrow: %killer% shot %victim%.",
		},
		ZoneDiscovery: on(":map: %player% discovered %zone% (%region%)."),
	}
}

// CanStartBot - хватает ли данных, чтобы поднимать бота.
func (c Config) CanStartBot() bool {
	return c.Enabled && c.Discord.Valid()
}

// Validate возвращает ErrIncomplete, если бота запускать нельзя.
func (c Config) Validate() error {
	if !c.Enabled {
		return eris.Wrap(ErrIncomplete, "bridge disabled")
	}
	if !c.Discord.Valid() {
		return ErrIncomplete
	}
	return nil
}

func (d Discord) Valid() bool {
	return strings.TrimSpace(d.BotToken) != "" && strings.TrimSpace(d.ChannelID) != ""
}

// LocaleOrDefault - пустая локаль превращается в en-US.
func (d Discord) LocaleOrDefault() string {
	return orDefault(d.Locale, DefaultLocale)
}

func (d Discord) PresenceOrDefault() string {
	return orDefault(d.PresenceMessage, DefaultPresenceMessage)
}

// Webhook возвращает URL вебхука, если чат нужно слать через него.
func (d Discord) Webhook() (string, bool) {
	u := strings.TrimSpace(d.WebhookURL)
	return u, d.UseWebhookForChat && u != ""
}

func (m Messages) Label() string { return orDefault(m.DiscordLabel, DefaultDiscordLabel) }
func (m Messages) Inbound() string { return orDefault(m.InboundTemplate, DefaultInboundTemplate) }
func (m Messages) Outbound() string { return orDefault(m.OutboundTemplate, DefaultOutboundTemplate) }
func (m Messages) LabelHex() string { return orDefault(m.LabelColor, DefaultLabelColor) }
func (m Messages) RoleHex() string { return orDefault(m.DefaultRoleColor, DefaultRoleColor) }
func (m Messages) ContentHex() string { return orDefault(m.ContentColor, DefaultContentColor) }
func (m Messages) AvatarFormat() string { return orDefault(m.AvatarURLFormat, DefaultAvatarURLFormat) }

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
