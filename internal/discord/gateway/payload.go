package gateway

import (
	"github.com/goccy/go-json"
)

// Gateway opcodes.
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

// Intents: GUILDS | GUILD_MESSAGES | MESSAGE_CONTENT.
const defaultIntents = 1<<0 | 1<<9 | 1<<15

const activityPlaying = 0

// Close codes after which reconnecting is pointless.
var fatalCloseCodes = map[int]string{
	4004: "authentication failed",
	4010: "invalid shard",
	4011: "sharding required",
	4012: "invalid api version",
	4013: "invalid intents",
	4014: "disallowed intents",
}

type payload struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	S  *int64          `json:"s,omitempty"`
	T  string          `json:"t,omitempty"`
}

type outgoing struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

type hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identify struct {
	Token      string            `json:"token"`
	Intents    int               `json:"intents"`
	Properties map[string]string `json:"properties"`
	Presence   *presenceUpdate   `json:"presence,omitempty"`
}

type presenceUpdate struct {
	Since      *int64     `json:"since"`
	Activities []activity `json:"activities"`
	Status     string     `json:"status"`
	AFK        bool       `json:"afk"`
}

type activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type ready struct {
	SessionID string `json:"session_id"`
	User      user   `json:"user"`
}

type user struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Bot        bool    `json:"bot"`
}

type member struct {
	Nick  *string  `json:"nick"`
	Roles []string `json:"roles"`
}

type role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    uint32 `json:"color"`
	Position int    `json:"position"`
}

type guildCreate struct {
	ID    string `json:"id"`
	Roles []role `json:"roles"`
}

type guildRoleEvent struct {
	GuildID string `json:"guild_id"`
	Role    role   `json:"role"`
	RoleID  string `json:"role_id"`
}

type mention struct {
	user
	Member *member `json:"member"`
}

type messageCreate struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	WebhookID string    `json:"webhook_id"`
	Content   string    `json:"content"`
	Author    user      `json:"author"`
	Member    *member   `json:"member"`
	Mentions  []mention `json:"mentions"`
}

type channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GuildID string `json:"guild_id"`
	Type    int    `json:"type"`
}

type createMessage struct {
	Content         string           `json:"content"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
