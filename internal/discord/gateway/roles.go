package gateway

import (
	"strings"
	"sync"

	"github.com/EgorLis/discordbridge/internal/discord"
	"github.com/EgorLis/discordbridge/internal/render"
)

// roleCache - роли гильдий из GUILD_CREATE и GUILD_ROLE_*; нужен, чтобы
// по id ролей участника найти верхнюю роль и цвет ника.
type roleCache struct {
	mu     sync.RWMutex
	guilds map[string]map[string]role
}

func newRoleCache() *roleCache {
	return &roleCache{guilds: make(map[string]map[string]role)}
}

func (rc *roleCache) setGuild(guildID string, roles []role) {
	m := make(map[string]role, len(roles))
	for _, r := range roles {
		m[r.ID] = r
	}
	rc.mu.Lock()
	rc.guilds[guildID] = m
	rc.mu.Unlock()
}

func (rc *roleCache) put(guildID string, r role) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	m, ok := rc.guilds[guildID]
	if !ok {
		m = make(map[string]role)
		rc.guilds[guildID] = m
	}
	m[r.ID] = r
}

func (rc *roleCache) remove(guildID, roleID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.guilds[guildID], roleID)
}

func (rc *roleCache) dropGuild(guildID string) {
	rc.mu.Lock()
	delete(rc.guilds, guildID)
	rc.mu.Unlock()
}

// resolve возвращает верхнюю (по position) роль участника и цвет ника -
// цвет самой высокой роли с ненулевым цветом.
func (rc *roleCache) resolve(guildID string, ids []string) (top *role, display *render.Color) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	roles := rc.guilds[guildID]

	var colored *role
	for _, id := range ids {
		r, ok := roles[id]
		if !ok {
			continue
		}
		if top == nil || r.Position > top.Position {
			top = &r
		}
		if r.Color != 0 && (colored == nil || r.Position > colored.Position) {
			colored = &r
		}
	}
	if colored != nil {
		c := render.RGB(colored.Color)
		display = &c
	}
	return top, display
}

// displayName: ник на сервере, затем глобальное имя, затем username.
func displayName(u user, m *member) string {
	if m != nil && m.Nick != nil && strings.TrimSpace(*m.Nick) != "" {
		return *m.Nick
	}
	if u.GlobalName != nil && strings.TrimSpace(*u.GlobalName) != "" {
		return *u.GlobalName
	}
	return u.Username
}

// replaceMentions заменяет <@id> и <@!id> на @имя.
func replaceMentions(content string, mentions []mention) string {
	if len(mentions) == 0 {
		return content
	}
	pairs := make([]string, 0, len(mentions)*4)
	for _, m := range mentions {
		name := "@" + displayName(m.user, m.Member)
		pairs = append(pairs, "<@"+m.ID+">", name, "<@!"+m.ID+">", name)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

func (rc *roleCache) toInbound(msg messageCreate) (discord.InboundMessage, discord.MessageMeta) {
	in := discord.InboundMessage{
		AuthorName: displayName(msg.Author, msg.Member),
		Content:    replaceMentions(msg.Content, msg.Mentions),
	}
	if msg.Member != nil {
		top, display := rc.resolve(msg.GuildID, msg.Member.Roles)
		if top != nil {
			in.TopRoleName = top.Name
			if top.Color != 0 {
				c := render.RGB(top.Color)
				in.RoleColor = &c
			}
		}
		in.DisplayColor = display
	}

	meta := discord.MessageMeta{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
		AuthorID:  msg.Author.ID,
		Bot:       msg.Author.Bot,
		Webhook:   msg.WebhookID != "",
	}
	return in, meta
}
