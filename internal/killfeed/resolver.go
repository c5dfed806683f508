// Package killfeed выбирает и заполняет шаблон уведомления о смерти/убийстве
// по тому, что известно об источнике урона.
package killfeed

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/EgorLis/discordbridge/internal/config"
	"github.com/EgorLis/discordbridge/internal/i18n"
	"github.com/EgorLis/discordbridge/internal/render"
)

const (
	unknownEntity  = "Unknown Entity"
	unknownCause   = "unknown"
	damageCauseKey = "server.general.damageCauses."
)

// Sender отправляет уведомление с парами (placeholder, value).
type Sender func(msg config.EventMessage, replacements ...string)

type Resolver struct {
	events func() config.Events
	send   Sender
	tr     i18n.Translator
	locale func() string
	debug  func() bool
}

func NewResolver(events func() config.Events, send Sender, tr i18n.Translator, locale func() string, debug func() bool) *Resolver {
	return &Resolver{events: events, send: send, tr: tr, locale: locale, debug: debug}
}

// Dispatch формирует и отправляет сообщение для одной смерти.
func (r *Resolver) Dispatch(ev DeathEvent) {
	if ev.Victim == nil {
		return
	}
	if ev.Victim.Player == nil && !r.isDebug() {
		return
	}

	locale := r.resolveLocale()
	victim := r.entityName(*ev.Victim, locale)
	if strings.TrimSpace(victim) == "" {
		return
	}

	events := r.events()
	cause := r.deathCause(ev, locale)

	killer, ok := r.killerName(ev.Source, locale)
	if !ok {
		r.send(events.PlayerDeath,
			render.Player, victim,
			render.Cause, cause,
		)
		return
	}

	projectile := r.projectileName(ev.Source, locale)
	item := r.killerItemName(ev.Source, locale)

	kill := events.PlayerKill
	_, isProjectile := ev.Source.(ProjectileSource)

	var tpl string
	switch {
	case projectile != "":
		tpl = kill.MessageWithProjectile
	case isProjectile:
		tpl = kill.MessageWithProjectileUnknown
	case item != "":
		tpl = kill.MessageWithItem
	default:
		tpl = kill.Message
	}

	log.Debug().Str("killer", killer).Str("victim", victim).Str("projectile", projectile).
		Str("item", item).Msg("kill feed")

	r.send(config.EventMessage{Enabled: kill.Enabled, Message: tpl},
		render.Killer, killer,
		render.Victim, victim,
		render.Player, victim,
		render.Cause, cause,
		render.Projectile, projectile,
		render.Item, item,
	)
}

// entityName: имя игрока, затем отрендеренное имя сущности, затем заглушка.
func (r *Resolver) entityName(e Entity, locale string) string {
	if e.Player != nil {
		return e.Player.Username
	}
	if e.DisplayName != nil {
		return e.DisplayName.Render(r.tr, locale)
	}
	return unknownEntity
}

// killerName: только подключённый игрок; имя моба - только в debug.
func (r *Resolver) killerName(src Source, locale string) (string, bool) {
	e, ok := attacker(src)
	if !ok {
		return "", false
	}
	if !e.Stale && e.Player != nil {
		return e.Player.Username, true
	}
	if r.isDebug() && e.DisplayName != nil {
		return e.DisplayName.Render(r.tr, locale), true
	}
	return "", false
}

func (r *Resolver) projectileName(src Source, locale string) string {
	p, ok := src.(ProjectileSource)
	if !ok || p.Projectile.DisplayName == nil {
		return ""
	}
	return strings.TrimSpace(p.Projectile.DisplayName.Render(r.tr, locale))
}

// killerItemName - предмет в руке убийцы-игрока: перевод, иначе id предмета.
func (r *Resolver) killerItemName(src Source, locale string) string {
	e, ok := attacker(src)
	if !ok || e.Stale || e.Player == nil || e.HeldItem.Empty() {
		return ""
	}
	it := e.HeldItem
	return strings.TrimSpace(i18n.Lookup(r.tr, locale, it.TranslationKey, it.ID))
}

// deathCause: имя снаряда, имя атакующей сущности (не стрелка), тип окружения,
// причина урона, "unknown".
func (r *Resolver) deathCause(ev DeathEvent, locale string) string {
	switch s := ev.Source.(type) {
	case ProjectileSource:
		if s.Projectile.DisplayName != nil {
			return s.Projectile.DisplayName.Render(r.tr, locale)
		}
	case EntitySource:
		if s.Entity.DisplayName != nil {
			return s.Entity.DisplayName.Render(r.tr, locale)
		}
	case EnvironmentSource:
		if t := strings.TrimSpace(s.Type); t != "" {
			return i18n.Lookup(r.tr, locale, t, t)
		}
	case UnknownSource, nil:
	}

	if id := strings.TrimSpace(ev.CauseID); id != "" {
		key := damageCauseKey + strings.ToLower(id)
		if v := i18n.Lookup(r.tr, locale, key, ""); v != "" {
			return v
		}
	}
	return unknownCause
}

func (r *Resolver) resolveLocale() string {
	if r.locale == nil {
		return config.DefaultLocale
	}
	if l := strings.TrimSpace(r.locale()); l != "" {
		return l
	}
	return config.DefaultLocale
}

func (r *Resolver) isDebug() bool {
	return r.debug != nil && r.debug()
}
