package bridge

import (
	"github.com/EgorLis/discordbridge/internal/engine"
	"github.com/EgorLis/discordbridge/internal/i18n"
	"github.com/EgorLis/discordbridge/internal/presence"
	"github.com/EgorLis/discordbridge/internal/render"
	"github.com/EgorLis/discordbridge/internal/sanitize"
)

const (
	zoneKeyPrefix   = "server.map.zone."
	regionKeyPrefix = "server.map.region."
)

func (b *Bridge) register() {
	bus := b.host.Bus()
	engine.Subscribe(bus, b.onChat)
	engine.Subscribe(bus, b.onBoot)
	engine.Subscribe(bus, b.onStart)
	engine.Subscribe(bus, b.onShutdown)
	engine.Subscribe(bus, b.onConnect)
	engine.Subscribe(bus, b.onDisconnect)
	engine.Subscribe(bus, b.onAddToWorld)
	engine.Subscribe(bus, b.onDrainFromWorld)
	engine.Subscribe(bus, b.onZoneDiscovery)
	engine.Subscribe(bus, b.onDeath)
}

func (b *Bridge) onChat(ev engine.ChatEvent) {
	cfg := b.cfg.Get()
	if ev.Cancelled || b.relay == nil || !cfg.RelayGameToDiscord {
		return
	}
	cleaned := sanitize.Outgoing(ev.Content, cfg.Discord.AllowMentions)
	if cleaned == "" {
		return
	}

	if b.relay.HasWebhook() {
		b.relay.SendAsUser(ev.Sender.Username, ev.Sender.UUID, cleaned)
		return
	}
	b.sendToDiscord(cfg, render.Outbound(cfg.Messages.Outbound(),
		render.Player, ev.Sender.Username,
		render.Message, cleaned,
	))
}

func (b *Bridge) onBoot(engine.BootEvent) {
	b.startup.OnConditionMet()
}

// onStart - сервер (пере)запускается: новый цикл "сервер запущен/остановлен".
func (b *Bridge) onStart(engine.StartEvent) {
	b.startup.Reset()
	b.stopAnnounced.Store(false)
}

func (b *Bridge) onShutdown(engine.ShutdownEvent) {
	b.announceStop()
}

func (b *Bridge) onConnect(ev engine.ConnectEvent) {
	b.sendEvent(b.cfg.Get().Events.PlayerJoin, render.Player, ev.Player.Username)
}

func (b *Bridge) onDisconnect(ev engine.DisconnectEvent) {
	events := b.cfg.Get().Events
	b.sendEvent(events.PlayerLeave, render.Player, ev.Player.Username)
	if world, ok := b.worlds.Remove(ev.Player.UUID); ok {
		b.sendEvent(events.WorldLeave,
			render.Player, ev.Player.Username,
			render.World, world,
		)
	}
}

func (b *Bridge) onAddToWorld(ev engine.AddToWorldEvent) {
	if ev.Player == nil {
		return
	}
	events := b.cfg.Get().Events

	tr := b.worlds.Enter(ev.Player.UUID, ev.World.Label())
	switch tr.Kind {
	case presence.Enter:
		b.sendEvent(events.WorldEnter,
			render.Player, ev.Player.Username,
			render.World, tr.To,
		)
	case presence.Change:
		b.sendEvent(events.WorldChange,
			render.Player, ev.Player.Username,
			render.From, tr.From,
			render.To, tr.To,
		)
	}
}

// onDrainFromWorld только запоминает мир: уведомление о выходе уйдёт при
// отключении игрока, о переходе - при входе в следующий мир.
func (b *Bridge) onDrainFromWorld(ev engine.DrainFromWorldEvent) {
	if ev.Player == nil || ev.World == nil {
		return
	}
	b.worlds.Put(ev.Player.UUID, ev.World.Label())
}

func (b *Bridge) onZoneDiscovery(ev engine.ZoneDiscoveryEvent) {
	cfg := b.cfg.Get()
	locale := cfg.Discord.LocaleOrDefault()
	b.sendEvent(cfg.Events.ZoneDiscovery,
		render.Player, ev.Player.Username,
		render.Zone, i18n.Lookup(b.tr, locale, zoneKeyPrefix+ev.Zone, ev.Zone),
		render.Region, i18n.Lookup(b.tr, locale, regionKeyPrefix+ev.Region, ev.Region),
	)
}

func (b *Bridge) onDeath(ev engine.DeathEvent) {
	b.kills.Dispatch(ev.DeathEvent)
}
