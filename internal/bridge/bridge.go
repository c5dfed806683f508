package bridge

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/EgorLis/discordbridge/internal/config"
	"github.com/EgorLis/discordbridge/internal/discord"
	"github.com/EgorLis/discordbridge/internal/engine"
	"github.com/EgorLis/discordbridge/internal/gate"
	"github.com/EgorLis/discordbridge/internal/i18n"
	"github.com/EgorLis/discordbridge/internal/killfeed"
	"github.com/EgorLis/discordbridge/internal/presence"
	"github.com/EgorLis/discordbridge/internal/render"
	"github.com/EgorLis/discordbridge/internal/sanitize"
)

// ConfigSource - откуда брать актуальный конфиг (*config.Store подходит).
type ConfigSource interface {
	Get() config.Config
}

// Relay - исходящая сторона моста; реализуется *discord.Connection.
type Relay interface {
	Start(ctx context.Context) *discord.Future
	IsReady() bool
	Send(text string)
	HasWebhook() bool
	SendAsUser(username, identityKey, text string)
	Shutdown()
}

type Bridge struct {
	cfg   ConfigSource
	host  engine.Host
	tr    i18n.Translator
	relay Relay

	startup *gate.Gate
	worlds  *presence.Tracker
	kills   *killfeed.Resolver

	stopAnnounced atomic.Bool
	stopped       atomic.Bool
}

func New(cfg ConfigSource, host engine.Host, tr i18n.Translator) *Bridge {
	b := &Bridge{
		cfg:    cfg,
		host:   host,
		tr:     tr,
		worlds: presence.New(),
	}
	b.startup = gate.New(b.isReady, func() {
		b.sendEvent(b.cfg.Get().Events.ServerStart)
	})
	b.kills = killfeed.NewResolver(
		func() config.Events { return b.cfg.Get().Events },
		b.sendEvent,
		tr,
		func() string { return b.cfg.Get().Discord.LocaleOrDefault() },
		func() bool { return b.cfg.Get().Debug },
	)
	b.register()
	return b
}

// SetRelay - вызывать до Start.
func (b *Bridge) SetRelay(r Relay) {
	b.relay = r
}

// Start запускает соединение, если оно есть. Успешное подключение
// открывает второе условие gate.
func (b *Bridge) Start(ctx context.Context) {
	if b.relay == nil {
		return
	}

	log.Info().Msg("starting discord bot connection")
	b.relay.Start(ctx).Then(func() {
		log.Info().Str("channel", b.cfg.Get().Discord.ChannelID).Msg("discord bot connected")
		b.startup.OnReady()
	}, func(err error) {
		if !eris.Is(err, discord.ErrShutdown) {
			log.Debug().Err(err).Msg("discord relay unavailable")
		}
	})
}

// Stop: уведомление об остановке сервера (если ещё не ушло), затем
// закрытие соединения. Повторные вызовы ничего не делают.
func (b *Bridge) Stop() {
	if !b.stopped.CompareAndSwap(false, true) {
		return
	}
	log.Info().Msg("shutting down discord bridge")
	b.announceStop()
	if b.relay != nil {
		b.relay.Shutdown()
		log.Info().Msg("discord bot disconnected")
	}
}

func (b *Bridge) announceStop() {
	if b.stopAnnounced.CompareAndSwap(false, true) {
		b.sendEvent(b.cfg.Get().Events.ServerStop)
	}
}

// RelayDiscordMessage - входящее сообщение из канала Discord → всем игрокам.
func (b *Bridge) RelayDiscordMessage(msg discord.InboundMessage) {
	cfg := b.cfg.Get()
	if !cfg.RelayDiscordToGame {
		return
	}
	content := sanitize.Incoming(msg.Content)
	if content == "" {
		return
	}

	segs := render.Inbound(inboundStyle(cfg.Messages), msg.Sender(), content)
	if err := b.host.Broadcast(segs); err != nil {
		log.Warn().Err(err).Msg("failed to relay discord message to players")
	}
}

func inboundStyle(m config.Messages) render.Style {
	return render.Style{
		Template:     m.Inbound(),
		Label:        m.Label(),
		LabelColor:   render.ColorOr(m.LabelHex(), render.MustColor(config.DefaultLabelColor)),
		RoleColor:    render.ColorOr(m.RoleHex(), render.MustColor(config.DefaultRoleColor)),
		ContentColor: render.ColorOr(m.ContentHex(), render.MustColor(config.DefaultContentColor)),
	}
}

// sendEvent подставляет пары placeholder/value и отправляет, если событие включено.
func (b *Bridge) sendEvent(ev config.EventMessage, replacements ...string) {
	if !ev.Enabled {
		return
	}
	b.sendToDiscord(b.cfg.Get(), render.Outbound(ev.Message, replacements...))
}

func (b *Bridge) sendToDiscord(cfg config.Config, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if !cfg.Discord.AllowMentions {
		text = sanitize.PreventMentions(text)
	}
	if !b.isReady() {
		return
	}
	b.relay.Send(text)
}

func (b *Bridge) isReady() bool {
	return b.relay != nil && b.relay.IsReady()
}
