package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/EgorLis/discordbridge/internal/bridge"
	"github.com/EgorLis/discordbridge/internal/config"
	"github.com/EgorLis/discordbridge/internal/discord"
	"github.com/EgorLis/discordbridge/internal/discord/gateway"
	"github.com/EgorLis/discordbridge/internal/hostlink"
	"github.com/EgorLis/discordbridge/internal/i18n"
)

const defaultConfigPath = "conf/bridge.json"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("discordbridge")
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		pretty     bool
	)

	root := &cobra.Command{
		Use:          "discordbridge",
		Short:        "Relay chat and server events between a game server and a Discord channel",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(pretty)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), terminationSignals...)
			defer stop()
			return run(ctx, configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the bridge config file (created with defaults if missing)")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load the config and report whether the Discord bot can start",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Info().Str("config", configPath).Str("channel", cfg.Discord.ChannelID).Msg("config is complete")
			return nil
		},
	})
	return root
}

func setupLogging(pretty bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func run(ctx context.Context, configPath string) error {
	store := config.NewStore(configPath)
	if err := store.Load(); err != nil {
		return err
	}
	cfg := store.Get()
	log.Info().Str("config", configPath).Msg("configuration loaded")
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	catalog := i18n.NewCatalog()
	if cfg.I18n.Dir != "" {
		if err := catalog.LoadDir(cfg.I18n.Dir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.I18n.Dir).Msg("translations not loaded")
		}
	}

	host := hostlink.New(cfg.HostLink.URL, cfg.HostLink.Token)
	host.OnConnected = func() { log.Info().Str("url", cfg.HostLink.URL).Msg("connected to game server") }
	host.OnDisconnected = func() { log.Info().Msg("game server link closed") }
	host.OnError = func(err error) { log.Warn().Err(err).Msg("game server link") }

	b := bridge.New(store, host, catalog)
	log.Info().Msg("event listeners registered")

	if err := cfg.Validate(); err != nil {
		log.Warn().Err(err).Msg("discord bridge disabled")
	} else {
		b.SetRelay(newConnection(cfg, b))
	}

	if err := host.Connect(ctx); err != nil {
		return eris.Wrap(err, "connect to game server")
	}
	defer host.Disconnect()

	b.Start(ctx)
	defer b.Stop()

	log.Info().Msg("running… press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func newConnection(cfg config.Config, b *bridge.Bridge) *discord.Connection {
	session := gateway.New(cfg.Discord.BotToken,
		gateway.WithPresence(cfg.Discord.PresenceOrDefault()),
		gateway.WithAllowMentions(cfg.Discord.AllowMentions),
	)

	var webhook discord.WebhookSender
	if url, ok := cfg.Discord.Webhook(); ok {
		webhook = discord.NewWebhook(url, cfg.Discord.AllowMentions)
		log.Info().Msg("webhook sender initialized")
	} else if cfg.Discord.UseWebhookForChat {
		log.Warn().Msg("UseWebhookForChat is enabled but WebhookUrl is not set")
	}

	return discord.NewConnection(discord.Options{
		ChannelID:       cfg.Discord.ChannelID,
		AvatarURLFormat: cfg.Messages.AvatarFormat(),
	}, session, webhook, b.RelayDiscordMessage)
}
