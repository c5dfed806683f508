package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "bridge.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultInboundTemplate, cfg.Messages.InboundTemplate)
	assert.Equal(t, ":compass: %player% entered %world%.", cfg.Events.WorldEnter.Message)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config must be written")
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Debug":true,"Discord":{"BotToken":"t","ChannelId":"42"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.RelayGameToDiscord)
	assert.Equal(t, "42", cfg.Discord.ChannelID)
	assert.True(t, cfg.Events.PlayerKill.Enabled)
	assert.True(t, cfg.CanStartBot())
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Enabled":`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.json")
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("DISCORD_CHANNEL_ID", "100")
	t.Setenv("BRIDGE_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.BotToken)
	assert.Equal(t, "100", cfg.Discord.ChannelID)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.True(t, eris.Is(cfg.Validate(), ErrIncomplete))
	assert.False(t, cfg.CanStartBot())

	cfg.Discord.BotToken = "t"
	cfg.Discord.ChannelID = "1"
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = false
	assert.True(t, eris.Is(cfg.Validate(), ErrIncomplete))
}

func TestBlankValuesFallBack(t *testing.T) {
	var m Messages
	assert.Equal(t, DefaultDiscordLabel, m.Label())
	assert.Equal(t, DefaultOutboundTemplate, m.Outbound())
	assert.Equal(t, DefaultAvatarURLFormat, m.AvatarFormat())

	var d Discord
	assert.Equal(t, DefaultLocale, d.LocaleOrDefault())

	d.UseWebhookForChat = true
	_, ok := d.Webhook()
	assert.False(t, ok, "webhook without url is not usable")
	d.WebhookURL = " https://example.test/hook "
	u, ok := d.Webhook()
	assert.True(t, ok)
	assert.Equal(t, "https://example.test/hook", u)
}
