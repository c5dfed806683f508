package hostlink

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/discordbridge/internal/engine"
	"github.com/EgorLis/discordbridge/internal/killfeed"
)

func TestFrameCodec(t *testing.T) {
	data, err := encodeFrame(Frame{Seq: 7, Type: EventChat, Payload: json.RawMessage(`{"content":"hi","sender":{"username":"Alice"}}`)})
	require.NoError(t, err)

	f, err := decodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.Seq)
	assert.Equal(t, EventChat, f.Type)
	assert.JSONEq(t, `{"content":"hi","sender":{"username":"Alice"}}`, string(f.Payload))

	_, err = decodeFrame([]byte{0xff, 0x01})
	assert.Error(t, err)

	noType, err := encodeFrame(Frame{Seq: 1})
	require.NoError(t, err)
	_, err = decodeFrame(noType)
	assert.Error(t, err)
}

func TestDecodeEvents(t *testing.T) {
	cases := []struct {
		typ     string
		payload string
		want    any
	}{
		{EventBoot, ``, engine.BootEvent{}},
		{EventStart, `{}`, engine.StartEvent{}},
		{EventShutdown, ``, engine.ShutdownEvent{}},
		{EventConnect, `{"player":{"username":"Alice","uuid":"u1"}}`,
			engine.ConnectEvent{Player: engine.PlayerRef{Username: "Alice", UUID: "u1"}}},
		{EventDisconnect, `{"player":{"username":"Alice","uuid":"u1"}}`,
			engine.DisconnectEvent{Player: engine.PlayerRef{Username: "Alice", UUID: "u1"}}},
		{EventChat, `{"sender":{"username":"Alice","uuid":"u1"},"content":"hi","cancelled":true}`,
			engine.ChatEvent{Sender: engine.PlayerRef{Username: "Alice", UUID: "u1"}, Content: "hi", Cancelled: true}},
		{EventAddToWorld, `{"player":{"username":"Alice","uuid":"u1"},"world":{"name":"w1","displayName":"Zone1"}}`,
			engine.AddToWorldEvent{Player: &engine.PlayerRef{Username: "Alice", UUID: "u1"}, World: engine.World{Name: "w1", DisplayName: "Zone1"}}},
		{EventDrainFromWorld, `{"player":{"username":"Alice","uuid":"u1"}}`,
			engine.DrainFromWorldEvent{Player: &engine.PlayerRef{Username: "Alice", UUID: "u1"}}},
		{EventZoneDiscovery, `{"player":{"username":"Alice","uuid":"u1"},"zone":"z1","region":"r1"}`,
			engine.ZoneDiscoveryEvent{Player: engine.PlayerRef{Username: "Alice", UUID: "u1"}, Zone: "z1", Region: "r1"}},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			ev, err := decodeEvent(Frame{Type: tc.typ, Payload: json.RawMessage(tc.payload)})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ev)
		})
	}
}

func TestDecodeEventErrors(t *testing.T) {
	_, err := decodeEvent(Frame{Type: "weather"})
	assert.True(t, eris.Is(err, errUnknownEvent))

	_, err = decodeEvent(Frame{Type: EventChat, Payload: json.RawMessage(`{"content":5}`)})
	assert.Error(t, err)
}

func TestDecodeDeathSources(t *testing.T) {
	alice := killfeed.Entity{Player: &killfeed.Player{Username: "Alice", UUID: "u1"}}
	arrow := killfeed.Entity{DisplayName: killfeed.Translation("items.arrow")}

	cases := []struct {
		name   string
		source string
		want   killfeed.Source
	}{
		{"entity", `{"kind":"entity","entity":{"player":{"username":"Alice","uuid":"u1"}}}`,
			killfeed.EntitySource{Entity: alice}},
		{"projectile", `{"kind":"projectile","shooter":{"player":{"username":"Alice","uuid":"u1"}},"projectile":{"displayName":{"messageId":"items.arrow"}}}`,
			killfeed.ProjectileSource{Shooter: alice, Projectile: arrow}},
		{"projectile without shooter", `{"kind":"projectile","projectile":{"displayName":{"messageId":"items.arrow"}}}`,
			killfeed.ProjectileSource{Projectile: arrow}},
		{"environment", `{"kind":"environment","type":"lava"}`, killfeed.EnvironmentSource{Type: "lava"}},
		{"entity without body", `{"kind":"entity"}`, killfeed.UnknownSource{}},
		{"unknown kind", `{"kind":"magic"}`, killfeed.UnknownSource{}},
		{"missing", `null`, killfeed.UnknownSource{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := `{"victim":{"player":{"username":"Bob","uuid":"u2"}},"cause":"FALL","source":` + tc.source + `}`
			ev, err := decodeEvent(Frame{Type: EventDeath, Payload: json.RawMessage(raw)})
			require.NoError(t, err)

			death, ok := ev.(engine.DeathEvent)
			require.True(t, ok)
			assert.Equal(t, tc.want, death.Source)
			assert.Equal(t, "FALL", death.CauseID)
			require.NotNil(t, death.Victim)
			assert.Equal(t, "Bob", death.Victim.Player.Username)
		})
	}
}
