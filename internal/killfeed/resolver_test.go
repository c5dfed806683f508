package killfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/discordbridge/internal/config"
	"github.com/EgorLis/discordbridge/internal/i18n"
	"github.com/EgorLis/discordbridge/internal/render"
)

type sent struct {
	msg  config.EventMessage
	text string
}

type harness struct {
	debug bool
	out   []sent
	res   *Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat := i18n.NewCatalog()
	require.NoError(t, cat.Add("en-US", map[string]string{
		"items.bow.name":                   "Hunting Bow",
		"items.sword.name":                 "Iron Sword",
		"entities.arrow.name":              "Arrow",
		"entities.trork.name":              "Trork {rank}",
		"server.general.damageCauses.fall": "Fall Damage",
		"environment.lava":                 "Lava",
	}))

	h := &harness{}
	events := config.DefaultEvents()
	send := func(msg config.EventMessage, repl ...string) {
		h.out = append(h.out, sent{msg: msg, text: render.Outbound(msg.Message, repl...)})
	}
	h.res = NewResolver(
		func() config.Events { return events },
		send,
		cat,
		func() string { return "" },
		func() bool { return h.debug },
	)
	return h
}

func (h *harness) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, h.out)
	return h.out[len(h.out)-1].text
}

func player(name string) Entity {
	return Entity{Player: &Player{Username: name, UUID: name + "-uuid"}}
}

func holding(e Entity, id, key string) Entity {
	e.HeldItem = &ItemStack{ID: id, TranslationKey: key, Quantity: 1}
	return e
}

func TestProjectileBeatsItem(t *testing.T) {
	h := newHarness(t)
	shooter := holding(player("Alice"), "bow", "items.bow.name")

	h.res.Dispatch(DeathEvent{
		Victim: ptr(player("Bob")),
		Source: ProjectileSource{Shooter: shooter, Projectile: Entity{DisplayName: Translation("entities.arrow.name")}},
	})

	assert.Equal(t, ":bow_and_arrow: Alice shot Bob with Arrow.", h.last(t))
}

func TestProjectileWithoutName(t *testing.T) {
	h := newHarness(t)
	shooter := holding(player("Alice"), "bow", "items.bow.name")

	h.res.Dispatch(DeathEvent{
		Victim: ptr(player("Bob")),
		Source: ProjectileSource{Shooter: shooter},
	})

	assert.Equal(t, ":bow_and_arrow: Alice shot Bob.", h.last(t))
}

func TestItemKill(t *testing.T) {
	h := newHarness(t)

	h.res.Dispatch(DeathEvent{
		Victim: ptr(player("Bob")),
		Source: EntitySource{Entity: holding(player("Alice"), "sword", "items.sword.name")},
	})

	assert.Equal(t, ":crossed_swords: Alice killed Bob using Iron Sword.", h.last(t))
}

func TestItemFallsBackToID(t *testing.T) {
	h := newHarness(t)

	h.res.Dispatch(DeathEvent{
		Victim: ptr(player("Bob")),
		Source: EntitySource{Entity: holding(player("Alice"), "Weapon_Axe_Crude", "items.axe.name")},
	})

	assert.Equal(t, ":crossed_swords: Alice killed Bob using Weapon_Axe_Crude.", h.last(t))
}

func TestGenericKill(t *testing.T) {
	h := newHarness(t)
	empty := player("Alice")
	empty.HeldItem = &ItemStack{ID: "sword", Quantity: 0}

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: empty}})

	assert.Equal(t, ":crossed_swords: Alice killed Bob.", h.last(t))
}

func TestKillTemplateTokens(t *testing.T) {
	h := newHarness(t)
	events := config.DefaultEvents()
	events.PlayerKill.Message = "%killer%|%victim%|%player%|%cause%|%projectile%|%item%"
	h.res.events = func() config.Events { return events }

	h.res.Dispatch(DeathEvent{
		Victim: ptr(player("Bob")),
		Source: EntitySource{Entity: Entity{Player: &Player{Username: "Alice"}, DisplayName: Raw("Alice the Brave")}},
	})

	assert.Equal(t, "Alice|Bob|Bob|Alice the Brave||", h.last(t))
}

func TestMobKillIsDeathWithoutDebug(t *testing.T) {
	h := newHarness(t)
	mob := Entity{DisplayName: &Message{MessageID: "entities.trork.name", Params: map[string]string{"rank": "Warrior"}}}

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: mob}})

	assert.Equal(t, ":skull: Bob died to Trork Warrior.", h.last(t))
}

func TestMobKillInDebug(t *testing.T) {
	h := newHarness(t)
	h.debug = true
	mob := Entity{DisplayName: Raw("Trork")}

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: mob}})

	assert.Equal(t, ":crossed_swords: Trork killed Bob.", h.last(t))
}

func TestStaleKillerIsIgnored(t *testing.T) {
	h := newHarness(t)
	gone := player("Alice")
	gone.Stale = true

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: gone}, CauseID: "Physical"})

	assert.Equal(t, ":skull: Bob died to unknown.", h.last(t))
}

func TestStaleKillerItemIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.debug = true
	gone := holding(player("Alice"), "sword", "items.sword.name")
	gone.Stale = true
	gone.DisplayName = Raw("Trork")

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: gone}})

	assert.Equal(t, ":crossed_swords: Trork killed Bob.", h.last(t))
}

func TestDeathCauses(t *testing.T) {
	cases := []struct {
		name string
		ev   DeathEvent
		want string
	}{
		{"environment translated", DeathEvent{Source: EnvironmentSource{Type: "environment.lava"}}, "Lava"},
		{"environment raw", DeathEvent{Source: EnvironmentSource{Type: "drowning"}}, "drowning"},
		{"damage cause", DeathEvent{Source: UnknownSource{}, CauseID: "FALL"}, "Fall Damage"},
		{"nil source", DeathEvent{CauseID: "fall"}, "Fall Damage"},
		{"untranslated cause", DeathEvent{Source: UnknownSource{}, CauseID: "Void"}, "unknown"},
		{"nothing", DeathEvent{}, "unknown"},
		{"blank environment", DeathEvent{Source: EnvironmentSource{Type: " "}, CauseID: "fall"}, "Fall Damage"},
		{"named projectile", DeathEvent{Source: ProjectileSource{
			Shooter:    Entity{DisplayName: Raw("Skeleton")},
			Projectile: Entity{DisplayName: Raw("Arrow")},
		}, CauseID: "fall"}, "Arrow"},
		{"unnamed projectile skips shooter", DeathEvent{Source: ProjectileSource{
			Shooter: Entity{DisplayName: Raw("Skeleton")},
		}, CauseID: "fall"}, "Fall Damage"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t)
			c.ev.Victim = ptr(player("Bob"))
			h.res.Dispatch(c.ev)
			assert.Equal(t, ":skull: Bob died to "+c.want+".", h.last(t))
		})
	}
}

func TestVictimResolution(t *testing.T) {
	h := newHarness(t)

	h.res.Dispatch(DeathEvent{Victim: nil, Source: UnknownSource{}})
	assert.Empty(t, h.out, "no victim, no message")

	h.res.Dispatch(DeathEvent{Victim: &Entity{DisplayName: Raw("Sheep")}})
	assert.Empty(t, h.out, "non-player victims only in debug")

	h.debug = true
	h.res.Dispatch(DeathEvent{Victim: &Entity{DisplayName: Raw("Sheep")}})
	assert.Equal(t, ":skull: Sheep died to unknown.", h.last(t))

	h.res.Dispatch(DeathEvent{Victim: &Entity{}})
	assert.Equal(t, ":skull: Unknown Entity died to unknown.", h.last(t))

	n := len(h.out)
	h.res.Dispatch(DeathEvent{Victim: &Entity{DisplayName: Raw("  ")}})
	assert.Len(t, h.out, n, "blank victim name aborts")
}

func TestDisabledFlagIsPassedThrough(t *testing.T) {
	h := newHarness(t)
	events := config.DefaultEvents()
	events.PlayerKill.Enabled = false
	h.res.events = func() config.Events { return events }

	h.res.Dispatch(DeathEvent{Victim: ptr(player("Bob")), Source: EntitySource{Entity: player("Alice")}})

	require.Len(t, h.out, 1)
	assert.False(t, h.out[0].msg.Enabled)
}

func ptr[T any](v T) *T { return &v }
