package hostlink

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/EgorLis/discordbridge/internal/engine"
	"github.com/EgorLis/discordbridge/internal/killfeed"
)

// Типы событий сервера.
const (
	EventBoot           = "boot"
	EventStart          = "start"
	EventShutdown       = "shutdown"
	EventConnect        = "player_connect"
	EventDisconnect     = "player_disconnect"
	EventChat           = "player_chat"
	EventAddToWorld     = "world_add_player"
	EventDrainFromWorld = "world_drain_player"
	EventZoneDiscovery  = "zone_discovery"
	EventDeath          = "entity_death"
)

var errUnknownEvent = eris.New("unknown event type")

type decoder func(json.RawMessage) (any, error)

var decoders = map[string]decoder{
	EventBoot:           empty(engine.BootEvent{}),
	EventStart:          empty(engine.StartEvent{}),
	EventShutdown:       empty(engine.ShutdownEvent{}),
	EventConnect:        into[engine.ConnectEvent],
	EventDisconnect:     into[engine.DisconnectEvent],
	EventChat:           into[engine.ChatEvent],
	EventAddToWorld:     into[engine.AddToWorldEvent],
	EventDrainFromWorld: into[engine.DrainFromWorldEvent],
	EventZoneDiscovery:  into[engine.ZoneDiscoveryEvent],
	EventDeath:          decodeDeath,
}

// decodeEvent превращает кадр-событие в типизированное событие движка.
func decodeEvent(f Frame) (any, error) {
	dec, ok := decoders[f.Type]
	if !ok {
		return nil, eris.Wrap(errUnknownEvent, f.Type)
	}
	ev, err := dec(f.Payload)
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", f.Type)
	}
	return ev, nil
}

func empty(ev any) decoder {
	return func(json.RawMessage) (any, error) { return ev, nil }
}

func into[E any](raw json.RawMessage) (any, error) {
	var ev E
	if len(raw) == 0 {
		return ev, nil
	}
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

// Источники урона на проводе.
const (
	sourceEntity      = "entity"
	sourceProjectile  = "projectile"
	sourceEnvironment = "environment"
)

type wireSource struct {
	Kind       string           `json:"kind"`
	Entity     *killfeed.Entity `json:"entity,omitempty"`
	Shooter    *killfeed.Entity `json:"shooter,omitempty"`
	Projectile *killfeed.Entity `json:"projectile,omitempty"`
	Type       string           `json:"type,omitempty"`
}

type wireDeath struct {
	Victim *killfeed.Entity `json:"victim,omitempty"`
	Source *wireSource      `json:"source,omitempty"`
	Cause  string           `json:"cause,omitempty"`
}

func decodeDeath(raw json.RawMessage) (any, error) {
	var w wireDeath
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
	}
	return engine.DeathEvent{DeathEvent: killfeed.DeathEvent{
		Victim:  w.Victim,
		Source:  w.Source.source(),
		CauseID: w.Cause,
	}}, nil
}

// source сводит провод к закрытому набору killfeed.Source; всё неполное -
// UnknownSource.
func (w *wireSource) source() killfeed.Source {
	if w == nil {
		return killfeed.UnknownSource{}
	}
	switch w.Kind {
	case sourceEntity:
		if w.Entity != nil {
			return killfeed.EntitySource{Entity: *w.Entity}
		}
	case sourceProjectile:
		if w.Shooter == nil && w.Projectile == nil {
			break
		}
		var src killfeed.ProjectileSource
		if w.Shooter != nil {
			src.Shooter = *w.Shooter
		}
		if w.Projectile != nil {
			src.Projectile = *w.Projectile
		}
		return src
	case sourceEnvironment:
		return killfeed.EnvironmentSource{Type: w.Type}
	}
	return killfeed.UnknownSource{}
}
