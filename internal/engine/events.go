package engine

import (
	"strings"

	"github.com/EgorLis/discordbridge/internal/killfeed"
)

// PlayerRef - подключённый игрок.
type PlayerRef struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

// World - мир сервера; в уведомлениях показываем DisplayName, если он задан.
type World struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

func (w World) Label() string {
	if strings.TrimSpace(w.DisplayName) != "" {
		return w.DisplayName
	}
	return w.Name
}

// BootEvent - сервер полностью загрузился.
type BootEvent struct{}

// StartEvent - сервер (пере)запускается; одноразовые уведомления начинают новый цикл.
type StartEvent struct{}

// ShutdownEvent - сервер останавливается.
type ShutdownEvent struct{}

type ChatEvent struct {
	Sender    PlayerRef `json:"sender"`
	Content   string    `json:"content"`
	Cancelled bool      `json:"cancelled,omitempty"`
}

type ConnectEvent struct {
	Player PlayerRef `json:"player"`
}

type DisconnectEvent struct {
	Player PlayerRef `json:"player"`
}

// AddToWorldEvent - игрок добавлен в мир. Player == nil - у сущности нет PlayerRef.
type AddToWorldEvent struct {
	Player *PlayerRef `json:"player,omitempty"`
	World  World      `json:"world"`
}

// DrainFromWorldEvent - игрок выведен из мира (переход или выход).
type DrainFromWorldEvent struct {
	Player *PlayerRef `json:"player,omitempty"`
	World  *World     `json:"world,omitempty"`
}

// ZoneDiscoveryEvent - игрок открыл зону; Zone/Region - id, не переведённые имена.
type ZoneDiscoveryEvent struct {
	Player PlayerRef `json:"player"`
	Zone   string    `json:"zone"`
	Region string    `json:"region"`
}

// DeathEvent - смерть сущности с тем, что известно об источнике урона.
type DeathEvent struct {
	killfeed.DeathEvent
}
