package killfeed

import "strings"

// Player - подключённый игрок.
type Player struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

// ItemStack - предмет в руке.
type ItemStack struct {
	ID             string `json:"id"`
	TranslationKey string `json:"translationKey,omitempty"`
	Quantity       int    `json:"quantity"`
}

func (s *ItemStack) Empty() bool {
	return s == nil || strings.TrimSpace(s.ID) == "" || s.Quantity <= 0
}

// Entity - снимок сущности на момент смерти. Player != nil только у
// подключённого игрока; Stale - ссылка на сущность уже невалидна.
type Entity struct {
	Player      *Player    `json:"player,omitempty"`
	DisplayName *Message   `json:"displayName,omitempty"`
	HeldItem    *ItemStack `json:"heldItem,omitempty"`
	Stale       bool       `json:"stale,omitempty"`
}

// Source - закрытый набор источников урона:
// EntitySource, ProjectileSource, EnvironmentSource, UnknownSource.
type Source interface {
	isSource()
}

// EntitySource - урон нанесла сущность (игрок или моб).
type EntitySource struct {
	Entity Entity
}

// ProjectileSource - урон снарядом; Shooter - кто стрелял.
type ProjectileSource struct {
	Shooter    Entity
	Projectile Entity
}

// EnvironmentSource - урон от окружения (лава, падение и т.п.).
type EnvironmentSource struct {
	Type string
}

type UnknownSource struct{}

func (EntitySource) isSource()      {}
func (ProjectileSource) isSource()  {}
func (EnvironmentSource) isSource() {}
func (UnknownSource) isSource()     {}

// DeathEvent - смерть сущности. Victim == nil - жертву сопоставить не удалось.
type DeathEvent struct {
	Victim  *Entity
	Source  Source
	CauseID string
}

// attacker - сущность, которой приписывается урон (для снаряда - стрелок).
func attacker(src Source) (Entity, bool) {
	switch s := src.(type) {
	case EntitySource:
		return s.Entity, true
	case ProjectileSource:
		return s.Shooter, true
	}
	return Entity{}, false
}
