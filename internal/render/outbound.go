package render

import "strings"

// Плейсхолдеры событий и исходящего чата (игра -> Discord).
const (
	Player     = "%player%"
	Message    = "%message%"
	From       = "%from%"
	To         = "%to%"
	World      = "%world%"
	Killer     = "%killer%"
	Victim     = "%victim%"
	Cause      = "%cause%"
	Projectile = "%projectile%"
	Item       = "%item%"
	Zone       = "%zone%"
	Region     = "%region%"
)

// Outbound - простая подстановка пар (placeholder, value) по порядку.
// Незнакомые плейсхолдеры остаются как есть; непарный хвост игнорируется.
func Outbound(template string, replacements ...string) string {
	msg := template
	for i := 0; i+1 < len(replacements); i += 2 {
		if replacements[i] == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, replacements[i], replacements[i+1])
	}
	return msg
}
