// Package sanitize чистит текст на границе игра <-> Discord.
//
// Исходящий текст (игра -> Discord) не должен пинговать людей и роли, если это
// запрещено конфигом: упоминания не удаляются, а ломаются вставкой U+200B.
// Входящий текст (Discord -> игра) сводится к плоскому тексту без разметки.
// Пустой результат означает, что сообщение пересылать не надо.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

const zeroWidthSpace = "\u200b"

var (
	// @everyone / @here
	massMention = regexp.MustCompile(`@(everyone|here)`)
	// <@123>, <@!123>, <@&123>, <#123>
	idMention = regexp.MustCompile(`<(@[!&]?|#)(\d+)>`)

	customEmoji = regexp.MustCompile(`<a?:(\w+):\d+>`)
	// маркеры markdown, которые в игре смысла не имеют
	markdownMarker = regexp.MustCompile("\\*\\*|__|~~|\\|\\||`+")
	lineMarker     = regexp.MustCompile(`(?m)^\s*(#{1,3}\s+|>{1,3}\s+|-#\s+)`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Outgoing готовит текст из игрового чата к отправке в Discord.
func Outgoing(text string, allowMentions bool) string {
	cleaned := collapse(stripControl(text))
	if !allowMentions {
		cleaned = PreventMentions(cleaned)
	}
	return cleaned
}

// PreventMentions ломает упоминания, оставляя их читаемыми. Повторный вызов ничего не меняет.
func PreventMentions(text string) string {
	out := massMention.ReplaceAllString(text, "@"+zeroWidthSpace+"$1")
	out = idMention.ReplaceAllStringFunc(out, func(m string) string {
		sub := idMention.FindStringSubmatch(m)
		return "<" + sub[1] + zeroWidthSpace + sub[2] + ">"
	})
	return out
}

// Incoming превращает сообщение из Discord в плоский текст для игры.
// Чистим до неподвижной точки: удаление "**" может склеить новый маркер.
func Incoming(content string) string {
	out := content
	for {
		next := incomingPass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func incomingPass(s string) string {
	out := customEmoji.ReplaceAllString(s, ":$1:")
	out = lineMarker.ReplaceAllString(out, "")
	out = markdownMarker.ReplaceAllString(out, "")
	out = stripControl(out)
	return collapse(out)
}

// stripControl выкидывает управляющие и невидимые символы (кроме пробельных и U+200B).
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200b':
			return r
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			return -1
		}
		return r
	}, s)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
