package killfeed

import (
	"strings"

	"github.com/EgorLis/discordbridge/internal/i18n"
)

// Message - форматированное сообщение движка: либо сырой текст, либо ключ
// перевода с параметрами; может содержать вложенные сообщения.
type Message struct {
	RawText       *string            `json:"rawText,omitempty"`
	MessageID     string             `json:"messageId,omitempty"`
	Params        map[string]string  `json:"params,omitempty"`
	MessageParams map[string]Message `json:"messageParams,omitempty"`
	Children      []Message          `json:"children,omitempty"`
}

// Raw - сообщение с готовым текстом.
func Raw(text string) *Message {
	return &Message{RawText: &text}
}

// Translation - сообщение по ключу перевода.
func Translation(id string) *Message {
	return &Message{MessageID: id}
}

// Render разворачивает сообщение в плоский текст: перевод, подстановка
// {параметров} (вложенные сообщения тоже рендерятся), затем дети по порядку.
func (m Message) Render(tr i18n.Translator, locale string) string {
	var text string
	switch {
	case m.RawText != nil:
		text = *m.RawText
	case m.MessageID != "":
		text = i18n.Lookup(tr, locale, m.MessageID, m.MessageID)
	}

	var nested map[string]string
	if len(m.MessageParams) > 0 {
		nested = make(map[string]string, len(m.MessageParams))
		for k, sub := range m.MessageParams {
			nested[k] = sub.Render(tr, locale)
		}
	}

	var b strings.Builder
	b.WriteString(formatText(text, m.Params, nested))
	for _, child := range m.Children {
		b.WriteString(child.Render(tr, locale))
	}
	return b.String()
}

// formatText подставляет {name} и {name, format}. Сначала обычные параметры,
// потом вложенные сообщения; неизвестные остаются как есть.
func formatText(text string, params, nested map[string]string) string {
	if len(params) == 0 && len(nested) == 0 {
		return text
	}

	var b strings.Builder
	rest := text
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			break
		}
		closing += open

		name := rest[open+1 : closing]
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)

		b.WriteString(rest[:open])
		if v, ok := params[name]; ok {
			b.WriteString(v)
		} else if v, ok := nested[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[open : closing+1])
		}
		rest = rest[closing+1:]
	}
	return b.String()
}
