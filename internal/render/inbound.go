package render

import (
	"regexp"
	"strings"
)

// Inbound-плейсхолдеры (Discord -> игра).
const (
	TokenLabel    = "label"
	TokenRole     = "role"
	TokenUsername = "username"
	TokenMessage  = "message"
)

var inboundPlaceholder = regexp.MustCompile(`%(label|role|username|message)%`)

// Segment - кусок текста с цветом.
type Segment struct {
	Text  string
	Color Color
}

// Style - цвета и подпись для входящих сообщений.
type Style struct {
	Template     string
	Label        string
	LabelColor   Color
	RoleColor    Color // если у роли нет своего цвета
	ContentColor Color
}

// Sender - автор входящего сообщения. nil-цвет = "не задан".
type Sender struct {
	Name         string
	RoleName     string
	RoleColor    *Color
	DisplayColor *Color
}

// Inbound собирает сегменты по шаблону. Если в шаблоне нет %message%,
// текст сообщения всё равно дописывается в конец.
func Inbound(st Style, from Sender, content string) []Segment {
	var out []Segment
	appendText := func(text string, c Color) {
		if text == "" {
			return
		}
		out = append(out, Segment{Text: text, Color: c})
	}

	tpl := st.Template
	last := 0
	hasMessage := false

	for _, m := range inboundPlaceholder.FindAllStringSubmatchIndex(tpl, -1) {
		start, end := m[0], m[1]
		if start > last {
			appendText(tpl[last:start], st.ContentColor)
		}

		switch tpl[m[2]:m[3]] {
		case TokenLabel:
			appendText(st.Label, st.LabelColor)
		case TokenRole:
			if strings.TrimSpace(from.RoleName) != "" {
				c := st.RoleColor
				if from.RoleColor != nil {
					c = *from.RoleColor
				}
				appendText("["+from.RoleName+"]", c)
			}
		case TokenUsername:
			c := st.RoleColor
			if from.DisplayColor != nil {
				c = *from.DisplayColor
			}
			appendText(from.Name, c)
		case TokenMessage:
			appendText(content, st.ContentColor)
			hasMessage = true
		}

		last = end
	}

	if last < len(tpl) {
		appendText(tpl[last:], st.ContentColor)
	}
	if !hasMessage {
		appendText(content, st.ContentColor)
	}
	return out
}

// Plain склеивает текст сегментов без цветов.
func Plain(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
