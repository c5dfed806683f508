package killfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EgorLis/discordbridge/internal/i18n"
)

func TestRenderNested(t *testing.T) {
	tr := i18n.TranslatorFunc(func(_, key string) (string, bool) {
		switch key {
		case "npc.title":
			return "{name} of {place}", true
		case "places.north":
			return "the {dir} Wastes", true
		}
		return "", false
	})

	msg := Message{
		MessageID: "npc.title",
		Params:    map[string]string{"name": "Grok"},
		MessageParams: map[string]Message{
			"place": {MessageID: "places.north", Params: map[string]string{"dir": "Northern"}},
		},
		Children: []Message{*Raw(" ("), {MessageID: "missing.key"}, *Raw(")")},
	}

	assert.Equal(t, "Grok of the Northern Wastes (missing.key)", msg.Render(tr, "en-US"))
}

func TestRenderFormatting(t *testing.T) {
	cases := []struct {
		text   string
		params map[string]string
		want   string
	}{
		{"plain", nil, "plain"},
		{"{a}-{b}", map[string]string{"a": "1", "b": "2"}, "1-2"},
		{"{a, number}", map[string]string{"a": "5"}, "5"},
		{"{missing} {a}", map[string]string{"a": "x"}, "{missing} x"},
		{"open { only", map[string]string{"a": "x"}, "open { only"},
	}
	for _, c := range cases {
		m := Message{RawText: &c.text, Params: c.params}
		assert.Equal(t, c.want, m.Render(nil, "en-US"), c.text)
	}
	assert.Equal(t, "", Message{}.Render(nil, "en-US"))
}
