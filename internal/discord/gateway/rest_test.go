package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/discordbridge/internal/discord"
)

func newAPI(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("secret", WithAPIBase(srv.URL))
}

func TestResolveChannel(t *testing.T) {
	c := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bot secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/channels/1":
			_, _ = io.WriteString(w, `{"id":"1","name":"bridge","guild_id":"g","type":0}`)
		case "/channels/2":
			_, _ = io.WriteString(w, `{"id":"2","name":"voice","type":2}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":10003,"message":"Unknown Channel"}`)
		}
	})
	ctx := context.Background()

	ch, err := c.ResolveChannel(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, discord.Channel{ID: "1", Name: "bridge", GuildID: "g"}, ch)

	_, err = c.ResolveChannel(ctx, "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a text channel")

	_, err = c.ResolveChannel(ctx, "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown Channel")
}

func TestSendMessage(t *testing.T) {
	var body map[string]any
	c := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/42/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &body))
		_, _ = io.WriteString(w, `{"id":"m"}`)
	})

	require.NoError(t, c.SendMessage(context.Background(), "42", "hi"))
	assert.Equal(t, "hi", body["content"])
	assert.Contains(t, body, "allowed_mentions")

	body = nil
	c.allowMentions = true
	require.NoError(t, c.SendMessage(context.Background(), "42", "hi"))
	assert.NotContains(t, body, "allowed_mentions")
}

func TestSendMessageError(t *testing.T) {
	c := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.SendMessage(context.Background(), "42", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
