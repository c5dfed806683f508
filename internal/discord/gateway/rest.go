package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/EgorLis/discordbridge/internal/discord"
)

const (
	defaultAPIBase = "https://discord.com/api/v10"
	userAgent      = "DiscordBot (https://github.com/EgorLis/discordbridge, 1.0)"
)

// Текстовые каналы: GUILD_TEXT и GUILD_ANNOUNCEMENT.
var textChannelTypes = map[int]bool{0: true, 5: true}

// ResolveChannel проверяет, что канал существует и текстовый.
func (c *Client) ResolveChannel(ctx context.Context, id string) (discord.Channel, error) {
	var ch channel
	if err := c.do(ctx, http.MethodGet, "/channels/"+url.PathEscape(id), nil, &ch); err != nil {
		return discord.Channel{}, eris.Wrapf(err, "get channel %s", id)
	}
	if !textChannelTypes[ch.Type] {
		return discord.Channel{}, eris.Errorf("channel %s is not a text channel (type %d)", id, ch.Type)
	}
	return discord.Channel{ID: ch.ID, Name: ch.Name, GuildID: ch.GuildID}, nil
}

// SendMessage публикует сообщение от имени бота.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	body := createMessage{Content: content}
	if !c.allowMentions {
		body.AllowedMentions = &allowedMentions{Parse: []string{}}
	}
	if err := c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(channelID)+"/messages", body, nil); err != nil {
		return eris.Wrapf(err, "send message to %s", channelID)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "encode request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode/100 != 2 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			return eris.Errorf("%s: %s (code %d)", resp.Status, ae.Message, ae.Code)
		}
		return eris.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return eris.Wrap(json.Unmarshal(data, out), "decode response")
}
