package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
)

const discordDescriptionLimit = 4096

// DiscordSink executes a Discord webhook.
type DiscordSink struct {
	session *discordgo.Session
	id      string
	token   string
}

func NewDiscordSink(webhookURL string) (*DiscordSink, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordSink{session: session, id: id, token: token}, nil
}

// parseWebhookURL splits https://discord.com/api/webhooks/<id>/<token>.
func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid discord webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid discord webhook url '%s'; expected .../webhooks/<id>/<token>", raw)
}

func (s *DiscordSink) Mention(u model.User) string {
	return "@" + u.Username
}

func (s *DiscordSink) Send(ctx context.Context, m Message) error {
	params := &discordgo.WebhookParams{
		Username: "git-me",
		Embeds: []*discordgo.MessageEmbed{{
			Title:       m.Title,
			Description: truncate(m.Text, discordDescriptionLimit),
			Color:       0x3498DB,
		}},
	}
	if _, err := s.session.WebhookExecute(s.id, s.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return apperr.Transport(err, "failed to notify discord")
	}
	logs.Info("Discord notified: %s", m.Title)
	return nil
}

// truncate shortens s to at most limit characters, ending it with "..." when
// anything was cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
