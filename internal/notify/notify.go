// Package notify delivers review announcements to a team channel.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/model"
)

// Message is a title plus a markdown body.
type Message struct {
	Title string
	Text  string
}

// Sink is a team channel.
type Sink interface {
	// Mention formats a reference to u that the channel will highlight.
	Mention(u model.User) string
	Send(ctx context.Context, m Message) error
}

const (
	KindTeams   = "teams"
	KindDiscord = "discord"
)

// New builds the sink for kind posting to url.
func New(kind, url string) (Sink, error) {
	if url == "" {
		return nil, apperr.Precondition("no notify_url configured; run 'git-me config set-global notify_url <url>'")
	}
	switch strings.ToLower(kind) {
	case "", KindTeams:
		return NewTeamsSink(url), nil
	case KindDiscord:
		return NewDiscordSink(url)
	default:
		return nil, fmt.Errorf("unknown notify_kind '%s'; expected %s or %s", kind, KindTeams, KindDiscord)
	}
}

func displayName(u model.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
