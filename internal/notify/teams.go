package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
)

// TeamsSink posts to a Microsoft Teams incoming webhook.
type TeamsSink struct {
	url    string
	client *http.Client
}

func NewTeamsSink(url string) *TeamsSink {
	return &TeamsSink{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

type teamsPayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (s *TeamsSink) Mention(u model.User) string {
	return "<at>" + displayName(u) + "</at>"
}

func (s *TeamsSink) Send(ctx context.Context, m Message) error {
	body, err := json.Marshal(teamsPayload{Title: m.Title, Text: m.Text})
	if err != nil {
		return fmt.Errorf("failed to marshal teams payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return apperr.Transport(err, "failed to build teams request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperr.Transport(err, "failed to notify teams")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return apperr.Transport(fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(msg)), "failed to notify teams")
	}
	logs.Info("Teams notified: %s", m.Title)
	return nil
}
