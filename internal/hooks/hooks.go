package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dwarflabs/git-me/internal/config"
	"github.com/dwarflabs/git-me/internal/logs"
)

// Events a hook can subscribe to.
const (
	EventStart     = "start"
	EventReview    = "review"
	EventFinished  = "finished"
	EventAggregate = "aggregate"
)

var Events = []string{EventStart, EventReview, EventFinished, EventAggregate}

// Timeout bounds a single hook script.
var Timeout = 30 * time.Second

// ListHooks returns the configured "event|script" entries.
func ListHooks() []string {
	raw := config.GetConfigValue(config.KeyHooks)
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ";")
}

func AddHook(event, scriptPath string, global bool) error {
	if event == "" || scriptPath == "" {
		return fmt.Errorf("invalid hook parameters")
	}
	if !knownEvent(event) {
		return fmt.Errorf("unknown hook event '%s'; expected one of %s", event, strings.Join(Events, ", "))
	}

	hs := append(ListHooks(), fmt.Sprintf("%s|%s", event, scriptPath))
	return config.SetConfigValue(config.KeyHooks, strings.Join(hs, ";"), global)
}

// RunHooks runs every script registered for event with arg. Hook failures are
// logged and never abort the workflow.
func RunHooks(ctx context.Context, event, arg string) {
	for _, h := range ListHooks() {
		parts := strings.SplitN(h, "|", 2)
		if len(parts) != 2 {
			logs.Warn("Invalid hook format: '%s'", h)
			continue
		}
		if parts[0] == event {
			runHookScript(ctx, parts[1], event, arg)
		}
	}
}

func knownEvent(event string) bool {
	for _, e := range Events {
		if e == event {
			return true
		}
	}
	return false
}

func runHookScript(ctx context.Context, script, event, arg string) {
	abs, err := filepath.Abs(script)
	if err != nil {
		logs.Warn("Failed to get absolute path for hook script '%s': %v", script, err)
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		logs.Warn("Hook script not found or is a directory: '%s'", abs)
		return
	}
	logs.Debug("Running hook script '%s' for event '%s'", abs, event)

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, abs, event, arg).CombinedOutput()
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		logs.Warn("Hook script '%s' timed out after %s.", abs, Timeout)
	case err != nil:
		logs.Warn("Hook script '%s' failed: %v\nOutput: %s", abs, err, string(out))
	default:
		logs.Info("Hook script '%s' executed successfully.\nOutput: %s", abs, string(out))
	}
}
