package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/dwarflabs/git-me/internal/logs"
)

// OperatorName returns the login of the person running git-me, taken from
// $USER or $USERNAME (Windows).
func OperatorName() (string, error) {
	name := os.Getenv("USER")
	if name == "" {
		name = os.Getenv("USERNAME")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("unable to determine the operator; set $USER")
	}
	logs.Debug("Operator resolved from environment: %s", name)
	return name, nil
}
