package branch

import (
	"fmt"
	"strings"
)

// Kind selects the branch prefix and the integration branch it targets.
type Kind int

const (
	Feature Kind = iota
	Hotfix
)

func (k Kind) String() string {
	switch k {
	case Feature:
		return "feature"
	case Hotfix:
		return "hotfix"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Bases holds the integration branch for each kind.
type Bases struct {
	Develop string
	Master  string
}

// DefaultBases targets develop for features and master for hotfixes.
var DefaultBases = Bases{Develop: "develop", Master: "master"}

// Base returns the branch a kind is merged back into.
func (b Bases) Base(kind Kind) string {
	if kind == Hotfix {
		return b.Master
	}
	return b.Develop
}

// Resolve builds the canonical branch name, e.g. "feature/my-thing".
func Resolve(kind Kind, name string) string {
	return kind.String() + "/" + name
}

// WellFormed reports whether name only uses lowercase letters, digits, '-' and '_'.
func WellFormed(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// KindOf derives the kind from a branch name's prefix.
func KindOf(branchName string) (Kind, bool) {
	switch {
	case strings.HasPrefix(branchName, Feature.String()):
		return Feature, true
	case strings.HasPrefix(branchName, Hotfix.String()):
		return Hotfix, true
	}
	return Feature, false
}
