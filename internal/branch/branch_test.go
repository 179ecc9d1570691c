package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "feature/x", Resolve(Feature, "x"))
	assert.Equal(t, "hotfix/x", Resolve(Hotfix, "x"))
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"my-feature_123", true},
		{"abc", true},
		{"My Feature!", false},
		{"", false},
		{"has space", false},
		{"UPPER", false},
		{"dot.ted", false},
		{"slash/ed", false},
		{"café", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, WellFormed(tc.name), "WellFormed(%q)", tc.name)
	}
}

func TestBase(t *testing.T) {
	assert.Equal(t, "develop", DefaultBases.Base(Feature))
	assert.Equal(t, "master", DefaultBases.Base(Hotfix))

	custom := Bases{Develop: "main", Master: "release"}
	assert.Equal(t, "main", custom.Base(Feature))
	assert.Equal(t, "release", custom.Base(Hotfix))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf("feature/a")
	assert.True(t, ok)
	assert.Equal(t, Feature, kind)

	kind, ok = KindOf("hotfix/b")
	assert.True(t, ok)
	assert.Equal(t, Hotfix, kind)

	_, ok = KindOf("develop")
	assert.False(t, ok)
}
