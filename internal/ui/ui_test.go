package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func TestChoiceModelMovesAndChooses(t *testing.T) {
	m := choiceModel{question: "Rebase conflict", choices: []string{"continue", "abort"}}

	final, cmd := press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	got := final.(choiceModel)
	assert.Equal(t, "abort", got.chosen)
	assert.NotNil(t, cmd)
}

func TestChoiceModelQuit(t *testing.T) {
	m := choiceModel{question: "q", choices: []string{"continue", "abort"}}
	final, _ := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	got := final.(choiceModel)
	assert.True(t, got.quit)
	assert.Empty(t, got.chosen)
}

func TestViewMarksCursor(t *testing.T) {
	m := choiceModel{question: "pick", choices: []string{"a", "b"}, cursor: 1}
	v := m.View()
	assert.Contains(t, v, "pick")
	assert.Contains(t, v, "  a\n")
	assert.Contains(t, v, "> b")
}

func TestSubStepFormat(t *testing.T) {
	var buf bytes.Buffer
	old := Out
	Out = &buf
	defer func() { Out = old }()

	SubStep("Check nothing to %s", "commit")
	assert.True(t, strings.HasPrefix(buf.String(), "    * "))
	assert.Contains(t, buf.String(), "Check nothing to commit")
}

func TestColorHeadingsKeepsText(t *testing.T) {
	out := ColorHeadings("Usage:\n  git-me [command]\n")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "git-me [command]")
}
