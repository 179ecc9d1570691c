package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the operator leaves a prompt without choosing.
var ErrCancelled = errors.New("prompt cancelled")

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
}

var cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))

type choiceModel struct {
	question string
	choices  []string
	cursor   int
	chosen   string
	quit     bool
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keys.Quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(k, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(k, keys.Choose):
		m.chosen = m.choices[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	var b strings.Builder
	b.WriteString(m.question + "\n\n")
	for i, c := range m.choices {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+c) + "\n")
			continue
		}
		b.WriteString("  " + c + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%s · %s · %s\n", keys.Up.Help().Desc, keys.Down.Help().Desc, keys.Choose.Help().Desc))
	return b.String()
}

// Chooser asks the operator to pick one of choices.
type Chooser func(question string, choices []string) (string, error)

// Choose runs an interactive picker on the terminal.
func Choose(question string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices for %q", question)
	}
	final, err := tea.NewProgram(choiceModel{question: question, choices: choices}).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(choiceModel)
	if m.quit || m.chosen == "" {
		return "", ErrCancelled
	}
	return m.chosen, nil
}
