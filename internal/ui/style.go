package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))

	headingRE = regexp.MustCompile(`(?m)^([A-Z][A-Za-z ]*:)`)
)

// Out receives operator-facing progress lines.
var Out io.Writer = os.Stdout

// ColorHeadings highlights "Usage:", "Flags:" style headings in cobra templates.
func ColorHeadings(s string) string {
	return headingRE.ReplaceAllStringFunc(s, func(h string) string {
		return headingStyle.Render(h)
	})
}

// Step prints a top-level progress line.
func Step(format string, args ...interface{}) {
	fmt.Fprintln(Out, "  "+stepStyle.Render(fmt.Sprintf(format, args...)))
}

// SubStep prints an indented "    * ..." progress line.
func SubStep(format string, args ...interface{}) {
	fmt.Fprintln(Out, "    * "+stepStyle.Render(fmt.Sprintf(format, args...)))
}

// Detail prints a progress line nested under a SubStep.
func Detail(format string, args ...interface{}) {
	fmt.Fprintln(Out, "        * "+stepStyle.Render(fmt.Sprintf(format, args...)))
}

func Warn(format string, args ...interface{}) {
	fmt.Fprintln(Out, warnStyle.Render("warning: ")+fmt.Sprintf(format, args...))
}

// Heading renders a bold section title.
func Heading(s string) string {
	return headingStyle.Render(s)
}
