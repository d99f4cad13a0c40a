// Package cli contains the terminal adapters: styled renderer, line console,
// spinner, clipboard, and the cobra command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Renderer writes styled output to the terminal. Styling degrades to plain
// text when stdout is not a TTY.
type Renderer struct {
	out    io.Writer
	styled bool

	header   lipgloss.Style
	panel    lipgloss.Style
	title    lipgloss.Style
	status   lipgloss.Style
	success  lipgloss.Style
	errStyle lipgloss.Style
	hint     lipgloss.Style
}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer builds a renderer for stdout.
func NewRenderer() *Renderer {
	return newRenderer(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

func newRenderer(out io.Writer, styled bool) *Renderer {
	r := &Renderer{out: out, styled: styled}
	if styled {
		r.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
		r.panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
		r.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
		r.status = lipgloss.NewStyle().Faint(true)
		r.success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		r.errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		r.hint = lipgloss.NewStyle().Faint(true).Italic(true)
	}
	return r
}

// Header prints the startup banner.
func (r *Renderer) Header() {
	banner := "asoforge - App Store metadata studio"
	if r.styled {
		banner = r.header.Render(banner)
	}
	fmt.Fprintln(r.out, banner)
}

// Status prints the model and quota line shown before each prompt.
func (r *Renderer) Status(model string, quota *domain.QuotaInfo) {
	line := fmt.Sprintf("model %s", model)
	if quota != nil {
		switch {
		case quota.Unlimited:
			line += " | quota unlimited"
		default:
			line += fmt.Sprintf(" | quota %d/%d", quota.Used, quota.Entitlement)
		}
		if quota.ResetsAt != nil {
			line += fmt.Sprintf(" (resets %s)", humanize.Time(*quota.ResetsAt))
		}
	}
	if r.styled {
		line = r.status.Render(line)
	}
	fmt.Fprintln(r.out, line)
}

// Panel prints a titled content block.
func (r *Renderer) Panel(title, body string) {
	if r.styled {
		fmt.Fprintln(r.out, r.title.Render(title))
		fmt.Fprintln(r.out, r.panel.Render(body))
		return
	}
	fmt.Fprintf(r.out, "== %s ==\n%s\n", title, body)
}

// NumberedList prints a titled 1-based list.
func (r *Renderer) NumberedList(title string, items []string) {
	if r.styled {
		fmt.Fprintln(r.out, r.title.Render(title))
	} else {
		fmt.Fprintf(r.out, "%s:\n", title)
	}
	for i, item := range items {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, item)
	}
}

// Info prints a neutral line.
func (r *Renderer) Info(msg string) {
	fmt.Fprintln(r.out, msg)
}

// Success prints a confirmation line.
func (r *Renderer) Success(msg string) {
	if r.styled {
		msg = r.success.Render("✓ " + msg)
	}
	fmt.Fprintln(r.out, msg)
}

// Error prints a user-facing error line.
func (r *Renderer) Error(msg string) {
	if r.styled {
		msg = r.errStyle.Render("✗ " + msg)
	} else {
		msg = "error: " + msg
	}
	fmt.Fprintln(r.out, msg)
}

// Hint prints a secondary guidance line.
func (r *Renderer) Hint(msg string) {
	if r.styled {
		msg = r.hint.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// Clear wipes the screen on TTYs and is a no-op elsewhere.
func (r *Renderer) Clear() {
	if r.styled {
		fmt.Fprint(r.out, "\033[2J\033[H")
	}
}

// Artifact prints the descriptor of a written image.
func (r *Renderer) Artifact(a domain.ImageArtifact) {
	line := fmt.Sprintf("%s  %dx%d %s, %s",
		a.Path, a.Width, a.Height, strings.ToUpper(a.Format), humanize.Bytes(uint64(a.Bytes)))
	if r.styled {
		fmt.Fprintln(r.out, r.success.Render("✓ image written"))
		fmt.Fprintln(r.out, r.status.Render("  "+line))
		return
	}
	fmt.Fprintf(r.out, "image written: %s\n", line)
}
