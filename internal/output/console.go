package output

import (
	"io"
	"os"
	"strings"
	"sync"

	"go-panopticon/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Records are mirrored byte for byte, so tabs are never expanded.
var (
	baseStyle    = lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	styleMessage = baseStyle.Copy()
	styleEdit    = baseStyle.Copy().Faint(true)
	styleBan     = baseStyle.Copy().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleGuild   = baseStyle.Copy().Foreground(lipgloss.Color("39"))             // cyan
)

// Console mirrors every stored record to a terminal for live tailing.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w, or stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Print writes one record. Multi-line records are styled line by line so
// continuation lines keep the colour of their record.
func (c *Console) Print(kind models.EventKind, record string) error {
	style := styleFor(kind)

	lines := strings.Split(record, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, strings.Join(lines, "\n")+"\n")
	return err
}

func styleFor(kind models.EventKind) lipgloss.Style {
	switch kind {
	case models.EventMessageEdit:
		return styleEdit
	case models.EventMemberBan, models.EventMemberUnban:
		return styleBan
	case models.EventGuildAvailable, models.EventGuildUnavailable,
		models.EventGuildAdded, models.EventGuildRemoved:
		return styleGuild
	default:
		return styleMessage
	}
}
