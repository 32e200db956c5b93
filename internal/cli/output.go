package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// printer writes status lines styled for the terminal behind each writer.
type printer struct {
	out, err io.Writer

	okStyle    lipgloss.Style
	failStyle  lipgloss.Style
	titleStyle lipgloss.Style
	mutedStyle lipgloss.Style
	doneStyle  lipgloss.Style
}

func newPrinter(out, errOut io.Writer) printer {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)
	return printer{
		out:        out,
		err:        errOut,
		okStyle:    outR.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true),
		failStyle:  errR.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
		titleStyle: outR.NewStyle().Foreground(lipgloss.Color("#38bdf8")).Bold(true),
		mutedStyle: outR.NewStyle().Foreground(lipgloss.Color("#64748b")),
		doneStyle:  outR.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Strikethrough(true),
	}
}

func (p printer) ok(msg string) {
	fmt.Fprintln(p.out, p.okStyle.Render("✔")+" "+msg)
}

func (p printer) fail(msg string) {
	fmt.Fprintln(p.err, p.failStyle.Render("✖")+" "+msg)
}

func (p printer) hint(msg string) {
	fmt.Fprintln(p.err, p.mutedStyle.Render(msg))
}
