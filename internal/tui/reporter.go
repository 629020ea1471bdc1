package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Reporter writes user-facing messages. Logs go elsewhere.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	styled bool
	quiet  bool
}

// NewReporter returns a reporter writing to out and errOut. styled enables colors.
func NewReporter(out, errOut io.Writer, styled bool) *Reporter {
	if errOut == nil {
		errOut = out
	}
	return &Reporter{out: out, errOut: errOut, styled: styled}
}

// WithQuiet returns a copy that drops banners and notes.
func (r *Reporter) WithQuiet(quiet bool) *Reporter {
	cp := *r
	cp.quiet = quiet
	return &cp
}

// Out returns the stdout writer.
func (r *Reporter) Out() io.Writer { return r.out }

// Banner prints the artwork block.
func (r *Reporter) Banner(art string) {
	if r.quiet || strings.TrimSpace(art) == "" {
		return
	}
	fmt.Fprintln(r.out, r.render(BannerStyle, strings.TrimRight(art, "\n")))
}

// Success prints a confirmation line.
func (r *Reporter) Success(msg string) {
	fmt.Fprintln(r.out, r.render(SuccessStyle, "[OK] "+msg))
}

// Note prints an informational line.
func (r *Reporter) Note(msg string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, r.render(MutedStyle, "[NOTE] "+msg))
}

// Warn prints a warning line to the error stream.
func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.errOut, r.render(WarningStyle, "[WARN] "+msg))
}

// Error prints an error line to the error stream.
func (r *Reporter) Error(msg string) {
	fmt.Fprintln(r.errOut, r.render(ErrorStyle, "[ERROR] "+msg))
}

// KeyValue prints "label: value".
func (r *Reporter) KeyValue(label, value string) {
	fmt.Fprintf(r.out, "%s %s\n", r.render(LabelStyle, label+":"), r.render(ValueStyle, value))
}

func (r *Reporter) render(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}
