package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"volta/internal/diag"
	"volta/internal/source"
)

// Pretty renders the bag in a human-readable form. The bag is expected
// to be sorted already. Each diagnostic prints as
//
//	<path>:<line>:<col>: <severity>[<code>]: <message>
//
// followed by the source line with a caret underline over the span and,
// when enabled, the notes in the same format.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.printDiagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) printDiagnostic(d diag.Diagnostic) {
	p.printHeader(d.Severity, d.Code, d.Message, d.Primary)
	p.printExcerpt(d.Primary, d.Severity)
	if p.opts.ShowNotes {
		for _, note := range d.Notes {
			p.printHeader(diag.SevLog, d.Code, note.Msg, note.Span)
			p.printExcerpt(note.Span, diag.SevLog)
		}
	}
}

func (p *prettyPrinter) printHeader(sev diag.Severity, code diag.Code, msg string, span source.Span) {
	start, _ := p.fs.Resolve(span)
	label := sev.String()
	if p.opts.Color {
		label = p.severityColor(sev).Sprint(label)
	}
	fmt.Fprintf(p.w, "%s:%d:%d: %s[%s]: %s\n",
		p.path(span), start.Line, start.Col, label, code, msg)
}

// printExcerpt shows the first line the span covers with a caret
// underline. Spans reaching past the line end are clamped.
func (p *prettyPrinter) printExcerpt(span source.Span, sev diag.Severity) {
	file := p.fs.Get(span.File)
	if file == nil {
		return
	}
	start, end := p.fs.Resolve(span)

	firstCtx := start.Line
	if ctx := uint32(p.opts.Context); firstCtx > ctx {
		firstCtx -= ctx
	} else {
		firstCtx = 1
	}
	for line := firstCtx; line < start.Line; line++ {
		fmt.Fprintf(p.w, "%5d | %s\n", line, expandTabs(file.GetLine(line)))
	}

	text := file.GetLine(start.Line)
	fmt.Fprintf(p.w, "%5d | %s\n", start.Line, expandTabs(text))

	// Underline position and width in screen cells, tabs expanded and
	// wide runes counted properly.
	startCol := int(start.Col) - 1
	if startCol > len(text) {
		startCol = len(text)
	}
	endCol := len(text)
	if end.Line == start.Line && int(end.Col)-1 < endCol {
		endCol = int(end.Col) - 1
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}
	pad := runewidth.StringWidth(expandTabs(text[:startCol]))
	width := runewidth.StringWidth(expandTabs(clampToLen(text, startCol, endCol)))
	if width < 1 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)
	if p.opts.Color {
		underline = p.severityColor(sev).Sprint(underline)
	}
	fmt.Fprintf(p.w, "      | %s%s\n", strings.Repeat(" ", pad), underline)
}

func clampToLen(text string, start, end int) string {
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func (p *prettyPrinter) path(span source.Span) string {
	file := p.fs.Get(span.File)
	if file == nil {
		return "<unknown>"
	}
	switch p.opts.PathMode {
	case PathModeAbsolute:
		return file.Path
	case PathModeBasename:
		return filepath.Base(file.Path)
	default:
		return file.DisplayPath(p.fs.BaseDir())
	}
}

func (p *prettyPrinter) severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	case diag.SevHint:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
