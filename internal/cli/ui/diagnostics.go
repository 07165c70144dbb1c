package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/echo-lang/echo/compiler/errors"
)

// RenderOptions configures diagnostic rendering
type RenderOptions struct {
	SourceLines []string // split source text for excerpts; may be nil
	File        string
	NoColor     bool
	MaxShown    int // 0 = unlimited
}

// RenderDiagnostics formats a sorted diagnostic list for the terminal.
//
// Example output:
//
//	error: GRAMMAR: 'end if' does not match the enclosing 'for' block opened at line 2
//	  --> sample.echo:4:1
//	  4 | end if
//	    | ^
func RenderDiagnostics(diags []errors.Diagnostic, opts RenderOptions) string {
	var b strings.Builder

	shown := 0
	for _, d := range diags {
		if opts.MaxShown > 0 && shown >= opts.MaxShown {
			remaining := len(diags) - shown
			fmt.Fprintf(&b, "... and %d more\n", remaining)
			break
		}
		b.WriteString(renderOne(d, opts))
		shown++
	}

	return b.String()
}

func renderOne(d errors.Diagnostic, opts RenderOptions) string {
	headerColor := color.New(color.FgRed, color.Bold)
	if d.IsWarning() {
		headerColor = color.New(color.FgYellow, color.Bold)
	}
	locColor := color.New(color.FgCyan)
	gutterColor := color.New(color.FgBlue)
	if opts.NoColor {
		headerColor.DisableColor()
		locColor.DisableColor()
		gutterColor.DisableColor()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s\n",
		headerColor.Sprint(d.Severity.String()),
		d.Category.String(),
		d.Message)
	fmt.Fprintf(&b, "  %s %s:%d:%d\n", locColor.Sprint("-->"), opts.File, d.Line, d.Column)

	if line, ok := sourceLine(opts.SourceLines, d.Line); ok {
		gutter := fmt.Sprintf("%3d", d.Line)
		fmt.Fprintf(&b, "%s %s %s\n", gutterColor.Sprint(gutter), gutterColor.Sprint("|"), line)
		caretPad := strings.Repeat(" ", max(d.Column-1, 0))
		fmt.Fprintf(&b, "    %s %s%s\n", gutterColor.Sprint("|"), caretPad, headerColor.Sprint("^"))
	}

	if suggestion, ok := d.Context["suggestion"]; ok {
		fmt.Fprintf(&b, "  %s %s\n", locColor.Sprint("help:"), suggestion)
	}

	return b.String()
}

func sourceLine(lines []string, n int) (string, bool) {
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// RenderSummary formats the closing error/warning count line
func RenderSummary(errorCount, warningCount int, noColor bool) string {
	okColor := color.New(color.FgGreen)
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	if noColor {
		okColor.DisableColor()
		errColor.DisableColor()
		warnColor.DisableColor()
	}

	if errorCount == 0 && warningCount == 0 {
		return okColor.Sprint("No errors or warnings") + "\n"
	}

	parts := []string{}
	if errorCount > 0 {
		parts = append(parts, errColor.Sprintf("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, warnColor.Sprintf("%d warning(s)", warningCount))
	}
	return strings.Join(parts, " and ") + "\n"
}
