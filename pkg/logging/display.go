package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// Message is a displayable diagnostic. It mirrors frontend.Diagnostic without
// importing it, so the display code stays independent of the pipeline.
type Message struct {
	Unit    string
	IsError bool
	Line    int
	Col     int
	Text    string
}

// PrintDiagnostics writes one banner per message to w:
//
//	-- Parse Error ---------- A.m
//	3:7 unexpected token
func PrintDiagnostics(w io.Writer, msgs []Message) {
	for _, m := range msgs {
		fmt.Fprint(w, "-- ")
		kind := "Parse Warning"
		style := WarnStyleBG
		if m.IsError {
			kind = "Parse Error"
			style = ErrorStyleBG
		}
		fmt.Fprint(w, style.Sprint(kind))

		name := filepath.Base(m.Unit)
		dashes := 40 - len(name) - len(kind)
		if dashes < 3 {
			dashes = 3
		}
		fmt.Fprintln(w, " "+strings.Repeat("-", dashes)+" "+SuccessColorFG.Sprint(name))

		if m.Line > 0 {
			fmt.Fprintf(w, "%d:%d ", m.Line, m.Col)
		}
		if m.IsError {
			fmt.Fprintln(w, ErrorColorFG.Sprint(m.Text))
		} else {
			fmt.Fprintln(w, WarnColorFG.Sprint(m.Text))
		}
	}
}

// PrintSummary writes the closing line of a run.
func PrintSummary(w io.Writer, ok bool, msg string) {
	if ok {
		fmt.Fprintln(w, SuccessStyleBG.Sprint("Done")+" "+SuccessColorFG.Sprint(msg))
		return
	}
	fmt.Fprintln(w, ErrorStyleBG.Sprint("Failed")+" "+ErrorColorFG.Sprint(msg))
}

// DisableColor turns off ANSI styling, for non-terminal output and tests.
func DisableColor() {
	pterm.DisableColor()
}
