package scanner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devforge/devforge/internal/ui"
)

// WriteText renders a human-readable report. Only masked snippets appear.
func WriteText(w io.Writer, r *Report) {
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s: %s\n", ui.Warning.Sprint("skipped"), ui.Path.Sprint(warn.Path), warn.Err)
	}

	if !r.Failed() {
		fmt.Fprintln(w, ui.SuccessLine(fmt.Sprintf("No secrets detected in %d files", r.FilesScanned)))
		return
	}

	width := 0
	for _, f := range r.Findings {
		if l := len(f.Rule); l > width {
			width = l
		}
	}

	fmt.Fprintln(w, ui.FailureLine(fmt.Sprintf("Found %d potential secrets in %d files", len(r.Findings), r.FilesScanned)))
	fmt.Fprintln(w)
	for _, f := range r.Findings {
		pad := strings.Repeat(" ", width-len(f.Rule))
		fmt.Fprintf(w, "  %s%s %s:%d:%d  %s\n", ui.Rule.Sprint(f.Rule), pad, ui.Path.Sprint(f.Path), f.Line, f.Column, f.Snippet)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.HintLine("Remove the values, move them into the store with "+ui.Code.Sprint("devforge secrets set")+
		", or mark intended lines with "+ui.Code.Sprint(AllowDirective)))
}

type jsonWarning struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonReport struct {
	Findings     []Finding     `json:"findings"`
	Warnings     []jsonWarning `json:"warnings"`
	FilesScanned int           `json:"files_scanned"`
	Failed       bool          `json:"failed"`
}

// WriteJSON renders the report as a single JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	out := jsonReport{
		Findings:     r.Findings,
		Warnings:     make([]jsonWarning, 0, len(r.Warnings)),
		FilesScanned: r.FilesScanned,
		Failed:       r.Failed(),
	}
	if out.Findings == nil {
		out.Findings = []Finding{}
	}
	for _, warn := range r.Warnings {
		out.Warnings = append(out.Warnings, jsonWarning{Path: warn.Path, Error: warn.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
