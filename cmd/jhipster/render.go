// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jhipster/generator-jhipster-sub006/internal/engine"
	"github.com/jhipster/generator-jhipster-sub006/internal/issue"
)

// renderError prints err with its suggestions and, when linked, the catalog
// entry explaining it.
func (a *App) renderError(err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+err.Error())
		return
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	if is := issue.Get(ae.Issue); is != nil {
		rendered, rerr := is.Render(a.issueStyle)
		if rerr != nil {
			return
		}
		fmt.Fprint(a.stderr, rendered)
	}
}

func renderDiagnostics(w io.Writer, diags []engine.Diagnostic) {
	for _, d := range diags {
		line := fmt.Sprintf("%s %s", CmdStyle.Render(d.Namespace.String()), d.Message)
		if d.Cause != nil {
			line += ": " + d.Cause.Error()
		}
		style := SubtitleStyle
		if d.Kind == engine.KindResolution {
			style = WarningStyle
		}
		fmt.Fprintln(w, style.Render(d.Kind+":")+" "+line)
	}
}
