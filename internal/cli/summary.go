package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"edgedeploy/internal/reconciler"
)

// RenderSummary writes a table of what the run did to out. runErr is the
// error Run returned, if any; the rows then show how far the run got.
func RenderSummary(out io.Writer, setup string, res *reconciler.RunResult, metrics reconciler.MetricsSummary, runErr error) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	if runErr != nil {
		t.SetTitle(fmt.Sprintf("Deploy of %s to %s failed", res.Image, setup))
	} else {
		t.SetTitle(fmt.Sprintf("Deployed %s to %s", res.Image, setup))
	}

	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("RESOURCE"),
		text.FgHiCyan.Sprint("TARGET"),
		text.FgHiCyan.Sprint("RESULT"),
	})

	for _, action := range res.Actions {
		detail := string(action)
		if action == reconciler.ActionUpdateApp {
			if len(res.FieldMask) == 0 {
				detail += " (no field changes)"
			} else {
				detail += fmt.Sprintf(" (fields %s)", strings.Join(res.FieldMask, ","))
			}
		}
		t.AppendRow(table.Row{"App", res.Image, detail})
	}

	for _, c := range res.Clusters {
		result := string(c.Outcome)
		if c.Outcome == reconciler.ClusterReady {
			result = fmt.Sprintf("%s (%d polls)", result, c.Polls)
		}
		t.AppendRow(table.Row{"ClusterInst", c.Key.String(), result})
	}

	for _, ai := range res.AppInsts {
		result := text.FgGreen.Sprint(strings.TrimPrefix(ai.Operation, "ctrl/"))
		if !ai.Healthy() {
			result = text.FgRed.Sprintf("%s failed: %s", strings.TrimPrefix(ai.Operation, "ctrl/"), strings.Join(ai.Failure.Messages, "; "))
		}
		t.AppendRow(table.Row{"AppInst", ai.Key.ClusterInstKey.String(), result})
	}

	var attempts, failures int64
	for _, m := range metrics.PerResourceType {
		attempts += m.Attempts
		failures += m.Failures + m.PartialFailures
	}
	t.AppendFooter(table.Row{
		text.FgHiBlue.Sprint("Total"),
		fmt.Sprintf("%d reconciled", attempts),
		fmt.Sprintf("%d failed", failures),
	})

	t.Render()
}
