// Package render implements the CLI Event Adapter: a verbosity-filtered
// subscriber that renders the Emitter's event stream to the terminal using
// fatih/color for status lines and jedib0t/go-pretty for the run summary
// table, with a briandowns/spinner while a transaction is in flight.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
)

// Renderer subscribes to an Emitter and prints events up to verbosity.
type Renderer struct {
	out       io.Writer
	verbosity int
	noColor   bool
	spin      *spinner.Spinner
}

func NewRenderer(out io.Writer, verbosity int, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	return &Renderer{out: out, verbosity: verbosity, noColor: noColor}
}

// Attach subscribes the renderer to every event on emitter.
func (r *Renderer) Attach(emitter *events.Emitter) {
	emitter.OnAny(r.handle)
}

func (r *Renderer) handle(e domain.Event) {
	required := domain.Verbosity(e.Type)
	show := required <= r.verbosity || e.Level == domain.LevelError || e.Level == domain.LevelWarn
	if !show {
		return
	}

	switch e.Type {
	case domain.EventTransactionSent:
		r.startSpinner(fmt.Sprintf("waiting for confirmation: %v", e.Data))
	case domain.EventTransactionConfirmed:
		r.stopSpinner()
	case domain.EventRunSummary:
		r.stopSpinner()
		if result, ok := e.Data.(*models.RunResult); ok {
			r.printSummary(result)
			return
		}
	}

	r.printLine(e)
}

func (r *Renderer) startSpinner(suffix string) {
	if r.noColor {
		fmt.Fprintln(r.out, suffix)
		return
	}
	r.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.out))
	r.spin.Suffix = " " + suffix
	r.spin.Start()
}

func (r *Renderer) stopSpinner() {
	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}
}

func (r *Renderer) printLine(e domain.Event) {
	label := colorForLevel(e.Level)(string(e.Type))
	if e.Data != nil {
		fmt.Fprintf(r.out, "%s %v\n", label, e.Data)
		return
	}
	fmt.Fprintln(r.out, label)
}

func colorForLevel(level domain.EventLevel) func(a ...any) string {
	switch level {
	case domain.LevelError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case domain.LevelWarn:
		return color.New(color.FgYellow).SprintFunc()
	case domain.LevelDebug:
		return color.New(color.FgHiBlack).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}

func (r *Renderer) printSummary(result *models.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Job", "Network", "Status", "Detail"})

	for _, ok := range result.Succeeded {
		t.AppendRow(table.Row{ok.JobName, ok.NetworkName, "ok", ""})
	}
	for _, f := range result.Failed {
		t.AppendRow(table.Row{f.JobName, f.NetworkName, "failed", f.Error})
	}
	t.Render()

	if len(result.ContractsDeployed) > 0 {
		fmt.Fprintln(r.out, "\ncontracts:")
		for key, addr := range result.ContractsDeployed {
			fmt.Fprintf(r.out, "  %s = %s\n", key, addr)
		}
	}
}
