package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/ebuild/internal/app"
	"github.com/felixgeelhaar/ebuild/internal/domain/execution"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
)

var titleCaser = cases.Title(language.English)

func phaseTitle(n phase.Name) string {
	return titleCaser.String(n.String())
}

type reporter struct {
	w     io.Writer
	style styles
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w, style: defaultStyles()}
}

func (r *reporter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// Plan prints the resolved phase plan of an attempt.
func (r *reporter) Plan(a *app.Attempt) {
	r.printf("%s\n", r.style.Title.Render(fmt.Sprintf("Build plan: %s (EAPI %s)", a.Recipe.Name, a.Plan.EAPI())))
	for _, entry := range a.Plan.Entries() {
		def := entry.Definition()
		impl := entry.Implementation()

		detail := impl.Kind.String()
		if impl.Kind == phase.BuildClassProvided {
			detail += " " + impl.Source
		}
		switch {
		case !entry.Eligible():
			detail = r.style.Muted.Render("skipped: not valid for EAPI " + a.Plan.EAPI())
		case def.Guard != "":
			detail += r.style.Muted.Render(" (USE " + def.Guard + ")")
		case def.Cleanup:
			detail += r.style.Muted.Render(" (cleanup)")
		}
		r.printf("  %s %s\n", r.style.Phase.Render(phaseTitle(entry.Name())), detail)
	}
}

// Result prints per-phase outcomes and a summary line.
func (r *reporter) Result(result *execution.Result) {
	r.printf("\n%s\n", r.style.Title.Render("Build results"))
	for _, pr := range result.Phases() {
		title := r.style.Phase.Render(phaseTitle(pr.Name()))
		switch pr.Status() {
		case execution.StatusSucceeded:
			r.printf("  %s %s %s\n", r.style.Success.Render("✓"), title,
				r.style.Muted.Render(pr.Duration().Round(time.Millisecond).String()))
		case execution.StatusSkipped:
			r.printf("  %s %s %s\n", r.style.Warning.Render("-"), title,
				r.style.Muted.Render("skipped: "+pr.Reason()))
		case execution.StatusFailed:
			msg := "failed"
			if pr.Error() != nil {
				msg += ": " + pr.Error().Error()
			}
			r.printf("  %s %s %s\n", r.style.Error.Render("✗"), title, r.style.Error.Render(msg))
		case execution.StatusPending, execution.StatusRunning:
			r.printf("  ? %s %s\n", title, pr.Status())
		}
	}

	s := result.Summary()
	r.printf("\nPhases: %d total, %d succeeded, %d failed, %d skipped\n",
		s.Total, s.Succeeded, s.Failed, s.Skipped)
}
