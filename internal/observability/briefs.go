package observability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/briefing-monitor/internal/db"
	"github.com/jonathan/briefing-monitor/internal/pipeline"
	"github.com/jonathan/briefing-monitor/internal/types"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

// PrintRecords outputs the selected records in ranked order.
func (p *Printer) PrintRecords(records []types.Record) {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(r.Title, titleWidth),
			r.Source,
			r.DisplayDate(),
		})
	}
	p.printTable([]string{"#", "Title", "Source", "Published"}, rows, []columnAlignment{alignRight})
}

// PrintDecisions outputs the classifier decision for every collected record.
func (p *Printer) PrintDecisions(decisions []pipeline.Evaluated) {
	rows := make([][]string, 0, len(decisions))
	for _, e := range decisions {
		verdict := "reject"
		if e.Decision.Relevant {
			verdict = "accept"
		}
		rows = append(rows, []string{
			verdict,
			string(e.Decision.Tier),
			e.Decision.Term,
			truncate(e.Record.Title, titleWidth),
		})
	}
	p.printTable([]string{"Verdict", "Tier", "Term", "Title"}, rows, nil)
}

// PrintMetrics outputs weekly accuracy rows in sheet order.
func (p *Printer) PrintMetrics(records []types.MetricsRecord) {
	rows := make([][]string, 0, len(records))
	for _, m := range records {
		rows = append(rows, []string{
			m.Date,
			strconv.FormatFloat(m.ASCVDAccuracy(), 'f', 1, 64) + "%",
			strconv.Itoa(m.Count(types.CounterInteractionsDetected)),
			strconv.Itoa(m.Count(types.CounterInteractionsMissed)),
			strconv.Itoa(m.Count(types.CounterFalsePositives)),
			strconv.Itoa(m.Count(types.CounterAllergyFailures)),
			truncate(m.Notes, 30),
		})
	}
	p.printTable([]string{"Week", "ASCVD", "Detected", "Missed", "False +", "Allergy", "Notes"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight})
}

// PrintSelection outputs the funnel counts of a selection.
func (p *Printer) PrintSelection(sel pipeline.Selection) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Collected: %d\n", sel.Collected)
	fmt.Fprintf(&sb, "Relevant:  %d\n", sel.Relevant)
	fmt.Fprintf(&sb, "Recent:    %d\n", sel.Recent)
	fmt.Fprintf(&sb, "Unique:    %d\n", len(sel.Records))
	p.printBox("SELECTION", sb.String())
}

// PrintVariants outputs the available variants.
func (p *Printer) PrintVariants(vs []*variants.Variant) {
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		feeds := "-"
		if len(v.Source.Feeds) > 0 {
			feeds = strconv.Itoa(len(v.Source.Feeds))
		}
		rows = append(rows, []string{
			v.Name,
			string(v.Source.Kind),
			feeds,
			v.Prompt.Template,
			string(v.Tier()),
			strconv.Itoa(v.Prompt.MaxOutputTokens),
		})
	}
	p.printTable([]string{"Name", "Source", "Feeds", "Template", "Tier", "Max tokens"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight})
}

// PrintRuns outputs ledger entries, newest first.
func (p *Printer) PrintRuns(runs []db.BriefRun) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		errText := ""
		if r.Error != nil {
			errText = truncate(*r.Error, 40)
		}
		rows = append(rows, []string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Variant,
			r.Status,
			strconv.Itoa(r.Collected),
			strconv.Itoa(r.Selected),
			duration,
			errText,
		})
	}
	p.printTable([]string{"Started", "Variant", "Status", "Collected", "Selected", "Duration", "Error"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight})
}

// PrintReport outputs the summary of a finished run.
func (p *Printer) PrintReport(report *pipeline.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Variant:   %s\n", report.Variant)
	fmt.Fprintf(&sb, "Status:    %s\n", report.Status)
	fmt.Fprintf(&sb, "Collected: %d\n", report.Collected)
	fmt.Fprintf(&sb, "Briefed:   %d\n", report.Count())
	if report.Message.Subject != "" {
		fmt.Fprintf(&sb, "Subject:   %s\n", report.Message.Subject)
	}
	if len(report.Message.To) > 0 {
		fmt.Fprintf(&sb, "To:        %s\n", strings.Join(report.Message.To, ", "))
	}
	if report.Synthesis.Err != nil {
		fmt.Fprintf(&sb, "Synthesis: %v\n", report.Synthesis.Err)
	}
	if report.ArchiveURI != "" {
		fmt.Fprintf(&sb, "Archive:   %s\n", report.ArchiveURI)
	}
	if !report.FinishedAt.IsZero() {
		fmt.Fprintf(&sb, "Completed: %s\n", report.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	p.printBox("RUN SUMMARY", sb.String())
}
