// Package observability provides formatted console output for analyzed datasheets.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/specsense/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// statusIcons decorate the verdict line
var statusIcons = map[types.Status]string{
	types.StatusReady:        "✅",
	types.StatusUnverifiable: "❓",
	types.StatusNotReady:     "❌",
}

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintReport outputs the full console report for one datasheet.
// Enrichment is shown only when withEnrichment is set and the report carries it.
func (p *Printer) PrintReport(report *types.Report, withEnrichment bool) {
	if report == nil {
		return
	}
	if report.Source != "" {
		fmt.Fprintf(p.out, "Source: %s\n", report.Source) //nolint:errcheck
	}
	p.PrintSpecifications(report.Specs)
	p.PrintStatus(report.Verdict)
	p.PrintCorrections(report.Corrections)
	p.PrintViolations(report.Verdict)
	p.PrintMissing(report.Verdict)
	if withEnrichment {
		p.PrintEnrichment(report.Enrichment)
	}
}

// PrintSpecifications outputs the normalized fields with their display labels
func (p *Printer) PrintSpecifications(rec types.SpecRecord) {
	var sb strings.Builder
	for _, key := range types.FieldKeys() {
		value, ok := rec.Get(key)
		if !ok {
			value = "-"
		}
		sb.WriteString(fmt.Sprintf("%-22s %s\n", key.Label()+":", value))
	}
	p.printBox("NORMALIZED SPECIFICATIONS", sb.String())
}

// PrintStatus outputs the verdict status line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatus(verdict types.Verdict) {
	icon := statusIcons[verdict.Status]
	if icon == "" {
		icon = "•"
	}
	fmt.Fprintf(p.out, "\n%s STATUS: %s\n\n", icon, verdict.Status)
}

// PrintCorrections outputs the "Issues Fixed" list
func (p *Printer) PrintCorrections(log types.CorrectionLog) {
	if len(log) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range log {
		sb.WriteString(fmt.Sprintf("🔧 %s: %s → %s\n", c.Field.Label(), c.Original, c.Corrected))
		sb.WriteString(fmt.Sprintf("   (%s)\n", c.Reason))
		if i < len(log)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ISSUES FIXED", sb.String())
}

// PrintViolations outputs the hard rule violations
func (p *Printer) PrintViolations(verdict types.Verdict) {
	if len(verdict.Violations) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(verdict.Violations)))
	for _, v := range verdict.Violations {
		for i, line := range wrap(v, boxWidth-6) {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("⚠ %s\n", line))
			} else {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	p.printBox("COMPLIANCE VIOLATIONS", sb.String())
}

// PrintMissing outputs the missing and unverifiable factors
func (p *Printer) PrintMissing(verdict types.Verdict) {
	if len(verdict.Missing) == 0 {
		return
	}

	var sb strings.Builder
	for _, m := range verdict.Missing {
		for i, line := range wrap(m, boxWidth-6) {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("? %s\n", line))
			} else {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	p.printBox("UNVERIFIABLE FACTORS", sb.String())
}

// PrintEnrichment outputs the keyword groups, frequent words and category
func (p *Printer) PrintEnrichment(enrichment *types.Enrichment) {
	if enrichment == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category: %s\n", enrichment.Category))

	groups := make([]string, 0, len(enrichment.Keywords))
	for g := range enrichment.Keywords {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	if len(groups) > 0 {
		sb.WriteString("\nKeywords:\n")
	}
	for _, g := range groups {
		words := enrichment.Keywords[g]
		shown := words[:min(len(words), maxItemsToShow)]
		line := fmt.Sprintf("  • %s: %s", g, strings.Join(shown, ", "))
		if len(words) > maxItemsToShow {
			line += fmt.Sprintf(" (+%d)", len(words)-maxItemsToShow)
		}
		sb.WriteString(line + "\n")
	}

	if len(enrichment.FrequentWords) > 0 {
		sb.WriteString(fmt.Sprintf("\nFrequent: %s\n", strings.Join(enrichment.FrequentWords, ", ")))
	}
	p.printBox("KEYWORDS & CATEGORY", sb.String())
}

// PrintBatchSummary outputs per-status counts for a batch
func (p *Printer) PrintBatchSummary(reports []*types.Report) {
	counts := make(map[types.Status]int)
	total := 0
	for _, r := range reports {
		if r == nil {
			continue
		}
		counts[r.Verdict.Status]++
		total++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents:     %d\n", total))
	for _, status := range []types.Status{types.StatusReady, types.StatusUnverifiable, types.StatusNotReady} {
		sb.WriteString(fmt.Sprintf("%s %-12s %d\n", statusIcons[status], string(status)+":", counts[status]))
	}
	p.printBox("BATCH SUMMARY", sb.String())
}

// wrap splits text into lines of at most width runes on word boundaries
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
