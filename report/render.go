package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sig-0/mepquotes/quote"
)

const (
	DefaultTitle = "MEP DOLLAR QUOTE REPORT"

	generatedLayout = "02/01/2006 15:04:05"
	ruleWidth       = 50
)

var tableHeaders = []string{"Source", "Timestamp", "MEP value", "Elapsed"}

// Render formats the run results as a plain text report
func Render(title string, results []*quote.Result, total time.Duration, at time.Time) string {
	var (
		b    strings.Builder
		rule = strings.Repeat("=", ruleWidth)
	)

	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, title, rule)
	fmt.Fprintf(&b, "\nGenerated at: %s\n", at.Format(generatedLayout))

	summary := Summarize(results)

	if summary != nil {
		rows := make([][]string, 0, len(results))

		for _, r := range results {
			rows = append(rows, []string{
				r.Source.String(),
				r.DisplayTime(),
				formatMoney(r.Value),
				fmt.Sprintf("%.2fs", r.ElapsedSeconds()),
			})
		}

		b.WriteString("\nResults by source:\n")
		b.WriteString(grid(tableHeaders, rows))

		b.WriteString("\nStatistics:\n")
		fmt.Fprintf(&b, "Mean value: %s\n", formatMoney(summary.Mean))
		fmt.Fprintf(&b, "Max value: %s\n", formatMoney(summary.Max))
		fmt.Fprintf(&b, "Min value: %s\n", formatMoney(summary.Min))

		if summary.StdDev != nil {
			fmt.Fprintf(&b, "Standard deviation: %s\n", formatMoney(*summary.StdDev))
		}

		fmt.Fprintf(&b, "Max spread between sources: %s\n", formatMoney(summary.Spread))
	}

	b.WriteString("\nPerformance:\n")
	fmt.Fprintf(&b, "Total elapsed time: %.2f seconds\n", total.Seconds())

	if summary != nil {
		fmt.Fprintf(&b, "Mean time per source: %.2f seconds\n", summary.MeanElapsed.Seconds())
	}

	return b.String()
}

// formatMoney formats the value as a 2dp dollar amount
func formatMoney(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// grid renders the rows as a bordered table:
//
//	+--------+-----+
//	| Header | ... |
//	+========+=====+
//	| value  | ... |
//	+--------+-----+
func grid(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))

	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder

	border := func(fill string) {
		b.WriteString("+")

		for _, w := range widths {
			b.WriteString(strings.Repeat(fill, w+2))
			b.WriteString("+")
		}

		b.WriteString("\n")
	}

	line := func(cells []string) {
		b.WriteString("|")

		for i, cell := range cells {
			pad := widths[i] - utf8.RuneCountInString(cell)
			fmt.Fprintf(&b, " %s%s |", cell, strings.Repeat(" ", pad))
		}

		b.WriteString("\n")
	}

	border("-")
	line(headers)
	border("=")

	for _, row := range rows {
		line(row)
		border("-")
	}

	return b.String()
}
