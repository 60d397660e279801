package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatLoadOrg renders a LoadRecord as an Org-mode heading with a
// PROPERTIES drawer, so load history can be pasted into research notes.
func FormatLoadOrg(r LoadRecord) string {
	what := r.DataType
	if r.Timeframe != "" {
		what = r.Timeframe
	}
	heading := fmt.Sprintf("** Load: %s %s %s (%s)", r.Op, what, strings.Join(r.Symbols, " "), shortID(r.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", r.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":DATASET: %s\n", dataset(r)))
	if len(r.Years) > 0 {
		b.WriteString(fmt.Sprintf(":YEARS: %s\n", joinYears(r.Years)))
	}
	b.WriteString(fmt.Sprintf(":CACHE_HIT: %t\n", r.CacheHit))
	b.WriteString(fmt.Sprintf(":FILES: %d\n", r.Files))
	b.WriteString(fmt.Sprintf(":ROWS: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf(":ELAPSED: %s\n", r.Elapsed))
	b.WriteString(":END:\n")

	return b.String()
}

// FormatLoadsOrg renders multiple loads separated by blank lines.
func FormatLoadsOrg(loads []LoadRecord) string {
	var b strings.Builder
	for i, r := range loads {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatLoadOrg(r))
	}
	return b.String()
}

func dataset(r LoadRecord) string {
	parts := []string{r.Source, r.Market}
	if r.MarketSub != "" {
		parts = append(parts, r.MarketSub)
	}
	parts = append(parts, r.DataType)
	return strings.Join(parts, "/")
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
