package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/table"
)

// ColumnCount pairs a column with a row count
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// Report is the completeness analysis of one table
type Report struct {
	Selected  []string      `json:"selected"`
	RowCount  int           `json:"row_count"`
	RowScores []float64     `json:"row_scores"` // per row, in [0, 1]
	Missing   []ColumnCount `json:"missing"`    // descending by count
	Present   []ColumnCount `json:"present"`    // selection order
	MeanScore float64       `json:"mean_score"`
}

// SelectProperties returns the schema names passing filter that also occur
// as table columns, in schema order. Declared properties that no fetched
// object carries are silently left out, as are names of reserved columns,
// since those columns never hold property values.
func SelectProperties(defs []contracts.PropertyDefinition, filter contracts.Importance, tbl *table.Table) []string {
	seen := make(map[string]bool, len(defs))
	selected := make([]string, 0, len(defs))

	for _, d := range defs {
		if d.Name == "" || table.IsReserved(d.Name) || seen[d.Name] || !filter.Matches(d.Importance) {
			continue
		}
		seen[d.Name] = true

		if tbl.HasColumn(d.Name) {
			selected = append(selected, d.Name)
		}
	}

	return selected
}

// Analyze scores every row by the fraction of selected columns it fills
// and counts missing cells per selected column. It does not modify tbl.
// ⭐ SSOT: completeness metrics are computed here only
func Analyze(tbl *table.Table, selected []string) (*Report, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("analyze: %w", contracts.ErrNoApplicableProperties)
	}

	rows := tbl.Len()
	missing := make([]int, len(selected))
	scores := make([]float64, rows)

	for i := 0; i < rows; i++ {
		filled := 0
		for j, col := range selected {
			if _, ok := tbl.Value(i, col); ok {
				filled++
			} else {
				missing[j]++
			}
		}
		scores[i] = float64(filled) / float64(len(selected))
	}

	report := &Report{
		Selected:  append([]string(nil), selected...),
		RowCount:  rows,
		RowScores: scores,
		Missing:   make([]ColumnCount, len(selected)),
		Present:   make([]ColumnCount, len(selected)),
		MeanScore: mean(scores),
	}

	for j, col := range selected {
		report.Missing[j] = ColumnCount{Column: col, Count: missing[j]}
		report.Present[j] = ColumnCount{Column: col, Count: rows - missing[j]}
	}

	sort.SliceStable(report.Missing, func(a, b int) bool {
		return report.Missing[a].Count > report.Missing[b].Count
	})

	return report, nil
}

// MissingCount returns the missing count of col, or 0 if col was not selected
func (r *Report) MissingCount(col string) int {
	for _, c := range r.Missing {
		if c.Column == col {
			return c.Count
		}
	}
	return 0
}

// TotalMissing sums missing cells over all selected columns
func (r *Report) TotalMissing() int {
	total := 0
	for _, c := range r.Missing {
		total += c.Count
	}
	return total
}

// MissingOnly returns the columns with at least one missing cell, in report order
func (r *Report) MissingOnly() []ColumnCount {
	out := make([]ColumnCount, 0, len(r.Missing))
	for _, c := range r.Missing {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}

// WithScores returns a copy of tbl with the row scores as kompletthet_score
func WithScores(tbl *table.Table, r *Report) *table.Table {
	values := make([]interface{}, len(r.RowScores))
	for i, s := range r.RowScores {
		values[i] = s
	}
	return tbl.WithColumn(table.ColumnScore, values)
}

// Bin is one histogram bucket [Lower, Upper); the last bucket is closed
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets scores from [0, 1] into equal-width bins
func Histogram(scores []float64, bins int) []Bin {
	if bins < 1 {
		bins = 1
	}

	out := make([]Bin, bins)
	width := 1.0 / float64(bins)
	for i := range out {
		out[i].Lower = float64(i) * width
		out[i].Upper = float64(i+1) * width
	}

	for _, s := range scores {
		// tolerate float noise such as 7/20*20 = 6.999...
		idx := int(math.Floor(s*float64(bins) + 1e-9))
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}

	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
