package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/internal/quality"
	"github.com/wonny/nvdbdq/internal/table"
)

const (
	// CaptionProperties is how many selected properties the caption names
	CaptionProperties = 10

	defaultBarWidth = 40
	maxCellWidth    = 28
)

// Options controls the text report
type Options struct {
	Preview  bool // include the first rows of the scored table
	BarWidth int  // widest bar in characters, 0 selects a default
}

// Headline is the one-line summary of a result
func Headline(r *pipeline.Result) string {
	return fmt.Sprintf("Objekttype %d – %s – %d objekter hentet", r.ObjectTypeID, r.Name, r.RowCount)
}

// Caption names the first analyzed properties
func Caption(selected []string) string {
	n := len(selected)
	if n > CaptionProperties {
		n = CaptionProperties
	}
	return "Egenskaper analysert: " + strings.Join(selected[:n], ", ") + "..."
}

// WriteText renders a result as a plain-text report
func WriteText(w io.Writer, r *pipeline.Result, opts Options) error {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	var out strings.Builder

	out.WriteString(Headline(r) + "\n")
	fmt.Fprintf(&out, "Viktighet: %s   Fylke: %d   Antall: %d   Kjøring: %s\n", r.Filter, r.Region, r.Limit, r.RunID)
	out.WriteString(Caption(r.Selected) + "\n")
	if r.Truncated {
		out.WriteString("Merk: registeret har flere objekter enn hentet; kun første side er analysert.\n")
	}
	out.WriteString("\n")

	out.WriteString("=== MANGLENDE VERDIER PER EGENSKAP ===\n")
	missing := nonZero(r.Missing)
	if len(missing) == 0 {
		out.WriteString("Ingen manglende verdier funnet for de valgte egenskapene.\n")
	} else {
		writeBars(&out, missing, width)
	}
	out.WriteString("\n")

	out.WriteString("=== FORDELING AV KOMPLETTHETSSCORE ===\n")
	writeHistogram(&out, r.Histogram, width)
	fmt.Fprintf(&out, "Gjennomsnittlig kompletthet: %.3f\n", r.MeanScore)

	if opts.Preview {
		out.WriteString("\n=== FØRSTE RADER ===\n")
		writePreview(&out, r.PreviewColumns, r.Preview)
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// WriteSchema lists the declared properties of an object type grouped by
// importance, in filter order; unknown classifications come last
func WriteSchema(w io.Writer, d *pipeline.Description) error {
	var out strings.Builder
	fmt.Fprintf(&out, "Objekttype %d – %s – %d egenskaper\n", d.ObjectTypeID, d.Name, len(d.Properties))

	groups := pipeline.GroupByImportance(d.Properties)
	order := make([]contracts.Importance, 0, len(groups))
	for _, imp := range contracts.FilterChoices[1:] {
		if _, ok := groups[imp]; ok {
			order = append(order, imp)
		}
	}
	for _, p := range d.Properties {
		if _, ok := groups[p.Importance]; ok && !containsImportance(order, p.Importance) {
			order = append(order, p.Importance)
		}
	}

	for _, imp := range order {
		label := string(imp)
		if label == "" {
			label = "(uten viktighet)"
		}
		fmt.Fprintf(&out, "\n=== %s (%d) ===\n", label, len(groups[imp]))
		for _, p := range groups[imp] {
			fmt.Fprintf(&out, "  %6d  %s\n", p.ID, p.Name)
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func containsImportance(list []contracts.Importance, imp contracts.Importance) bool {
	for _, i := range list {
		if i == imp {
			return true
		}
	}
	return false
}

func nonZero(counts []quality.ColumnCount) []quality.ColumnCount {
	out := make([]quality.ColumnCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}

func writeBars(out *strings.Builder, counts []quality.ColumnCount, width int) {
	labelWidth, peak := 0, 0
	for _, c := range counts {
		if n := utf8.RuneCountInString(c.Column); n > labelWidth {
			labelWidth = n
		}
		if c.Count > peak {
			peak = c.Count
		}
	}

	for _, c := range counts {
		pad := labelWidth - utf8.RuneCountInString(c.Column)
		fmt.Fprintf(out, "%s%s  %s %d\n", c.Column, strings.Repeat(" ", pad), bar(c.Count, peak, width), c.Count)
	}
}

func writeHistogram(out *strings.Builder, bins []quality.Bin, width int) {
	peak := 0
	for _, b := range bins {
		if b.Count > peak {
			peak = b.Count
		}
	}

	for _, b := range bins {
		fmt.Fprintf(out, "%.2f-%.2f  %s %d\n", b.Lower, b.Upper, bar(b.Count, peak, width), b.Count)
	}
}

// bar scales count against peak; any non-zero count gets at least one block
func bar(count, peak, width int) string {
	if count <= 0 || peak <= 0 {
		return ""
	}
	n := count * width / peak
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func writePreview(out *strings.Builder, columns []string, rows []map[string]interface{}) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = formatCell(col, row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// formatCell renders one preview value; missing values print as empty
func formatCell(col string, v interface{}) string {
	if v == nil {
		return ""
	}
	if col == table.ColumnScore {
		if f, err := cast.ToFloat64E(v); err == nil {
			return fmt.Sprintf("%.2f", f)
		}
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	if utf8.RuneCountInString(s) > maxCellWidth {
		runes := []rune(s)
		s = string(runes[:maxCellWidth-3]) + "..."
	}
	return s
}
