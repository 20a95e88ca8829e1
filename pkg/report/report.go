// Package report renders the derived filing table for terminal display and
// export: record listings, frequency counts, a filings-per-year bar chart,
// percentage breakdowns, and per-lobbyist detail views.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/lobbyview/pkg/derive"
	"github.com/coolbeans/lobbyview/pkg/table"
)

// EmptyPositions is displayed when a filing has no covered positions.
const EmptyPositions = "None"

// Output format types.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// Listing is a record listing prepared for display: a header plus one
// string cell per column per row.
type Listing struct {
	Columns []string
	Rows    [][]string
}

// NewListing builds a listing of the table's rows over the given columns,
// in table order.
func NewListing(t *table.Table, columns []string) *Listing {
	rows := make([][]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		record := t.Record(i)
		cells := make([]string, len(columns))
		for j, column := range columns {
			cells[j] = Cell(record, column)
		}
		rows[i] = cells
	}
	return &Listing{Columns: columns, Rows: rows}
}

// Cell formats one record cell for display. Collection columns are joined
// with ", "; an empty covered-position union displays as "None"; the filing
// link displays as its anchor markup.
func Cell(record derive.Record, column string) string {
	switch column {
	case table.ColFilingYear:
		if !record.YearKnown {
			return ""
		}
		return fmt.Sprintf("%d", record.FilingYear)
	case table.ColFilingType:
		return record.FilingType
	case table.ColRegistrantName:
		return record.RegistrantName
	case table.ColRegistrantType:
		return record.RegistrantType
	case table.ColClientName:
		return record.ClientName
	case table.ColLobbyists:
		return strings.Join(record.LobbyistNames(), ", ")
	case table.ColCoveredPositions:
		if len(record.CoveredPositions) == 0 {
			return EmptyPositions
		}
		return strings.Join(record.CoveredPositions, ", ")
	case table.ColForeignEntities:
		return strings.Join(record.ForeignEntities, ", ")
	case table.ColFilingLink:
		return record.Link.Anchor()
	default:
		raw, ok := record.Row[column]
		if !ok {
			return ""
		}
		return fmt.Sprintf("%v", raw)
	}
}

// Format renders the listing in the requested format.
func (l *Listing) Format(format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return l.FormatJSON()
	case FormatCSV:
		return l.FormatCSV()
	case FormatTable:
		return l.FormatTable(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatTable renders the listing as an ASCII table.
func (l *Listing) FormatTable() string {
	if len(l.Rows) == 0 {
		return "No results (0 rows)\n"
	}

	widths := make([]int, len(l.Columns))
	for i, column := range l.Columns {
		widths[i] = len(column)
	}
	for _, row := range l.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	var sb strings.Builder
	sb.WriteString(sep.String())
	sb.WriteString("|")
	for i, column := range l.Columns {
		sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], column))
	}
	sb.WriteString("\n")
	sb.WriteString(sep.String())

	for _, row := range l.Rows {
		sb.WriteString("|")
		for i, cell := range row {
			sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], cell))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(sep.String())
	sb.WriteString(fmt.Sprintf("%d rows\n", len(l.Rows)))
	return sb.String()
}

// FormatJSON renders the listing as JSON objects keyed by column name.
func (l *Listing) FormatJSON() (string, error) {
	objects := make([]map[string]string, len(l.Rows))
	for i, row := range l.Rows {
		object := make(map[string]string, len(l.Columns))
		for j, column := range l.Columns {
			object[column] = row[j]
		}
		objects[i] = object
	}
	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatCSV renders the listing as CSV with a header row.
func (l *Listing) FormatCSV() (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(l.Columns); err != nil {
		return "", err
	}
	for _, row := range l.Rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// CountEntry is one value with its occurrence count.
type CountEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountReport is a frequency count over one column, ordered by descending
// count, ties broken by value.
type CountReport struct {
	Column  string       `json:"column"`
	Entries []CountEntry `json:"entries"`
	Total   int          `json:"total"`
}

// NewCountReport builds the frequency report for a column. Collection
// columns are exploded first; rows with no value contribute nothing.
func NewCountReport(t *table.Table, column string) *CountReport {
	return countReport(column, t.ValueCounts(column))
}

func countReport(column string, counts map[string]int) *CountReport {
	entries := make([]CountEntry, 0, len(counts))
	total := 0
	for value, count := range counts {
		entries = append(entries, CountEntry{Value: value, Count: count})
		total += count
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return &CountReport{Column: column, Entries: entries, Total: total}
}

// String renders the report as aligned value/count lines.
func (r *CountReport) String() string {
	if len(r.Entries) == 0 {
		return fmt.Sprintf("No values for %s\n", r.Column)
	}

	width := len(r.Column)
	for _, entry := range r.Entries {
		if len(entry.Value) > width {
			width = len(entry.Value)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  COUNT\n", width, strings.ToUpper(r.Column)))
	sb.WriteString(strings.Repeat("-", width+7) + "\n")
	for _, entry := range r.Entries {
		sb.WriteString(fmt.Sprintf("%-*s  %d\n", width, entry.Value, entry.Count))
	}
	return sb.String()
}

// ToJSON serializes the report.
func (r *CountReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Shares renders the report as a percentage breakdown of the total, one
// line per value.
func (r *CountReport) Shares() string {
	if r.Total == 0 {
		return fmt.Sprintf("No values for %s\n", r.Column)
	}

	width := len(r.Column)
	for _, entry := range r.Entries {
		if len(entry.Value) > width {
			width = len(entry.Value)
		}
	}

	var sb strings.Builder
	for _, entry := range r.Entries {
		share := float64(entry.Count) / float64(r.Total) * 100
		sb.WriteString(fmt.Sprintf("%-*s  %5.1f%%  (%d)\n", width, entry.Value, share, entry.Count))
	}
	return sb.String()
}

// YearChart is the filings-per-year bar chart.
type YearChart struct {
	Years  []int       `json:"years"`
	Counts map[int]int `json:"counts"`
}

// NewYearChart builds the chart from the table's per-year counts. Rows
// without a usable year are excluded.
func NewYearChart(t *table.Table) *YearChart {
	return &YearChart{Years: t.Years(), Counts: t.YearCounts()}
}

// String renders the chart as horizontal ASCII bars, years ascending,
// scaled to a 50-character maximum bar.
func (c *YearChart) String() string {
	if len(c.Years) == 0 {
		return "No filings with a usable year\n"
	}

	max := 0
	for _, year := range c.Years {
		if c.Counts[year] > max {
			max = c.Counts[year]
		}
	}

	var sb strings.Builder
	for _, year := range c.Years {
		count := c.Counts[year]
		barLength := 0
		if max > 0 {
			barLength = count * 50 / max
		}
		if count > 0 && barLength == 0 {
			barLength = 1
		}
		sb.WriteString(fmt.Sprintf("%d  %-50s %d\n", year, strings.Repeat("=", barLength), count))
	}
	return sb.String()
}

// LobbyistFiling is one filing a lobbyist appears on.
type LobbyistFiling struct {
	FilingYear     string `json:"filing_year"`
	ClientName     string `json:"client_name"`
	RegistrantName string `json:"registrant_name"`
}

// LobbyistDetail summarizes one lobbyist across every filing that names
// them: the filings themselves, the foreign entities involved, and the
// union of the lobbyist's covered positions.
type LobbyistDetail struct {
	Name            string           `json:"name"`
	Filings         []LobbyistFiling `json:"filings"`
	ForeignEntities []string         `json:"foreign_entities"`
	Positions       []string         `json:"positions"`
}

// NewLobbyistDetail builds the detail view for the named lobbyist from the
// full table.
func NewLobbyistDetail(t *table.Table, name string) *LobbyistDetail {
	matched := t.FilterLobbyist(name)

	detail := &LobbyistDetail{Name: name}
	positionSeen := map[string]bool{}
	entitySeen := map[string]bool{}

	for _, record := range matched.Records() {
		year := ""
		if record.YearKnown {
			year = fmt.Sprintf("%d", record.FilingYear)
		}
		detail.Filings = append(detail.Filings, LobbyistFiling{
			FilingYear:     year,
			ClientName:     record.ClientName,
			RegistrantName: record.RegistrantName,
		})
		for _, entity := range record.ForeignEntities {
			if !entitySeen[entity] {
				entitySeen[entity] = true
				detail.ForeignEntities = append(detail.ForeignEntities, entity)
			}
		}
		for _, lobbyist := range record.Lobbyists {
			if lobbyist.Name != name {
				continue
			}
			for _, position := range lobbyist.Positions {
				if !positionSeen[position] {
					positionSeen[position] = true
					detail.Positions = append(detail.Positions, position)
				}
			}
		}
	}
	sort.Strings(detail.Positions)
	return detail
}

// String renders the detail view for the terminal.
func (d *LobbyistDetail) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Details for %s\n", d.Name))
	sb.WriteString(strings.Repeat("=", len(d.Name)+12) + "\n\n")

	sb.WriteString("Filings:\n")
	if len(d.Filings) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, entry := range d.Filings {
		year := entry.FilingYear
		if year == "" {
			year = "----"
		}
		sb.WriteString(fmt.Sprintf("  %s  %-40s %s\n", year, entry.ClientName, entry.RegistrantName))
	}

	sb.WriteString("\nForeign entities involved:\n")
	if len(d.ForeignEntities) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, entity := range d.ForeignEntities {
		sb.WriteString(fmt.Sprintf("  %s\n", entity))
	}

	sb.WriteString("\nPast covered positions:\n")
	if len(d.Positions) == 0 {
		sb.WriteString("  No covered positions found.\n")
	} else {
		sb.WriteString("  " + strings.Join(d.Positions, ", ") + "\n")
	}
	return sb.String()
}

// ToJSON serializes the detail view.
func (d *LobbyistDetail) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
