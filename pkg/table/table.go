// Package table provides a read-only tabular view over derived filing
// records: named columns, filter primitives that produce new views, and
// frequency-count aggregations. The base table is never mutated; every
// filter returns a fresh view sharing the underlying records.
package table

import (
	"sort"
	"strconv"

	"github.com/coolbeans/lobbyview/pkg/derive"
	"github.com/coolbeans/lobbyview/pkg/filing"
)

// Column names for the derived columns every table carries.
const (
	ColFilingYear       = "filing_year"
	ColFilingType       = "filing_type_display"
	ColRegistrantName   = "registrant_name"
	ColRegistrantType   = "registrant_type"
	ColClientName       = "client_name"
	ColLobbyists        = "lobbyists"
	ColCoveredPositions = "covered_positions"
	ColForeignEntities  = "foreign_entities"
	ColFilingLink       = "filing_link"
)

// derivedColumns is the fixed display-column order.
var derivedColumns = []string{
	ColFilingYear,
	ColFilingType,
	ColRegistrantName,
	ColRegistrantType,
	ColClientName,
	ColLobbyists,
	ColCoveredPositions,
	ColForeignEntities,
	ColFilingLink,
}

// collectionColumns are the columns whose cells are collections.
var collectionColumns = map[string]bool{
	ColLobbyists:        true,
	ColCoveredPositions: true,
	ColForeignEntities:  true,
}

// Table is an ordered, read-only collection of derived filing records.
type Table struct {
	records []derive.Record
}

// New builds a table over the given records. The records are treated as
// immutable from this point on.
func New(records []derive.Record) *Table {
	return &Table{records: records}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns the row at index i.
func (t *Table) Record(i int) derive.Record {
	return t.records[i]
}

// Records returns the underlying rows in order. Callers must not modify
// the returned slice.
func (t *Table) Records() []derive.Record {
	return t.records
}

// Columns returns the table's column names: the derived display columns
// followed by any passthrough scalar columns found on the rows, sorted.
func (t *Table) Columns() []string {
	derived := map[string]bool{}
	for _, column := range derivedColumns {
		derived[column] = true
	}
	// registrant_description and filing_document_url feed derived columns
	// and are not re-listed.
	derived["registrant_description"] = true
	derived["filing_document_url"] = true
	derived["lobbying_activities"] = true

	extraSeen := map[string]bool{}
	extra := []string{}
	for _, record := range t.records {
		for key, raw := range record.Row {
			if derived[key] || extraSeen[key] {
				continue
			}
			if _, isList := raw.([]any); isList {
				continue
			}
			extraSeen[key] = true
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	columns := make([]string, 0, len(derivedColumns)+len(extra))
	columns = append(columns, derivedColumns...)
	columns = append(columns, extra...)
	return columns
}

// IsCollectionColumn reports whether the column's cells are collections.
func IsCollectionColumn(column string) bool {
	return collectionColumns[column]
}

// filter returns a new view containing the rows the predicate keeps,
// preserving order.
func (t *Table) filter(keep func(derive.Record) bool) *Table {
	kept := []derive.Record{}
	for _, record := range t.records {
		if keep(record) {
			kept = append(kept, record)
		}
	}
	return &Table{records: kept}
}

// FilterYears keeps rows whose filing year is in the accepted set. Rows
// with no usable year never match.
func (t *Table) FilterYears(years []int) *Table {
	accepted := map[int]bool{}
	for _, year := range years {
		accepted[year] = true
	}
	return t.filter(func(record derive.Record) bool {
		return record.YearKnown && accepted[record.FilingYear]
	})
}

// FilterEqual keeps rows whose cell in the column matches one of the
// accepted values. For collection columns this is membership: the row
// matches if any element of its cell is accepted, so filtering the
// lobbyists column matches by name membership.
func (t *Table) FilterEqual(column string, accepted []string) *Table {
	if IsCollectionColumn(column) {
		return t.FilterMember(column, accepted)
	}
	set := map[string]bool{}
	for _, value := range accepted {
		set[value] = true
	}
	return t.filter(func(record derive.Record) bool {
		value, ok := scalarCell(record, column)
		return ok && set[value]
	})
}

// FilterMember keeps rows whose collection-valued cell contains at least
// one of the accepted values.
func (t *Table) FilterMember(column string, accepted []string) *Table {
	set := map[string]bool{}
	for _, value := range accepted {
		set[value] = true
	}
	return t.filter(func(record derive.Record) bool {
		elements, ok := listCell(record, column)
		if !ok {
			return false
		}
		for _, element := range elements {
			if set[element] {
				return true
			}
		}
		return false
	})
}

// FilterLobbyist keeps rows on which the named lobbyist appears.
func (t *Table) FilterLobbyist(name string) *Table {
	return t.filter(func(record derive.Record) bool {
		return record.HasLobbyist(name)
	})
}

// ValueCounts counts occurrences of each distinct value in a scalar
// column. Rows with no value in the column contribute nothing. For a
// collection column the counts are exploded element counts.
func (t *Table) ValueCounts(column string) map[string]int {
	if IsCollectionColumn(column) {
		return t.ExplodedValueCounts(column)
	}
	counts := map[string]int{}
	for _, record := range t.records {
		if value, ok := scalarCell(record, column); ok {
			counts[value]++
		}
	}
	return counts
}

// ExplodedValueCounts flattens a collection column into one count unit per
// element and counts the elements. Rows with empty collections contribute
// nothing.
func (t *Table) ExplodedValueCounts(column string) map[string]int {
	counts := map[string]int{}
	for _, record := range t.records {
		elements, ok := listCell(record, column)
		if !ok {
			continue
		}
		for _, element := range elements {
			counts[element]++
		}
	}
	return counts
}

// YearCounts counts filings per year, skipping rows with no usable year.
func (t *Table) YearCounts() map[int]int {
	counts := map[int]int{}
	for _, record := range t.records {
		if record.YearKnown {
			counts[record.FilingYear]++
		}
	}
	return counts
}

// Years returns the distinct filing years in ascending order.
func (t *Table) Years() []int {
	counts := t.YearCounts()
	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// DistinctValues lists the distinct values of a column in sorted order,
// for building filter selection menus. Empty strings are excluded; for
// collection columns the elements are listed.
func (t *Table) DistinctValues(column string) []string {
	seen := map[string]bool{}
	for _, record := range t.records {
		if IsCollectionColumn(column) {
			if elements, ok := listCell(record, column); ok {
				for _, element := range elements {
					if element != "" {
						seen[element] = true
					}
				}
			}
			continue
		}
		if value, ok := scalarCell(record, column); ok && value != "" {
			seen[value] = true
		}
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// scalarCell reads a scalar cell as its string form. The second return is
// false when the row has no value in the column.
func scalarCell(record derive.Record, column string) (string, bool) {
	switch column {
	case ColFilingYear:
		if !record.YearKnown {
			return "", false
		}
		return strconv.Itoa(record.FilingYear), true
	case ColFilingType:
		return nonEmpty(record.FilingType)
	case ColRegistrantName:
		return nonEmpty(record.RegistrantName)
	case ColRegistrantType:
		return record.RegistrantType, true
	case ColClientName:
		return nonEmpty(record.ClientName)
	case ColFilingLink:
		return nonEmpty(record.Link.Anchor())
	default:
		return filing.Wrap(record.Row[column]).Text()
	}
}

// listCell reads a collection cell. The second return is false when the
// column is not collection-valued.
func listCell(record derive.Record, column string) ([]string, bool) {
	switch column {
	case ColLobbyists:
		return record.LobbyistNames(), true
	case ColCoveredPositions:
		return record.CoveredPositions, true
	case ColForeignEntities:
		return record.ForeignEntities, true
	default:
		return nil, false
	}
}

func nonEmpty(value string) (string, bool) {
	return value, value != ""
}
