// Package derive computes the display columns of a lobbying disclosure
// filing from its flattened row: merged lobbyist identities with covered
// positions, foreign entity names, normalized registrant type, and the
// filing document link. Every deriver is a pure function that degrades to
// an empty result on malformed nested data instead of failing the row.
package derive

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/lobbyview/pkg/filing"
	"github.com/coolbeans/lobbyview/pkg/flatten"
)

// UnknownRegistrantType is the sentinel for filings with no registrant
// description.
const UnknownRegistrantType = "Unknown"

// LinkLabel is the human-readable label used for filing document links.
const LinkLabel = "View Filing"

// Lobbyist is one lobbyist identity on a filing, merged across all of the
// filing's activities by display name. Positions holds the distinct cleaned
// covered positions observed for that name, sorted.
type Lobbyist struct {
	Name      string   `json:"name"`
	Positions []string `json:"positions"`
}

// Link is the display intent of a filing document hyperlink. Markup
// rendering is left to the presentation layer.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// IsZero reports whether the filing had no document URL.
func (l Link) IsZero() bool {
	return l.URL == ""
}

// Anchor renders the link as an HTML anchor, or the empty string when there
// is no URL. The URL is emitted as-is; escaping is the renderer's concern.
func (l Link) Anchor() string {
	if l.URL == "" {
		return ""
	}
	return `<a href="` + l.URL + `" target="_blank">` + l.Label + `</a>`
}

// Record is the derived tabular representation of one filing.
type Record struct {
	FilingYear       int        `json:"filing_year"`
	YearKnown        bool       `json:"year_known"`
	FilingType       string     `json:"filing_type_display"`
	RegistrantName   string     `json:"registrant_name"`
	RegistrantType   string     `json:"registrant_type"`
	ClientName       string     `json:"client_name"`
	Lobbyists        []Lobbyist `json:"lobbyists"`
	CoveredPositions []string   `json:"covered_positions"`
	ForeignEntities  []string   `json:"foreign_entities"`
	Link             Link       `json:"filing_link"`

	// Row is the flattened source row, kept for passthrough column access.
	Row flatten.Row `json:"-"`
}

// LobbyistNames returns the display names of the record's lobbyists in
// first-seen order.
func (r Record) LobbyistNames() []string {
	names := make([]string, len(r.Lobbyists))
	for i, lobbyist := range r.Lobbyists {
		names[i] = lobbyist.Name
	}
	return names
}

// HasLobbyist reports whether the named lobbyist appears on the record.
func (r Record) HasLobbyist(name string) bool {
	for _, lobbyist := range r.Lobbyists {
		if lobbyist.Name == name {
			return true
		}
	}
	return false
}

// Records derives every row, preserving input order.
func Records(rows []flatten.Row) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = DeriveRow(row)
	}
	return records
}

// DeriveRow computes the derived columns for one flattened row.
func DeriveRow(row flatten.Row) Record {
	year, yearKnown := filing.Wrap(row["filing_year"]).Int()

	lobbyists := Lobbyists(filing.Wrap(row["lobbying_activities"]))

	return Record{
		FilingYear:       year,
		YearKnown:        yearKnown,
		FilingType:       stringColumn(row, "filing_type_display"),
		RegistrantName:   stringColumn(row, "registrant_name"),
		RegistrantType:   RegistrantType(filing.Wrap(row["registrant_description"])),
		ClientName:       stringColumn(row, "client_name"),
		Lobbyists:        lobbyists,
		CoveredPositions: positionUnion(lobbyists),
		ForeignEntities:  ForeignEntities(filing.Wrap(row["foreign_entities"])),
		Link:             FilingLink(filing.Wrap(row["filing_document_url"])),
		Row:              row,
	}
}

// Lobbyists extracts the unique lobbyist identities from a filing's
// lobbying_activities value, merging covered positions across activities by
// display name. Names are kept in first-seen order. A non-list activities
// value, a non-list lobbyists field, or any malformed entry yields an empty
// or partial result, never an error.
func Lobbyists(activities filing.Value) []Lobbyist {
	items, ok := activities.List()
	if !ok {
		return []Lobbyist{}
	}

	order := []string{}
	positions := map[string]map[string]bool{}

	for _, activity := range items {
		entries, ok := activity.Field("lobbyists").List()
		if !ok {
			continue
		}
		for _, entry := range entries {
			name := displayName(entry.Field("lobbyist"))
			if name == "" {
				// Entries with no usable name are tolerated but carry no
				// identity to merge into.
				continue
			}
			if _, seen := positions[name]; !seen {
				order = append(order, name)
				positions[name] = map[string]bool{}
			}
			if position, ok := cleanPosition(entry.Field("covered_position")); ok {
				positions[name][position] = true
			}
		}
	}

	lobbyists := make([]Lobbyist, len(order))
	for i, name := range order {
		merged := make([]string, 0, len(positions[name]))
		for position := range positions[name] {
			merged = append(merged, position)
		}
		sort.Strings(merged)
		lobbyists[i] = Lobbyist{Name: name, Positions: merged}
	}
	return lobbyists
}

// ForeignEntities extracts entity names from a filing's foreign_entities
// value, skipping entries without a name. A non-list value yields an empty
// result.
func ForeignEntities(entities filing.Value) []string {
	items, ok := entities.List()
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(items))
	for _, entity := range items {
		if name, ok := entity.Field("name").Str(); ok {
			names = append(names, name)
		}
	}
	return names
}

// RegistrantType normalizes a registrant description to a single case form
// (lowercase with the first letter capitalized), so "Law Firm" and "LAW
// FIRM" count as one type. An absent description maps to the Unknown
// sentinel.
func RegistrantType(description filing.Value) string {
	text, ok := description.Str()
	if !ok {
		return UnknownRegistrantType
	}
	return capitalize(strings.ToLower(text))
}

// FilingLink builds the display-intent link for a filing document URL, or
// the zero Link when the URL is absent.
func FilingLink(url filing.Value) Link {
	text, ok := url.Str()
	if !ok || text == "" {
		return Link{}
	}
	return Link{Label: LinkLabel, URL: text}
}

// displayName computes a lobbyist's display name: trimmed concatenation of
// first and last name, either of which may be absent.
func displayName(lobbyist filing.Value) string {
	first, _ := lobbyist.Field("first_name").Str()
	last, _ := lobbyist.Field("last_name").Str()
	return strings.TrimSpace(first + " " + last)
}

// cleanPosition coerces a covered position to a trimmed string, rejecting
// empty values and any case variant of "n/a".
func cleanPosition(position filing.Value) (string, bool) {
	text, ok := position.Text()
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "n/a") {
		return "", false
	}
	return text, true
}

// positionUnion merges every lobbyist's positions into one sorted,
// duplicate-free slice.
func positionUnion(lobbyists []Lobbyist) []string {
	seen := map[string]bool{}
	union := []string{}
	for _, lobbyist := range lobbyists {
		for _, position := range lobbyist.Positions {
			if !seen[position] {
				seen[position] = true
				union = append(union, position)
			}
		}
	}
	sort.Strings(union)
	return union
}

// stringColumn reads a scalar string column from a flattened row, mapping
// absence to the empty string.
func stringColumn(row flatten.Row, column string) string {
	text, _ := filing.Wrap(row[column]).Str()
	return text
}

// capitalize upper-cases the first rune of a string.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
