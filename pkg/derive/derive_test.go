package derive

import (
	"reflect"
	"testing"

	"github.com/coolbeans/lobbyview/pkg/filing"
	"github.com/coolbeans/lobbyview/pkg/flatten"
)

func lobbyistEntry(first, last string, position any) map[string]any {
	entry := map[string]any{
		"lobbyist": map[string]any{},
	}
	person := entry["lobbyist"].(map[string]any)
	if first != "" {
		person["first_name"] = first
	}
	if last != "" {
		person["last_name"] = last
	}
	if position != nil {
		entry["covered_position"] = position
	}
	return entry
}

func activity(entries ...any) map[string]any {
	return map[string]any{"lobbyists": entries}
}

func TestLobbyists_NotASequence(t *testing.T) {
	inputs := []any{nil, "not a list", float64(3), map[string]any{}}
	for _, input := range inputs {
		got := Lobbyists(filing.Wrap(input))
		if len(got) != 0 {
			t.Errorf("Lobbyists(%v) = %v, want empty", input, got)
		}
	}
}

func TestLobbyists_BasicExtraction(t *testing.T) {
	activities := []any{
		activity(lobbyistEntry("Jane", "Doe", "Senator")),
	}

	got := Lobbyists(filing.Wrap(activities))
	want := []Lobbyist{{Name: "Jane Doe", Positions: []string{"Senator"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lobbyists = %v, want %v", got, want)
	}
}

func TestLobbyists_MergesAcrossActivities(t *testing.T) {
	activities := []any{
		activity(lobbyistEntry("Jane", "Doe", "Senator")),
		activity(lobbyistEntry("Jane", "Doe", "Advisor")),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 1 {
		t.Fatalf("Expected 1 merged lobbyist, got %d", len(got))
	}
	want := []string{"Advisor", "Senator"}
	if !reflect.DeepEqual(got[0].Positions, want) {
		t.Errorf("Merged positions = %v, want %v", got[0].Positions, want)
	}
}

func TestLobbyists_PositionCleaning(t *testing.T) {
	activities := []any{
		activity(
			lobbyistEntry("Jane", "Doe", "N/A"),
			lobbyistEntry("John", "Smith", "n/a"),
			lobbyistEntry("Amy", "Jones", ""),
			lobbyistEntry("Bob", "Brown", "  Advisor  "),
		),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 4 {
		t.Fatalf("Expected 4 lobbyists, got %d", len(got))
	}
	for _, lobbyist := range got[:3] {
		if len(lobbyist.Positions) != 0 {
			t.Errorf("%s should have no positions, got %v", lobbyist.Name, lobbyist.Positions)
		}
	}
	if !reflect.DeepEqual(got[3].Positions, []string{"Advisor"}) {
		t.Errorf("Bob Brown positions = %v, want [Advisor]", got[3].Positions)
	}
}

func TestLobbyists_NonStringPositionCoerced(t *testing.T) {
	activities := []any{
		activity(lobbyistEntry("Jane", "Doe", float64(7))),
	}

	got := Lobbyists(filing.Wrap(activities))
	if !reflect.DeepEqual(got[0].Positions, []string{"7"}) {
		t.Errorf("Coerced positions = %v, want [7]", got[0].Positions)
	}
}

func TestLobbyists_PartialNames(t *testing.T) {
	activities := []any{
		activity(
			lobbyistEntry("Jane", "", nil),
			lobbyistEntry("", "Smith", nil),
		),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 2 {
		t.Fatalf("Expected 2 lobbyists, got %d", len(got))
	}
	if got[0].Name != "Jane" || got[1].Name != "Smith" {
		t.Errorf("Names = %q, %q; want Jane, Smith", got[0].Name, got[1].Name)
	}
}

func TestLobbyists_EmptyNameExcluded(t *testing.T) {
	activities := []any{
		activity(
			lobbyistEntry("", "", "Senator"),
			lobbyistEntry("Jane", "Doe", nil),
		),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 1 || got[0].Name != "Jane Doe" {
		t.Errorf("Lobbyists = %v, want only Jane Doe", got)
	}
}

func TestLobbyists_NonListLobbyistsField(t *testing.T) {
	activities := []any{
		map[string]any{"lobbyists": "broken"},
		map[string]any{},
		activity(lobbyistEntry("Jane", "Doe", nil)),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 1 || got[0].Name != "Jane Doe" {
		t.Errorf("Lobbyists = %v, want only Jane Doe", got)
	}
}

func TestLobbyists_FirstSeenOrder(t *testing.T) {
	activities := []any{
		activity(lobbyistEntry("Zoe", "Young", nil)),
		activity(lobbyistEntry("Amy", "Adams", nil)),
		activity(lobbyistEntry("Zoe", "Young", nil)),
	}

	got := Lobbyists(filing.Wrap(activities))
	if len(got) != 2 {
		t.Fatalf("Expected 2 lobbyists, got %d", len(got))
	}
	if got[0].Name != "Zoe Young" || got[1].Name != "Amy Adams" {
		t.Errorf("Order = %q, %q; want first-seen order", got[0].Name, got[1].Name)
	}
}

func TestForeignEntities(t *testing.T) {
	entities := []any{
		map[string]any{"name": "Acme Corp"},
		map[string]any{"country": "Freedonia"},
		map[string]any{"name": "Global Partners"},
	}

	got := ForeignEntities(filing.Wrap(entities))
	want := []string{"Acme Corp", "Global Partners"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ForeignEntities = %v, want %v", got, want)
	}
}

func TestForeignEntities_NotASequence(t *testing.T) {
	for _, input := range []any{nil, "broken", map[string]any{}} {
		if got := ForeignEntities(filing.Wrap(input)); len(got) != 0 {
			t.Errorf("ForeignEntities(%v) = %v, want empty", input, got)
		}
	}
}

func TestRegistrantType(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{"Law Firm", "Law firm"},
		{"LAW FIRM", "Law firm"},
		{"law firm", "Law firm"},
		{nil, "Unknown"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RegistrantType(filing.Wrap(tt.raw)); got != tt.want {
			t.Errorf("RegistrantType(%v) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFilingLink(t *testing.T) {
	link := FilingLink(filing.Wrap("https://example.com/filing/1"))
	if link.IsZero() {
		t.Fatal("link should not be zero")
	}
	want := `<a href="https://example.com/filing/1" target="_blank">View Filing</a>`
	if got := link.Anchor(); got != want {
		t.Errorf("Anchor = %q, want %q", got, want)
	}

	empty := FilingLink(filing.Wrap(nil))
	if !empty.IsZero() || empty.Anchor() != "" {
		t.Errorf("absent URL should produce the zero link, got %v", empty)
	}
}

func TestDeriveRow_Scenario(t *testing.T) {
	row := flatten.Row{
		"filing_year": float64(2023),
		"lobbying_activities": []any{
			activity(lobbyistEntry("Jane", "Doe", "Senator")),
		},
		"foreign_entities": []any{
			map[string]any{"name": "Acme Corp"},
		},
	}

	record := DeriveRow(row)

	if !record.YearKnown || record.FilingYear != 2023 {
		t.Errorf("FilingYear = %d (known=%v), want 2023", record.FilingYear, record.YearKnown)
	}
	if record.RegistrantType != "Unknown" {
		t.Errorf("RegistrantType = %q, want Unknown", record.RegistrantType)
	}
	wantLobbyists := []Lobbyist{{Name: "Jane Doe", Positions: []string{"Senator"}}}
	if !reflect.DeepEqual(record.Lobbyists, wantLobbyists) {
		t.Errorf("Lobbyists = %v, want %v", record.Lobbyists, wantLobbyists)
	}
	if !reflect.DeepEqual(record.CoveredPositions, []string{"Senator"}) {
		t.Errorf("CoveredPositions = %v, want [Senator]", record.CoveredPositions)
	}
	if !reflect.DeepEqual(record.ForeignEntities, []string{"Acme Corp"}) {
		t.Errorf("ForeignEntities = %v, want [Acme Corp]", record.ForeignEntities)
	}
}

func TestDeriveRow_EmptyNested(t *testing.T) {
	record := DeriveRow(flatten.Row{"filing_year": "2024"})

	if len(record.Lobbyists) != 0 {
		t.Errorf("Lobbyists = %v, want empty", record.Lobbyists)
	}
	if len(record.CoveredPositions) != 0 {
		t.Errorf("CoveredPositions = %v, want empty", record.CoveredPositions)
	}
	if len(record.ForeignEntities) != 0 {
		t.Errorf("ForeignEntities = %v, want empty", record.ForeignEntities)
	}
	if !record.YearKnown || record.FilingYear != 2024 {
		t.Errorf("string year should coerce, got %d (known=%v)", record.FilingYear, record.YearKnown)
	}
}

func TestDeriveRow_BadYear(t *testing.T) {
	record := DeriveRow(flatten.Row{"filing_year": "unknown"})
	if record.YearKnown {
		t.Error("non-numeric year should be treated as absent")
	}
}

func TestDeriveRow_Idempotent(t *testing.T) {
	row := flatten.Row{
		"filing_year":            float64(2023),
		"registrant_description": "LOBBYING FIRM",
		"lobbying_activities": []any{
			activity(lobbyistEntry("Jane", "Doe", "Senator")),
			activity(lobbyistEntry("Jane", "Doe", "Advisor")),
		},
	}

	first := DeriveRow(row)
	second := DeriveRow(row)
	if !reflect.DeepEqual(first, second) {
		t.Error("DeriveRow should be deterministic for the same input")
	}
}

func TestDeriveRow_PositionUnion(t *testing.T) {
	row := flatten.Row{
		"lobbying_activities": []any{
			activity(
				lobbyistEntry("Jane", "Doe", "Senator"),
				lobbyistEntry("John", "Smith", "Advisor"),
			),
			activity(lobbyistEntry("Jane", "Doe", "Advisor")),
		},
	}

	record := DeriveRow(row)
	want := []string{"Advisor", "Senator"}
	if !reflect.DeepEqual(record.CoveredPositions, want) {
		t.Errorf("CoveredPositions = %v, want %v", record.CoveredPositions, want)
	}
}

func TestRecords_PreservesOrder(t *testing.T) {
	rows := []flatten.Row{
		{"client_name": "First"},
		{"client_name": "Second"},
	}

	records := Records(rows)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ClientName != "First" || records[1].ClientName != "Second" {
		t.Errorf("Order not preserved: %q, %q", records[0].ClientName, records[1].ClientName)
	}
}
