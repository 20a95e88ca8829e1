package flatten

import (
	"reflect"
	"testing"
)

func TestFlatten_NestedScalars(t *testing.T) {
	records := []any{
		map[string]any{
			"filing_year": float64(2023),
			"registrant": map[string]any{
				"name": "Acme Lobbying LLC",
				"contact": map[string]any{
					"email": "info@example.com",
				},
			},
		},
	}

	rows := Flatten(records)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row["filing_year"] != float64(2023) {
		t.Errorf("filing_year = %v", row["filing_year"])
	}
	if row["registrant_name"] != "Acme Lobbying LLC" {
		t.Errorf("registrant_name = %v", row["registrant_name"])
	}
	if row["registrant_contact_email"] != "info@example.com" {
		t.Errorf("registrant_contact_email = %v", row["registrant_contact_email"])
	}
}

func TestFlatten_ArraysPassThrough(t *testing.T) {
	activities := []any{
		map[string]any{"lobbyists": []any{}},
	}
	records := []any{
		map[string]any{
			"lobbying_activities": activities,
		},
	}

	rows := Flatten(records)
	got, ok := rows[0]["lobbying_activities"].([]any)
	if !ok {
		t.Fatalf("lobbying_activities should pass through as an array, got %T", rows[0]["lobbying_activities"])
	}
	if !reflect.DeepEqual(got, activities) {
		t.Errorf("array was modified during flattening: %v", got)
	}
}

func TestFlatten_NestedArrayKeepsJoinedName(t *testing.T) {
	records := []any{
		map[string]any{
			"registrant": map[string]any{
				"aliases": []any{"Acme", "ACME LLC"},
			},
		},
	}

	rows := Flatten(records)
	if _, ok := rows[0]["registrant_aliases"].([]any); !ok {
		t.Errorf("nested array should appear under its joined name, row = %v", rows[0])
	}
}

func TestFlatten_NullsProduceAbsentKeys(t *testing.T) {
	records := []any{
		map[string]any{
			"registrant_description": nil,
			"registrant":             nil,
			"client_name":            "Client",
		},
	}

	rows := Flatten(records)
	row := rows[0]
	if _, ok := row["registrant_description"]; ok {
		t.Error("null scalar should produce no key")
	}
	if _, ok := row["registrant"]; ok {
		t.Error("null object should contribute no columns")
	}
	if row["client_name"] != "Client" {
		t.Errorf("client_name = %v", row["client_name"])
	}
}

func TestFlatten_NonObjectRecord(t *testing.T) {
	rows := Flatten([]any{"not an object", float64(3)})
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 0 {
			t.Errorf("row %d should be empty, got %v", i, row)
		}
	}
}

func TestFlatten_PreservesOrder(t *testing.T) {
	records := []any{
		map[string]any{"client_name": "First"},
		map[string]any{"client_name": "Second"},
		map[string]any{"client_name": "Third"},
	}

	rows := Flatten(records)
	want := []string{"First", "Second", "Third"}
	for i, name := range want {
		if rows[i]["client_name"] != name {
			t.Errorf("row %d client_name = %v, want %s", i, rows[i]["client_name"], name)
		}
	}
}

func TestFlatten_Empty(t *testing.T) {
	if rows := Flatten(nil); len(rows) != 0 {
		t.Errorf("Flatten(nil) should produce no rows, got %d", len(rows))
	}
	if rows := Flatten([]any{}); len(rows) != 0 {
		t.Errorf("Flatten(empty) should produce no rows, got %d", len(rows))
	}
}
