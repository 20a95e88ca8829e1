// Package dataset loads a lobbying disclosure JSON export and turns it
// into a derived table through an explicit pipeline: decode, flatten,
// derive, tabulate. Each stage is a pure function producing a new value;
// the whole table is rebuilt from scratch on every load.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coolbeans/lobbyview/pkg/derive"
	"github.com/coolbeans/lobbyview/pkg/flatten"
	"github.com/coolbeans/lobbyview/pkg/table"
)

// Load reads and derives the filing table from a JSON file. A missing
// file or malformed document is fatal: no partial table is produced.
func Load(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer file.Close()

	tab, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load data file %s: %w", path, err)
	}
	return tab, nil
}

// Parse decodes a JSON array of filing records and derives the table.
// Malformed nested data inside individual filings degrades per-column and
// never aborts the batch; only a structurally invalid document fails.
func Parse(r io.Reader) (*table.Table, error) {
	var document any
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}

	// A null or scalar document is structurally invalid, not an empty
	// export.
	records, ok := document.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid JSON document: top-level value must be an array of filings")
	}

	rows := flatten.Flatten(records)
	return table.New(derive.Records(rows)), nil
}
