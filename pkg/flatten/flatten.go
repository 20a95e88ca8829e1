// Package flatten converts nested filing records into flat rows with
// underscore-joined column names. Arrays are never flattened; they pass
// through unchanged so that domain logic downstream can interpret their
// structure.
package flatten

// Row is one flattened filing record. Keys are underscore-joined field
// paths; values are scalars or passthrough arrays. A field that was missing
// or null in the source has no key at all.
type Row map[string]any

// Flatten flattens a sequence of decoded filing records, one Row per
// record, preserving input order. Records that are not JSON objects
// produce an empty Row rather than an error.
func Flatten(records []any) []Row {
	rows := make([]Row, len(records))
	for i, record := range records {
		row := Row{}
		if obj, ok := record.(map[string]any); ok {
			flattenInto(row, "", obj)
		}
		rows[i] = row
	}
	return rows
}

// flattenInto walks an object, emitting scalar leaves under their joined
// path. Nested objects recurse; arrays stop the walk and are stored whole.
func flattenInto(row Row, prefix string, obj map[string]any) {
	for name, raw := range obj {
		key := name
		if prefix != "" {
			key = prefix + "_" + name
		}
		switch value := raw.(type) {
		case nil:
			// Null contributes no column, same as a missing field.
		case map[string]any:
			flattenInto(row, key, value)
		case []any:
			row[key] = value
		default:
			row[key] = value
		}
	}
}
