// Package jsonio handles the two JSON surfaces of the core: dataset ingestion
// in the wire shapes telemetry exports come in, and project snapshot
// save/load.
package jsonio

import (
	"encoding/json"
	"io"
	"sort"

	"crankview/domain/dataset"
	"crankview/internal/errors"
)

// rideDataKey is the wrapper key telemetry exports put their row arrays under.
const rideDataKey = "rideData"

// binnedKey is the companion key some exports carry next to rideData: the
// dashboard's own 52-row per-bin averages.
const binnedKey = "left_pedalstroke_avg"

// NamedTable pairs a parsed table with the name it was loaded under. Binned
// holds the pre-binned companion rows when the source carried them.
type NamedTable struct {
	Name   string
	Table  *dataset.Table
	Binned *dataset.Table
}

// LoadDatasets parses dataset JSON in any of the four accepted shapes: a flat
// row array, a single {"rideData": [...]} wrapper, or an object mapping
// dataset name to either of those. fallbackName names the dataset when the
// input carries no name of its own; multi-dataset objects are returned in
// name order. An object entry may carry a "left_pedalstroke_avg" list next to
// its rideData; those pre-binned rows come back attached to the dataset.
// Numbers are decoded as json.Number so large integers survive the trip into
// float64 coercion.
func LoadDatasets(r io.Reader, fallbackName string) ([]NamedTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, errors.ParseFailed("invalid JSON: " + err.Error())
	}
	return datasetsFromValue(root, fallbackName)
}

func datasetsFromValue(root interface{}, fallbackName string) ([]NamedTable, error) {
	if fallbackName == "" {
		fallbackName = "Dataset"
	}

	switch v := root.(type) {
	case []interface{}:
		rows := recordsFromArray(v)
		if len(rows) == 0 {
			return nil, errors.ParseFailed("no valid datasets found")
		}
		return []NamedTable{{Name: fallbackName, Table: dataset.FromRecords(rows)}}, nil

	case map[string]interface{}:
		if rowsVal, ok := v[rideDataKey]; ok {
			if arr, ok := rowsVal.([]interface{}); ok {
				rows := recordsFromArray(arr)
				if len(rows) == 0 {
					return nil, errors.ParseFailed("no valid datasets found")
				}
				return []NamedTable{{Name: fallbackName, Table: dataset.FromRecords(rows), Binned: binnedFromEntry(v)}}, nil
			}
		}

		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)

		var out []NamedTable
		for _, name := range names {
			rows := rowsFromEntry(v[name])
			if len(rows) == 0 {
				continue
			}
			var binned *dataset.Table
			if obj, ok := v[name].(map[string]interface{}); ok {
				binned = binnedFromEntry(obj)
			}
			out = append(out, NamedTable{Name: name, Table: dataset.FromRecords(rows), Binned: binned})
		}
		if len(out) == 0 {
			return nil, errors.ParseFailed("no valid datasets found")
		}
		return out, nil
	}
	return nil, errors.ParseFailed("unrecognized JSON structure")
}

// rowsFromEntry accepts the per-name value in a multi-dataset object: either
// a row array directly or a {"rideData": [...]} wrapper.
func rowsFromEntry(entry interface{}) []map[string]interface{} {
	switch v := entry.(type) {
	case []interface{}:
		return recordsFromArray(v)
	case map[string]interface{}:
		if arr, ok := v[rideDataKey].([]interface{}); ok {
			return recordsFromArray(arr)
		}
	}
	return nil
}

// binnedFromEntry parses the pre-binned companion rows carried next to a
// dataset's row array. Absent or empty companions yield nil.
func binnedFromEntry(entry map[string]interface{}) *dataset.Table {
	arr, ok := entry[binnedKey].([]interface{})
	if !ok {
		return nil
	}
	rows := recordsFromArray(arr)
	if len(rows) == 0 {
		return nil
	}
	return dataset.FromRecords(rows)
}

// recordsFromArray keeps the object rows and drops anything else.
func recordsFromArray(arr []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if rec, ok := item.(map[string]interface{}); ok {
			out = append(out, rec)
		}
	}
	return out
}
