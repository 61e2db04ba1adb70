package dataset

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFromRecordsRaggedRows(t *testing.T) {
	table := FromRecords([]map[string]interface{}{
		{"power": 100.0, "cadence": 90.0},
		{"power": 110.0},
		{"cadence": 85.0, "hr": 150.0},
	})
	if table.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", table.Rows())
	}
	power, err := table.Column("power")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if power[0] != 100 || power[1] != 110 || !math.IsNaN(power[2]) {
		t.Errorf("absent cells must be NaN: %v", power)
	}
	hr, _ := table.Column("hr")
	if !math.IsNaN(hr[0]) || hr[2] != 150 {
		t.Errorf("late-appearing column misaligned: %v", hr)
	}
}

func TestCoerceNumeric(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"float", 1.5, 1.5},
		{"int", 7, 7},
		{"numeric string", " 42.5 ", 42.5},
		{"json number", json.Number("9999"), 9999},
		{"bool true", true, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CoerceNumeric(c.in); got != c.want {
				t.Errorf("CoerceNumeric(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
	for _, bad := range []interface{}{"not a number", "", nil, []int{1}} {
		if got := CoerceNumeric(bad); !math.IsNaN(got) {
			t.Errorf("CoerceNumeric(%v) = %v, want NaN", bad, got)
		}
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	table := NewTable()
	table.SetColumn("power", []float64{100, math.NaN(), 120})

	recs := table.Records()
	if recs[1]["power"] != nil {
		t.Errorf("NaN must serialize as nil, got %v", recs[1]["power"])
	}
	back := FromRecords(recs)
	col, _ := back.Column("power")
	if col[0] != 100 || !math.IsNaN(col[1]) || col[2] != 120 {
		t.Errorf("round trip changed data: %v", col)
	}
}

func TestSetColumnLengthMismatch(t *testing.T) {
	table := NewTable()
	if err := table.SetColumn("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := table.SetColumn("b", []float64{1}); err == nil {
		t.Error("mismatched column length must be rejected")
	}
}

func TestCommonColumns(t *testing.T) {
	a := NewTable()
	a.SetColumn("power", []float64{1})
	a.SetColumn("cadence", []float64{2})
	b := NewTable()
	b.SetColumn("cadence", []float64{3})
	b.SetColumn("hr", []float64{4})

	got := CommonColumns([]*Table{a, b})
	if len(got) != 1 || got[0] != "cadence" {
		t.Errorf("common columns = %v, want [cadence]", got)
	}
}

func TestMakeUniqueName(t *testing.T) {
	existing := map[string]bool{"Ride": true, "Ride (2)": true}
	if got := MakeUniqueName("Ride", existing); got != "Ride (3)" {
		t.Errorf("unique name = %q, want Ride (3)", got)
	}
	if got := MakeUniqueName("Fresh", existing); got != "Fresh" {
		t.Errorf("untaken name must pass through, got %q", got)
	}
}
