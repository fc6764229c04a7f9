package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTimestampAcceptsBackendLayouts(t *testing.T) {
	want := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	for _, raw := range []string{
		`"2025-03-04T10:30:00Z"`,
		`"2025-03-04T10:30:00"`,
		`"2025-03-04T10:30:00.000000"`,
		`"Tue, 04 Mar 2025 10:30:00 GMT"`,
	} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !ts.Equal(want) {
			t.Fatalf("unmarshal %s: want %v got %v", raw, want, ts.Time)
		}
	}
}

func TestTimestampNullAndGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil || !ts.IsZero() {
		t.Fatalf("expected zero timestamp for null, got %v (%v)", ts.Time, err)
	}
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatalf("expected error for unparseable timestamp")
	}
}

func TestPurchaseTotalCostDistinguishesNull(t *testing.T) {
	var withNull Purchase
	if err := json.Unmarshal([]byte(`{"id":1,"total_cost":null}`), &withNull); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withNull.TotalCost.Valid {
		t.Fatalf("expected null total_cost to be invalid")
	}

	var withValue Purchase
	if err := json.Unmarshal([]byte(`{"id":1,"total_cost":99.99,"items":[{"quantity":2,"unit_cost":"1.50"}]}`), &withValue); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !withValue.TotalCost.Valid || !withValue.TotalCost.Decimal.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("unexpected total %+v", withValue.TotalCost)
	}
	if !withValue.Items[0].UnitCost.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("unexpected unit cost %s", withValue.Items[0].UnitCost)
	}
}

func TestBusinessLocationDeletable(t *testing.T) {
	cases := []struct {
		loc  BusinessLocation
		want bool
	}{
		{BusinessLocation{IsActive: true}, false},
		{BusinessLocation{IsActive: false, IsDeleted: true}, false},
		{BusinessLocation{IsActive: false}, true},
	}
	for _, tc := range cases {
		if got := tc.loc.Deletable(); got != tc.want {
			t.Fatalf("Deletable(%+v) = %v, want %v", tc.loc, got, tc.want)
		}
	}
}
