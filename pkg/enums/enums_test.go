package enums

import "testing"

func TestParseTransferType(t *testing.T) {
	got, err := ParseTransferType(" OUT ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TransferTypeOut {
		t.Fatalf("expected OUT, got %q", got)
	}
	if _, err := ParseTransferType("SIDEWAYS"); err == nil {
		t.Fatalf("expected error for unknown transfer type")
	}
	if _, err := ParseTransferType("in"); err == nil {
		t.Fatalf("transfer type is case-sensitive")
	}
	if TransferType("in").IsValid() {
		t.Fatalf("lower-case literal must not be valid without parsing")
	}
}

func TestParseMovementType(t *testing.T) {
	for _, raw := range []string{"out_to_business", "in_from_business", "adjustment"} {
		got, err := ParseMovementType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.IsValid() || got.String() != raw {
			t.Fatalf("round trip mismatch for %q", raw)
		}
	}
	if _, err := ParseMovementType("teleport"); err == nil {
		t.Fatalf("expected error for unknown movement type")
	}
}

func TestStockStatusLabels(t *testing.T) {
	cases := map[StockStatus]string{
		StockStatusOutOfStock: "Out of Stock",
		StockStatusLowStock:   "Low Stock",
		StockStatusInStock:    "In Stock",
		StockStatus("weird"):  "",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Fatalf("label for %q: want %q got %q", status, want, got)
		}
	}
	if _, err := ParseStockStatus("in-stock"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoticeVariant(t *testing.T) {
	if !NoticeVariantDestructive.IsValid() {
		t.Fatalf("destructive should be valid")
	}
	if _, err := ParseNoticeVariant("loud"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestMovementTypeLabels(t *testing.T) {
	cases := map[MovementType]string{
		MovementTypeOutToBusiness:  "Out to Business",
		MovementTypeInFromBusiness: "In from Business",
		MovementTypeAdjustment:     "Adjustment",
	}
	for movement, want := range cases {
		if got := movement.Label(); got != want {
			t.Fatalf("label for %q: expected %q, got %q", movement, want, got)
		}
	}
}
