package types

import (
	"encoding/json"
	"testing"
)

func TestQuantityParse(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"0", 0},
		{"1", 10_000},
		{"1.5", 15_000},
		{"0.0001", 1},
		{"-2.25", -22_500},
		{"+3", 30_000},
		{"10.12345", 101_234}, // extra digits truncated
	}

	for _, tt := range tests {
		got, err := NewQuantityFromString(tt.in)
		if err != nil {
			t.Errorf("parse %q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parse %q = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := NewQuantityFromString(""); err == nil {
		t.Error("empty string must fail")
	}
	if _, err := NewQuantityFromString("abc"); err == nil {
		t.Error("garbage must fail")
	}
}

func TestQuantityString(t *testing.T) {
	if got := MustQuantity("1.5").String(); got != "1.5000" {
		t.Errorf("String = %q", got)
	}
	if got := MustQuantity("-0.25").String(); got != "-0.2500" {
		t.Errorf("String = %q", got)
	}
}

func TestQuantityJSON(t *testing.T) {
	var q Quantity
	if err := json.Unmarshal([]byte(`2.5`), &q); err != nil {
		t.Fatalf("number: %v", err)
	}
	if q != 25_000 {
		t.Errorf("number = %d", q)
	}

	if err := json.Unmarshal([]byte(`"3.75"`), &q); err != nil {
		t.Fatalf("string: %v", err)
	}
	if q != 37_500 {
		t.Errorf("string = %d", q)
	}

	out, err := json.Marshal(MustQuantity("1.5"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "1.5000" {
		t.Errorf("marshal = %s", out)
	}
}

func TestQuantityDecimal(t *testing.T) {
	d := MustQuantity("2.5").Decimal()
	if d.String() != "2.5" {
		t.Errorf("Decimal = %s", d)
	}
}
