package catalog

import (
	"testing"

	"greenbook/internal/core/apperror"
)

func TestFromCSV(t *testing.T) {
	c := FromCSV(" daikon , tatsoi,,daikon ")
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if !c.Contains("daikon") || !c.Contains("tatsoi") {
		t.Fatal("trimmed names missing")
	}
}

func TestFromCSVEmptyFallsBackToDefault(t *testing.T) {
	c := FromCSV("  ")
	if c.Len() != len(DefaultProducts) {
		t.Fatalf("len = %d, want %d", c.Len(), len(DefaultProducts))
	}
}

func TestRequire(t *testing.T) {
	c := Default()
	if err := c.Require("daikon"); err != nil {
		t.Fatalf("require known: %v", err)
	}
	err := c.Require("durian")
	if !apperror.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
}
