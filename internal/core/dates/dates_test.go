package dates

import (
	"testing"
	"time"
)

func TestDayTruncatesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	d := Day(time.Date(2026, 3, 5, 23, 30, 0, 0, loc))

	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Fatalf("Day = %v, want %v", d, want)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := Parse("2026-03-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Format(d); got != "2026-03-05" {
		t.Fatalf("format = %q", got)
	}

	if _, err := Parse("05.03.2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestNext(t *testing.T) {
	if got := Format(Next(MustParse("2026-02-28"))); got != "2026-03-01" {
		t.Fatalf("next = %q", got)
	}
}

func TestContainsHalfOpen(t *testing.T) {
	from := MustParse("2026-03-01")
	to := MustParse("2026-03-05")

	if !Contains(MustParse("2026-03-01"), from, &to) {
		t.Error("start day must be included")
	}
	if Contains(MustParse("2026-03-05"), from, &to) {
		t.Error("end day must be excluded")
	}
	if !Contains(MustParse("2026-12-31"), from, nil) {
		t.Error("open-ended interval must include any later day")
	}
	if Contains(MustParse("2026-02-28"), from, nil) {
		t.Error("day before start must be excluded")
	}
}

func TestOverlaps(t *testing.T) {
	mar1 := MustParse("2026-03-01")
	mar5 := MustParse("2026-03-05")
	mar10 := MustParse("2026-03-10")

	// Adjacent half-open intervals share no day.
	if Overlaps(mar1, &mar5, mar5, &mar10) {
		t.Error("adjacent intervals must not overlap")
	}
	if !Overlaps(mar1, &mar10, mar5, nil) {
		t.Error("open-ended interval starting inside must overlap")
	}
	if !Overlaps(mar1, nil, mar10, nil) {
		t.Error("two open-ended intervals always overlap")
	}
	if Overlaps(mar5, &mar10, mar1, &mar5) {
		t.Error("adjacency must be symmetric")
	}
}
