package repository

import (
	"testing"
	"time"
)

func TestBuildOrderNumber_PadsToThreeDigits(t *testing.T) {
	jan := time.Date(2025, time.January, 3, 12, 0, 0, 0, time.UTC)

	if got := BuildOrderNumber(jan, 1); got != "SSG-202501-001" {
		t.Fatalf("expected SSG-202501-001, got %s", got)
	}
	if got := BuildOrderNumber(jan, 42); got != "SSG-202501-042" {
		t.Fatalf("expected SSG-202501-042, got %s", got)
	}
}

func TestBuildOrderNumber_SequencePassesThreeDigits(t *testing.T) {
	dec := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)

	if got := BuildOrderNumber(dec, 1000); got != "SSG-202512-1000" {
		t.Fatalf("expected SSG-202512-1000, got %s", got)
	}
}

func TestBuildOrderNumber_UsesUTCMonth(t *testing.T) {
	// Feb 1 00:30 at UTC+2 is still Jan 31 22:30 UTC, so the number stays
	// in the January sequence.
	loc := time.FixedZone("SAST", 2*60*60)
	early := time.Date(2025, time.February, 1, 0, 30, 0, 0, loc)

	if got := BuildOrderNumber(early, 5); got != "SSG-202501-005" {
		t.Fatalf("expected SSG-202501-005, got %s", got)
	}
}

func TestMonthPattern(t *testing.T) {
	jan := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
	if got := monthPattern(jan); got != "SSG-202501-%" {
		t.Fatalf("expected SSG-202501-%%, got %s", got)
	}
}
