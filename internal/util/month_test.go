package util

import (
	"testing"
	"time"
)

func TestMonthOfMatchesStdTime(t *testing.T) {
	got := MonthOf(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	if got != March {
		t.Fatalf("MonthOf: got %v, want March", got)
	}
}

func TestMonthStringMatchesStdName(t *testing.T) {
	if got := December.String(); got != "December" {
		t.Fatalf("String: got %q, want December", got)
	}
}

func TestMonthStringOutOfRangeIsInvalid(t *testing.T) {
	if got := Month(0).String(); got != "invalid" {
		t.Fatalf("String: got %q, want invalid", got)
	}
	if got := Month(13).String(); got != "invalid" {
		t.Fatalf("String: got %q, want invalid", got)
	}
}
