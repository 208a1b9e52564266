package domain

import (
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64   { return &i }

func TestTicketOpenDay(t *testing.T) {
	ticket := Ticket{ID: 1, Date: strPtr("2024-03-05 14:22:01")}

	day, ok := ticket.OpenDay()
	if !ok {
		t.Fatal("Expected open day to be present")
	}
	if day != "2024-03-05" {
		t.Errorf("Expected day %s, got %s", "2024-03-05", day)
	}
}

func TestTicketDayWithoutTime(t *testing.T) {
	ticket := Ticket{ID: 1, CloseDate: strPtr("2024-03-05")}

	day, ok := ticket.CloseDay()
	if !ok || day != "2024-03-05" {
		t.Errorf("Expected close day 2024-03-05, got %q (ok=%v)", day, ok)
	}
}

func TestTicketMissingDates(t *testing.T) {
	ticket := Ticket{ID: 1, Date: strPtr("")}

	if _, ok := ticket.OpenDay(); ok {
		t.Error("Expected empty date to be absent")
	}
	if _, ok := ticket.CloseDay(); ok {
		t.Error("Expected nil close date to be absent")
	}
}

func TestPriorityLabels(t *testing.T) {
	for p := 1; p <= 6; p++ {
		if PriorityLabels[p] == "" {
			t.Errorf("Expected a label for priority %d", p)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{ErrBINotFound, ErrBaseNotFound, ErrAutomationNotFound, ErrTaskNotFound, ErrTicketNotFound} {
		if !IsNotFound(err) {
			t.Errorf("Expected %v to be a not-found error", err)
		}
	}
	if IsNotFound(NewValidationError("bad")) {
		t.Error("Expected validation error not to be a not-found error")
	}
}
