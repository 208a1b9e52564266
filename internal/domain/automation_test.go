package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation(AutomationDateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAutomationNextRun(t *testing.T) {
	tests := []struct {
		name     string
		auto     Automation
		now      string
		expected string
	}{
		{"daily later today", Automation{Recorrencia: RecurrenceDaily, DataHora: "2024-01-01T08:30"}, "2024-03-01T07:00", "2024-03-01T08:30"},
		{"daily tomorrow", Automation{Recorrencia: RecurrenceDaily, DataHora: "2024-01-01T08:30"}, "2024-03-01T12:00", "2024-03-02T08:30"},
		{"weekly on start weekday", Automation{Recorrencia: RecurrenceWeekly, DataHora: "2024-01-01T08:30"}, "2024-03-01T12:00", "2024-03-04T08:30"},
		{"monthly on start day", Automation{Recorrencia: RecurrenceMonthly, DataHora: "2024-01-15T08:30"}, "2024-03-01T12:00", "2024-03-15T08:30"},
		{"recurring not started yet", Automation{Recorrencia: RecurrenceDaily, DataHora: "2024-05-01T08:30"}, "2024-03-01T12:00", "2024-05-01T08:30"},
		{"once in the future", Automation{Recorrencia: RecurrenceOnce, DataHora: "2024-04-01T10:00"}, "2024-03-01T12:00", "2024-04-01T10:00"},
		{"hourly repeat after a recent run", Automation{Recorrencia: RecurrenceDaily, DataHora: "2024-01-01T08:30", RepetirUmaHora: true}, "2024-03-01T09:00", "2024-03-01T09:30"},
		{"hourly repeat already done", Automation{Recorrencia: RecurrenceDaily, DataHora: "2024-01-01T08:30", RepetirUmaHora: true}, "2024-03-01T10:00", "2024-03-02T08:30"},
		{"once with hourly repeat", Automation{Recorrencia: RecurrenceOnce, DataHora: "2024-03-01T11:30", RepetirUmaHora: true}, "2024-03-01T12:00", "2024-03-01T12:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.auto.NextRun(at(tt.now), time.UTC)
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, at(tt.expected), *next)
		})
	}
}

func TestAutomationNextRunOncePast(t *testing.T) {
	a := Automation{Recorrencia: RecurrenceOnce, DataHora: "2024-01-01T10:00"}

	next, err := a.NextRun(at("2024-03-01T12:00"), time.UTC)

	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestAutomationNextRunInvalid(t *testing.T) {
	_, err := (&Automation{Recorrencia: RecurrenceDaily, DataHora: "amanhã"}).NextRun(time.Now(), time.UTC)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = (&Automation{Recorrencia: "Anual", DataHora: "2024-01-01T10:00"}).NextRun(time.Now(), time.UTC)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCronSpec(t *testing.T) {
	start := at("2024-01-15T08:05")

	spec, ok := CronSpec(RecurrenceMonthly, start)
	assert.True(t, ok)
	assert.Equal(t, "5 8 15 * *", spec)

	_, ok = CronSpec(RecurrenceOnce, start)
	assert.False(t, ok)
}
