package domain

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Recurrence is how often an automation runs.
type Recurrence string

const (
	RecurrenceOnce    Recurrence = "Uma vez"
	RecurrenceDaily   Recurrence = "Diário"
	RecurrenceWeekly  Recurrence = "Semanal"
	RecurrenceMonthly Recurrence = "Mensalmente"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOnce, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// AutomationDateLayout is the layout of Automation.DataHora.
const AutomationDateLayout = "2006-01-02T15:04"

// Automation is a scheduled integration job registered on the dashboard.
type Automation struct {
	ID                  string     `json:"id"`
	NomeIntegracao      string     `json:"nomeIntegracao"`
	Recorrencia         Recurrence `json:"recorrencia"`
	DataHora            string     `json:"dataHora"`
	RepetirUmaHora      bool       `json:"repetirUmaHora"`
	NomeExecutavel      string     `json:"nomeExecutavel"`
	PastaFimAtualizacao string     `json:"pastaFimAtualizacao"`
	CreatedAt           time.Time  `json:"createdAt"`
	ProximaExecucao     *time.Time `json:"proximaExecucao"`
}

// AutomationPatch carries the mutable automation fields.
type AutomationPatch struct {
	NomeIntegracao      *string     `json:"nomeIntegracao,omitempty"`
	Recorrencia         *Recurrence `json:"recorrencia,omitempty"`
	DataHora            *string     `json:"dataHora,omitempty"`
	RepetirUmaHora      *bool       `json:"repetirUmaHora,omitempty"`
	NomeExecutavel      *string     `json:"nomeExecutavel,omitempty"`
	PastaFimAtualizacao *string     `json:"pastaFimAtualizacao,omitempty"`
}

// Apply merges the non-nil fields of p into a.
func (p AutomationPatch) Apply(a *Automation) {
	if p.NomeIntegracao != nil {
		a.NomeIntegracao = *p.NomeIntegracao
	}
	if p.Recorrencia != nil {
		a.Recorrencia = *p.Recorrencia
	}
	if p.DataHora != nil {
		a.DataHora = *p.DataHora
	}
	if p.RepetirUmaHora != nil {
		a.RepetirUmaHora = *p.RepetirUmaHora
	}
	if p.NomeExecutavel != nil {
		a.NomeExecutavel = *p.NomeExecutavel
	}
	if p.PastaFimAtualizacao != nil {
		a.PastaFimAtualizacao = *p.PastaFimAtualizacao
	}
}

// Validate checks the schedule fields.
func (a *Automation) Validate(loc *time.Location) error {
	if !a.Recorrencia.Valid() {
		return NewValidationError(fmt.Sprintf("invalid recorrencia: %q", a.Recorrencia))
	}
	if _, err := time.ParseInLocation(AutomationDateLayout, a.DataHora, loc); err != nil {
		return NewValidationError(fmt.Sprintf("invalid dataHora: %q", a.DataHora))
	}
	return nil
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CronSpec returns the five-field cron expression for a recurring automation
// anchored at start. Once-off automations have no spec.
func CronSpec(r Recurrence, start time.Time) (string, bool) {
	switch r {
	case RecurrenceDaily:
		return fmt.Sprintf("%d %d * * *", start.Minute(), start.Hour()), true
	case RecurrenceWeekly:
		return fmt.Sprintf("%d %d * * %d", start.Minute(), start.Hour(), int(start.Weekday())), true
	case RecurrenceMonthly:
		return fmt.Sprintf("%d %d %d * *", start.Minute(), start.Hour(), start.Day()), true
	}
	return "", false
}

// NextRun returns the next execution strictly after now, or nil when a
// once-off automation has already run. dataHora is read in loc.
//
// A recurring automation whose start lies in the future first runs at the
// start itself. With RepetirUmaHora, a run that happened within the last hour
// is repeated one hour later when that comes before the next regular run.
// Monthly schedules on days 29-31 skip months that lack the day.
func (a *Automation) NextRun(now time.Time, loc *time.Location) (*time.Time, error) {
	start, err := time.ParseInLocation(AutomationDateLayout, a.DataHora, loc)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid dataHora: %q", a.DataHora))
	}
	now = now.In(loc)

	spec, recurring := CronSpec(a.Recorrencia, start)
	if !recurring {
		if a.Recorrencia != RecurrenceOnce {
			return nil, NewValidationError(fmt.Sprintf("invalid recorrencia: %q", a.Recorrencia))
		}
		if start.After(now) {
			return &start, nil
		}
		if a.RepetirUmaHora {
			if repeat := start.Add(time.Hour); repeat.After(now) {
				return &repeat, nil
			}
		}
		return nil, nil
	}

	if start.After(now) {
		return &start, nil
	}

	schedule, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", spec, err)
	}
	next := schedule.Next(now)

	if a.RepetirUmaHora {
		// The first run after now-1h is the previous run when it is not after now.
		recent := schedule.Next(now.Add(-time.Hour))
		if !recent.After(now) && !recent.Before(start) {
			if repeat := recent.Add(time.Hour); repeat.Before(next) {
				next = repeat
			}
		}
	}
	return &next, nil
}
