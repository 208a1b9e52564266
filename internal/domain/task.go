package domain

import (
	"fmt"
	"sort"
	"time"
)

// RecKind is the recurrence of a task on the demand board.
type RecKind string

const (
	RecOnce   RecKind = "once"
	RecDaily  RecKind = "daily"
	RecWeekly RecKind = "weekly"
)

// Recurrence horizons.
const (
	DailyHorizonDays = 30
	WeeklyCount      = 8
)

// Layouts used by task fields.
const (
	DayLayout   = "2006-01-02"
	clockLayout = "15:04"
)

// Task is one occurrence on the demand board.
type Task struct {
	ID          string  `json:"id"`
	Titulo      string  `json:"titulo"`
	Inicio      string  `json:"inicio"`
	Fim         string  `json:"fim"`
	Concluida   bool    `json:"concluida"`
	Responsavel string  `json:"responsavel"`
	Operacao    string  `json:"operacao"`
	YMD         string  `json:"ymd"`
	SeriesID    string  `json:"seriesId,omitempty"`
	RecKind     RecKind `json:"recKind,omitempty"`
	WorkspaceID string  `json:"workspaceId"`
	CreatedAt   int64   `json:"createdAt"`
}

// Validate checks the time and day fields.
func (t *Task) Validate() error {
	if _, err := time.Parse(DayLayout, t.YMD); err != nil {
		return NewValidationError(fmt.Sprintf("invalid ymd: %q", t.YMD))
	}
	if _, err := time.Parse(clockLayout, t.Inicio); err != nil {
		return NewValidationError(fmt.Sprintf("invalid inicio: %q", t.Inicio))
	}
	if _, err := time.Parse(clockLayout, t.Fim); err != nil {
		return NewValidationError(fmt.Sprintf("invalid fim: %q", t.Fim))
	}
	switch t.RecKind {
	case "", RecOnce, RecDaily, RecWeekly:
	default:
		return NewValidationError(fmt.Sprintf("invalid recKind: %q", t.RecKind))
	}
	return nil
}

// TaskPatch carries the mutable task fields.
type TaskPatch struct {
	Titulo      *string `json:"titulo,omitempty"`
	Inicio      *string `json:"inicio,omitempty"`
	Fim         *string `json:"fim,omitempty"`
	Concluida   *bool   `json:"concluida,omitempty"`
	Responsavel *string `json:"responsavel,omitempty"`
	Operacao    *string `json:"operacao,omitempty"`
	YMD         *string `json:"ymd,omitempty"`
}

// Apply merges the non-nil fields of p into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Titulo != nil {
		t.Titulo = *p.Titulo
	}
	if p.Inicio != nil {
		t.Inicio = *p.Inicio
	}
	if p.Fim != nil {
		t.Fim = *p.Fim
	}
	if p.Concluida != nil {
		t.Concluida = *p.Concluida
	}
	if p.Responsavel != nil {
		t.Responsavel = *p.Responsavel
	}
	if p.Operacao != nil {
		t.Operacao = *p.Operacao
	}
	if p.YMD != nil {
		t.YMD = *p.YMD
	}
}

// Occurrences expands a recurrence into the list of days it covers, starting
// at startYMD. For weekly tasks an optional weekday (0 Sunday .. 6 Saturday)
// moves the first occurrence forward to that weekday.
func Occurrences(kind RecKind, startYMD string, weekDay *int) ([]string, error) {
	start, err := time.Parse(DayLayout, startYMD)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid ymd: %q", startYMD))
	}

	switch kind {
	case "", RecOnce:
		return []string{startYMD}, nil
	case RecDaily:
		days := make([]string, 0, DailyHorizonDays)
		for i := 0; i < DailyHorizonDays; i++ {
			days = append(days, start.AddDate(0, 0, i).Format(DayLayout))
		}
		return days, nil
	case RecWeekly:
		if weekDay != nil {
			if *weekDay < 0 || *weekDay > 6 {
				return nil, NewValidationError(fmt.Sprintf("invalid weekDay: %d", *weekDay))
			}
			shift := (*weekDay - int(start.Weekday()) + 7) % 7
			start = start.AddDate(0, 0, shift)
		}
		days := make([]string, 0, WeeklyCount)
		for w := 0; w < WeeklyCount; w++ {
			days = append(days, start.AddDate(0, 0, 7*w).Format(DayLayout))
		}
		return days, nil
	}
	return nil, NewValidationError(fmt.Sprintf("invalid recKind: %q", kind))
}

// IsLate reports whether a pending task has passed its end. Tasks on earlier
// days are late; tasks today are late once fim is not after the current clock.
func (t *Task) IsLate(now time.Time) bool {
	if t.Concluida {
		return false
	}
	today := now.Format(DayLayout)
	switch {
	case t.YMD < today:
		return true
	case t.YMD > today:
		return false
	}
	return t.Fim <= now.Format(clockLayout)
}

// TaskSummary holds the KPIs for one board day.
type TaskSummary struct {
	Total     int               `json:"total"`
	Concluida int               `json:"concluida"`
	Atrasada  int               `json:"atrasada"`
	NoPrazo   int               `json:"noPrazo"`
	Volume    []ResponsavelLoad `json:"volume"`
}

// ResponsavelLoad is the number of tasks assigned to one person.
type ResponsavelLoad struct {
	Responsavel string `json:"responsavel"`
	Count       int    `json:"count"`
}

// SummarizeTasks computes the day KPIs. now must already be in the board's
// time zone.
func SummarizeTasks(tasks []Task, now time.Time) TaskSummary {
	summary := TaskSummary{Total: len(tasks)}
	load := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		switch {
		case t.Concluida:
			summary.Concluida++
		case t.IsLate(now):
			summary.Atrasada++
		default:
			summary.NoPrazo++
		}
		load[t.Responsavel]++
	}

	summary.Volume = make([]ResponsavelLoad, 0, len(load))
	for name, n := range load {
		summary.Volume = append(summary.Volume, ResponsavelLoad{Responsavel: name, Count: n})
	}
	sort.Slice(summary.Volume, func(i, j int) bool {
		return summary.Volume[i].Responsavel < summary.Volume[j].Responsavel
	})
	return summary
}

// TaskQuery selects tasks on the board. Empty fields are unconstrained.
type TaskQuery struct {
	WorkspaceID string
	YMD         string
	Responsavel string
	Operacao    string
}

// Matches reports whether t satisfies every set field of q.
func (q TaskQuery) Matches(t *Task) bool {
	if q.WorkspaceID != "" && t.WorkspaceID != q.WorkspaceID {
		return false
	}
	if q.YMD != "" && t.YMD != q.YMD {
		return false
	}
	if q.Responsavel != "" && t.Responsavel != q.Responsavel {
		return false
	}
	return q.Operacao == "" || t.Operacao == q.Operacao
}

// SortTasks orders tasks by start time, then title.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Inicio != tasks[j].Inicio {
			return tasks[i].Inicio < tasks[j].Inicio
		}
		return tasks[i].Titulo < tasks[j].Titulo
	})
}
