package domain

import (
	"fmt"
	"sort"
	"time"
)

// TopRequestersLimit bounds the requester ranking.
const TopRequestersLimit = 10

// TicketStats is the dashboard summary computed from a filtered ticket set.
type TicketStats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Solved     int `json:"solved"`
	Closed     int `json:"closed"`

	// Delay averages in seconds.
	AvgCloseDelay           float64 `json:"avgCloseDelay"`
	AvgSolveDelay           float64 `json:"avgSolveDelay"`
	AvgTakeIntoAccountDelay float64 `json:"avgTakeIntoAccountDelay"`
	AvgWaitingDuration      float64 `json:"avgWaitingDuration"`

	ByStatus           []StatusCount     `json:"byStatus"`
	ByPriority         []PriorityCount   `json:"byPriority"`
	ByType             []TypeCount       `json:"byType"`
	ByCategory         []CategoryCount   `json:"byCategory"`
	TopRequesters      []RequesterCount  `json:"topRequesters"`
	Timeline           []TimelinePoint   `json:"timeline"`
	TimelineComparison []TimelineCompare `json:"timelineComparison"`
}

type StatusCount struct {
	Status int `json:"status"`
	Count  int `json:"count"`
}

type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

type TypeCount struct {
	Type  int `json:"type"`
	Count int `json:"count"`
}

type CategoryCount struct {
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

type RequesterCount struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	Count    int    `json:"count"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TimelineCompare struct {
	Date   string `json:"date"`
	Opened int    `json:"opened"`
	Closed int    `json:"closed"`
}

// delayAverage accumulates one delay metric. Absent or zero samples are skipped.
type delayAverage struct {
	sum   int64
	count int
}

func (d *delayAverage) add(v *int64) {
	if v == nil || *v <= 0 {
		return
	}
	d.sum += *v
	d.count++
}

func (d *delayAverage) value() float64 {
	if d.count == 0 {
		return 0
	}
	return float64(d.sum) / float64(d.count)
}

// ComputeStats aggregates tickets in a single pass. now supplies the day used
// for tickets that carry no opening date.
func ComputeStats(tickets []Ticket, now time.Time) *TicketStats {
	stats := &TicketStats{Total: len(tickets)}

	var closeDelay, solveDelay, takeDelay, waiting delayAverage
	byStatus := make(map[int]int)
	byPriority := make(map[int]int)
	byType := make(map[int]int)
	byCategory := make(map[int]int)
	byRequester := make(map[int]int)
	opened := make(map[string]int)
	closed := make(map[string]int)
	today := now.UTC().Format("2006-01-02")

	for i := range tickets {
		t := &tickets[i]

		switch t.Status {
		case TicketStatusNew:
			stats.New++
		case TicketStatusProcessing:
			stats.InProgress++
		case TicketStatusPlanned, TicketStatusWaiting:
			stats.Pending++
		case TicketStatusSolved:
			stats.Solved++
		case TicketStatusClosed:
			stats.Closed++
		}

		byStatus[int(t.Status)]++
		byPriority[t.Priority]++
		byType[t.Type]++
		if t.CategoryID != nil && *t.CategoryID != 0 {
			byCategory[*t.CategoryID]++
		}
		if t.RequesterID != nil && *t.RequesterID != 0 {
			byRequester[*t.RequesterID]++
		}

		closeDelay.add(t.CloseDelay)
		solveDelay.add(t.SolveDelay)
		takeDelay.add(t.TakeIntoAccountDelay)
		waiting.add(t.WaitingDuration)

		day, ok := t.OpenDay()
		if !ok {
			day = today
		}
		opened[day]++
		if day, ok := t.CloseDay(); ok {
			closed[day]++
		}
	}

	stats.AvgCloseDelay = closeDelay.value()
	stats.AvgSolveDelay = solveDelay.value()
	stats.AvgTakeIntoAccountDelay = takeDelay.value()
	stats.AvgWaitingDuration = waiting.value()

	for _, k := range sortedKeys(byStatus) {
		stats.ByStatus = append(stats.ByStatus, StatusCount{Status: k, Count: byStatus[k]})
	}
	for _, k := range sortedKeys(byPriority) {
		stats.ByPriority = append(stats.ByPriority, PriorityCount{Priority: k, Count: byPriority[k]})
	}
	for _, k := range sortedKeys(byType) {
		stats.ByType = append(stats.ByType, TypeCount{Type: k, Count: byType[k]})
	}

	for _, k := range rankByCount(byCategory) {
		stats.ByCategory = append(stats.ByCategory, CategoryCount{
			CategoryID:   k,
			CategoryName: fmt.Sprintf("Category %d", k),
			Count:        byCategory[k],
		})
	}

	requesters := rankByCount(byRequester)
	if len(requesters) > TopRequestersLimit {
		requesters = requesters[:TopRequestersLimit]
	}
	for _, k := range requesters {
		stats.TopRequesters = append(stats.TopRequesters, RequesterCount{
			UserID:   k,
			UserName: fmt.Sprintf("User %d", k),
			Count:    byRequester[k],
		})
	}

	stats.Timeline, stats.TimelineComparison = buildTimelines(opened, closed)
	stats.ensureSlices()
	return stats
}

// buildTimelines returns the opened-per-day series and the opened/closed
// comparison over the union of days seen in either map, both ascending.
func buildTimelines(opened, closed map[string]int) ([]TimelinePoint, []TimelineCompare) {
	timeline := make([]TimelinePoint, 0, len(opened))
	for day, n := range opened {
		timeline = append(timeline, TimelinePoint{Date: day, Count: n})
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date < timeline[j].Date })

	days := make(map[string]struct{}, len(opened)+len(closed))
	for day := range opened {
		days[day] = struct{}{}
	}
	for day := range closed {
		days[day] = struct{}{}
	}
	comparison := make([]TimelineCompare, 0, len(days))
	for day := range days {
		comparison = append(comparison, TimelineCompare{Date: day, Opened: opened[day], Closed: closed[day]})
	}
	sort.Slice(comparison, func(i, j int) bool { return comparison[i].Date < comparison[j].Date })

	return timeline, comparison
}

// ensureSlices keeps empty breakdowns encoded as [] rather than null.
func (s *TicketStats) ensureSlices() {
	if s.ByStatus == nil {
		s.ByStatus = []StatusCount{}
	}
	if s.ByPriority == nil {
		s.ByPriority = []PriorityCount{}
	}
	if s.ByType == nil {
		s.ByType = []TypeCount{}
	}
	if s.ByCategory == nil {
		s.ByCategory = []CategoryCount{}
	}
	if s.TopRequesters == nil {
		s.TopRequesters = []RequesterCount{}
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// rankByCount orders keys by descending count, ties by ascending key.
func rankByCount(m map[int]int) []int {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool { return m[keys[i]] > m[keys[j]] })
	return keys
}
