package task

import "time"

// Stats counts tasks by state.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Overdue    int `json:"overdue"`
}

// ComputeStats counts every task in the collection, including saved and
// deleted ones. Overdue counts incomplete tasks past their due date.
func ComputeStats(tasks []Task, now time.Time) Stats {
	var stats Stats
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
			continue
		}
		if PriorityFor(t.Due, now) == PriorityOverdue {
			stats.Overdue++
		}
	}
	stats.Incomplete = stats.Total - stats.Completed
	return stats
}
