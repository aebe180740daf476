package domain

import "sort"

// AppTotal is the summed tracked time for one application within a project.
type AppTotal struct {
	AppName string
	Seconds float64
}

// SortAppTotals orders totals by seconds descending, breaking ties by app
// name ascending so equal totals always come out in the same order.
func SortAppTotals(totals []AppTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Seconds != totals[j].Seconds {
			return totals[i].Seconds > totals[j].Seconds
		}
		return totals[i].AppName < totals[j].AppName
	})
}

// ProjectReport is the total and per-application breakdown for a project.
type ProjectReport struct {
	Project      Project
	TotalSeconds float64
	Apps         []AppTotal
}

// TotalHours returns the project total in hours.
func (r ProjectReport) TotalHours() float64 {
	return r.TotalSeconds / 3600
}
