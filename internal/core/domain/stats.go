package domain

// SummaryStats holds the whole-table aggregates shown on the dashboard.
// Today's figures use exact equality against the current calendar date
// in the storage backend's local time zone.
type SummaryStats struct {
	// TotalEntries is the number of entries in the table.
	TotalEntries int
	// TotalHours is the sum of hours across all entries.
	TotalHours float64
	// TodayEntries is the number of entries dated today.
	TodayEntries int
	// TodayHours is the sum of hours for entries dated today.
	TodayHours float64
	// MostCommonType is the service type with the most entries,
	// or "N/A" for an empty table.
	MostCommonType string
}

// DurationStats summarises the hours column of an entry sequence.
type DurationStats struct {
	Min   float64
	Max   float64
	Avg   float64
	Total float64
}

// TechnicianStats aggregates the work logged by a single technician.
type TechnicianStats struct {
	// Entries is the number of jobs the technician logged.
	Entries int
	// TotalHours is the sum of hours across those jobs.
	TotalHours float64
	// UniqueServiceTypes counts the distinct service types performed.
	UniqueServiceTypes int
}

// ComputeDurationStats reduces a sequence of entries to min/max/avg/total
// hours. An empty sequence yields all zeroes. Summation is plain
// floating-point addition; the data volumes here do not warrant more.
func ComputeDurationStats(entries []Entry) DurationStats {
	if len(entries) == 0 {
		return DurationStats{}
	}

	stats := DurationStats{
		Min: entries[0].Hours,
		Max: entries[0].Hours,
	}
	for _, e := range entries {
		if e.Hours < stats.Min {
			stats.Min = e.Hours
		}
		if e.Hours > stats.Max {
			stats.Max = e.Hours
		}
		stats.Total += e.Hours
	}
	stats.Avg = stats.Total / float64(len(entries))
	return stats
}

// StatsByTechnician groups a sequence of entries by technician name and
// aggregates entry count, total hours, and distinct service types.
func StatsByTechnician(entries []Entry) map[string]TechnicianStats {
	types := make(map[string]map[string]struct{})
	stats := make(map[string]TechnicianStats)

	for _, e := range entries {
		s := stats[e.Technician]
		s.Entries++
		s.TotalHours += e.Hours
		stats[e.Technician] = s

		if types[e.Technician] == nil {
			types[e.Technician] = make(map[string]struct{})
		}
		types[e.Technician][e.ServiceType] = struct{}{}
	}

	for tech, seen := range types {
		s := stats[tech]
		s.UniqueServiceTypes = len(seen)
		stats[tech] = s
	}

	return stats
}
