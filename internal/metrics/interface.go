package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPlayersAdded()
	IncPlayersDeleted()
	IncMatchesRecorded()
	ObserveQueryDuration(report string, duration float64)
	IncStoreErrors()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps activity counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}

// Counter keys written to the MetricsStore.
const (
	KeyPlayersAdded     = "players_added"
	KeyPlayersDeleted   = "players_deleted"
	KeyMatchesRecorded  = "matches_recorded"
	KeyWeeklyReportsRun = "weekly_reports_run"
)
