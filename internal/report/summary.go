package report

import "time"

// StatusPath is the fixed storage path the hub status display reads.
const StatusPath = "hub_status/token_usage/claude"

// Limits carries the static daily/monthly thresholds shown next to the
// aggregated counters. They are display constants, not derived from the
// fetched data.
type Limits struct {
	Tokens    int64 `json:"tokens"`
	CostCents int64 `json:"cost_cents"`
}

// Static limit pairs per report variant.
var (
	DailyLimits   = Limits{Tokens: 5_000_000, CostCents: 2_000}
	MonthlyLimits = Limits{Tokens: 150_000_000, CostCents: 60_000}
)

// DailySummary is the persisted aggregate of one day of claude_code usage.
// It has no identity beyond StatusPath; every refresh replaces it wholesale.
type DailySummary struct {
	Date string `json:"date"`

	Sessions     int64 `json:"sessions"`
	LinesAdded   int64 `json:"lines_added"`
	LinesRemoved int64 `json:"lines_removed"`
	Commits      int64 `json:"commits"`
	PullRequests int64 `json:"pull_requests"`

	InputTokens         int64   `json:"input_tokens"`
	OutputTokens        int64   `json:"output_tokens"`
	CacheReadTokens     int64   `json:"cache_read_tokens"`
	CacheCreationTokens int64   `json:"cache_creation_tokens"`
	EstimatedCostCents  float64 `json:"estimated_cost_cents"`

	Limits      Limits    `json:"limits"`
	LastUpdated time.Time `json:"last_updated"`
}

// MonthlySummary is the persisted aggregate of the current month's messages
// usage, from the first calendar day through the refresh instant.
type MonthlySummary struct {
	StartingAt time.Time `json:"starting_at"`
	EndingAt   time.Time `json:"ending_at"`

	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`

	Limits      Limits    `json:"limits"`
	LastUpdated time.Time `json:"last_updated"`
}

// FallbackPolicy controls what a fetch does when the primary query returns
// no records. The daily report retries the previous calendar day, the
// monthly report does not; the asymmetry is deliberate and kept explicit.
type FallbackPolicy int

const (
	// FallbackNone treats an empty result as a zero-valued summary.
	FallbackNone FallbackPolicy = iota
	// FallbackPreviousDay retries once for the prior calendar day. A failure
	// of the retry is swallowed and reduction proceeds over empty data.
	FallbackPreviousDay
)
