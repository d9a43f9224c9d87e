package anthropic

// Response shapes for the organization usage report endpoints. Every nested
// field the API may omit is a pointer; callers treat absence as zero.

// DailyRecord is one per-day, per-actor entry from the claude_code report.
type DailyRecord struct {
	Date           string           `json:"date"`
	Actor          string           `json:"actor"`
	CoreMetrics    *CoreMetrics     `json:"core_metrics"`
	ModelBreakdown []ModelBreakdown `json:"model_breakdown"`
}

// CoreMetrics carries the productivity counters of a DailyRecord.
type CoreMetrics struct {
	NumSessions              *int64       `json:"num_sessions"`
	LinesOfCode              *LinesOfCode `json:"lines_of_code"`
	CommitsByClaudeCode      *int64       `json:"commits_by_claude_code"`
	PullRequestsByClaudeCode *int64       `json:"pull_requests_by_claude_code"`
}

// LinesOfCode splits line counts into added and removed.
type LinesOfCode struct {
	Added   *int64 `json:"added"`
	Removed *int64 `json:"removed"`
}

// ModelBreakdown is one per-model entry inside a DailyRecord.
type ModelBreakdown struct {
	Model         string         `json:"model"`
	Tokens        *TokenCounts   `json:"tokens"`
	EstimatedCost *EstimatedCost `json:"estimated_cost"`
}

// TokenCounts groups the token categories of a model entry.
type TokenCounts struct {
	Input         *int64 `json:"input"`
	Output        *int64 `json:"output"`
	CacheRead     *int64 `json:"cache_read"`
	CacheCreation *int64 `json:"cache_creation"`
}

// EstimatedCost is the estimated cost of a model entry, in cents.
type EstimatedCost struct {
	Currency string   `json:"currency"`
	Amount   *float64 `json:"amount"`
}

// MessagesBucket is one fixed-width time bucket from the messages report.
type MessagesBucket struct {
	StartingAt string           `json:"starting_at"`
	EndingAt   string           `json:"ending_at"`
	Results    []MessagesResult `json:"results"`
}

// MessagesResult is one grouped entry inside a MessagesBucket.
type MessagesResult struct {
	Model                    string `json:"model"`
	UncachedInputTokens      *int64 `json:"uncached_input_tokens"`
	CacheReadInputTokens     *int64 `json:"cache_read_input_tokens"`
	CacheCreationInputTokens *int64 `json:"cache_creation_input_tokens"`
	OutputTokens             *int64 `json:"output_tokens"`
}
