package report

import (
	"testing"

	"github.com/caiqy/claude-usage-hub/internal/anthropic"
)

func i64(v int64) *int64 { return &v }

func f64(v float64) *float64 { return &v }

func TestReduceDailySpansRecordsAndModelEntries(t *testing.T) {
	records := []anthropic.DailyRecord{
		{
			CoreMetrics: &anthropic.CoreMetrics{
				NumSessions:              i64(2),
				LinesOfCode:              &anthropic.LinesOfCode{Added: i64(10), Removed: i64(3)},
				CommitsByClaudeCode:      i64(1),
				PullRequestsByClaudeCode: i64(0),
			},
			ModelBreakdown: []anthropic.ModelBreakdown{
				{
					Tokens:        &anthropic.TokenCounts{Input: i64(100), Output: i64(50), CacheRead: i64(5), CacheCreation: i64(0)},
					EstimatedCost: &anthropic.EstimatedCost{Amount: f64(12)},
				},
			},
		},
		{
			CoreMetrics: &anthropic.CoreMetrics{
				NumSessions:         i64(1),
				LinesOfCode:         &anthropic.LinesOfCode{Added: i64(7)},
				CommitsByClaudeCode: i64(2),
			},
			ModelBreakdown: []anthropic.ModelBreakdown{
				{
					Tokens:        &anthropic.TokenCounts{Input: i64(30), Output: i64(20), CacheRead: i64(1), CacheCreation: i64(4)},
					EstimatedCost: &anthropic.EstimatedCost{Amount: f64(3.5)},
				},
				{
					Tokens:        &anthropic.TokenCounts{Input: i64(10), Output: i64(5)},
					EstimatedCost: &anthropic.EstimatedCost{Amount: f64(0.5)},
				},
			},
		},
	}

	summary := reduceDaily(records)

	if summary.Sessions != 3 {
		t.Fatalf("sessions = %d, want 3", summary.Sessions)
	}
	if summary.LinesAdded != 17 || summary.LinesRemoved != 3 {
		t.Fatalf("lines = +%d/-%d, want +17/-3", summary.LinesAdded, summary.LinesRemoved)
	}
	if summary.Commits != 3 || summary.PullRequests != 0 {
		t.Fatalf("commits=%d prs=%d, want 3/0", summary.Commits, summary.PullRequests)
	}
	if summary.InputTokens != 140 || summary.OutputTokens != 75 {
		t.Fatalf("tokens in=%d out=%d, want 140/75", summary.InputTokens, summary.OutputTokens)
	}
	if summary.CacheReadTokens != 6 || summary.CacheCreationTokens != 4 {
		t.Fatalf("cache read=%d create=%d, want 6/4", summary.CacheReadTokens, summary.CacheCreationTokens)
	}
	if summary.EstimatedCostCents != 16 {
		t.Fatalf("cost = %v, want 16", summary.EstimatedCostCents)
	}
}

func TestReduceDailySingleRecord(t *testing.T) {
	records := []anthropic.DailyRecord{
		{
			CoreMetrics: &anthropic.CoreMetrics{
				NumSessions:              i64(2),
				LinesOfCode:              &anthropic.LinesOfCode{Added: i64(10), Removed: i64(3)},
				CommitsByClaudeCode:      i64(1),
				PullRequestsByClaudeCode: i64(0),
			},
			ModelBreakdown: []anthropic.ModelBreakdown{
				{
					Tokens:        &anthropic.TokenCounts{Input: i64(100), Output: i64(50), CacheRead: i64(5), CacheCreation: i64(0)},
					EstimatedCost: &anthropic.EstimatedCost{Amount: f64(12)},
				},
			},
		},
	}

	summary := reduceDaily(records)

	want := DailySummary{
		Sessions: 2, LinesAdded: 10, LinesRemoved: 3, Commits: 1, PullRequests: 0,
		InputTokens: 100, OutputTokens: 50, CacheReadTokens: 5, CacheCreationTokens: 0,
		EstimatedCostCents: 12,
	}
	got := *summary
	got.Date, got.Limits, got.LastUpdated = want.Date, want.Limits, want.LastUpdated
	if got != want {
		t.Fatalf("reduce = %+v, want %+v", got, want)
	}
}

func TestReduceDailyTreatsAbsentFieldsAsZero(t *testing.T) {
	records := []anthropic.DailyRecord{
		{},
		{CoreMetrics: &anthropic.CoreMetrics{}},
		{ModelBreakdown: []anthropic.ModelBreakdown{{}, {Tokens: &anthropic.TokenCounts{Input: i64(9)}}}},
	}

	summary := reduceDaily(records)

	if summary.InputTokens != 9 {
		t.Fatalf("input tokens = %d, want 9", summary.InputTokens)
	}
	if summary.Sessions != 0 || summary.EstimatedCostCents != 0 {
		t.Fatalf("expected zeroes for absent fields, got %+v", summary)
	}
}

func TestReduceDailyEmptyInput(t *testing.T) {
	summary := reduceDaily(nil)
	if *summary != (DailySummary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestReduceMonthlySumsCachedAndUncachedInput(t *testing.T) {
	buckets := []anthropic.MessagesBucket{
		{
			Results: []anthropic.MessagesResult{
				{UncachedInputTokens: i64(100), CacheReadInputTokens: i64(40), CacheCreationInputTokens: i64(10), OutputTokens: i64(25)},
				{UncachedInputTokens: i64(50), OutputTokens: i64(5)},
			},
		},
		{
			Results: []anthropic.MessagesResult{
				{CacheReadInputTokens: i64(200), OutputTokens: i64(70)},
			},
		},
		{},
	}

	summary := reduceMonthly(buckets)

	if summary.InputTokens != 400 {
		t.Fatalf("input tokens = %d, want 400", summary.InputTokens)
	}
	if summary.OutputTokens != 100 {
		t.Fatalf("output tokens = %d, want 100", summary.OutputTokens)
	}
}
