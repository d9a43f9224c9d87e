package report

import (
	"context"
	"time"

	"github.com/caiqy/claude-usage-hub/internal/anthropic"
	log "github.com/sirupsen/logrus"
)

const (
	dailyRecordLimit = 1000
	dateLayout       = "2006-01-02"
)

// ReportClient is the slice of the Admin API client the fetcher needs.
type ReportClient interface {
	ClaudeCodeReport(ctx context.Context, startingAt string, limit int) ([]anthropic.DailyRecord, error)
	MessagesReport(ctx context.Context, startingAt, endingAt time.Time) ([]anthropic.MessagesBucket, error)
}

// SummaryStore persists a summary at a storage path, overwriting any prior
// value.
type SummaryStore interface {
	Put(ctx context.Context, path string, payload any) error
}

// Fetcher pulls a usage report, reduces it to a summary, and persists the
// result. All collaborators are injected; the fetcher holds no globals.
type Fetcher struct {
	client        ReportClient
	store         SummaryStore
	clock         func() time.Time
	dailyFallback FallbackPolicy
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithClock replaces the time source, mainly for tests.
func WithClock(clock func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithDailyFallback overrides the daily report's empty-result policy.
func WithDailyFallback(policy FallbackPolicy) FetcherOption {
	return func(f *Fetcher) {
		f.dailyFallback = policy
	}
}

// NewFetcher constructs a Fetcher over the given client and store.
func NewFetcher(client ReportClient, store SummaryStore, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:        client,
		store:         store,
		clock:         time.Now,
		dailyFallback: FallbackPreviousDay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchDaily queries the claude_code report for today, falling back once to
// yesterday when today has no records yet, reduces the records, and persists
// the summary at StatusPath.
func (f *Fetcher) FetchDaily(ctx context.Context) (*DailySummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	now := f.clock().UTC()
	today := now.Format(dateLayout)

	records, errFetch := f.client.ClaudeCodeReport(ctx, today, dailyRecordLimit)
	if errFetch != nil {
		return nil, errFetch
	}

	reportDate := today
	if len(records) == 0 && f.dailyFallback == FallbackPreviousDay {
		// Upstream reporting lags; an empty "today" usually means the data
		// is still attributed to the previous calendar day.
		yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
		reportDate = yesterday
		fallbackRecords, errFallback := f.client.ClaudeCodeReport(ctx, yesterday, dailyRecordLimit)
		if errFallback != nil {
			log.WithError(errFallback).Debug("usage fetch: previous-day fallback failed, continuing with empty data")
		} else {
			records = fallbackRecords
		}
	}

	summary := reduceDaily(records)
	summary.Date = reportDate
	summary.Limits = DailyLimits
	summary.LastUpdated = f.clock().UTC()

	if errPut := f.store.Put(ctx, StatusPath, summary); errPut != nil {
		return nil, errPut
	}
	log.Infof("usage fetch: daily summary stored (date=%s records=%d tokens=%d)",
		summary.Date, len(records), summary.InputTokens+summary.OutputTokens)
	return summary, nil
}

// FetchMonthly queries the messages report from the first calendar day of
// the current month through now, reduces the buckets, and persists the
// summary at StatusPath. An empty result set yields a zero-valued summary;
// there is no fallback.
func (f *Fetcher) FetchMonthly(ctx context.Context) (*MonthlySummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	now := f.clock().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets, errFetch := f.client.MessagesReport(ctx, monthStart, now)
	if errFetch != nil {
		return nil, errFetch
	}

	summary := reduceMonthly(buckets)
	summary.StartingAt = monthStart
	summary.EndingAt = now
	summary.Limits = MonthlyLimits
	summary.LastUpdated = f.clock().UTC()

	if errPut := f.store.Put(ctx, StatusPath, summary); errPut != nil {
		return nil, errPut
	}
	log.Infof("usage fetch: monthly summary stored (buckets=%d tokens=%d)",
		len(buckets), summary.InputTokens+summary.OutputTokens)
	return summary, nil
}

// reduceDaily sums every record's core metrics and every model entry's token
// and cost fields. Absent nested fields count as zero; the reduction is
// total over any record shape.
func reduceDaily(records []anthropic.DailyRecord) *DailySummary {
	summary := &DailySummary{}
	for _, record := range records {
		if core := record.CoreMetrics; core != nil {
			summary.Sessions += int64Of(core.NumSessions)
			summary.Commits += int64Of(core.CommitsByClaudeCode)
			summary.PullRequests += int64Of(core.PullRequestsByClaudeCode)
			if lines := core.LinesOfCode; lines != nil {
				summary.LinesAdded += int64Of(lines.Added)
				summary.LinesRemoved += int64Of(lines.Removed)
			}
		}
		for _, entry := range record.ModelBreakdown {
			if tokens := entry.Tokens; tokens != nil {
				summary.InputTokens += int64Of(tokens.Input)
				summary.OutputTokens += int64Of(tokens.Output)
				summary.CacheReadTokens += int64Of(tokens.CacheRead)
				summary.CacheCreationTokens += int64Of(tokens.CacheCreation)
			}
			if cost := entry.EstimatedCost; cost != nil {
				summary.EstimatedCostCents += float64Of(cost.Amount)
			}
		}
	}
	return summary
}

// reduceMonthly sums cached plus uncached input tokens and output tokens
// across every result of every bucket.
func reduceMonthly(buckets []anthropic.MessagesBucket) *MonthlySummary {
	summary := &MonthlySummary{}
	for _, bucket := range buckets {
		for _, result := range bucket.Results {
			summary.InputTokens += int64Of(result.UncachedInputTokens)
			summary.InputTokens += int64Of(result.CacheReadInputTokens)
			summary.InputTokens += int64Of(result.CacheCreationInputTokens)
			summary.OutputTokens += int64Of(result.OutputTokens)
		}
	}
	return summary
}

// int64Of returns *p, or zero when p is nil.
func int64Of(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// float64Of returns *p, or zero when p is nil.
func float64Of(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
