// Package collector runs one statistics collection pass over a set of
// connections, turning provider insight entries into normalized stat rows.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/Cinfob09/Stats.cinfob/meta"
	"github.com/Cinfob09/Stats.cinfob/metrics"
	"github.com/Cinfob09/Stats.cinfob/models"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

// Fetcher is the provider call the orchestrator depends on. *meta.Client
// satisfies it.
type Fetcher interface {
	FetchInsights(ctx context.Context, scopeID string, metricIDs []string, since, until time.Time, accessToken string) ([]meta.Insight, error)
}

// ScopeFailure records one failed connection/platform fetch. Failures are
// non-fatal: collection continues for every other scope.
type ScopeFailure struct {
	ConnectionID uint             `json:"connection_id"`
	Platform     metrics.Platform `json:"platform"`
	Message      string           `json:"message"`
}

// Result aggregates a collection run: every stat from the scopes that
// succeeded plus the list of scopes that did not.
type Result struct {
	Stats    []models.SocialStat
	Failures []ScopeFailure
}

// Orchestrator fans a metric selection out over connections, one provider
// request per platform per connection.
type Orchestrator struct {
	fetcher Fetcher
}

// New creates an Orchestrator backed by the given provider client.
func New(f Fetcher) *Orchestrator {
	return &Orchestrator{fetcher: f}
}

// Collect fetches the selected metrics for every connection over the prior
// full day, [now-24h, now). Connections are fetched concurrently; within one
// connection the Facebook fetch precedes the Instagram fetch. A connection
// without a linked Instagram account never produces Instagram stats, whatever
// the selection contains.
func (o *Orchestrator) Collect(ctx context.Context, conns []models.Connection, metricIDs []string) Result {
	until := time.Now()
	since := until.Add(-24 * time.Hour)

	fbMetrics := metrics.Partition(metricIDs, metrics.PlatformFacebook)
	igMetrics := metrics.Partition(metricIDs, metrics.PlatformInstagram)

	var (
		mu  sync.Mutex
		res Result
		wg  sync.WaitGroup
	)

	for i := range conns {
		conn := conns[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			if len(fbMetrics) > 0 {
				o.fetchScope(ctx, &mu, &res, conn, metrics.PlatformFacebook, conn.PageID, fbMetrics, since, until)
			}
			if conn.InstagramAccountID != "" && len(igMetrics) > 0 {
				o.fetchScope(ctx, &mu, &res, conn, metrics.PlatformInstagram, conn.InstagramAccountID, igMetrics, since, until)
			}
		}()
	}
	wg.Wait()

	return res
}

// fetchScope performs one provider request and folds its outcome into res.
func (o *Orchestrator) fetchScope(ctx context.Context, mu *sync.Mutex, res *Result, conn models.Connection, platform metrics.Platform, scopeID string, metricIDs []string, since, until time.Time) {
	insights, err := o.fetcher.FetchInsights(ctx, scopeID, metricIDs, since, until, conn.AccessToken)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("insights fetch failed connection=%d platform=%s err=%v", conn.ID, platform, err)
		}
		mu.Lock()
		res.Failures = append(res.Failures, ScopeFailure{
			ConnectionID: conn.ID,
			Platform:     platform,
			Message:      err.Error(),
		})
		mu.Unlock()
		return
	}

	stats := make([]models.SocialStat, 0, len(insights))
	for _, in := range insights {
		stats = append(stats, models.SocialStat{
			ConnectionID: conn.ID,
			Platform:     string(platform),
			MetricName:   in.Name,
			MetricValue:  in.FirstValue(),
			PeriodStart:  since,
			PeriodEnd:    until,
			RawPayload:   string(in.Raw),
		})
	}

	mu.Lock()
	res.Stats = append(res.Stats, stats...)
	mu.Unlock()
}
