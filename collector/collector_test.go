package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cinfob09/Stats.cinfob/meta"
	"github.com/Cinfob09/Stats.cinfob/metrics"
	"github.com/Cinfob09/Stats.cinfob/models"
)

type fetchCall struct {
	scopeID   string
	metricIDs []string
	since     time.Time
	until     time.Time
	token     string
}

type fakeFetcher struct {
	mu       sync.Mutex
	calls    []fetchCall
	insights map[string][]meta.Insight
	errs     map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		insights: map[string][]meta.Insight{},
		errs:     map[string]error{},
	}
}

func (f *fakeFetcher) FetchInsights(_ context.Context, scopeID string, metricIDs []string, since, until time.Time, accessToken string) ([]meta.Insight, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{scopeID: scopeID, metricIDs: metricIDs, since: since, until: until, token: accessToken})
	f.mu.Unlock()

	if err, ok := f.errs[scopeID]; ok {
		return nil, err
	}
	return f.insights[scopeID], nil
}

func (f *fakeFetcher) callsFor(scopeID string) []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fetchCall
	for _, c := range f.calls {
		if c.scopeID == scopeID {
			out = append(out, c)
		}
	}
	return out
}

func insight(name string, values ...float64) meta.Insight {
	in := meta.Insight{Name: name, Period: "day"}
	for _, v := range values {
		in.Values = append(in.Values, meta.InsightValue{Value: v})
	}
	return in
}

func TestCollectSinglePageMetric(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.insights["page-1"] = []meta.Insight{insight("page_impressions", 120)}

	conn := models.Connection{ID: 1, PageID: "page-1", PageName: "c1", AccessToken: "tok-1"}

	res := New(fetcher).Collect(context.Background(), []models.Connection{conn}, []string{"page_impressions"})

	require.Empty(t, res.Failures)
	require.Len(t, res.Stats, 1)

	s := res.Stats[0]
	assert.Equal(t, uint(1), s.ConnectionID)
	assert.Equal(t, "facebook", s.Platform)
	assert.Equal(t, "page_impressions", s.MetricName)
	assert.Equal(t, float64(120), s.MetricValue)
	assert.Equal(t, 24*time.Hour, s.PeriodEnd.Sub(s.PeriodStart))

	calls := fetcher.callsFor("page-1")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"page_impressions"}, calls[0].metricIDs)
	assert.Equal(t, "tok-1", calls[0].token)
}

func TestCollectSkipsInstagramWithoutLinkedAccount(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.insights["page-1"] = []meta.Insight{insight("page_fans", 10)}

	conn := models.Connection{ID: 1, PageID: "page-1", AccessToken: "tok"}

	res := New(fetcher).Collect(context.Background(), []models.Connection{conn}, []string{"page_fans", "reach", "impressions"})

	require.Empty(t, res.Failures)
	require.Len(t, res.Stats, 1)
	assert.Equal(t, "facebook", res.Stats[0].Platform)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, "page-1", fetcher.calls[0].scopeID)
}

func TestCollectFetchesInstagramScope(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.insights["page-1"] = []meta.Insight{insight("page_fans", 10)}
	fetcher.insights["ig-1"] = []meta.Insight{insight("reach", 55)}

	conn := models.Connection{ID: 1, PageID: "page-1", AccessToken: "tok", InstagramAccountID: "ig-1"}

	res := New(fetcher).Collect(context.Background(), []models.Connection{conn}, []string{"page_fans", "reach"})

	require.Empty(t, res.Failures)
	require.Len(t, res.Stats, 2)

	byPlatform := map[string]models.SocialStat{}
	for _, s := range res.Stats {
		byPlatform[s.Platform] = s
	}
	assert.Equal(t, float64(10), byPlatform["facebook"].MetricValue)
	assert.Equal(t, float64(55), byPlatform["instagram"].MetricValue)

	igCalls := fetcher.callsFor("ig-1")
	require.Len(t, igCalls, 1)
	assert.Equal(t, []string{"reach"}, igCalls[0].metricIDs)
}

func TestCollectMissingValuesBecomeZero(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.insights["page-1"] = []meta.Insight{insight("page_impressions")}

	conn := models.Connection{ID: 1, PageID: "page-1", AccessToken: "tok"}

	res := New(fetcher).Collect(context.Background(), []models.Connection{conn}, []string{"page_impressions"})

	require.Len(t, res.Stats, 1)
	assert.Equal(t, float64(0), res.Stats[0].MetricValue)
}

func TestCollectPartialFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.insights["page-ok"] = []meta.Insight{insight("page_impressions", 7)}
	fetcher.errs["page-bad"] = &meta.APIError{Message: "Invalid token", Code: 190}

	conns := []models.Connection{
		{ID: 1, PageID: "page-ok", AccessToken: "good"},
		{ID: 2, PageID: "page-bad", AccessToken: "bad"},
	}

	res := New(fetcher).Collect(context.Background(), conns, []string{"page_impressions"})

	require.Len(t, res.Stats, 1)
	assert.Equal(t, uint(1), res.Stats[0].ConnectionID)

	require.Len(t, res.Failures, 1)
	f := res.Failures[0]
	assert.Equal(t, uint(2), f.ConnectionID)
	assert.Equal(t, metrics.PlatformFacebook, f.Platform)
	assert.Contains(t, f.Message, "Invalid token")
}

func TestCollectUnknownMetricsProduceNoCalls(t *testing.T) {
	fetcher := newFakeFetcher()

	conn := models.Connection{ID: 1, PageID: "page-1", AccessToken: "tok", InstagramAccountID: "ig-1"}

	res := New(fetcher).Collect(context.Background(), []models.Connection{conn}, []string{"no_such_metric"})

	assert.Empty(t, res.Stats)
	assert.Empty(t, res.Failures)
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Empty(t, fetcher.calls)
}
