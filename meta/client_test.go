package meta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchInsights(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/page-1/insights", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"metric":       q.Get("metric"),
			"period":       q.Get("period"),
			"access_token": q.Get("access_token"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"name":"page_impressions","period":"day","values":[{"value":120}]},
			{"name":"page_fans","period":"day","values":[]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	until := time.Now()
	since := until.Add(-24 * time.Hour)

	insights, err := c.FetchInsights(context.Background(), "page-1", []string{"page_impressions", "page_fans"}, since, until, "tok")
	require.NoError(t, err)

	assert.Equal(t, "page_impressions,page_fans", gotQuery["metric"])
	assert.Equal(t, "day", gotQuery["period"])
	assert.Equal(t, "tok", gotQuery["access_token"])

	require.Len(t, insights, 2)
	assert.Equal(t, float64(120), insights[0].FirstValue())
	assert.Equal(t, float64(0), insights[1].FirstValue())
	assert.NotEmpty(t, insights[0].Raw)
}

func TestFetchInsightsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchInsights(context.Background(), "page-1", []string{"page_impressions"}, time.Now().Add(-24*time.Hour), time.Now(), "bad")

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "Invalid token", apiErr.Message)
	assert.Equal(t, 190, apiErr.Code)
}

func TestFetchInsightsErrorEnvelopeOnOK(t *testing.T) {
	// The Graph API sometimes reports errors with a 200 status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"(#100) Invalid metric","code":100}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchInsights(context.Background(), "page-1", []string{"bogus"}, time.Now().Add(-24*time.Hour), time.Now(), "tok")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid metric")
}

func TestFetchPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/accounts", r.URL.Path)
		assert.Equal(t, "user-tok", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"data":[
			{"id":"p1","name":"Main Page","access_token":"page-tok","instagram_business_account":{"id":"ig1","username":"main.page"}},
			{"id":"p2","name":"Second Page","access_token":"page-tok-2"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	pages, err := c.FetchPages(context.Background(), "user-tok")
	require.NoError(t, err)
	require.Len(t, pages, 2)

	require.NotNil(t, pages[0].Instagram)
	assert.Equal(t, "ig1", pages[0].Instagram.ID)
	assert.Equal(t, "main.page", pages[0].Instagram.Username)
	assert.Nil(t, pages[1].Instagram)
}

func TestNewClientDefaultBase(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultGraphBaseURL, c.baseURL)
}
