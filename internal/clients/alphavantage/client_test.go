package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockfolio/internal/models"
	"github.com/bobmcallan/stockfolio/internal/ratelimit"
)

type testClock struct {
	mu    sync.Mutex
	t     time.Time
	slept []time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	c.slept = append(c.slept, d)
	return nil
}

func (c *testClock) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) (*Client, *testClock, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	clk := &testClock{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
	cd := ratelimit.NewCooldown(15*time.Second, ratelimit.WithClock(clk.Now), ratelimit.WithSleep(clk.Sleep))
	return NewClient(apiKey, WithBaseURL(srv.URL), WithCooldown(cd)), clk, &calls
}

func writeBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestFetchPrice_Success(t *testing.T) {
	var mu sync.Mutex
	var gotQuery map[string]string
	handler := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mu.Lock()
		defer mu.Unlock()
		gotQuery = map[string]string{
			"function": q.Get("function"),
			"symbol":   q.Get("symbol"),
			"apikey":   q.Get("apikey"),
		}
		writeBody(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "187.4500", "07. latest trading day": "2026-03-02"}}`)(w, r)
	}
	client, _, calls := newTestClient(t, handler, "demo-key")

	price, err := client.FetchPrice(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, 187.45, price)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]string{"function": "GLOBAL_QUOTE", "symbol": "AAPL", "apikey": "demo-key"}, gotQuery)
}

func TestFetchPrice_Unconfigured_NoNetworkCall(t *testing.T) {
	client, clk, calls := newTestClient(t, writeBody(`{}`), "  ")

	assert.False(t, client.Configured())
	_, err := client.FetchPrice(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, models.IsFetchKind(err, models.FetchUnconfigured))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Zero(t, clk.Total())
}

func TestFetchPrice_NoteIsThrottled(t *testing.T) {
	body := `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`
	client, _, _ := newTestClient(t, writeBody(body), "key")

	_, err := client.FetchPrice(context.Background(), "MSFT")
	require.Error(t, err)
	assert.Equal(t, models.FetchThrottled, models.FetchErrorKindOf(err))
	assert.Contains(t, err.Error(), "MSFT")
}

func TestFetchPrice_InformationIsThrottled(t *testing.T) {
	client, _, _ := newTestClient(t, writeBody(`{"Information": "daily rate limit reached"}`), "key")

	_, err := client.FetchPrice(context.Background(), "MSFT")
	assert.True(t, models.IsFetchKind(err, models.FetchThrottled))
}

func TestFetchPrice_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"empty quote", `{"Global Quote": {}}`},
		{"missing quote", `{"Meta": "x"}`},
		{"non numeric", `{"Global Quote": {"05. price": "N/A"}}`},
		{"zero price", `{"Global Quote": {"05. price": "0.0000"}}`},
		{"negative price", `{"Global Quote": {"05. price": "-3.2"}}`},
		{"error message", `{"Error Message": "Invalid API call."}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, writeBody(tt.body), "key")
			_, err := client.FetchPrice(context.Background(), "XYZ")
			require.Error(t, err)
			assert.Equal(t, models.FetchMalformed, models.FetchErrorKindOf(err))
		})
	}
}

func TestFetchPrice_HTTPErrorIsTransport(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}
	client, _, _ := newTestClient(t, handler, "key")

	_, err := client.FetchPrice(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.FetchTransport, models.FetchErrorKindOf(err))
	assert.True(t, IsAPIError(err))
}

func TestFetchPrice_ConnectionFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cd := ratelimit.NewCooldown(15 * time.Second)
	client := NewClient("key", WithBaseURL(url), WithCooldown(cd), WithTimeout(time.Second))

	_, err := client.FetchPrice(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.FetchTransport, models.FetchErrorKindOf(err))
	// a failed send does not start the cooldown
	assert.Zero(t, cd.Delay())
}

func TestFetchPrice_CooldownSpacesConsecutiveCalls(t *testing.T) {
	var mu sync.Mutex
	var seen []time.Time
	var clk *testClock
	handler := func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, clk.Now())
		mu.Unlock()
		writeBody(`{"Global Quote": {"05. price": "10.00"}}`)(w, r)
	}
	client, c, calls := newTestClient(t, handler, "key")
	clk = c

	ctx := context.Background()
	for _, symbol := range []string{"AAPL", "MSFT", "GOOGL"} {
		_, err := client.FetchPrice(ctx, symbol)
		require.NoError(t, err, symbol)
	}

	require.Equal(t, int32(3), atomic.LoadInt32(calls))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	for i := 1; i < len(seen); i++ {
		gap := seen[i].Sub(seen[i-1])
		assert.InDelta(t, float64(15*time.Second), float64(gap), float64(time.Millisecond), "gap %d", i)
	}
}

func TestFetchPrice_ThrottledResponseStillStartsCooldown(t *testing.T) {
	client, clk, _ := newTestClient(t, writeBody(`{"Note": "slow down"}`), "key")
	ctx := context.Background()

	_, _ = client.FetchPrice(ctx, "AAPL")
	_, _ = client.FetchPrice(ctx, "MSFT")

	assert.InDelta(t, float64(15*time.Second), float64(clk.Total()), float64(time.Millisecond))
}

func TestFetchPrice_CancelledContext(t *testing.T) {
	client, _, calls := newTestClient(t, writeBody(`{"Global Quote": {"05. price": "1"}}`), "key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPrice(ctx, "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.FetchTransport, models.FetchErrorKindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}
