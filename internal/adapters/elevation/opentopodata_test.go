package elevation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// fakeOTD answers like OpenTopoData, with elevation = 100 + lat.
func fakeOTD(t *testing.T, failures int32, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= failures {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"status":"SERVER_ERROR","error":"overloaded"}`)
			return
		}
		if r.URL.Path != "/v1/srtm30m" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":"INVALID_REQUEST","error":"unknown dataset"}`)
			return
		}
		var results []string
		for _, loc := range strings.Split(r.URL.Query().Get("locations"), "|") {
			var lat, lon float64
			fmt.Sscanf(loc, "%f,%f", &lat, &lon)
			if lat > 80 {
				results = append(results, fmt.Sprintf(`{"dataset":"srtm30m","elevation":null,"location":{"lat":%f,"lng":%f}}`, lat, lon))
				continue
			}
			results = append(results, fmt.Sprintf(`{"dataset":"srtm30m","elevation":%f,"location":{"lat":%f,"lng":%f}}`, 100+lat, lat, lon))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"OK","results":[%s]}`, strings.Join(results, ","))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testPoints(n int) []domain.GeoPoint {
	points := make([]domain.GeoPoint, n)
	for i := range points {
		points[i] = domain.GeoPoint{Lat: float64(i) * 0.1, Lon: -2.9}
	}
	return points
}

func newTestClient(url string, batch, retries int) *OpenTopoData {
	return NewOpenTopoData(OpenTopoDataConfig{
		URL:       url,
		Dataset:   "srtm30m",
		BatchSize: batch,
		Timeout:   2 * time.Second,
		Retries:   retries,
		Backoff:   Backoff{Base: time.Millisecond, Max: 5 * time.Millisecond},
	})
}

func TestOpenTopoData_BatchesPreserveOrder(t *testing.T) {
	srv, calls := fakeOTD(t, 0, 0)
	client := newTestClient(srv.URL, 4, 0)

	points := testPoints(10)
	elevations, err := client.Resolve(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, elevations, 10)

	for i, e := range elevations {
		assert.InDelta(t, 100+points[i].Lat, e.Elevation, 1e-6)
		assert.Equal(t, points[i].Lat, e.Lat)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, "opentopodata:srtm30m", client.Name())
}

func TestOpenTopoData_RetriesServerErrors(t *testing.T) {
	srv, calls := fakeOTD(t, 2, http.StatusServiceUnavailable)
	client := newTestClient(srv.URL, 100, 2)

	_, err := client.Resolve(context.Background(), testPoints(3))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestOpenTopoData_GivesUpAfterRetries(t *testing.T) {
	srv, calls := fakeOTD(t, 10, http.StatusTooManyRequests)
	client := newTestClient(srv.URL, 100, 1)

	_, err := client.Resolve(context.Background(), testPoints(3))
	require.Error(t, err)
	assert.Equal(t, domain.CodeElevation, domain.CodeOf(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestOpenTopoData_ClientErrorIsNotRetried(t *testing.T) {
	srv, calls := fakeOTD(t, 10, http.StatusBadRequest)
	client := newTestClient(srv.URL, 100, 3)

	_, err := client.Resolve(context.Background(), testPoints(3))
	assert.Equal(t, domain.CodeElevation, domain.CodeOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestOpenTopoData_NullElevation(t *testing.T) {
	srv, _ := fakeOTD(t, 0, 0)
	client := newTestClient(srv.URL, 100, 0)

	_, err := client.Resolve(context.Background(), []domain.GeoPoint{{Lat: 85, Lon: 0}})
	require.Error(t, err)
	assert.Equal(t, domain.CodeElevation, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "no elevation coverage")
}

func TestOpenTopoData_Cancelled(t *testing.T) {
	srv, _ := fakeOTD(t, 10, http.StatusServiceUnavailable)
	client := NewOpenTopoData(OpenTopoDataConfig{
		URL: srv.URL, Dataset: "srtm30m", Retries: 5,
		Backoff: Backoff{Base: time.Second, Max: time.Second},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Resolve(ctx, testPoints(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestEncodeLocations(t *testing.T) {
	got := encodeLocations([]domain.GeoPoint{{Lat: 43.1, Lon: -2.9}, {Lat: -1, Lon: 2}})
	assert.Equal(t, "43.100000,-2.900000|-1.000000,2.000000", got)
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second}

	d1 := b.Delay(1)
	assert.GreaterOrEqual(t, d1, 100*time.Millisecond)
	assert.Less(t, d1, 111*time.Millisecond)

	d3 := b.Delay(3)
	assert.GreaterOrEqual(t, d3, 400*time.Millisecond)

	capped := b.Delay(20)
	assert.GreaterOrEqual(t, capped, time.Second)
	assert.LessOrEqual(t, capped, 1100*time.Millisecond)
}
