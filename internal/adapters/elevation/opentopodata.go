package elevation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
)

// MaxBatchSize is the most locations the OpenTopoData API accepts per call.
const MaxBatchSize = 100

// OpenTopoDataConfig configures the remote DEM client.
type OpenTopoDataConfig struct {
	URL       string
	Dataset   string
	BatchSize int
	Timeout   time.Duration
	Retries   int
	Backoff   Backoff
}

// OpenTopoData implements ports.ElevationProvider against an OpenTopoData
// compatible API (GET /v1/{dataset}?locations=lat,lon|lat,lon).
type OpenTopoData struct {
	cfg    OpenTopoDataConfig
	client *fasthttp.Client
}

type otdResponse struct {
	Status  string      `json:"status"`
	Error   string      `json:"error"`
	Results []otdResult `json:"results"`
}

type otdResult struct {
	Dataset   string   `json:"dataset"`
	Elevation *float64 `json:"elevation"`
	Location  struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// statusError is a non-200 upstream response.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.status, e.body)
}

func (e *statusError) retryable() bool {
	return e.status == fasthttp.StatusTooManyRequests || e.status >= 500
}

// NewOpenTopoData creates a client. Zero fields take sensible defaults.
func NewOpenTopoData(cfg OpenTopoDataConfig) *OpenTopoData {
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff.Base <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return &OpenTopoData{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:                "rrlprofile",
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

func (o *OpenTopoData) Name() string { return "opentopodata:" + o.cfg.Dataset }

// Resolve fetches elevations in batches, preserving input order.
func (o *OpenTopoData) Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	out := make([]domain.ElevationPoint, 0, len(points))
	for start := 0; start < len(points); start += o.cfg.BatchSize {
		end := start + o.cfg.BatchSize
		if end > len(points) {
			end = len(points)
		}
		batch, err := o.fetchWithRetry(ctx, points[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (o *OpenTopoData) fetchWithRetry(ctx context.Context, batch []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	log := logging.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= o.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := o.cfg.Backoff.Wait(ctx, attempt); err != nil {
				return nil, domain.ElevationError(err, "elevation lookup cancelled")
			}
			log.Debug("retrying elevation batch", "attempt", attempt, "error", lastErr)
		}

		result, err := o.fetch(ctx, batch)
		if err == nil {
			return result, nil
		}
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
	}
	return nil, domain.ElevationError(lastErr, "elevation service unavailable").
		WithDetail("provider", o.Name())
}

func (o *OpenTopoData) fetch(ctx context.Context, batch []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(o.cfg.URL + "/v1/" + o.cfg.Dataset)
	req.URI().QueryArgs().Add("locations", encodeLocations(batch))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(o.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := o.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("elevation request: %w", err)
	}

	body := resp.Body()
	var payload otdResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode() != fasthttp.StatusOK {
			return nil, &statusError{status: resp.StatusCode(), body: truncate(string(body), 200)}
		}
		return nil, fmt.Errorf("decode elevation response: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK || payload.Status != "OK" {
		msg := payload.Error
		if msg == "" {
			msg = payload.Status
		}
		return nil, &statusError{status: resp.StatusCode(), body: msg}
	}

	if len(payload.Results) != len(batch) {
		return nil, domain.ElevationError(nil, "elevation service returned %d results for %d locations", len(payload.Results), len(batch))
	}

	out := make([]domain.ElevationPoint, len(batch))
	for i, r := range payload.Results {
		if r.Elevation == nil {
			return nil, domain.ElevationError(nil, "no elevation coverage at %.5f,%.5f", batch[i].Lat, batch[i].Lon).
				WithDetail("dataset", o.cfg.Dataset)
		}
		out[i] = domain.ElevationPoint{Lat: batch[i].Lat, Lon: batch[i].Lon, Elevation: *r.Elevation}
	}
	return out, nil
}

func encodeLocations(points []domain.GeoPoint) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Lon, 'f', 6, 64))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
