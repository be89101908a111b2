package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/core/profile"
	"github.com/samirrijal/rrlprofile/internal/core/usecases"
)

// --- Mock PathSampler ---

type mockSampler struct {
	sampleFn func(a, b domain.GeoPoint, step float64) ([]domain.ProfilePoint, error)
}

func (m *mockSampler) Sample(a, b domain.GeoPoint, step float64) ([]domain.ProfilePoint, error) {
	if m.sampleFn != nil {
		return m.sampleFn(a, b, step)
	}
	return linearPoints(a, b, 11, 1000), nil
}

// linearPoints spaces n points over total meters between a and b.
func linearPoints(a, b domain.GeoPoint, n int, total float64) []domain.ProfilePoint {
	points := make([]domain.ProfilePoint, n)
	for i := range points {
		f := float64(i) / float64(n-1)
		points[i] = domain.ProfilePoint{
			Index:          i,
			Lat:            a.Lat + f*(b.Lat-a.Lat),
			Lon:            a.Lon + f*(b.Lon-a.Lon),
			DistanceMeters: f * total,
		}
	}
	return points
}

// --- Mock ElevationProvider ---

type mockElevation struct {
	resolveFn func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error)
}

func (m *mockElevation) Name() string { return "mock" }

func (m *mockElevation) Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, points)
	}
	return flat(points, 100), nil
}

func flat(points []domain.GeoPoint, h float64) []domain.ElevationPoint {
	out := make([]domain.ElevationPoint, len(points))
	for i, p := range points {
		out[i] = domain.ElevationPoint{Lat: p.Lat, Lon: p.Lon, Elevation: h}
	}
	return out
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	computed []*domain.ProfileComputedEvent
	failed   []*domain.ProfileFailedEvent
	jobs     []*domain.ProfileJob
	err      error
}

func (m *mockPublisher) PublishProfileComputed(ctx context.Context, e *domain.ProfileComputedEvent) error {
	m.computed = append(m.computed, e)
	return m.err
}

func (m *mockPublisher) PublishProfileFailed(ctx context.Context, e *domain.ProfileFailedEvent) error {
	m.failed = append(m.failed, e)
	return m.err
}

func (m *mockPublisher) PublishProfileJob(ctx context.Context, j *domain.ProfileJob) error {
	m.jobs = append(m.jobs, j)
	return m.err
}

func validRequest() domain.ProfileRequest {
	return domain.ProfileRequest{
		A:          domain.GeoPoint{Lat: 43.0, Lon: -2.9},
		B:          domain.GeoPoint{Lat: 43.009, Lon: -2.9},
		AntennaA:   30,
		AntennaB:   20,
		FreqGHz:    18,
		KFactor:    1.33,
		StepMeters: 100,
	}
}

func newService(s *mockSampler, e *mockElevation, p *mockPublisher) *usecases.ProfileService {
	defaults := usecases.ProfileDefaults{KFactor: 1.33, StepMeters: 50}
	if p == nil {
		// Avoid a typed nil inside the interface.
		return usecases.NewProfileService(s, e, nil, profile.DefaultLimits(), defaults)
	}
	return usecases.NewProfileService(s, e, p, profile.DefaultLimits(), defaults)
}

func TestProfileService_Compute(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(&mockSampler{}, &mockElevation{}, pub)

	result, err := svc.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.ElevationProvider != "mock" {
		t.Errorf("expected provider mock, got %q", result.ElevationProvider)
	}
	if !result.Summary.LOSOk || !result.Summary.FresnelOk {
		t.Errorf("expected flat terrain to clear, got %+v", result.Summary)
	}
	if len(pub.computed) != 1 {
		t.Fatalf("expected 1 computed event, got %d", len(pub.computed))
	}
	if pub.computed[0].RunID == "" || pub.computed[0].Samples != 11 {
		t.Errorf("unexpected event %+v", pub.computed[0])
	}
}

func TestProfileService_Compute_PublishFailureIsIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := newService(&mockSampler{}, &mockElevation{}, pub)

	if _, err := svc.Compute(context.Background(), validRequest()); err != nil {
		t.Fatalf("expected publish failure to be ignored, got %v", err)
	}
}

func TestProfileService_Compute_ValidationSkipsElevation(t *testing.T) {
	called := false
	elev := &mockElevation{
		resolveFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
			called = true
			return nil, nil
		},
	}
	svc := newService(&mockSampler{}, elev, nil)

	req := validRequest()
	req.FreqGHz = 0
	_, err := svc.Compute(context.Background(), req)
	if domain.CodeOf(err) != domain.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("elevation provider must not be called for invalid input")
	}
}

func TestProfileService_Compute_ElevationFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	elev := &mockElevation{
		resolveFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
			return nil, upstream
		},
	}
	svc := newService(&mockSampler{}, elev, nil)

	_, err := svc.Compute(context.Background(), validRequest())
	if domain.CodeOf(err) != domain.CodeElevation {
		t.Fatalf("expected elevation error, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Error("expected upstream error to be wrapped")
	}
}

func TestProfileService_Compute_ElevationCountMismatch(t *testing.T) {
	elev := &mockElevation{
		resolveFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
			return flat(points[:len(points)-1], 100), nil
		},
	}
	svc := newService(&mockSampler{}, elev, nil)

	_, err := svc.Compute(context.Background(), validRequest())
	if domain.CodeOf(err) != domain.CodeCalculation {
		t.Fatalf("expected calculation error, got %v", err)
	}
}

func TestProfileService_Compute_SamplerFailure(t *testing.T) {
	sampler := &mockSampler{
		sampleFn: func(a, b domain.GeoPoint, step float64) ([]domain.ProfilePoint, error) {
			return nil, errors.New("boom")
		},
	}
	svc := newService(sampler, &mockElevation{}, nil)

	_, err := svc.Compute(context.Background(), validRequest())
	if domain.CodeOf(err) != domain.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestProfileService_Submit(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(&mockSampler{}, &mockElevation{}, pub)

	job, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Error("expected job id")
	}
	if len(pub.jobs) != 1 || pub.jobs[0].ID != job.ID {
		t.Errorf("expected job to be published, got %+v", pub.jobs)
	}

	bad := validRequest()
	bad.B = bad.A
	if _, err := svc.Submit(context.Background(), bad); domain.CodeOf(err) != domain.CodeValidation {
		t.Errorf("expected validation error for degenerate path, got %v", err)
	}
	if len(pub.jobs) != 1 {
		t.Error("invalid job must not be published")
	}
}

func TestProfileService_Submit_NoQueue(t *testing.T) {
	svc := newService(&mockSampler{}, &mockElevation{}, nil)
	if _, err := svc.Submit(context.Background(), validRequest()); domain.CodeOf(err) != domain.CodeInternal {
		t.Errorf("expected internal error without a queue, got %v", err)
	}
}

func TestProfileService_ComputeJob(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(&mockSampler{}, &mockElevation{}, pub)

	job := &domain.ProfileJob{ID: "job-1", Request: validRequest()}
	if err := svc.ComputeJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.computed) != 1 || pub.computed[0].JobID != "job-1" {
		t.Fatalf("expected computed event for job-1, got %+v", pub.computed)
	}

	bad := &domain.ProfileJob{ID: "job-2", Request: validRequest()}
	bad.Request.StepMeters = -1
	if err := svc.ComputeJob(context.Background(), bad); err != nil {
		t.Fatalf("domain failures must not be returned, got %v", err)
	}
	if len(pub.failed) != 1 {
		t.Fatalf("expected 1 failed event, got %d", len(pub.failed))
	}
	if pub.failed[0].JobID != "job-2" || pub.failed[0].Code != domain.CodeValidation {
		t.Errorf("unexpected failed event %+v", pub.failed[0])
	}
}

func TestProfileService_Compute_ExplicitZeroKFactorIsRejected(t *testing.T) {
	called := false
	elev := &mockElevation{resolveFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
		called = true
		return flat(points, 100), nil
	}}
	svc := newService(&mockSampler{}, elev, nil)

	for _, mutate := range []func(*domain.ProfileRequest){
		func(r *domain.ProfileRequest) { r.KFactor = 0 },
		func(r *domain.ProfileRequest) { r.StepMeters = 0 },
	} {
		req := validRequest()
		mutate(&req)
		_, err := svc.Compute(context.Background(), req)
		if code := domain.CodeOf(err); code != domain.CodeValidation {
			t.Errorf("expected %s, got %v", domain.CodeValidation, err)
		}
	}
	if called {
		t.Error("elevation must not be fetched for a rejected request")
	}
}
