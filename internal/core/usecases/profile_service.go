package usecases

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/core/ports"
	"github.com/samirrijal/rrlprofile/internal/core/profile"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/pkg/metrics"
	"github.com/samirrijal/rrlprofile/internal/pkg/telemetry"
)

// ProfileDefaults fills optional request fields.
type ProfileDefaults = domain.RequestDefaults

// ProfileService runs the path-profile pipeline: validate, sample, resolve
// elevations, compute, publish.
type ProfileService struct {
	sampler   ports.PathSampler
	elevation ports.ElevationProvider
	publisher ports.EventPublisher
	limits    profile.Limits
	defaults  ProfileDefaults
	now       func() time.Time
}

// NewProfileService creates a new ProfileService. publisher may be nil.
func NewProfileService(
	sampler ports.PathSampler,
	elevation ports.ElevationProvider,
	publisher ports.EventPublisher,
	limits profile.Limits,
	defaults ProfileDefaults,
) *ProfileService {
	return &ProfileService{
		sampler:   sampler,
		elevation: elevation,
		publisher: publisher,
		limits:    limits,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Defaults returns the values used for omitted kFactor and stepMeters.
func (s *ProfileService) Defaults() ProfileDefaults {
	return s.defaults
}

// ElevationProvider names the configured terrain source.
func (s *ProfileService) ElevationProvider() string {
	return s.elevation.Name()
}

// Compute builds the profile for one hop and announces it.
func (s *ProfileService) Compute(ctx context.Context, req domain.ProfileRequest) (*domain.ProfileResult, error) {
	result, err := s.run(ctx, req, "")
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Submit validates a request and queues it for asynchronous computation.
func (s *ProfileService) Submit(ctx context.Context, req domain.ProfileRequest) (*domain.ProfileJob, error) {
	if s.publisher == nil {
		return nil, domain.InternalError(nil, "job queue is not configured")
	}
	if err := profile.ValidateRequest(req, s.limits); err != nil {
		return nil, err
	}

	job := &domain.ProfileJob{
		ID:          uuid.NewString(),
		Request:     req,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.publisher.PublishProfileJob(ctx, job); err != nil {
		return nil, domain.InternalError(err, "enqueue profile job")
	}
	logging.FromContext(ctx).Info("profile job queued", "job_id", job.ID)
	return job, nil
}

// ComputeJob runs a queued job and publishes its outcome. Domain failures
// are reported as ProfileFailed events and do not return an error, so the
// job is not redelivered. Only publish failures are returned.
func (s *ProfileService) ComputeJob(ctx context.Context, job *domain.ProfileJob) error {
	log := logging.FromContext(ctx).With("job_id", job.ID)

	_, err := s.run(ctx, job.Request, job.ID)
	if err == nil {
		return nil
	}

	derr, ok := domain.AsError(err)
	if !ok {
		derr = domain.InternalError(err, "compute job")
	}
	log.Warn("profile job failed", "code", derr.Code, "error", derr.Message)

	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishProfileFailed(ctx, &domain.ProfileFailedEvent{
		JobID:    job.ID,
		Code:     derr.Code,
		Message:  derr.Message,
		FailedAt: s.now().UTC(),
	})
}

func (s *ProfileService) run(ctx context.Context, req domain.ProfileRequest, jobID string) (*domain.ProfileResult, error) {
	runID := uuid.NewString()
	ctx, span := telemetry.Tracer().Start(ctx, "profile.compute", trace.WithAttributes(
		attribute.String(telemetry.AttrRunID, runID),
		attribute.Float64(telemetry.AttrFreqGHz, req.FreqGHz),
		attribute.Float64(telemetry.AttrKFactor, req.KFactor),
		attribute.Float64(telemetry.AttrStepMeters, req.StepMeters),
	))
	defer span.End()
	if jobID != "" {
		span.SetAttributes(attribute.String(telemetry.AttrJobID, jobID))
	}

	log := logging.FromContext(ctx).With("run_id", runID)

	result, err := s.pipeline(ctx, req)
	if err != nil {
		code := domain.CodeOf(err)
		metrics.ProfileFailures.WithLabelValues(string(code)).Inc()
		span.SetAttributes(attribute.String(telemetry.AttrErrorCode, string(code)))
		span.SetStatus(codes.Error, err.Error())
		if code == domain.CodeInternal || code == domain.CodeElevation {
			log.Error("profile failed", "code", code, "error", err)
		} else {
			log.Debug("profile rejected", "code", code, "error", err)
		}
		if _, ok := domain.AsError(err); !ok {
			return nil, domain.InternalError(err, "compute profile")
		}
		return nil, err
	}

	summary := result.Summary
	span.SetAttributes(
		attribute.Int(telemetry.AttrSamples, len(result.Samples)),
		attribute.Float64(telemetry.AttrDistanceMeters, summary.DistanceMeters),
		attribute.String(telemetry.AttrElevationProvider, result.ElevationProvider),
		attribute.Bool(telemetry.AttrLOSOk, summary.LOSOk),
		attribute.Bool(telemetry.AttrFresnelOk, summary.FresnelOk),
	)
	metrics.ProfilesComputed.WithLabelValues(
		strconv.FormatBool(summary.LOSOk),
		strconv.FormatBool(summary.FresnelOk),
	).Inc()
	metrics.ProfileSamples.Observe(float64(len(result.Samples)))

	log.Info("profile computed",
		"samples", len(result.Samples),
		"distance_m", summary.DistanceMeters,
		"los_ok", summary.LOSOk,
		"fresnel_ok", summary.FresnelOk,
		"min_clearance60", summary.MinClearance60,
		"provider", result.ElevationProvider,
	)

	if s.publisher != nil {
		event := &domain.ProfileComputedEvent{
			RunID:             runID,
			JobID:             jobID,
			A:                 req.A,
			B:                 req.B,
			FreqGHz:           req.FreqGHz,
			Samples:           len(result.Samples),
			Summary:           summary,
			ElevationProvider: result.ElevationProvider,
			ComputedAt:        s.now().UTC(),
		}
		if err := s.publisher.PublishProfileComputed(ctx, event); err != nil {
			log.Warn("publish profile computed", "error", err)
		}
	}

	return result, nil
}

func (s *ProfileService) pipeline(ctx context.Context, req domain.ProfileRequest) (*domain.ProfileResult, error) {
	if err := profile.ValidateRequest(req, s.limits); err != nil {
		return nil, err
	}

	points, err := s.sample(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(points) > s.maxSamples() {
		return nil, domain.ValidationError("too many samples: %d exceeds limit of %d, increase stepMeters", len(points), s.maxSamples())
	}

	elevations, err := s.resolve(ctx, points)
	if err != nil {
		return nil, err
	}

	_, span := telemetry.Tracer().Start(ctx, "profile.calculate")
	result, err := profile.Compute(req, points, elevations)
	span.End()
	if err != nil {
		return nil, err
	}

	result.ElevationProvider = s.elevation.Name()
	return result, nil
}

func (s *ProfileService) sample(ctx context.Context, req domain.ProfileRequest) ([]domain.ProfilePoint, error) {
	_, span := telemetry.Tracer().Start(ctx, "profile.sample")
	defer span.End()

	points, err := s.sampler.Sample(req.A, req.B, req.StepMeters)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.InternalError(err, "sample path")
	}
	span.SetAttributes(attribute.Int(telemetry.AttrSamples, len(points)))
	return points, nil
}

func (s *ProfileService) resolve(ctx context.Context, points []domain.ProfilePoint) ([]domain.ElevationPoint, error) {
	provider := s.elevation.Name()
	ctx, span := telemetry.Tracer().Start(ctx, "profile.resolve_elevations", trace.WithAttributes(
		attribute.String(telemetry.AttrElevationProvider, provider),
		attribute.Int(telemetry.AttrSamples, len(points)),
	))
	defer span.End()

	start := time.Now()
	elevations, err := s.elevation.Resolve(ctx, domain.Locations(points))
	metrics.ElevationFetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ElevationErrors.WithLabelValues(provider).Inc()
		span.SetStatus(codes.Error, err.Error())
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.ElevationError(err, "resolve elevations from %s", provider)
	}
	return elevations, nil
}

func (s *ProfileService) maxSamples() int {
	if s.limits.MaxSamples <= 0 {
		return profile.DefaultMaxSamples
	}
	return s.limits.MaxSamples
}
