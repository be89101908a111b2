package workflows

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// ProfileComputer is the part of usecases.ProfileService the survey needs.
type ProfileComputer interface {
	Compute(ctx context.Context, req domain.ProfileRequest) (*domain.ProfileResult, error)
}

// SurveyActivities holds the activity implementations for the survey workflow.
type SurveyActivities struct {
	Profiles ProfileComputer
}

// ComputeLinkProfile computes one hop as given. Defaults are resolved when the
// survey is loaded. Validation and calculation failures are non-retryable application errors typed with the domain error code.
func (a *SurveyActivities) ComputeLinkProfile(ctx context.Context, link domain.LinkCandidate) (domain.LinkOutcome, error) {
	logger := activity.GetLogger(ctx)

	result, err := a.Profiles.Compute(ctx, link.Request)
	if err != nil {
		derr, ok := domain.AsError(err)
		if !ok {
			derr = domain.InternalError(err, "compute link %s", link.ID)
		}
		logger.Warn("link profile failed", "link", link.ID, "code", derr.Code, "error", derr.Message)

		switch derr.Code {
		case domain.CodeValidation, domain.CodeCalculation:
			return domain.LinkOutcome{}, temporal.NewNonRetryableApplicationError(derr.Message, string(derr.Code), err)
		default:
			return domain.LinkOutcome{}, temporal.NewApplicationErrorWithCause(derr.Message, string(derr.Code), err)
		}
	}

	summary := result.Summary
	return domain.LinkOutcome{
		LinkID:            link.ID,
		Summary:           &summary,
		ElevationProvider: result.ElevationProvider,
	}, nil
}
