package workflows

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// ActivityComputeLinkProfile is the registered name of SurveyActivities.ComputeLinkProfile.
const ActivityComputeLinkProfile = "ComputeLinkProfile"

// DefaultTaskQueue is used when no queue is configured.
const DefaultTaskQueue = "link-survey"

// SurveyInput is the input for the survey workflow.
type SurveyInput struct {
	Name  string
	Links []domain.LinkCandidate
}

// SurveyWorkflow computes a profile for every link in parallel and reports
// which hops are viable, obstructed or failed. A failing link never fails
// the workflow.
func SurveyWorkflow(ctx workflow.Context, input SurveyInput) (*domain.SurveyReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting link survey", "name", input.Name, "links", len(input.Links))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
			NonRetryableErrorTypes: []string{
				string(domain.CodeValidation),
				string(domain.CodeCalculation),
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	futures := make([]workflow.Future, len(input.Links))
	for i, link := range input.Links {
		futures[i] = workflow.ExecuteActivity(ctx, ActivityComputeLinkProfile, link)
	}

	report := &domain.SurveyReport{Name: input.Name, Outcomes: make([]domain.LinkOutcome, len(input.Links))}
	for i, f := range futures {
		var outcome domain.LinkOutcome
		if err := f.Get(ctx, &outcome); err != nil {
			outcome = failedOutcome(input.Links[i].ID, err)
			logger.Warn("Link failed", "link", input.Links[i].ID, "code", outcome.ErrorCode)
		}
		report.Outcomes[i] = outcome
	}
	report.Tally()

	logger.Info("Link survey finished",
		"viable", report.Viable, "obstructed", report.Obstructed, "failed", report.Failed)
	return report, nil
}

func failedOutcome(linkID string, err error) domain.LinkOutcome {
	outcome := domain.LinkOutcome{LinkID: linkID, ErrorCode: domain.CodeInternal, ErrorMessage: err.Error()}

	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		outcome.ErrorMessage = appErr.Message()
		switch code := domain.ErrorCode(appErr.Type()); code {
		case domain.CodeValidation, domain.CodeCalculation, domain.CodeElevation, domain.CodeInternal:
			outcome.ErrorCode = code
		}
	}
	return outcome
}
