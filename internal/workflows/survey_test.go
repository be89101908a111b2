package workflows

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// fakeProfiles answers by link frequency: 1 GHz clears, 2 GHz is obstructed,
// 3 GHz is invalid and 4 GHz fails elevation lookups.
type fakeProfiles struct {
	calls int32
}

func (f *fakeProfiles) Compute(ctx context.Context, req domain.ProfileRequest) (*domain.ProfileResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if req.KFactor <= 0 {
		return nil, domain.ValidationError("kFactor must be positive")
	}
	switch req.FreqGHz {
	case 1:
		return &domain.ProfileResult{Summary: domain.ProfileSummary{LOSOk: true, FresnelOk: true}, ElevationProvider: "fake"}, nil
	case 2:
		return &domain.ProfileResult{Summary: domain.ProfileSummary{LOSOk: true, MinClearance60: -3}, ElevationProvider: "fake"}, nil
	case 3:
		return nil, domain.ValidationError("freqGHz out of range")
	default:
		return nil, domain.ElevationError(nil, "upstream timeout")
	}
}

func link(id string, freq float64) domain.LinkCandidate {
	return domain.LinkCandidate{ID: id, Request: domain.ProfileRequest{FreqGHz: freq, KFactor: 1.33}}
}

func runSurvey(t *testing.T, profiles *fakeProfiles, links ...domain.LinkCandidate) *domain.SurveyReport {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(SurveyWorkflow)
	env.RegisterActivity(&SurveyActivities{Profiles: profiles})

	env.ExecuteWorkflow(SurveyWorkflow, SurveyInput{Name: "test", Links: links})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var report domain.SurveyReport
	require.NoError(t, env.GetWorkflowResult(&report))
	return &report
}

func TestSurveyWorkflow_Outcomes(t *testing.T) {
	profiles := &fakeProfiles{}
	report := runSurvey(t, profiles, link("clear", 1), link("blocked", 2), link("invalid", 3))

	assert.Equal(t, "test", report.Name)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, 1, report.Viable)
	assert.Equal(t, 1, report.Obstructed)
	assert.Equal(t, 1, report.Failed)

	assert.Equal(t, "clear", report.Outcomes[0].LinkID)
	assert.Equal(t, "fake", report.Outcomes[0].ElevationProvider)
	assert.Equal(t, "invalid", report.Outcomes[2].LinkID)
	assert.Equal(t, domain.CodeValidation, report.Outcomes[2].ErrorCode)
	assert.Equal(t, "freqGHz out of range", report.Outcomes[2].ErrorMessage)

	// Validation failures are not retried.
	assert.Equal(t, int32(3), atomic.LoadInt32(&profiles.calls))
}

func TestSurveyWorkflow_RetriesElevationFailures(t *testing.T) {
	profiles := &fakeProfiles{}
	report := runSurvey(t, profiles, link("flaky", 4))

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.CodeElevation, report.Outcomes[0].ErrorCode)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&profiles.calls))
}

func TestSurveyWorkflow_Empty(t *testing.T) {
	report := runSurvey(t, &fakeProfiles{})
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 0, report.Failed)
}

func TestSurveyWorkflow_ExplicitZeroKFactorFails(t *testing.T) {
	profiles := &fakeProfiles{}
	zero := link("zero-k", 1)
	zero.Request.KFactor = 0

	report := runSurvey(t, profiles, zero)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.CodeValidation, report.Outcomes[0].ErrorCode)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&profiles.calls))
}
