package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func completeInput() ProfileInput {
	return ProfileInput{
		A:        &PointInput{Lat: f64(43.0), Lon: f64(-2.9), Name: "A"},
		B:        &PointInput{Lat: f64(43.01), Lon: f64(-2.9)},
		AntennaA: f64(30),
		AntennaB: f64(0),
		FreqGHz:  f64(7.5),
	}
}

var defaults = RequestDefaults{KFactor: 1.33, StepMeters: 50}

func TestProfileInput_ResolveFillsAbsentOptionals(t *testing.T) {
	req, err := completeInput().Resolve(defaults)
	require.NoError(t, err)

	assert.Equal(t, 1.33, req.KFactor)
	assert.Equal(t, 50.0, req.StepMeters)
	assert.Equal(t, 0.0, req.AntennaB)
	assert.Equal(t, "A", req.A.Name)
}

func TestProfileInput_ResolveKeepsExplicitZeros(t *testing.T) {
	in := completeInput()
	in.KFactor = f64(0)
	in.StepMeters = f64(0)

	req, err := in.Resolve(defaults)
	require.NoError(t, err)
	assert.Zero(t, req.KFactor)
	assert.Zero(t, req.StepMeters)
}

func TestProfileInput_ResolveReportsMissing(t *testing.T) {
	in := completeInput()
	in.AntennaA = nil
	in.B.Lon = nil
	in.FreqGHz = nil

	_, err := in.Resolve(defaults)
	require.Error(t, err)

	derr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)
	assert.Equal(t, []string{"b.lon", "antennaA", "freqGHz"}, derr.Details["fields"])
	assert.Contains(t, derr.Message, "antennaA")
}
