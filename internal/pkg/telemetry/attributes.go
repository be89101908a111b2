package telemetry

// Span attribute keys used by the profile pipeline.
const (
	AttrRunID             = "rrl.run_id"
	AttrJobID             = "rrl.job_id"
	AttrFreqGHz           = "rrl.freq_ghz"
	AttrKFactor           = "rrl.k_factor"
	AttrStepMeters        = "rrl.step_meters"
	AttrSamples           = "rrl.samples"
	AttrDistanceMeters    = "rrl.distance_m"
	AttrElevationProvider = "rrl.elevation.provider"
	AttrLOSOk             = "rrl.los_ok"
	AttrFresnelOk         = "rrl.fresnel_ok"
	AttrErrorCode         = "rrl.error_code"
)
