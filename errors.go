package woss

import "errors"

// Sentinel errors returned by the core orchestrator. None of these are
// panicked; they propagate through (value, error) returns per the
// "errors do not throw" policy.
var (
	ErrInvalidCoord       = errors.New("woss: coordinate out of range")
	ErrInvalidTime        = errors.New("woss: time instant invalid")
	ErrProviderMissing    = errors.New("woss: environment provider not configured")
	ErrEnvironmentInvalid = errors.New("woss: environment sample invalid")
	ErrWossInvalid        = errors.New("woss: job configuration invalid")
	ErrEngineExit         = errors.New("woss: engine exited with non-zero status")
	ErrEngineIO           = errors.New("woss: engine input/output file error")
	ErrRecordMalformed    = errors.New("woss: result record malformed")
	ErrNoSuchFrequency    = errors.New("woss: frequency not present in result grid")
	ErrControllerNotInit  = errors.New("woss: controller not initialized")
	ErrResultDBMiss       = errors.New("woss: result database cache miss")
)
