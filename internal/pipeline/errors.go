package pipeline

import "errors"

var (
	// ErrJobNotFound rejects stage requests for unknown job identifiers.
	ErrJobNotFound = errors.New("job not found")

	// ErrStageActive rejects a stage request while another run is still
	// pending or processing for the same job.
	ErrStageActive = errors.New("a stage is already running for this job")

	// ErrStageOrder rejects a stage request whose prerequisite stage has
	// not completed.
	ErrStageOrder = errors.New("stage prerequisites not met")
)
