package domain

import "errors"

// Domain errors.
var (
	// ErrInvalidURL is returned when a submitted URL is not a recognized TikTok video URL.
	ErrInvalidURL = errors.New("invalid TikTok URL")

	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrNoTasks is returned when there are no queued tasks to process.
	ErrNoTasks = errors.New("no tasks available")

	// ErrQueueUnavailable is returned when the submission queue cannot be reached.
	ErrQueueUnavailable = errors.New("submission queue unavailable")
)

// PipelineError wraps an error with the pipeline stage it escaped from.
type PipelineError struct {
	VideoID VideoID
	Stage   string
	Err     error
}

func (e *PipelineError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(videoID VideoID, stage string, err error) *PipelineError {
	return &PipelineError{
		VideoID: videoID,
		Stage:   stage,
		Err:     err,
	}
}
