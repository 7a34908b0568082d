package pipeline

import "errors"

// Sentinel errors shared by the pipeline stages. Stages wrap these with
// context via fmt.Errorf("%w: ...") so callers can discriminate with
// errors.Is while still seeing a descriptive message.
var (
	// ErrConfiguration indicates a required credential or setting is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingInput indicates the previous stage's artifact does not exist.
	ErrMissingInput = errors.New("missing input artifact")

	// ErrRemote indicates the upstream API call failed or timed out.
	ErrRemote = errors.New("remote API error")

	// ErrLoad indicates the store rejected a batch upsert.
	ErrLoad = errors.New("load error")
)
