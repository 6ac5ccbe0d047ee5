package energy

import "fmt"

// NotTrainedError reports a model operation that requires a completed fit.
type NotTrainedError struct {
	Op string // operation attempted, e.g. "predict"
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("energy model is not trained: %s requires a prior successful Train", e.Op)
}

// InsufficientDataError reports a training set too small or degenerate to
// fit and validate.
type InsufficientDataError struct {
	Rows     int
	Features int
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data (%d rows, %d features): %s", e.Rows, e.Features, e.Reason)
}

// ShapeMismatchError reports a feature-count mismatch between fit time and a
// later predict or what-if call.
type ShapeMismatchError struct {
	Got  int
	Want int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature count mismatch: got %d, model was trained with %d", e.Got, e.Want)
}

// UnknownFeatureError reports a scenario adjustment naming a feature the
// model was not trained with.
type UnknownFeatureError struct {
	Scenario string
	Feature  string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("scenario %q references unknown feature %q", e.Scenario, e.Feature)
}
