package sim

import "fmt"

// LengthMismatchError reports an activity sequence shorter than the number
// of samples a trace requires. The simulator never repeats the last
// activity value to cover the gap; callers size the sequence explicitly.
type LengthMismatchError struct {
	Got  int // activity values supplied
	Want int // samples the trace requires
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("activity sequence has %d values, trace requires %d", e.Got, e.Want)
}
