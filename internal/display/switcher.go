package display

import (
	"time"

	"github.com/rajohns08/display-switch/internal/input"
	"github.com/rajohns08/display-switch/internal/logger"
)

// InputSelect is the VCP feature code for input select
const InputSelect = 0x60

// RetryDelay is the cooldown an outer scheduler should wait before
// retrying a display that failed to confirm the desired input. The
// retry loop itself lives in the daemon, not here.
const RetryDelay = 3 * time.Second

// Outcome classifies a single switch attempt.
type Outcome int

const (
	// AlreadySet means the display reported the desired input; no write
	// was issued.
	AlreadySet Outcome = iota
	// Switched means the write was issued and accepted.
	Switched
	// WriteFailed means the write was issued and rejected.
	WriteFailed
)

// SwitchResult carries the outcome of one switch attempt plus the
// underlying errors, so callers and tests can assert on it directly
// instead of scraping logs.
type SwitchResult struct {
	Outcome  Outcome
	ReadErr  error // non-nil when the current-input read failed
	WriteErr error // non-nil iff Outcome == WriteFailed
}

// OK reports whether the display is believed to show the desired input.
func (r SwitchResult) OK() bool {
	return r.Outcome != WriteFailed
}

// SwitchInput makes one display show one input source: a single read of
// the input-select register followed by at most one write.
//
// The read is advisory. When it succeeds and the low byte already
// matches the desired source the display is left untouched; when it
// fails the write is attempted anyway, since some monitors are
// read-unreliable but write-reliable. No retries happen here.
func SwitchInput(handle VCPHandle, source input.Source) SwitchResult {
	var result SwitchResult

	raw, err := handle.GetVCP(InputSelect)
	if err != nil {
		result.ReadErr = err
	} else if source.Matches(raw) {
		result.Outcome = AlreadySet
		return result
	}

	if err := handle.SetVCP(InputSelect, source.Value()); err != nil {
		result.Outcome = WriteFailed
		result.WriteErr = err
		return result
	}
	result.Outcome = Switched
	return result
}

// LogSwitchResult reports a switch attempt at the appropriate severity.
// Failures are logged, never escalated: one stubborn display must not
// abort a batch of switches.
func LogSwitchResult(name string, source input.Source, result SwitchResult) {
	if result.ReadErr != nil {
		logger.Warnf("Failed to get current input for display %s: %v", name, result.ReadErr)
	}
	switch result.Outcome {
	case AlreadySet:
		logger.Infof("Display %s is already set to %s", name, source)
	case Switched:
		logger.Infof("Display %s set to %s", name, source)
	case WriteFailed:
		logger.Errorf("Failed to set display %s to %s: %v", name, source, result.WriteErr)
	}
}
