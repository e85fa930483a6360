package types

import "fmt"

// MoveStatus is the terminal state of one organization pipeline run.
type MoveStatus string

const (
	StatusMoved   MoveStatus = "moved"
	StatusSkipped MoveStatus = "skipped"
	StatusFailed  MoveStatus = "failed"
)

// SkipReason explains a skipped pipeline run. Skips are successful
// completions with a non-move result, not errors.
type SkipReason string

const (
	// SkipSourceMissing: the path no longer exists, or is a directory.
	SkipSourceMissing SkipReason = "source missing or not a file"
	// SkipIgnored: hidden or temporary file name.
	SkipIgnored SkipReason = "hidden or temporary file"
	// SkipOutsideWatch: the file is not directly inside the watched folder.
	SkipOutsideWatch SkipReason = "outside watched folder"
	// SkipNotReady: the writer has not finished; a later event retries.
	SkipNotReady SkipReason = "file not yet stable"
	// SkipNoDestination: the matched category has no destination folder
	// configured. A configuration gap, surfaced for user correction.
	SkipNoDestination SkipReason = "no destination folder configured"
	// SkipAlreadyOrganized: the file already sits in its destination folder.
	SkipAlreadyOrganized SkipReason = "already organized"
	// SkipDuplicate: the destination exists and the policy says keep it.
	SkipDuplicate SkipReason = "duplicate kept per policy"
)

// MoveOutcome is the single result value produced by every pipeline run.
type MoveOutcome struct {
	// RunID identifies one pipeline run across log lines and history rows.
	RunID    string     `json:"runId,omitempty"`
	Status   MoveStatus `json:"status"`
	Source   string     `json:"source"`
	Dest     string     `json:"dest,omitempty"`
	Category string     `json:"category,omitempty"`
	Reason   SkipReason `json:"reason,omitempty"`
	Err      error      `json:"-"`
}

// Moved builds a successful move outcome.
func Moved(source, dest, category string) MoveOutcome {
	return MoveOutcome{Status: StatusMoved, Source: source, Dest: dest, Category: category}
}

// Skipped builds a non-move completion outcome.
func Skipped(source string, reason SkipReason) MoveOutcome {
	return MoveOutcome{Status: StatusSkipped, Source: source, Reason: reason}
}

// Failed builds a failure outcome carrying the underlying cause.
func Failed(source string, err error) MoveOutcome {
	return MoveOutcome{Status: StatusFailed, Source: source, Err: err}
}

func (o MoveOutcome) String() string {
	switch o.Status {
	case StatusMoved:
		return fmt.Sprintf("moved %s -> %s (%s)", o.Source, o.Dest, o.Category)
	case StatusSkipped:
		return fmt.Sprintf("skipped %s: %s", o.Source, o.Reason)
	default:
		return fmt.Sprintf("failed %s: %v", o.Source, o.Err)
	}
}

// Detail returns the human-readable qualifier stored with history entries:
// the skip reason or the error text, empty for a plain move.
func (o MoveOutcome) Detail() string {
	switch o.Status {
	case StatusSkipped:
		return string(o.Reason)
	case StatusFailed:
		if o.Err != nil {
			return o.Err.Error()
		}
	}
	return ""
}
