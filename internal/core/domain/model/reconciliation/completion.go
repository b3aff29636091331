package reconciliation

// Completion is the external view of whether an order's payment went through.
type Completion int

const (
	CompletionUnknown Completion = iota

	// Done means the probe saw a redirect, i.e. the payment page was consumed.
	Done

	// NotDone means the probe got a non-redirect success response.
	NotDone

	// Error means the probe failed on every attempt.
	Error

	// NoLink means the order carries no link to probe.
	NoLink
)

func (c Completion) String() string {
	switch c {
	case Done:
		return "Done"
	case NotDone:
		return "Not Done"
	case Error:
		return "Error"
	case NoLink:
		return "No Link"
	default:
		return "Unknown"
	}
}

// IsConclusive reports whether the probe produced an answer that can be compared
// with the local payment status.
func (c Completion) IsConclusive() bool {
	return c == Done || c == NotDone
}

// CompletionStatus is the outcome of comparing the local payment status with the probe.
type CompletionStatus int

const (
	// None means the order is unpaid and the probe agrees. Nothing to report.
	None CompletionStatus = iota

	// VerifiedDone means the order is paid and the probe agrees.
	VerifiedDone

	// VerifiedNotDone means the order is paid but the probe says otherwise.
	// The order is corrected to unpaid.
	VerifiedNotDone

	// Unattempted means the probe says done but the order is unpaid. Flag only.
	Unattempted

	// StatusError means no comparison was possible.
	StatusError
)

func (s CompletionStatus) String() string {
	switch s {
	case VerifiedDone:
		return "Verified Done"
	case VerifiedNotDone:
		return "Verified Not Done"
	case Unattempted:
		return "Unattempted"
	case StatusError:
		return "Error"
	default:
		return "None"
	}
}

// NeedsCorrection reports whether the local record must be reversed.
func (s CompletionStatus) NeedsCorrection() bool {
	return s == VerifiedNotDone
}
