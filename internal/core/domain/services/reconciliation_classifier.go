package services

import (
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/reconciliation"
)

// ReconciliationClassifier compares what the store says about payment with what the
// probe observed.
//
//	Paid   + Done    -> VerifiedDone
//	Paid   + NotDone -> VerifiedNotDone (order is corrected)
//	Unpaid + Done    -> Unattempted
//	Unpaid + NotDone -> None
//	anything else    -> StatusError
type ReconciliationClassifier struct{}

func NewReconciliationClassifier() ReconciliationClassifier {
	return ReconciliationClassifier{}
}

func (ReconciliationClassifier) Classify(
	payment order.PaymentStatus,
	completion reconciliation.Completion,
) reconciliation.CompletionStatus {
	if !completion.IsConclusive() {
		return reconciliation.StatusError
	}

	done := completion == reconciliation.Done
	switch {
	case payment == order.Paid && done:
		return reconciliation.VerifiedDone
	case payment == order.Paid:
		return reconciliation.VerifiedNotDone
	case done:
		return reconciliation.Unattempted
	default:
		return reconciliation.None
	}
}
