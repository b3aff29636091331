package reconciliation

import "orderflow/internal/core/domain/model/order"

// Record is the per-order line of a reconciliation report. Amounts reflect the
// state after any correction.
type Record struct {
	OrderID           string
	Link              string
	PaymentStatus     order.PaymentStatus
	Completion        Completion
	CompletionStatus  CompletionStatus
	ProfitBehindOrder *int64
	MembersProfit     *int64
	Attempts          int
	Corrected         bool
	Reason            string
}

// NewRecord starts a record from the order as it was read.
func NewRecord(o *order.Order) Record {
	r := Record{
		OrderID:       o.ID(),
		Link:          o.Link(),
		PaymentStatus: o.PaymentStatus(),
	}
	if p := o.Profit(); p != nil {
		behind, members := p.ProfitBehindOrder(), p.MembersProfit()
		r.ProfitBehindOrder = &behind
		r.MembersProfit = &members
	}
	return r
}

// Failed builds a record for an order that could not be reconciled at all.
func Failed(orderID, reason string) Record {
	return Record{
		OrderID:          orderID,
		Completion:       Error,
		CompletionStatus: StatusError,
		Reason:           reason,
	}
}

// MarkCorrected reflects a reversed payment in the record.
func (r *Record) MarkCorrected() {
	behind, members := int64(0), int64(0)
	r.PaymentStatus = order.Unpaid
	r.ProfitBehindOrder = &behind
	r.MembersProfit = &members
	r.Corrected = true
}
