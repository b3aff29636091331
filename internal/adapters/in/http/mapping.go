package http

import (
	"fmt"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/reconciliation"
	"orderflow/internal/generated/servers"
)

func importItems(orders []servers.ImportOrderItem) []commands.ImportItem {
	items := make([]commands.ImportItem, len(orders))
	for i, o := range orders {
		items[i] = commands.ImportItem{
			OrderID:    o.OrderId,
			CustomerID: deref(o.CustomerId),
			Source:     deref(o.Source),
			Coupon:     deref(o.Coupon),
			Link:       deref(o.Link),
		}
		if o.CreatedAt != nil {
			items[i].CreatedAt = *o.CreatedAt
		}
	}
	return items
}

// allocationRequests decodes request dates in loc. A missing date is passed through as
// zero so the handler reports it per request; a malformed one rejects the batch.
func allocationRequests(in []servers.AllocationRequest, loc *time.Location) ([]commands.AllocationRequest, error) {
	out := make([]commands.AllocationRequest, len(in))
	for i, r := range in {
		date, err := optionalDate(r.Date, loc)
		if err != nil {
			return nil, newBadRequest(fmt.Sprintf("requests[%d].date", i), err)
		}

		var endDate *time.Time
		if r.EndDate != nil {
			end, err := kernel.ParseDate(*r.EndDate, loc)
			if err != nil {
				return nil, newBadRequest(fmt.Sprintf("requests[%d].endDate", i), err)
			}
			endDate = &end
		}

		out[i] = commands.AllocationRequest{
			Date:      date,
			EndDate:   endDate,
			TeamID:    deref(r.TeamId),
			MemberID:  deref(r.MemberId),
			OrderType: r.OrderType,
			Quantity:  r.Quantity,
		}
	}
	return out, nil
}

func unallocationRequests(in []servers.UnallocationRequest, loc *time.Location) ([]commands.UnallocationRequest, error) {
	out := make([]commands.UnallocationRequest, len(in))
	for i, r := range in {
		date, err := optionalDate(r.Date, loc)
		if err != nil {
			return nil, newBadRequest(fmt.Sprintf("requests[%d].date", i), err)
		}

		out[i] = commands.UnallocationRequest{
			Date:      date,
			TeamID:    deref(r.TeamId),
			OrderType: r.OrderType,
		}
		if r.Quantity != nil {
			out[i].Quantity = *r.Quantity
		}
	}
	return out, nil
}

func optionalDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return kernel.ParseDate(value, loc)
}

func toImportReport(report commands.ImportReport) servers.ImportReport {
	out := servers.ImportReport{
		Imported:   report.Imported,
		Duplicates: nonNil(report.Duplicates),
		Rejected:   make([]servers.ImportRejection, len(report.Rejected)),
	}
	for i, r := range report.Rejected {
		out.Rejected[i] = servers.ImportRejection{Index: r.Index, OrderId: r.OrderID, Reason: r.Reason}
	}
	return out
}

func toBatchReport(report commands.BatchReport) servers.BatchReport {
	out := servers.BatchReport{
		Level:    servers.BatchReportLevel(report.Level.String()),
		Changed:  report.Changed(),
		Failures: report.Failures(),
		Results:  make([]servers.RequestResult, len(report.Results)),
	}
	for i, r := range report.Results {
		out.Results[i] = servers.RequestResult{
			Index:     r.Index,
			TeamId:    optional(r.TeamID),
			MemberId:  optional(r.MemberID),
			OrderType: r.OrderType,
			Outcome:   servers.RequestResultOutcome(r.Outcome.String()),
			Requested: r.Requested,
			Changed:   r.Changed,
			Shortfall: r.Shortfall,
			OrderIds:  nonNil(r.OrderIDs),
			Reason:    optional(r.Reason),
		}
	}
	return out
}

func toLifecycleResult(res commands.LifecycleResult) servers.LifecycleResult {
	out := servers.LifecycleResult{
		OrderId: res.OrderID,
		Outcome: servers.LifecycleResultOutcome(res.Outcome.String()),
		Status:  res.Status.String(),
	}
	if res.Profit != nil {
		out.Profit = &servers.Profit{
			Commission:        res.Profit.Commission(),
			ProfitBehindOrder: res.Profit.ProfitBehindOrder(),
			MembersProfit:     res.Profit.MembersProfit(),
		}
	}
	return out
}

func toReconciliationReport(report commands.ReconciliationReport) servers.ReconciliationReport {
	out := servers.ReconciliationReport{
		RunId:      report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Summary: servers.ReconciliationSummary{
			Total:           len(report.Records),
			VerifiedDone:    report.Count(reconciliation.VerifiedDone),
			VerifiedNotDone: report.Count(reconciliation.VerifiedNotDone),
			Unattempted:     report.Count(reconciliation.Unattempted),
			Errors:          report.Count(reconciliation.StatusError),
			Corrected:       report.Corrected(),
		},
		Records: make([]servers.ReconciliationRecord, len(report.Records)),
	}
	for i, rec := range report.Records {
		out.Records[i] = servers.ReconciliationRecord{
			OrderId:           rec.OrderID,
			Link:              optional(rec.Link),
			PaymentStatus:     rec.PaymentStatus.String(),
			Completion:        servers.ReconciliationRecordCompletion(rec.Completion.String()),
			CompletionStatus:  servers.ReconciliationRecordCompletionStatus(rec.CompletionStatus.String()),
			ProfitBehindOrder: rec.ProfitBehindOrder,
			MembersProfit:     rec.MembersProfit,
			Attempts:          rec.Attempts,
			Corrected:         rec.Corrected,
			Reason:            optional(rec.Reason),
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
