// Package order provides the Order aggregate of the allocation service: the unit of
// distributable work tracked from import to verified completion.
//
// The package includes:
//   - Order: the aggregate root holding identity, type, creation date, assignments and profit
//   - Status: the lifecycle state machine and its paid/unpaid projection
//   - Assignment and Profit: value objects stamped onto orders by the engines
//   - Filter and BulkChange: the predicate and transition of a conditional bulk claim
//
// Key business rules:
//   - Orders move New -> Allocated -> Assigned -> Completed -> Verified
//   - Backward moves happen only through explicit release, revert or payment reversal
//   - Completed and Verified orders are never released
//   - Profit exists exactly when the order is paid (Completed or Verified)
package order
