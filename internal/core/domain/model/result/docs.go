// Package result contains the Result aggregate: the materialized copy of an order's
// payment and profit that downstream reporting reads.
//
// A Result exists once an order has been completed at least once. Lifecycle and
// reconciliation handlers keep it in step with the order inside the same unit of work.
package result
