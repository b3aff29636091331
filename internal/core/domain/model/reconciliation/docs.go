// Package reconciliation defines the vocabulary of a payment reconciliation run:
// what the external probe said about an order, how that compares with the local
// payment status, and the per-order record a run reports.
package reconciliation
