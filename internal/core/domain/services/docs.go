// Package services provides the pure domain services shared by the allocation,
// lifecycle and reconciliation use cases.
//
// The package includes:
//   - SelectionPolicy: builds the order filters each engine selects candidates with
//   - ProfitCalculator: derives completion profit from a configurable pricing table
//   - ReconciliationClassifier: compares local payment status with the probe result
//
// None of the services perform I/O.
package services
