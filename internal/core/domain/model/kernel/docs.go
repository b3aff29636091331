// Package kernel provides the shared domain primitives of the allocation service.
//
// The package includes:
//   - DateWindow: an inclusive creation-date range expressed in whole days of a time zone
//   - Actor and Role: the authenticated caller as seen by the use cases
//   - Clock: the time source injected into handlers
//
// These primitives are immutable value objects built through validating constructors,
// so they can be shared across goroutines freely.
package kernel
