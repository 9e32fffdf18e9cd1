// Package shared contains common error types and utilities for error handling
// across the application without domain-specific logic.
//
// # Error Types and Classification
//
// Sentinel errors represent the failure conditions a database run can hit:
//
//   - ErrNotFound: Resource not found
//   - ErrValidation: Input validation failed (bad batch arity, bad table order)
//   - ErrConflict: Constraint violation (duplicate primary key, NOT NULL, enforced foreign key)
//   - ErrBusy: Database file locked by another connection
//   - ErrInternal: Anything else reported by the driver
//   - ErrTimeout: Operation timed out
//
// Use KindOf() to classify errors:
//
//	switch shared.KindOf(err) {
//	case shared.KindConflict:
//	    // Row already present
//	case shared.KindBusy:
//	    // Retry later
//	}
//
// # Driver Errors
//
// Every database operation returns a *DriverError carrying the operation name,
// its target and the driver message. The error unwraps to both the driver error and
// the sentinel of its Kind:
//
//	err := shared.NewDriverError("insert batch", "Categories", shared.KindConflict, cause)
//	errors.Is(err, shared.ErrConflict) // true
//	errors.Is(err, cause)              // true
//
// Callers decide the policy: print and continue, or stop.
//
// # Kind Priority
//
// When multiple kinds are present (e.g., with errors.Join), KindOf returns the highest
// priority kind: Canceled, Timeout, Busy, NotFound, Validation, Conflict, Internal.
package shared
