// Package retry provides bounded retry with exponential backoff.
//
// The caller decides which errors are worth another attempt:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
//	    return runTx(ctx)
//	}, isBusy)
//
// Errors rejected by the predicate are returned as-is on the first failure.
// When attempts run out the last error is returned wrapped in
// *RetriesExceededError, which unwraps to it.
//
// Tests can replace the timer through Config.After to avoid real sleeps.
package retry
