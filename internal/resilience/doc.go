// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes the retry policy for notification delivery and circuit breakers
// for provider calls to ensure system resilience in the face of failures.
//
// The package supports:
//   - Circuit breakers for notification provider calls (SMS, email)
//   - Retry policy with exponential backoff driven by classified error kinds
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SMSProviderConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return sendToProvider()
//	})
//
//	policy := retry.DefaultPolicy()
//	if policy.ShouldRetry(kind, attempt) {
//	    _ = retry.Wait(ctx, policy.DelayFor(attempt))
//	}
package resilience
