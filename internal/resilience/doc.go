// Package resilience groups fault isolation for outbound notification calls.
//
// The circuitbreaker subpackage wraps sony/gobreaker. The dispatcher keeps one
// breaker per channel when built with notify.WithCircuitBreakers, so a vendor
// that keeps timing out is skipped for a cool-down period instead of slowing
// every scheduled run.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ScheduledSendConfig("bark_deviceKey"))
//	err := cb.Call(func() error {
//	    return sender.Send(ctx, cred, msg)
//	})
//	if circuitbreaker.IsRejection(err) {
//	    // channel skipped while the breaker is open
//	}
package resilience
