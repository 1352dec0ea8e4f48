// Package tracing provides OpenTelemetry tracing integration.
//
// The dispatch path opens a span per notification so slow or failing
// channel sends can be attributed in traces.
//
// Example usage:
//
//	func (s *service) Dispatch(ctx context.Context, event *entity.NotificationEvent) []DeliveryResult {
//	    ctx, span := tracing.GetTracer().Start(ctx, "notify.Dispatch")
//	    defer span.End()
//	    // ... fan out to channels ...
//	}
package tracing
