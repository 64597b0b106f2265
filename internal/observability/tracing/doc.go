// Package tracing provides OpenTelemetry tracing integration.
//
// The dispatcher wraps every sender invocation in a span named "notify.send"
// carrying the channel name and outcome, and the worker's HTTP endpoints are
// wrapped with Middleware. Spans are dropped unless the process installs a
// provider with InitProvider; LogExporter prints finished spans at debug level.
//
// Example usage:
//
//	shutdown := tracing.InitProvider("msgsend", tracing.NewLogExporter(logger), 1)
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.StartSpan(ctx, "notify.send",
//	    attribute.String("notify.channel", "bark_deviceKey"))
//	err := doSend(ctx)
//	tracing.EndSpan(span, err)
package tracing
