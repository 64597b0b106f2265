package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
	"msgsend/internal/observability/tracing"
	"msgsend/internal/resilience/circuitbreaker"
)

// Dispatcher sends one message to every channel of a credential set.
// Channels are handled sequentially in credential order. It is safe for
// concurrent use; each SendAll call owns its report.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the base logger. Without it the logger stored in the
// context (or slog.Default) is used.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithCircuitBreakers guards every registered channel with its own circuit
// breaker built from configFor(name). Only unexpected failures count against
// a breaker: vendor rejections and credential errors do not. A channel whose
// breaker is open is skipped.
func WithCircuitBreakers(configFor func(name string) circuitbreaker.Config) Option {
	return func(d *Dispatcher) {
		d.breakers = make(map[string]*circuitbreaker.CircuitBreaker, d.registry.Len())
		for _, name := range d.registry.Names() {
			cfg := configFor(name)
			cfg.Name = name
			cfg.IsSuccessful = func(err error) bool { return !countsAsOutage(err) }
			onOpen := cfg.OnOpen
			cfg.OnOpen = func(name string) {
				RecordCircuitBreakerOpen(name)
				if onOpen != nil {
					onOpen(name)
				}
			}
			d.breakers[name] = circuitbreaker.New(cfg)
		}
	}
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	SetChannelsRegistered(float64(registry.Len()))
	return d
}

// SendAll sends msg to every channel in creds and returns one Result per entry.
//
// Entries whose channel is not registered, or whose credential is not usable,
// are skipped without invoking a sender. Sender errors and panics are recorded
// in the report and never stop the remaining channels.
//
// The dispatch id is the request id carried by ctx, or a new UUID.
func (d *Dispatcher) SendAll(ctx context.Context, creds *entity.CredentialSet, msg entity.Message) Report {
	dispatchID := logging.RequestIDFromContext(ctx)
	if dispatchID == "" {
		dispatchID = uuid.New().String()
		ctx = logging.ContextWithRequestID(ctx, dispatchID)
	}

	logger := d.baseLogger(ctx).With(slog.String("request_id", dispatchID))
	entries := creds.Entries()

	RecordDispatchRun()
	logger.Info("Dispatching notification",
		slog.String("title", msg.Title),
		slog.Int("credentials", len(entries)),
		slog.Int("registered_channels", d.registry.Len()))

	report := Report{
		DispatchID: dispatchID,
		Results:    make([]Result, 0, len(entries)),
	}
	for _, entry := range entries {
		report.Results = append(report.Results, d.sendOne(ctx, logger, dispatchID, entry, msg))
	}

	logger.Info("Dispatch complete",
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		slog.Int("skipped", report.Count(OutcomeSkipped)))

	return report
}

func (d *Dispatcher) sendOne(ctx context.Context, logger *slog.Logger, dispatchID string, entry entity.ChannelCredential, msg entity.Message) Result {
	name := entry.Channel
	logger = logger.With(slog.String("channel", name))

	sender, ok := d.registry.Lookup(name)
	if !ok {
		logger.Debug("No sender registered for channel, skipping")
		return skipped(name, SkipUnknownChannel)
	}
	if !entry.Credential.Valid() {
		logger.Debug("Credential is empty, skipping",
			slog.String("credential", entry.Credential.Redacted()))
		return skipped(name, SkipInvalidCredential)
	}
	breaker := d.breakers[name]
	if breaker != nil && breaker.IsOpen() {
		logger.Warn("Channel temporarily disabled due to circuit breaker")
		return skipped(name, SkipCircuitOpen)
	}

	ctx = logging.WithLogger(ctx, logger)
	ctx, span := tracing.StartSpan(ctx, "notify.send",
		attribute.String("notify.channel", name),
		attribute.String("notify.dispatch_id", dispatchID))

	RecordDispatch(name)
	start := time.Now()
	err := invoke(ctx, breaker, sender, entry.Credential, msg)
	duration := time.Since(start)

	if breaker != nil && circuitbreaker.IsRejection(err) {
		span.SetAttributes(attribute.String("notify.outcome", OutcomeSkipped.String()))
		tracing.EndSpan(span, nil)
		logger.Warn("Channel temporarily disabled due to circuit breaker")
		res := skipped(name, SkipCircuitOpen)
		res.Err = fmt.Errorf("%w: %w", ErrCircuitBreakerOpen, err)
		return res
	}

	outcome := classify(err)
	span.SetAttributes(attribute.String("notify.outcome", outcome.String()))
	tracing.EndSpan(span, err)
	RecordOutcome(name, outcome, duration)

	switch outcome {
	case OutcomeSuccess:
		logger.Info("Channel notification sent successfully",
			slog.Duration("send_duration", duration))
	case OutcomeRejected:
		logger.Warn("Channel rejected notification",
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
	default:
		logger.Error("Channel notification failed",
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
	}

	return Result{
		Channel:  name,
		Outcome:  outcome,
		Err:      err,
		Duration: duration,
	}
}

// invoke calls the sender, through its breaker when there is one, and turns a
// panic into an ErrSenderPanic error.
func invoke(ctx context.Context, breaker *circuitbreaker.CircuitBreaker, sender Sender, cred entity.Credential, msg entity.Message) error {
	call := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(ctx).Error("Panic in notification sender",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
				err = fmt.Errorf("%w: %v", ErrSenderPanic, r)
			}
		}()
		return sender.Send(ctx, cred, msg)
	}
	if breaker == nil {
		return call()
	}
	return breaker.Call(call)
}

// classify maps a sender error to an outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, entity.ErrNotDelivered):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// countsAsOutage reports whether err suggests the vendor is unreachable or
// broken, as opposed to refusing this particular message or credential.
func countsAsOutage(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, entity.ErrNotDelivered) && !errors.Is(err, entity.ErrInvalidCredential)
}

func skipped(channel, reason string) Result {
	RecordSkipped(channel, reason)
	return Result{Channel: channel, Outcome: OutcomeSkipped, Reason: reason}
}

func (d *Dispatcher) baseLogger(ctx context.Context) *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return logging.FromContext(ctx)
}
