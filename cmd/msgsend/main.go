// Package main provides a CLI that sends one notification to every channel it
// holds a credential for and prints one result per channel.
//
// Usage: msgsend [-config credentials.yaml] [-title T] [-output text|json] [-strict] [-dry-run] [content | -]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"msgsend/internal/config"
	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
	"msgsend/internal/observability/tracing"
	"msgsend/internal/usecase/notify"
	pkgconfig "msgsend/pkg/config"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// options holds the parsed command line.
type options struct {
	configPath string
	title      string
	content    string
	output     string
	strict     bool
	dryRun     bool
	timeout    time.Duration
}

// cli carries the process dependencies so that run can be exercised in tests.
type cli struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger

	// newRegistry builds the channel registry for one run.
	newRegistry func(dryRun bool) (*notify.Registry, error)
}

func main() {
	os.Exit(runMain())
}

func runMain() int {
	logger := initLogger()

	if pkgconfig.GetEnvBool("TRACING_ENABLED", false) {
		shutdown := tracing.InitProvider("msgsend", tracing.NewLogExporter(logger), 1)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shut down tracer provider", slog.Any("error", err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		lookupEnv:   os.LookupEnv,
		logger:      logger,
		newRegistry: defaultRegistry,
	}
	return c.run(ctx, os.Args[1:])
}

// initLogger writes text logs to stderr so stdout carries only the report.
func initLogger() *slog.Logger {
	logger := logging.NewTextLogger(os.Stderr)
	slog.SetDefault(logger)
	return logger
}

func defaultRegistry(dryRun bool) (*notify.Registry, error) {
	if dryRun {
		return notify.NewDryRunRegistry(), nil
	}
	return notify.NewDefaultRegistry(config.LoadNotifierConfig())
}

func (c *cli) run(ctx context.Context, args []string) int {
	opts, err := c.parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitUsage
	}

	msg, err := c.readMessage(opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitUsage
	}

	creds, err := c.loadCredentials(opts.configPath)
	if err != nil {
		c.logger.Error("failed to load credentials", slog.Any("error", err))
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitUsage
	}

	registry, err := c.newRegistry(opts.dryRun)
	if err != nil {
		c.logger.Error("failed to build channel registry", slog.Any("error", err))
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	dispatcher := notify.NewDispatcher(registry, notify.WithLogger(c.logger))
	report := dispatcher.SendAll(ctx, creds, msg)

	if err := c.writeReport(opts.output, report); err != nil {
		fmt.Fprintf(c.stderr, "Error: failed to write report: %v\n", err)
		return exitFailure
	}

	if opts.strict && (!report.Delivered() || report.Failed() > 0) {
		return exitFailure
	}
	return exitOK
}

func (c *cli) parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("msgsend", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML file mapping channel keys to credentials")
	fs.StringVar(&opts.title, "title", "", "Notification title")
	fs.StringVar(&opts.content, "content", "", "Notification content, or - to read it from stdin")
	fs.StringVar(&opts.output, "output", "text", "Output format: text or json")
	fs.BoolVar(&opts.strict, "strict", false, "Exit 1 unless every attempted channel delivered")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Log what would be sent without calling any service")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Deadline for the whole dispatch")
	fs.Usage = func() {
		fmt.Fprintln(c.stderr, "Usage: msgsend [flags] [content | -]")
		fmt.Fprintln(c.stderr, "")
		fmt.Fprintln(c.stderr, "Credentials come from -config and from environment variables named")
		fmt.Fprintf(c.stderr, "like the channel keys (%s).\n", strings.Join(notify.BuiltinChannels(), ", "))
		fmt.Fprintln(c.stderr, "")
		fmt.Fprintln(c.stderr, "Examples:")
		fmt.Fprintln(c.stderr, "  msgsend -config credentials.yaml -title \"Backup\" \"backup finished\"")
		fmt.Fprintln(c.stderr, "  echo done | bark_deviceKey=xxxx msgsend -title Build -")
		fmt.Fprintln(c.stderr, "")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if opts.content != "" {
			return opts, errors.New("content given both with -content and as an argument")
		}
		opts.content = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one content argument, got %d", fs.NArg())
	}

	if opts.output != "text" && opts.output != "json" {
		return opts, fmt.Errorf("invalid -output %q: expected text or json", opts.output)
	}
	if opts.timeout <= 0 {
		return opts, fmt.Errorf("invalid -timeout %v: must be positive", opts.timeout)
	}
	return opts, nil
}

// readMessage resolves the content ("-" reads stdin, trailing newlines dropped)
// and validates the message.
func (c *cli) readMessage(opts options) (entity.Message, error) {
	content := opts.content
	if content == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return entity.Message{}, fmt.Errorf("read content from stdin: %w", err)
		}
		content = strings.TrimRight(string(data), "\r\n")
	}

	msg := entity.Message{Title: opts.title, Content: content}
	if err := msg.Validate(); err != nil {
		return entity.Message{}, err
	}
	return msg, nil
}

// loadCredentials reads the optional credentials file, then applies
// environment overrides for the built-in channel keys.
func (c *cli) loadCredentials(path string) (*entity.CredentialSet, error) {
	creds := entity.NewCredentialSet()
	if path != "" {
		loaded, err := config.LoadCredentialsFile(path)
		if err != nil {
			return nil, err
		}
		creds = loaded
	}

	applied := config.ApplyEnvOverrides(creds, notify.BuiltinChannels(), c.lookupEnv)
	if applied > 0 {
		c.logger.Debug("credentials taken from environment", slog.Int("count", applied))
	}

	if creds.Len() == 0 {
		return nil, fmt.Errorf("no credentials: pass -config or set one of %s",
			strings.Join(notify.BuiltinChannels(), ", "))
	}
	return creds, nil
}

// reportOutput is the JSON form of a dispatch report.
type reportOutput struct {
	DispatchID string          `json:"dispatch_id"`
	Delivered  bool            `json:"delivered"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Skipped    int             `json:"skipped"`
	Results    []notify.Result `json:"results"`
}

func (c *cli) writeReport(format string, report notify.Report) error {
	if format == "json" {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reportOutput{
			DispatchID: report.DispatchID,
			Delivered:  report.Delivered(),
			Succeeded:  report.Succeeded(),
			Failed:     report.Failed(),
			Skipped:    report.Count(notify.OutcomeSkipped),
			Results:    report.Results,
		})
	}

	for _, r := range report.Results {
		detail := r.Reason
		if r.Err != nil {
			detail = r.Err.Error()
		}
		line := strings.TrimRight(fmt.Sprintf("%-18s %-8s %s", r.Channel, r.Outcome, detail), " ")
		if _, err := fmt.Fprintln(c.stdout, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(c.stdout, "dispatch %s: %d delivered, %d failed, %d skipped\n",
		report.DispatchID, report.Succeeded(), report.Failed(), report.Count(notify.OutcomeSkipped))
	return err
}
