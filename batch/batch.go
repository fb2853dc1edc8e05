// Package batch runs one command for every record of a JSON-lines input,
// in input order, and reports the outcome counts at the end.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/metrics"
	"github.com/gurre/awsbind/output"
	"github.com/gurre/awsbind/param"
)

// maxLineSize bounds a single input record.
const maxLineSize = 1024 * 1024

// progressInterval controls how often a progress line is printed.
const progressInterval = 5 * time.Second

// Config selects the input and the behaviour of a run.
type Config struct {
	InputURI        string          // Local path, file:// or s3:// JSON-lines input
	FromLine        int             // First 1-based line to process; earlier lines are skipped
	Options         command.Options // Output options applied to every record
	ContinueOnError bool            // Keep going after a failed invocation
	ReportURI       string          // Optional file:// or s3:// destination for the report
}

// ReportUploader stores the final report.
type ReportUploader interface {
	UploadReport(ctx context.Context, uri string, report metrics.Report) error
}

// SinkUploader writes the report through an output sink.
type SinkUploader struct {
	S3 aws.S3Client
}

// UploadReport writes report as a single JSON document to uri.
func (u *SinkUploader) UploadReport(ctx context.Context, uri string, report metrics.Report) error {
	sink, err := output.Open(uri, u.S3, io.Discard)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, report); err != nil {
		return err
	}
	return sink.Close(ctx)
}

// LineError reports the input line a failed invocation came from.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Runner feeds input records through a command.
type Runner struct {
	cmd      command.Command
	env      command.Env
	sink     output.Sink
	cfg      Config
	uploader ReportUploader
	progress io.Writer
	metrics  *metrics.Metrics

	lines int
}

// NewRunner creates a runner. The env is copied; when it carries no metrics a
// fresh instance is attached. Progress lines and the report go to progress.
func NewRunner(cmd command.Command, env *command.Env, sink output.Sink, cfg Config,
	uploader ReportUploader, progress io.Writer) *Runner {
	e := *env
	if e.Metrics == nil {
		e.Metrics = metrics.NewMetrics()
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{
		cmd:      cmd,
		env:      e,
		sink:     sink,
		cfg:      cfg,
		uploader: uploader,
		progress: progress,
		metrics:  e.Metrics,
	}
}

// Run processes the input until it ends, an invocation fails or the context
// is cancelled. The report is returned in every case.
func (r *Runner) Run(ctx context.Context) (metrics.Report, error) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	progressCtx, stopProgress := context.WithCancel(ctx)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		r.reportProgress(progressCtx)
	}()

	err := r.read(ctx, r.handle)
	if err == nil {
		err = ctx.Err()
	}
	stopProgress()
	<-progressDone

	report := r.metrics.GenerateReport()
	fmt.Fprintln(r.progress, report)

	if r.cfg.ReportURI != "" && r.uploader != nil {
		if uerr := r.uploader.UploadReport(context.WithoutCancel(ctx), r.cfg.ReportURI, report); uerr != nil {
			return report, errors.Join(err, fmt.Errorf("failed to upload report: %w", uerr))
		}
		fmt.Fprintf(r.progress, "Report uploaded to %s\n", r.cfg.ReportURI)
	}
	return report, err
}

// handle binds and runs one record. Unbindable records are skipped.
func (r *Runner) handle(ctx context.Context, line []byte) error {
	r.lines++
	if r.lines < r.cfg.FromLine || len(strings.TrimSpace(string(line))) == 0 {
		return nil
	}

	info := r.cmd.Info()
	params := r.cmd.NewParams()
	if err := param.BindRecord(params, line); err != nil {
		r.metrics.RecordSkipped()
		r.env.Logger.Warn("skipping record",
			slog.String("operation", info.Name),
			slog.Int("line", r.lines),
			slog.Any("error", err))
		return nil
	}

	res, err := r.cmd.Run(ctx, &r.env, params, r.cfg.Options)
	if err != nil {
		var argErr *command.ArgumentError
		if !r.cfg.ContinueOnError || errors.As(err, &argErr) || command.Kind(err) == "canceled" {
			return &LineError{Line: r.lines, Err: err}
		}
		r.env.Logger.Error("record failed",
			slog.String("operation", info.Name),
			slog.Int("line", r.lines),
			slog.Any("error", err))
		return nil
	}

	if err := r.sink.Write(ctx, res.Output); err != nil {
		return &LineError{Line: r.lines, Err: err}
	}
	return nil
}

// read passes every input line to fn in order.
func (r *Runner) read(ctx context.Context, fn func(context.Context, []byte) error) error {
	if strings.HasPrefix(r.cfg.InputURI, "s3://") {
		u, err := url.Parse(r.cfg.InputURI)
		if err != nil {
			return fmt.Errorf("invalid S3 URI: %w", err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return fmt.Errorf("S3 URI must name a bucket and key: %s", r.cfg.InputURI)
		}
		if r.env.Clients == nil || r.env.Clients.Streamer == nil {
			return fmt.Errorf("input URI %s needs an S3 streamer", r.cfg.InputURI)
		}
		return r.env.Clients.Streamer.Stream(ctx, u.Host, key, 0, func(line []byte, _ int64) error {
			return fn(ctx, line)
		})
	}

	f, err := openLocal(r.cfg.InputURI)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, scanner.Bytes()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error scanning %s: %w", r.cfg.InputURI, err)
	}
	return nil
}

func openLocal(uri string) (io.ReadCloser, error) {
	switch {
	case uri == "" || uri == "-":
		return io.NopCloser(os.Stdin), nil
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid file URI: %w", err)
		}
		uri = u.Path
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("unsupported input URI: %s", uri)
	}

	f, err := os.Open(filepath.Clean(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func (r *Runner) reportProgress(ctx context.Context) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report := r.metrics.GenerateReport()
			fmt.Fprintf(r.progress, "Progress: %d invocations (%d succeeded, %d skipped)\n",
				report.Invocations, report.Succeeded, report.Skipped)
		case <-ctx.Done():
			return
		}
	}
}
