// Command awsbind invokes Audit Manager and IoT Device Advisor operations
// from the command line, one at a time or once per JSON-lines record.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/batch"
	"github.com/gurre/awsbind/catalog"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/config"
	"github.com/gurre/awsbind/history"
	"github.com/gurre/awsbind/metrics"
	"github.com/gurre/awsbind/output"
	"github.com/gurre/awsbind/param"
	"github.com/gurre/awsbind/preflight"
)

// Exit codes
const (
	exitOK       = 0
	exitError    = 1
	exitArgument = 2
	exitService  = 3
	exitCanceled = 130
)

type CLI struct {
	Region       string        `name:"region" env:"AWS_REGION" help:"AWS region"`
	Profile      string        `name:"profile" env:"AWS_PROFILE" help:"Shared config profile"`
	EndpointURL  string        `name:"endpoint-url" help:"Override the service endpoint (http[s]://host[:port])"`
	Timeout      time.Duration `name:"timeout" help:"Per-invocation deadline, e.g. 30s"`
	HistoryURI   string        `name:"history" env:"AWSBIND_HISTORY" help:"Invocation history: file://, s3:// or ddb:// (default: memory)"`
	Session      string        `name:"session" env:"AWSBIND_SESSION" help:"History session for ddb:// stores"`
	OutputURI    string        `name:"output" short:"o" help:"Write results to file:// or s3:// instead of stdout"`
	Preflight    bool          `name:"preflight" help:"Simulate the IAM action before invoking"`
	PrincipalARN string        `name:"principal-arn" help:"Principal for --preflight (default: caller identity)"`
	LogLevel     string        `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`

	Invoke   InvokeCmd   `cmd:"" help:"Invoke one operation"`
	Batch    BatchCmd    `cmd:"" help:"Invoke an operation once per JSON-lines record"`
	List     ListCmd     `cmd:"" help:"List the available operations"`
	Describe DescribeCmd `cmd:"" help:"Show the parameters of an operation"`
	Log      HistoryCmd  `cmd:"" name:"history" help:"Print the recorded invocation history"`
}

type InvokeCmd struct {
	Operation string   `arg:"" help:"Operation name, e.g. CreateAssessment or auditmanager:CreateAssessment"`
	Args      []string `arg:"" optional:"" sep:"none" help:"Positional parameter values"`
	Param     []string `name:"param" short:"p" sep:"none" help:"Named parameter as Name=Value (repeatable)"`
	Select    string   `name:"select" short:"s" help:"Output selector: *, a response field or ^Param"`
	PassThru  bool     `name:"passthru" help:"Deprecated: output the operation's pass-through parameter"`
}

type BatchCmd struct {
	Operation       string `arg:"" help:"Operation name"`
	Input           string `name:"input" short:"i" default:"-" help:"JSON-lines input: path, file://, s3:// or - for stdin"`
	FromLine        int    `name:"from-line" default:"1" help:"First input line to process"`
	Select          string `name:"select" short:"s" help:"Output selector applied to every record"`
	PassThru        bool   `name:"passthru" help:"Deprecated: output the operation's pass-through parameter"`
	ContinueOnError bool   `name:"continue-on-error" help:"Keep going after a failed invocation"`
	Report          string `name:"report" help:"Write the run report to file:// or s3://"`
}

type ListCmd struct {
	Service string `arg:"" optional:"" help:"Only list operations of this service"`
}

type DescribeCmd struct {
	Operation string `arg:"" help:"Operation name"`
}

type HistoryCmd struct{}

type kongExitCode int

type commandDeps struct {
	newClients func(ctx context.Context, cfg *config.Config) (*aws.Clients, error)
	out        io.Writer
	errOut     io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], defaultDeps()))
}

func defaultDeps() commandDeps {
	return commandDeps{
		newClients: loadClients,
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
}

func loadClients(ctx context.Context, cfg *config.Config) (*aws.Clients, error) {
	awsCfg, err := cfg.LoadAWS(ctx)
	if err != nil {
		return nil, err
	}
	return aws.NewClients(awsCfg, cfg.EndpointURL), nil
}

func run(args []string, deps commandDeps) (exitCode int) {
	out := deps.out
	if out == nil {
		out = os.Stdout
	}
	errOut := deps.errOut
	if errOut == nil {
		errOut = os.Stderr
	}

	cli := CLI{}
	parser, err := kong.New(
		&cli,
		kong.Name("awsbind"),
		kong.Description("Invoke AWS Audit Manager and IoT Device Advisor operations."),
		kong.Writers(out, errOut),
		kong.Exit(func(code int) {
			panic(kongExitCode(code))
		}),
	)
	if err != nil {
		fmt.Fprintf(errOut, "Error: initialize command parser: %v\n", err)
		return exitError
	}
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		code, ok := recovered.(kongExitCode)
		if !ok {
			panic(recovered)
		}
		exitCode = int(code)
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		fmt.Fprintln(errOut, "Hint: run `awsbind --help`.")
		return exitArgument
	}

	switch kctx.Command() {
	case "list", "list <service>":
		return report(errOut, runList(cli.List, out))
	case "describe <operation>":
		return report(errOut, runDescribe(cli.Describe, out))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, &cli, deps, out, errOut)
	if err != nil {
		return report(errOut, err)
	}

	switch kctx.Command() {
	case "invoke <operation>", "invoke <operation> <args>":
		return report(errOut, a.invoke(ctx, cli.Invoke))
	case "batch <operation>":
		return report(errOut, a.batch(ctx, cli.Batch))
	case "history":
		return report(errOut, a.history(ctx))
	default:
		fmt.Fprintf(errOut, "Error: unsupported command: %s\n", kctx.Command())
		return exitError
	}
}

// report prints err and maps it to an exit code.
func report(errOut io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)

	var argErr *command.ArgumentError
	switch {
	case errors.As(err, &argErr):
		return exitArgument
	case command.Kind(err) == "service":
		return exitService
	case command.Kind(err) == "canceled", errors.Is(err, context.Canceled):
		return exitCanceled
	}
	return exitError
}

// app carries the state shared by the commands that talk to AWS.
type app struct {
	cfg     *config.Config
	clients *aws.Clients
	env     *command.Env
	out     io.Writer
	errOut  io.Writer
}

func newApp(ctx context.Context, cli *CLI, deps commandDeps, out, errOut io.Writer) (*app, error) {
	cfg := config.Default()
	cfg.Region = cli.Region
	cfg.Profile = cli.Profile
	cfg.EndpointURL = cli.EndpointURL
	cfg.Timeout = cli.Timeout
	cfg.HistoryURI = cli.HistoryURI
	cfg.OutputURI = cli.OutputURI
	cfg.Preflight = cli.Preflight
	cfg.PrincipalARN = cli.PrincipalARN
	cfg.LogLevel = cli.LogLevel

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	newClients := deps.newClients
	if newClients == nil {
		newClients = loadClients
	}
	clients, err := newClients(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.HistoryURI, clients, cli.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	env := &command.Env{
		Clients: clients,
		Config:  cfg,
		Logger:  logger,
		History: store,
		Metrics: metrics.NewMetrics(),
	}
	if cfg.Preflight {
		env.Authorizer = preflight.NewChecker(clients.IAM, clients.STS, cfg.PrincipalARN, logger)
	}

	return &app{cfg: cfg, clients: clients, env: env, out: out, errOut: errOut}, nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (a *app) invoke(ctx context.Context, c InvokeCmd) error {
	cmd, err := catalog.Lookup(c.Operation)
	if err != nil {
		return &command.ArgumentError{Operation: c.Operation, Param: "Operation", Message: err.Error()}
	}
	name := cmd.Info().Name

	named := make(map[string][]string)
	for _, p := range c.Param {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return &command.ArgumentError{Operation: name, Param: p, Message: "named parameters must be Name=Value"}
		}
		named[k] = append(named[k], v)
	}

	params := cmd.NewParams()
	if err := param.Bind(params, c.Args, named); err != nil {
		return &command.ArgumentError{Operation: name, Message: err.Error()}
	}

	res, err := cmd.Run(ctx, a.env, params, command.Options{Select: c.Select, PassThru: c.PassThru})
	if err != nil {
		return err
	}

	sink, err := output.Open(a.cfg.OutputURI, a.clients.S3, a.out)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, res.Output); err != nil {
		return err
	}
	return sink.Close(ctx)
}

func (a *app) batch(ctx context.Context, c BatchCmd) error {
	cmd, err := catalog.Lookup(c.Operation)
	if err != nil {
		return &command.ArgumentError{Operation: c.Operation, Param: "Operation", Message: err.Error()}
	}

	sink, err := output.Open(a.cfg.OutputURI, a.clients.S3, a.out)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(cmd, a.env, sink, batch.Config{
		InputURI:        c.Input,
		FromLine:        c.FromLine,
		Options:         command.Options{Select: c.Select, PassThru: c.PassThru},
		ContinueOnError: c.ContinueOnError,
		ReportURI:       c.Report,
	}, &batch.SinkUploader{S3: a.clients.S3}, a.errOut)

	_, runErr := runner.Run(ctx)
	if err := sink.Close(context.WithoutCancel(ctx)); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *app) history(ctx context.Context) error {
	entries, err := a.env.History.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		status := "ok"
		if e.ErrorKind != "" {
			status = e.ErrorKind + ": " + e.Error
		}
		fmt.Fprintf(a.out, "%s %s:%s %s %s\n",
			e.Time.Format(time.RFC3339), e.Service, e.Operation, e.Duration, status)
	}
	return nil
}

func runList(c ListCmd, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cmd := range catalog.All() {
		info := cmd.Info()
		if c.Service != "" && !strings.EqualFold(c.Service, info.Service) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Service, info.Name, info.Synopsis)
	}
	return tw.Flush()
}

func runDescribe(c DescribeCmd, out io.Writer) error {
	cmd, err := catalog.Lookup(c.Operation)
	if err != nil {
		return &command.ArgumentError{Operation: c.Operation, Param: "Operation", Message: err.Error()}
	}
	specs, err := cmd.Params()
	if err != nil {
		return err
	}

	info := cmd.Info()
	fmt.Fprintf(out, "%s (%s)\n%s\n", info.Name, info.Action(), info.Synopsis)
	fmt.Fprintf(out, "Default output: %s\n", info.Output)
	if info.PassThru != "" {
		fmt.Fprintf(out, "PassThru: %s\n", info.PassThru)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tREQUIRED\tPOSITION\tPIPELINE\tALIASES")
	for _, s := range specs {
		position := "named"
		if s.Position >= 0 {
			position = fmt.Sprint(s.Position)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\n",
			s.Name, s.Type, s.Required, position, s.Pipeline, strings.Join(s.Aliases, ","))
	}
	return tw.Flush()
}
