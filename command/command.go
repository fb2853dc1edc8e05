// Package command runs one remote operation through a fixed linear pipeline:
//
//	BuildContext -> Translate -> Invoke -> Select
//
// BuildContext copies the bound parameters, reports missing required values as
// warnings and resolves the output selector. Translate maps the parameters onto
// the SDK input. Invoke performs exactly one call and classifies its failure.
// Select projects the response into the command's output.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/config"
	"github.com/gurre/awsbind/history"
	"github.com/gurre/awsbind/metrics"
	"github.com/gurre/awsbind/param"
	"github.com/gurre/awsbind/selector"
)

// Authorizer checks whether the caller may perform an IAM action.
type Authorizer interface {
	Authorize(ctx context.Context, action string) error
}

// Env is the configuration handed to a single invocation. Every field except
// Clients is optional.
type Env struct {
	Clients    *aws.Clients
	Config     *config.Config
	Logger     *slog.Logger
	History    history.Store
	Metrics    *metrics.Metrics
	Authorizer Authorizer
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Env) region() string {
	if e.Config == nil {
		return ""
	}
	return e.Config.Region
}

func (e *Env) endpoint(info Info) string {
	if e.Config == nil {
		return info.Host
	}
	return e.Config.Endpoint(info.Host)
}

// Info is the static description of an operation.
type Info struct {
	Service  string            // Service identifier and IAM prefix, e.g. "auditmanager"
	Name     string            // Operation name, e.g. "CreateAssessment"
	Host     string            // Endpoint host prefix, e.g. "auditmanager"
	Output   selector.Selector // Default output selector
	PassThru string            // Parameter reflected by the PassThru switch, empty if unsupported
	Synopsis string            // One-line description
}

// Action returns the IAM action name of the operation.
func (i Info) Action() string {
	return i.Service + ":" + i.Name
}

// Options are the caller's output choices.
type Options struct {
	Select   string // Selector expression, empty for the operation default
	PassThru bool   // Deprecated: reflect the operation's PassThru parameter
}

// Result is the outcome of a successful invocation.
type Result struct {
	Output   any             // Selected output, nil when the selector yields nothing
	Warnings []param.Warning // Binding warnings raised while building the context
	Request  any             // Translated request envelope
	Response any             // Full response envelope
}

// Command is an operation with its parameter type erased, as stored in a catalog.
type Command interface {
	Info() Info
	NewParams() any
	Params() ([]param.Spec, error)
	Run(ctx context.Context, env *Env, params any, opts Options) (*Result, error)
}

// Operation binds a parameter struct P to one SDK call taking In and returning Out.
type Operation[P, In, Out any] struct {
	Meta      Info
	Translate func(p *P) *In
	Call      func(ctx context.Context, c *aws.Clients, in *In) (*Out, error)
}

var _ Command = (*Operation[struct{}, struct{}, struct{}])(nil)

// Info returns the operation description.
func (o *Operation[P, In, Out]) Info() Info { return o.Meta }

// NewParams returns a fresh *P.
func (o *Operation[P, In, Out]) NewParams() any { return new(P) }

// Params describes the parameter surface.
func (o *Operation[P, In, Out]) Params() ([]param.Spec, error) {
	return param.DescribeType(reflect.TypeFor[P]())
}

// Run implements Command.
func (o *Operation[P, In, Out]) Run(ctx context.Context, env *Env, params any, opts Options) (*Result, error) {
	p, ok := params.(*P)
	if !ok {
		return nil, fmt.Errorf("%s: parameters must be %T, got %T", o.Meta.Name, new(P), params)
	}
	return o.Execute(ctx, env, p, opts)
}

// Execute runs the pipeline for typed parameters.
func (o *Operation[P, In, Out]) Execute(ctx context.Context, env *Env, params *P, opts Options) (*Result, error) {
	start := time.Now()
	logger := env.logger().With(
		slog.String("service", o.Meta.Service),
		slog.String("operation", o.Meta.Name))

	if env.Metrics != nil {
		env.Metrics.RecordInvocation()
	}

	ic, warnings, err := BuildContext[P, Out](o.Meta, params, opts)
	if err != nil {
		o.finish(ctx, env, logger, start, nil, nil, err)
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn("binding warning", slog.String("param", w.Param), slog.String("reason", w.Reason))
		if env.Metrics != nil {
			env.Metrics.RecordWarning()
		}
	}

	if env.Authorizer != nil {
		if err := env.Authorizer.Authorize(ctx, o.Meta.Action()); err != nil {
			o.finish(ctx, env, logger, start, nil, nil, err)
			return nil, err
		}
	}

	in := o.Translate(ic.Params)

	out, err := Invoke(ctx, env, o.Meta, o.Call, in)
	if err != nil {
		o.finish(ctx, env, logger, start, in, nil, err)
		return nil, err
	}

	selected, err := Select(ic, out)
	if err != nil {
		err = fmt.Errorf("%s: failed to select output: %w", o.Meta.Name, err)
		o.finish(ctx, env, logger, start, in, nil, err)
		return nil, err
	}

	o.finish(ctx, env, logger, start, in, selected, nil)
	return &Result{
		Output:   selected,
		Warnings: warnings,
		Request:  in,
		Response: out,
	}, nil
}

// finish records the outcome in metrics, the log and the history store.
// A history failure is logged and never changes the invocation result.
func (o *Operation[P, In, Out]) finish(ctx context.Context, env *Env, logger *slog.Logger,
	start time.Time, request, output any, err error) {
	elapsed := time.Since(start)
	kind := Kind(err)

	if env.Metrics != nil {
		env.Metrics.RecordProcessingTime(elapsed)
		switch kind {
		case "argument":
			env.Metrics.RecordArgumentError()
		case "service":
			env.Metrics.RecordServiceError()
		case "error":
			env.Metrics.RecordError()
		case "canceled":
			env.Metrics.RecordCancellation()
		}
	}

	if err != nil {
		logger.Debug("invocation failed", slog.String("kind", kind), slog.Duration("duration", elapsed), slog.Any("error", err))
	} else {
		logger.Debug("invocation completed", slog.Duration("duration", elapsed))
	}

	if env.History == nil {
		return
	}
	entry := history.NewEntry(o.Meta.Service, o.Meta.Name, start, elapsed, request, output, kind, err)
	// the history write must not be skipped because the invocation itself was canceled
	if herr := env.History.Append(context.WithoutCancel(ctx), entry); herr != nil {
		logger.Warn("failed to record history", slog.Any("error", herr))
	}
}

// Context is the per-invocation state built from the caller's parameters.
// It owns a private copy of the parameters.
type Context[P any] struct {
	Operation string
	Params    *P
	Selector  selector.Selector
}

// BuildContext copies params, checks required values and resolves the output
// selector. Missing required values yield warnings; only conflicting or invalid
// output options yield an *ArgumentError.
func BuildContext[P, Out any](info Info, params *P, opts Options) (*Context[P], []param.Warning, error) {
	if opts.PassThru {
		if opts.Select != "" {
			return nil, nil, &ArgumentError{
				Operation: info.Name,
				Param:     "PassThru",
				Message:   "PassThru cannot be combined with Select; use Select '^Param' instead",
			}
		}
		if info.PassThru == "" {
			return nil, nil, &ArgumentError{
				Operation: info.Name,
				Param:     "PassThru",
				Message:   "operation has no parameter to pass through",
			}
		}
	}

	owned := param.Clone(params)
	if owned == nil {
		owned = new(P)
	}

	warnings, err := param.Check(owned)
	if err != nil {
		return nil, nil, err
	}

	sel, err := selector.Parse(opts.Select)
	if err != nil {
		return nil, nil, &ArgumentError{Operation: info.Name, Param: "Select", Message: err.Error()}
	}
	if opts.PassThru {
		sel = selector.Input(info.PassThru)
	}
	sel = sel.Or(info.Output)
	if err := sel.Check(reflect.TypeFor[Out](), reflect.TypeFor[P]()); err != nil {
		return nil, nil, &ArgumentError{Operation: info.Name, Param: "Select", Message: err.Error()}
	}

	return &Context[P]{
		Operation: info.Name,
		Params:    owned,
		Selector:  sel,
	}, warnings, nil
}

// Invoke performs exactly one call. It does not retry; a cancelled context
// yields *CanceledError and any other failure yields *ServiceError.
func Invoke[In, Out any](ctx context.Context, env *Env, info Info,
	call func(context.Context, *aws.Clients, *In) (*Out, error), in *In) (*Out, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CanceledError{Operation: info.Name, Err: err}
	}
	if env.Config != nil && env.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, env.Config.Timeout)
		defer cancel()
	}

	out, err := call(ctx, env.Clients, in)
	if err != nil {
		return nil, translateError(ctx, env, info, err)
	}
	return out, nil
}

// Select applies the context's selector to the response.
func Select[P, Out any](ic *Context[P], out *Out) (any, error) {
	return ic.Selector.Select(out, ic.Params)
}
