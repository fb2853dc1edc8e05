package command

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"
)

// ArgumentError is a local, fatal condition raised before any remote call,
// such as mutually exclusive options or an invalid selector.
type ArgumentError struct {
	Operation string
	Param     string
	Message   string
}

func (e *ArgumentError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: invalid argument: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: invalid argument %s: %s", e.Operation, e.Param, e.Message)
}

// ServiceError wraps a fault returned by the remote call.
type ServiceError struct {
	Service    string
	Operation  string
	Code       string // API error code when the fault carries one
	Diagnostic string // Connectivity diagnostic, empty for ordinary faults
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("%s: %v", e.Diagnostic, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// CanceledError reports an invocation aborted by its caller, either through
// cancellation or an expired deadline. It is never a ServiceError.
type CanceledError struct {
	Operation string
	Err       error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("%s canceled: %v", e.Operation, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// Kind classifies err for history records and exit codes.
func Kind(err error) string {
	var argErr *ArgumentError
	var svcErr *ServiceError
	var cancelErr *CanceledError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &argErr):
		return "argument"
	case errors.As(err, &cancelErr):
		return "canceled"
	case errors.As(err, &svcErr):
		return "service"
	}
	return "error"
}

// isCancellation reports whether the caller gave up on the call. A dial
// timeout also matches context.DeadlineExceeded, so only the invocation's own
// context or an SDK cancellation of a call that never hit the network count.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if isConnectivity(err) {
		return false
	}
	var smithyCanceled *smithy.CanceledError
	return errors.As(err, &smithyCanceled)
}

func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// translateError maps a failed call onto the error taxonomy.
func translateError(ctx context.Context, env *Env, info Info, err error) error {
	if isCancellation(ctx, err) {
		return &CanceledError{Operation: info.Name, Err: err}
	}

	svcErr := &ServiceError{
		Service:   info.Service,
		Operation: info.Name,
		Err:       err,
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		svcErr.Code = apiErr.ErrorCode()
	}
	if isConnectivity(err) {
		svcErr.Diagnostic = fmt.Sprintf(
			"name resolution or connection failure reaching service %s at endpoint %s in region %s",
			info.Service, env.endpoint(info), env.region())
	}
	return svcErr
}
