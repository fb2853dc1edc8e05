// Package preflight checks IAM permissions before an operation is invoked by
// simulating the caller's policies.
package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gurre/awsbind/aws"
)

// DeniedError reports an action the principal is not allowed to perform.
type DeniedError struct {
	Action    string
	Principal string
	Decision  string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("preflight: %s is not allowed for %s (%s)", e.Action, e.Principal, e.Decision)
}

// Checker implements command.Authorizer using iam:SimulatePrincipalPolicy.
// The principal is resolved once and decisions are cached per action.
type Checker struct {
	iam       aws.IAMClient
	sts       aws.STSClient
	logger    *slog.Logger
	principal string

	mu        sync.Mutex
	decisions map[string]string
}

// NewChecker creates a checker. When principal is empty the caller identity
// is resolved through STS on first use.
func NewChecker(iamClient aws.IAMClient, stsClient aws.STSClient, principal string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		iam:       iamClient,
		sts:       stsClient,
		logger:    logger,
		principal: principal,
		decisions: make(map[string]string),
	}
}

// Authorize returns nil when the action is allowed and a *DeniedError otherwise.
func (c *Checker) Authorize(ctx context.Context, action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	principal, err := c.resolvePrincipal(ctx)
	if err != nil {
		return err
	}

	decision, ok := c.decisions[action]
	if !ok {
		decision, err = c.simulate(ctx, principal, action)
		if err != nil {
			return err
		}
		c.decisions[action] = decision
	}

	c.logger.Debug("preflight decision",
		slog.String("action", action),
		slog.String("principal", principal),
		slog.String("decision", decision))

	if decision != string(types.PolicyEvaluationDecisionTypeAllowed) {
		return &DeniedError{Action: action, Principal: principal, Decision: decision}
	}
	return nil
}

func (c *Checker) resolvePrincipal(ctx context.Context) (string, error) {
	if c.principal != "" {
		return c.principal, nil
	}
	if c.sts == nil {
		return "", fmt.Errorf("preflight: no principal configured and no STS client available")
	}

	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("preflight: failed to resolve caller identity: %w", err)
	}
	c.principal = PrincipalARN(awssdk.ToString(out.Arn))
	return c.principal, nil
}

func (c *Checker) simulate(ctx context.Context, principal, action string) (string, error) {
	out, err := c.iam.SimulatePrincipalPolicy(ctx, &iam.SimulatePrincipalPolicyInput{
		PolicySourceArn: awssdk.String(principal),
		ActionNames:     []string{action},
	})
	if err != nil {
		return "", fmt.Errorf("preflight: failed to simulate %s: %w", action, err)
	}

	for _, r := range out.EvaluationResults {
		if strings.EqualFold(awssdk.ToString(r.EvalActionName), action) {
			return string(r.EvalDecision), nil
		}
	}
	return string(types.PolicyEvaluationDecisionTypeImplicitDeny), nil
}

// PrincipalARN maps an STS caller ARN to an ARN that can be simulated.
// Assumed-role sessions become the underlying role; anything else is
// returned unchanged.
//
//	arn:aws:sts::123456789012:assumed-role/Admin/session
//	arn:aws:iam::123456789012:role/Admin
func PrincipalARN(callerARN string) string {
	parts := strings.SplitN(callerARN, ":", 6)
	if len(parts) != 6 || parts[2] != "sts" {
		return callerARN
	}
	resource := strings.Split(parts[5], "/")
	if len(resource) < 3 || resource[0] != "assumed-role" {
		return callerARN
	}
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", parts[1], parts[4], resource[1])
}
