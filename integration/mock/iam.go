package mock

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// IAMClient is a mock implementation of aws.IAMClient. Actions listed in
// Denied evaluate to an implicit deny; every other action is allowed.
type IAMClient struct {
	Denied map[string]bool
	Err    error

	mu     sync.Mutex
	inputs []*iam.SimulatePrincipalPolicyInput
}

// NewIAMClient creates a mock IAM client denying the given actions
func NewIAMClient(denied ...string) *IAMClient {
	m := &IAMClient{Denied: make(map[string]bool)}
	for _, a := range denied {
		m.Denied[a] = true
	}
	return m
}

// SimulatePrincipalPolicy evaluates each requested action against Denied
func (m *IAMClient) SimulatePrincipalPolicy(ctx context.Context, params *iam.SimulatePrincipalPolicyInput, optFns ...func(*iam.Options)) (*iam.SimulatePrincipalPolicyOutput, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, params)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := &iam.SimulatePrincipalPolicyOutput{}
	for _, action := range params.ActionNames {
		decision := types.PolicyEvaluationDecisionTypeAllowed
		if m.Denied[action] {
			decision = types.PolicyEvaluationDecisionTypeImplicitDeny
		}
		out.EvaluationResults = append(out.EvaluationResults, types.EvaluationResult{
			EvalActionName: aws.String(action),
			EvalDecision:   decision,
		})
	}
	return out, nil
}

// Inputs returns the recorded simulation requests
func (m *IAMClient) Inputs() []*iam.SimulatePrincipalPolicyInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*iam.SimulatePrincipalPolicyInput(nil), m.inputs...)
}

// STSClient is a mock implementation of aws.STSClient returning a fixed identity
type STSClient struct {
	Account string
	Arn     string
	Err     error

	mu    sync.Mutex
	calls int
}

// GetCallerIdentity returns the configured identity
func (m *STSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(m.Account),
		Arn:     aws.String(m.Arn),
		UserId:  aws.String("AIDAEXAMPLE"),
	}, nil
}

// Calls returns the number of GetCallerIdentity calls
func (m *STSClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
