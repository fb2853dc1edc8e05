package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager/types"
)

// recorder tracks the calls made to a fake client and lets tests inject
// failures or block until the caller gives up.
type recorder struct {
	// Err is returned by every call when set
	Err error
	// Block makes every call wait for context cancellation
	Block bool

	mu     sync.Mutex
	calls  []string
	inputs []any
}

func (r *recorder) enter(ctx context.Context, name string, in any) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.inputs = append(r.inputs, in)
	r.mu.Unlock()

	if r.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.Err
}

// Calls returns the names of the operations called, in order
func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// LastInput returns the request of the most recent call
func (r *recorder) LastInput() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.inputs) == 0 {
		return nil
	}
	return r.inputs[len(r.inputs)-1]
}

// AuditManagerClient is a mock implementation of aws.AuditManagerClient.
// Assessments are kept in memory and identified by generated IDs.
type AuditManagerClient struct {
	recorder

	// Status is reported by GetAccountStatus and RegisterAccount
	Status types.AccountStatus

	assessments map[string]*types.Assessment
	order       []string
	tags        map[string]map[string]string
	nextID      int
}

// NewAuditManagerClient creates a new mock Audit Manager client
func NewAuditManagerClient() *AuditManagerClient {
	return &AuditManagerClient{
		Status:      types.AccountStatusInactive,
		assessments: make(map[string]*types.Assessment),
		tags:        make(map[string]map[string]string),
	}
}

func (m *AuditManagerClient) find(id *string) (*types.Assessment, error) {
	a, ok := m.assessments[aws.ToString(id)]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message:      aws.String("assessment not found"),
			ResourceId:   id,
			ResourceType: aws.String("ASSESSMENT"),
		}
	}
	return a, nil
}

// CreateAssessment stores a new assessment
func (m *AuditManagerClient) CreateAssessment(ctx context.Context, params *auditmanager.CreateAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.CreateAssessmentOutput, error) {
	if err := m.enter(ctx, "CreateAssessment", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("a-%04d", m.nextID)
	now := time.Now()
	a := &types.Assessment{
		Arn: aws.String("arn:aws:auditmanager:us-east-1:111122223333:assessment/" + id),
		Metadata: &types.AssessmentMetadata{
			Id:                           aws.String(id),
			Name:                         params.Name,
			Description:                  params.Description,
			Status:                       types.AssessmentStatusActive,
			Roles:                        params.Roles,
			Scope:                        params.Scope,
			AssessmentReportsDestination: params.AssessmentReportsDestination,
			CreationTime:                 &now,
			LastUpdated:                  &now,
		},
		Framework: &types.AssessmentFramework{Id: params.FrameworkId},
		Tags:      params.Tags,
	}
	m.assessments[id] = a
	m.order = append(m.order, id)
	return &auditmanager.CreateAssessmentOutput{Assessment: a}, nil
}

// GetAssessment returns a stored assessment
func (m *AuditManagerClient) GetAssessment(ctx context.Context, params *auditmanager.GetAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.GetAssessmentOutput, error) {
	if err := m.enter(ctx, "GetAssessment", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.find(params.AssessmentId)
	if err != nil {
		return nil, err
	}
	return &auditmanager.GetAssessmentOutput{Assessment: a}, nil
}

// UpdateAssessment edits a stored assessment
func (m *AuditManagerClient) UpdateAssessment(ctx context.Context, params *auditmanager.UpdateAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.UpdateAssessmentOutput, error) {
	if err := m.enter(ctx, "UpdateAssessment", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.find(params.AssessmentId)
	if err != nil {
		return nil, err
	}
	if params.AssessmentName != nil {
		a.Metadata.Name = params.AssessmentName
	}
	if params.AssessmentDescription != nil {
		a.Metadata.Description = params.AssessmentDescription
	}
	if params.Roles != nil {
		a.Metadata.Roles = params.Roles
	}
	if params.Scope != nil {
		a.Metadata.Scope = params.Scope
	}
	if params.AssessmentReportsDestination != nil {
		a.Metadata.AssessmentReportsDestination = params.AssessmentReportsDestination
	}
	now := time.Now()
	a.Metadata.LastUpdated = &now
	return &auditmanager.UpdateAssessmentOutput{Assessment: a}, nil
}

// DeleteAssessment removes a stored assessment
func (m *AuditManagerClient) DeleteAssessment(ctx context.Context, params *auditmanager.DeleteAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.DeleteAssessmentOutput, error) {
	if err := m.enter(ctx, "DeleteAssessment", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.find(params.AssessmentId); err != nil {
		return nil, err
	}
	id := aws.ToString(params.AssessmentId)
	delete(m.assessments, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return &auditmanager.DeleteAssessmentOutput{}, nil
}

// ListAssessments returns the metadata of every stored assessment
func (m *AuditManagerClient) ListAssessments(ctx context.Context, params *auditmanager.ListAssessmentsInput, optFns ...func(*auditmanager.Options)) (*auditmanager.ListAssessmentsOutput, error) {
	if err := m.enter(ctx, "ListAssessments", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &auditmanager.ListAssessmentsOutput{}
	for _, id := range m.order {
		a := m.assessments[id]
		if params.Status != "" && a.Metadata.Status != params.Status {
			continue
		}
		out.AssessmentMetadata = append(out.AssessmentMetadata, types.AssessmentMetadataItem{
			Id:     a.Metadata.Id,
			Name:   a.Metadata.Name,
			Status: a.Metadata.Status,
		})
	}
	return out, nil
}

// CreateAssessmentReport returns a report descriptor for a stored assessment
func (m *AuditManagerClient) CreateAssessmentReport(ctx context.Context, params *auditmanager.CreateAssessmentReportInput, optFns ...func(*auditmanager.Options)) (*auditmanager.CreateAssessmentReportOutput, error) {
	if err := m.enter(ctx, "CreateAssessmentReport", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.find(params.AssessmentId)
	if err != nil {
		return nil, err
	}
	return &auditmanager.CreateAssessmentReportOutput{
		AssessmentReport: &types.AssessmentReport{
			Id:             aws.String("r-" + aws.ToString(a.Metadata.Id)),
			Name:           params.Name,
			Description:    params.Description,
			AssessmentId:   a.Metadata.Id,
			AssessmentName: a.Metadata.Name,
			Status:         types.AssessmentReportStatusInProgress,
		},
	}, nil
}

// RegisterAccount activates the account
func (m *AuditManagerClient) RegisterAccount(ctx context.Context, params *auditmanager.RegisterAccountInput, optFns ...func(*auditmanager.Options)) (*auditmanager.RegisterAccountOutput, error) {
	if err := m.enter(ctx, "RegisterAccount", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Status = types.AccountStatusActive
	return &auditmanager.RegisterAccountOutput{Status: m.Status}, nil
}

// GetAccountStatus reports the account status
func (m *AuditManagerClient) GetAccountStatus(ctx context.Context, params *auditmanager.GetAccountStatusInput, optFns ...func(*auditmanager.Options)) (*auditmanager.GetAccountStatusOutput, error) {
	if err := m.enter(ctx, "GetAccountStatus", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &auditmanager.GetAccountStatusOutput{Status: m.Status}, nil
}

// TagResource merges tags into a resource
func (m *AuditManagerClient) TagResource(ctx context.Context, params *auditmanager.TagResourceInput, optFns ...func(*auditmanager.Options)) (*auditmanager.TagResourceOutput, error) {
	if err := m.enter(ctx, "TagResource", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	arn := aws.ToString(params.ResourceArn)
	if m.tags[arn] == nil {
		m.tags[arn] = make(map[string]string)
	}
	for k, v := range params.Tags {
		m.tags[arn][k] = v
	}
	return &auditmanager.TagResourceOutput{}, nil
}

// UntagResource removes tag keys from a resource
func (m *AuditManagerClient) UntagResource(ctx context.Context, params *auditmanager.UntagResourceInput, optFns ...func(*auditmanager.Options)) (*auditmanager.UntagResourceOutput, error) {
	if err := m.enter(ctx, "UntagResource", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range params.TagKeys {
		delete(m.tags[aws.ToString(params.ResourceArn)], k)
	}
	return &auditmanager.UntagResourceOutput{}, nil
}

// Tags returns the tags recorded for a resource
func (m *AuditManagerClient) Tags(arn string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.tags[arn]))
	for k, v := range m.tags[arn] {
		out[k] = v
	}
	return out
}
