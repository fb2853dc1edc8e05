package auditmanager

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager/types"
	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/integration/mock"
	"github.com/gurre/awsbind/param"
)

func newEnv() (*command.Env, *mock.AuditManagerClient) {
	am := mock.NewAuditManagerClient()
	return &command.Env{Clients: &aws.Clients{AuditManager: am}}, am
}

func TestCreateAssessmentSparseRequest(t *testing.T) {
	p := &CreateAssessmentParams{Name: awssdk.String("widget-1")}
	in := CreateAssessment.Translate(p)

	if awssdk.ToString(in.Name) != "widget-1" {
		t.Errorf("expected Name widget-1, got %q", awssdk.ToString(in.Name))
	}
	if in.Description != nil || in.FrameworkId != nil {
		t.Error("expected unset optional fields to be omitted")
	}
	if in.Roles != nil || in.Tags != nil {
		t.Error("expected unset collections to be omitted")
	}
	if in.AssessmentReportsDestination != nil {
		t.Error("expected AssessmentReportsDestination group to be omitted")
	}
	if in.Scope != nil {
		t.Error("expected Scope group to be omitted")
	}
}

func TestCreateAssessmentGroups(t *testing.T) {
	tests := []struct {
		name      string
		params    CreateAssessmentParams
		wantDest  bool
		wantScope bool
	}{
		{
			name:     "destination only",
			params:   CreateAssessmentParams{AssessmentReportsDestination_Destination: awssdk.String("s3://reports")},
			wantDest: true,
		},
		{
			name:     "destination type only",
			params:   CreateAssessmentParams{AssessmentReportsDestination_DestinationType: awssdk.String("S3")},
			wantDest: true,
		},
		{
			name:      "scope accounts",
			params:    CreateAssessmentParams{Scope_AwsAccount: []types.AWSAccount{{Id: awssdk.String("111122223333")}}},
			wantScope: true,
		},
		{
			name:      "scope with empty service list",
			params:    CreateAssessmentParams{Scope_AwsService: []types.AWSService{}},
			wantScope: true,
		},
		{
			name:   "neither",
			params: CreateAssessmentParams{Name: awssdk.String("a")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := CreateAssessment.Translate(&tt.params)
			if got := in.AssessmentReportsDestination != nil; got != tt.wantDest {
				t.Errorf("AssessmentReportsDestination present = %v, want %v", got, tt.wantDest)
			}
			if got := in.Scope != nil; got != tt.wantScope {
				t.Errorf("Scope present = %v, want %v", got, tt.wantScope)
			}
		})
	}

	in := CreateAssessment.Translate(&CreateAssessmentParams{
		AssessmentReportsDestination_Destination:     awssdk.String("s3://reports"),
		AssessmentReportsDestination_DestinationType: awssdk.String("S3"),
	})
	if in.AssessmentReportsDestination.DestinationType != types.AssessmentReportDestinationTypeS3 {
		t.Errorf("expected destination type S3, got %q", in.AssessmentReportsDestination.DestinationType)
	}
}

func TestCreateAssessmentDefaultOutput(t *testing.T) {
	env, am := newEnv()
	p := &CreateAssessmentParams{
		Name:        awssdk.String("widget-1"),
		FrameworkId: awssdk.String("fw-1"),
		Role:        []types.Role{{RoleArn: awssdk.String("arn:aws:iam::111122223333:role/Auditor"), RoleType: types.RoleTypeProcessOwner}},
	}

	res, err := CreateAssessment.Execute(context.Background(), env, p, command.Options{})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	a, ok := res.Output.(*types.Assessment)
	if !ok {
		t.Fatalf("expected *types.Assessment output, got %T", res.Output)
	}
	if awssdk.ToString(a.Metadata.Name) != "widget-1" {
		t.Errorf("expected assessment name widget-1, got %q", awssdk.ToString(a.Metadata.Name))
	}
	if calls := am.Calls(); len(calls) != 1 || calls[0] != "CreateAssessment" {
		t.Errorf("expected one CreateAssessment call, got %v", calls)
	}
}

func TestCreateAssessmentMissingRequiredStillCalls(t *testing.T) {
	env, am := newEnv()

	res, err := CreateAssessment.Execute(context.Background(), env, &CreateAssessmentParams{Name: awssdk.String("widget-1")}, command.Options{})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}
	got := make(map[string]bool)
	for _, w := range res.Warnings {
		got[w.Param] = true
	}
	if !got["FrameworkId"] || !got["Role"] || len(got) != 2 {
		t.Errorf("expected warnings for FrameworkId and Role, got %v", res.Warnings)
	}
	if len(am.Calls()) != 1 {
		t.Errorf("expected the remote call to be made, got %v", am.Calls())
	}
}

func TestBindCreateAssessment(t *testing.T) {
	p := &CreateAssessmentParams{}
	err := param.Bind(p, []string{"widget-1"}, map[string][]string{
		"-FrameworkId":    {"fw-1"},
		"Role":            {`{"RoleArn":"arn:aws:iam::111122223333:role/Auditor","RoleType":"PROCESS_OWNER"}`},
		"destination":     {"s3://reports"},
		"DestinationType": {"S3"},
		"Tags":            {"env=dev", "team=audit"},
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	in := CreateAssessment.Translate(p)
	if awssdk.ToString(in.Name) != "widget-1" || awssdk.ToString(in.FrameworkId) != "fw-1" {
		t.Errorf("unexpected request identity: %q %q", awssdk.ToString(in.Name), awssdk.ToString(in.FrameworkId))
	}
	if len(in.Roles) != 1 || in.Roles[0].RoleType != types.RoleTypeProcessOwner {
		t.Errorf("unexpected roles: %+v", in.Roles)
	}
	if in.AssessmentReportsDestination == nil || awssdk.ToString(in.AssessmentReportsDestination.Destination) != "s3://reports" {
		t.Errorf("unexpected destination: %+v", in.AssessmentReportsDestination)
	}
	if in.Tags["team"] != "audit" || in.Tags["env"] != "dev" {
		t.Errorf("unexpected tags: %v", in.Tags)
	}
}

func TestDeleteAssessmentPassThru(t *testing.T) {
	env, am := newEnv()
	created, err := CreateAssessment.Execute(context.Background(), env, &CreateAssessmentParams{Name: awssdk.String("a")}, command.Options{})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}
	id := awssdk.ToString(created.Output.(*types.Assessment).Metadata.Id)

	res, err := DeleteAssessment.Execute(context.Background(), env, &DeleteAssessmentParams{AssessmentId: &id}, command.Options{PassThru: true})
	if err != nil {
		t.Fatalf("DeleteAssessment failed: %v", err)
	}
	if res.Output != id {
		t.Errorf("expected PassThru output %q, got %v", id, res.Output)
	}

	res, err = DeleteAssessment.Execute(context.Background(), env, &DeleteAssessmentParams{AssessmentId: &id}, command.Options{})
	var svcErr *command.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError for a deleted assessment, got %v", err)
	}
	if svcErr.Code != "ResourceNotFoundException" {
		t.Errorf("expected ResourceNotFoundException, got %q", svcErr.Code)
	}
	if res != nil {
		t.Errorf("expected no result on failure, got %+v", res)
	}
	if n := len(am.Calls()); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestDeleteAssessmentPassThruConflict(t *testing.T) {
	env, am := newEnv()
	_, err := DeleteAssessment.Execute(context.Background(), env,
		&DeleteAssessmentParams{AssessmentId: awssdk.String("a-0001")},
		command.Options{PassThru: true, Select: "*"})

	var argErr *command.ArgumentError
	if !errors.As(err, &argErr) || argErr.Param != "PassThru" {
		t.Fatalf("expected ArgumentError on PassThru, got %v", err)
	}
	if len(am.Calls()) != 0 {
		t.Errorf("expected no remote call, got %v", am.Calls())
	}
}

func TestListAssessmentsStatusFilter(t *testing.T) {
	in := ListAssessments.Translate(&ListAssessmentsParams{Status: awssdk.String("ACTIVE"), MaxResults: awssdk.Int32(5)})
	if in.Status != types.AssessmentStatusActive {
		t.Errorf("expected ACTIVE status, got %q", in.Status)
	}
	if awssdk.ToInt32(in.MaxResults) != 5 {
		t.Errorf("expected MaxResults 5, got %d", awssdk.ToInt32(in.MaxResults))
	}

	in = ListAssessments.Translate(&ListAssessmentsParams{})
	if in.Status != "" || in.MaxResults != nil || in.NextToken != nil {
		t.Errorf("expected an empty request, got %+v", in)
	}
}

func TestAccountStatus(t *testing.T) {
	env, _ := newEnv()

	res, err := GetAccountStatus.Execute(context.Background(), env, &GetAccountStatusParams{}, command.Options{})
	if err != nil {
		t.Fatalf("GetAccountStatus failed: %v", err)
	}
	if res.Output != types.AccountStatusInactive {
		t.Errorf("expected INACTIVE, got %v", res.Output)
	}

	if _, err := RegisterAccount.Execute(context.Background(), env, &RegisterAccountParams{}, command.Options{}); err != nil {
		t.Fatalf("RegisterAccount failed: %v", err)
	}
	res, err = GetAccountStatus.Execute(context.Background(), env, &GetAccountStatusParams{}, command.Options{Select: "*"})
	if err != nil {
		t.Fatalf("GetAccountStatus failed: %v", err)
	}
	if res.Output != res.Response {
		t.Errorf("expected the envelope selector to return the full response")
	}
}

func TestTagAndUntagResource(t *testing.T) {
	env, am := newEnv()
	arn := "arn:aws:auditmanager:us-east-1:111122223333:assessment/a-0001"

	res, err := TagResource.Execute(context.Background(), env,
		&TagResourceParams{ResourceArn: &arn, Tag: map[string]string{"env": "dev", "team": "audit"}}, command.Options{})
	if err != nil {
		t.Fatalf("TagResource failed: %v", err)
	}
	if res.Output != nil {
		t.Errorf("expected no output, got %v", res.Output)
	}

	if _, err := UntagResource.Execute(context.Background(), env,
		&UntagResourceParams{ResourceArn: &arn, TagKey: []string{"env"}}, command.Options{}); err != nil {
		t.Fatalf("UntagResource failed: %v", err)
	}
	tags := am.Tags(arn)
	if len(tags) != 1 || tags["team"] != "audit" {
		t.Errorf("unexpected tags after untag: %v", tags)
	}
}
