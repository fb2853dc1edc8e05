// Package aws declares the narrow AWS service interfaces the commands depend on.
// Each interface mirrors the method signatures of the corresponding SDK v2 client,
// so the SDK clients satisfy them directly and tests can substitute fakes.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/auditmanager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AuditManagerClient defines the AWS Audit Manager operations exposed as commands.
type AuditManagerClient interface {
	CreateAssessment(ctx context.Context, params *auditmanager.CreateAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.CreateAssessmentOutput, error)
	GetAssessment(ctx context.Context, params *auditmanager.GetAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.GetAssessmentOutput, error)
	UpdateAssessment(ctx context.Context, params *auditmanager.UpdateAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.UpdateAssessmentOutput, error)
	DeleteAssessment(ctx context.Context, params *auditmanager.DeleteAssessmentInput, optFns ...func(*auditmanager.Options)) (*auditmanager.DeleteAssessmentOutput, error)
	ListAssessments(ctx context.Context, params *auditmanager.ListAssessmentsInput, optFns ...func(*auditmanager.Options)) (*auditmanager.ListAssessmentsOutput, error)
	CreateAssessmentReport(ctx context.Context, params *auditmanager.CreateAssessmentReportInput, optFns ...func(*auditmanager.Options)) (*auditmanager.CreateAssessmentReportOutput, error)
	RegisterAccount(ctx context.Context, params *auditmanager.RegisterAccountInput, optFns ...func(*auditmanager.Options)) (*auditmanager.RegisterAccountOutput, error)
	GetAccountStatus(ctx context.Context, params *auditmanager.GetAccountStatusInput, optFns ...func(*auditmanager.Options)) (*auditmanager.GetAccountStatusOutput, error)
	TagResource(ctx context.Context, params *auditmanager.TagResourceInput, optFns ...func(*auditmanager.Options)) (*auditmanager.TagResourceOutput, error)
	UntagResource(ctx context.Context, params *auditmanager.UntagResourceInput, optFns ...func(*auditmanager.Options)) (*auditmanager.UntagResourceOutput, error)
}

// DeviceAdvisorClient defines the AWS IoT Device Advisor operations exposed as commands.
type DeviceAdvisorClient interface {
	CreateSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.CreateSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.CreateSuiteDefinitionOutput, error)
	GetSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.GetSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.GetSuiteDefinitionOutput, error)
	DeleteSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.DeleteSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.DeleteSuiteDefinitionOutput, error)
	ListSuiteDefinitions(ctx context.Context, params *iotdeviceadvisor.ListSuiteDefinitionsInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.ListSuiteDefinitionsOutput, error)
	StartSuiteRun(ctx context.Context, params *iotdeviceadvisor.StartSuiteRunInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.StartSuiteRunOutput, error)
	StopSuiteRun(ctx context.Context, params *iotdeviceadvisor.StopSuiteRunInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.StopSuiteRunOutput, error)
	GetEndpoint(ctx context.Context, params *iotdeviceadvisor.GetEndpointInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.GetEndpointOutput, error)
	ListTagsForResource(ctx context.Context, params *iotdeviceadvisor.ListTagsForResourceInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.ListTagsForResourceOutput, error)
}

// S3Client defines the S3 operations used by the output sink and the S3 history store.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DynamoDBClient defines the DynamoDB operations used by the DynamoDB history store.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// IAMClient defines the IAM operations used for preflight permission simulation.
type IAMClient interface {
	SimulatePrincipalPolicy(ctx context.Context, params *iam.SimulatePrincipalPolicyInput, optFns ...func(*iam.Options)) (*iam.SimulatePrincipalPolicyOutput, error)
}

// STSClient resolves the calling principal for preflight checks.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Compile-time checks that the SDK clients satisfy the interfaces
var (
	_ AuditManagerClient  = (*auditmanager.Client)(nil)
	_ DeviceAdvisorClient = (*iotdeviceadvisor.Client)(nil)
	_ S3Client            = (*s3.Client)(nil)
	_ DynamoDBClient      = (*dynamodb.Client)(nil)
	_ IAMClient           = (*iam.Client)(nil)
	_ STSClient           = (*sts.Client)(nil)
)
