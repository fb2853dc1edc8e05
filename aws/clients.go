package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gurre/s3streamer"
)

// Clients bundles every service client a command may need.
// Fields are interfaces so tests can fill in only what they exercise.
type Clients struct {
	AuditManager  AuditManagerClient
	DeviceAdvisor DeviceAdvisorClient
	S3            S3Client
	DynamoDB      DynamoDBClient
	IAM           IAMClient
	STS           STSClient
	Streamer      s3streamer.Streamer
}

// NewClients builds SDK clients from cfg. A non-empty endpoint overrides the
// resolved endpoint of the two wrapped services only; the supporting clients
// (S3, DynamoDB, IAM, STS) always use their regional defaults.
func NewClients(cfg awssdk.Config, endpoint string) *Clients {
	rawS3 := s3.NewFromConfig(cfg)

	return &Clients{
		AuditManager: auditmanager.NewFromConfig(cfg, func(o *auditmanager.Options) {
			if endpoint != "" {
				o.BaseEndpoint = awssdk.String(endpoint)
			}
		}),
		DeviceAdvisor: iotdeviceadvisor.NewFromConfig(cfg, func(o *iotdeviceadvisor.Options) {
			if endpoint != "" {
				o.BaseEndpoint = awssdk.String(endpoint)
			}
		}),
		S3:       rawS3,
		DynamoDB: dynamodb.NewFromConfig(cfg),
		IAM:      iam.NewFromConfig(cfg),
		STS:      sts.NewFromConfig(cfg),
		Streamer: s3streamer.NewS3Streamer(rawS3),
	}
}
