// Package auditmanager exposes AWS Audit Manager operations as commands.
package auditmanager

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/auditmanager"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager/types"
	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/request"
	"github.com/gurre/awsbind/selector"
)

const (
	service = "auditmanager"
	host    = "auditmanager"
)

func info(name, synopsis string, output selector.Selector, passThru string) command.Info {
	return command.Info{
		Service:  service,
		Name:     name,
		Host:     host,
		Output:   output,
		PassThru: passThru,
		Synopsis: synopsis,
	}
}

// Operations returns every Audit Manager command.
func Operations() []command.Command {
	return []command.Command{
		CreateAssessment,
		GetAssessment,
		UpdateAssessment,
		DeleteAssessment,
		ListAssessments,
		CreateAssessmentReport,
		RegisterAccount,
		GetAccountStatus,
		TagResource,
		UntagResource,
	}
}

// CreateAssessmentParams are the parameters of CreateAssessment.
type CreateAssessmentParams struct {
	Name                                         *string            `param:"Name" validate:"required" position:"0" pipeline:"value"`
	Description                                  *string            `param:"Description" pipeline:"property"`
	FrameworkId                                  *string            `param:"FrameworkId" validate:"required" pipeline:"property"`
	AssessmentReportsDestination_Destination     *string            `param:"AssessmentReportsDestination_Destination" alias:"Destination" pipeline:"property"`
	AssessmentReportsDestination_DestinationType *string            `param:"AssessmentReportsDestination_DestinationType" alias:"DestinationType" pipeline:"property"`
	Role                                         []types.Role       `param:"Role" validate:"required" pipeline:"property"`
	Scope_AwsAccount                             []types.AWSAccount `param:"Scope_AwsAccount" alias:"AwsAccount" pipeline:"property"`
	Scope_AwsService                             []types.AWSService `param:"Scope_AwsService" alias:"AwsService" pipeline:"property"`
	Tag                                          map[string]string  `param:"Tag" alias:"Tags" pipeline:"property"`
}

func reportsDestination(dest, destType *string) *types.AssessmentReportsDestination {
	var g request.Group
	var d types.AssessmentReportsDestination
	request.Set(&g, &d.Destination, dest)
	request.SetEnum(&g, &d.DestinationType, destType)
	return request.Attach(&g, &d)
}

func scope(accounts []types.AWSAccount, services []types.AWSService) *types.Scope {
	var g request.Group
	var s types.Scope
	request.SetSlice(&g, &s.AwsAccounts, accounts)
	request.SetSlice(&g, &s.AwsServices, services)
	return request.Attach(&g, &s)
}

// CreateAssessment creates an assessment from a framework.
var CreateAssessment = &command.Operation[CreateAssessmentParams, auditmanager.CreateAssessmentInput, auditmanager.CreateAssessmentOutput]{
	Meta: info("CreateAssessment", "Creates an assessment in Audit Manager.", selector.Field("Assessment"), ""),
	Translate: func(p *CreateAssessmentParams) *auditmanager.CreateAssessmentInput {
		in := &auditmanager.CreateAssessmentInput{
			Name:        p.Name,
			Description: p.Description,
			FrameworkId: p.FrameworkId,
			Roles:       p.Role,
			Tags:        p.Tag,
		}
		in.AssessmentReportsDestination = reportsDestination(
			p.AssessmentReportsDestination_Destination, p.AssessmentReportsDestination_DestinationType)
		in.Scope = scope(p.Scope_AwsAccount, p.Scope_AwsService)
		return in
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.CreateAssessmentInput) (*auditmanager.CreateAssessmentOutput, error) {
		return c.AuditManager.CreateAssessment(ctx, in)
	},
}

// GetAssessmentParams are the parameters of GetAssessment.
type GetAssessmentParams struct {
	AssessmentId *string `param:"AssessmentId" validate:"required" position:"0" pipeline:"value"`
}

// GetAssessment returns an assessment.
var GetAssessment = &command.Operation[GetAssessmentParams, auditmanager.GetAssessmentInput, auditmanager.GetAssessmentOutput]{
	Meta: info("GetAssessment", "Gets information about a specified assessment.", selector.Field("Assessment"), ""),
	Translate: func(p *GetAssessmentParams) *auditmanager.GetAssessmentInput {
		return &auditmanager.GetAssessmentInput{AssessmentId: p.AssessmentId}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.GetAssessmentInput) (*auditmanager.GetAssessmentOutput, error) {
		return c.AuditManager.GetAssessment(ctx, in)
	},
}

// UpdateAssessmentParams are the parameters of UpdateAssessment.
type UpdateAssessmentParams struct {
	AssessmentId                                 *string            `param:"AssessmentId" validate:"required" position:"0" pipeline:"value"`
	AssessmentName                               *string            `param:"AssessmentName" pipeline:"property"`
	AssessmentDescription                        *string            `param:"AssessmentDescription" pipeline:"property"`
	AssessmentReportsDestination_Destination     *string            `param:"AssessmentReportsDestination_Destination" alias:"Destination" pipeline:"property"`
	AssessmentReportsDestination_DestinationType *string            `param:"AssessmentReportsDestination_DestinationType" alias:"DestinationType" pipeline:"property"`
	Role                                         []types.Role       `param:"Role" pipeline:"property"`
	Scope_AwsAccount                             []types.AWSAccount `param:"Scope_AwsAccount" alias:"AwsAccount" pipeline:"property"`
	Scope_AwsService                             []types.AWSService `param:"Scope_AwsService" alias:"AwsService" pipeline:"property"`
}

// UpdateAssessment edits an assessment.
var UpdateAssessment = &command.Operation[UpdateAssessmentParams, auditmanager.UpdateAssessmentInput, auditmanager.UpdateAssessmentOutput]{
	Meta: info("UpdateAssessment", "Edits an Audit Manager assessment.", selector.Field("Assessment"), ""),
	Translate: func(p *UpdateAssessmentParams) *auditmanager.UpdateAssessmentInput {
		in := &auditmanager.UpdateAssessmentInput{
			AssessmentId:          p.AssessmentId,
			AssessmentName:        p.AssessmentName,
			AssessmentDescription: p.AssessmentDescription,
			Roles:                 p.Role,
		}
		in.AssessmentReportsDestination = reportsDestination(
			p.AssessmentReportsDestination_Destination, p.AssessmentReportsDestination_DestinationType)
		in.Scope = scope(p.Scope_AwsAccount, p.Scope_AwsService)
		return in
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.UpdateAssessmentInput) (*auditmanager.UpdateAssessmentOutput, error) {
		return c.AuditManager.UpdateAssessment(ctx, in)
	},
}

// DeleteAssessmentParams are the parameters of DeleteAssessment.
type DeleteAssessmentParams struct {
	AssessmentId *string `param:"AssessmentId" validate:"required" position:"0" pipeline:"value"`
}

// DeleteAssessment deletes an assessment.
var DeleteAssessment = &command.Operation[DeleteAssessmentParams, auditmanager.DeleteAssessmentInput, auditmanager.DeleteAssessmentOutput]{
	Meta: info("DeleteAssessment", "Deletes an assessment in Audit Manager.", selector.None(), "AssessmentId"),
	Translate: func(p *DeleteAssessmentParams) *auditmanager.DeleteAssessmentInput {
		return &auditmanager.DeleteAssessmentInput{AssessmentId: p.AssessmentId}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.DeleteAssessmentInput) (*auditmanager.DeleteAssessmentOutput, error) {
		return c.AuditManager.DeleteAssessment(ctx, in)
	},
}

// ListAssessmentsParams are the parameters of ListAssessments.
type ListAssessmentsParams struct {
	Status     *string `param:"Status" position:"0"`
	MaxResults *int32  `param:"MaxResult" alias:"MaxResults,MaxItems"`
	NextToken  *string `param:"NextToken"`
}

// ListAssessments returns one page of assessment metadata.
var ListAssessments = &command.Operation[ListAssessmentsParams, auditmanager.ListAssessmentsInput, auditmanager.ListAssessmentsOutput]{
	Meta: info("ListAssessments", "Returns a list of current and past assessments.", selector.Field("AssessmentMetadata"), ""),
	Translate: func(p *ListAssessmentsParams) *auditmanager.ListAssessmentsInput {
		return &auditmanager.ListAssessmentsInput{
			Status:     request.Enum[types.AssessmentStatus](p.Status),
			MaxResults: p.MaxResults,
			NextToken:  p.NextToken,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.ListAssessmentsInput) (*auditmanager.ListAssessmentsOutput, error) {
		return c.AuditManager.ListAssessments(ctx, in)
	},
}

// CreateAssessmentReportParams are the parameters of CreateAssessmentReport.
type CreateAssessmentReportParams struct {
	AssessmentId   *string `param:"AssessmentId" validate:"required" pipeline:"property"`
	Name           *string `param:"Name" validate:"required" position:"0" pipeline:"value"`
	Description    *string `param:"Description" pipeline:"property"`
	QueryStatement *string `param:"QueryStatement" pipeline:"property"`
}

// CreateAssessmentReport generates a report from the evidence of an assessment.
var CreateAssessmentReport = &command.Operation[CreateAssessmentReportParams, auditmanager.CreateAssessmentReportInput, auditmanager.CreateAssessmentReportOutput]{
	Meta: info("CreateAssessmentReport", "Creates an assessment report for the specified assessment.", selector.Field("AssessmentReport"), ""),
	Translate: func(p *CreateAssessmentReportParams) *auditmanager.CreateAssessmentReportInput {
		return &auditmanager.CreateAssessmentReportInput{
			AssessmentId:   p.AssessmentId,
			Name:           p.Name,
			Description:    p.Description,
			QueryStatement: p.QueryStatement,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.CreateAssessmentReportInput) (*auditmanager.CreateAssessmentReportOutput, error) {
		return c.AuditManager.CreateAssessmentReport(ctx, in)
	},
}

// RegisterAccountParams are the parameters of RegisterAccount.
type RegisterAccountParams struct {
	KmsKey                *string `param:"KmsKey" position:"0"`
	DelegatedAdminAccount *string `param:"DelegatedAdminAccount"`
}

// RegisterAccount enables Audit Manager for the account.
var RegisterAccount = &command.Operation[RegisterAccountParams, auditmanager.RegisterAccountInput, auditmanager.RegisterAccountOutput]{
	Meta: info("RegisterAccount", "Enables Audit Manager for the specified Amazon Web Services account.", selector.Field("Status"), ""),
	Translate: func(p *RegisterAccountParams) *auditmanager.RegisterAccountInput {
		return &auditmanager.RegisterAccountInput{
			KmsKey:                p.KmsKey,
			DelegatedAdminAccount: p.DelegatedAdminAccount,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.RegisterAccountInput) (*auditmanager.RegisterAccountOutput, error) {
		return c.AuditManager.RegisterAccount(ctx, in)
	},
}

// GetAccountStatusParams is empty; the operation takes no input.
type GetAccountStatusParams struct{}

// GetAccountStatus reports whether Audit Manager is active for the account.
var GetAccountStatus = &command.Operation[GetAccountStatusParams, auditmanager.GetAccountStatusInput, auditmanager.GetAccountStatusOutput]{
	Meta: info("GetAccountStatus", "Gets the registration status of an account in Audit Manager.", selector.Field("Status"), ""),
	Translate: func(*GetAccountStatusParams) *auditmanager.GetAccountStatusInput {
		return &auditmanager.GetAccountStatusInput{}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.GetAccountStatusInput) (*auditmanager.GetAccountStatusOutput, error) {
		return c.AuditManager.GetAccountStatus(ctx, in)
	},
}

// TagResourceParams are the parameters of TagResource.
type TagResourceParams struct {
	ResourceArn *string           `param:"ResourceArn" validate:"required" position:"0" pipeline:"value"`
	Tag         map[string]string `param:"Tag" alias:"Tags" validate:"required" pipeline:"property"`
}

// TagResource tags an Audit Manager resource.
var TagResource = &command.Operation[TagResourceParams, auditmanager.TagResourceInput, auditmanager.TagResourceOutput]{
	Meta: info("TagResource", "Tags the specified resource in Audit Manager.", selector.None(), "ResourceArn"),
	Translate: func(p *TagResourceParams) *auditmanager.TagResourceInput {
		return &auditmanager.TagResourceInput{
			ResourceArn: p.ResourceArn,
			Tags:        p.Tag,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.TagResourceInput) (*auditmanager.TagResourceOutput, error) {
		return c.AuditManager.TagResource(ctx, in)
	},
}

// UntagResourceParams are the parameters of UntagResource.
type UntagResourceParams struct {
	ResourceArn *string  `param:"ResourceArn" validate:"required" position:"0" pipeline:"value"`
	TagKey      []string `param:"TagKey" alias:"TagKeys" validate:"required" pipeline:"property"`
}

// UntagResource removes tags from an Audit Manager resource.
var UntagResource = &command.Operation[UntagResourceParams, auditmanager.UntagResourceInput, auditmanager.UntagResourceOutput]{
	Meta: info("UntagResource", "Removes a tag from a resource in Audit Manager.", selector.None(), "ResourceArn"),
	Translate: func(p *UntagResourceParams) *auditmanager.UntagResourceInput {
		return &auditmanager.UntagResourceInput{
			ResourceArn: p.ResourceArn,
			TagKeys:     p.TagKey,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *auditmanager.UntagResourceInput) (*auditmanager.UntagResourceOutput, error) {
		return c.AuditManager.UntagResource(ctx, in)
	},
}
