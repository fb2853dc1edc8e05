// Package deviceadvisor exposes AWS IoT Device Advisor operations as commands.
package deviceadvisor

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor"
	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor/types"
	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/request"
	"github.com/gurre/awsbind/selector"
)

const (
	// IAM actions use the "iotdeviceadvisor" prefix.
	service = "iotdeviceadvisor"
	host    = "api.iotdeviceadvisor"
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

// Operations returns every Device Advisor command.
func Operations() []command.Command {
	return []command.Command{
		CreateSuiteDefinition,
		GetSuiteDefinition,
		DeleteSuiteDefinition,
		ListSuiteDefinitions,
		StartSuiteRun,
		StopSuiteRun,
		GetEndpoint,
		ListTagsForResource,
	}
}

// CreateSuiteDefinitionParams are the parameters of CreateSuiteDefinition.
// The SuiteDefinitionConfiguration_ fields form one nested group.
type CreateSuiteDefinitionParams struct {
	SuiteDefinitionConfiguration_SuiteDefinitionName     *string                 `param:"SuiteDefinitionConfiguration_SuiteDefinitionName" alias:"SuiteDefinitionName" validate:"required" position:"0" pipeline:"value"`
	SuiteDefinitionConfiguration_RootGroup               *string                 `param:"SuiteDefinitionConfiguration_RootGroup" alias:"RootGroup" validate:"required" pipeline:"property"`
	SuiteDefinitionConfiguration_DevicePermissionRoleArn *string                 `param:"SuiteDefinitionConfiguration_DevicePermissionRoleArn" alias:"DevicePermissionRoleArn" validate:"required" pipeline:"property"`
	SuiteDefinitionConfiguration_Device                  []types.DeviceUnderTest `param:"SuiteDefinitionConfiguration_Device" alias:"Device,Devices" pipeline:"property"`
	SuiteDefinitionConfiguration_Protocol                *string                 `param:"SuiteDefinitionConfiguration_Protocol" alias:"Protocol" pipeline:"property"`
	ClientToken                                          *string                 `param:"ClientToken"`
	Tag                                                  map[string]string       `param:"Tag" alias:"Tags" pipeline:"property"`
}

// CreateSuiteDefinition creates a suite definition.
var CreateSuiteDefinition = &command.Operation[CreateSuiteDefinitionParams, iotdeviceadvisor.CreateSuiteDefinitionInput, iotdeviceadvisor.CreateSuiteDefinitionOutput]{
	Meta: info("CreateSuiteDefinition", "Creates a Device Advisor test suite.", selector.Envelope(), ""),
	Translate: func(p *CreateSuiteDefinitionParams) *iotdeviceadvisor.CreateSuiteDefinitionInput {
		in := &iotdeviceadvisor.CreateSuiteDefinitionInput{
			ClientToken: p.ClientToken,
			Tags:        p.Tag,
		}

		var g request.Group
		var cfg types.SuiteDefinitionConfiguration
		request.Set(&g, &cfg.SuiteDefinitionName, p.SuiteDefinitionConfiguration_SuiteDefinitionName)
		request.Set(&g, &cfg.RootGroup, p.SuiteDefinitionConfiguration_RootGroup)
		request.Set(&g, &cfg.DevicePermissionRoleArn, p.SuiteDefinitionConfiguration_DevicePermissionRoleArn)
		request.SetSlice(&g, &cfg.Devices, p.SuiteDefinitionConfiguration_Device)
		request.SetEnum(&g, &cfg.Protocol, p.SuiteDefinitionConfiguration_Protocol)
		in.SuiteDefinitionConfiguration = request.Attach(&g, &cfg)
		return in
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.CreateSuiteDefinitionInput) (*iotdeviceadvisor.CreateSuiteDefinitionOutput, error) {
		return c.DeviceAdvisor.CreateSuiteDefinition(ctx, in)
	},
}

// GetSuiteDefinitionParams are the parameters of GetSuiteDefinition.
type GetSuiteDefinitionParams struct {
	SuiteDefinitionId      *string `param:"SuiteDefinitionId" validate:"required" position:"0" pipeline:"value"`
	SuiteDefinitionVersion *string `param:"SuiteDefinitionVersion" pipeline:"property"`
}

// GetSuiteDefinition returns a suite definition.
var GetSuiteDefinition = &command.Operation[GetSuiteDefinitionParams, iotdeviceadvisor.GetSuiteDefinitionInput, iotdeviceadvisor.GetSuiteDefinitionOutput]{
	Meta: info("GetSuiteDefinition", "Gets information about a Device Advisor test suite.", selector.Envelope(), ""),
	Translate: func(p *GetSuiteDefinitionParams) *iotdeviceadvisor.GetSuiteDefinitionInput {
		return &iotdeviceadvisor.GetSuiteDefinitionInput{
			SuiteDefinitionId:      p.SuiteDefinitionId,
			SuiteDefinitionVersion: p.SuiteDefinitionVersion,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.GetSuiteDefinitionInput) (*iotdeviceadvisor.GetSuiteDefinitionOutput, error) {
		return c.DeviceAdvisor.GetSuiteDefinition(ctx, in)
	},
}

// DeleteSuiteDefinitionParams are the parameters of DeleteSuiteDefinition.
type DeleteSuiteDefinitionParams struct {
	SuiteDefinitionId *string `param:"SuiteDefinitionId" validate:"required" position:"0" pipeline:"value"`
}

// DeleteSuiteDefinition deletes a suite definition.
var DeleteSuiteDefinition = &command.Operation[DeleteSuiteDefinitionParams, iotdeviceadvisor.DeleteSuiteDefinitionInput, iotdeviceadvisor.DeleteSuiteDefinitionOutput]{
	Meta: info("DeleteSuiteDefinition", "Deletes a Device Advisor test suite.", selector.None(), "SuiteDefinitionId"),
	Translate: func(p *DeleteSuiteDefinitionParams) *iotdeviceadvisor.DeleteSuiteDefinitionInput {
		return &iotdeviceadvisor.DeleteSuiteDefinitionInput{SuiteDefinitionId: p.SuiteDefinitionId}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.DeleteSuiteDefinitionInput) (*iotdeviceadvisor.DeleteSuiteDefinitionOutput, error) {
		return c.DeviceAdvisor.DeleteSuiteDefinition(ctx, in)
	},
}

// ListSuiteDefinitionsParams are the parameters of ListSuiteDefinitions.
type ListSuiteDefinitionsParams struct {
	MaxResults *int32  `param:"MaxResult" alias:"MaxResults,MaxItems"`
	NextToken  *string `param:"NextToken"`
}

// ListSuiteDefinitions returns one page of suite definitions.
var ListSuiteDefinitions = &command.Operation[ListSuiteDefinitionsParams, iotdeviceadvisor.ListSuiteDefinitionsInput, iotdeviceadvisor.ListSuiteDefinitionsOutput]{
	Meta: info("ListSuiteDefinitions", "Lists the Device Advisor test suites you have created.", selector.Field("SuiteDefinitionInformationList"), ""),
	Translate: func(p *ListSuiteDefinitionsParams) *iotdeviceadvisor.ListSuiteDefinitionsInput {
		return &iotdeviceadvisor.ListSuiteDefinitionsInput{
			MaxResults: p.MaxResults,
			NextToken:  p.NextToken,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.ListSuiteDefinitionsInput) (*iotdeviceadvisor.ListSuiteDefinitionsOutput, error) {
		return c.DeviceAdvisor.ListSuiteDefinitions(ctx, in)
	},
}

// StartSuiteRunParams are the parameters of StartSuiteRun.
// PrimaryDevice_ fields nest inside the SuiteRunConfiguration group.
type StartSuiteRunParams struct {
	SuiteDefinitionId                                  *string           `param:"SuiteDefinitionId" validate:"required" position:"0" pipeline:"value"`
	SuiteDefinitionVersion                             *string           `param:"SuiteDefinitionVersion" pipeline:"property"`
	SuiteRunConfiguration_SelectedTestList             []string          `param:"SuiteRunConfiguration_SelectedTestList" alias:"SelectedTestList" pipeline:"property"`
	SuiteRunConfiguration_PrimaryDevice_CertificateArn *string           `param:"PrimaryDevice_CertificateArn" alias:"CertificateArn" pipeline:"property"`
	SuiteRunConfiguration_PrimaryDevice_DeviceRoleArn  *string           `param:"PrimaryDevice_DeviceRoleArn" alias:"DeviceRoleArn" pipeline:"property"`
	SuiteRunConfiguration_PrimaryDevice_ThingArn       *string           `param:"PrimaryDevice_ThingArn" alias:"ThingArn" pipeline:"property"`
	Tag                                                map[string]string `param:"Tag" alias:"Tags" pipeline:"property"`
}

// StartSuiteRun starts a run of a suite definition.
var StartSuiteRun = &command.Operation[StartSuiteRunParams, iotdeviceadvisor.StartSuiteRunInput, iotdeviceadvisor.StartSuiteRunOutput]{
	Meta: info("StartSuiteRun", "Starts a Device Advisor test suite run.", selector.Envelope(), ""),
	Translate: func(p *StartSuiteRunParams) *iotdeviceadvisor.StartSuiteRunInput {
		in := &iotdeviceadvisor.StartSuiteRunInput{
			SuiteDefinitionId:      p.SuiteDefinitionId,
			SuiteDefinitionVersion: p.SuiteDefinitionVersion,
			Tags:                   p.Tag,
		}

		var device request.Group
		var primary types.DeviceUnderTest
		request.Set(&device, &primary.CertificateArn, p.SuiteRunConfiguration_PrimaryDevice_CertificateArn)
		request.Set(&device, &primary.DeviceRoleArn, p.SuiteRunConfiguration_PrimaryDevice_DeviceRoleArn)
		request.Set(&device, &primary.ThingArn, p.SuiteRunConfiguration_PrimaryDevice_ThingArn)

		var run request.Group
		var cfg types.SuiteRunConfiguration
		cfg.PrimaryDevice = request.Attach(&device, &primary)
		run.Merge(&device)
		request.SetSlice(&run, &cfg.SelectedTestList, p.SuiteRunConfiguration_SelectedTestList)
		in.SuiteRunConfiguration = request.Attach(&run, &cfg)
		return in
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.StartSuiteRunInput) (*iotdeviceadvisor.StartSuiteRunOutput, error) {
		return c.DeviceAdvisor.StartSuiteRun(ctx, in)
	},
}

// StopSuiteRunParams are the parameters of StopSuiteRun.
type StopSuiteRunParams struct {
	SuiteDefinitionId *string `param:"SuiteDefinitionId" validate:"required" position:"0" pipeline:"property"`
	SuiteRunId        *string `param:"SuiteRunId" validate:"required" position:"1" pipeline:"value"`
}

// StopSuiteRun stops a running suite.
var StopSuiteRun = &command.Operation[StopSuiteRunParams, iotdeviceadvisor.StopSuiteRunInput, iotdeviceadvisor.StopSuiteRunOutput]{
	Meta: info("StopSuiteRun", "Stops a Device Advisor test suite run that is currently running.", selector.None(), "SuiteRunId"),
	Translate: func(p *StopSuiteRunParams) *iotdeviceadvisor.StopSuiteRunInput {
		return &iotdeviceadvisor.StopSuiteRunInput{
			SuiteDefinitionId: p.SuiteDefinitionId,
			SuiteRunId:        p.SuiteRunId,
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.StopSuiteRunInput) (*iotdeviceadvisor.StopSuiteRunOutput, error) {
		return c.DeviceAdvisor.StopSuiteRun(ctx, in)
	},
}

// GetEndpointParams are the parameters of GetEndpoint.
type GetEndpointParams struct {
	ThingArn             *string `param:"ThingArn" position:"0" pipeline:"property"`
	CertificateArn       *string `param:"CertificateArn" pipeline:"property"`
	DeviceRoleArn        *string `param:"DeviceRoleArn" pipeline:"property"`
	AuthenticationMethod *string `param:"AuthenticationMethod" pipeline:"property"`
}

// GetEndpoint returns the Device Advisor test endpoint for a device.
var GetEndpoint = &command.Operation[GetEndpointParams, iotdeviceadvisor.GetEndpointInput, iotdeviceadvisor.GetEndpointOutput]{
	Meta: info("GetEndpoint", "Gets information about an Device Advisor endpoint.", selector.Field("Endpoint"), ""),
	Translate: func(p *GetEndpointParams) *iotdeviceadvisor.GetEndpointInput {
		return &iotdeviceadvisor.GetEndpointInput{
			ThingArn:             p.ThingArn,
			CertificateArn:       p.CertificateArn,
			DeviceRoleArn:        p.DeviceRoleArn,
			AuthenticationMethod: request.Enum[types.AuthenticationMethod](p.AuthenticationMethod),
		}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.GetEndpointInput) (*iotdeviceadvisor.GetEndpointOutput, error) {
		return c.DeviceAdvisor.GetEndpoint(ctx, in)
	},
}

// ListTagsForResourceParams are the parameters of ListTagsForResource.
type ListTagsForResourceParams struct {
	ResourceArn *string `param:"ResourceArn" validate:"required" position:"0" pipeline:"value"`
}

// ListTagsForResource returns the tags attached to a Device Advisor resource.
var ListTagsForResource = &command.Operation[ListTagsForResourceParams, iotdeviceadvisor.ListTagsForResourceInput, iotdeviceadvisor.ListTagsForResourceOutput]{
	Meta: info("ListTagsForResource", "Lists the tags attached to an IoT Device Advisor resource.", selector.Field("Tags"), ""),
	Translate: func(p *ListTagsForResourceParams) *iotdeviceadvisor.ListTagsForResourceInput {
		return &iotdeviceadvisor.ListTagsForResourceInput{ResourceArn: p.ResourceArn}
	},
	Call: func(ctx context.Context, c *aws.Clients, in *iotdeviceadvisor.ListTagsForResourceInput) (*iotdeviceadvisor.ListTagsForResourceOutput, error) {
		return c.DeviceAdvisor.ListTagsForResource(ctx, in)
	},
}
