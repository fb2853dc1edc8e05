package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor"
	"github.com/aws/aws-sdk-go-v2/service/iotdeviceadvisor/types"
)

// DeviceAdvisorClient is a mock implementation of aws.DeviceAdvisorClient
type DeviceAdvisorClient struct {
	recorder

	// Endpoint is returned by GetEndpoint and StartSuiteRun
	Endpoint string

	suites map[string]*types.SuiteDefinitionConfiguration
	order  []string
	runs   map[string]string // run ID -> suite ID
	tags   map[string]map[string]string
	nextID int
}

// NewDeviceAdvisorClient creates a new mock Device Advisor client
func NewDeviceAdvisorClient() *DeviceAdvisorClient {
	return &DeviceAdvisorClient{
		Endpoint: "device-advisor.iot.us-east-1.amazonaws.com",
		suites:   make(map[string]*types.SuiteDefinitionConfiguration),
		runs:     make(map[string]string),
		tags:     make(map[string]map[string]string),
	}
}

func suiteArn(id string) string {
	return "arn:aws:iotdeviceadvisor:us-east-1:111122223333:suitedefinition/" + id
}

func notFound(what, id string) error {
	return &types.ResourceNotFoundException{
		Message: aws.String(fmt.Sprintf("%s %s not found", what, id)),
	}
}

// CreateSuiteDefinition stores a suite definition
func (m *DeviceAdvisorClient) CreateSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.CreateSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.CreateSuiteDefinitionOutput, error) {
	if err := m.enter(ctx, "CreateSuiteDefinition", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("sd%04d", m.nextID)
	cfg := params.SuiteDefinitionConfiguration
	if cfg == nil {
		cfg = &types.SuiteDefinitionConfiguration{}
	}
	m.suites[id] = cfg
	m.order = append(m.order, id)
	if params.Tags != nil {
		m.tags[suiteArn(id)] = params.Tags
	}

	now := time.Now()
	return &iotdeviceadvisor.CreateSuiteDefinitionOutput{
		SuiteDefinitionId:   aws.String(id),
		SuiteDefinitionArn:  aws.String(suiteArn(id)),
		SuiteDefinitionName: cfg.SuiteDefinitionName,
		CreatedAt:           &now,
	}, nil
}

// GetSuiteDefinition returns a stored suite definition
func (m *DeviceAdvisorClient) GetSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.GetSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.GetSuiteDefinitionOutput, error) {
	if err := m.enter(ctx, "GetSuiteDefinition", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := aws.ToString(params.SuiteDefinitionId)
	cfg, ok := m.suites[id]
	if !ok {
		return nil, notFound("suite definition", id)
	}
	return &iotdeviceadvisor.GetSuiteDefinitionOutput{
		SuiteDefinitionId:            aws.String(id),
		SuiteDefinitionArn:           aws.String(suiteArn(id)),
		SuiteDefinitionConfiguration: cfg,
		SuiteDefinitionVersion:       aws.String("v1"),
		LatestVersion:                aws.String("v1"),
		Tags:                         m.tags[suiteArn(id)],
	}, nil
}

// DeleteSuiteDefinition removes a stored suite definition
func (m *DeviceAdvisorClient) DeleteSuiteDefinition(ctx context.Context, params *iotdeviceadvisor.DeleteSuiteDefinitionInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.DeleteSuiteDefinitionOutput, error) {
	if err := m.enter(ctx, "DeleteSuiteDefinition", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := aws.ToString(params.SuiteDefinitionId)
	if _, ok := m.suites[id]; !ok {
		return nil, notFound("suite definition", id)
	}
	delete(m.suites, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return &iotdeviceadvisor.DeleteSuiteDefinitionOutput{}, nil
}

// ListSuiteDefinitions lists the stored suite definitions
func (m *DeviceAdvisorClient) ListSuiteDefinitions(ctx context.Context, params *iotdeviceadvisor.ListSuiteDefinitionsInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.ListSuiteDefinitionsOutput, error) {
	if err := m.enter(ctx, "ListSuiteDefinitions", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &iotdeviceadvisor.ListSuiteDefinitionsOutput{}
	for _, id := range m.order {
		out.SuiteDefinitionInformationList = append(out.SuiteDefinitionInformationList, types.SuiteDefinitionInformation{
			SuiteDefinitionId:   aws.String(id),
			SuiteDefinitionName: m.suites[id].SuiteDefinitionName,
			DefaultDevices:      m.suites[id].Devices,
		})
	}
	return out, nil
}

// StartSuiteRun starts a run of a stored suite definition
func (m *DeviceAdvisorClient) StartSuiteRun(ctx context.Context, params *iotdeviceadvisor.StartSuiteRunInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.StartSuiteRunOutput, error) {
	if err := m.enter(ctx, "StartSuiteRun", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	suiteID := aws.ToString(params.SuiteDefinitionId)
	if _, ok := m.suites[suiteID]; !ok {
		return nil, notFound("suite definition", suiteID)
	}
	m.nextID++
	runID := fmt.Sprintf("run%04d", m.nextID)
	m.runs[runID] = suiteID

	now := time.Now()
	return &iotdeviceadvisor.StartSuiteRunOutput{
		SuiteRunId:  aws.String(runID),
		SuiteRunArn: aws.String(suiteArn(suiteID) + "/suiterun/" + runID),
		CreatedAt:   &now,
		Endpoint:    aws.String(m.Endpoint),
	}, nil
}

// StopSuiteRun stops a run
func (m *DeviceAdvisorClient) StopSuiteRun(ctx context.Context, params *iotdeviceadvisor.StopSuiteRunInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.StopSuiteRunOutput, error) {
	if err := m.enter(ctx, "StopSuiteRun", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	runID := aws.ToString(params.SuiteRunId)
	if m.runs[runID] != aws.ToString(params.SuiteDefinitionId) {
		return nil, notFound("suite run", runID)
	}
	delete(m.runs, runID)
	return &iotdeviceadvisor.StopSuiteRunOutput{}, nil
}

// GetEndpoint returns the configured endpoint
func (m *DeviceAdvisorClient) GetEndpoint(ctx context.Context, params *iotdeviceadvisor.GetEndpointInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.GetEndpointOutput, error) {
	if err := m.enter(ctx, "GetEndpoint", params); err != nil {
		return nil, err
	}
	return &iotdeviceadvisor.GetEndpointOutput{Endpoint: aws.String(m.Endpoint)}, nil
}

// ListTagsForResource returns the tags of a resource
func (m *DeviceAdvisorClient) ListTagsForResource(ctx context.Context, params *iotdeviceadvisor.ListTagsForResourceInput, optFns ...func(*iotdeviceadvisor.Options)) (*iotdeviceadvisor.ListTagsForResourceOutput, error) {
	if err := m.enter(ctx, "ListTagsForResource", params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &iotdeviceadvisor.ListTagsForResourceOutput{Tags: m.tags[aws.ToString(params.ResourceArn)]}, nil
}
