package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Region:   "us-west-2",
		Timeout:  30 * time.Second,
		LogLevel: "info",
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config to pass validation, got: %v", err)
	}
}

func TestDefaultNeedsRegion(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected default config without region to fail")
	}
	cfg.Region = "eu-west-1"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config with region to pass, got: %v", err)
	}
}

func TestMissingRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Region = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing region")
	}
}

func TestProfileWithoutRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Region = ""
	cfg.Profile = "audit"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected a profile to stand in for the region, got: %v", err)
	}
}

func TestInvalidEndpointURL(t *testing.T) {
	testCases := []struct {
		name string
		uri  string
	}{
		{"s3 scheme", "s3://bucket"},
		{"no scheme", "localhost:4566"},
		{"no host", "http://"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.EndpointURL = tc.uri
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected error for invalid endpoint URL: %s", tc.uri)
			}
		})
	}
}

func TestValidEndpointURL(t *testing.T) {
	for _, uri := range []string{"http://localhost:4566", "https://auditmanager.example.com"} {
		t.Run(uri, func(t *testing.T) {
			cfg := validConfig()
			cfg.EndpointURL = uri
			if err := cfg.Validate(); err != nil {
				t.Errorf("expected valid endpoint %s to pass, got: %v", uri, err)
			}
		})
	}
}

func TestNegativeTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Timeout = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestHistoryURI(t *testing.T) {
	testCases := []struct {
		uri   string
		valid bool
	}{
		{"", true},
		{"file:///tmp/history.jsonl", true},
		{"s3://bucket/history.jsonl", true},
		{"ddb://history-table", true},
		{"http://bucket/history", false},
		{"s3:///no-bucket", false},
		{"ddb://", false},
	}

	for _, tc := range testCases {
		t.Run(tc.uri, func(t *testing.T) {
			cfg := validConfig()
			cfg.HistoryURI = tc.uri
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("expected history URI %q to pass, got: %v", tc.uri, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("expected error for history URI %q", tc.uri)
			}
		})
	}
}

func TestOutputURIRejectsDynamoDB(t *testing.T) {
	cfg := validConfig()
	cfg.OutputURI = "ddb://table"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for ddb output URI")
	}
}

func TestInvalidPrincipalARN(t *testing.T) {
	cfg := validConfig()
	cfg.PrincipalARN = "role/auditor"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for principal without arn: prefix")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	for _, level := range []string{"", "trace", "INFO"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected error for log level %q", level)
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	cfg := validConfig()
	if got := cfg.Endpoint("auditmanager"); got != "https://auditmanager.us-west-2.amazonaws.com" {
		t.Errorf("unexpected default endpoint: %s", got)
	}
	cfg.EndpointURL = "http://localhost:4566"
	if got := cfg.Endpoint("auditmanager"); got != "http://localhost:4566" {
		t.Errorf("expected override endpoint, got %s", got)
	}
}

func TestLoadAWSUsesRegion(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	cfg := validConfig()
	awsCfg, err := cfg.LoadAWS(context.Background())
	if err != nil {
		t.Fatalf("failed to load AWS config: %v", err)
	}
	if awsCfg.Region != "us-west-2" {
		t.Errorf("expected region us-west-2, got %s", awsCfg.Region)
	}
}

func writeSharedConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write shared config: %v", err)
	}
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", path)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")
}

func TestLoadAWSRegionFromProfile(t *testing.T) {
	writeSharedConfig(t, "[profile audit]\nregion = eu-north-1\n")

	cfg := validConfig()
	cfg.Region = ""
	cfg.Profile = "audit"
	awsCfg, err := cfg.LoadAWS(context.Background())
	if err != nil {
		t.Fatalf("failed to load AWS config: %v", err)
	}
	if awsCfg.Region != "eu-north-1" || cfg.Region != "eu-north-1" {
		t.Errorf("expected region eu-north-1, got sdk=%s config=%s", awsCfg.Region, cfg.Region)
	}
	if got := cfg.Endpoint("auditmanager"); got != "https://auditmanager.eu-north-1.amazonaws.com" {
		t.Errorf("unexpected endpoint %s", got)
	}
}

func TestLoadAWSProfileWithoutRegion(t *testing.T) {
	writeSharedConfig(t, "[profile audit]\noutput = json\n")

	cfg := validConfig()
	cfg.Region = ""
	cfg.Profile = "audit"
	if _, err := cfg.LoadAWS(context.Background()); err == nil {
		t.Error("expected an error when neither flag nor profile sets a region")
	}
}
