// Package config holds the process configuration for awsbind and turns it into
// an AWS SDK configuration. The result is passed explicitly into every
// invocation; nothing here is stored in package-level state.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Config holds the credential, endpoint and sink settings shared by all commands.
type Config struct {
	Region       string        // AWS region for the wrapped service
	Profile      string        // Shared config profile, empty for the default chain
	EndpointURL  string        // Optional endpoint override (http[s]://host[:port])
	Timeout      time.Duration // Per-invocation deadline, zero for none
	HistoryURI   string        // "", file://, s3:// or ddb:// location for the invocation history
	OutputURI    string        // "", file:// or s3:// destination for selected output
	Preflight    bool          // Simulate the IAM action before invoking
	PrincipalARN string        // Principal for preflight, resolved from STS when empty
	LogLevel     string        // debug|info|warn|error
}

// Default returns a Config with the defaults used by the CLI.
func Default() *Config {
	return &Config{
		LogLevel: "info",
	}
}

var validSchemes = map[string][]string{
	"history": {"file", "s3", "ddb"},
	"output":  {"file", "s3"},
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	// A profile may carry the region in the shared config file.
	if c.Region == "" && c.Profile == "" {
		return fmt.Errorf("region is required")
	}

	if c.EndpointURL != "" {
		u, err := url.Parse(c.EndpointURL)
		if err != nil {
			return fmt.Errorf("invalid endpoint URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint URL must use http or https scheme")
		}
		if u.Host == "" {
			return fmt.Errorf("endpoint URL must include a host")
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	if err := checkURI("history", c.HistoryURI); err != nil {
		return err
	}
	if err := checkURI("output", c.OutputURI); err != nil {
		return err
	}

	if c.PrincipalARN != "" && !strings.HasPrefix(c.PrincipalARN, "arn:") {
		return fmt.Errorf("principal ARN must start with arn:")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error")
	}

	return nil
}

func checkURI(kind, uri string) error {
	if uri == "" {
		return nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid %s URI: %w", kind, err)
	}
	for _, s := range validSchemes[kind] {
		if u.Scheme == s {
			if u.Host == "" && u.Scheme != "file" {
				return fmt.Errorf("%s URI must name a bucket or table", kind)
			}
			return nil
		}
	}
	return fmt.Errorf("%s URI must use one of %s schemes", kind, strings.Join(validSchemes[kind], ", "))
}

// Endpoint returns the endpoint the wrapped service is reached at, for diagnostics.
// Without an override this is the conventional regional endpoint.
func (c *Config) Endpoint(service string) string {
	if c.EndpointURL != "" {
		return c.EndpointURL
	}
	return fmt.Sprintf("https://%s.%s.amazonaws.com", service, c.Region)
}

// LoadAWS resolves credentials and region into an SDK configuration. When no
// region was given, the one resolved from the profile is stored back into c.
func (c *Config) LoadAWS(ctx context.Context) (awssdk.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return awssdk.Config{}, fmt.Errorf("region is required: profile %q does not set one", c.Profile)
	}
	c.Region = cfg.Region
	return cfg, nil
}
