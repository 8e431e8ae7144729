// Package config centralizes configuration and environment access.
// All reads go through viper so precedence (flag > env > config file >
// default) stays consistent across the tool.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeySchemaFile   = "schema-file"
	KeyProject      = "project"
	KeySnapshotName = "snapshot-name"
	KeyPermanent    = "permanent"
	KeyAuthToken    = "auth-token"
	KeyAudience     = "audience"
	KeyEndpoint     = "endpoint"
	KeyGitHubToken  = "github-token"
)

// DefaultAudience is the identity-token audience used when none is
// configured.
const DefaultAudience = "explore-openapi-snapshot"

// InitEnvironment binds environment variables for settings that may be
// supplied outside of flags. Safe to call multiple times.
func InitEnvironment() {
	viper.SetEnvPrefix("SNAPSHOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Action-style inputs arrive as INPUT_* in composite workflows.
	_ = viper.BindEnv(KeySchemaFile, "SNAPSHOT_SCHEMA_FILE", "INPUT_SCHEMA_FILE")
	_ = viper.BindEnv(KeyProject, "SNAPSHOT_PROJECT", "INPUT_PROJECT")
	_ = viper.BindEnv(KeySnapshotName, "SNAPSHOT_NAME", "INPUT_SNAPSHOT_NAME")
	_ = viper.BindEnv(KeyPermanent, "SNAPSHOT_PERMANENT", "INPUT_PERMANENT")
	_ = viper.BindEnv(KeyAuthToken, "SNAPSHOT_AUTH_TOKEN", "INPUT_AUTH_TOKEN")
	_ = viper.BindEnv(KeyAudience, "SNAPSHOT_AUDIENCE", "INPUT_AUDIENCE")
	_ = viper.BindEnv(KeyEndpoint, "SNAPSHOT_ENDPOINT", "INPUT_ENDPOINT")
	_ = viper.BindEnv(KeyGitHubToken, "GITHUB_TOKEN", "INPUT_GITHUB_TOKEN")
	_ = viper.BindEnv("log.level", "SNAPSHOT_LOG_LEVEL")
}

// GetSchemaFile returns the path to the schema document to submit.
func GetSchemaFile() string { return viper.GetString(KeySchemaFile) }

// GetProject returns the project identifier (tenant/namespace).
func GetProject() string { return viper.GetString(KeyProject) }

// GetSnapshotNameOverride returns the user-supplied snapshot name, or ""
// when the name should be derived from context.
func GetSnapshotNameOverride() string { return viper.GetString(KeySnapshotName) }

// GetPermanentOverride returns the tri-state permanence override. The
// second return is false when no override was supplied.
func GetPermanentOverride() (value, set bool) {
	raw := strings.TrimSpace(strings.ToLower(viper.GetString(KeyPermanent)))
	switch raw {
	case "true", "yes", "1", "on":
		return true, true
	case "false", "no", "0", "off":
		return false, true
	default:
		return false, false
	}
}

// GetAuthToken returns the static (legacy) bearer token, if configured.
func GetAuthToken() string { return viper.GetString(KeyAuthToken) }

// GetAudience returns the identity-token audience.
func GetAudience() string {
	if aud := viper.GetString(KeyAudience); aud != "" {
		return aud
	}
	return DefaultAudience
}

// GetEndpoint returns the snapshot service endpoint.
func GetEndpoint() string { return viper.GetString(KeyEndpoint) }

// GetGitHubToken returns the GitHub API token used for reporting.
func GetGitHubToken() string { return viper.GetString(KeyGitHubToken) }
