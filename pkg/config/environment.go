package config

import "os"

// IsGitHubActions reports whether the process runs inside GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// IsCI reports whether any CI environment is detected. Used for output
// formatting decisions, distinct from having a CI integration.
func IsCI() bool {
	return os.Getenv("CI") != "" || IsGitHubActions()
}

// GetGitHubOutput returns the path of the step output file, or "".
func GetGitHubOutput() string {
	return os.Getenv("GITHUB_OUTPUT")
}

// GetGitHubStepSummary returns the path of the job summary file, or "".
func GetGitHubStepSummary() string {
	return os.Getenv("GITHUB_STEP_SUMMARY")
}

// GetCIProvider returns a manually forced CI provider name, or "".
func GetCIProvider() string {
	return os.Getenv("SNAPSHOT_CI_PROVIDER")
}
