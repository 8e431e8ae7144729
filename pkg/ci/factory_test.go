package ci

import (
	"io"
	"testing"

	log "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

type stubIntegration struct {
	available bool
}

func (s *stubIntegration) DetectContext() (Context, error) { return nil, ErrContextNotDetected }
func (s *stubIntegration) CreateCommentManager(Context, *log.Logger) CommentManager {
	return nil
}
func (s *stubIntegration) GetJobSummaryWriter() JobSummaryWriter { return nil }
func (s *stubIntegration) GetOutputWriter() OutputWriter         { return &NoopOutputWriter{} }
func (s *stubIntegration) Provider() string                      { return "stub" }
func (s *stubIntegration) IsAvailable() bool                     { return s.available }

func TestRegisterAndGetIntegration(t *testing.T) {
	logger := log.New(io.Discard)

	RegisterIntegration("stub", func(*log.Logger) Integration {
		return &stubIntegration{available: true}
	})
	defer delete(integrations, "stub")

	integration := GetIntegration("stub", logger)
	assert.NotNil(t, integration)
	assert.Equal(t, "stub", integration.Provider())

	assert.Contains(t, GetSupportedProviders(), "stub")
}

func TestGetIntegrationUnknownProvider(t *testing.T) {
	logger := log.New(io.Discard)
	assert.Nil(t, GetIntegration("does-not-exist", logger))
}

func TestDetectIntegrationManualOverride(t *testing.T) {
	logger := log.New(io.Discard)

	RegisterIntegration("stub", func(*log.Logger) Integration {
		return &stubIntegration{available: true}
	})
	defer delete(integrations, "stub")

	t.Setenv("SNAPSHOT_CI_PROVIDER", "stub")
	integration := DetectIntegration(logger)
	assert.NotNil(t, integration)
	assert.Equal(t, "stub", integration.Provider())
}

func TestDetectIntegrationNoneAvailable(t *testing.T) {
	logger := log.New(io.Discard)

	t.Setenv("SNAPSHOT_CI_PROVIDER", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("CI", "")

	// Only providers whose IsAvailable() passes are returned.
	RegisterIntegration("stub", func(*log.Logger) Integration {
		return &stubIntegration{available: false}
	})
	defer delete(integrations, "stub")

	assert.Nil(t, DetectIntegration(logger))
}
