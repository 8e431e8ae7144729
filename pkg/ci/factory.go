package ci

import (
	log "github.com/charmbracelet/log"

	"github.com/patzick/explore-openapi-snapshot/pkg/config"
)

// IntegrationFactory is a function that creates a CI integration.
type IntegrationFactory func(*log.Logger) Integration

// integrations is the registry of available CI integrations, populated
// by init() functions in integration packages.
var integrations = map[string]IntegrationFactory{}

// DetectIntegration automatically detects and returns the appropriate CI
// integration. Returns nil if no supported integration is available,
// even if IsCI() reports true.
func DetectIntegration(logger *log.Logger) Integration {
	// Manual override via environment variable.
	if provider := config.GetCIProvider(); provider != "" {
		if factory, ok := integrations[provider]; ok {
			integration := factory(logger)
			if integration.IsAvailable() {
				logger.Debug("Using manually specified CI provider", "provider", provider)
				return integration
			}
			logger.Warn("Manually specified CI provider not available", "provider", provider)
		} else {
			logger.Warn("Unknown CI provider specified", "provider", provider)
		}
	}

	// Try integrations in a fixed order for predictable behavior.
	orderedProviders := []string{
		GitHub,
	}

	for _, provider := range orderedProviders {
		if factory, ok := integrations[provider]; ok {
			integration := factory(logger)
			if integration.IsAvailable() {
				logger.Debug("Auto-detected CI provider", "provider", provider)
				return integration
			}
		}
	}

	logger.Debug("No CI integration detected in current environment")
	return nil
}

// GetIntegration returns a specific CI integration by provider name.
func GetIntegration(provider string, logger *log.Logger) Integration {
	if factory, ok := integrations[provider]; ok {
		return factory(logger)
	}
	return nil
}

// RegisterIntegration registers a new CI integration factory. This
// allows for extensibility and testing.
func RegisterIntegration(provider string, factory IntegrationFactory) {
	integrations[provider] = factory
}

// GetSupportedProviders returns a list of all registered CI providers.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(integrations))
	for provider := range integrations {
		providers = append(providers, provider)
	}
	return providers
}

// IsCI detects if running in any CI environment. Used for output
// formatting decisions, distinct from whether an integration exists for
// that provider.
func IsCI() bool {
	return config.IsCI()
}
