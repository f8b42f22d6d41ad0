package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks and derived defaults
func (c *Config) applyFallbacks() {
	c.applyProviderKeyFallback()
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyProviderKeyFallback accepts the conventional GEMINI_API_KEY / GOOGLE_API_KEY
// variables when no key was configured
func (c *Config) applyProviderKeyFallback() {
	if c.AI.APIKey != "" {
		return
	}
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			c.AI.APIKey = key
			return
		}
	}
}

// applyServerAPIKeyFallbacks normalizes server API keys. Values coming from
// the environment arrive as one comma separated string.
func (c *Config) applyServerAPIKeyFallbacks() {
	var keys []string
	for _, key := range c.Server.APIKeys {
		keys = append(keys, splitAndTrim(key)...)
	}
	if len(keys) == 0 {
		if apiKeysEnv := os.Getenv("SALARYINSIGHTS_SERVER_APIKEYS"); apiKeysEnv != "" {
			keys = splitAndTrim(apiKeysEnv)
		}
	}
	c.Server.APIKeys = keys
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"SALARYINSIGHTS_AI_APIKEY",
		"SALARYINSIGHTS_AI_PROVIDER",
		"SALARYINSIGHTS_AI_MODEL",
		"SALARYINSIGHTS_SERVER_PORT",
		"SALARYINSIGHTS_SERVER_HOST",
		"SALARYINSIGHTS_APP_LOGLEVEL",
		"SALARYINSIGHTS_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
	}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				value = "***MASKED***"
			}
			log.Printf("[CONFIG]   %s=%s", envVar, value)
		}
	}

	keyState := "***NOT SET***"
	if c.AI.APIKey != "" {
		keyState = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI Provider: %s, Model: %s, API Key: %s", c.AI.Provider, c.AI.Model, keyState)
	log.Printf("[CONFIG] Server: %s:%s, TLS: %s, Log Level: %s", c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.App.LogLevel)
	for _, op := range Operations {
		opCfg, _ := c.OperationConfig(op)
		log.Printf("[CONFIG] %s - Provider: %s, Model: %s, Timeout: %s", op, opCfg.Provider, opCfg.Model, *opCfg.Timeout)
	}
}
