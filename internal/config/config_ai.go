package config

import "fmt"

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
}

// OperationConfig returns the AI configuration for an operation with
// fallback to the global values
func (c *Config) OperationConfig(operation string) (OperationAIConfig, error) {
	var config OperationAIConfig
	switch operation {
	case OperationSalary:
		config = c.AI.Salary
	case OperationCoverLetter:
		config = c.AI.CoverLetter
	case OperationSkills:
		config = c.AI.Skills
	default:
		return OperationAIConfig{}, fmt.Errorf("unknown operation: %s", operation)
	}

	c.applyOperationDefaults(&config)
	return config, nil
}

// GetSalaryConfig returns the AI configuration for salary prediction
func (c *Config) GetSalaryConfig() OperationAIConfig {
	config, _ := c.OperationConfig(OperationSalary)
	return config
}

// GetCoverLetterConfig returns the AI configuration for cover letter generation
func (c *Config) GetCoverLetterConfig() OperationAIConfig {
	config, _ := c.OperationConfig(OperationCoverLetter)
	return config
}

// GetSkillsConfig returns the AI configuration for skill suggestion
func (c *Config) GetSkillsConfig() OperationAIConfig {
	config, _ := c.OperationConfig(OperationSkills)
	return config
}

// ApplyProviderKey sets the provider API key globally and on every operation
// that has no key of its own
func (c *Config) ApplyProviderKey(key string) {
	c.AI.APIKey = key
	for _, op := range []*OperationAIConfig{&c.AI.Salary, &c.AI.CoverLetter, &c.AI.Skills} {
		if op.APIKey == "" {
			op.APIKey = key
		}
	}
}
