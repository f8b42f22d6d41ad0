package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFile describes one configured prompt override file
type promptFile struct {
	Operation string
	Kind      string
	Path      string
	Watch     bool
}

// operationPrompts returns the prompt configuration of every operation
func (c *Config) operationPrompts() map[string]PromptConfig {
	return map[string]PromptConfig{
		OperationSalary:      c.AI.Salary.Prompts,
		OperationCoverLetter: c.AI.CoverLetter.Prompts,
		OperationSkills:      c.AI.Skills.Prompts,
	}
}

// promptFiles lists the configured prompt files in a stable order
func (c *Config) promptFiles() []promptFile {
	prompts := c.operationPrompts()

	var files []promptFile
	for _, op := range Operations {
		p := prompts[op]
		if p.SystemFile != "" {
			files = append(files, promptFile{Operation: op, Kind: PromptSystem, Path: p.SystemFile, Watch: p.Watch})
		}
		if p.UserFile != "" {
			files = append(files, promptFile{Operation: op, Kind: PromptUser, Path: p.UserFile, Watch: p.Watch})
		}
	}
	return files
}

// loadPromptsFromFiles fills the prompt store from inline values and files.
// A file overrides the inline value of the same prompt.
func (c *Config) loadPromptsFromFiles() error {
	store := c.Prompts()

	for op, p := range c.operationPrompts() {
		if p.System != "" {
			store.Set(op, PromptSystem, p.System, "config")
		}
		if p.User != "" {
			store.Set(op, PromptUser, p.User, "config")
		}
	}

	for _, f := range c.promptFiles() {
		content, err := readPromptFile(f.Path, f.Kind, f.Operation)
		if err != nil {
			return err
		}
		store.Set(f.Operation, f.Kind, content, "file:"+f.Path)
	}

	if count := store.Count(); count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}

	return nil
}

// reloadPromptFile re-reads every prompt configured with the given path.
// The previous content is kept when the file cannot be read.
func (c *Config) reloadPromptFile(path string) (int, error) {
	absTarget, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}

	reloaded := 0
	for _, f := range c.promptFiles() {
		absPath, err := filepath.Abs(f.Path)
		if err != nil || absPath != absTarget {
			continue
		}
		content, err := readPromptFile(f.Path, f.Kind, f.Operation)
		if err != nil {
			return reloaded, err
		}
		c.Prompts().Set(f.Operation, f.Kind, content, "file:"+f.Path)
		reloaded++
	}
	return reloaded, nil
}

// readPromptFile loads a prompt from a file, rejecting empty content
func readPromptFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, f := range c.promptFiles() {
		absPath, err := filepath.Abs(f.Path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", f.Kind, f.Operation, f.Path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", f.Kind, f.Operation, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}
