package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"salaryinsights/internal/errors"
)

var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64 // zero means unlimited
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadTextFile validates and reads an input file such as a saved job description
func (fp *FileProcessor) ReadTextFile(filename string) (string, error) {
	if filename == "" {
		return "", errors.NewValidationError("INVALID_INPUT_FILE", "filename cannot be empty", nil)
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", filename), err)
	}
	if info.IsDir() {
		return "", errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}
	if fp.maxSize > 0 && info.Size() > fp.maxSize {
		return "", errors.NewValidationError("INPUT_FILE_TOO_LARGE",
			fmt.Sprintf("File %s is %d bytes, limit is %d", filename, info.Size(), fp.maxSize), nil)
	}

	if !slices.Contains(textExtensions, strings.ToLower(filepath.Ext(filename))) && fp.logger != nil {
		fp.logger.Warn("File may not be a text file", "filename", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// WriteFile writes content to a file, creating its directory
func (fp *FileProcessor) WriteFile(filename string, content []byte) error {
	if err := fp.ensureDir(filename); err != nil {
		return err
	}

	if err := os.WriteFile(filename, content, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

func (fp *FileProcessor) ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED",
			fmt.Sprintf("Cannot create directory: %s", dir), err)
	}
	return nil
}
