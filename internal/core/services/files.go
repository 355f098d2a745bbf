package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// LoadFile reads a spreadsheet from disk. The returned name is the base name
// of path, which is what the enrichment service receives.
func LoadFile(path string) (domain.UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.UploadedFile{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return domain.UploadedFile{Name: filepath.Base(path), Data: data}, nil
}

// IsSpreadsheet reports whether name carries the spreadsheet extension.
func IsSpreadsheet(name string) bool {
	return strings.EqualFold(filepath.Ext(name), domain.SpreadsheetExtension)
}

// SaveArtifact writes artifact into dir, or next to inputPath when dir is
// empty, and records the destination in artifact.Path.
func SaveArtifact(artifact *domain.DownloadedArtifact, inputPath, dir string) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("%w: no artifact to save", domain.ErrInvalidInput)
	}
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, artifact.SuggestedFileName)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil { //nolint:gosec // G306: output is a user document
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	artifact.Path = path
	return path, nil
}
