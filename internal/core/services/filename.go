package services

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// maxExtensionLength bounds what counts as a recognisable extension.
const maxExtensionLength = 10

// SuggestedFileName inserts suffix before the extension of name, so
// products.xlsx becomes products_enhanced.xlsx. Names without a recognisable
// extension get the suffix appended. An empty suffix uses domain.DefaultSuffix.
func SuggestedFileName(name, suffix string) string {
	if suffix == "" {
		suffix = domain.DefaultSuffix
	}

	base := name
	if name != "" {
		base = filepath.Base(name)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if !isRecognisableExtension(ext) || stem == "" {
		return base + suffix
	}
	return stem + suffix + ext
}

// isRecognisableExtension accepts a dot followed by 1-10 letters or digits.
func isRecognisableExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > maxExtensionLength+1 {
		return false
	}
	for _, r := range ext[1:] {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
