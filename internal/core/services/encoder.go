package services

import (
	"encoding/base64"
	"fmt"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// Encode converts raw file bytes to standard base64, which is safe inside a
// JSON string value. Empty input fails with domain.EncodingEmptyContent.
func Encode(data []byte) (domain.EncodedPayload, error) {
	if len(data) == 0 {
		return domain.EncodedPayload{}, &domain.EncodingError{Reason: domain.EncodingEmptyContent}
	}

	return domain.EncodedPayload{
		Content:            base64.StdEncoding.EncodeToString(data),
		OriginalByteLength: len(data),
	}, nil
}

// Decode reverses Encode.
func Decode(payload domain.EncodedPayload) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload.Content)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if len(data) != payload.OriginalByteLength {
		return nil, fmt.Errorf("decode payload: got %d bytes, want %d", len(data), payload.OriginalByteLength)
	}
	return data, nil
}
