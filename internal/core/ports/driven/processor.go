package driven

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// Processor submits a spreadsheet to the remote enrichment service.
//
// Implementations issue exactly one request per call and never retry.
// Every outcome, including transport failures, is reported through the
// returned ProcessingResult rather than an error.
type Processor interface {
	// Submit sends the payload and classifies the response.
	Submit(ctx context.Context, payload domain.EncodedPayload, fileName, bucket string) domain.ProcessingResult

	// Endpoint returns the URL requests are sent to.
	Endpoint() string
}
