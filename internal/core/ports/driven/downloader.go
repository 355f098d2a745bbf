package driven

import "context"

// Downloader retrieves the enhanced spreadsheet from the URL returned by
// the enrichment service.
type Downloader interface {
	// Fetch returns the body of a successful GET. Any other outcome is a
	// *domain.DownloadError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
