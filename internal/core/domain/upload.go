package domain

// SpreadsheetMIMEType is the content type of the enhanced workbook.
const SpreadsheetMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpreadsheetExtension is the file extension the enrichment service expects.
const SpreadsheetExtension = ".xlsx"

// UploadedFile is the spreadsheet selected for enrichment.
// The workflow reads it but never mutates it.
type UploadedFile struct {
	// Name is the original file name including extension.
	Name string

	// Data is the raw file content.
	Data []byte
}

// Size returns the file size in bytes.
func (f UploadedFile) Size() int {
	return len(f.Data)
}

// EncodedPayload is the transport-safe text form of a file.
// Content is non-empty if and only if OriginalByteLength > 0.
type EncodedPayload struct {
	// Content is the encoded text.
	Content string

	// OriginalByteLength is the length of the bytes before encoding.
	OriginalByteLength int
}

// ProcessingRequest is the body sent to the enrichment endpoint.
type ProcessingRequest struct {
	FileContent  string `json:"file_content"`
	FileName     string `json:"file_name"`
	TargetBucket string `json:"s3_bucket"`
}

// DownloadedArtifact is the enhanced spreadsheet retrieved after processing.
type DownloadedArtifact struct {
	// Data is the enhanced file content.
	Data []byte `json:"-"`

	// SuggestedFileName is the original name with the enhanced qualifier.
	SuggestedFileName string `json:"suggested_file_name"`

	// Path is where the artifact was written, if it was saved.
	Path string `json:"path,omitempty"`
}

// Size returns the artifact size in bytes.
func (a *DownloadedArtifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}
