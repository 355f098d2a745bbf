package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
)

// submissionStore implements driven.SubmissionStore.
type submissionStore struct {
	store *Store
}

var _ driven.SubmissionStore = (*submissionStore)(nil)

const submissionColumns = `id, file_name, file_size, bucket, endpoint, phase,
	total_products, successful_summaries, successful_tags,
	failure_kind, failure_message, failure_status, failure_body,
	output_path, started_at, finished_at`

// Save stores or updates a submission.
func (s *submissionStore) Save(ctx context.Context, sub domain.Submission) error {
	if sub.ID == "" {
		return fmt.Errorf("%w: submission ID is required", domain.ErrInvalidInput)
	}

	var total, summaries, tags any
	if sub.Summary != nil {
		total = sub.Summary.TotalProducts
		summaries = sub.Summary.SuccessfulSummaries
		tags = sub.Summary.SuccessfulTags
	}

	var kind, message, status, body any
	if sub.Failure != nil {
		kind = string(sub.Failure.Kind)
		message = sub.Failure.Message
		status = nullInt(sub.Failure.HTTPStatus)
		body = nullString(sub.Failure.Body)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			bucket = excluded.bucket,
			endpoint = excluded.endpoint,
			phase = excluded.phase,
			total_products = excluded.total_products,
			successful_summaries = excluded.successful_summaries,
			successful_tags = excluded.successful_tags,
			failure_kind = excluded.failure_kind,
			failure_message = excluded.failure_message,
			failure_status = excluded.failure_status,
			failure_body = excluded.failure_body,
			output_path = excluded.output_path,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, sub.ID, sub.FileName, sub.FileSize, sub.Bucket, sub.Endpoint, string(sub.Phase),
		total, summaries, tags,
		kind, message, status, body,
		nullString(sub.OutputPath), formatTime(sub.StartedAt), formatNullableTime(sub.FinishedAt))

	if err != nil {
		return fmt.Errorf("saving submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by ID.
func (s *submissionStore) Get(ctx context.Context, id string) (*domain.Submission, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns submissions newest first.
func (s *submissionStore) List(ctx context.Context, limit int) ([]domain.Submission, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	subs := []domain.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}

	return subs, nil
}

// Delete removes a submission. Deleting an unknown ID is not an error.
func (s *submissionStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var sub domain.Submission
	var phase, startedAt string
	var total, summaries, tags, status sql.NullInt64
	var kind, message, body, outputPath, finishedAt sql.NullString

	err := row.Scan(&sub.ID, &sub.FileName, &sub.FileSize, &sub.Bucket, &sub.Endpoint, &phase,
		&total, &summaries, &tags,
		&kind, &message, &status, &body,
		&outputPath, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning submission: %w", err)
	}

	sub.Phase = domain.Phase(phase)
	if total.Valid || summaries.Valid || tags.Valid {
		sub.Summary = &domain.ResultsSummary{
			TotalProducts:       int(total.Int64),
			SuccessfulSummaries: int(summaries.Int64),
			SuccessfulTags:      int(tags.Int64),
		}
	}
	if kind.Valid {
		sub.Failure = &domain.FailureInfo{
			Kind:       domain.FailureKind(kind.String),
			Message:    message.String,
			HTTPStatus: int(status.Int64),
			Body:       body.String,
		}
	}
	sub.OutputPath = outputPath.String
	sub.StartedAt = parseTime(startedAt)
	sub.FinishedAt = parseNullableTime(finishedAt)

	return &sub, nil
}

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseNullableTime returns zero time if the string is null or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	return parseTime(s.String)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
