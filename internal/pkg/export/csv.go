package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/models"
)

// ContactLister loads the applications of an event together with exhibitor contacts
type ContactLister interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.ApplicationWithExhibitor, error)
}

// BlobStore persists generated files and returns their public URL
type BlobStore interface {
	SaveBytesWithPath(name string, data []byte, path string) (string, error)
}

var csvHeader = []string{"申込ID", "出店者名", "メールアドレス", "電話番号", "ジャンル", "ジャンル詳細", "ステータス", "申込日時"}

// CSVExporter writes the contacts to a CSV file in local storage
type CSVExporter struct {
	contacts ContactLister
	store    BlobStore
	subPath  string
	logger   zerolog.Logger
}

// NewCSVExporter creates an exporter writing under subPath of store
func NewCSVExporter(contacts ContactLister, store BlobStore, subPath string, logger zerolog.Logger) *CSVExporter {
	return &CSVExporter{
		contacts: contacts,
		store:    store,
		subPath:  subPath,
		logger:   logger,
	}
}

// Export writes one row per application and returns the file URL
func (e *CSVExporter) Export(ctx context.Context, req Request) (*Result, error) {
	apps, err := e.contacts.ListByEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	var buf bytes.Buffer
	// BOM so spreadsheet tools detect UTF-8
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range apps {
		record := []string{
			a.ID.String(),
			a.Exhibitor.Name,
			a.Exhibitor.Email,
			a.Exhibitor.PhoneNumber,
			a.Exhibitor.GenreCategory,
			a.Exhibitor.GenreFreeText,
			string(a.Status),
			a.AppliedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	url, err := e.store.SaveBytesWithPath(req.EventID.String()+".csv", buf.Bytes(), e.subPath)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	e.logger.Info().
		Str("eventID", req.EventID.String()).
		Int("applicationCount", len(apps)).
		Str("url", url).
		Msg("CSV export written")

	return &Result{ApplicationCount: len(apps), SpreadsheetURL: url}, nil
}
