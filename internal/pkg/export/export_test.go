package export

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
)

func newRequest() Request {
	return Request{
		EventID:        uuid.New(),
		OrganizerID:    uuid.New(),
		EventName:      "夏祭り",
		OrganizerEmail: "organizer@example.com",
	}
}

func TestHTTPExporter_Success(t *testing.T) {
	req := newRequest()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var got Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, req, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"applicationCount":3,"spreadsheetUrl":"https://sheets.example.com/abc"}`))
	}))
	defer srv.Close()

	res, err := NewHTTPExporter(srv.URL, "secret", 5*time.Second, zerolog.Nop()).Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ApplicationCount)
	assert.Equal(t, "https://sheets.example.com/abc", res.SpreadsheetURL)
}

func TestHTTPExporter_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error with payload", http.StatusInternalServerError, `{"error":"sheets quota exceeded"}`},
		{"bad gateway without payload", http.StatusBadGateway, `oops`},
		{"error payload on 200", http.StatusOK, `{"error":"no applications"}`},
		{"missing count", http.StatusOK, `{"spreadsheetUrl":"x"}`},
		{"not json", http.StatusOK, `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := NewHTTPExporter(srv.URL, "", time.Second, zerolog.Nop()).Export(context.Background(), newRequest())
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestHTTPExporter_StatusErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPExporter(srv.URL, "", time.Second, zerolog.Nop()).Export(context.Background(), newRequest())
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "maintenance", httpErr.Message)
}

type fakeLister struct {
	apps []*models.ApplicationWithExhibitor
	err  error
}

func (f fakeLister) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.ApplicationWithExhibitor, error) {
	return f.apps, f.err
}

type memStore struct {
	name, path string
	data       []byte
}

func (m *memStore) SaveBytesWithPath(name string, data []byte, path string) (string, error) {
	m.name, m.path, m.data = name, path, data
	return "/uploads/" + path + "/" + name, nil
}

func TestCSVExporter(t *testing.T) {
	req := newRequest()
	applied := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	lister := fakeLister{apps: []*models.ApplicationWithExhibitor{
		{
			Application: models.Application{ID: uuid.New(), EventID: req.EventID, Status: models.ApplicationStatusApproved, AppliedAt: applied},
			Exhibitor:   models.ExhibitorContact{Name: "山田, 太郎", Email: "taro@example.com", PhoneNumber: "09012345678", GenreCategory: "飲食"},
		},
		{
			Application: models.Application{ID: uuid.New(), EventID: req.EventID, Status: models.ApplicationStatusPending, AppliedAt: applied},
			Exhibitor:   models.ExhibitorContact{Name: "Hanako", Email: "hanako@example.com"},
		},
	}}
	store := &memStore{}

	res, err := NewCSVExporter(lister, store, "exports", zerolog.Nop()).Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ApplicationCount)
	assert.Equal(t, "/uploads/exports/"+req.EventID.String()+".csv", res.SpreadsheetURL)

	content := strings.TrimPrefix(string(store.data), "\ufeff")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "申込ID,出店者名"))
	assert.Contains(t, lines[1], `"山田, 太郎",taro@example.com`)
	assert.Contains(t, lines[1], "approved,2026-09-01T10:00:00Z")
}

func TestCSVExporter_ListFailure(t *testing.T) {
	_, err := NewCSVExporter(fakeLister{err: errors.New("db down")}, &memStore{}, "exports", zerolog.Nop()).
		Export(context.Background(), newRequest())
	assert.Error(t, err)
}
