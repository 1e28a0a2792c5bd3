package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/filestorage"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// MaxDocumentSize is the upload limit for one exhibitor document
const MaxDocumentSize = 10 << 20

var allowedDocumentExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true,
}

// ExhibitorService defines exhibitor onboarding and profile operations
type ExhibitorService interface {
	Register(ctx context.Context, identity models.Identity, profile models.ExhibitorProfile) (*models.Exhibitor, error)
	GetProfile(ctx context.Context, identity models.Identity) (*models.Exhibitor, error)
	UpdateProfile(ctx context.Context, identity models.Identity, profile models.ExhibitorProfile) (*models.Exhibitor, error)
	UploadDocument(ctx context.Context, identity models.Identity, kind models.DocumentKind, file *multipart.FileHeader) (*models.Exhibitor, error)
}

type exhibitorServiceImpl struct {
	exhibitors ExhibitorStore
	resolver   *auth.IdentityResolver
	storage    filestorage.DocumentStore
}

// NewExhibitorService creates a new exhibitor service instance
func NewExhibitorService(exhibitors ExhibitorStore, resolver *auth.IdentityResolver, storage filestorage.DocumentStore) ExhibitorService {
	return &exhibitorServiceImpl{
		exhibitors: exhibitors,
		resolver:   resolver,
		storage:    storage,
	}
}

// Register creates the exhibitor row owned by identity. An identity owns at most one row.
func (s *exhibitorServiceImpl) Register(ctx context.Context, identity models.Identity, profile models.ExhibitorProfile) (*models.Exhibitor, error) {
	_, found, err := s.resolver.ResolveExhibitor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, apperrors.ErrAlreadyRegistered
	}

	exhibitor := &models.Exhibitor{
		AccountKeys:      models.KeysFor(identity),
		ExhibitorProfile: normalizeExhibitorProfile(profile),
	}
	if err := s.exhibitors.Create(ctx, exhibitor); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("error registering exhibitor: %w", err)
	}

	logger.Info().Str("exhibitorID", exhibitor.ID.String()).Str("method", string(identity.Method())).Msg("Exhibitor registered")
	return exhibitor, nil
}

func (s *exhibitorServiceImpl) GetProfile(ctx context.Context, identity models.Identity) (*models.Exhibitor, error) {
	return s.resolver.RequireExhibitor(ctx, identity)
}

func (s *exhibitorServiceImpl) UpdateProfile(ctx context.Context, identity models.Identity, profile models.ExhibitorProfile) (*models.Exhibitor, error) {
	exhibitor, err := s.resolver.RequireExhibitor(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.exhibitors.UpdateProfile(ctx, exhibitor.ID, normalizeExhibitorProfile(profile))
}

// UploadDocument stores file in the kind slot and removes the file it replaces
func (s *exhibitorServiceImpl) UploadDocument(ctx context.Context, identity models.Identity, kind models.DocumentKind, file *multipart.FileHeader) (*models.Exhibitor, error) {
	if _, ok := kind.Column(); !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidDocumentKind, kind)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}
	if file.Size > MaxDocumentSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrValidationFailed, MaxDocumentSize)
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); !allowedDocumentExts[ext] {
		return nil, fmt.Errorf("%w: unsupported file type %q", apperrors.ErrValidationFailed, ext)
	}

	exhibitor, err := s.resolver.RequireExhibitor(ctx, identity)
	if err != nil {
		return nil, err
	}
	previous := exhibitor.Documents.Get(kind)

	url, err := s.storage.SaveFileWithPath(file, "documents/"+exhibitor.ID.String())
	if err != nil {
		return nil, fmt.Errorf("error saving document: %w", err)
	}

	updated, err := s.exhibitors.UpdateDocument(ctx, exhibitor.ID, kind, url)
	if err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned document")
		}
		return nil, err
	}

	if previous != "" && previous != url {
		if err := s.storage.DeleteFile(previous); err != nil {
			logger.Warn().Err(err).Str("url", previous).Msg("Failed to remove replaced document")
		}
	}
	return updated, nil
}

func normalizeExhibitorProfile(p models.ExhibitorProfile) models.ExhibitorProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.GenreFreeText = strings.TrimSpace(p.GenreFreeText)
	return p
}
