package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
)

func TestExhibitorRegisterOncePerIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	identity := models.ExternalAccount{ExternalUserID: "U-1"}
	profile := models.ExhibitorProfile{Name: " やきそば屋 ", Gender: "女", Age: 30, PhoneNumber: "090-1234-5678", Email: "a@example.com"}

	ex, err := f.exhibitors.Register(ctx, identity, profile)
	require.NoError(t, err)
	assert.Equal(t, "やきそば屋", ex.Name)
	require.NotNil(t, ex.LineUserID)
	assert.Equal(t, "U-1", *ex.LineUserID)
	assert.Nil(t, ex.UserID)

	_, err = f.exhibitors.Register(ctx, identity, profile)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	// same key under the other variant is a different principal
	_, err = f.exhibitors.Register(ctx, models.LinkedAccount{UserID: "U-1"}, profile)
	require.NoError(t, err)
}

func TestExhibitorProfileRequiresRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)

	_, err := f.exhibitors.GetProfile(ctx, models.LinkedAccount{UserID: "nobody"})
	assert.ErrorIs(t, err, apperrors.ErrNotRegistered)

	_, err = f.exhibitors.UpdateProfile(ctx, models.LinkedAccount{UserID: "nobody"}, models.ExhibitorProfile{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotRegistered)
}

func TestExhibitorUploadDocumentReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	ex := f.db.addExhibitor(models.AccountKeys{UserID: strPtr("u-1")})
	identity := models.LinkedAccount{UserID: "u-1"}

	first, err := f.exhibitors.UploadDocument(ctx, identity, models.DocumentBusinessLicense, &multipart.FileHeader{Filename: "license.png", Size: 1024})
	require.NoError(t, err)
	firstURL := first.Documents.BusinessLicenseImageURL
	assert.Contains(t, firstURL, "documents/"+ex.ID.String())

	second, err := f.exhibitors.UploadDocument(ctx, identity, models.DocumentBusinessLicense, &multipart.FileHeader{Filename: "license.pdf", Size: 2048})
	require.NoError(t, err)
	assert.NotEqual(t, firstURL, second.Documents.BusinessLicenseImageURL)
	assert.Equal(t, []string{firstURL}, f.storage.deleted)
}

func TestExhibitorUploadDocumentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	f.db.addExhibitor(models.AccountKeys{UserID: strPtr("u-1")})
	identity := models.LinkedAccount{UserID: "u-1"}

	_, err := f.exhibitors.UploadDocument(ctx, identity, "passport", &multipart.FileHeader{Filename: "a.png"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDocumentKind)

	_, err = f.exhibitors.UploadDocument(ctx, identity, models.DocumentPLInsurance, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.exhibitors.UploadDocument(ctx, identity, models.DocumentPLInsurance, &multipart.FileHeader{Filename: "a.exe", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.exhibitors.UploadDocument(ctx, identity, models.DocumentPLInsurance, &multipart.FileHeader{Filename: "a.png", Size: MaxDocumentSize + 1})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, f.storage.saved)
}

func TestOrganizerRegisterAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	identity := models.LinkedAccount{UserID: "org-1"}

	_, err := f.organizers.GetProfile(ctx, identity)
	assert.ErrorIs(t, err, apperrors.ErrNotRegistered)

	org, err := f.organizers.Register(ctx, identity, models.OrganizerProfile{Name: "商店会", Email: "info@example.com"})
	require.NoError(t, err)
	require.NotNil(t, org.UserID)
	assert.Equal(t, "org-1", *org.UserID)

	got, err := f.organizers.GetProfile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	_, err = f.organizers.Register(ctx, identity, models.OrganizerProfile{Name: "again"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestOrganizerUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	identity := models.LinkedAccount{UserID: "org-1"}

	_, err := f.organizers.UpdateProfile(ctx, identity, models.OrganizerProfile{Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrNotRegistered)

	org := f.db.addOrganizer(models.AccountKeys{UserID: strPtr("org-1")}, "old@example.com")

	updated, err := f.organizers.UpdateProfile(ctx, identity, models.OrganizerProfile{
		Name: " 駅前商店会 ", Email: " new@example.com ", PhoneNumber: "03-1234-5678",
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, updated.ID)
	assert.Equal(t, "駅前商店会", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "03-1234-5678", updated.PhoneNumber)

	_, err = f.organizers.UpdateProfile(ctx, identity, models.OrganizerProfile{Name: "  ", Email: "a@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.organizers.UpdateProfile(ctx, identity, models.OrganizerProfile{Name: "商店会", Email: " "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "new@example.com", org.Email)
}
