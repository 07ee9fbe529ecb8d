package analytics

import (
	"context"
	"testing"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFileFixture() (*MockFileRepository, *MockEntryRepository, *FileService) {
	files := new(MockFileRepository)
	entries := new(MockEntryRepository)
	scope := &NoOpLedgerScope{Files: files, Entries: entries}
	return files, entries, NewFileService(scope, files, fixedClock, zap.NewNop())
}

func TestRegisterFile_SeedsOwnerEntry(t *testing.T) {
	files, entries, service := newFileFixture()
	ctx := context.Background()
	owner := uuid.New()

	files.On("Create", ctx, mock.AnythingOfType("*analytics.FileRecord")).Return(nil)
	entries.On("Seed", ctx, mock.MatchedBy(func(k analytics.EntryKey) bool {
		return k.UserID == owner && k.Day.Equal(analytics.DayOf(fixedNow))
	})).Return(nil)

	file, err := service.RegisterFile(ctx, RegisterFileInput{
		OwnerID:    owner,
		Name:       "notes.txt",
		MimeType:   "text/plain",
		SizeBytes:  12,
		StorageKey: "u/notes.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, analytics.SourceOriginal, file.Source)
	assert.Equal(t, owner, file.CurrentOwnerID)
	assert.Equal(t, owner, file.OriginalOwnerID)
	assert.Equal(t, analytics.DayOf(fixedNow), file.UploadedDay)
	files.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestRegisterFile_RejectsEmptyName(t *testing.T) {
	files, _, service := newFileFixture()

	_, err := service.RegisterFile(context.Background(), RegisterFileInput{OwnerID: uuid.New(), Name: "  "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCloneFile(t *testing.T) {
	files, _, service := newFileFixture()
	ctx := context.Background()
	owner, cloner := uuid.New(), uuid.New()
	original, err := analytics.NewOriginalFile(owner, "a.pdf", "application/pdf", 1, "k", fixedNow)
	require.NoError(t, err)

	files.On("FindByID", ctx, original.ID).Return(original, nil)
	files.On("Create", ctx, mock.AnythingOfType("*analytics.FileRecord")).Return(nil)

	clone, err := service.CloneFile(ctx, original.ID, cloner)
	require.NoError(t, err)

	assert.Equal(t, analytics.SourceClone, clone.Source)
	require.NotNil(t, clone.OriginalFileID)
	assert.Equal(t, original.ID, *clone.OriginalFileID)
	assert.Equal(t, owner, clone.OriginalOwnerID)
	assert.Equal(t, cloner, clone.CurrentOwnerID)
}

func TestCloneFile_SourceMissing(t *testing.T) {
	files, _, service := newFileFixture()
	ctx := context.Background()
	id := uuid.New()

	files.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := service.CloneFile(ctx, id, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
