package analytics

import (
	"context"
	"fmt"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterFileInput describes an uploaded file. The bytes live in object
// storage; only the key is recorded.
type RegisterFileInput struct {
	OwnerID    uuid.UUID
	Name       string
	MimeType   string
	SizeBytes  int64
	StorageKey string
}

// FileService registers uploads and clones
type FileService struct {
	scope  LedgerTransactionScope
	files  analytics.FileRepository
	clock  analytics.Clock
	logger *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(scope LedgerTransactionScope, files analytics.FileRepository, clock analytics.Clock, logger *zap.Logger) *FileService {
	if clock == nil {
		clock = analytics.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{scope: scope, files: files, clock: clock, logger: logger}
}

// RegisterFile creates an ORIGINAL file and seeds the owner's zero entry for today
func (s *FileService) RegisterFile(ctx context.Context, input RegisterFileInput) (*analytics.FileRecord, error) {
	now := s.clock()
	file, err := analytics.NewOriginalFile(input.OwnerID, input.Name, input.MimeType, input.SizeBytes, input.StorageKey, now)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		if err := repos.FileRepo().Create(ctx, file); err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		return repos.EntryRepo().Seed(ctx, analytics.NewEntryKey(file.ID, file.CurrentOwnerID, now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file registered",
		zap.String("file_id", file.ID.String()),
		zap.String("owner_id", file.CurrentOwnerID.String()))
	return file, nil
}

// CloneFile creates a CLONE of fileID owned by newOwnerID. A clone of a
// clone refers to the root original.
func (s *FileService) CloneFile(ctx context.Context, fileID, newOwnerID uuid.UUID) (*analytics.FileRecord, error) {
	if fileID == uuid.Nil || newOwnerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file id and owner id are required")
	}
	source, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	clone, err := source.Clone(newOwnerID, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.files.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create clone: %w", err)
	}

	s.logger.Info("file cloned",
		zap.String("file_id", clone.ID.String()),
		zap.String("source_file_id", fileID.String()),
		zap.String("owner_id", newOwnerID.String()))
	return clone, nil
}

// GetFile returns a file by id
func (s *FileService) GetFile(ctx context.Context, fileID uuid.UUID) (*analytics.FileRecord, error) {
	return s.files.FindByID(ctx, fileID)
}
