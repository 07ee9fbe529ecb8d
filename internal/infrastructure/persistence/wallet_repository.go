package persistence

import (
	"context"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWalletRepository implements wallet.WalletRepository using GORM.
// Every transition is one conditional UPDATE; the WHERE clause guards the
// source bucket so a short balance updates no row.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Create inserts a new wallet
func (r *GormWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	return translateError(r.db.WithContext(ctx).Create(models.WalletModelFromDomain(w)).Error)
}

// FindByUserID finds the wallet owned by userID
func (r *GormWalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Apply performs t atomically
func (r *GormWalletRepository) Apply(ctx context.Context, userID uuid.UUID, t wallet.Transition) error {
	return r.apply(ctx, userID, nil, t)
}

// ApplyVersioned performs t only if the wallet is still at version
func (r *GormWalletRepository) ApplyVersioned(ctx context.Context, userID uuid.UUID, version int, t wallet.Transition) error {
	return r.apply(ctx, userID, &version, t)
}

func (r *GormWalletRepository) apply(ctx context.Context, userID uuid.UUID, version *int, t wallet.Transition) error {
	if err := t.Validate(); err != nil {
		return err
	}

	updates := map[string]any{
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now().UTC(),
	}
	query := r.db.WithContext(ctx).Model(&models.WalletModel{}).Where("user_id = ?", userID)

	if t.From != "" {
		col, err := t.From.Column()
		if err != nil {
			return err
		}
		updates[col] = gorm.Expr(col+" - ?", t.Amount)
		query = query.Where(col+" >= ?", t.Amount)
	}
	if t.To != "" {
		col, err := t.To.Column()
		if err != nil {
			return err
		}
		updates[col] = gorm.Expr(col+" + ?", t.Amount)
	}
	switch t.Operation {
	case wallet.OperationCredit:
		updates["total_credited"] = gorm.Expr("total_credited + ?", t.Amount)
	case wallet.OperationDebit:
		updates["total_debited"] = gorm.Expr("total_debited + ?", t.Amount)
	}
	if version != nil {
		query = query.Where("version = ?", *version)
	}

	result := query.UpdateColumns(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return r.explainNoUpdate(ctx, userID, version, t)
}

// explainNoUpdate works out which guard stopped a transition
func (r *GormWalletRepository) explainNoUpdate(ctx context.Context, userID uuid.UUID, version *int, t wallet.Transition) error {
	w, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if version != nil && w.Version != *version {
		return shared.ErrConcurrencyConflict
	}
	if t.From != "" && w.Balance(t.From).LessThan(t.Amount) {
		return shared.NewDomainError(shared.CodeInsufficientFunds, "insufficient funds in "+t.From.String()+" balance")
	}
	return shared.ErrConcurrencyConflict
}

// List pages through all wallets ordered by user id
func (r *GormWalletRepository) List(ctx context.Context, page shared.Pagination) ([]*wallet.Wallet, int64, error) {
	page = page.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.WalletModel
	err := r.db.WithContext(ctx).
		Order("user_id").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]*wallet.Wallet, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ wallet.WalletRepository = (*GormWalletRepository)(nil)

// GormWalletTransactionRepository implements wallet.TransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create inserts a new withdrawal
func (r *GormWalletTransactionRepository) Create(ctx context.Context, tx *wallet.WalletTransaction) error {
	return translateError(r.db.WithContext(ctx).Create(models.WalletTransactionModelFromDomain(tx)).Error)
}

// FindByID finds a withdrawal by its ID
func (r *GormWalletTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.WalletTransaction, error) {
	var model models.WalletTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ListByUser returns the user's withdrawals newest first
func (r *GormWalletTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter wallet.TransactionFilter) ([]*wallet.WalletTransaction, int64, error) {
	page := filter.Pagination.Normalize()
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.WalletTransactionModel
	err := query.
		Order("created_at DESC").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]*wallet.WalletTransaction, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// UpdateStatus saves the new status only if the stored one still equals expected
func (r *GormWalletTransactionRepository) UpdateStatus(ctx context.Context, tx *wallet.WalletTransaction, expected wallet.Status) error {
	result := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("id = ? AND status = ?", tx.ID, expected).
		UpdateColumns(map[string]any{
			"status":            tx.Status,
			"status_changed_at": tx.StatusChangedAt,
			"note":              tx.Note,
			"reference_id":      tx.ReferenceID,
			"updated_at":        tx.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, tx.ID); err != nil {
		return err
	}
	return shared.ErrConcurrencyConflict
}

// UpdateDetails saves note and reference id
func (r *GormWalletTransactionRepository) UpdateDetails(ctx context.Context, tx *wallet.WalletTransaction) error {
	result := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("id = ?", tx.ID).
		UpdateColumns(map[string]any{
			"note":         tx.Note,
			"reference_id": tx.ReferenceID,
			"updated_at":   tx.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ wallet.TransactionRepository = (*GormWalletTransactionRepository)(nil)
