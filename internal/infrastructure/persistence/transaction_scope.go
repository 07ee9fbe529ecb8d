package persistence

import (
	"context"

	appanalytics "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	appidentity "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	appwallet "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionScope runs units of work in GORM transactions. One value
// serves the ledger, wallet and registration scopes.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Ledger returns the scope used by view recording and file registration
func (s *GormTransactionScope) Ledger() appanalytics.LedgerTransactionScope {
	return ledgerScope{db: s.db}
}

// Wallet returns the scope used by the withdrawal lifecycle
func (s *GormTransactionScope) Wallet() appwallet.WalletTransactionScope {
	return walletScope{db: s.db}
}

// Registration returns the scope used to create users
func (s *GormTransactionScope) Registration() appidentity.RegistrationTransactionScope {
	return registrationScope{db: s.db}
}

// gormRepositories provides access to all repositories within a transaction.
type gormRepositories struct {
	tx *gorm.DB
}

// FileRepo returns the file repository scoped to the current transaction.
func (r *gormRepositories) FileRepo() analytics.FileRepository {
	return NewGormFileRepository(r.tx)
}

// EntryRepo returns the daily analytics repository scoped to the current transaction.
func (r *gormRepositories) EntryRepo() analytics.DailyAnalyticsRepository {
	return NewGormDailyAnalyticsRepository(r.tx)
}

// ViewEventRepo returns the view event repository scoped to the current transaction.
func (r *gormRepositories) ViewEventRepo() analytics.ViewEventRepository {
	return NewGormViewEventRepository(r.tx)
}

// WalletRepo returns the wallet repository scoped to the current transaction.
func (r *gormRepositories) WalletRepo() wallet.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// TransactionRepo returns the withdrawal repository scoped to the current transaction.
func (r *gormRepositories) TransactionRepo() wallet.TransactionRepository {
	return NewGormWalletTransactionRepository(r.tx)
}

// UserRepo returns the user repository scoped to the current transaction.
func (r *gormRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// OTPRepo returns the OTP repository scoped to the current transaction.
func (r *gormRepositories) OTPRepo() identity.OTPRepository {
	return NewGormOTPRepository(r.tx)
}

// LockRows issues SELECT ... ORDER BY ... FOR UPDATE on files and then on
// wallets. PostgreSQL locks rows in the sorted output order, so two views
// sharing rows always contend on the same row first. SQLite drops the
// locking clause and serializes writers on its own.
func (r *gormRepositories) LockRows(ctx context.Context, fileIDs, walletUserIDs []uuid.UUID) error {
	if len(fileIDs) > 0 {
		var locked []uuid.UUID
		err := r.tx.WithContext(ctx).Model(&models.FileModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", fileIDs).
			Order("id").
			Pluck("id", &locked).Error
		if err != nil {
			return translateError(err)
		}
	}
	if len(walletUserIDs) > 0 {
		var locked []uuid.UUID
		err := r.tx.WithContext(ctx).Model(&models.WalletModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id IN ?", walletUserIDs).
			Order("user_id").
			Pluck("user_id", &locked).Error
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Savepoint runs fn in a nested GORM transaction, which GORM issues as a
// SAVEPOINT inside the outer one.
func (r *gormRepositories) Savepoint(ctx context.Context, fn func(repos appanalytics.LedgerRepositories) error) error {
	return translateError(r.tx.WithContext(ctx).Transaction(func(nested *gorm.DB) error {
		return fn(&gormRepositories{tx: nested})
	}))
}

type ledgerScope struct{ db *gorm.DB }

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s ledgerScope) Execute(ctx context.Context, fn func(repos appanalytics.LedgerRepositories) error) error {
	return translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	}))
}

type walletScope struct{ db *gorm.DB }

// Execute runs fn within a database transaction.
func (s walletScope) Execute(ctx context.Context, fn func(repos appwallet.WalletRepositories) error) error {
	return translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	}))
}

type registrationScope struct{ db *gorm.DB }

// Execute runs fn within a database transaction.
func (s registrationScope) Execute(ctx context.Context, fn func(repos appidentity.RegistrationRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

var (
	_ appanalytics.LedgerTransactionScope       = ledgerScope{}
	_ appwallet.WalletTransactionScope          = walletScope{}
	_ appidentity.RegistrationTransactionScope  = registrationScope{}
	_ appanalytics.LedgerRepositories           = (*gormRepositories)(nil)
	_ appwallet.WalletRepositories              = (*gormRepositories)(nil)
	_ appidentity.RegistrationRepositories      = (*gormRepositories)(nil)
)
