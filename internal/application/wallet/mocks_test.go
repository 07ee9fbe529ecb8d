package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memWallets is an in-memory WalletRepository with the same atomicity rules
// as the SQL implementation
type memWallets struct {
	mu       sync.Mutex
	wallets  map[uuid.UUID]*wallet.Wallet
	conflict int // number of ApplyVersioned calls to fail before succeeding
}

func newMemWallets() *memWallets {
	return &memWallets{wallets: make(map[uuid.UUID]*wallet.Wallet)}
}

func (m *memWallets) Create(ctx context.Context, w *wallet.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[w.UserID]; ok {
		return shared.ErrAlreadyExists
	}
	m.wallets[w.UserID] = wallet.Restore(w.BaseEntity, w.UserID, w.Balances(), w.Version)
	return nil
}

func (m *memWallets) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return wallet.Restore(w.BaseEntity, w.UserID, w.Balances(), w.Version), nil
}

func (m *memWallets) Apply(ctx context.Context, userID uuid.UUID, t wallet.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return shared.ErrNotFound
	}
	return w.Apply(t, time.Now())
}

func (m *memWallets) ApplyVersioned(ctx context.Context, userID uuid.UUID, version int, t wallet.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return shared.ErrNotFound
	}
	if m.conflict > 0 {
		m.conflict--
		return shared.ErrConcurrencyConflict
	}
	if w.Version != version {
		return shared.ErrConcurrencyConflict
	}
	return w.Apply(t, time.Now())
}

func (m *memWallets) List(ctx context.Context, page shared.Pagination) ([]*wallet.Wallet, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*wallet.Wallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, int64(len(out)), nil
}

// memTransactions is an in-memory TransactionRepository with status compare-and-set
type memTransactions struct {
	mu  sync.Mutex
	txs map[uuid.UUID]*wallet.WalletTransaction
}

func newMemTransactions() *memTransactions {
	return &memTransactions{txs: make(map[uuid.UUID]*wallet.WalletTransaction)}
}

func (m *memTransactions) Create(ctx context.Context, tx *wallet.WalletTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *memTransactions) FindByID(ctx context.Context, id uuid.UUID) (*wallet.WalletTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *memTransactions) ListByUser(ctx context.Context, userID uuid.UUID, filter wallet.TransactionFilter) ([]*wallet.WalletTransaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*wallet.WalletTransaction
	for _, tx := range m.txs {
		if tx.UserID != userID {
			continue
		}
		if filter.Status != nil && tx.Status != *filter.Status {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	start := filter.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memTransactions) UpdateStatus(ctx context.Context, tx *wallet.WalletTransaction, expected wallet.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.txs[tx.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != expected {
		return shared.ErrConcurrencyConflict
	}
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *memTransactions) UpdateDetails(ctx context.Context, tx *wallet.WalletTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.txs[tx.ID]
	if !ok {
		return shared.ErrNotFound
	}
	stored.Note = tx.Note
	stored.ReferenceID = tx.ReferenceID
	return nil
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateBillingDetails(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) Events() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shared.DomainEvent(nil), m.events...)
}
