package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

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

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockFileRepository is a mock implementation of analytics.FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *analytics.FileRecord) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*analytics.FileRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.FileRecord), args.Error(1)
}

func (m *MockFileRepository) IncrementTotalViews(ctx context.Context, id uuid.UUID, delta int64) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *MockFileRepository) AddReferralEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockFileRepository) CountUploads(ctx context.Context, ownerID uuid.UUID, period analytics.Period) (int64, error) {
	args := m.Called(ctx, ownerID, period)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) CountUploadsPerDay(ctx context.Context, ownerID uuid.UUID, period analytics.Period) (map[time.Time]int64, error) {
	args := m.Called(ctx, ownerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]int64), args.Error(1)
}

// MockEntryRepository is a mock implementation of analytics.DailyAnalyticsRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) IncrementView(ctx context.Context, key analytics.EntryKey, earnings decimal.Decimal) (*analytics.DailyAnalyticsEntry, error) {
	args := m.Called(ctx, key, earnings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DailyAnalyticsEntry), args.Error(1)
}

func (m *MockEntryRepository) AddReferralEarnings(ctx context.Context, key analytics.EntryKey, amount decimal.Decimal) (*analytics.DailyAnalyticsEntry, error) {
	args := m.Called(ctx, key, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DailyAnalyticsEntry), args.Error(1)
}

func (m *MockEntryRepository) Seed(ctx context.Context, key analytics.EntryKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockEntryRepository) FindByKey(ctx context.Context, key analytics.EntryKey) (*analytics.DailyAnalyticsEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DailyAnalyticsEntry), args.Error(1)
}

func (m *MockEntryRepository) SumByUser(ctx context.Context, userID uuid.UUID, period analytics.Period) (analytics.UsageSum, error) {
	args := m.Called(ctx, userID, period)
	return args.Get(0).(analytics.UsageSum), args.Error(1)
}

func (m *MockEntryRepository) SumByUserPerDay(ctx context.Context, userID uuid.UUID, period analytics.Period) ([]analytics.DaySum, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.DaySum), args.Error(1)
}

// MockViewEventRepository is a mock implementation of analytics.ViewEventRepository
type MockViewEventRepository struct {
	mock.Mock
}

func (m *MockViewEventRepository) Register(ctx context.Context, event *analytics.ViewEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewEventRepository) FindByID(ctx context.Context, eventID string) (*analytics.ViewEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.ViewEvent), args.Error(1)
}

// MockWalletRepository is a mock implementation of wallet.WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Apply(ctx context.Context, userID uuid.UUID, t wallet.Transition) error {
	return m.Called(ctx, userID, t).Error(0)
}

func (m *MockWalletRepository) ApplyVersioned(ctx context.Context, userID uuid.UUID, version int, t wallet.Transition) error {
	return m.Called(ctx, userID, version, t).Error(0)
}

func (m *MockWalletRepository) List(ctx context.Context, page shared.Pagination) ([]*wallet.Wallet, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*wallet.Wallet), args.Get(1).(int64), args.Error(2)
}

// MemoryCache is an in-memory AggregationCache that counts hits
type MemoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
	hits   int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *MemoryCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
