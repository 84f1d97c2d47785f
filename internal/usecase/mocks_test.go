//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"interview-prep-subscription/internal/config"
	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/domain/ports/repository"
	"interview-prep-subscription/internal/plan"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newTestCatalog(t *testing.T) *plan.Catalog {
	t.Helper()
	c, err := plan.NewCatalog(config.PlansConfig{
		Monthly: config.PlanConfig{AmountMinor: 79900, Currency: "INR", DurationMonths: 1},
		Yearly:  config.PlanConfig{AmountMinor: 729900, Currency: "INR", DurationMonths: 12},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// signFor computes the signature the gateway would accept for a pair.
func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// --- Payment repository mock ---

type MockPaymentRepo struct {
	mu        sync.Mutex
	byOrderID map[string]*model.PaymentRecord

	SaveErr  error
	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error
	FindErr  error
	MarkErr  error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byOrderID: make(map[string]*model.PaymentRecord)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byOrderID[p.GatewayOrderID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.byOrderID[p.GatewayOrderID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, gatewayOrderID string) (*model.PaymentRecord, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byOrderID[gatewayOrderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) MarkCaptured(ctx context.Context, tx repository.Tx, gatewayOrderID, gatewayPaymentID, gatewaySignature string) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byOrderID[gatewayOrderID]
	if !ok {
		return domain.ErrOperationFailed
	}
	p.GatewayPaymentID = &gatewayPaymentID
	p.GatewaySignature = &gatewaySignature
	p.Status = model.PaymentStatusCaptured
	p.UpdatedAt = time.Now()
	return nil
}

// --- Subscription repository mock ---

type MockSubscriptionRepo struct {
	mu     sync.Mutex
	byUser map[string]*model.Subscription

	FindErr    error
	UpsertErr  error
	UpsertFunc func(ctx context.Context, tx repository.Tx, sub *model.Subscription) error
	Upserts    int
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{byUser: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	m.Upserts++
	m.mu.Unlock()
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, sub)
	}
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byUser[sub.UserID] = &cp
	return nil
}

// Seed stores a subscription row directly.
func (m *MockSubscriptionRepo) Seed(sub *model.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byUser[sub.UserID] = &cp
}

// --- Gateway mock ---

type MockGateway struct {
	NotReady       bool
	Secret         string
	CreateOrderErr error
	NextOrderID    string

	LastAmount   int64
	LastCurrency string
	LastReceipt  string
	LastNotes    map[string]interface{}
	CreateCalls  int
}

func NewMockGateway() *MockGateway {
	return &MockGateway{Secret: "test-secret", NextOrderID: "order_test_1"}
}

func (g *MockGateway) Name() string  { return "razorpay" }
func (g *MockGateway) Ready() bool   { return !g.NotReady }
func (g *MockGateway) KeyID() string { return "rzp_test_public" }

func (g *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	g.CreateCalls++
	if g.CreateOrderErr != nil {
		return "", g.CreateOrderErr
	}
	g.LastAmount = amountMinor
	g.LastCurrency = currency
	g.LastReceipt = receipt
	g.LastNotes = notes
	return g.NextOrderID, nil
}

func (g *MockGateway) VerifySignature(orderID, paymentID, signature string) error {
	if !hmac.Equal([]byte(signFor(g.Secret, orderID, paymentID)), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// --- Transaction manager mock ---

type MockTxManager struct {
	Err error
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, repository.NoTX)
}

// --- Locker mock ---

type MockLocker struct {
	mu      sync.Mutex
	TryErr  error
	Locked  []string
	Unlocks []string
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.TryErr != nil {
		return "", l.TryErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Locked = append(l.Locked, key)
	return "tok", nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Unlocks = append(l.Unlocks, key)
	return nil
}
