package service

import (
	"context"
	"sync"
	"time"

	"learn-assist/internal/domain"

	"github.com/stretchr/testify/mock"
)

// memoryCache is an in-process domain.Cache.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	failOn map[string]error
	// honorCtx makes every call fail once its context is done, like a network client.
	honorCtx bool
}

func (c *memoryCache) ctxErr(ctx context.Context) error {
	if c.honorCtx {
		return ctx.Err()
	}
	return nil
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, failOn: map[string]error{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	if err := c.ctxErr(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failOn["get:"+key]; err != nil {
		return "", err
	}
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := c.ctxErr(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failOn["set:"+key]; err != nil {
		return err
	}
	c.values[key] = value
	return nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	if err := c.ctxErr(ctx); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	if err := c.ctxErr(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

// MockAccountRepository is a mock type for domain.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, email string, fields domain.ProfileFields) error {
	args := m.Called(ctx, email, fields)
	return args.Error(0)
}

// MockTransactionManager runs fn inline.
type MockTransactionManager struct {
	calls int
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type MockCompletionService struct {
	CompleteFunc func(ctx context.Context, req domain.CompletionRequest) (string, error)
	calls        int
}

func (m *MockCompletionService) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.calls++
	return m.CompleteFunc(ctx, req)
}

type MockFileUploader struct {
	UploadFunc func(ctx context.Context, file domain.UploadFile) (*domain.UploadedFile, error)
	calls      int
}

func (m *MockFileUploader) Upload(ctx context.Context, file domain.UploadFile) (*domain.UploadedFile, error) {
	m.calls++
	return m.UploadFunc(ctx, file)
}

type MockSessionCleaner struct {
	cleared []string
	err     error
}

func (m *MockSessionCleaner) ClearSession(ctx context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return m.err
}
