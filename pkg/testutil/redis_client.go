package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/cardlottery/pkg/xredis"
)

type MockRedisClient struct {
	SetNXFunc   func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, key, value string) (bool, error)
	SetObjFunc  func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc  func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, ttl)
	}

	return true, nil
}

func (m *MockRedisClient) Release(ctx context.Context, key, value string) (bool, error) {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key, value)
	}

	return true, nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return xredis.ErrNotFound
}
