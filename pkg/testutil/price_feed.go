package testutil

import (
	"context"

	"github.com/questx-lab/cardlottery/internal/model"
)

type MockPriceFeed struct {
	LatestFunc func(ctx context.Context) (*model.NativePrice, error)
}

func (m *MockPriceFeed) Latest(ctx context.Context) (*model.NativePrice, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}

	panic("not implemented")
}

// MockPriceOracle quotes 100 USD per native coin unless USDToNativeFunc is set.
type MockPriceOracle struct {
	USDToNativeFunc func(ctx context.Context, microUSD uint64) (uint64, error)
}

func (m *MockPriceOracle) USDToNative(ctx context.Context, microUSD uint64) (uint64, error) {
	if m.USDToNativeFunc != nil {
		return m.USDToNativeFunc(ctx, microUSD)
	}

	return microUSD * 10, nil
}

type MockRandomnessProvider struct {
	RequestFunc func(ctx context.Context, req model.RandomnessRequest) error
}

func (m *MockRandomnessProvider) Request(ctx context.Context, req model.RandomnessRequest) error {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, req)
	}

	return nil
}

type MockVenue struct {
	ProgramIDValue string
	ExecuteFunc    func(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error)
}

func (m *MockVenue) ProgramID() string {
	return m.ProgramIDValue
}

func (m *MockVenue) Execute(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, ins)
	}

	return &model.SwapReceipt{}, nil
}
