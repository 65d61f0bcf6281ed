// Package settlement pays out revealed rewards, either directly from the vault or
// through a swap venue.
package settlement

import (
	"context"
	"errors"
	"math"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/domain/oracle"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"golang.org/x/exp/slices"
)

const (
	// DirectPayoutPercent of the reward is paid on direct payouts.
	DirectPayoutPercent = 95

	DefaultSlippageBps = 300
	MaxBps             = 10_000
)

// Venue submits swap instructions on behalf of the vault. It never writes the
// ledger itself; the receipt it returns is the only view of the swap effects.
type Venue interface {
	ProgramID() string
	Execute(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error)
}

type Order struct {
	Owner          string
	RewardMicroUSD uint64
	Route          entity.SettlementRoute

	// Swap routes only.
	ExpectedOutput uint64
	SwapData       []byte
	Accounts       []string
}

type Result struct {
	Route     entity.SettlementRoute
	AmountIn  uint64
	AmountOut uint64
	MinOut    uint64
}

type Dispatcher interface {
	Settle(ctx context.Context, order Order) (*Result, error)
}

type dispatcher struct {
	ledger ledger.Ledger
	oracle oracle.PriceOracle
	venues map[string]Venue
}

func NewDispatcher(l ledger.Ledger, o oracle.PriceOracle, venues ...Venue) *dispatcher {
	d := &dispatcher{ledger: l, oracle: o, venues: make(map[string]Venue)}
	for _, v := range venues {
		d.venues[v.ProgramID()] = v
	}

	return d
}

func (d *dispatcher) Settle(ctx context.Context, order Order) (*Result, error) {
	var result *Result
	var err error
	switch order.Route {
	case entity.RouteDirect:
		result, err = d.direct(ctx, order)
	case entity.RouteJupiter, entity.RouteRaydium:
		result, err = d.swap(ctx, order)
	default:
		err = errorx.New(errorx.InvalidChoice, "Invalid settlement route %s", order.Route)
	}

	if err != nil {
		common.PromCounters[common.SettlementFailureTotal].
			WithLabelValues(string(order.Route)).Inc()
		return nil, err
	}

	return result, nil
}

func (d *dispatcher) direct(ctx context.Context, order Order) (*Result, error) {
	if order.RewardMicroUSD > math.MaxUint64/DirectPayoutPercent {
		return nil, errorx.New(errorx.MathOverflow, "Payout overflows")
	}

	payout := order.RewardMicroUSD * DirectPayoutPercent / 100

	lamports, err := d.oracle.USDToNative(ctx, payout)
	if err != nil {
		return nil, err
	}

	vaultAddress := xcontext.Configs(ctx).Lottery.VaultAddress
	if err := d.requireAvailable(ctx, vaultAddress, lamports); err != nil {
		return nil, err
	}

	if err := d.ledger.Transfer(ctx, vaultAddress, order.Owner, lamports); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found native account of owner")
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer payout: %v", err)
		return nil, errorx.Unknown
	}

	return &Result{
		Route:     entity.RouteDirect,
		AmountIn:  lamports,
		AmountOut: lamports,
		MinOut:    lamports,
	}, nil
}

// requireAvailable checks that the native vault keeps its minimum rent after
// paying amount.
func (d *dispatcher) requireAvailable(ctx context.Context, vaultAddress string, amount uint64) error {
	vault, err := d.ledger.Account(ctx, vaultAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get vault account: %v", err)
		return errorx.Unknown
	}

	minRent := xcontext.Configs(ctx).Ledger.MinRent
	var available uint64
	if vault.Balance > minRent {
		available = vault.Balance - minRent
	}

	if amount > available {
		return errorx.New(errorx.InsufficientVaultBalance,
			"Vault has %d available, need %d", available, amount)
	}

	return nil
}

func (d *dispatcher) swap(ctx context.Context, order Order) (*Result, error) {
	if order.ExpectedOutput == 0 {
		return nil, errorx.New(errorx.MissingExpectedOutput, "Expected token output is required")
	}

	if len(order.Accounts) == 0 {
		return nil, errorx.New(errorx.MissingSwapAccounts, "Swap accounts are required")
	}

	amountIn, err := d.oracle.USDToNative(ctx, order.RewardMicroUSD)
	if err != nil {
		return nil, err
	}

	slippageBps := xcontext.Configs(ctx).Settlement.SlippageBps
	if slippageBps == 0 {
		slippageBps = DefaultSlippageBps
	}

	minOut, err := MinOutput(order.ExpectedOutput, slippageBps)
	if err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Debugf("Token claim: amount_in=%d expected_out=%d min_out=%d route=%s",
		amountIn, order.ExpectedOutput, minOut, order.Route)

	if order.Route == entity.RouteJupiter {
		return d.jupiter(ctx, order, amountIn, minOut)
	}

	return d.raydium(ctx, order, amountIn, minOut)
}

func (d *dispatcher) venue(ctx context.Context, programID string) (Venue, bool) {
	v, ok := d.venues[programID]
	if !ok {
		xcontext.Logger(ctx).Errorf("No venue registered for program %s", programID)
	}

	return v, ok
}

func allowed(programs []string, programID string) bool {
	return slices.Contains(programs, programID)
}
