package settlement

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_MinOutput(t *testing.T) {
	tests := []struct {
		expected uint64
		bps      uint64
		want     uint64
	}{
		{expected: 1000, bps: 300, want: 970},
		{expected: 1000, bps: 100, want: 990},
		{expected: 1000, bps: 0, want: 1000},
		{expected: 1_000_000_000, bps: 300, want: 970_000_000},
		{expected: math.MaxUint64, bps: 300, want: 17_893_341_751_498_265_066},
	}

	for _, tt := range tests {
		got, err := MinOutput(tt.expected, tt.bps)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := MinOutput(1000, 10_001)
	require.True(t, errorx.Is(err, errorx.MathOverflow))
}

func Test_ValidJupiterData(t *testing.T) {
	require.True(t, ValidJupiterData(append(JupiterRouteDiscriminator, 1, 2, 3)))
	require.True(t, ValidJupiterData(JupiterSharedAccountsRouteDiscriminator))
	require.True(t, ValidJupiterData(JupiterExactOutRouteDiscriminator))
	require.False(t, ValidJupiterData(JupiterRouteDiscriminator[:7]))
	require.False(t, ValidJupiterData([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.False(t, ValidJupiterData(nil))
}

func Test_RaydiumSwapData(t *testing.T) {
	data := RaydiumSwapData(0x0102, 0x0a0b)
	require.Equal(t, []byte{
		143, 190, 90, 218, 196, 30, 51, 222,
		0x02, 0x01, 0, 0, 0, 0, 0, 0,
		0x0b, 0x0a, 0, 0, 0, 0, 0, 0,
	}, data)
}

type swapMove struct {
	input    string
	inputPre uint64
	spend    uint64
	output   string
	credit   uint64
}

// mockSwap reports the balances an executor would observe. Like a real executor it
// never writes the ledger.
func mockSwap(programID string, move swapMove, check func(model.SwapInstruction)) *testutil.MockVenue {
	return &testutil.MockVenue{
		ProgramIDValue: programID,
		ExecuteFunc: func(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error) {
			if check != nil {
				check(ins)
			}

			if move.spend > move.inputPre {
				return nil, errors.New("insufficient funds")
			}

			return &model.SwapReceipt{
				Signature: "signature",
				Balances: []model.TokenBalanceChange{
					{Account: move.input, Pre: move.inputPre, Post: move.inputPre - move.spend},
					{Account: move.output, Pre: 0, Post: move.credit},
				},
			}, nil
		},
	}
}

func newTestDispatcher(venues ...Venue) *dispatcher {
	l := ledger.NewGormLedger(repository.NewLedgerAccountRepository(), time.Now(), time.Second)
	return NewDispatcher(l, &testutil.MockPriceOracle{}, venues...)
}

func fundVaultWsol(ctx context.Context, t *testing.T, amount uint64) {
	err := repository.NewLedgerAccountRepository().Upsert(ctx, &entity.LedgerAccount{
		Address: testutil.FixtureVaultWsol,
		Mint:    testutil.FixtureWsolMint,
		Owner:   testutil.FixtureVault,
		Balance: amount,
	})
	require.NoError(t, err)
}

func balanceOf(ctx context.Context, t *testing.T, address string) uint64 {
	account, err := repository.NewLedgerAccountRepository().Get(ctx, address)
	require.NoError(t, err)
	return account.Balance
}

func Test_dispatcher_Settle_Direct(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestDispatcher()

	result, err := d.Settle(ctx, Order{
		Owner:          testutil.FixtureUser1,
		RewardMicroUSD: 5_000_000,
		Route:          entity.RouteDirect,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(47_500_000), result.AmountOut)
	require.Equal(t, testutil.FixtureNativeBalance+47_500_000, balanceOf(ctx, t, testutil.FixtureUser1))
	require.Equal(t, testutil.FixtureNativeBalance-47_500_000, balanceOf(ctx, t, testutil.FixtureVault))
}

func Test_dispatcher_Settle_DirectKeepsMinRent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	d := newTestDispatcher()

	err := repository.NewLedgerAccountRepository().Upsert(ctx, &entity.LedgerAccount{
		Address: testutil.FixtureVault,
		Owner:   testutil.FixtureVault,
		Balance: testutil.FixtureMinRent + 47_499_999,
	})
	require.NoError(t, err)

	_, err = d.Settle(ctx, Order{
		Owner:          testutil.FixtureUser1,
		RewardMicroUSD: 5_000_000,
		Route:          entity.RouteDirect,
	})
	require.True(t, errorx.Is(err, errorx.InsufficientVaultBalance))
	require.Equal(t, testutil.FixtureNativeBalance, balanceOf(ctx, t, testutil.FixtureUser1))
}

func jupiterAccounts() []string {
	return []string{
		testutil.JupiterProgram,
		testutil.FixtureVault,
		testutil.FixtureUser1Token,
		testutil.FixtureVaultWsol,
	}
}

func Test_dispatcher_Settle_Jupiter(t *testing.T) {
	swapData := append(append([]byte{}, JupiterRouteDiscriminator...), 9, 9, 9)

	tests := []struct {
		name     string
		order    Order
		move     swapMove
		venueErr error
		wantOut  uint64
		wantCode errorx.Code
	}{
		{
			name: "happy case",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			},
			move:    swapMove{spend: 100_000_000, credit: 1000},
			wantOut: 1000,
		},
		{
			name: "output within slippage",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			},
			move:    swapMove{spend: 90_000_000, credit: 970},
			wantOut: 970,
		},
		{
			name: "slippage exceeded",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			},
			move:     swapMove{spend: 100_000_000, credit: 969},
			wantCode: errorx.SlippageExceeded,
		},
		{
			name: "excessive input",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			},
			move:     swapMove{spend: 100_000_001, credit: 1000},
			wantCode: errorx.ExcessiveSwapInput,
		},
		{
			name: "unknown program",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       append([]string{"evil-program"}, jupiterAccounts()[1:]...),
			},
			wantCode: errorx.InvalidJupiterProgram,
		},
		{
			name: "unknown instruction",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       []byte{1, 2, 3, 4, 5, 6, 7, 8},
				Accounts:       jupiterAccounts(),
			},
			wantCode: errorx.InvalidSwapData,
		},
		{
			name: "missing swap data",
			order: Order{
				ExpectedOutput: 1000,
				Accounts:       jupiterAccounts(),
			},
			wantCode: errorx.MissingExpectedOutput,
		},
		{
			name: "missing expected output",
			order: Order{
				SwapData: swapData,
				Accounts: jupiterAccounts(),
			},
			wantCode: errorx.MissingExpectedOutput,
		},
		{
			name: "too few accounts",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts()[:2],
			},
			wantCode: errorx.MissingSwapAccounts,
		},
		{
			name: "no vault input account",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts()[:3],
			},
			wantCode: errorx.MissingSwapAccounts,
		},
		{
			name: "venue failure",
			order: Order{
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			},
			venueErr: errors.New("route not found"),
			wantCode: errorx.JupiterSwapFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixture(ctx)
			fundVaultWsol(ctx, t, 200_000_000)

			move := tt.move
			move.input = testutil.FixtureVaultWsol
			move.inputPre = 200_000_000
			move.output = testutil.FixtureUser1Token
			venue := mockSwap(testutil.JupiterProgram, move, func(ins model.SwapInstruction) {
				require.Equal(t, testutil.FixtureVault, ins.Signer)
				require.Equal(t, tt.order.SwapData, ins.Data)
			})
			if tt.venueErr != nil {
				venue.ExecuteFunc = func(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error) {
					return nil, tt.venueErr
				}
			}

			order := tt.order
			order.Owner = testutil.FixtureUser1
			order.RewardMicroUSD = 10_000_000
			order.Route = entity.RouteJupiter

			result, err := newTestDispatcher(venue).Settle(ctx, order)
			if tt.wantCode != 0 {
				require.True(t, errorx.Is(err, tt.wantCode), "got %v", err)
				require.Equal(t, uint64(200_000_000), balanceOf(ctx, t, testutil.FixtureVaultWsol))
				require.Equal(t, uint64(0), balanceOf(ctx, t, testutil.FixtureUser1Token))
				return
			}

			require.NoError(t, err)
			require.Equal(t, entity.RouteJupiter, result.Route)
			require.Equal(t, uint64(100_000_000), result.AmountIn)
			require.Equal(t, tt.wantOut, result.AmountOut)
			require.Equal(t, uint64(970), result.MinOut)

			// The ledger follows the balances reported by the venue.
			require.Equal(t, 200_000_000-move.spend, balanceOf(ctx, t, testutil.FixtureVaultWsol))
			require.Equal(t, tt.wantOut, balanceOf(ctx, t, testutil.FixtureUser1Token))
		})
	}
}

func raydiumAccounts(program, input string) []string {
	return []string{
		program, "authority", "amm-config", "pool-state",
		input, testutil.FixtureUser1Token,
		"input-vault", "output-vault", "token-program", "token-program",
		testutil.FixtureWsolMint, testutil.FixtureTokenMint, "observation",
	}
}

func Test_dispatcher_Settle_Raydium(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	venue := mockSwap(testutil.RaydiumCPMMProgram, swapMove{
		input:    testutil.FixtureVaultWsol,
		inputPre: 100_000_000,
		spend:    100_000_000,
		output:   testutil.FixtureUser1Token,
		credit:   2000,
	}, func(ins model.SwapInstruction) {
		require.Equal(t, RaydiumSwapData(100_000_000, 1940), ins.Data)
		require.Len(t, ins.Accounts, RaydiumAccounts-1)
	})

	// Settlement runs inside the claim transaction.
	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	result, err := newTestDispatcher(venue).Settle(txCtx, Order{
		Owner:          testutil.FixtureUser1,
		RewardMicroUSD: 10_000_000,
		Route:          entity.RouteRaydium,
		ExpectedOutput: 2000,
		Accounts:       raydiumAccounts(testutil.RaydiumCPMMProgram, testutil.FixtureVaultWsol),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2000), result.AmountOut)
	require.Equal(t, uint64(1940), result.MinOut)
	require.NoError(t, xcontext.CommitDBTransaction(txCtx))

	// Wrapped input was fully spent by the swap.
	require.Equal(t, uint64(0), balanceOf(ctx, t, testutil.FixtureVaultWsol))
	require.Equal(t, testutil.FixtureNativeBalance-100_000_000, balanceOf(ctx, t, testutil.FixtureVault))
	require.Equal(t, uint64(2000), balanceOf(ctx, t, testutil.FixtureUser1Token))
}

func Test_dispatcher_Settle_RaydiumFailures(t *testing.T) {
	tests := []struct {
		name     string
		accounts []string
		wantCode errorx.Code
	}{
		{
			name:     "unknown program",
			accounts: raydiumAccounts("evil-program", testutil.FixtureVaultWsol),
			wantCode: errorx.InvalidRaydiumProgram,
		},
		{
			name:     "missing accounts",
			accounts: raydiumAccounts(testutil.RaydiumCPMMProgram, testutil.FixtureVaultWsol)[:12],
			wantCode: errorx.MissingSwapAccounts,
		},
		{
			name:     "input is not a wrapped native account",
			accounts: raydiumAccounts(testutil.RaydiumCPMMProgram, testutil.FixtureVaultUsdt),
			wantCode: errorx.WsolWrapFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixture(ctx)

			venue := &testutil.MockVenue{ProgramIDValue: testutil.RaydiumCPMMProgram}
			_, err := newTestDispatcher(venue).Settle(ctx, Order{
				Owner:          testutil.FixtureUser1,
				RewardMicroUSD: 10_000_000,
				Route:          entity.RouteRaydium,
				ExpectedOutput: 2000,
				Accounts:       tt.accounts,
			})
			require.True(t, errorx.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func Test_dispatcher_Settle_IncompleteReceipt(t *testing.T) {
	swapData := append(append([]byte{}, JupiterRouteDiscriminator...), 1)

	tests := []struct {
		name     string
		balances []model.TokenBalanceChange
		wantCode errorx.Code
	}{
		{
			name: "output account missing",
			balances: []model.TokenBalanceChange{
				{Account: testutil.FixtureVaultWsol, Pre: 200_000_000, Post: 100_000_000},
			},
			wantCode: errorx.JupiterSwapFailed,
		},
		{
			name: "input account missing",
			balances: []model.TokenBalanceChange{
				{Account: testutil.FixtureUser1Token, Pre: 0, Post: 1000},
			},
			wantCode: errorx.JupiterSwapFailed,
		},
		{
			name: "output decreased",
			balances: []model.TokenBalanceChange{
				{Account: testutil.FixtureVaultWsol, Pre: 200_000_000, Post: 100_000_000},
				{Account: testutil.FixtureUser1Token, Pre: 1000, Post: 0},
			},
			wantCode: errorx.MathOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixture(ctx)
			fundVaultWsol(ctx, t, 200_000_000)

			venue := &testutil.MockVenue{
				ProgramIDValue: testutil.JupiterProgram,
				ExecuteFunc: func(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error) {
					return &model.SwapReceipt{Signature: "signature", Balances: tt.balances}, nil
				},
			}

			_, err := newTestDispatcher(venue).Settle(ctx, Order{
				Owner:          testutil.FixtureUser1,
				RewardMicroUSD: 10_000_000,
				Route:          entity.RouteJupiter,
				ExpectedOutput: 1000,
				SwapData:       swapData,
				Accounts:       jupiterAccounts(),
			})
			require.True(t, errorx.Is(err, tt.wantCode), "got %v", err)
			require.Equal(t, uint64(200_000_000), balanceOf(ctx, t, testutil.FixtureVaultWsol))
		})
	}
}
