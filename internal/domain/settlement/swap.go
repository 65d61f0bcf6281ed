package settlement

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

const (
	JupiterMinAccounts = 3
	RaydiumAccounts    = 13

	jupiterOutputIndex = 2
	raydiumInputIndex  = 4
	raydiumOutputIndex = 5
)

var (
	JupiterRouteDiscriminator               = []byte{229, 100, 247, 91, 30, 192, 179, 237}
	JupiterSharedAccountsRouteDiscriminator = []byte{193, 32, 155, 51, 65, 214, 156, 129}
	JupiterExactOutRouteDiscriminator       = []byte{208, 51, 239, 151, 123, 43, 237, 92}

	RaydiumSwapBaseInputDiscriminator = []byte{143, 190, 90, 218, 196, 30, 51, 222}
)

// MinOutput returns expected * (10000 - slippageBps) / 10000.
func MinOutput(expected, slippageBps uint64) (uint64, error) {
	if slippageBps > MaxBps {
		return 0, errorx.New(errorx.MathOverflow, "Invalid slippage %d bps", slippageBps)
	}

	hi, lo := bits.Mul64(expected, MaxBps-slippageBps)
	if hi >= MaxBps {
		return 0, errorx.New(errorx.MathOverflow, "Minimum output overflows")
	}

	q, _ := bits.Div64(hi, lo, MaxBps)
	return q, nil
}

// ValidJupiterData reports whether data starts with a known route instruction.
func ValidJupiterData(data []byte) bool {
	if len(data) < 8 {
		return false
	}

	tag := data[:8]
	return bytes.Equal(tag, JupiterRouteDiscriminator) ||
		bytes.Equal(tag, JupiterSharedAccountsRouteDiscriminator) ||
		bytes.Equal(tag, JupiterExactOutRouteDiscriminator)
}

// RaydiumSwapData builds the swap_base_input instruction data.
func RaydiumSwapData(amountIn, minOut uint64) []byte {
	data := make([]byte, 0, 24)
	data = append(data, RaydiumSwapBaseInputDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, amountIn)
	data = binary.LittleEndian.AppendUint64(data, minOut)
	return data
}

func (d *dispatcher) jupiter(ctx context.Context, order Order, amountIn, minOut uint64) (*Result, error) {
	if len(order.SwapData) == 0 {
		return nil, errorx.New(errorx.MissingExpectedOutput, "Swap data is required")
	}

	if len(order.Accounts) < JupiterMinAccounts {
		return nil, errorx.New(errorx.MissingSwapAccounts, "Need at least %d swap accounts", JupiterMinAccounts)
	}

	if !ValidJupiterData(order.SwapData) {
		return nil, errorx.New(errorx.InvalidSwapData, "Unknown swap instruction")
	}

	output := order.Accounts[jupiterOutputIndex]
	input, err := d.findVaultWsolAccount(ctx, order.Accounts[1:])
	if err != nil {
		return nil, err
	}

	if input == output {
		return nil, errorx.New(errorx.InvalidTokenAccount, "Input and output accounts are the same")
	}

	programID := order.Accounts[0]
	if !allowed(xcontext.Configs(ctx).Settlement.JupiterPrograms, programID) {
		return nil, errorx.New(errorx.InvalidJupiterProgram, "Program %s is not allowed", programID)
	}

	venue, ok := d.venue(ctx, programID)
	if !ok {
		return nil, errorx.New(errorx.JupiterSwapFailed, "Swap venue is unavailable")
	}

	ins := model.SwapInstruction{
		ProgramID: programID,
		Signer:    xcontext.Configs(ctx).Lottery.VaultAddress,
		Accounts:  order.Accounts[1:],
		Data:      order.SwapData,
	}

	amountOut, err := d.execute(ctx, venue, ins, input, output, amountIn, minOut, errorx.JupiterSwapFailed)
	if err != nil {
		return nil, err
	}

	return &Result{Route: entity.RouteJupiter, AmountIn: amountIn, AmountOut: amountOut, MinOut: minOut}, nil
}

func (d *dispatcher) raydium(ctx context.Context, order Order, amountIn, minOut uint64) (*Result, error) {
	if len(order.Accounts) < RaydiumAccounts {
		return nil, errorx.New(errorx.MissingSwapAccounts, "Need %d swap accounts", RaydiumAccounts)
	}

	programID := order.Accounts[0]
	if !allowed(xcontext.Configs(ctx).Settlement.RaydiumPrograms, programID) {
		return nil, errorx.New(errorx.InvalidRaydiumProgram, "Program %s is not allowed", programID)
	}

	venue, ok := d.venue(ctx, programID)
	if !ok {
		return nil, errorx.New(errorx.RaydiumSwapFailed, "Swap venue is unavailable")
	}

	vaultAddress := xcontext.Configs(ctx).Lottery.VaultAddress
	input := order.Accounts[raydiumInputIndex]
	output := order.Accounts[raydiumOutputIndex]

	if err := d.requireAvailable(ctx, vaultAddress, amountIn); err != nil {
		return nil, err
	}

	if err := d.ledger.Wrap(ctx, vaultAddress, input, amountIn); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot wrap native currency: %v", err)
		return nil, errorx.New(errorx.WsolWrapFailed, "Cannot wrap native currency")
	}

	ins := model.SwapInstruction{
		ProgramID: programID,
		Signer:    vaultAddress,
		Accounts:  order.Accounts[1:],
		Data:      RaydiumSwapData(amountIn, minOut),
	}

	amountOut, err := d.execute(ctx, venue, ins, input, output, amountIn, minOut, errorx.RaydiumSwapFailed)
	if err != nil {
		return nil, err
	}

	return &Result{Route: entity.RouteRaydium, AmountIn: amountIn, AmountOut: amountOut, MinOut: minOut}, nil
}

// execute invokes the venue and verifies the balance changes it reports for the
// input and output accounts. The ledger then records the reported balances.
func (d *dispatcher) execute(
	ctx context.Context,
	venue Venue,
	ins model.SwapInstruction,
	input, output string,
	maxIn, minOut uint64,
	failure errorx.Code,
) (uint64, error) {
	// Both accounts must be known before anything is sent to the venue.
	if _, err := d.balance(ctx, output); err != nil {
		return 0, err
	}

	if _, err := d.balance(ctx, input); err != nil {
		return 0, err
	}

	receipt, err := venue.Execute(ctx, ins)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot execute swap on %s: %v", ins.ProgramID, err)
		return 0, errorx.New(failure, "Swap failed")
	}

	outputChange, ok := receipt.Change(output)
	if !ok {
		xcontext.Logger(ctx).Errorf("Swap %s did not report output account %s", receipt.Signature, output)
		return 0, errorx.New(failure, "Swap failed")
	}

	inputChange, ok := receipt.Change(input)
	if !ok {
		xcontext.Logger(ctx).Errorf("Swap %s did not report input account %s", receipt.Signature, input)
		return 0, errorx.New(failure, "Swap failed")
	}

	if outputChange.Post < outputChange.Pre {
		return 0, errorx.New(errorx.MathOverflow, "Output balance decreased")
	}

	amountOut := outputChange.Post - outputChange.Pre
	if amountOut < minOut {
		return 0, errorx.New(errorx.SlippageExceeded, "Got %d, need at least %d", amountOut, minOut)
	}

	var spent uint64
	if inputChange.Pre > inputChange.Post {
		spent = inputChange.Pre - inputChange.Post
	}

	if spent > maxIn {
		return 0, errorx.New(errorx.ExcessiveSwapInput, "Spent %d, allowed %d", spent, maxIn)
	}

	for _, change := range []model.TokenBalanceChange{inputChange, outputChange} {
		if err := d.ledger.Reconcile(ctx, change.Account, change.Post); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record swap balance of %s: %v", change.Account, err)
			return 0, errorx.Unknown
		}
	}

	return amountOut, nil
}

func (d *dispatcher) balance(ctx context.Context, address string) (uint64, error) {
	account, err := d.ledger.Account(ctx, address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return 0, errorx.New(errorx.InvalidTokenAccount, "Not found token account %s", address)
		}

		xcontext.Logger(ctx).Errorf("Cannot get token account: %v", err)
		return 0, errorx.Unknown
	}

	return account.Balance, nil
}

// findVaultWsolAccount returns the only wrapped native account of the vault among
// accounts.
func (d *dispatcher) findVaultWsolAccount(ctx context.Context, accounts []string) (string, error) {
	vaultAddress := xcontext.Configs(ctx).Lottery.VaultAddress

	found := ""
	for _, address := range accounts {
		account, err := d.ledger.Account(ctx, address)
		if err != nil {
			continue
		}

		if account.Owner != vaultAddress || account.Mint != ledger.WrappedNativeMint {
			continue
		}

		if found != "" && found != address {
			return "", errorx.New(errorx.InvalidTokenAccount, "Multiple vault input accounts")
		}

		found = address
	}

	if found == "" {
		return "", errorx.New(errorx.MissingSwapAccounts, "Not found vault input account")
	}

	return found, nil
}
