package settlement

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/api"
)

// relayVenue forwards instructions to an executor service which submits them to
// the venue program.
type relayVenue struct {
	programID string
	generator api.Generator
	timeout   time.Duration
}

func NewRelayVenue(programID string, generator api.Generator, timeout time.Duration) *relayVenue {
	return &relayVenue{programID: programID, generator: generator, timeout: timeout}
}

func (v *relayVenue) ProgramID() string {
	return v.programID
}

// Execute waits for the executor to confirm the instruction. The executor answers
// with the signature and the token balances of the accounts it touched.
func (v *relayVenue) Execute(ctx context.Context, ins model.SwapInstruction) (*model.SwapReceipt, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	resp, err := v.generator.New("/v1/programs/%s/execute", v.programID).
		Body(api.JSON{
			"program_id": ins.ProgramID,
			"signer":     ins.Signer,
			"accounts":   ins.Accounts,
			"data":       base64.StdEncoding.EncodeToString(ins.Data),
		}).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		message, _ := resp.Body.GetString("error")
		return nil, fmt.Errorf("executor responded %d: %s", resp.Code, message)
	}

	var receipt model.SwapReceipt
	if err := resp.Decode(&receipt); err != nil {
		return nil, fmt.Errorf("cannot decode swap receipt: %w", err)
	}

	return &receipt, nil
}
