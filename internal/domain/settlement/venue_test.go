package settlement

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/api"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_relayVenue_Execute(t *testing.T) {
	generator := &testutil.MockAPIGenerator{}

	var sent api.JSON
	generator.MockClient.BodyFunc = func(body api.Body) api.Client {
		sent = body.(api.JSON)
		return &generator.MockClient
	}
	generator.MockClient.POSTFunc = func(ctx context.Context) (*api.Response, error) {
		return &api.Response{
			Code: 200,
			RawBody: []byte(`{"signature":"5xSig","balances":[` +
				`{"account":"vault-wsol","pre":100000000,"post":0},` +
				`{"account":"user1-bonk","pre":0,"post":18446744073709551615}]}`),
		}, nil
	}

	venue := NewRelayVenue(testutil.JupiterProgram, generator, time.Second)
	receipt, err := venue.Execute(context.Background(), model.SwapInstruction{
		ProgramID: testutil.JupiterProgram,
		Signer:    testutil.FixtureVault,
		Accounts:  []string{"vault-wsol", "user1-bonk"},
		Data:      []byte{1, 2, 3},
	})
	require.NoError(t, err)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), sent["data"])
	require.Equal(t, testutil.FixtureVault, sent["signer"])

	require.Equal(t, "5xSig", receipt.Signature)
	input, ok := receipt.Change("vault-wsol")
	require.True(t, ok)
	require.Equal(t, uint64(100_000_000), input.Pre)
	require.Equal(t, uint64(0), input.Post)

	output, ok := receipt.Change("user1-bonk")
	require.True(t, ok)
	require.Equal(t, uint64(18446744073709551615), output.Post)

	_, ok = receipt.Change("unknown")
	require.False(t, ok)
}

func Test_relayVenue_Execute_Rejected(t *testing.T) {
	generator := &testutil.MockAPIGenerator{}
	generator.MockClient.POSTFunc = func(ctx context.Context) (*api.Response, error) {
		return &api.Response{Code: 502, Body: api.JSON{"error": "pool is drained"}}, nil
	}

	_, err := NewRelayVenue(testutil.JupiterProgram, generator, 0).
		Execute(context.Background(), model.SwapInstruction{ProgramID: testutil.JupiterProgram})
	require.ErrorContains(t, err, "pool is drained")
}
