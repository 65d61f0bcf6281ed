package model

// SwapInstruction is forwarded as is to the venue identified by ProgramID. Accounts
// follow the layout of the venue.
type SwapInstruction struct {
	ProgramID string   `json:"program_id"`
	Signer    string   `json:"signer"`
	Accounts  []string `json:"accounts"`
	Data      []byte   `json:"data"`
}

// SwapReceipt is returned by the venue once the instruction landed. Balances hold
// the token balances of the touched accounts around the instruction, as observed
// by the venue.
type SwapReceipt struct {
	Signature string               `json:"signature"`
	Balances  []TokenBalanceChange `json:"balances"`
}

type TokenBalanceChange struct {
	Account string `json:"account"`
	Pre     uint64 `json:"pre"`
	Post    uint64 `json:"post"`
}

func (r *SwapReceipt) Change(account string) (TokenBalanceChange, bool) {
	for _, change := range r.Balances {
		if change.Account == account {
			return change, true
		}
	}

	return TokenBalanceChange{}, false
}
