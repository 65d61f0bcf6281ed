package randomness

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const EntropyLength = 32

var (
	ErrInvalidEntropy   = errors.New("invalid entropy")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Digest is the message signed by the provider for a fulfillment.
func Digest(requestID string, entropy [EntropyLength]byte) []byte {
	return crypto.Keccak256([]byte(requestID), entropy[:])
}

// ParseEntropy decodes a hex encoded 32 byte entropy.
func ParseEntropy(s string) ([EntropyLength]byte, error) {
	var entropy [EntropyLength]byte
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != EntropyLength {
		return entropy, ErrInvalidEntropy
	}

	copy(entropy[:], b)
	return entropy, nil
}

// Verify checks that signature was produced over Digest(requestID, entropy) by the
// key of providerAddress.
func Verify(providerAddress, requestID string, entropy [EntropyLength]byte, signature string) error {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return ErrInvalidSignature
	}

	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(Digest(requestID, entropy), sig)
	if err != nil {
		return ErrInvalidSignature
	}

	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(providerAddress) {
		return ErrInvalidSignature
	}

	return nil
}

// Sign produces the hex signature Verify expects.
func Sign(key *ecdsa.PrivateKey, requestID string, entropy [EntropyLength]byte) (string, error) {
	sig, err := crypto.Sign(Digest(requestID, entropy), key)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(sig), nil
}
