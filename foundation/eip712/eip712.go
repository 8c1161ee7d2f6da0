// Package eip712 provides helper functions for producing and verifying
// EIP-712 typed-data signatures, the wallet signatures used in place of
// passwords.
package eip712

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Set of error variables for signature handling.
var (
	ErrSignatureLength = errors.New("signature must be 65 bytes")
	ErrRecoveryID      = errors.New("invalid recovery id")
	ErrSignatureValues = errors.New("invalid signature values")
)

// ethereumID is added to the recovery id by wallets when producing a
// signature. Signatures are accepted with or without it.
const ethereumID = 27

// domainType is the primary type name of the domain separator.
const domainType = "EIP712Domain"

// =============================================================================

// Domain is the domain separator a message is bound to.
type Domain struct {
	Name    string
	Version string
}

// Field declares one member of a typed-data struct.
type Field struct {
	Name string
	Type string
}

// TypedData is a structured message ready to be hashed and signed.
type TypedData struct {
	apitypes.TypedData
}

// New constructs the typed data for a message with a single struct type. The
// order of fields is part of the hash and must match what the signer saw.
func New(domain Domain, primaryType string, fields []Field, message map[string]any) TypedData {
	types := make([]apitypes.Type, len(fields))
	for i, f := range fields {
		types[i] = apitypes.Type{Name: f.Name, Type: f.Type}
	}

	td := apitypes.TypedData{
		Types: apitypes.Types{
			domainType: {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
			},
			primaryType: types,
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    domain.Name,
			Version: domain.Version,
		},
		Message: message,
	}

	return TypedData{TypedData: td}
}

// Hash returns the 32 byte digest that is signed for this typed data.
func (td TypedData) Hash() ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(td.TypedData)
	if err != nil {
		return nil, fmt.Errorf("hashing typed data: %w", err)
	}

	return hash, nil
}

// =============================================================================

// Sign uses the specified private key to sign the typed data. The signature
// is returned hex encoded in the [R|S|V] format with V as 27 or 28, the way
// browser wallets produce it.
func Sign(td TypedData, privateKey *ecdsa.PrivateKey) (string, error) {
	hash, err := td.Hash()
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(hash, privateKey)
	if err != nil {
		return "", err
	}

	sig[crypto.RecoveryIDOffset] += ethereumID

	return hexutil.Encode(sig), nil
}

// RecoverAddress extracts the address of the account that signed the typed
// data with the given hex encoded signature.
func RecoverAddress(td TypedData, signature string) (common.Address, error) {

	// NOTE: If the same exact message is not provided we will get back a
	// different address. That is what makes the signature bound to the
	// message the server reconstructs.

	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	hash, err := td.Hash()
	if err != nil {
		return common.Address{}, err
	}

	publicKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// Verify reports whether the signature over the typed data was produced by
// the claimed address. Any failure to recover a signer is a failed check.
func Verify(td TypedData, claimed string, signature string) bool {
	if !common.IsHexAddress(claimed) {
		return false
	}

	addr, err := RecoverAddress(td, signature)
	if err != nil {
		return false
	}

	return strings.EqualFold(addr.Hex(), claimed)
}

// =============================================================================

// decodeSignature converts a hex signature into the 65 bytes expected by the
// crypto package, with the recovery id normalized to 0 or 1.
func decodeSignature(signature string) ([]byte, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	if len(sig) != crypto.SignatureLength {
		return nil, ErrSignatureLength
	}

	if sig[crypto.RecoveryIDOffset] >= ethereumID {
		sig[crypto.RecoveryIDOffset] -= ethereumID
	}

	v := sig[crypto.RecoveryIDOffset]
	if v != 0 && v != 1 {
		return nil, ErrRecoveryID
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return nil, ErrSignatureValues
	}

	return sig, nil
}
