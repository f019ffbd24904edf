package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	dcrsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const (
	// SignedMessagePrefix separates judge signatures from any other secp256k1
	// payload the same key might sign.
	SignedMessagePrefix = "\x19Puzzle Signed Message:\n32"

	// AttestationVersion tags the struct hash layout
	AttestationVersion = "puzzle.attestation.v1"

	// SignatureLength is the size of a compact recoverable signature
	SignatureLength = 65

	// JudgePubKeyLength is the size of a compressed secp256k1 public key
	JudgePubKeyLength = 33
)

// Attestation is the judge's decision for one (player, puzzle) pair.
type Attestation struct {
	Player        sdk.AccAddress
	PuzzleId      uint64
	Correct       bool
	TimeRemaining uint64
}

// Keccak256 hashes the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

func writeLenPrefixed(buf *bytes.Buffer, bz []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(bz)))
	buf.Write(n[:])
	buf.Write(bz)
}

// StructHash binds the attestation to a game instance, identified by chain id
// and module address, so a signature cannot be replayed against another deployment.
func (a Attestation) StructHash(chainID string, module sdk.AccAddress) []byte {
	var buf bytes.Buffer
	writeLenPrefixed(&buf, []byte(AttestationVersion))
	writeLenPrefixed(&buf, []byte(chainID))
	writeLenPrefixed(&buf, module)
	writeLenPrefixed(&buf, a.Player)

	var u [8]byte
	binary.BigEndian.PutUint64(u[:], a.PuzzleId)
	buf.Write(u[:])
	if a.Correct {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	binary.BigEndian.PutUint64(u[:], a.TimeRemaining)
	buf.Write(u[:])

	return Keccak256(buf.Bytes())
}

// Digest returns the domain-separated hash the judge signs.
func (a Attestation) Digest(chainID string, module sdk.AccAddress) []byte {
	return Keccak256([]byte(SignedMessagePrefix), a.StructHash(chainID, module))
}

// SignAttestation produces a compact recoverable signature over the attestation digest.
func SignAttestation(judge *secp256k1.PrivKey, chainID string, module sdk.AccAddress, a Attestation) ([]byte, error) {
	if judge == nil || len(judge.Key) != secp256k1.PrivKeySize {
		return nil, fmt.Errorf("invalid judge private key")
	}
	priv := dcrsecp.PrivKeyFromBytes(judge.Key)
	return ecdsa.SignCompact(priv, a.Digest(chainID, module), true), nil
}

// RecoverSigner returns the compressed public key that produced sig over digest.
func RecoverSigner(digest, sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// ValidateJudgePubKey checks that bz is a compressed point on the curve.
func ValidateJudgePubKey(bz []byte) error {
	if len(bz) != JudgePubKeyLength {
		return ErrInvalidJudgeKey.Wrapf("expected %d bytes, got %d", JudgePubKeyLength, len(bz))
	}
	if _, err := dcrsecp.ParsePubKey(bz); err != nil {
		return ErrInvalidJudgeKey.Wrap(err.Error())
	}
	return nil
}

// JudgeAddress derives the account address of a judge public key.
func JudgeAddress(pubKey []byte) sdk.AccAddress {
	pk := &secp256k1.PubKey{Key: pubKey}
	return sdk.AccAddress(pk.Address())
}
