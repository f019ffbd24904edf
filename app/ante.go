package app

import (
	"encoding/json"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// AccountStoreKey names the store holding account sequences.
const AccountStoreKey = "acc"

// Tx carries one message and the signature of the account it names as signer.
type Tx struct {
	Msg       Msg    `json:"msg"`
	PubKey    []byte `json:"pub_key"`
	Sequence  uint64 `json:"sequence"`
	Signature []byte `json:"signature"`
}

type signDoc struct {
	ChainID  string          `json:"chain_id"`
	Sequence string          `json:"sequence"`
	Msg      json.RawMessage `json:"msg"`
}

// StdSignBytes returns the sorted JSON document an account signs to send msg.
func StdSignBytes(cdc *codec.LegacyAmino, chainID string, sequence uint64, msg Msg) ([]byte, error) {
	msgBz, err := cdc.MarshalJSON(msg)
	if err != nil {
		return nil, puzzletypes.ErrInvalidRequest.Wrapf("failed to encode message: %s", err)
	}
	bz, err := json.Marshal(signDoc{
		ChainID:  chainID,
		Sequence: strconv.FormatUint(sequence, 10),
		Msg:      msgBz,
	})
	if err != nil {
		return nil, err
	}
	return sdk.SortJSON(bz)
}

// SignTx signs msg with key at the given account sequence.
func SignTx(cdc *codec.LegacyAmino, key cryptotypes.PrivKey, chainID string, sequence uint64, msg Msg) (*Tx, error) {
	bz, err := StdSignBytes(cdc, chainID, sequence, msg)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(bz)
	if err != nil {
		return nil, err
	}
	return &Tx{Msg: msg, PubKey: key.PubKey().Bytes(), Sequence: sequence, Signature: sig}, nil
}

// AnteDecorator checks a transaction before its message is routed.
type AnteDecorator func(ctx sdk.Context, tx *Tx) error

// chainAnteDecorators runs decorators in order and stops at the first error.
func chainAnteDecorators(decorators ...AnteDecorator) AnteDecorator {
	return func(ctx sdk.Context, tx *Tx) error {
		for _, d := range decorators {
			if err := d(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}
}

// newAnteHandler authenticates the signer of every transaction and increments
// its sequence. Handlers only ever see messages whose signer field belongs to
// the key that signed them.
func newAnteHandler(cdc *codec.LegacyAmino, accKey storetypes.StoreKey) AnteDecorator {
	return chainAnteDecorators(
		validateBasicDecorator,
		signerDecorator,
		sigVerificationDecorator(cdc, accKey),
		incrementSequenceDecorator(accKey),
	)
}

func validateBasicDecorator(_ sdk.Context, tx *Tx) error {
	if tx == nil || tx.Msg == nil {
		return puzzletypes.ErrInvalidRequest.Wrap("empty transaction")
	}
	return tx.Msg.ValidateBasic()
}

// signerDecorator requires the message's single signer to be the address of
// the public key carried by the transaction.
func signerDecorator(_ sdk.Context, tx *Tx) error {
	signers := tx.Msg.GetSigners()
	if len(signers) != 1 || signers[0].Empty() {
		return puzzletypes.ErrUnauthorized.Wrapf("message must name exactly one signer, got %d", len(signers))
	}
	if len(tx.PubKey) != secp256k1.PubKeySize {
		return puzzletypes.ErrInvalidTxSignature.Wrapf("public key must be %d bytes, got %d", secp256k1.PubKeySize, len(tx.PubKey))
	}
	pk := &secp256k1.PubKey{Key: tx.PubKey}
	if !signers[0].Equals(sdk.AccAddress(pk.Address())) {
		return puzzletypes.ErrUnauthorized.Wrapf("signer %s does not own key %s", signers[0], sdk.AccAddress(pk.Address()))
	}
	return nil
}

func sigVerificationDecorator(cdc *codec.LegacyAmino, accKey storetypes.StoreKey) AnteDecorator {
	return func(ctx sdk.Context, tx *Tx) error {
		signer := tx.Msg.GetSigners()[0]
		if seq := getSequence(ctx, accKey, signer); tx.Sequence != seq {
			return puzzletypes.ErrWrongTxSequence.Wrapf("account %s: expected %d, got %d", signer, seq, tx.Sequence)
		}

		bz, err := StdSignBytes(cdc, ctx.ChainID(), tx.Sequence, tx.Msg)
		if err != nil {
			return err
		}
		pk := &secp256k1.PubKey{Key: tx.PubKey}
		if !pk.VerifySignature(bz, tx.Signature) {
			return puzzletypes.ErrInvalidTxSignature.Wrapf("account %s, sequence %d", signer, tx.Sequence)
		}
		return nil
	}
}

// incrementSequenceDecorator bumps the signer's sequence. The increment is
// kept even when the message itself is rejected.
func incrementSequenceDecorator(accKey storetypes.StoreKey) AnteDecorator {
	return func(ctx sdk.Context, tx *Tx) error {
		signer := tx.Msg.GetSigners()[0]
		seq := getSequence(ctx, accKey, signer)
		ctx.KVStore(accKey).Set(signer, sdk.Uint64ToBigEndian(seq+1))
		return nil
	}
}

func getSequence(ctx sdk.Context, accKey storetypes.StoreKey, addr sdk.AccAddress) uint64 {
	bz := ctx.KVStore(accKey).Get(addr)
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}
