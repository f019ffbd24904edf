package app_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/puzzlehunt/app"
	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

const testChainID = "puzzle-chain-test-1"

var genesisTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func participant(name string) sdk.AccAddress {
	return sdk.AccAddress(address.Hash("app/test", []byte(name))[:20])
}

func keyAddr(key *secp256k1.PrivKey) sdk.AccAddress {
	return sdk.AccAddress(key.PubKey().Address())
}

type testChain struct {
	*app.LocalChain
	admin     *secp256k1.PrivKey
	authority string
	relayKey  *secp256k1.PrivKey
	relay     sdk.AccAddress
	judge     *secp256k1.PrivKey
}

func newTestChain(t *testing.T, puzzles int) *testChain {
	t.Helper()

	admin := secp256k1.GenPrivKey()
	chain, err := app.NewLocalChain(app.ChainConfig{
		ChainID:     testChainID,
		Authority:   keyAddr(admin).String(),
		GenesisTime: genesisTime,
	}, nil)
	require.NoError(t, err)

	relayKey := secp256k1.GenPrivKey()
	tc := &testChain{
		LocalChain: chain,
		admin:      admin,
		authority:  keyAddr(admin).String(),
		relayKey:   relayKey,
		relay:      keyAddr(relayKey),
		judge:      secp256k1.GenPrivKey(),
	}
	ctx := context.Background()

	tc.deliver(t, admin, &puzzletypes.MsgSetRelay{Authority: tc.authority, Relay: tc.relay.String()})
	tc.deliver(t, admin, &puzzletypes.MsgSetJudgeKey{Authority: tc.authority, PubKey: tc.judge.PubKey().Bytes()})
	for id := 0; id < puzzles; id++ {
		tc.deliver(t, admin, &puzzletypes.MsgSetPuzzle{
			Sender:        tc.authority,
			PuzzleId:      uint64(id),
			CanonicalHash: puzzletypes.Keccak256([]byte(fmt.Sprintf("answer-%d", id))),
			BasePoints:    10,
		})
	}
	_, err = chain.SignAndDeliver(ctx, admin, &puzzletypes.MsgStartGame{Authority: tc.authority, Duration: 600})
	require.NoError(t, err)
	chain.Commit()
	chain.Events()

	return tc
}

func (tc *testChain) deliver(t *testing.T, key *secp256k1.PrivKey, msg app.Msg) any {
	t.Helper()
	res, err := tc.SignAndDeliver(context.Background(), key, msg)
	require.NoError(t, err)
	return res
}

func (tc *testChain) result(t *testing.T, player sdk.AccAddress, puzzleID uint64, correct bool) *puzzletypes.MsgSubmitResult {
	t.Helper()
	att := puzzletypes.Attestation{Player: player, PuzzleId: puzzleID, Correct: correct, TimeRemaining: 60}
	sig, err := puzzletypes.SignAttestation(tc.judge, tc.ChainID(), puzzletypes.ModuleAddress(), att)
	require.NoError(t, err)
	return &puzzletypes.MsgSubmitResult{
		Relay:         tc.relay.String(),
		Player:        player.String(),
		PuzzleId:      puzzleID,
		Correct:       correct,
		TimeRemaining: 60,
		Signature:     sig,
	}
}

func TestNewLocalChainRequiresChainID(t *testing.T) {
	_, err := app.NewLocalChain(app.ChainConfig{}, nil)
	require.Error(t, err)
}

func TestNewLocalChainRejectsInvalidGenesis(t *testing.T) {
	gs := puzzletypes.DefaultGenesis()
	gs.NextTokenId = 0
	_, err := app.NewLocalChain(app.ChainConfig{ChainID: testChainID, Genesis: gs}, nil)
	require.ErrorIs(t, err, puzzletypes.ErrInvalidGenesis)
}

func TestBlockClock(t *testing.T) {
	chain, err := app.NewLocalChain(app.ChainConfig{ChainID: testChainID, GenesisTime: genesisTime}, nil)
	require.NoError(t, err)

	require.Equal(t, int64(2), chain.Height())
	require.Equal(t, genesisTime.Add(app.DefaultBlockInterval), chain.BlockTime())

	chain.Commit()
	require.Equal(t, int64(3), chain.Height())

	next := chain.BlockTime().Add(time.Hour)
	require.NoError(t, chain.CommitAt(next))
	require.Equal(t, next, chain.BlockTime())
	require.Equal(t, int64(4), chain.Height())

	require.Error(t, chain.CommitAt(next.Add(-time.Second)))
	require.Equal(t, int64(4), chain.Height())
}

func TestDeliverEventsOnlyForAcceptedMessages(t *testing.T) {
	tc := newTestChain(t, 2)
	alice := participant("alice")

	res := tc.deliver(t, tc.relayKey, tc.result(t, alice, 0, true))
	submit, ok := res.(*puzzletypes.MsgSubmitResultResponse)
	require.True(t, ok)
	require.Equal(t, uint64(11), submit.NewScore)

	_, err := tc.SignAndDeliver(context.Background(), tc.relayKey, tc.result(t, alice, 0, true))
	require.ErrorIs(t, err, puzzletypes.ErrPuzzleSequence)

	events := tc.Events()
	require.Len(t, events, 1)
	require.Equal(t, puzzletypes.EventTypeResult, events[0].Type)
	require.Empty(t, tc.Events(), "events are drained")
}

type unknownMsg struct {
	Signer sdk.AccAddress `json:"signer"`
}

func (unknownMsg) ValidateBasic() error { return nil }

func (m unknownMsg) GetSigners() []sdk.AccAddress { return []sdk.AccAddress{m.Signer} }

func TestDeliverUnknownMessage(t *testing.T) {
	tc := newTestChain(t, 1)
	key := secp256k1.GenPrivKey()
	_, err := tc.SignAndDeliver(context.Background(), key, unknownMsg{Signer: keyAddr(key)})
	require.ErrorIs(t, err, puzzletypes.ErrInvalidRequest)

	_, err = tc.Deliver(context.Background(), nil)
	require.ErrorIs(t, err, puzzletypes.ErrInvalidRequest)
}

func TestConcurrentDeliveriesAreSerialized(t *testing.T) {
	const players = 16
	const puzzles = 3
	tc := newTestChain(t, puzzles)

	var wg sync.WaitGroup
	errs := make(chan error, players*puzzles)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			player := participant(fmt.Sprintf("player-%d", i))
			for id := uint64(0); id < puzzles; id++ {
				if _, err := tc.SignAndDeliver(context.Background(), tc.relayKey, tc.result(t, player, id, true)); err != nil {
					errs <- err
				}
			}
		}(i)
	}

	// readers run alongside the writers
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tc.Query(context.Background(), func(ctx context.Context, qs puzzletypes.QueryServer) error {
				_, err := qs.Leaderboard(ctx, &puzzletypes.QueryLeaderboardRequest{})
				return err
			})
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var count uint64
	err := tc.Query(context.Background(), func(ctx context.Context, qs puzzletypes.QueryServer) error {
		res, err := qs.PlayerCount(ctx, &puzzletypes.QueryPlayerCountRequest{})
		if err != nil {
			return err
		}
		count = res.Count
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(players), count)
	require.Equal(t, uint64(players*puzzles), tc.Sequence(tc.relay))

	msg, broken := tc.CheckInvariants()
	require.False(t, broken, msg)
}

func TestFullGameAndGenesisFile(t *testing.T) {
	tc := newTestChain(t, 2)
	aliceKey, bobKey := secp256k1.GenPrivKey(), secp256k1.GenPrivKey()
	alice, bob := keyAddr(aliceKey), keyAddr(bobKey)

	tc.deliver(t, tc.relayKey, tc.result(t, alice, 0, true))
	tc.Commit()
	tc.deliver(t, tc.relayKey, tc.result(t, bob, 0, true))
	tc.deliver(t, tc.relayKey, tc.result(t, bob, 1, false))
	tc.deliver(t, tc.admin, &puzzletypes.MsgEndGame{Authority: tc.authority})
	tc.deliver(t, bobKey, &puzzletypes.MsgFinalizeRanks{Sender: bob.String()})

	res := tc.deliver(t, aliceKey, &puzzletypes.MsgClaimReward{Player: alice.String()})
	claim, ok := res.(*puzzletypes.MsgClaimRewardResponse)
	require.True(t, ok)
	require.Equal(t, uint64(1), claim.Rank)
	tc.Commit()

	gs, err := tc.ExportGenesis()
	require.NoError(t, err)

	enc := app.MakeEncodingConfig()
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, app.WriteGenesisFile(enc, path, gs))

	loaded, err := app.ReadGenesisFile(enc, path)
	require.NoError(t, err)

	restored, err := app.NewLocalChain(app.ChainConfig{ChainID: testChainID, Authority: tc.authority, GenesisTime: tc.BlockTime(), Genesis: loaded}, nil)
	require.NoError(t, err)

	again, err := restored.ExportGenesis()
	require.NoError(t, err)
	require.Equal(t, gs.Roster, again.Roster)
	require.Equal(t, gs.Ranks, again.Ranks)
	require.Equal(t, gs.Tokens, again.Tokens)
	require.Equal(t, gs.Players, again.Players)

	_, err = restored.SignAndDeliver(context.Background(), aliceKey, &puzzletypes.MsgClaimReward{Player: alice.String()})
	require.ErrorIs(t, err, puzzletypes.ErrAlreadyClaimed)
}

func TestForgedSignerFieldsAreRejected(t *testing.T) {
	tc := newTestChain(t, 1)
	ctx := context.Background()
	mallory := secp256k1.GenPrivKey()
	malloryJudge := secp256k1.GenPrivKey()
	alice := participant("alice")

	before, err := tc.ExportGenesis()
	require.NoError(t, err)

	forged := []app.Msg{
		&puzzletypes.MsgSetJudgeKey{Authority: tc.authority, PubKey: malloryJudge.PubKey().Bytes()},
		&puzzletypes.MsgSetRelay{Authority: tc.authority, Relay: keyAddr(mallory).String()},
		&puzzletypes.MsgEndGame{Authority: tc.authority},
		&puzzletypes.MsgSetPuzzle{Sender: tc.authority, PuzzleId: 0, CanonicalHash: puzzletypes.Keccak256([]byte("x")), BasePoints: 1000},
		tc.result(t, alice, 0, true),
		&puzzletypes.MsgClaimReward{Player: alice.String()},
	}
	for _, msg := range forged {
		_, err := tc.SignAndDeliver(ctx, mallory, msg)
		require.ErrorIs(t, err, puzzletypes.ErrUnauthorized, "%T", msg)
		require.Equal(t, puzzletypes.ClassAuthorization, puzzletypes.Classify(err))
	}
	require.Zero(t, tc.Sequence(keyAddr(mallory)))

	// naming itself as relay gets past authentication but not the relay check
	att := puzzletypes.Attestation{Player: keyAddr(mallory), PuzzleId: 0, Correct: true, TimeRemaining: 6000}
	sig, err := puzzletypes.SignAttestation(malloryJudge, tc.ChainID(), puzzletypes.ModuleAddress(), att)
	require.NoError(t, err)
	_, err = tc.SignAndDeliver(ctx, mallory, &puzzletypes.MsgSubmitResult{
		Relay:         keyAddr(mallory).String(),
		Player:        keyAddr(mallory).String(),
		PuzzleId:      0,
		Correct:       true,
		TimeRemaining: 6000,
		Signature:     sig,
	})
	require.ErrorIs(t, err, puzzletypes.ErrInvalidRelay)
	require.Equal(t, uint64(1), tc.Sequence(keyAddr(mallory)))

	after, err := tc.ExportGenesis()
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Empty(t, tc.Events())
}

func TestTxAuthentication(t *testing.T) {
	tc := newTestChain(t, 1)
	ctx := context.Background()
	enc := app.MakeEncodingConfig()
	alice := participant("alice")

	seq := tc.Sequence(tc.relay)
	tx, err := app.SignTx(enc.Amino, tc.relayKey, testChainID, seq, tc.result(t, alice, 0, true))
	require.NoError(t, err)

	// the signature covers every message field
	msg := *tx.Msg.(*puzzletypes.MsgSubmitResult)
	msg.TimeRemaining = 600
	tampered := *tx
	tampered.Msg = &msg
	_, err = tc.Deliver(ctx, &tampered)
	require.ErrorIs(t, err, puzzletypes.ErrInvalidTxSignature)

	other, err := app.SignTx(enc.Amino, tc.relayKey, "other-chain", seq, tc.result(t, alice, 0, true))
	require.NoError(t, err)
	_, err = tc.Deliver(ctx, other)
	require.ErrorIs(t, err, puzzletypes.ErrInvalidTxSignature)
	require.Equal(t, seq, tc.Sequence(tc.relay))

	_, err = tc.Deliver(ctx, tx)
	require.NoError(t, err)
	_, err = tc.Deliver(ctx, tx)
	require.ErrorIs(t, err, puzzletypes.ErrWrongTxSequence)
	require.Equal(t, seq+1, tc.Sequence(tc.relay))

	// a rejected message still consumes the sequence
	_, err = tc.SignAndDeliver(ctx, tc.relayKey, tc.result(t, alice, 0, true))
	require.ErrorIs(t, err, puzzletypes.ErrPuzzleSequence)
	require.Equal(t, seq+2, tc.Sequence(tc.relay))

	short := *tx
	short.Sequence = seq + 2
	short.PubKey = []byte{1, 2, 3}
	_, err = tc.Deliver(ctx, &short)
	require.ErrorIs(t, err, puzzletypes.ErrInvalidTxSignature)
}

func TestInvariantRoutes(t *testing.T) {
	tc := newTestChain(t, 1)
	require.ElementsMatch(t, []string{
		puzzletypes.ModuleName + "/roster-consistency",
		puzzletypes.ModuleName + "/reward-ownership",
		puzzletypes.ModuleName + "/rank-assignment",
	}, tc.InvariantRoutes())

	msg, broken := tc.CheckInvariants()
	require.False(t, broken, msg)
}
