package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/puzzlehunt/x/puzzle/keeper"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

const (
	// TestChainID is the chain id of fixture contexts.
	TestChainID = "puzzle-test-1"
)

// GenesisTime is the block time of fixture contexts.
var GenesisTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// PuzzleKeeper creates a puzzle keeper on an in-memory store. The context
// carries TestChainID, height 1 and GenesisTime.
func PuzzleKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	k := keeper.NewKeeper(codec.NewLegacyAmino(), storeKey, types.DefaultAuthority())

	header := cmtproto.Header{ChainID: TestChainID, Height: 1, Time: GenesisTime}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return k, ctx
}

// AdvanceTime returns ctx moved forward by d and one block.
func AdvanceTime(ctx sdk.Context, d time.Duration) sdk.Context {
	return ctx.WithBlockTime(ctx.BlockTime().Add(d)).WithBlockHeight(ctx.BlockHeight() + 1)
}
