package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// Keeper maintains the state of the puzzle module
type Keeper struct {
	storeKey  storetypes.StoreKey
	cdc       *codec.LegacyAmino
	authority string // sole administrative authority

	metrics *PuzzleMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new puzzle Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid puzzle authority address: %s", err))
	}

	return &Keeper{
		storeKey:  key,
		cdc:       cdc,
		authority: authority,
		metrics:   NewPuzzleMetrics(),
	}
}

// getStore returns the KVStore for the puzzle module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's administrative authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Metrics returns the module's prometheus collectors
func (k Keeper) Metrics() *PuzzleMetrics {
	return k.metrics
}

func (k Keeper) getRecord(ctx context.Context, key []byte, ptr interface{}) (bool, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false, nil
	}
	if err := k.cdc.UnmarshalJSON(bz, ptr); err != nil {
		return false, fmt.Errorf("decode record %X: %w", key, err)
	}
	return true, nil
}

func (k Keeper) setRecord(ctx context.Context, key []byte, v interface{}) error {
	bz, err := k.cdc.MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("encode record %X: %w", key, err)
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}

func (k Keeper) getCounter(ctx context.Context, key []byte) uint64 {
	return types.BytesToUint64(k.getStore(ctx).Get(key))
}

func (k Keeper) setCounter(ctx context.Context, key []byte, v uint64) {
	k.getStore(ctx).Set(key, types.Uint64ToBytes(v))
}

// GetParams gets all parameters from the store
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	var params types.Params
	found, err := k.getRecord(ctx, types.ParamsKey, &params)
	if err != nil {
		return types.Params{}, err
	}
	if !found {
		return types.DefaultParams(), nil
	}
	return params, nil
}

// SetParams sets the module parameters
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidParams.Wrap(err.Error())
	}
	return k.setRecord(ctx, types.ParamsKey, params)
}
