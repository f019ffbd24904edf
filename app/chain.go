package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/app/telemetry"
	puzzlekeeper "github.com/paw-chain/puzzlehunt/x/puzzle/keeper"
	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
	"github.com/paw-chain/puzzlehunt/x/shared/abci"
)

// DefaultBlockInterval is how far block time moves when a block is committed
// without an explicit time.
const DefaultBlockInterval = 5 * time.Second

// ChainConfig configures a LocalChain.
type ChainConfig struct {
	ChainID     string
	Authority   string
	GenesisTime time.Time
	Genesis     *puzzletypes.GenesisState
}

// LocalChain hosts the puzzle keeper on an in-memory multistore and applies
// messages one at a time. Every method is safe for concurrent use; deliveries
// are serialized behind a single lock so the ledger has exactly one writer.
type LocalChain struct {
	mu sync.Mutex

	enc    EncodingConfig
	logger log.Logger

	cms    storetypes.CommitMultiStore
	key    *storetypes.KVStoreKey
	accKey *storetypes.KVStoreKey
	keeper *puzzlekeeper.Keeper
	msgs   puzzletypes.MsgServer
	query  puzzletypes.QueryServer

	ante       AnteDecorator
	invariants invariantRegistry

	header cmtproto.Header
	events sdk.Events
	errs   *abci.DeliveryErrorHandler
}

// NewLocalChain mounts the puzzle store and runs InitGenesis at height 1.
func NewLocalChain(cfg ChainConfig, logger log.Logger) (*LocalChain, error) {
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain id is required")
	}
	if cfg.Authority == "" {
		cfg.Authority = puzzletypes.DefaultAuthority()
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = time.Now().UTC().Truncate(time.Second)
	}
	genesis := cfg.Genesis
	if genesis == nil {
		genesis = puzzletypes.DefaultGenesis()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	enc := MakeEncodingConfig()
	key := storetypes.NewKVStoreKey(puzzletypes.StoreKey)
	accKey := storetypes.NewKVStoreKey(AccountStoreKey)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	cms.MountStoreWithDB(accKey, storetypes.StoreTypeIAVL, db)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	k := puzzlekeeper.NewKeeper(enc.Amino, key, cfg.Authority)
	c := &LocalChain{
		enc:    enc,
		logger: logger.With("module", "app"),
		cms:    cms,
		key:    key,
		accKey: accKey,
		keeper: k,
		msgs:   puzzlekeeper.NewMsgServerImpl(*k),
		query:  puzzlekeeper.NewQueryServerImpl(*k),
		ante:   newAnteHandler(enc.Amino, accKey),
		header: cmtproto.Header{ChainID: cfg.ChainID, Height: 1, Time: cfg.GenesisTime},
		errs:   abci.NewDeliveryErrorHandler(logger, puzzletypes.ModuleName),
	}
	puzzlekeeper.RegisterInvariants(&c.invariants, *k)

	if err := k.InitGenesis(c.context(), *genesis); err != nil {
		return nil, fmt.Errorf("failed to init genesis: %w", err)
	}
	c.commitLocked()

	c.logger.Info("local chain initialized", "chain_id", cfg.ChainID, "authority", cfg.Authority)
	return c, nil
}

func (c *LocalChain) context() sdk.Context {
	return sdk.NewContext(c.cms, c.header, false, c.logger)
}

func (c *LocalChain) commitLocked() {
	c.cms.Commit()
	c.header.Height++
	c.header.Time = c.header.Time.Add(DefaultBlockInterval)
}

// Keeper exposes the hosted puzzle keeper.
func (c *LocalChain) Keeper() *puzzlekeeper.Keeper {
	return c.keeper
}

// ChainID returns the chain identifier bound into attestations.
func (c *LocalChain) ChainID() string {
	return c.header.ChainID
}

// Height returns the height of the block being built.
func (c *LocalChain) Height() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header.Height
}

// BlockTime returns the time of the block being built.
func (c *LocalChain) BlockTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header.Time
}

// Commit seals the current block. The next block starts DefaultBlockInterval later.
func (c *LocalChain) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked()
}

// CommitAt seals the current block and starts the next one at t. Time never
// moves backwards.
func (c *LocalChain) CommitAt(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Before(c.header.Time) {
		return fmt.Errorf("block time %s precedes %s", t, c.header.Time)
	}
	c.cms.Commit()
	c.header.Height++
	c.header.Time = t
	return nil
}

// Sequence returns the next sequence addr must sign with.
func (c *LocalChain) Sequence(addr sdk.AccAddress) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return getSequence(c.context(), c.accKey, addr)
}

// Deliver authenticates tx and applies its message in the current block,
// returning the handler's response. The message's signer field must belong
// to the key that signed tx at the account's current sequence. Events of
// successful messages are accumulated and can be read back with Events. A
// handler panic is returned as abci.ErrPanic and leaves puzzle state
// untouched; the sender's sequence is still consumed.
func (c *LocalChain) Deliver(ctx context.Context, tx *Tx) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliverLocked(ctx, tx)
}

// SignAndDeliver signs msg with key at the key's current sequence and
// delivers it. Signing and delivery happen under one lock, so concurrent
// senders sharing a key never race on the sequence.
func (c *LocalChain) SignAndDeliver(ctx context.Context, key cryptotypes.PrivKey, msg Msg) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	signer := sdk.AccAddress(key.PubKey().Address())
	tx, err := SignTx(c.enc.Amino, key, c.header.ChainID, getSequence(c.context(), c.accKey, signer), msg)
	if err != nil {
		return nil, err
	}
	return c.deliverLocked(ctx, tx)
}

func (c *LocalChain) deliverLocked(ctx context.Context, tx *Tx) (any, error) {
	sdkCtx := c.context().WithContext(ctx).WithEventManager(sdk.NewEventManager())
	_, span := telemetry.StartBlockSpan(ctx, c.header.Height, 1)
	defer span.End()

	operation := "empty"
	if tx != nil {
		operation = fmt.Sprintf("%T", tx.Msg)
	}
	res, err := c.errs.Deliver(operation, c.header.Height, func() (any, error) {
		if err := c.ante(sdkCtx, tx); err != nil {
			return nil, err
		}
		return route(sdkCtx, c.msgs, tx.Msg)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	c.events = append(c.events, sdkCtx.EventManager().Events()...)
	return res, nil
}

// Events drains the events emitted since the last call.
func (c *LocalChain) Events() sdk.Events {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.events
	c.events = nil
	return out
}

// Query runs fn against the current state. Writes made by fn are discarded.
func (c *LocalChain) Query(ctx context.Context, fn func(ctx context.Context, qs puzzletypes.QueryServer) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheCtx, _ := c.context().WithContext(ctx).CacheContext()
	return fn(cacheCtx, c.query)
}

// CheckInvariants runs every registered invariant route against the current state.
func (c *LocalChain) CheckInvariants() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheCtx, _ := c.context().CacheContext()
	return c.invariants.assert(cacheCtx)
}

// InvariantRoutes lists the registered invariant routes.
func (c *LocalChain) InvariantRoutes() []string {
	return c.invariants.Routes()
}

// ExportGenesis dumps the puzzle state.
func (c *LocalChain) ExportGenesis() (*puzzletypes.GenesisState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheCtx, _ := c.context().CacheContext()
	return c.keeper.ExportGenesis(cacheCtx)
}
