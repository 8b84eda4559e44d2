package keeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/folio-chain/folio/x/vault/keeper"
	"github.com/folio-chain/folio/x/vault/types"
)

// TestAuthority is the module authority used in keeper tests
const TestAuthority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

// Mocks bundles the fake adapter boundaries a vault test keeper runs with.
type Mocks struct {
	Bank      *MockBankKeeper
	Prices    *MockPriceAdapter
	Execution *MockExecutionAdapter
	Decrypter *MockIntentDecrypter
}

// VaultKeeper creates a test keeper for the vault module backed by an
// in-memory store and mock adapters.
func VaultKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, *Mocks) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	mocks := &Mocks{
		Bank:      NewMockBankKeeper(),
		Prices:    NewMockPriceAdapter(),
		Execution: NewMockExecutionAdapter(),
		Decrypter: NewMockIntentDecrypter(),
	}

	k := keeper.NewKeeper(
		types.Amino(),
		storeKey,
		TestAuthority,
		mocks.Bank,
		mocks.Prices,
		mocks.Execution,
		mocks.Decrypter,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(1_700_000_000, 0))

	k.InitGenesis(ctx, *types.DefaultGenesis())

	return k, ctx, mocks
}

// MockBankKeeper tracks escrow movements between accounts and the module
// without real supply accounting.
type MockBankKeeper struct {
	// Balances is keyed by address string then denom.
	Balances map[string]map[string]math.Int

	// FailSends makes every transfer fail when set.
	FailSends bool
}

// NewMockBankKeeper creates an empty mock bank
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{Balances: make(map[string]map[string]math.Int)}
}

// Fund credits an account balance directly
func (m *MockBankKeeper) Fund(addr string, denom string, amount math.Int) {
	if m.Balances[addr] == nil {
		m.Balances[addr] = make(map[string]math.Int)
	}
	current, ok := m.Balances[addr][denom]
	if !ok {
		current = math.ZeroInt()
	}
	m.Balances[addr][denom] = current.Add(amount)
}

func (m *MockBankKeeper) balanceOf(addr string, denom string) math.Int {
	if m.Balances[addr] == nil {
		return math.ZeroInt()
	}
	balance, ok := m.Balances[addr][denom]
	if !ok {
		return math.ZeroInt()
	}
	return balance
}

func (m *MockBankKeeper) move(from, to string, amt sdk.Coins) error {
	if m.FailSends {
		return fmt.Errorf("send failure injected")
	}
	for _, coin := range amt {
		balance := m.balanceOf(from, coin.Denom)
		if balance.LT(coin.Amount) {
			return fmt.Errorf("insufficient balance: %s has %s%s, needs %s", from, balance, coin.Denom, coin.Amount)
		}
		m.Balances[from][coin.Denom] = balance.Sub(coin.Amount)
		m.Fund(to, coin.Denom, coin.Amount)
	}
	return nil
}

// SendCoinsFromAccountToModule implements types.BankKeeper
func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.move(senderAddr.String(), recipientModule, amt)
}

// SendCoinsFromModuleToAccount implements types.BankKeeper
func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.move(senderModule, recipientAddr.String(), amt)
}

// GetBalance implements types.BankKeeper
func (m *MockBankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balanceOf(addr.String(), denom))
}

// MockPriceAdapter quotes from a fixed map.
type MockPriceAdapter struct {
	Quotes map[string]math.LegacyDec
}

// NewMockPriceAdapter creates an empty mock price adapter
func NewMockPriceAdapter() *MockPriceAdapter {
	return &MockPriceAdapter{Quotes: make(map[string]math.LegacyDec)}
}

// SetQuote fixes an asset's price in underlying units
func (m *MockPriceAdapter) SetQuote(denom string, price math.LegacyDec) {
	m.Quotes[denom] = price
}

// Quote implements types.PriceAdapter
func (m *MockPriceAdapter) Quote(_ context.Context, denom string) (math.LegacyDec, error) {
	price, ok := m.Quotes[denom]
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("no quote for %s", denom)
	}
	return price, nil
}

// ExecutedOrder records one call into the mock execution adapter.
type ExecutedOrder struct {
	Side   types.OrderSide
	Denom  string
	Amount math.Int
	Bound  math.Int
}

// MockExecutionAdapter fills orders exactly at the bound unless a fill
// override or failure is configured.
type MockExecutionAdapter struct {
	Executed []ExecutedOrder

	// Fills overrides the returned amount per denom.
	Fills map[string]math.Int

	// FailDenom makes execution of that denom error.
	FailDenom string
}

// NewMockExecutionAdapter creates an empty mock execution adapter
func NewMockExecutionAdapter() *MockExecutionAdapter {
	return &MockExecutionAdapter{Fills: make(map[string]math.Int)}
}

// Execute implements types.ExecutionAdapter
func (m *MockExecutionAdapter) Execute(_ context.Context, side types.OrderSide, denom string, amount math.Int, bound math.Int) (math.Int, error) {
	if denom == m.FailDenom {
		return math.Int{}, fmt.Errorf("execution failure injected for %s", denom)
	}
	m.Executed = append(m.Executed, ExecutedOrder{Side: side, Denom: denom, Amount: amount, Bound: bound})
	if fill, ok := m.Fills[denom]; ok {
		return fill, nil
	}
	return bound, nil
}

// MockIntentDecrypter resolves ciphertexts from a pre-seeded map.
type MockIntentDecrypter struct {
	Requested map[uint64][]byte
	Resolved  map[uint64][]types.WeightedAsset
}

// NewMockIntentDecrypter creates an empty mock decrypter
func NewMockIntentDecrypter() *MockIntentDecrypter {
	return &MockIntentDecrypter{
		Requested: make(map[uint64][]byte),
		Resolved:  make(map[uint64][]types.WeightedAsset),
	}
}

// Resolve seeds the decrypted intent for a vault
func (m *MockIntentDecrypter) Resolve(vaultID uint64, intent []types.WeightedAsset) {
	m.Resolved[vaultID] = intent
}

// RequestDecryption implements types.IntentDecrypter
func (m *MockIntentDecrypter) RequestDecryption(_ context.Context, vaultID uint64, ciphertext []byte) error {
	m.Requested[vaultID] = ciphertext
	return nil
}

// DecryptedIntent implements types.IntentDecrypter
func (m *MockIntentDecrypter) DecryptedIntent(_ context.Context, vaultID uint64) ([]types.WeightedAsset, bool) {
	intent, ok := m.Resolved[vaultID]
	return intent, ok
}
