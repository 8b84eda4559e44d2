package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// GenesisState defines the vault module's genesis state
type GenesisState struct {
	Params          Params          `json:"params"`
	EpochState      EpochState      `json:"epoch_state"`
	NextVaultId     uint64          `json:"next_vault_id"`
	Vaults          []Vault         `json:"vaults,omitempty"`
	AssetListings   []AssetListing  `json:"asset_listings,omitempty"`
	Curators        []string        `json:"curators,omitempty"`
	ShareBalances   []ShareBalance  `json:"share_balances,omitempty"`
	PendingDeposits []PendingDeposit `json:"pending_deposits,omitempty"`
	PendingRedeems  []PendingRedeem  `json:"pending_redeems,omitempty"`
}

// ShareBalance is one holder's position in a vault, exported at genesis.
type ShareBalance struct {
	VaultId uint64   `json:"vault_id"`
	Address string   `json:"address"`
	Balance math.Int `json:"balance"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		EpochState:  EpochState{Phase: PhaseIdle},
		NextVaultId: 1,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.EpochState.Phase > PhaseBuildingOrders {
		return fmt.Errorf("invalid phase %d", gs.EpochState.Phase)
	}
	seen := make(map[uint64]struct{}, len(gs.Vaults))
	for _, v := range gs.Vaults {
		if v.Id == 0 || v.Id >= gs.NextVaultId {
			return fmt.Errorf("vault id %d out of range", v.Id)
		}
		if _, ok := seen[v.Id]; ok {
			return fmt.Errorf("duplicate vault id %d", v.Id)
		}
		seen[v.Id] = struct{}{}
		if err := v.FeeModel.Validate(); err != nil {
			return fmt.Errorf("vault %d: %w", v.Id, err)
		}
		if err := ValidateIntent(v.Intent); err != nil {
			return fmt.Errorf("vault %d: %w", v.Id, err)
		}
		if v.TotalSupply.IsNil() || v.TotalSupply.IsNegative() {
			return fmt.Errorf("vault %d: negative total supply", v.Id)
		}
		if v.TotalAssets.IsNil() || v.TotalAssets.IsNegative() {
			return fmt.Errorf("vault %d: negative total assets", v.Id)
		}
	}
	listed := make(map[string]struct{}, len(gs.AssetListings))
	for _, l := range gs.AssetListings {
		if _, ok := listed[l.Denom]; ok {
			return fmt.Errorf("duplicate asset listing %s", l.Denom)
		}
		listed[l.Denom] = struct{}{}
	}
	for _, sb := range gs.ShareBalances {
		if _, ok := seen[sb.VaultId]; !ok {
			return fmt.Errorf("share balance references unknown vault %d", sb.VaultId)
		}
		if sb.Balance.IsNil() || !sb.Balance.IsPositive() {
			return fmt.Errorf("share balance for vault %d must be positive", sb.VaultId)
		}
	}
	for _, pd := range gs.PendingDeposits {
		if _, ok := seen[pd.VaultId]; !ok {
			return fmt.Errorf("pending deposit references unknown vault %d", pd.VaultId)
		}
		if pd.Amount.IsNil() || !pd.Amount.IsPositive() {
			return fmt.Errorf("pending deposit for vault %d must be positive", pd.VaultId)
		}
	}
	for _, pr := range gs.PendingRedeems {
		if _, ok := seen[pr.VaultId]; !ok {
			return fmt.Errorf("pending redeem references unknown vault %d", pr.VaultId)
		}
		if pr.Shares.IsNil() || !pr.Shares.IsPositive() {
			return fmt.Errorf("pending redeem for vault %d must be positive", pr.VaultId)
		}
	}
	return nil
}
