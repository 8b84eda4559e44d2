package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/folio-chain/folio/x/vault/types"
)

func TestValidateIntent(t *testing.T) {
	tests := []struct {
		name    string
		intent  []types.WeightedAsset
		wantErr bool
	}{
		{
			name:   "empty intent is legal",
			intent: nil,
		},
		{
			name: "single asset full weight",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(types.IntentScale)},
			},
		},
		{
			name: "two assets exact sum",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(600_000_000)},
				{Denom: "uosmo", Weight: math.NewInt(400_000_000)},
			},
		},
		{
			name: "sum off by one",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(600_000_000)},
				{Denom: "uosmo", Weight: math.NewInt(399_999_999)},
			},
			wantErr: true,
		},
		{
			name: "duplicate asset",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(500_000_000)},
				{Denom: "uatom", Weight: math.NewInt(500_000_000)},
			},
			wantErr: true,
		},
		{
			name: "zero weight",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(types.IntentScale)},
				{Denom: "uosmo", Weight: math.ZeroInt()},
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			intent: []types.WeightedAsset{
				{Denom: "uatom", Weight: math.NewInt(types.IntentScale + 1)},
				{Denom: "uosmo", Weight: math.NewInt(-1)},
			},
			wantErr: true,
		},
		{
			name: "empty denom",
			intent: []types.WeightedAsset{
				{Denom: "", Weight: math.NewInt(types.IntentScale)},
			},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := types.ValidateIntent(tc.intent)
			if tc.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, types.ErrInvalidWeights)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFeeModelValidate(t *testing.T) {
	valid := types.FeeModel{
		Kind:              types.FeeModelHighWaterMark,
		PerformanceFeeBps: 1500,
		ManagementFeeBps:  100,
		HighWaterMark:     math.LegacyOneDec(),
	}
	require.NoError(t, valid.Validate())

	tooHigh := valid
	tooHigh.PerformanceFeeBps = types.BpsDenominator
	require.Error(t, tooHigh.Validate())

	badKind := valid
	badKind.Kind = types.FeeModelHurdleHWM + 1
	require.Error(t, badKind.Validate())

	nilHWM := valid
	nilHWM.HighWaterMark = math.LegacyDec{}
	require.Error(t, nilHWM.Validate())
}

func TestFeeModelKindPredicates(t *testing.T) {
	require.False(t, types.FeeModel{Kind: types.FeeModelAbsolute}.UsesHurdle())
	require.True(t, types.FeeModel{Kind: types.FeeModelSoftHurdle}.UsesHurdle())
	require.True(t, types.FeeModel{Kind: types.FeeModelHardHurdle}.UsesHurdle())
	require.True(t, types.FeeModel{Kind: types.FeeModelHurdleHWM}.UsesHurdle())
	require.True(t, types.FeeModel{Kind: types.FeeModelHighWaterMark}.UsesHighWaterMark())
	require.True(t, types.FeeModel{Kind: types.FeeModelHurdleHWM}.UsesHighWaterMark())
	require.False(t, types.FeeModel{Kind: types.FeeModelSoftHurdle}.UsesHighWaterMark())
}

func TestActionForPhase(t *testing.T) {
	// Idle and the first preprocessing phase share the epoch-opening action;
	// every other phase maps to exactly one action.
	cases := map[types.Phase]types.UpkeepAction{
		types.PhaseIdle:                          types.ActionPreprocessTransparentVaults,
		types.PhasePreprocessingTransparentVaults: types.ActionPreprocessTransparentVaults,
		types.PhasePreprocessingEncryptedVaults:   types.ActionPreprocessEncryptedVaults,
		types.PhaseBuffering:                      types.ActionReserveBuffer,
		types.PhasePostprocessingTransparentVaults: types.ActionPostprocessTransparentVaults,
		types.PhasePostprocessingEncryptedVaults:   types.ActionPostprocessEncryptedVaults,
		types.PhaseBuildingOrders:                  types.ActionBuildOrders,
	}
	for phase, want := range cases {
		action, ok := types.ActionForPhase(phase)
		require.True(t, ok, phase.String())
		require.Equal(t, want, action, phase.String())
	}

	_, ok := types.ActionForPhase(types.PhaseBuildingOrders + 1)
	require.False(t, ok)
}

func TestNextPhaseCycle(t *testing.T) {
	order := []types.Phase{
		types.PhaseIdle,
		types.PhasePreprocessingTransparentVaults,
		types.PhasePreprocessingEncryptedVaults,
		types.PhaseBuffering,
		types.PhasePostprocessingTransparentVaults,
		types.PhasePostprocessingEncryptedVaults,
		types.PhaseBuildingOrders,
	}
	for i := 0; i < len(order)-1; i++ {
		require.Equal(t, order[i+1], types.NextPhase(order[i]))
	}
	require.Equal(t, types.PhaseIdle, types.NextPhase(types.PhaseBuildingOrders))
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	p := types.DefaultParams()
	p.SlippageToleranceBps = types.MaxSlippageToleranceBps + 1
	require.Error(t, p.Validate())

	p = types.DefaultParams()
	p.BufferRatioBps = types.MaxBufferRatioBps + 1
	require.Error(t, p.Validate())

	p = types.DefaultParams()
	p.MinibatchSize = 0
	require.Error(t, p.Validate())

	p = types.DefaultParams()
	p.EpochDurationSeconds = 0
	require.Error(t, p.Validate())

	p = types.DefaultParams()
	p.DustThreshold = math.NewInt(-1)
	require.Error(t, p.Validate())

	p = types.DefaultParams()
	p.AutomationAddress = "not-bech32"
	require.Error(t, p.Validate())
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())

	gs := *types.DefaultGenesis()
	gs.NextVaultId = 2
	gs.Vaults = []types.Vault{{
		Id:       1,
		Curator:  "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu",
		FeeModel: types.FeeModel{HighWaterMark: math.LegacyOneDec()},
		TotalSupply: math.ZeroInt(),
		TotalAssets: math.ZeroInt(),
	}}
	require.NoError(t, gs.Validate())

	dup := gs
	dup.Vaults = append([]types.Vault{}, gs.Vaults[0], gs.Vaults[0])
	require.Error(t, dup.Validate())

	orphan := gs
	orphan.PendingDeposits = []types.PendingDeposit{{VaultId: 7, Amount: math.NewInt(1)}}
	require.Error(t, orphan.Validate())
}
