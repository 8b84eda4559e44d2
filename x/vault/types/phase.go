package types

import "fmt"

// Phase is the shared epoch phase sequence. The states orchestrator owns
// every phase except Idle; the liquidity orchestrator only runs while the
// phase is Idle and the epoch counter has advanced past its last run.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePreprocessingTransparentVaults
	PhasePreprocessingEncryptedVaults
	PhaseBuffering
	PhasePostprocessingTransparentVaults
	PhasePostprocessingEncryptedVaults
	PhaseBuildingOrders
)

// String implements fmt.Stringer
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreprocessingTransparentVaults:
		return "preprocessing_transparent_vaults"
	case PhasePreprocessingEncryptedVaults:
		return "preprocessing_encrypted_vaults"
	case PhaseBuffering:
		return "buffering"
	case PhasePostprocessingTransparentVaults:
		return "postprocessing_transparent_vaults"
	case PhasePostprocessingEncryptedVaults:
		return "postprocessing_encrypted_vaults"
	case PhaseBuildingOrders:
		return "building_orders"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// UpkeepAction is the caller-supplied selector carried in a states upkeep
// message. Every action is legal in exactly one phase; the keeper validates
// the pair before any mutation.
type UpkeepAction uint8

const (
	ActionPreprocessTransparentVaults UpkeepAction = iota
	ActionPreprocessEncryptedVaults
	ActionReserveBuffer
	ActionPostprocessTransparentVaults
	ActionPostprocessEncryptedVaults
	ActionBuildOrders
)

// String implements fmt.Stringer
func (a UpkeepAction) String() string {
	switch a {
	case ActionPreprocessTransparentVaults:
		return "preprocess_transparent_vaults"
	case ActionPreprocessEncryptedVaults:
		return "preprocess_encrypted_vaults"
	case ActionReserveBuffer:
		return "reserve_buffer"
	case ActionPostprocessTransparentVaults:
		return "postprocess_transparent_vaults"
	case ActionPostprocessEncryptedVaults:
		return "postprocess_encrypted_vaults"
	case ActionBuildOrders:
		return "build_orders"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ActionForPhase returns the single action that may be performed while the
// machine sits in the given phase. From Idle the legal action is the one
// that begins a new epoch; it is additionally gated on the epoch duration
// having elapsed.
func ActionForPhase(p Phase) (UpkeepAction, bool) {
	switch p {
	case PhaseIdle, PhasePreprocessingTransparentVaults:
		return ActionPreprocessTransparentVaults, true
	case PhasePreprocessingEncryptedVaults:
		return ActionPreprocessEncryptedVaults, true
	case PhaseBuffering:
		return ActionReserveBuffer, true
	case PhasePostprocessingTransparentVaults:
		return ActionPostprocessTransparentVaults, true
	case PhasePostprocessingEncryptedVaults:
		return ActionPostprocessEncryptedVaults, true
	case PhaseBuildingOrders:
		return ActionBuildOrders, true
	default:
		return 0, false
	}
}

// NextPhase returns the successor in the fixed phase cycle.
func NextPhase(p Phase) Phase {
	switch p {
	case PhaseIdle:
		return PhasePreprocessingTransparentVaults
	case PhasePreprocessingTransparentVaults:
		return PhasePreprocessingEncryptedVaults
	case PhasePreprocessingEncryptedVaults:
		return PhaseBuffering
	case PhaseBuffering:
		return PhasePostprocessingTransparentVaults
	case PhasePostprocessingTransparentVaults:
		return PhasePostprocessingEncryptedVaults
	case PhasePostprocessingEncryptedVaults:
		return PhaseBuildingOrders
	default:
		return PhaseIdle
	}
}
