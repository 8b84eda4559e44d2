package cli

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/folio-chain/folio/x/vault/types"
)

// GetTxCmd returns the transaction commands for the vault module
func GetTxCmd() *cobra.Command {
	vaultTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Vault transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	vaultTxCmd.AddCommand(
		CmdCreateVault(),
		CmdSubmitIntent(),
		CmdRequestDeposit(),
		CmdRequestRedeem(),
		CmdCancelDeposit(),
		CmdCancelRedeem(),
		CmdDecommissionVault(),
		CmdWithdrawFees(),
	)

	return vaultTxCmd
}

// CmdCreateVault returns a CLI command handler for opening a vault
func CmdCreateVault() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-vault [vault-type] [fee-kind] [performance-fee-bps] [management-fee-bps]",
		Short: "Open a vault (vault-type: transparent|encrypted)",
		Long: `Open a vault. The signer becomes the curator and must be whitelisted.

Example:
  $ foliod tx vault create-vault transparent hwm 1500 100 --from curator`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			vaultType, err := parseVaultType(args[0])
			if err != nil {
				return err
			}
			kind, err := parseFeeKind(args[1])
			if err != nil {
				return err
			}
			perfBps, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid performance fee bps: %w", err)
			}
			mgmtBps, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid management fee bps: %w", err)
			}

			msg := types.NewMsgCreateVault(clientCtx.GetFromAddress().String(), vaultType, types.FeeModel{
				Kind:              kind,
				PerformanceFeeBps: perfBps,
				ManagementFeeBps:  mgmtBps,
				HighWaterMark:     math.LegacyOneDec(),
			})
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSubmitIntent returns a CLI command handler for replacing a vault's
// target allocation
func CmdSubmitIntent() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-intent [vault-id] [weights|ciphertext]",
		Short: "Submit a target allocation for a vault",
		Long: `Submit a target allocation. Transparent vaults take clear weights as
denom:weight pairs summing to 10^9; encrypted vaults take base64 ciphertext.

Example:
  $ foliod tx vault submit-intent 1 uatom:600000000,uosmo:400000000 --from curator
  $ foliod tx vault submit-intent 2 --encrypted dGVzdA== --from curator`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}

			msg := &types.MsgSubmitIntent{
				Curator: clientCtx.GetFromAddress().String(),
				VaultId: vaultID,
			}

			encrypted, err := cmd.Flags().GetString(FlagEncrypted)
			if err != nil {
				return err
			}
			switch {
			case encrypted != "":
				ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
				if err != nil {
					return fmt.Errorf("invalid ciphertext: %w", err)
				}
				msg.Ciphertext = ciphertext
			case len(args) == 2:
				weights, err := parseWeights(args[1])
				if err != nil {
					return err
				}
				msg.Weights = weights
			default:
				return fmt.Errorf("either clear weights or --encrypted is required")
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	cmd.Flags().String(FlagEncrypted, "", "base64 ciphertext for encrypted vaults")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRequestDeposit returns a CLI command handler for queueing a deposit
func CmdRequestDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request-deposit [vault-id] [amount]",
		Short: "Queue a deposit into a vault (settles at epoch end)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}
			amount, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			msg := types.NewMsgRequestDeposit(clientCtx.GetFromAddress().String(), vaultID, amount)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRequestRedeem returns a CLI command handler for queueing a redemption
func CmdRequestRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request-redeem [vault-id] [shares]",
		Short: "Queue a redemption of vault shares (settles at epoch end)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}
			shares, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid shares %q", args[1])
			}

			msg := types.NewMsgRequestRedeem(clientCtx.GetFromAddress().String(), vaultID, shares)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCancelDeposit returns a CLI command handler for cancelling a pending
// deposit
func CmdCancelDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel-deposit [vault-id]",
		Short: "Cancel a still-uncaptured deposit request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}

			msg := &types.MsgCancelDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				VaultId:   vaultID,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCancelRedeem returns a CLI command handler for cancelling a pending
// redemption
func CmdCancelRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel-redeem [vault-id]",
		Short: "Cancel a still-uncaptured redeem request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}

			msg := &types.MsgCancelRedeem{
				Owner:   clientCtx.GetFromAddress().String(),
				VaultId: vaultID,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDecommissionVault returns a CLI command handler for winding a vault down
func CmdDecommissionVault() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decommission [vault-id]",
		Short: "Block new deposits and wind the vault down over coming epochs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			vaultID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vault id: %w", err)
			}

			msg := &types.MsgDecommissionVault{
				Signer:  clientCtx.GetFromAddress().String(),
				VaultId: vaultID,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawFees returns a CLI command handler for withdrawing accrued
// curator fees
func CmdWithdrawFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-fees",
		Short: "Withdraw the signer's accrued curator fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgWithdrawFees{Curator: clientCtx.GetFromAddress().String()}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func parseVaultType(s string) (types.VaultType, error) {
	switch strings.ToLower(s) {
	case "transparent":
		return types.VaultTypeTransparent, nil
	case "encrypted":
		return types.VaultTypeEncrypted, nil
	default:
		return 0, fmt.Errorf("unknown vault type %q", s)
	}
}

func parseFeeKind(s string) (types.FeeModelKind, error) {
	switch strings.ToLower(s) {
	case "absolute":
		return types.FeeModelAbsolute, nil
	case "soft-hurdle":
		return types.FeeModelSoftHurdle, nil
	case "hard-hurdle":
		return types.FeeModelHardHurdle, nil
	case "hwm":
		return types.FeeModelHighWaterMark, nil
	case "hurdle-hwm":
		return types.FeeModelHurdleHWM, nil
	default:
		return 0, fmt.Errorf("unknown fee kind %q", s)
	}
}

// parseWeights parses denom:weight pairs separated by commas.
func parseWeights(s string) ([]types.WeightedAsset, error) {
	var weights []types.WeightedAsset
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid weight pair %q", pair)
		}
		weight, ok := math.NewIntFromString(parts[1])
		if !ok {
			return nil, fmt.Errorf("invalid weight %q", parts[1])
		}
		weights = append(weights, types.WeightedAsset{Denom: parts[0], Weight: weight})
	}
	return weights, nil
}
