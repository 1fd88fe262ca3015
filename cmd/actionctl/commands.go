package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-actions/pkg/actions"
)

func newStakeCmd(flags *rootFlags, method actions.StakeMethod) *cobra.Command {
	var owner, amount string

	var short string
	switch method {
	case actions.StakeMethodStake:
		short = "Stake KMNO, creating the user state when missing"
	case actions.StakeMethodUnstake:
		short = "Unstake KMNO shares"
	case actions.StakeMethodWithdraw:
		short = "Unstake KMNO shares and withdraw the unstaked deposits"
	}

	cmd := &cobra.Command{
		Use:   string(method),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerKey, err := actions.ParseAccount("owner", owner)
			if err != nil {
				return err
			}

			txn, err := flags.newService().StakeAmount(cmd.Context(), ownerKey, method, amount)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), txn)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner wallet address")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in UI units")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCreateMultisigCmd(flags *rootFlags) *cobra.Command {
	var owner, name, description string

	cmd := &cobra.Command{
		Use:   "create-multisig",
		Short: "Create a Squads multisig with the owner as its only member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerKey, err := actions.ParseAccount("owner", owner)
			if err != nil {
				return err
			}

			txn, err := flags.newService().CreateMultisig(cmd.Context(), ownerKey, name, description)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), txn)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner wallet address")
	cmd.Flags().StringVar(&name, "name", "", "Multisig name")
	cmd.Flags().StringVar(&description, "description", "", "Multisig description")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPayCmd(flags *rootFlags) *cobra.Command {
	var payer, tokenMint, receiver, amount string

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay with any token, delivering SEND to the receiver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payerKey, err := actions.ParseAccount("payer", payer)
			if err != nil {
				return err
			}
			mintKey, err := actions.ParseAccount("token_mint", tokenMint)
			if err != nil {
				return err
			}
			receiverKey, err := actions.ParseAccount("receiver", receiver)
			if err != nil {
				return err
			}

			if len(flags.heliusEndpoint) == 0 {
				return errors.New("--helius is required for payments")
			}

			txn, err := flags.newService().Pay(cmd.Context(), payerKey, mintKey, receiverKey, amount)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), txn)
		},
	}

	cmd.Flags().StringVar(&payer, "payer", "", "Payer wallet address")
	cmd.Flags().StringVar(&tokenMint, "token-mint", "", "Mint of the token paid in")
	cmd.Flags().StringVar(&receiver, "receiver", "", "Receiver wallet address")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in UI units of the paid token")
	_ = cmd.MarkFlagRequired("payer")
	_ = cmd.MarkFlagRequired("token-mint")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
