// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/erc20kit/erc20kit"
	"github.com/erc20kit/erc20kit/common"
	"github.com/erc20kit/erc20kit/keys"
	"github.com/erc20kit/erc20kit/tokens"
)

var config erc20kit.Config

func main() {
	rootCmd := &cobra.Command{
		Use:   "erc20kit",
		Short: "typed client for a single deployed ERC20 token contract",
	}

	rootCmd.PersistentFlags().StringVar(&config.Tokens.Endpoint, "endpoint", "http://127.0.0.1:8545", "ethereum rpc endpoint url")
	rootCmd.PersistentFlags().StringVar(&config.Tokens.Contract, "contract", "", "token contract address")
	rootCmd.PersistentFlags().StringVar(&config.Tokens.PrivateKey, "private-key", "", "hex encoded private key used to sign token transactions")
	rootCmd.PersistentFlags().StringVar(&config.Tokens.Mnemonic, "mnemonic", "", "bip39 mnemonic used to derive the signing key")
	rootCmd.PersistentFlags().Uint32Var(&config.Tokens.AccountIndex, "account-index", 0, "account index of the mnemonic derivation path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the erc20kit API server",
		RunE:  run,
	}
	runCmd.Flags().StringVar(&config.API.Address, "address", ":10000", "public address to listen on")
	runCmd.Flags().StringSliceVar(&config.API.Keys, "api-keys", nil, "list of user:secret pairs to connect to service endpoints")

	supplyCmd := &cobra.Command{
		Use:   "supply",
		Short: "print total issued supply of the token",
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			supply, err := client.TotalSupply(ctx)
			if err != nil {
				return err
			}
			fmt.Println(supply)
			return nil
		}),
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "print the token balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			balance, err := client.BalanceOf(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(balance)
			return nil
		}),
	}

	allowanceCmd := &cobra.Command{
		Use:   "allowance <owner> <spender>",
		Short: "print the amount the spender may transfer on behalf of the owner",
		Args:  cobra.ExactArgs(2),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			allowance, err := client.AllowanceOf(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(allowance)
			return nil
		}),
	}

	approveCmd := &cobra.Command{
		Use:   "approve <spender> <amount>",
		Short: "authorize the spender to transfer the given amount of tokens",
		Args:  cobra.ExactArgs(2),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return err
			}
			hash, err := client.Approve(ctx, args[0], amount, nil)
			if err != nil {
				return err
			}
			fmt.Println(hash.Hex())
			return nil
		}),
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <to> <amount>",
		Short: "transfer the given amount of tokens from the signing account",
		Args:  cobra.ExactArgs(2),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return err
			}
			hash, err := client.Transfer(ctx, args[0], amount, nil)
			if err != nil {
				return err
			}
			fmt.Println(hash.Hex())
			return nil
		}),
	}

	transferFromCmd := &cobra.Command{
		Use:   "transfer-from <from> <to> <amount>",
		Short: "transfer the given amount of tokens between two accounts using a prior approval",
		Args:  cobra.ExactArgs(3),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return err
			}
			hash, err := client.TransferFrom(ctx, args[0], args[1], amount, nil)
			if err != nil {
				return err
			}
			fmt.Println(hash.Hex())
			return nil
		}),
	}

	eventsCmd := &cobra.Command{
		Use:   "events <tx>",
		Short: "print Transfer and Approval events the token emitted in a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, client *tokens.Client, args []string) error {
			txHash, err := common.HashFromHex(args[0])
			if err != nil {
				return err
			}

			contract := client.ContractAddress().Hex()
			transfers, err := client.TransferEvents(ctx, contract, txHash)
			if err != nil {
				return err
			}
			approvals, err := client.ApprovalEvents(ctx, contract, txHash)
			if err != nil {
				return err
			}

			for _, event := range transfers {
				fmt.Printf("transfer from=%s to=%s value=%s log=%d\n",
					event.From.Hex(), event.To.Hex(), event.TokenValue, event.LogIndex)
			}
			for _, event := range approvals {
				fmt.Printf("approval owner=%s spender=%s value=%s log=%d\n",
					event.Owner.Hex(), event.Spender.Hex(), event.TokenValue, event.LogIndex)
			}
			return nil
		}),
	}

	rootCmd.AddCommand(runCmd, supplyCmd, balanceCmd, allowanceCmd,
		approveCmd, transferCmd, transferFromCmd, eventsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := zap.NewExample()
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Println(err)
		}
	}()

	app, err := erc20kit.NewApp(logger.Named("erc20kit"), config)
	if err != nil {
		return err
	}

	runErr := app.Run(cmd.Context())
	closeErr := app.Close()

	return errs.Combine(runErr, closeErr)
}

// withClient builds the token client from the persistent flags and hands it
// to the command body.
func withClient(body func(ctx context.Context, client *tokens.Client, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := zap.NewExample()
		defer func() { _ = logger.Sync() }()

		token, err := common.AddressFromHex(config.Tokens.Contract)
		if err != nil {
			return err
		}

		var signer *keys.Signer
		switch {
		case config.Tokens.PrivateKey != "":
			signer, err = keys.FromHex(config.Tokens.PrivateKey)
		case config.Tokens.Mnemonic != "":
			signer, err = keys.FromMnemonic(config.Tokens.Mnemonic, config.Tokens.AccountIndex)
		}
		if err != nil {
			return err
		}

		client := tokens.NewClient(logger.Named("tokens:client"), config.Tokens.Endpoint, token, signer)
		return body(cmd.Context(), client, args)
	}
}
