package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/code-actions/pkg/actions"
	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/netutil"
	"github.com/code-payments/code-actions/pkg/solana"
)

const (
	outputBase64 = "base64"
	outputJSON   = "json"
)

type rootFlags struct {
	cluster        string
	rpcEndpoint    string
	jupiterBaseUrl string
	heliusEndpoint string
	setBlockhash   bool
	lookupTables   bool
	rpcAttempts    uint
	timeout        time.Duration
	maxAccounts    uint8
	slippageBps    uint32
	output         string
	verbose        bool
}

// newRootCmd wires the CLI surface. Every subcommand builds a single unsigned
// transaction and writes it to stdout. Nothing is signed or submitted.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "actionctl",
		Short:         "Build unsigned Solana action transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(flags.cluster) > 0 {
				env, ok := solana.EnvironmentFromCluster(flags.cluster)
				if !ok {
					return errors.Errorf("unknown --cluster: %s", flags.cluster)
				}
				if !cmd.Flags().Changed("rpc") {
					flags.rpcEndpoint = string(env)
				}
			}

			for name, endpoint := range map[string]string{
				"rpc":     flags.rpcEndpoint,
				"jupiter": flags.jupiterBaseUrl,
				"helius":  flags.heliusEndpoint,
			} {
				if len(endpoint) == 0 && name == "helius" {
					continue
				}
				if err := netutil.ValidateHttpUrl(endpoint, false); err != nil {
					return errors.Wrapf(err, "invalid --%s", name)
				}
			}

			if flags.timeout <= 0 {
				return errors.Errorf("invalid --timeout: %s", flags.timeout)
			}

			if flags.output != outputBase64 && flags.output != outputJSON {
				return errors.Errorf("invalid --output: %s (use base64|json)", flags.output)
			}

			logrus.SetOutput(cmd.ErrOrStderr())
			if flags.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.cluster, "cluster", "", "Cluster whose public RPC endpoint is used: devnet|testnet|mainnet-beta")
	rootCmd.PersistentFlags().StringVar(&flags.rpcEndpoint, "rpc", getenvDefault("ACTIONS_RPC_ENDPOINT", string(solana.EnvironmentProd)), "Solana JSON-RPC endpoint")
	rootCmd.PersistentFlags().StringVar(&flags.jupiterBaseUrl, "jupiter", getenvDefault("ACTIONS_JUPITER_BASE_URL", jupiter.DefaultApiBaseUrl), "Jupiter swap API base URL")
	rootCmd.PersistentFlags().StringVar(&flags.heliusEndpoint, "helius", os.Getenv("ACTIONS_HELIUS_ENDPOINT"), "Helius RPC endpoint used for token metadata")
	rootCmd.PersistentFlags().BoolVar(&flags.setBlockhash, "set-blockhash", false, "Fill in a recent blockhash")
	rootCmd.PersistentFlags().BoolVar(&flags.lookupTables, "lookup-tables", true, "Allow v0 transactions with address lookup tables")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 15*time.Second, "Timeout for each network call")
	rootCmd.PersistentFlags().UintVar(&flags.rpcAttempts, "rpc-attempts", 1, "Attempts for rate limited RPC requests")
	rootCmd.PersistentFlags().Uint8Var(&flags.maxAccounts, "max-accounts", jupiter.DefaultMaxAccounts, "Maximum accounts in a swap route")
	rootCmd.PersistentFlags().Uint32Var(&flags.slippageBps, "slippage-bps", 0, "Swap slippage in basis points, 0 for the API default")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", outputBase64, "Output format: base64|json")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		newStakeCmd(flags, actions.StakeMethodStake),
		newStakeCmd(flags, actions.StakeMethodUnstake),
		newStakeCmd(flags, actions.StakeMethodWithdraw),
		newCreateMultisigCmd(flags),
		newPayCmd(flags),
	)

	return rootCmd
}

func (f *rootFlags) newService() *actions.Service {
	httpClient := &http.Client{Timeout: f.timeout}
	rpcOpts := &jsonrpc.RPCClientOpts{HTTPClient: httpClient}

	client := solana.New(f.rpcEndpoint, solana.WithRPCOptions(rpcOpts), solana.WithAttempts(f.rpcAttempts))

	var assemblerOpts []actions.AssemblerOption
	if f.setBlockhash {
		assemblerOpts = append(assemblerOpts, actions.WithBlockhashSource(client))
	}
	if f.lookupTables {
		assemblerOpts = append(assemblerOpts, actions.WithLookupTables(client))
	}

	opts := []actions.Option{
		actions.WithAssembler(actions.NewAssembler(assemblerOpts...)),
		actions.WithSwapClient(jupiter.NewClient(f.jupiterBaseUrl, jupiter.WithHTTPClient(httpClient))),
		actions.WithMaxAccounts(f.maxAccounts),
		actions.WithSlippageBps(f.slippageBps),
	}
	if len(f.heliusEndpoint) > 0 {
		opts = append(opts, actions.WithTokenInfo(helius.NewWithRPCOptions(f.heliusEndpoint, rpcOpts)))
	}

	return actions.NewService(client, opts...)
}

type jsonOutput struct {
	Transaction  string `json:"transaction"`
	Message      string `json:"message"`
	Instructions int    `json:"instructions"`
	Size         int    `json:"size"`
}

func (f *rootFlags) print(w io.Writer, txn *actions.UnsignedTransaction) error {
	switch f.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			Transaction:  txn.Base64(),
			Message:      txn.Message,
			Instructions: len(txn.Instructions),
			Size:         len(txn.Transaction.Marshal()),
		})
	default:
		_, err := fmt.Fprintln(w, txn.Base64())
		return err
	}
}

func getenvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && len(value) > 0 {
		return value
	}
	return defaultValue
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if field := actions.FieldOf(err); len(field) > 0 {
			fmt.Fprintln(os.Stderr, "field:", field)
		}
		os.Exit(1)
	}
}
