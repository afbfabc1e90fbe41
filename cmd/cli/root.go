package main

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the command tree. Flags can also be set through
// FINLEDGER_* environment variables, e.g. FINLEDGER_URL.
func newRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FINLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "finledger",
		Short:         "finledger CLI tool",
		Long:          `A command line interface for operating a finledger API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.String("url", "http://localhost:8080", "Base URL of the finledger API")
	flags.String("owner", "", "Owner ID sent as X-Owner-ID (server default when empty)")
	flags.Duration("timeout", 10*time.Second, "Request timeout")
	_ = v.BindPFlag("url", flags.Lookup("url"))
	_ = v.BindPFlag("owner", flags.Lookup("owner"))
	_ = v.BindPFlag("timeout", flags.Lookup("timeout"))

	client := func() *apiClient {
		return newAPIClient(v.GetString("url"), v.GetString("owner"), v.GetDuration("timeout"))
	}

	rootCmd.AddCommand(accountsCmd(client))
	rootCmd.AddCommand(categoriesCmd(client))
	rootCmd.AddCommand(dashboardCmd(client))
	rootCmd.AddCommand(reconcileCmd(client))
	rootCmd.AddCommand(migrateCmd(v))

	return rootCmd
}
