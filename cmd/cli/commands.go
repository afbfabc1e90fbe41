package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/infrastructure/postgres"
)

// errInconsistent makes `reconcile` exit non-zero when balances drifted.
var errInconsistent = errors.New("ledger is inconsistent")

func accountsCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts and balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			var accounts []dto.AccountResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/accounts", &accounts); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBALANCE")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, truncate(a.Name, 40), a.Balance.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func categoriesCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var categories []dto.CategoryResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/categories", &categories); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Color)
			}
			return w.Flush()
		},
	}
}

func dashboardCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show total balance, recent transactions and monthly totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var d dto.DashboardResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/dashboard", &d); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance: %s\n\n", d.Balance.StringFixed(2))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tAMOUNT\tCATEGORY\tACCOUNT\tNOTE")
			for _, t := range d.RecentTransactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.Date.Format("2006-01-02"), t.Amount.StringFixed(2), t.Category, t.AccountName, truncate(t.Description, 30))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSE\tNET")
			for _, m := range d.MonthlySummary {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Net.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func reconcileCmd(client func() *apiClient) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored balances with the ledger",
		Long: `Recompute every account balance from its transactions and compare it
with the stored value. With --repair, drifted balances are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			method, path := http.MethodGet, "/api/reconciliation"
			if repair {
				method, path = http.MethodPost, "/api/reconciliation/repair"
			}

			var report dto.ReconciliationResponse
			if err := client().do(cmd.Context(), method, path, &report); err != nil {
				return err
			}

			printReconciliation(cmd.OutOrStdout(), &report)

			if !report.Consistent {
				return fmt.Errorf("%w: %d of %d accounts drifted",
					errInconsistent, report.TotalAccounts-report.ReconciledAccounts, report.TotalAccounts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "Overwrite drifted balances with the ledger sums")

	return cmd
}

func printReconciliation(out io.Writer, r *dto.ReconciliationResponse) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tRECORDED\tCALCULATED\tDIFFERENCE\tOK")
	for _, a := range r.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			a.AccountID, a.RecordedBalance.StringFixed(2), a.CalculatedBalance.StringFixed(2), a.Difference.StringFixed(2), a.Reconciled)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n%d/%d accounts reconciled", r.ReconciledAccounts, r.TotalAccounts)
	if r.Repaired > 0 {
		fmt.Fprintf(out, ", %d repaired", r.Repaired)
	}
	fmt.Fprintln(out)
}

func migrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (FINLEDGER_DATABASE_URL)")
	_ = v.BindPFlag("database-url", cmd.PersistentFlags().Lookup("database-url"))

	databaseURL := func() (string, error) {
		url := v.GetString("database-url")
		if url == "" {
			return "", errors.New("database URL is required")
		}
		return url, nil
	}

	log := func(cmd *cobra.Command) zerolog.Logger {
		return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(url, log(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(url, log(cmd))
		},
	})

	return cmd
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
