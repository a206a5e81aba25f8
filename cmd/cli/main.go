package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/auth"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/usecase"
)

type options struct {
	baseURL string
	timeout time.Duration
	token   string
	owner   string
	role    string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cashbook-cli",
		Short:         "Cashbook CLI tool",
		Long:          `A command line interface for operating the cashbook ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the cashbook API")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Request timeout")
	flags.StringVar(&opts.token, "token", os.Getenv("CASHBOOK_TOKEN"), "Bearer token")
	flags.StringVar(&opts.owner, "owner", "", "Owner id sent as X-Owner-ID when no token is given")
	flags.StringVar(&opts.role, "role", string(domain.RoleAdmin), "Role sent as X-Role when no token is given")

	rootCmd.AddCommand(
		recalculateCmd(opts),
		reconcileCmd(opts),
		refreshOverdueCmd(opts),
		balanceCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)
	return rootCmd
}

func recalculateCmd(opts *options) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Replay every ledger of the owner and repair stored balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if accountID != "" {
				var result usecase.LedgerRecalculation
				path := "/api/v1/admin/accounts/" + accountID + "/recalculate"
				if err := opts.call(cmd.Context(), http.MethodPost, path, &result); err != nil {
					return err
				}
				printJSON(cmd.OutOrStdout(), result)
				return nil
			}

			var report usecase.RecalculationReport
			if err := opts.call(cmd.Context(), http.MethodPost, "/api/v1/admin/recalculate", &report); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), report)
			if len(report.Skipped) > 0 || report.Interrupted {
				return fmt.Errorf("recalculation incomplete: %d ledgers skipped, interrupted=%v",
					len(report.Skipped), report.Interrupted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Replay only this account")
	return cmd
}

func refreshOverdueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-overdue",
		Short: "Mark pending invoices past their due date as overdue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp dto.OverdueRefreshResponse
			if err := opts.call(cmd.Context(), http.MethodPost, "/api/v1/admin/invoices/refresh-overdue", &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d invoices marked overdue\n", resp.Updated)
			return nil
		},
	}
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored balances with a replay without writing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var results []dto.ReconciliationResponse
			if err := opts.call(cmd.Context(), http.MethodGet, "/api/v1/admin/reconcile", &results); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			drifted := 0
			for _, r := range results {
				status := "ok"
				if !r.IsReconciled {
					status = "DRIFT"
					drifted++
				}
				fmt.Fprintf(out, "%-28s %-6s recorded=%s calculated=%s stale=%d\n",
					truncate(r.AccountID, 28), status, r.RecordedBalance, r.CalculatedBalance, r.StaleSnapshots)
			}
			if drifted > 0 {
				return fmt.Errorf("%d of %d accounts drifted", drifted, len(results))
			}
			return nil
		},
	}
}

func balanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's current balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := opts.call(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+args[0], &account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", account.Name, account.CurrentBalance, account.Currency)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var scope domain.Scope
	var role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			scope.Role = domain.Role(role)
			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration).Generate(scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope.OwnerID, "owner", "", "Owner id")
	cmd.Flags().StringVar(&scope.ActorID, "actor", "", "Actor id, defaults to the owner")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "Role: admin, member or viewer")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply pending migrations or roll back the last one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}
			if path == "" {
				path = cfg.MigrationsPath
			}

			log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, cmd.ErrOrStderr())
			if args[0] == "down" {
				return postgres.RunMigrationsDown(databaseURL, path, log)
			}
			return postgres.RunMigrations(databaseURL, path, log)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL, defaults to DATABASE_URL")
	cmd.Flags().StringVar(&path, "path", "", "Migrations directory, defaults to MIGRATIONS_PATH")
	return cmd
}

func (o *options) call(ctx context.Context, method, path string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(o.baseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	} else {
		req.Header.Set(middleware.OwnerIDHeader, o.owner)
		req.Header.Set(middleware.RoleHeader, o.role)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s %s (status %d)", method, path, apiErr.Error, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(string(bytes.TrimSpace(body)), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to encode output: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
