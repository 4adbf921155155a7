package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dogdiet/internal/adapter/console"
	adapthttp "dogdiet/internal/adapter/http"
	"dogdiet/internal/adapter/memory"
	"dogdiet/internal/adapter/telegram"
	"dogdiet/internal/adapter/xlsx"
	"dogdiet/internal/app"
	"dogdiet/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
)

func runInteractive(cmd *cobra.Command, opts *options) error {
	cfg, _, err := opts.load(cmd)
	if err != nil {
		return err
	}
	intake := app.NewIntakeService(memory.New(), app.NewDietService(nil), nil, cfg.Intake.DraftTTL)
	_, err = console.NewSession(intake, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	return err
}

func planCmd(opts *options) *cobra.Command {
	var (
		req      app.PlanRequest
		asJSON   bool
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Calculate a diet plan from flags",
		Example: `  dogdiet plan --current 30 --goal 25 --food 3 --density 350
  dogdiet plan --current 66 --goal 55 --unit lbs --activity high --food 3 --density 350 --xlsx plan.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.load(cmd); err != nil {
				return err
			}
			res, err := app.NewDietService(nil).Calculate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if xlsxPath != "" {
				if err := writeWorkbook(xlsxPath, res); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", xlsxPath)
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return app.RenderReport(out, res)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.CurrentWeight, "current", 0, "Current weight")
	f.Float64Var(&req.GoalWeight, "goal", 0, "Goal weight")
	f.StringVar(&req.Unit, "unit", "kg", "Weight unit (kg or lbs)")
	f.StringVar(&req.Activity, "activity", "moderate", "Activity level (low, moderate, high or 1-3)")
	f.Float64Var(&req.CurrentFoodCups, "food", 0, "Food currently fed per day, in cups")
	f.Float64Var(&req.CaloriesPerCup, "density", 0, "Caloric density of the food, in calories per cup")
	f.BoolVar(&asJSON, "json", false, "Print the result as JSON")
	f.StringVar(&xlsxPath, "xlsx", "", "Also write the plan to this .xlsx file")
	for _, name := range []string{"current", "goal", "food", "density"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func writeWorkbook(path string, res *app.DietResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return xlsx.WritePlan(f, res)
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var verifier app.IDTokenVerifier
			if cfg.Auth.OIDCIssuer != "" {
				provider, err := oidc.NewProvider(ctx, cfg.Auth.OIDCIssuer)
				if err != nil {
					return fmt.Errorf("oidc provider: %w", err)
				}
				verifier = provider.Verifier(&oidc.Config{ClientID: cfg.Auth.OIDCClientID})
			}
			authSvc := app.NewAuthService(cfg.Auth.TokenHash, verifier)
			if !authSvc.Enabled() {
				logger.Warn("API authentication is disabled")
			}

			var (
				m   *metrics.Metrics
				rec app.Recorder
			)
			if cfg.Server.MetricsEnabled {
				m = metrics.New()
				rec = m
			}

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      adapthttp.New(app.NewDietService(rec), authSvc, m, logger).Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", slog.String("addr", cfg.Server.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func botCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cfg.Telegram.BotToken == "" {
				return errors.New("telegram bot token is required (TELEGRAM_BOT_TOKEN or telegram.bot_token)")
			}
			api, err := telegram.NewAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			logger.Info("authorized on telegram", slog.String("account", api.Self.UserName))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			intake := app.NewIntakeService(memory.New(), app.NewDietService(nil), nil, cfg.Intake.DraftTTL)
			telegram.New(api, intake, logger).Start(ctx, cfg.Telegram.PollTimeout, cfg.Telegram.SweepInterval)
			return nil
		},
	}
}

func hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash of an API token for auth.token_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := app.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
