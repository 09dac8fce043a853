package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/laliga-scout/internal/app"
	"github.com/riskibarqy/laliga-scout/internal/config"
	"github.com/riskibarqy/laliga-scout/internal/domain/playerstats"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")

	logger := logging.NewConsole(logging.LevelInfo)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error("cache warm failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

type runner func(ctx context.Context, services app.Services, out io.Writer, args []string) error

func newRootCmd(logger *logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "cachewarm",
		Short:         "Prefill the document cache through the regular lookups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var workers int

	root.AddCommand(
		&cobra.Command{
			Use:   "team <team_name>",
			Short: "Search league clubs by name",
			Args:  cobra.ExactArgs(1),
			RunE: withServices(logger, func(ctx context.Context, s app.Services, out io.Writer, args []string) error {
				clubs, err := s.Clubs.SearchClubs(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(out, clubs)
			}),
		},
		&cobra.Command{
			Use:   "squad <team_id> <season_year>",
			Short: "Load the squad of a club for one season",
			Args:  cobra.ExactArgs(2),
			RunE: withServices(logger, func(ctx context.Context, s app.Services, out io.Writer, args []string) error {
				squad, err := s.Squads.GetSquad(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(out, squad)
			}),
		},
		&cobra.Command{
			Use:   "player <player_id> <team_id> <season_year>",
			Short: "Aggregate the league career of one player",
			Args:  cobra.ExactArgs(3),
			RunE: withServices(logger, func(ctx context.Context, s app.Services, out io.Writer, args []string) error {
				record, err := s.Careers.GetCareer(ctx, playerstats.CareerQuery{
					PlayerID:   args[0],
					TeamID:     args[1],
					SeasonYear: args[2],
				})
				if err != nil {
					return err
				}
				return printJSON(out, record)
			}),
		},
	)

	squadCareers := &cobra.Command{
		Use:   "squad-careers <team_id> <season_year>",
		Short: "Aggregate the career of every player in a squad",
		Args:  cobra.ExactArgs(2),
		RunE: withServices(logger, func(ctx context.Context, s app.Services, out io.Writer, args []string) error {
			result, err := s.Warmer.WarmSquadCareers(ctx, args[0], args[1], workers)
			if err != nil {
				return err
			}
			return printJSON(out, result)
		}),
	}

	history := &cobra.Command{
		Use:   "history <player_id>[,<player_id>...] ...",
		Short: "Load market value histories for the given players",
		Args:  cobra.MinimumNArgs(1),
		RunE: withServices(logger, func(ctx context.Context, s app.Services, out io.Writer, args []string) error {
			result, err := s.Warmer.WarmMarketHistories(ctx, splitIDs(args), workers)
			if err != nil {
				return err
			}
			return printJSON(out, result)
		}),
	}

	for _, cmd := range []*cobra.Command{squadCareers, history} {
		cmd.Flags().IntVarP(&workers, "workers", "w", 2, "number of players processed concurrently")
		root.AddCommand(cmd)
	}

	return root
}

func withServices(logger *logging.Logger, fn runner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx := cmd.Context()
		services, cleanup, err := app.NewServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		return fn(ctx, services, cmd.OutOrStdout(), args)
	}
}

func printJSON(out io.Writer, value any) error {
	encoder := sonic.ConfigStd.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func splitIDs(args []string) []string {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
	}
	return ids
}
