package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/config"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dashboard",
		Usage: "robot combat tournament scoring dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"ROBOWARS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before the config",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			resetCommand(),
			statusCommand(),
			submitCommand(),
			addMatchCommand(),
			removeMatchCommand(),
			matchStatusCommand(),
			advanceMatchCommand(),
			beginMatchCommand(),
			endMatchCommand(),
			advanceRoundCommand(),
			setRoundCommand(),
			byeCommand(),
			proceedCommand(),
			addTeamCommand(),
			removeTeamCommand(),
		},
	}
}

// setup loads the config and builds the instance
func setup(c *cli.Context) (*instance, error) {
	if err := config.LoadEnvFile(c.String("env-file")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return newInstance(cfg, l)
}

func closeInstance(inst *instance) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := inst.Close(ctx); err != nil {
		inst.logger.Error("shutdown failed", "error", err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "restore the tournament, join the sync channel and serve metrics until interrupted",
		Action: func(c *cli.Context) error {
			inst, err := setup(c)
			if err != nil {
				return err
			}
			defer closeInstance(inst)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return inst.run(ctx)
		},
	}
}

// run restores, subscribes and blocks until ctx is done
func (i *instance) run(ctx context.Context) error {
	restored, err := i.sync.Restore(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore tournament: %w", err)
	}
	i.logger.Info("tournament restored",
		"teams", len(restored.State.Teams),
		"matches", len(restored.State.Matches),
		"round", restored.State.CurrentRound,
		"defaulted", restored.Defaulted,
	)

	if err := i.sync.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}

	var srv *http.Server
	if i.cfg.Metrics.Addr != "" {
		srv = i.metricsServer()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				i.logger.Error("metrics server stopped", "error", err)
			}
		}()
		i.logger.Info("serving metrics", "addr", i.cfg.Metrics.Addr)
	}

	i.logger.Info("dashboard instance running", "sender_id", i.sync.SenderID())
	<-ctx.Done()
	i.logger.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			i.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	return nil
}

func (i *instance) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(i.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              i.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "reset the tournament to its initial state, persist it and broadcast it",
		Action: func(c *cli.Context) error {
			inst, err := setup(c)
			if err != nil {
				return err
			}
			defer closeInstance(inst)

			if _, err := inst.store.ResetAll(c.Context, &tournament.ResetAllInput{}); err != nil {
				return fmt.Errorf("failed to reset tournament: %w", err)
			}

			fmt.Fprintln(c.App.Writer, "tournament reset")
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "print the persisted standings and running order",
		Action: func(c *cli.Context) error {
			inst, err := setup(c)
			if err != nil {
				return err
			}
			defer closeInstance(inst)

			if _, err := inst.sync.Restore(c.Context); err != nil {
				return fmt.Errorf("failed to restore tournament: %w", err)
			}

			return inst.printStatus(c.Context, c.App.Writer)
		},
	}
}

func (i *instance) printStatus(ctx context.Context, w io.Writer) error {
	state, err := i.store.GetState(ctx, &tournament.GetStateInput{})
	if err != nil {
		return err
	}

	board, err := i.store.GetLeaderboard(ctx, &tournament.GetLeaderboardInput{})
	if err != nil {
		return err
	}

	round, err := i.store.GetRoundLeaderboard(ctx, &tournament.GetRoundLeaderboardInput{})
	if err != nil {
		return err
	}

	lineup, err := i.store.GetMatchLineup(ctx, &tournament.GetMatchLineupInput{
		Round: state.State.CurrentRound,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Round: %s\n\n", state.State.CurrentRound)

	fmt.Fprintln(w, "Leaderboard")
	for _, entry := range board.Leaderboard.Entries {
		tie := ""
		if entry.Tied {
			tie = " (tie)"
		}
		status := "active"
		if !state.State.IsActive(entry.Team.ID) {
			status = "eliminated"
		}
		fmt.Fprintf(w, "%3d. %-16s %7.1f  dmg %.1f  aggr %.1f  ctrl %.1f  %s%s\n",
			entry.Rank, entry.Team.Name, entry.Team.Total,
			entry.Team.DamageTotal, entry.Team.AggrTotal, entry.Team.CtrlTotal,
			status, tie)
	}

	fmt.Fprintf(w, "\nRound results (%d matches)\n", round.Leaderboard.MatchCount)
	for _, r := range round.Leaderboard.Winners {
		fmt.Fprintf(w, "  W %-4s %s %.1f\n", r.MatchID, teamName(state.State, r.TeamID), r.Score)
	}
	for _, r := range round.Leaderboard.Losers {
		fmt.Fprintf(w, "  L %-4s %s %.1f\n", r.MatchID, teamName(state.State, r.TeamID), r.Score)
	}

	fmt.Fprintln(w, "\nMatches")
	printMatch(w, "live", lineup.Lineup.Live)
	printMatch(w, "next", lineup.Lineup.Next)
	for _, m := range lineup.Lineup.Upcoming {
		printMatch(w, "upcoming", m)
	}
	for _, m := range lineup.Lineup.Completed {
		printMatch(w, "done", m)
	}

	return nil
}

func printMatch(w io.Writer, label string, m *models.Match) {
	if m == nil {
		return
	}
	fmt.Fprintf(w, "  %-8s %-4s %s vs %s\n", label, m.ID, m.TeamA, m.TeamB)
}

func teamName(state *models.Tournament, id int) string {
	if team, ok := state.FindTeam(id); ok {
		return team.Name
	}
	return fmt.Sprintf("team %d", id)
}
