package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/scoring"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/urfave/cli/v2"
)

// storeFunc applies one command and describes what it did
type storeFunc func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error)

// storeCommand builds a subcommand that restores the persisted tournament, applies one
// store command and flushes the change to storage and the sync channel on close
func storeCommand(name, usage string, flags []cli.Flag, run storeFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: func(c *cli.Context) error {
			inst, err := setup(c)
			if err != nil {
				return err
			}
			defer closeInstance(inst)

			msg, err := inst.exec(c.Context, func(ctx context.Context, store tournament.Service) (string, error) {
				return run(ctx, c, store)
			})
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			fmt.Fprintln(c.App.Writer, msg)
			return nil
		},
	}
}

// exec runs fn against the restored tournament
func (i *instance) exec(ctx context.Context, fn func(ctx context.Context, store tournament.Service) (string, error)) (string, error) {
	if _, err := i.sync.Restore(ctx); err != nil {
		return "", fmt.Errorf("failed to restore tournament: %w", err)
	}
	return fn(ctx, i.store)
}

func submitCommand() *cli.Command {
	return storeCommand("submit", "add one judged round to a team's totals",
		[]cli.Flag{
			&cli.IntFlag{Name: "team", Usage: "team id", Required: true},
			&cli.StringSliceFlag{Name: "damage", Usage: "damage entry as Type:hits, e.g. Critical:2"},
			&cli.StringSliceFlag{Name: "aggression", Usage: "aggression entry as Type:hits"},
			&cli.StringSliceFlag{Name: "control", Usage: "control entry as Type:hits"},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			input := &tournament.SubmitScoreInput{TeamID: c.Int("team")}

			var err error
			if input.Damage, err = parseEntries(c.StringSlice("damage")); err != nil {
				return "", err
			}
			if input.Aggression, err = parseEntries(c.StringSlice("aggression")); err != nil {
				return "", err
			}
			if input.Control, err = parseEntries(c.StringSlice("control")); err != nil {
				return "", err
			}

			output, err := store.SubmitScore(ctx, input)
			if err != nil {
				return "", err
			}

			team, _ := output.State.FindTeam(input.TeamID)
			return fmt.Sprintf("%s +%.1f (dmg %.1f, aggr %.1f, ctrl %.1f), total %.1f",
				team.Name, output.Submission.Total, output.Submission.Damage,
				output.Submission.Aggression, output.Submission.Control, team.Total), nil
		})
}

// parseEntries reads Type:hits pairs; a bare Type counts one hit
func parseEntries(values []string) ([]scoring.Entry, error) {
	entries := make([]scoring.Entry, 0, len(values))
	for _, v := range values {
		tag, count, ok := strings.Cut(v, ":")
		if !ok {
			count = "1"
		}

		hits, err := strconv.ParseFloat(strings.TrimSpace(count), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid entry %q, want Type:hits", v)
		}

		entries = append(entries, scoring.Entry{Type: strings.TrimSpace(tag), Hits: hits})
	}
	return entries, nil
}

func addMatchCommand() *cli.Command {
	return storeCommand("add-match", "schedule a match between two teams",
		[]cli.Flag{
			&cli.StringFlag{Name: "a", Usage: "first team name", Required: true},
			&cli.StringFlag{Name: "b", Usage: "second team name", Required: true},
			&cli.StringFlag{Name: "round", Usage: "round, defaults to the current round"},
			&cli.StringFlag{Name: "status", Usage: "initial status, defaults to upcoming"},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			output, err := store.AddMatch(ctx, &tournament.AddMatchInput{
				TeamA:  c.String("a"),
				TeamB:  c.String("b"),
				Round:  models.Round(c.String("round")),
				Status: models.MatchStatus(c.String("status")),
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("scheduled %s: %s vs %s (%s)",
				output.Match.ID, output.Match.TeamA, output.Match.TeamB, output.Match.Round), nil
		})
}

func removeMatchCommand() *cli.Command {
	return storeCommand("remove-match", "delete a match",
		[]cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "match id, e.g. m3", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			if _, err := store.RemoveMatch(ctx, &tournament.RemoveMatchInput{MatchID: c.String("id")}); err != nil {
				return "", err
			}
			return "removed " + c.String("id"), nil
		})
}

func matchStatusCommand() *cli.Command {
	return storeCommand("match-status", "overwrite one match's status",
		[]cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "match id", Required: true},
			&cli.StringFlag{Name: "status", Usage: "upcoming, next, live or completed", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			_, err := store.UpdateMatchStatus(ctx, &tournament.UpdateMatchStatusInput{
				MatchID: c.String("id"),
				Status:  models.MatchStatus(c.String("status")),
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s is %s", c.String("id"), c.String("status")), nil
		})
}

func advanceMatchCommand() *cli.Command {
	return storeCommand("advance-match", "complete the live match and move the running order along",
		nil,
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			output, err := store.AdvanceMatchPointer(ctx, &tournament.AdvanceMatchPointerInput{})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("completed %s, live %s, next %s",
				matchLabel(output.Completed), matchLabel(output.Live), matchLabel(output.Next)), nil
		})
}

func matchLabel(m *models.Match) string {
	if m == nil {
		return "-"
	}
	return m.ID
}

func beginMatchCommand() *cli.Command {
	return storeCommand("begin-match", "start judging a match from both teams' current totals",
		[]cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "match id", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			if _, err := store.BeginMatch(ctx, &tournament.BeginMatchInput{MatchID: c.String("id")}); err != nil {
				return "", err
			}
			return "judging " + c.String("id"), nil
		})
}

func endMatchCommand() *cli.Command {
	return storeCommand("end-match", "score a match from the points gained since it began",
		[]cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "match id", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			output, err := store.EndMatch(ctx, &tournament.EndMatchInput{MatchID: c.String("id")})
			if err != nil {
				return "", err
			}

			if output.Tie {
				return fmt.Sprintf("%s tied at %.1f", c.String("id"), output.Winners[0].Score), nil
			}
			winner, loser := output.Winners[0], output.Losers[0]
			return fmt.Sprintf("%s won %s, %.1f to %.1f",
				teamName(output.State, winner.TeamID), c.String("id"), winner.Score, loser.Score), nil
		})
}

func advanceRoundCommand() *cli.Command {
	return storeCommand("advance-round", "build the next round's bracket from a round's results",
		[]cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "round being closed", Required: true},
			&cli.StringFlag{Name: "to", Usage: "round being scheduled", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			output, err := store.AdvanceRound(ctx, &tournament.AdvanceRoundInput{
				From: models.Round(c.String("from")),
				To:   models.Round(c.String("to")),
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s: %d advancing, %d eliminated, %d matches scheduled",
				c.String("to"), len(output.Advancing), len(output.Eliminated), len(output.Matches)), nil
		})
}

func setRoundCommand() *cli.Command {
	return storeCommand("set-round", "set the current round",
		[]cli.Flag{
			&cli.StringFlag{Name: "round", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			if _, err := store.SetRound(ctx, &tournament.SetRoundInput{Round: models.Round(c.String("round"))}); err != nil {
				return "", err
			}
			return "round is " + c.String("round"), nil
		})
}

func byeCommand() *cli.Command {
	return storeCommand("bye", "give one team the bye, or clear it",
		[]cli.Flag{
			&cli.IntFlag{Name: "team", Usage: "team id"},
			&cli.BoolFlag{Name: "clear", Usage: "clear the bye"},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			input := &tournament.SetByeInput{}
			switch {
			case c.Bool("clear"):
			case c.IsSet("team"):
				id := c.Int("team")
				input.TeamID = &id
			default:
				return "", fmt.Errorf("either --team or --clear is required")
			}

			output, err := store.SetBye(ctx, input)
			if err != nil {
				return "", err
			}
			if output.State.ByeTeamID == nil {
				return "bye cleared", nil
			}
			return "bye: " + teamName(output.State, *output.State.ByeTeamID), nil
		})
}

func proceedCommand() *cli.Command {
	return storeCommand("proceed", "show or hide the proceed-to-matches prompt on displays",
		[]cli.Flag{
			&cli.BoolFlag{Name: "hide"},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			show := !c.Bool("hide")
			if _, err := store.SetProceedToMatches(ctx, &tournament.SetProceedToMatchesInput{Show: show}); err != nil {
				return "", err
			}
			return fmt.Sprintf("proceed to matches: %t", show), nil
		})
}

func addTeamCommand() *cli.Command {
	return storeCommand("add-team", "add a team to the tournament",
		[]cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			output, err := store.AddTeam(ctx, &tournament.AddTeamInput{Name: c.String("name")})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("added team %d: %s", output.Team.ID, output.Team.Name), nil
		})
}

func removeTeamCommand() *cli.Command {
	return storeCommand("remove-team", "remove a team from the tournament",
		[]cli.Flag{
			&cli.IntFlag{Name: "team", Usage: "team id", Required: true},
		},
		func(ctx context.Context, c *cli.Context, store tournament.Service) (string, error) {
			if _, err := store.RemoveTeam(ctx, &tournament.RemoveTeamInput{TeamID: c.Int("team")}); err != nil {
				return "", err
			}
			return fmt.Sprintf("removed team %d", c.Int("team")), nil
		})
}
