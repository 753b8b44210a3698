// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/config"
	"github.com/bureau-foundation/workgraph/lib/query"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

func actorCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "actor",
		Summary: "Manage actors (humans and agents)",
		Subcommands: []*cli.Command{
			actorAddCommand(e),
			actorListCommand(e),
		},
	}
}

type actorAddParams struct {
	workgraphParams
	Name         string   `flag:"name" desc:"display name"`
	Role         string   `flag:"role" desc:"role (e.g. implementer, reviewer)"`
	Rate         float64  `flag:"rate" desc:"cost per hour"`
	Capacity     float64  `flag:"capacity" desc:"hours available"`
	Capabilities []string `flag:"capability,c" desc:"capabilities (repeatable, comma separated)"`
	ContextLimit int      `flag:"context-limit" desc:"context window size in tokens"`
	Trust        string   `flag:"trust" desc:"trust level: verified, provisional, or unknown" default:"provisional"`
}

func actorAddCommand(e *env) *cli.Command {
	var params actorAddParams

	command := &cli.Command{
		Name:    "add",
		Summary: "Register an actor",
		Usage:   "wg actor add <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register an agent",
				Command:     "wg actor add claude-1 --name 'Claude' --role implementer -c rust,go --trust verified",
			},
		},
		Params: func() any { return &params },
	}

	command.Run = func(_ context.Context, args []string, logger *slog.Logger) error {
		if err := requireArgs(args, 1, "wg actor add <id> [flags]"); err != nil {
			return err
		}
		trust, err := workgraph.ParseTrustLevel(params.Trust)
		if err != nil {
			return err
		}
		id := args[0]
		actor := workgraph.NewActor(id)
		actor.Name = params.Name
		actor.Role = params.Role
		actor.Capabilities = dedupe(params.Capabilities)
		actor.TrustLevel = trust

		flagSet := command.FlagSet()
		if flagSet.Changed("rate") {
			rate := params.Rate
			actor.Rate = &rate
		}
		if flagSet.Changed("capacity") {
			capacity := params.Capacity
			actor.Capacity = &capacity
		}
		if flagSet.Changed("context-limit") {
			limit := params.ContextLimit
			actor.ContextLimit = &limit
		}

		if err := params.update(e, func(graph *workgraph.Graph) error {
			return graph.Add(actor)
		}); err != nil {
			return err
		}
		logger.Info("actor added", "actor", id)
		fmt.Fprintf(e.stdout, "Added actor: %s (%s)\n", actor.DisplayName(), id)
		if len(actor.Capabilities) > 0 {
			fmt.Fprintf(e.stdout, "  Capabilities: %s\n", strings.Join(actor.Capabilities, ", "))
		}
		return nil
	}
	return command
}

type actorListParams struct {
	workgraphParams
	cli.JSONOutput
}

func actorListCommand(e *env) *cli.Command {
	var params actorListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List actors",
		Usage:   "wg actor list [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg actor list [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			actors := graph.Actors()
			if done, err := params.EmitJSON(e.stdout, actors); done {
				return err
			}

			if len(actors) == 0 {
				fmt.Fprintln(e.stdout, "No actors found")
				return nil
			}
			for _, actor := range actors {
				role := ""
				if actor.Role != "" {
					role = fmt.Sprintf(" (%s)", actor.Role)
				}
				capabilities := ""
				if len(actor.Capabilities) > 0 {
					capabilities = fmt.Sprintf(" [%s]", strings.Join(actor.Capabilities, ", "))
				}
				fmt.Fprintf(e.stdout, "%s - %s%s%s\n", actor.ID, actor.DisplayName(), role, capabilities)
			}
			return nil
		},
	}
}

func resourceCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "resource",
		Summary: "Manage resources tasks consume",
		Subcommands: []*cli.Command{
			resourceAddCommand(e),
			resourceListCommand(e),
		},
	}
}

type resourceAddParams struct {
	workgraphParams
	Name      string   `flag:"name" desc:"display name"`
	Type      string   `flag:"type" desc:"resource type (e.g. money, compute)"`
	Available float64  `flag:"available" desc:"amount available"`
	Unit      string   `flag:"unit" desc:"unit of the available amount"`
	Metadata  []string `flag:"meta" desc:"key=value metadata (repeatable)" repeat:"true"`
}

func resourceAddCommand(e *env) *cli.Command {
	var params resourceAddParams

	command := &cli.Command{
		Name:    "add",
		Summary: "Register a resource",
		Usage:   "wg resource add <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a compute budget",
				Command:     "wg resource add gpu-hours --type compute --available 40 --unit hours --meta pool=a100",
			},
		},
		Params: func() any { return &params },
	}

	command.Run = func(_ context.Context, args []string, logger *slog.Logger) error {
		if err := requireArgs(args, 1, "wg resource add <id> [flags]"); err != nil {
			return err
		}
		id := args[0]
		resource := &workgraph.Resource{
			ID:   id,
			Name: params.Name,
			Type: params.Type,
			Unit: params.Unit,
		}
		if command.FlagSet().Changed("available") {
			available := params.Available
			resource.Available = &available
		}
		for _, pair := range params.Metadata {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return fmt.Errorf("--meta %q: expected key=value", pair)
			}
			if resource.Metadata == nil {
				resource.Metadata = make(map[string]string)
			}
			resource.Metadata[key] = value
		}

		if err := params.update(e, func(graph *workgraph.Graph) error {
			return graph.Add(resource)
		}); err != nil {
			return err
		}
		logger.Info("resource added", "resource", id)
		fmt.Fprintf(e.stdout, "Added resource: %s (%s)\n", resource.DisplayName(), id)
		return nil
	}
	return command
}

type resourceListParams struct {
	workgraphParams
	cli.JSONOutput
}

func resourceListCommand(e *env) *cli.Command {
	var params resourceListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List resources",
		Usage:   "wg resource list [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg resource list [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			resources := graph.Resources()
			if done, err := params.EmitJSON(e.stdout, resources); done {
				return err
			}

			if len(resources) == 0 {
				fmt.Fprintln(e.stdout, "No resources found")
				return nil
			}
			for _, resource := range resources {
				detail := ""
				if resource.Available != nil {
					detail = fmt.Sprintf(" [%g %s]", *resource.Available, resource.Unit)
				}
				fmt.Fprintf(e.stdout, "%s - %s%s\n", resource.ID, resource.DisplayName(), detail)
			}
			return nil
		},
	}
}

type heartbeatParams struct {
	workgraphParams
	cli.JSONOutput
	Check     bool `flag:"check" desc:"report stale actors instead of recording a heartbeat"`
	Threshold int  `flag:"threshold" desc:"minutes of silence before an actor is stale (default: config heartbeat_timeout)"`
}

// heartbeatReport is the --check --json document.
type heartbeatReport struct {
	ThresholdMinutes int              `json:"threshold_minutes"`
	Stale            []heartbeatEntry `json:"stale"`
	Active           []heartbeatEntry `json:"active"`
}

type heartbeatEntry struct {
	ID       string `json:"id"`
	LastSeen string `json:"last_seen"`

	// MinutesAgo is -1 when last_seen is missing or unreadable.
	MinutesAgo int `json:"minutes_ago"`
}

func heartbeatCommand(e *env) *cli.Command {
	var params heartbeatParams

	return &cli.Command{
		Name:    "heartbeat",
		Summary: "Record or check actor liveness",
		Description: `With an actor id, record that the actor is alive by setting last_seen
to now.

With --check, classify every actor as active or stale. An actor is stale
when its last heartbeat is older than the threshold or when it has never
sent one. The command exits 1 when any actor is stale.`,
		Usage: "wg heartbeat <actor-id> | wg heartbeat --check [--threshold <minutes>]",
		Examples: []cli.Example{
			{
				Description: "Record a heartbeat",
				Command:     "wg heartbeat claude-1",
			},
			{
				Description: "Find agents silent for more than ten minutes",
				Command:     "wg heartbeat --check --threshold 10",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if params.Check {
				if err := requireArgs(args, 0, "wg heartbeat --check [flags]"); err != nil {
					return err
				}
				return runHeartbeatCheck(e, &params, logger)
			}
			if err := requireArgs(args, 1, "wg heartbeat <actor-id> [flags]"); err != nil {
				return err
			}
			actorID := args[0]
			var seen string
			if err := params.update(e, func(graph *workgraph.Graph) error {
				var err error
				seen, err = graph.Heartbeat(actorID, e.clock.Now())
				return err
			}); err != nil {
				return err
			}
			logger.Debug("heartbeat recorded", "actor", actorID)
			fmt.Fprintf(e.stdout, "Heartbeat recorded for '%s' at %s\n", actorID, seen)
			return nil
		},
	}
}

func runHeartbeatCheck(e *env, params *heartbeatParams, logger *slog.Logger) error {
	graph, directory, err := params.load(e)
	if err != nil {
		return err
	}
	if params.Threshold < 0 {
		return fmt.Errorf("--threshold must be positive, got %d", params.Threshold)
	}
	threshold := time.Duration(params.Threshold) * time.Minute
	if threshold == 0 {
		cfg, err := config.LoadDir(directory)
		if err != nil {
			return err
		}
		threshold = cfg.HeartbeatThreshold()
	}
	minutes := int(threshold / time.Minute)

	report := heartbeatReport{ThresholdMinutes: minutes, Stale: []heartbeatEntry{}, Active: []heartbeatEntry{}}
	for _, liveness := range query.Liveness(graph, e.clock.Now(), threshold) {
		entry := heartbeatEntry{ID: liveness.ActorID, LastSeen: liveness.LastSeen, MinutesAgo: -1}
		if liveness.LastSeen == "" {
			entry.LastSeen = "never"
		} else if liveness.Elapsed != 0 || !liveness.Stale {
			entry.MinutesAgo = int(liveness.Elapsed / time.Minute)
		}
		if liveness.Stale {
			report.Stale = append(report.Stale, entry)
		} else {
			report.Active = append(report.Active, entry)
		}
	}

	if done, err := params.EmitJSON(e.stdout, report); done {
		if err != nil {
			return err
		}
		return staleExit(report, logger)
	}

	fmt.Fprintf(e.stdout, "Heartbeat status (threshold: %d minutes):\n", minutes)
	if len(report.Active) > 0 {
		fmt.Fprintln(e.stdout, "\nActive actors:")
		for _, entry := range report.Active {
			fmt.Fprintf(e.stdout, "  %s (seen %d min ago)\n", entry.ID, entry.MinutesAgo)
		}
	}
	if len(report.Stale) > 0 {
		fmt.Fprintln(e.stdout, "\nStale actors (may be dead):")
		for _, entry := range report.Stale {
			switch {
			case entry.LastSeen == "never":
				fmt.Fprintf(e.stdout, "  %s (never seen)\n", entry.ID)
			case entry.MinutesAgo < 0:
				fmt.Fprintf(e.stdout, "  %s (unreadable last_seen: %s)\n", entry.ID, entry.LastSeen)
			default:
				fmt.Fprintf(e.stdout, "  %s (last seen %d min ago: %s)\n", entry.ID, entry.MinutesAgo, entry.LastSeen)
			}
		}
	}
	if len(report.Active) == 0 && len(report.Stale) == 0 {
		fmt.Fprintln(e.stdout, "\nNo actors registered.")
	}
	return staleExit(report, logger)
}

func staleExit(report heartbeatReport, logger *slog.Logger) error {
	if len(report.Stale) == 0 {
		return nil
	}
	logger.Warn("stale actors", "count", len(report.Stale))
	return &cli.ExitError{Code: 1}
}
