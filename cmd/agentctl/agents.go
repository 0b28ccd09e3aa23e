package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/service"
	"sumii-mobile-api/pkg/mistral"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

var initAgentsCommand = &cli.Command{
	Name:  "init-agents",
	Usage: "Create the router, intake, reasoning and summary agents and wire their handoffs",
	Action: func(c *cli.Context) error {
		cfg := config.Load()
		client, err := mistralClient(c, cfg)
		if err != nil {
			return err
		}
		catalog, err := mistral.LoadCatalog()
		if err != nil {
			return fmt.Errorf("load agent catalog: %w", err)
		}

		var rdb *redis.Client
		if cfg.App.RedisURL != "" {
			if opt, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
				rdb = redis.NewClient(opt)
				defer rdb.Close()
			} else {
				warn.Printf("! ignoring REDIS_URL: %v\n", err)
			}
		}

		registry := service.NewAgentRegistry(client, catalog, rdb, cfg.Mistral, logger.NewNopLogger())
		info.Println("Creating agents...")
		ids, err := registry.InitAgents(context.Background())
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(ids))
		for k := range ids {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		success.Printf("✓ %d agents ready\n", len(ids))
		for _, k := range keys {
			fmt.Printf("  %-10s %s\n", k, ids[k])
		}
		fmt.Println()
		info.Println("Add to your .env to pin them:")
		for _, k := range keys {
			fmt.Printf("MISTRAL_%s_AGENT_ID=%s\n", strings.ToUpper(k), ids[k])
		}
		return nil
	},
}

var showAgentsCommand = &cli.Command{
	Name:  "show-agents",
	Usage: "Print the pinned agents and their handoffs as Mistral sees them",
	Action: func(c *cli.Context) error {
		cfg := config.Load()
		client, err := mistralClient(c, cfg)
		if err != nil {
			return err
		}
		if len(cfg.Mistral.Agents) == 0 {
			warn.Println("! no MISTRAL_*_AGENT_ID set, run init-agents first")
			return nil
		}

		keys := make([]string, 0, len(cfg.Mistral.Agents))
		for k := range cfg.Mistral.Agents {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			agent, err := client.GetAgent(c.Context, cfg.Mistral.Agents[k])
			if err != nil {
				failure.Printf("✗ %-10s %s: %v\n", k, cfg.Mistral.Agents[k], err)
				continue
			}
			success.Printf("✓ %-10s %s\n", k, agent.ID)
			fmt.Printf("  name=%s model=%s handoffs=%s\n", agent.Name, agent.Model, strings.Join(agent.Handoffs, ","))
		}
		return nil
	},
}
