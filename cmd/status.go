package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/container"
)

var statusLive bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pagepulse status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusLive, "live", false, "Fetch page info from the Graph API")
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Println("pagepulse Status")
	fmt.Println()

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:   %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	tokenMark := "(not set)"
	if cfg.Graph.AccessToken != "" {
		tokenMark = "✓"
	}
	pageMark := "(not set)"
	if cfg.Graph.PageID != "" {
		pageMark = cfg.Graph.PageID
	}
	fmt.Printf("Token:    %s\n", tokenMark)
	fmt.Printf("Page:     %s\n", pageMark)
	fmt.Println()

	fmt.Println("Notify sinks:")
	if cfg.Notify.Slack.Enabled {
		fmt.Printf("  %-10s ✓ %s\n", "slack", cfg.Notify.Slack.Channel)
	} else {
		fmt.Printf("  %-10s (disabled)\n", "slack")
	}
	if cfg.Notify.Telegram.Enabled {
		fmt.Printf("  %-10s ✓ %d\n", "telegram", cfg.Notify.Telegram.ChatID)
	} else {
		fmt.Printf("  %-10s (disabled)\n", "telegram")
	}

	if !statusLive {
		return nil
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	info, err := c.Manager().PageInfo(ctx, "")
	if err != nil {
		return fmt.Errorf("page info: %w", err)
	}
	fmt.Println()
	if obj, ok := info.(map[string]any); ok {
		fmt.Printf("Page name: %v\n", obj["name"])
		if fans, ok := obj["fan_count"]; ok {
			fmt.Printf("Fans:      %v\n", fans)
		}
	}
	return nil
}
