package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/preview"
)

var previewMaxChars int

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Extract a link preview for drafting post copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p, err := preview.NewFetcher().Preview(ctx, args[0], previewMaxChars)
		if err != nil {
			return err
		}
		if p.Title != "" {
			fmt.Printf("Title:   %s\n", p.Title)
		}
		if p.SiteName != "" {
			fmt.Printf("Site:    %s\n", p.SiteName)
		}
		fmt.Printf("URL:     %s\n", p.FinalURL)
		fmt.Println()
		fmt.Println(p.Excerpt)
		if p.Truncated {
			fmt.Println("…")
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewMaxChars, "max-chars", 500, "Maximum excerpt length")
}
