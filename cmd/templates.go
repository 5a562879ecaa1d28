package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage post templates",
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}

func templatesLoader() (*templates.Loader, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return templates.NewLoader(config.ExpandHome(cfg.TemplatesDir)), nil
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List post templates",
	RunE: func(_ *cobra.Command, _ []string) error {
		loader, err := templatesLoader()
		if err != nil {
			return err
		}
		infos := loader.List()
		if len(infos) == 0 {
			fmt.Println("No templates.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%-20s %s\n", info.Name, info.Description)
		}
		return nil
	},
}

var templatesVars []string

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Render a template with --var key=value substitutions",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		loader, err := templatesLoader()
		if err != nil {
			return err
		}
		t, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		vars := make(map[string]string)
		for _, kv := range templatesVars {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --var %q, expected key=value", kv)
			}
			vars[k] = v
		}

		if t.Description != "" {
			fmt.Printf("# %s\n\n", t.Description)
		}
		fmt.Println(t.Render(vars))
		if t.Link != "" {
			fmt.Printf("\nLink: %s\n", t.Link)
		}
		if t.ImageURL != "" {
			fmt.Printf("Image: %s\n", t.ImageURL)
		}
		return nil
	},
}

func init() {
	templatesShowCmd.Flags().StringArrayVar(&templatesVars, "var", nil, "Template variable key=value (repeatable)")
}
