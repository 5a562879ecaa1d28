package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/container"
	"github.com/pagepulse/pagepulse/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled posts",
}

func init() {
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(scheduleEnableCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
}

func scheduleService() (*scheduler.Service, *config.Config, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return scheduler.NewService(config.ExpandHome(cfg.SchedulePath)), cfg, nil
}

// ─── list ───

var scheduleListAll bool

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled posts",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, _, err := scheduleService()
		if err != nil {
			return err
		}
		jobs := svc.ListJobs(scheduleListAll)
		if len(jobs) == 0 {
			fmt.Println("No scheduled posts.")
			return nil
		}
		fmt.Printf("%-36s %-20s %-20s %-10s %-20s\n", "ID", "Name", "Schedule", "Status", "Next Run")
		for _, j := range jobs {
			status := "enabled"
			if !j.Enabled {
				status = "disabled"
			}
			nextRun := ""
			if j.State.NextRunAtMs != nil {
				nextRun = time.UnixMilli(*j.State.NextRunAtMs).Format("2006-01-02 15:04")
			}
			fmt.Printf("%-36s %-20s %-20s %-10s %-20s\n",
				j.ID, truncStr(j.Name, 19), truncStr(formatSchedule(j.Schedule), 19), status, nextRun)
		}
		return nil
	},
}

func init() {
	scheduleListCmd.Flags().BoolVarP(&scheduleListAll, "all", "a", false, "Include disabled posts")
}

// ─── add ───

var (
	scheduleAddName    string
	scheduleAddMsg     string
	scheduleAddLink    string
	scheduleAddImage   string
	scheduleAddCaption string
	scheduleAddDraft   bool
	scheduleAddEvery   int
	scheduleAddCron    string
	scheduleAddTZ      string
	scheduleAddAt      string
)

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheduled post",
	RunE: func(_ *cobra.Command, _ []string) error {
		if scheduleAddTZ != "" && scheduleAddCron == "" {
			return fmt.Errorf("--tz can only be used with --cron")
		}

		var sched scheduler.Schedule
		switch {
		case scheduleAddEvery > 0:
			everyMs := int64(scheduleAddEvery) * 1000
			sched = scheduler.Schedule{Kind: "every", EveryMs: &everyMs}
		case scheduleAddCron != "":
			sched = scheduler.Schedule{Kind: "cron", Expr: &scheduleAddCron}
			if scheduleAddTZ != "" {
				sched.TZ = &scheduleAddTZ
			}
		case scheduleAddAt != "":
			dt, err := time.ParseInLocation("2006-01-02T15:04:05", scheduleAddAt, time.Local)
			if err != nil {
				dt, err = time.Parse(time.RFC3339, scheduleAddAt)
				if err != nil {
					return fmt.Errorf("invalid --at value %q: %w", scheduleAddAt, err)
				}
			}
			atMs := dt.UnixMilli()
			sched = scheduler.Schedule{Kind: "at", AtMs: &atMs}
		default:
			return fmt.Errorf("must specify --every, --cron, or --at")
		}

		svc, _, err := scheduleService()
		if err != nil {
			return err
		}
		job, err := svc.AddJob(scheduleAddName, sched, scheduler.Payload{
			Message:   scheduleAddMsg,
			Link:      scheduleAddLink,
			ImageURL:  scheduleAddImage,
			Caption:   scheduleAddCaption,
			Published: !scheduleAddDraft,
		}, sched.Kind == "at")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added scheduled post '%s' (%s)\n", job.Name, job.ID)
		return nil
	},
}

func init() {
	scheduleAddCmd.Flags().StringVarP(&scheduleAddName, "name", "n", "", "Post name (required)")
	scheduleAddCmd.Flags().StringVarP(&scheduleAddMsg, "message", "m", "", "Post text")
	scheduleAddCmd.Flags().StringVar(&scheduleAddLink, "link", "", "Link to attach")
	scheduleAddCmd.Flags().StringVar(&scheduleAddImage, "image", "", "Image URL (posts to the photos edge)")
	scheduleAddCmd.Flags().StringVar(&scheduleAddCaption, "caption", "", "Caption for an image post")
	scheduleAddCmd.Flags().BoolVar(&scheduleAddDraft, "draft", false, "Create the post unpublished")
	scheduleAddCmd.Flags().IntVarP(&scheduleAddEvery, "every", "e", 0, "Publish every N seconds")
	scheduleAddCmd.Flags().StringVarP(&scheduleAddCron, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	scheduleAddCmd.Flags().StringVar(&scheduleAddTZ, "tz", "", "IANA timezone for --cron")
	scheduleAddCmd.Flags().StringVar(&scheduleAddAt, "at", "", "Publish once at ISO datetime")

	_ = scheduleAddCmd.MarkFlagRequired("name")
}

// ─── remove / enable / run ───

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a scheduled post",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, _, err := scheduleService()
		if err != nil {
			return err
		}
		if svc.RemoveJob(args[0]) {
			fmt.Printf("✓ Removed %s\n", args[0])
		} else {
			fmt.Printf("Job %s not found\n", args[0])
		}
		return nil
	},
}

var scheduleEnableDisable bool

var scheduleEnableCmd = &cobra.Command{
	Use:   "enable <job-id>",
	Short: "Enable (or disable) a scheduled post",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, _, err := scheduleService()
		if err != nil {
			return err
		}
		job, ok := svc.EnableJob(args[0], !scheduleEnableDisable)
		if !ok {
			fmt.Printf("Job %s not found\n", args[0])
			return nil
		}
		action := "enabled"
		if scheduleEnableDisable {
			action = "disabled"
		}
		fmt.Printf("✓ '%s' %s\n", job.Name, action)
		return nil
	},
}

func init() {
	scheduleEnableCmd.Flags().BoolVar(&scheduleEnableDisable, "disable", false, "Disable instead of enable")
}

var scheduleRunForce bool

var scheduleRunCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Publish a scheduled post now",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c, err := container.New(cfg)
		if err != nil {
			return err
		}

		svc := c.Scheduler()
		svc.SetPublish(publishFunc(c.Manager(), c.Notifier()))

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if svc.RunJob(ctx, args[0], scheduleRunForce) {
			fmt.Println("✓ Published")
		} else {
			fmt.Printf("Failed to run %s (not found or disabled; use --force)\n", args[0])
		}
		return nil
	},
}

func init() {
	scheduleRunCmd.Flags().BoolVarP(&scheduleRunForce, "force", "f", false, "Run even if disabled")
}

// ─── helpers ───

func formatSchedule(s scheduler.Schedule) string {
	switch s.Kind {
	case "every":
		if s.EveryMs != nil {
			return fmt.Sprintf("every %ds", *s.EveryMs/1000)
		}
	case "cron":
		if s.Expr != nil {
			if s.TZ != nil {
				return *s.Expr + " (" + *s.TZ + ")"
			}
			return *s.Expr
		}
	case "at":
		return "one-time"
	}
	return s.Kind
}

func truncStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
