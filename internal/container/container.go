// Package container wires core pagepulse services using go.uber.org/dig.
package container

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/graph"
	"github.com/pagepulse/pagepulse/internal/manager"
	"github.com/pagepulse/pagepulse/internal/notify"
	"github.com/pagepulse/pagepulse/internal/preview"
	"github.com/pagepulse/pagepulse/internal/scheduler"
	"github.com/pagepulse/pagepulse/internal/templates"
	"github.com/pagepulse/pagepulse/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	manager   *manager.Manager
	registry  *tools.Registry
	scheduler *scheduler.Service
	templates *templates.Loader
	notifier  *notify.Multi
}

func (c *Container) Manager() *manager.Manager     { return c.manager }
func (c *Container) Registry() *tools.Registry     { return c.registry }
func (c *Container) Scheduler() *scheduler.Service { return c.scheduler }
func (c *Container) Templates() *templates.Loader  { return c.templates }
func (c *Container) Notifier() *notify.Multi       { return c.notifier }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newGraphClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newManager); err != nil {
		return nil, err
	}
	if err := d.Provide(preview.NewFetcher); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newScheduler); err != nil {
		return nil, err
	}
	if err := d.Provide(newTemplates); err != nil {
		return nil, err
	}
	if err := d.Provide(newNotifier); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		m *manager.Manager,
		reg *tools.Registry,
		sched *scheduler.Service,
		tpl *templates.Loader,
		n *notify.Multi,
	) {
		result = &Container{
			manager:   m,
			registry:  reg,
			scheduler: sched,
			templates: tpl,
			notifier:  n,
		}
	})
	return result, err
}

func newGraphClient(cfg *config.Config) (graph.Doer, error) {
	if cfg.Graph.AccessToken == "" {
		return nil, fmt.Errorf("no access token configured; edit %s or set PAGEPULSE_ACCESS_TOKEN", config.ConfigPath())
	}
	return graph.NewClient(cfg.Graph.AccessToken, cfg.Graph.Version), nil
}

func newManager(cfg *config.Config, client graph.Doer) (*manager.Manager, error) {
	if cfg.Graph.PageID == "" {
		return nil, fmt.Errorf("no page id configured; edit %s or set PAGEPULSE_PAGE_ID", config.ConfigPath())
	}
	return manager.New(client, cfg.Graph.PageID), nil
}

func newRegistry(m *manager.Manager, fetcher *preview.Fetcher) *tools.Registry {
	return tools.BuildDefault(m, fetcher)
}

func newScheduler(cfg *config.Config) *scheduler.Service {
	return scheduler.NewService(config.ExpandHome(cfg.SchedulePath))
}

func newTemplates(cfg *config.Config) *templates.Loader {
	return templates.NewLoader(config.ExpandHome(cfg.TemplatesDir))
}

func newNotifier(cfg *config.Config) (*notify.Multi, error) {
	var sinks []notify.Notifier
	if cfg.Notify.Slack.Enabled {
		if cfg.Notify.Slack.BotToken == "" || cfg.Notify.Slack.Channel == "" {
			return nil, fmt.Errorf("slack notify enabled but botToken/channel missing")
		}
		sinks = append(sinks, notify.NewSlackNotifier(cfg.Notify.Slack.BotToken, cfg.Notify.Slack.Channel))
	}
	if cfg.Notify.Telegram.Enabled {
		if cfg.Notify.Telegram.Token == "" || cfg.Notify.Telegram.ChatID == 0 {
			return nil, fmt.Errorf("telegram notify enabled but token/chatId missing")
		}
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	}
	return notify.NewMulti(sinks...), nil
}
