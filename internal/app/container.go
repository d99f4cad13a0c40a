// Package app wires application services to infrastructure adapters.
package app

import (
	"context"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/infrastructure/backend"
	"github.com/doeshing/asoforge/internal/infrastructure/config"
	"github.com/doeshing/asoforge/internal/infrastructure/export"
	"github.com/doeshing/asoforge/internal/infrastructure/history"
	"github.com/doeshing/asoforge/internal/infrastructure/imagegen"
	"github.com/doeshing/asoforge/internal/infrastructure/lookup"
	"github.com/doeshing/asoforge/internal/pkg/logger"
	"github.com/doeshing/asoforge/internal/ports"
	"github.com/doeshing/asoforge/internal/services"
)

// Terminal bundles the adapters that talk to the user's terminal. They are
// constructed by the caller and injected, so this package stays free of any
// dependency on the cli package it is wired into.
type Terminal struct {
	Renderer  ports.Renderer
	Console   ports.Console
	Clipboard ports.Clipboard
	Progress  ports.ProgressIndicator
}

// Container holds the wired dependency graph.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider
	Client         ports.BackendClient
	Orchestrator   *services.Orchestrator
	DoctorService  *services.DoctorService
	HistoryStore   ports.HistoryRepository
	LookupCache    ports.LookupCache
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph around the injected
// terminal adapters.
func BuildContainer(ctx context.Context, term Terminal) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd()
	client := backend.New(cfg.Backend, log)
	historyStore := history.NewSQLiteStore()
	lookupCache := lookup.NewFileCache()
	images := imagegen.NewService(cfg.Images, log)

	var toolServers []domain.ToolServerConfig
	if cfg.Tools.KeywordScorerURL != "" {
		toolServers = append(toolServers, domain.ToolServerConfig{
			Name: "keyword-scorer",
			URL:  cfg.Tools.KeywordScorerURL,
		})
	}

	var onActivity func(label string)
	if term.Progress != nil {
		onActivity = term.Progress.SetLabel
	}

	manager := services.NewSessionManager(client, log, services.SessionOptions{
		ToolServers:   toolServers,
		SystemMessage: cfg.Backend.SystemMessage,
		Country:       cfg.Tools.Country,
		OnActivity:    onActivity,
	})

	orchestrator := &services.Orchestrator{
		Client:       client,
		Manager:      manager,
		Renderer:     term.Renderer,
		Console:      term.Console,
		Clipboard:    term.Clipboard,
		Lookup:       lookup.NewITunesLookup(lookupCache, log),
		Images:       images,
		Exporter:     export.NewWriter(config.ExpandPath(cfg.Export.Root)),
		History:      historyStore,
		Progress:     term.Progress,
		Logger:       log,
		DefaultModel: cfg.Preferences.DefaultModel,
	}

	doctorService := &services.DoctorService{
		ConfigProvider: cfgLoader,
		Client:         client,
		Images:         images,
	}

	return &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		ConfigProvider: cfgLoader,
		Client:         client,
		Orchestrator:   orchestrator,
		DoctorService:  doctorService,
		HistoryStore:   historyStore,
		LookupCache:    lookupCache,
		Logger:         log,
	}, nil
}
