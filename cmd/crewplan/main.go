package main

import (
	"fmt"
	"os"

	"github.com/41rumble/crew-planner/internal/cli"
	"github.com/41rumble/crew-planner/internal/config"
	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/41rumble/crew-planner/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	timelineRepo := repository.NewSQLiteTimelineRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Timelines:    service.NewTimelineService(timelineRepo, uow, observers...),
		Imports:      service.NewImportService(uow, cfg.FallbackYear, observers...),
		Edits:        service.NewEditService(timelineRepo, uow, observers...),
		Interactive:  isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		PreviewGlyph: cfg.Editor.PreviewGlyph,
	}

	return cli.NewRootCmd(app).Execute()
}
