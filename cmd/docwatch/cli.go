package main

import (
	"context"
	"io"

	"github.com/fwojciec/docwatch"
	"github.com/fwojciec/docwatch/scrape"
	"github.com/fwojciec/docwatch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx              context.Context
	Stdout           io.Writer
	Stderr           io.Writer
	DB               *sqlite.DB
	TrackedDocuments docwatch.TrackedDocumentService
	Settings         docwatch.SettingsService
	Scheduler        *scrape.Scheduler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Run the watcher now, ignoring the schedule"`
	Tick     TickCmd     `cmd:"" help:"Scheduled entry point; runs only when due (for cron)"`
	Status   StatusCmd   `cmd:"" help:"Show scheduler state and document statistics"`
	Schedule ScheduleCmd `cmd:"" help:"Set the scheduled run time or enable/disable the watcher"`
	Reset    ResetCmd    `cmd:"" help:"Clear the consecutive-failure counter"`
	Docs     DocsCmd     `cmd:"" help:"List tracked documents"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Source []string `short:"s" help:"Listing page URL to fetch (repeatable; overrides DOCWATCH_SOURCES)"`
	Render bool     `help:"Enable browser rendering fallback for JS-rendered pages"`
}

// TickCmd is the "tick" subcommand.
type TickCmd struct {
	Render bool `help:"Enable browser rendering fallback for JS-rendered pages"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ScheduleCmd is the "schedule" subcommand.
type ScheduleCmd struct {
	Hour    int  `help:"Scheduled hour (0-23)" default:"-1"`
	Minute  int  `help:"Scheduled minute (0, 15, 30 or 45)" default:"-1"`
	Enable  bool `help:"Enable scheduled runs" xor:"toggle"`
	Disable bool `help:"Disable scheduled runs" xor:"toggle"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Type   string `help:"Filter by document type (statute, rules, form, other)"`
	Status string `help:"Filter by status (active, archived, error)"`
}
