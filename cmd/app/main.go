package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/moodmate/internal"
	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/export"
	"github.com/starford/moodmate/internal/mcpserver"
	"github.com/starford/moodmate/internal/models"
	pkgconfig "github.com/starford/moodmate/pkg/config"
)

const defaultConfigFile = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(configPath, "", cfg, pkgconfig.WithEnvPrefix(internal.EnvPrefix)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// openApp builds the pipeline for one-shot commands. Logs go to stderr so
// stdout carries only the command's output.
func openApp(cmd *cli.Command) (*internal.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)
	return internal.NewApp(internal.WithConfig(cfg), internal.WithLogger(logger))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func add(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Service.RefreshLocation(ctx)
	entry, err := app.Service.SaveEntry(ctx, cmd.String("emoji"), cmd.String("text"), cmd.String("date"))
	if err != nil {
		return err
	}
	fmt.Print(savedMessage(entry))
	return nil
}

func formatEntry(e models.Entry) string {
	return fmt.Sprintf("%s %s  %s  %s\n", e.Emoji, e.Date, e.Temperature, e.Text)
}

func savedMessage(e models.Entry) string {
	return composer.MessageSaved + "\n" + formatEntry(e)
}

func list(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	w := os.Stdout
	entries := app.Service.Entries(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No notes saved yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprint(w, formatEntry(e))
	}
	return nil
}

func exportPDF(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	path := cmd.String("output")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := app.Service.Export(ctx, f); err != nil {
		return errors.Join(err, f.Close(), os.Remove(path))
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %d entries to %s\n", app.Store.Len(), path)
	return nil
}

func showWeather(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	r := app.Service.RefreshLocation(ctx)
	if r.LocationError != "" {
		fmt.Println(r.LocationError)
		return nil
	}
	fmt.Println(r.Text)
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Service.RefreshLocation(ctx)
	return mcpserver.New(app.Service).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "moodmate",
		Usage:  "Mood journal that stamps every entry with the local temperature",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:  "add",
				Usage: "Save a mood entry",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "emoji", Aliases: []string{"e"}, Usage: "One of 😊 😐 😢 😡 😄", Required: true},
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Note text", Required: true},
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Date as YYYY-MM-DD (default today)"},
				},
				Action: add,
			},
			{
				Name:   "list",
				Usage:  "Print saved entries in save order",
				Action: list,
			},
			{
				Name:  "export",
				Usage: "Write the mood log as a PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: export.Filename, Usage: "Output file"},
				},
				Action: exportPDF,
			},
			{
				Name:   "weather",
				Usage:  "Show the temperature at the configured location",
				Action: showWeather,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
