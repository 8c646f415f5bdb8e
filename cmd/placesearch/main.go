package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"placefinder-api/internal/app"
	"placefinder-api/internal/config"
	"placefinder-api/internal/logger"
	"placefinder-api/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("placesearch failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "placesearch",
		Usage: "Search places in the Athens area from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directory containing app.yaml",
				Value:   "./configs",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.String("log-level"), true)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run a free-text place search",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:   "nearby",
				Usage:  "List places of a category around a point",
				Action: nearbyCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:     "lat",
						Usage:    "Latitude of the center point",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lon",
						Usage:    "Longitude of the center point",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "cat",
						Usage:    "Category: cafe, food, pharmacy or supermarket",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "radius",
						Usage: "Search radius in meters (0 uses the configured default)",
					},
				},
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("search: query is required")
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	return printJSON(c, a.Places.Search(c.Context, query))
}

func nearbyCommand(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.Places.Nearby(c.Context, models.NearbyRequest{
		Latitude:     c.Float64("lat"),
		Longitude:    c.Float64("lon"),
		Category:     models.Category(c.String("cat")),
		RadiusMeters: c.Int("radius"),
	})
	if err != nil {
		return fmt.Errorf("nearby: %w", err)
	}
	return printJSON(c, resp)
}

func setup(c *cli.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	return app.New(c.Context, cfg)
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
