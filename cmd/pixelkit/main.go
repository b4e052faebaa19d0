package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/importer"
	"github.com/ironsheep/pixelkit/internal/palette"
	"github.com/ironsheep/pixelkit/internal/server"
	"github.com/ironsheep/pixelkit/internal/store"
)

const defaultDB = "pixelkit.db"

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// newLogger logs to stderr; stdout carries the MCP stream.
func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") || strings.EqualFold(c.String("log-level"), "debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// open returns the asset library and a logger for a command.
func open(c *cli.Context) (*store.AssetDB, *zap.Logger, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(c.String("db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", c.String("db"), err)
	}
	logger.Debug("opened library", zap.String("db", c.String("db")))
	return db, logger, nil
}

func main() {
	app := cli.NewApp()
	app.Name = "pixelkit"
	app.Usage = "Pixel-art asset library, palette tools and MCP editor server"
	app.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIXELKIT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to asset library",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"PIXELKIT_LOG_LEVEL"},
			Value:   "info",
			Usage:   "log level (debug enables development logging)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "serve",
			Usage: "Run the MCP server on stdin/stdout",
			Action: func(c *cli.Context) error {
				db, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()
				defer logger.Sync()

				logger.Info("pixelkit server starting",
					zap.String("version", Version),
					zap.String("db", c.String("db")))

				if err := server.New(db, logger).Run(); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "import",
			Usage:     "Import images into the asset library",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "folder",
					Usage: "library folder for the imported assets",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				db, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()
				defer logger.Sync()

				res := importer.ImportFiles(c.Args().Slice(), c.String("folder"), logger)
				for _, rec := range res.Imported {
					if _, err := db.Put(rec); err != nil {
						return cli.Exit(err, 1)
					}
					fmt.Printf("%s\t%dx%d\t%d colors\tscale %d\n", rec.Name, rec.Width, rec.Height, len(rec.Colors), rec.Scale)
				}
				for _, f := range res.Failures {
					fmt.Fprintf(os.Stderr, "%s: %s\n", f.Path, f.Reason)
				}
				if len(res.Imported) == 0 && len(res.Failures) > 0 {
					return cli.Exit("no images imported", 1)
				}
				return nil
			},
		},
		{
			Name:      "analyze",
			Usage:     "Print the palette and per-color pixel counts of an image",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "quantize",
					Usage: "reduce palettes above 15 colors",
				},
				&cli.Float64Flag{
					Name:  "threshold",
					Value: palette.DefaultThreshold,
					Usage: "merge distance when quantizing",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				img, err := imaging.DecodeFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				a := palette.Analyze(img, c.Bool("quantize"), c.Float64("threshold"))
				fmt.Printf("%dx%d, %d colors (%d before quantization)\n",
					img.Bounds().Dx(), img.Bounds().Dy(), len(a.Colors), a.OriginalColorCount)
				for _, col := range a.Colors {
					fmt.Printf("%s\t%d\n", col, a.ColorMap.Count(col))
				}
				return nil
			},
		},
		{
			Name:      "match",
			Usage:     "Score an image palette against a reference palette file",
			ArgsUsage: "FILE REFERENCE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				img, err := imaging.DecodeFile(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				f, err := os.Open(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()
				ref, err := palette.ParseReference(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				a := palette.Analyze(img, true, palette.DefaultThreshold)
				res := palette.Match(a.Colors, ref)
				fmt.Printf("score %d%% (%s)\n", res.Score, res.Class)
				for _, m := range res.Matches {
					mark := " "
					if m.Matched {
						mark = "*"
					}
					fmt.Printf("%s %s -> %s %s (%.2f)\n", mark, m.Color, m.Nearest.Color, m.Nearest.Name, m.Distance)
				}
				return nil
			},
		},
		{
			Name:      "suggest",
			Usage:     "Suggest a reduced palette using median cut",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 8,
					Usage: "number of colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				img, err := imaging.DecodeFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, col := range palette.Suggest(img, c.Int("colors")) {
					fmt.Println(col)
				}
				return nil
			},
		},
		{
			Name:      "preview",
			Usage:     "Write a nearest-neighbor magnified PNG of an image or stored asset",
			ArgsUsage: "FILE|FOLDER/NAME OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "zoom",
					Value: 8,
					Usage: "magnification (1-32)",
				},
				&cli.BoolFlag{
					Name:  "asset",
					Usage: "read the source from the asset library",
				},
				&cli.BoolFlag{
					Name:  "grid",
					Usage: "draw a one-cell-per-pixel grid (zoom 2 or more)",
				},
				&cli.StringFlag{
					Name:  "grid-color",
					Value: imaging.DefaultGridColor,
					Usage: "grid line color",
				},
				&cli.BoolFlag{
					Name:  "grid-labels",
					Usage: "label grid cells with pixel coordinates",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				zoom := c.Int("zoom")
				if zoom < 1 || zoom > imaging.MaxZoom {
					return cli.Exit(fmt.Sprintf("zoom %d out of range 1-%d", zoom, imaging.MaxZoom), 1)
				}

				src := c.Args().Get(0)
				if c.Bool("asset") {
					db, logger, err := open(c)
					if err != nil {
						return cli.Exit(err, 1)
					}
					defer db.Close()
					defer logger.Sync()

					folder, name := "", src
					if i := strings.LastIndex(src, "/"); i >= 0 {
						folder, name = src[:i], src[i+1:]
					}
					rec, err := db.Get(folder, name)
					if err != nil {
						return cli.Exit(err, 1)
					}
					img, err := rec.Image()
					if err != nil {
						return cli.Exit(err, 1)
					}
					return preview(c, img, zoom)
				}

				img, err := imgio.Open(src)
				if err != nil {
					return cli.Exit(err, 1)
				}
				return preview(c, img, zoom)
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// preview writes img magnified by zoom, with the optional pixel grid, as PNG.
func preview(c *cli.Context, img image.Image, zoom int) error {
	var out image.Image = imaging.Zoom(img, zoom)
	if c.Bool("grid") {
		grid, err := imaging.GridOverlay(out, zoom, c.Bool("grid-labels"), c.String("grid-color"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		out = grid
	}
	if err := imgio.Save(c.Args().Get(1), out, imgio.PNGEncoder()); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
