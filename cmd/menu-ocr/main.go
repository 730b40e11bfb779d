package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("menu-ocr %s\n", c.App.Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "menu-ocr: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	dateFlag := &cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "reference date `YYYY-MM-DD` (default today)"}
	restaurantFlag := &cli.StringFlag{Name: "restaurant", Aliases: []string{"r"}, Usage: "restaurant label or name, e.g. CHEONAN_FACULTY"}
	formatFlag := &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "output format: json or yaml"}
	saveFlag := &cli.BoolFlag{Name: "save", Usage: "store the menus in the database"}

	return &cli.App{
		Name:    "menu-ocr",
		Usage:   "extract weekly cafeteria menus from bulletin board images",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config `FILE`", EnvVars: []string{"MENU_OCR_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "crawl the bulletin boards for a week's menus",
				Flags:  []cli.Flag{restaurantFlag, dateFlag, formatFlag, saveFlag},
				Action: crawlAction,
			},
			{
				Name:      "extract",
				Usage:     "extract menus from saved announcement images",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "restaurant", Aliases: []string{"r"}, Required: true, Usage: "restaurant label or name"},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "announcement title used to date the columns"},
					dateFlag, formatFlag, saveFlag,
				},
				Action: extractAction,
			},
			{
				Name:      "overlay",
				Usage:     "draw the column crop boxes over an image",
				ArgsUsage: "IMAGE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "overlay.png", Usage: "output PNG `FILE`"},
					&cli.StringFlag{Name: "color", Value: "FF0000", Usage: "box color as hex"},
				},
				Action: overlayAction,
			},
			{
				Name:  "list",
				Usage: "list stored menus",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "first date `YYYY-MM-DD` (default this Monday)"},
					&cli.StringFlag{Name: "to", Usage: "last date `YYYY-MM-DD` (default this Friday)"},
					restaurantFlag, formatFlag,
				},
				Action: listAction,
			},
			{
				Name:  "export",
				Usage: "write stored menus to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "first date `YYYY-MM-DD` (default this Monday)"},
					&cli.StringFlag{Name: "to", Usage: "last date `YYYY-MM-DD` (default this Friday)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "menus.xlsx", Usage: "output `FILE`"},
				},
				Action: exportAction,
			},
			{
				Name:  "purge",
				Usage: "delete stored menus dated before a cutoff",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "before", Required: true, Usage: "cutoff date `YYYY-MM-DD`"},
				},
				Action: purgeAction,
			},
			{
				Name:   "serve",
				Usage:  "run the MCP tool server on stdin/stdout",
				Action: serveAction,
			},
		},
	}
}
