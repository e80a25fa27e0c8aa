package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	takeoff "github.com/ivanvanderbyl/pdftakeoff"
	"github.com/ivanvanderbyl/pdftakeoff/sqlitestore"
)

func main() {
	cmd := &cli.Command{
		Name:  "takeoff",
		Usage: "Inspect PDF snap geometry and stored takeoff markups",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log extraction timings",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "snap",
				Usage: "Extract snap geometry from a page and resolve a snap point",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input PDF file path",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number (1-indexed)",
						Value: 1,
					},
					&cli.FloatFlag{
						Name:  "x",
						Usage: "Document x of the point to snap",
						Value: -1,
					},
					&cli.FloatFlag{
						Name:  "y",
						Usage: "Document y of the point to snap",
						Value: -1,
					},
					&cli.FloatFlag{
						Name:  "zoom",
						Usage: "Zoom percentage used to scale snap tolerances",
						Value: 100,
					},
					&cli.FloatFlag{
						Name:  "grid",
						Usage: "Grid size; 0 disables grid snapping",
					},
				},
				Action: snapPage,
			},
			{
				Name:  "markups",
				Usage: "List the markups stored for a page",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Usage:    "SQLite database path",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number (1-indexed)",
						Value: 1,
					},
				},
				Action: listMarkups,
			},
			{
				Name:  "calibrate",
				Usage: "Store a page scale from two reference points and their real distance",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "SQLite database path", Required: true},
					&cli.IntFlag{Name: "page", Usage: "Page number (1-indexed)", Value: 1},
					&cli.FloatFlag{Name: "x1", Required: true},
					&cli.FloatFlag{Name: "y1", Required: true},
					&cli.FloatFlag{Name: "x2", Required: true},
					&cli.FloatFlag{Name: "y2", Required: true},
					&cli.StringFlag{Name: "distance", Usage: "Real-world distance between the points", Required: true},
					&cli.StringFlag{Name: "unit", Value: "ft"},
				},
				Action: calibrate,
			},
			{
				Name:  "report",
				Usage: "Render a markdown quantity report of every stored page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "SQLite database path", Required: true},
					&cli.StringFlag{Name: "title", Value: "Takeoff report"},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output markdown file path (default: stdout)",
					},
				},
				Action: report,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func snapPage(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	page := cmd.Int("page")

	cfg := takeoff.DefaultConfig()
	cfg.EnableMetricsLogging = cmd.Bool("verbose")
	if grid := cmd.Float("grid"); grid > 0 {
		cfg.Snap.GridEnabled = true
		cfg.Snap.GridSize = grid
	}

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	doc := takeoff.NewDocumentWithConfig(instance, cfg)
	if err := doc.Open(inputPath); err != nil {
		return err
	}
	defer doc.Close()

	fmt.Fprintf(os.Stderr, "Extracting page %d of %d...\n", page, doc.PageCount())

	loader := takeoff.NewSnapLoaderWithConfig(cfg)
	loader.SetActivePage(ctx, page, doc)
	loader.Wait()
	if err := loader.Err(); err != nil {
		return fmt.Errorf("failed to extract snap data: %w", err)
	}
	_, data := loader.Current()

	fmt.Printf("lines:         %d\n", len(data.Lines))
	fmt.Printf("endpoints:     %d\n", len(data.Endpoints))
	fmt.Printf("intersections: %d\n", len(data.Intersections))

	x, y := cmd.Float("x"), cmd.Float("y")
	if x < 0 || y < 0 {
		return nil
	}

	engine := takeoff.NewSnapEngine(cfg.Snap)
	engine.SetData(data)
	res := engine.GetSnapPoint(takeoff.Point{X: x, Y: y}, takeoff.Viewport{Zoom: cmd.Float("zoom")})
	if !res.Snapped() {
		fmt.Printf("snap: none (%.2f, %.2f)\n", x, y)
		return nil
	}
	fmt.Printf("snap: %s (%.2f, %.2f)\n", res.Type, res.Point.X, res.Point.Y)
	return nil
}

func listMarkups(ctx context.Context, cmd *cli.Command) error {
	store, err := sqlitestore.Open(cmd.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	page := cmd.Int("page")
	markups, err := store.Markups(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to load markups: %w", err)
	}
	scale, err := store.Scale(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to load scale: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Page %d: %d markups, scale %.4f px/%s\n", page, len(markups), scale.PixelsPerUnit, scale.Unit)
	for _, m := range markups {
		b := m.Bounds()
		line := fmt.Sprintf("%-36s %-15s (%.1f, %.1f)-(%.1f, %.1f)", m.ID, m.Kind, b.X0, b.Y0, b.X1, b.Y1)
		if meas, ok := m.Shape.(takeoff.Measurement); ok {
			line += fmt.Sprintf(" %.2f %s", meas.ScaledValue, meas.Unit)
		}
		fmt.Println(line)
	}

	groups := takeoff.GroupCounts(markups)
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("count %s: %d\n", id, groups[id])
	}
	return nil
}

func calibrate(ctx context.Context, cmd *cli.Command) error {
	distance, err := takeoff.ParseDistance(cmd.String("distance"))
	if err != nil {
		return err
	}

	store, err := sqlitestore.Open(cmd.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	p1 := takeoff.Point{X: cmd.Float("x1"), Y: cmd.Float("y1")}
	p2 := takeoff.Point{X: cmd.Float("x2"), Y: cmd.Float("y2")}
	if p1.Distance(p2) == 0 {
		return fmt.Errorf("reference points must differ")
	}

	scale := takeoff.DeriveScale(p1, p2, distance, cmd.String("unit"))
	if err := store.SaveScale(ctx, cmd.Int("page"), scale); err != nil {
		return fmt.Errorf("failed to save scale: %w", err)
	}
	fmt.Printf("scale: %.4f px/%s\n", scale.PixelsPerUnit, scale.Unit)
	return nil
}

func report(ctx context.Context, cmd *cli.Command) error {
	store, err := sqlitestore.Open(cmd.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	pages, err := store.Pages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	reports := make([]takeoff.PageReport, 0, len(pages))
	for _, page := range pages {
		markups, err := store.Markups(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to load markups for page %d: %w", page, err)
		}
		scale, err := store.Scale(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to load scale for page %d: %w", page, err)
		}
		reports = append(reports, takeoff.PageReport{Page: page, Scale: scale, Markups: markups})
	}

	md, err := takeoff.RenderReport(cmd.String("title"), reports)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		fmt.Print(md)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	return nil
}
