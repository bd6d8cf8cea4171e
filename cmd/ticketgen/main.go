// Command ticketgen renders tickets without the HTTP server: one guest to a
// PNG, or a whole guest list to a zip.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/config"
	"github.com/youruser/ticketapp/internal/export"
	"github.com/youruser/ticketapp/internal/guests"
	imagepkg "github.com/youruser/ticketapp/internal/image"
	"github.com/youruser/ticketapp/internal/ticket"
	"github.com/youruser/ticketapp/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "ticketgen:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("ticketgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var req ticket.Request
	var (
		out     = fs.String("o", "", "output file (default ticket_<code>.png, or tickets.zip with -data)")
		scale   = fs.Float64("scale", cfg.OutputScale, "output scale")
		dataDir = fs.String("data", "", "render every guest in this data directory into a zip")
		batches = fs.String("batch-filter", "", "comma-separated batches to export")
		words   = fs.String("q", "", "free words the exported guests must match")
		warm    = fs.Bool("warm", false, "fetch every font and image into the cache, then exit")
		debug   = fs.Bool("debug", false, "print the computed layout as JSON")
	)
	fs.StringVar(&req.Name, "name", "", "guest name")
	fs.StringVar(&req.Batch, "batch", "", "guest batch")
	fs.StringVar(&req.Phone, "phone", "", "guest phone")
	fs.StringVar(&req.Code, "code", "", "ticket code (QR payload)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := cfg.NewLogger()
	cache, err := cfg.NewAssetCache(logger)
	if err != nil {
		return err
	}
	if *warm {
		rep := cache.Warm(ctx, assets.DefaultImageURLs)
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	r := imagepkg.NewRenderer(imagepkg.Options{Assets: cache, Scale: *scale, Logger: logger})
	if *dataDir != "" {
		return exportZip(ctx, r, *dataDir, *out, guests.FilterOptions{
			Batches:   splitList(*batches),
			FreeWords: *words,
			HasCode:   true,
		}, stdout)
	}

	img, lay, err := r.RenderImage(ctx, req, *scale)
	if err != nil {
		return err
	}
	b, err := imagepkg.EncodePNG(img)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = req.Normalize().FileName()
	}
	if err := util.WriteFileAtomic(path, b); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", path, lay.Size.X, lay.Size.Y)
	if *debug {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lay)
	}
	return nil
}

func exportZip(ctx context.Context, r *imagepkg.Renderer, dir, path string, opt guests.FilterOptions, stdout io.Writer) error {
	all, err := guests.LoadGuestsFromDataDir(dir)
	if err != nil {
		return err
	}
	list := guests.Filter(all, opt)
	if path == "" {
		path = "tickets.zip"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	sum, err := export.WriteTicketsZip(ctx, f, list, r.Render, nil)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s: %d tickets, %d failed\n", path, sum.Written, sum.Failed)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
