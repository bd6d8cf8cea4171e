// Package export bundles rendered tickets for a guest list into one zip.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/youruser/ticketapp/internal/guests"
	"github.com/youruser/ticketapp/internal/ticket"
)

// ManifestName is the manifest entry at the root of the archive.
const ManifestName = "manifest.csv"

var manifestHeader = []string{"code", "name", "batch", "phone", "file", "error"}

// RenderFunc renders one ticket to PNG bytes.
type RenderFunc func(ctx context.Context, req ticket.Request) ([]byte, error)

// Summary counts what WriteTicketsZip wrote.
type Summary struct {
	Written int `json:"written"`
	Failed  int `json:"failed"`
}

// Slug lowercases s and joins its runs of letters, marks and digits with '-'.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "guest"
	}
	return b.String()
}

// EntryName is the archive path of g's ticket.
func EntryName(g guests.Guest) string {
	req := g.Request().Normalize()
	return Slug(req.Name+"-"+req.Phone) + "/" + req.FileName()
}

// WriteTicketsZip renders every guest and writes the images and a manifest
// to w. A guest whose render fails is recorded in the manifest with its error
// and left out of the archive. Only write errors and cancellation abort.
func WriteTicketsZip(ctx context.Context, w io.Writer, list []guests.Guest, render RenderFunc, log *slog.Logger) (Summary, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	zw := zip.NewWriter(w)
	var sum Summary
	rows := [][]string{manifestHeader}
	used := map[string]bool{}

	for _, g := range list {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		req := g.Request().Normalize()
		row := []string{req.Code, req.Name, req.Batch, req.Phone, "", ""}
		png, err := render(ctx, g.Request())
		if err != nil {
			log.Warn("ticket render failed", "code", req.Code, "name", req.Name, "err", err)
			row[5] = err.Error()
			rows = append(rows, row)
			sum.Failed++
			continue
		}
		base := EntryName(g)
		name := base
		for n := 2; used[name]; n++ {
			name = strings.TrimSuffix(base, ".png") + "_" + strconv.Itoa(n) + ".png"
		}
		used[name] = true
		f, err := zw.Create(name)
		if err != nil {
			return sum, err
		}
		if _, err := f.Write(png); err != nil {
			return sum, fmt.Errorf("write %s: %w", name, err)
		}
		row[4] = name
		rows = append(rows, row)
		sum.Written++
	}

	mf, err := zw.Create(ManifestName)
	if err != nil {
		return sum, err
	}
	cw := csv.NewWriter(mf)
	if err := cw.WriteAll(rows); err != nil {
		return sum, fmt.Errorf("write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return sum, err
	}
	return sum, nil
}
