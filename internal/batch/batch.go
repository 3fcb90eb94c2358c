// Package batch renders several static views of a dataset concurrently,
// one SVG file per view.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/logger"
	"github.com/msalah0e/ecomap/internal/render"
	"github.com/msalah0e/ecomap/internal/session"
)

// View is one rendering: a name for the output file and the session inputs.
type View struct {
	Name     string
	Filter   string
	Search   string
	Selected string
}

// Result holds the outcome of one view.
type Result struct {
	View    View
	Path    string
	Nodes   int
	Links   int
	Ticks   int
	Err     error
	Elapsed time.Duration
}

// OK reports whether the view was written.
func (r Result) OK() bool { return r.Err == nil }

// Options configures a batch.
type Options struct {
	Session     session.Options
	Dir         string
	Ticks       int
	Fit         bool
	Concurrency int
}

// ArchetypeViews returns the full map followed by one filtered view per
// legend entry.
func ArchetypeViews() []View {
	views := []View{{Name: "all"}}
	for _, a := range dataset.Archetypes {
		views = append(views, View{Name: a.Name, Filter: a.Name})
	}
	return views
}

// Render writes every view into opts.Dir with at most opts.Concurrency
// layouts running at once. Results are returned in the order views were
// given; a failing view does not stop the others.
func Render(ctx context.Context, doc *dataset.Document, views []View, opts Options) ([]Result, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	if opts.Ticks <= 0 {
		opts.Ticks = 300
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("batch output dir: %w", err)
	}

	results := make([]Result, len(views))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, v := range views {
		g.Go(func() error {
			start := time.Now()
			r := Result{View: v, Path: filepath.Join(opts.Dir, Slug(v.Name)+".svg")}
			if err := ctx.Err(); err != nil {
				r.Err = err
			} else {
				r.Nodes, r.Links, r.Ticks, r.Err = renderOne(doc, v, r.Path, opts)
			}
			r.Elapsed = time.Since(start)
			results[i] = r
			logger.Debug("view rendered", "view", v.Name, "path", r.Path, "err", r.Err, "elapsed", r.Elapsed)
			return nil // never fail the group, collect results instead
		})
	}

	_ = g.Wait()
	return results, nil
}

func renderOne(doc *dataset.Document, v View, path string, opts Options) (nodes, links, ticks int, err error) {
	so := opts.Session
	so.Filter, so.Search, so.Selected = v.Filter, v.Search, v.Selected
	s := session.New(doc, so)

	ticks = s.Settle(opts.Ticks)
	if opts.Fit {
		if err := s.Handle(session.Event{Type: session.FitView}); err != nil {
			return 0, 0, ticks, err
		}
	}

	sc := s.Scene()
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, ticks, err
	}
	if err := render.WriteSVG(f, sc); err != nil {
		f.Close()
		return 0, 0, ticks, err
	}
	if err := f.Close(); err != nil {
		return 0, 0, ticks, err
	}
	return len(sc.Nodes), len(sc.Links), ticks, nil
}

// Slug turns a view name into a file name: lower case, runs of anything
// other than letters and digits collapsed to a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "view"
	}
	return s
}
