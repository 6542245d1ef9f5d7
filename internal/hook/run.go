package hook

import (
	"context"
	"sort"
	"sync"

	"github.com/devforge/devforge/internal/scanner"

	"golang.org/x/sync/errgroup"
)

// Run enumerates root and scans it, merging enumeration warnings into the
// report.
func Run(ctx context.Context, root string, opts Options, sc *scanner.Scanner) (*scanner.Report, error) {
	var (
		mu       sync.Mutex
		warnings []scanner.Warning
	)
	warn := func(w scanner.Warning) {
		mu.Lock()
		warnings = append(warnings, w)
		mu.Unlock()
	}

	files := make(chan scanner.File)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(files)
		return Walk(gctx, root, opts, files, warn)
	})

	var report *scanner.Report
	g.Go(func() error {
		var err error
		report, err = sc.Scan(gctx, files)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Warnings = append(report.Warnings, warnings...)
	sort.SliceStable(report.Warnings, func(i, j int) bool { return report.Warnings[i].Path < report.Warnings[j].Path })
	return report, nil
}
