package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	scanJSON    bool
	scanMissing bool
	scanWorkers int
)

// imageExts are the extensions scan looks at.
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Report the geotag of every photo under a directory",
	Long: `Walks dir and reports every JPEG and TIFF file found, followed by a
summary of outcomes on stderr. With --missing only files without a usable
geotag are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		files, err := findImages(fsys, args[0])
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("Scanning "+args[0]),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		reports := scanFiles(fsys, files, scanWorkers, func() {
			if bar != nil {
				_ = bar.Add(1)
			}
		})

		if scanMissing {
			kept := reports[:0]
			for _, r := range reports {
				if r.Coordinates == nil {
					kept = append(kept, r)
				}
			}
			reports = kept
		}
		if err := writeReports(cmd.OutOrStdout(), reports, scanJSON); err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), summarize(reports))
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print one JSON object per file")
	scanCmd.Flags().BoolVar(&scanMissing, "missing", false, "list only files without a usable geotag")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", runtime.NumCPU(), "files read in parallel")
	rootCmd.AddCommand(scanCmd)
}

// findImages returns the image files under root in lexical order.
func findImages(fsys afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if imageExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// scanFiles inspects files with up to workers goroutines. Reports keep the
// order of files.
func scanFiles(fsys afero.Fs, files []string, workers int, done func()) []report {
	if workers < 1 {
		workers = 1
	}
	reports := make([]report, len(files))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			reports[i] = inspectFile(fsys, name)
			if done != nil {
				done()
			}
		}(i, name)
	}
	wg.Wait()
	return reports
}

// summarize counts reports per outcome, e.g. "3 files: found=2 no_gps=1".
func summarize(reports []report) string {
	counts := map[string]int{}
	for _, r := range reports {
		counts[r.Outcome]++
	}
	outcomes := make([]string, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	var b strings.Builder
	fmt.Fprintf(&b, "%d files:", len(reports))
	for _, o := range outcomes {
		fmt.Fprintf(&b, " %s=%d", o, counts[o])
	}
	return b.String()
}
