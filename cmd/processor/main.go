package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"studyguide.parallel/blur5/pkg/bench"
	"studyguide.parallel/blur5/pkg/blur"
	"studyguide.parallel/blur5/pkg/common"
	"studyguide.parallel/blur5/pkg/imageio"
	"studyguide.parallel/blur5/pkg/queue"
	"studyguide.parallel/blur5/pkg/stats"
	"studyguide.parallel/blur5/pkg/workerpool"
)

type config struct {
	inputDir  string
	outputDir string
	logsDir   string
	workers   int
	redisAddr string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.inputDir, "input", "/input", "Input directory path")
	flag.StringVar(&cfg.outputDir, "output", "/data/blur5/output", "Output directory path")
	flag.StringVar(&cfg.logsDir, "logs", "logs", "Directory for the results file")
	flag.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "Worker goroutines for the optimized variant")
	flag.StringVar(&cfg.redisAddr, "redis", "", "Redis address for result history (disabled when empty)")
	flag.Parse()

	startTime := time.Now()
	log.Printf("=== Starting blur5 Batch Benchmark ===")
	log.Printf("Start time: %s", startTime.Format("2006-01-02 15:04:05"))
	log.Printf("Host: %v", stats.Host())
	log.Printf("Input path: %s", cfg.inputDir)
	log.Printf("Output path: %s", cfg.outputDir)

	results, err := run(context.Background(), cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}

	s := stats.Summarize(results)
	log.Printf("=== Processing Complete ===")
	log.Printf("Images processed: %d", s.Images)
	log.Printf("Optimized parallel: %vs", s.Optimized)
	log.Printf("Sequential: %vs", s.Sequential)
	log.Printf("Baseline parallel: %vs", s.Naive)
	log.Printf("Speedup: %v (baseline %v)", s.Speedup, s.NaiveSpeedup)
	if s.Failures > 0 {
		log.Printf("WARNING: %d image(s) produced incorrect results", s.Failures)
	}
	log.Printf("Total execution time: %.2fs", time.Since(startTime).Seconds())
}

// run benchmarks every image in cfg.inputDir. Harness lines go to out.
func run(ctx context.Context, cfg config, out io.Writer) ([]stats.PerformanceData, error) {
	if err := os.MkdirAll(cfg.outputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	inputPaths, err := findImages(cfg.inputDir)
	if err != nil {
		return nil, err
	}
	if len(inputPaths) == 0 {
		return nil, errors.Errorf("no PNG or JPEG files found in %s", cfg.inputDir)
	}
	log.Printf("Found %d images to process", len(inputPaths))

	var store *queue.ResultStore
	if cfg.redisAddr != "" {
		store, err = queue.NewResultStore(ctx, cfg.redisAddr)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		logPrevious(ctx, store)
	}

	images, err := loadAll(ctx, inputPaths)
	if err != nil {
		return nil, err
	}

	pool := workerpool.New(cfg.workers)
	defer pool.Close()
	harness := bench.NewHarness(blur.Blur5, pool, out)

	// Timed runs are strictly one at a time.
	results := make([]stats.PerformanceData, 0, len(inputPaths))
	for i, inputPath := range inputPaths {
		img := images[i]
		log.Printf("  Processing %s (%v)...", filepath.Base(inputPath), img.Geometry)

		report, err := harness.Run(img)
		if err != nil {
			return nil, errors.Wrapf(err, "image %d", i+1)
		}
		images[i] = nil

		outputPath := outputPathFor(cfg.outputDir, inputPath)
		if err := imageio.Store(outputPath, img); err != nil {
			return nil, err
		}

		rec := harness.Performance(report)
		rec.InputPath = inputPath
		rec.OutputPath = outputPath
		results = append(results, rec)
		log.Printf("  %s: optimized %.4fs, sequential %.4fs, baseline %.4fs, correct=%t",
			filepath.Base(inputPath), rec.OptimizedTime, rec.SequentialTime, rec.NaiveTime, rec.Correct)

		if store != nil {
			if err := store.Push(ctx, rec); err != nil {
				log.Printf("Failed to record result in Redis: %v", err)
			}
		}
	}

	resultsFile, err := stats.WritePerformanceResultsWithPrefix(cfg.logsDir, results, "blur5_")
	if err != nil {
		log.Printf("Failed to write results file: %v", err)
	} else {
		log.Printf("Results written to %s", resultsFile)
	}
	return results, nil
}

// loadAll decodes the inputs concurrently; nothing is timed while loading.
func loadAll(ctx context.Context, paths []string) ([]*common.Image, error) {
	images := make([]*common.Image, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imageio.Load(path)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// logPrevious reports the newest record an earlier batch left in store.
func logPrevious(ctx context.Context, store *queue.ResultStore) {
	prev, err := store.Latest(ctx)
	switch {
	case errors.Is(err, queue.ErrEmpty):
		log.Printf("No previous results in Redis")
	case err != nil:
		log.Printf("Failed to read previous result from Redis: %v", err)
	default:
		log.Printf("Previous run: %s at %s, optimized %.4fs, sequential %.4fs, correct=%t",
			filepath.Base(prev.InputPath), prev.Timestamp.Format("2006-01-02 15:04:05"),
			prev.OptimizedTime, prev.SequentialTime, prev.Correct)
	}
}

func findImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find input files")
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || strings.Contains(entry.Name(), "_blurred") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

func outputPathFor(outputDir, inputPath string) string {
	filename := filepath.Base(inputPath)
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	return filepath.Join(outputDir, name+"_blurred"+ext)
}
