package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"studyguide.parallel/blur5/pkg/bench"
	"studyguide.parallel/blur5/pkg/blur"
	"studyguide.parallel/blur5/pkg/imageio"
	"studyguide.parallel/blur5/pkg/workerpool"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line in args and returns the exit status. Harness
// lines go to stdout, usage and failures to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	name := "blur5"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	logger := log.New(stderr, "", log.LstdFlags)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s inFilename outFilename\n", name)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	img, err := imageio.Load(inputPath)
	if err != nil {
		logger.Printf("Failed to load %s: %v", inputPath, err)
		return 1
	}

	pool := workerpool.New(runtime.GOMAXPROCS(0))
	defer pool.Close()

	harness := bench.NewHarness(blur.Blur5, pool, stdout)
	if _, err := harness.Run(img); err != nil {
		logger.Printf("Benchmark failed: %v", err)
		return 1
	}

	// img now holds the sequential reference output.
	if err := imageio.Store(outputPath, img); err != nil {
		logger.Printf("Failed to store %s: %v", outputPath, err)
		return 1
	}
	return 0
}
