package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"web/lodcluster/cluster"
	"web/lodcluster/display"
	"web/lodcluster/itemsource"
)

var (
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to file")
	heapprofile = flag.String("heapprofile", "", "write heap profile to file")
	numPoints   = flag.Int("points", 100000, "number of points to generate")
	lodLevel    = flag.Int("level", 8, "level of detail to flush and render")
	concurrency = flag.Int("concurrency", 1, "levels ingested in parallel")
	testall     = flag.Bool("testall", false, "test all configurations")
	storage     = flag.Bool("storage", false, "also time zstd and mmap dataset files")
)

type result struct {
	ingest   time.Duration
	flush    time.Duration
	render   time.Duration
	clusters int
	bytes    int
	allocMB  float64
	gcRuns   uint32
}

func profile(features []*itemsource.Feature, level, workers int) result {
	var memStatsBefore, memStatsAfter runtime.MemStats
	runtime.ReadMemStats(&memStatsBefore)

	index := cluster.New[*itemsource.Feature](cluster.WithIngestConcurrency(workers))

	start := time.Now()
	index.Add(features)
	ingest := time.Since(start)

	grid := index.Level(level)
	start = time.Now()
	grid.EnsureClustersReadyForDisplay()
	flush := time.Since(start)

	clusters := grid.Clusters()
	adapter := display.NewAdapter[*itemsource.Feature](cluster.NoopLogger())
	adapter.ShowCoverages = true
	start = time.Now()
	data, err := json.Marshal(adapter.FeatureCollection(clusters))
	render := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not encode features: %v\n", err)
	}

	runtime.ReadMemStats(&memStatsAfter)
	return result{
		ingest:   ingest,
		flush:    flush,
		render:   render,
		clusters: len(clusters),
		bytes:    len(data),
		allocMB:  float64(memStatsAfter.TotalAlloc-memStatsBefore.TotalAlloc) / 1024 / 1024,
		gcRuns:   memStatsAfter.NumGC - memStatsBefore.NumGC,
	}
}

func runSingleProfile(numPoints, level, workers int) {
	fmt.Printf("Profiling with %d points at level %d\n", numPoints, level)

	// Deterministic seed for reproducibility
	features := itemsource.GenerateTestFeatures(numPoints, itemsource.ContinentalUS, 42)
	r := profile(features, level, workers)

	fmt.Printf("Ingest into %d levels completed in %v\n", cluster.NumLevels, r.ingest)
	fmt.Printf("Flush of %d clusters completed in %v\n", r.clusters, r.flush)
	fmt.Printf("Render of %s GeoJSON completed in %v\n", itemsource.FormatFileSize(int64(r.bytes)), r.render)
	fmt.Printf("Memory allocated: %.2f MB\n", r.allocMB)
}

func runStorageProfile(numPoints int) {
	dir, err := os.MkdirTemp("", "lodcluster-profile")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not create temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	features := itemsource.GenerateTestFeatures(numPoints, itemsource.ContinentalUS, 42)
	formats := []struct {
		name string
		ext  string
		save func(string, []*itemsource.Feature) error
		load func(string) ([]*itemsource.Feature, error)
	}{
		{"zstd", ".zst", itemsource.SaveCompressed, itemsource.LoadCompressed},
		{"mmap", ".bin", itemsource.SaveMMap, itemsource.LoadMMap},
	}

	for _, f := range formats {
		path := filepath.Join(dir, "features"+f.ext)

		start := time.Now()
		if err := f.save(path, features); err != nil {
			fmt.Fprintf(os.Stderr, "Could not save %s file: %v\n", f.name, err)
			continue
		}
		saveDuration := time.Since(start)

		start = time.Now()
		loaded, err := f.load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load %s file: %v\n", f.name, err)
			continue
		}
		loadDuration := time.Since(start)

		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		fmt.Printf("%s: saved in %v, loaded %d features in %v (file size: %s)\n",
			f.name, saveDuration, len(loaded), loadDuration, itemsource.FormatFileSize(size))
	}
}

func runProfileBattery(workers int) {
	pointCounts := []int{1000, 10000, 50000, 100000}
	levels := []int{2, 5, 8, 12, 15, 19}

	fmt.Println("Running comprehensive profile battery...")
	fmt.Println("=======================================")

	// Table header
	fmt.Printf("%-10s | %-6s | %-12s | %-12s | %-12s | %-9s | %-11s | %-7s\n",
		"Points", "Level", "Ingest", "Flush", "Render", "Clusters", "Memory (MB)", "GC Runs")
	fmt.Printf("%s\n", "-----------------------------------------------------------------------------------------------")

	for _, points := range pointCounts {
		features := itemsource.GenerateTestFeatures(points, itemsource.ContinentalUS, 42)
		for _, level := range levels {
			r := profile(features, level, workers)
			fmt.Printf("%-10d | %-6d | %-12s | %-12s | %-12s | %-9d | %-11.2f | %-7d\n",
				points, level, r.ingest, r.flush, r.render, r.clusters, r.allocMB, r.gcRuns)
		}

		// Add separator between point counts
		fmt.Printf("%s\n", "-----------------------------------------------------------------------------------------------")
	}
}

func main() {
	flag.Parse()

	if *lodLevel < cluster.MinLevel || *lodLevel > cluster.MaxLevel {
		fmt.Fprintf(os.Stderr, "Level must be between %d and %d\n", cluster.MinLevel, cluster.MaxLevel)
		os.Exit(2)
	}

	// Set up CPU profiling if requested
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			return
		}
		defer f.Close()

		fmt.Println("Starting CPU profiling...")
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return
		}
		defer pprof.StopCPUProfile()
	}

	// Run tests
	if *testall {
		runProfileBattery(*concurrency)
	} else {
		runSingleProfile(*numPoints, *lodLevel, *concurrency)
	}
	if *storage {
		runStorageProfile(*numPoints)
	}

	// Write memory profile if requested
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create memory profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC() // Get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write memory profile: %v\n", err)
		}
	}

	// Write heap profile if requested
	if *heapprofile != "" {
		f, err := os.Create(*heapprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create heap profile: %v\n", err)
			return
		}
		defer f.Close()

		memProfile := pprof.Lookup("heap")
		if memProfile == nil {
			fmt.Fprintf(os.Stderr, "Could not find heap profile\n")
			return
		}

		if err := memProfile.WriteTo(f, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write heap profile: %v\n", err)
		}
	}
}
