package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"web/lodcluster/cluster"
	"web/lodcluster/gateway"
	"web/lodcluster/itemsource"
	"web/lodcluster/metrics"
	"web/lodcluster/proto"
	"web/lodcluster/runner"

	"github.com/gin-gonic/gin"
)

const DATASET_DIR = "data/datasets"

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	dataDir := flag.String("data-dir", DATASET_DIR, "Directory holding dataset files")
	maxDatasets := flag.Int("max-datasets", runner.DefaultMaxDatasets, "Maximum number of datasets to keep in memory")
	numPoints := flag.Int("points", 0, "Generate a dataset with this many points at startup")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := cluster.NewTextLogger(level)

	// Ensure dataset directory exists
	absPath, _ := filepath.Abs(*dataDir)
	fmt.Printf("Ensuring dataset directory exists: %s\n", absPath)
	catalogue, err := itemsource.NewCatalogue(*dataDir)
	if err != nil {
		fmt.Printf("Error creating dataset directory: %v\n", err)
		os.Exit(1)
	}

	prom := metrics.NewPrometheus()
	clusterRunner := runner.NewClusterRunner(catalogue, *maxDatasets,
		runner.WithLogger(logger),
		runner.WithMetrics(prom),
	)
	defer clusterRunner.Close()

	if *numPoints > 0 {
		fmt.Printf("Generating dataset with %d points in the Continental US...\n", *numPoints)
		start := time.Now()
		resp, err := clusterRunner.CreateDataset(context.Background(), &proto.CreateDatasetRequest{NumPoints: int32(*numPoints)})
		if err != nil {
			fmt.Printf("ERROR: Failed to create dataset: %v\n", err)
		} else {
			fmt.Printf("Dataset %s created in %v (file size: %s)\n",
				resp.Dataset.Id, time.Since(start), itemsource.FormatFileSize(resp.Dataset.FileSize))
		}
	} else {
		fmt.Println("Started without a dataset - waiting for one to be created or loaded...")
	}

	gin.SetMode(gin.ReleaseMode)
	server := gateway.NewServer(runner.LocalClient(clusterRunner))
	srv := &http.Server{
		Addr:    *addr,
		Handler: server.Router(prom.Handler()),
	}

	// Create a channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		fmt.Printf("Starting server on %s...\n", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	fmt.Println("\nShutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
}
