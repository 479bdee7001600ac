package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"web/lodcluster/cluster"
	"web/lodcluster/itemsource"
	"web/lodcluster/metrics"
	"web/lodcluster/proto"
	"web/lodcluster/runner"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 50051, "The gRPC server port")
	metricsAddr := flag.String("metrics-addr", ":9090", "Address for the Prometheus metrics endpoint, empty to disable")
	dataDir := flag.String("data-dir", "data/datasets", "Directory holding dataset files")
	maxDatasets := flag.Int("max-datasets", runner.DefaultMaxDatasets, "Maximum number of datasets to keep in memory")
	idleTimeout := flag.Duration("idle-timeout", runner.DefaultIdleTimeout, "Drop datasets unused for this long")
	concurrency := flag.Int("ingest-concurrency", 4, "Levels ingested in parallel")
	jsonLogs := flag.Bool("json-logs", false, "Log JSON lines instead of text")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := cluster.NewTextLogger(level)
	if *jsonLogs {
		logger = cluster.NewJSONLogger(level)
	}

	catalogue, err := itemsource.NewCatalogue(*dataDir)
	if err != nil {
		fmt.Printf("Failed to open data directory: %v\n", err)
		os.Exit(1)
	}

	// Create listener
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		fmt.Printf("Failed to listen: %v\n", err)
		os.Exit(1)
	}

	prom := metrics.NewPrometheus()
	clusterRunner := runner.NewClusterRunner(catalogue, *maxDatasets,
		runner.WithLogger(logger),
		runner.WithMetrics(prom),
		runner.WithIdleTimeout(*idleTimeout),
		runner.WithIndexOptions(cluster.WithIngestConcurrency(*concurrency)),
	)
	defer clusterRunner.Close()

	// Create gRPC server
	s := grpc.NewServer(grpc.UnaryInterceptor(runner.UnaryInterceptor(logger, prom)))
	proto.RegisterClusterServiceServer(s, clusterRunner)

	// Reflection only lists ClusterService. Its messages use the JSON codec and
	// have no registered proto descriptors, so clients cannot describe them.
	reflection.Register(s)

	if *metricsAddr != "" {
		go func() {
			fmt.Printf("Serving metrics on %s/metrics\n", *metricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", prom.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				fmt.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	// Handle shutdown gracefully
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		fmt.Println("\nShutting down gRPC server...")
		s.GracefulStop()
	}()

	// Start server
	fmt.Printf("Starting gRPC server on port %d (datasets in %s)...\n", *port, *dataDir)
	if err := s.Serve(lis); err != nil {
		fmt.Printf("Failed to serve: %v\n", err)
		os.Exit(1)
	}
}
