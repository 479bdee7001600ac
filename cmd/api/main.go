package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"web/lodcluster/gateway"
	"web/lodcluster/proto"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	runnerAddr := flag.String("runner", "localhost:50051", "Address of the cluster runner")
	flag.Parse()

	// Connect to cluster runner
	conn, err := grpc.NewClient(*runnerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Printf("Failed to connect to cluster runner: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	gin.SetMode(gin.ReleaseMode)
	server := gateway.NewServer(proto.NewClusterServiceClient(conn))
	srv := &http.Server{
		Addr:    *addr,
		Handler: server.Router(nil),
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
