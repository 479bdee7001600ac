package runner

import (
	"context"
	"path"
	"time"
	"web/lodcluster/cluster"
	"web/lodcluster/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryInterceptor logs every call and counts it by method and status code.
// p may be nil.
func UnaryInterceptor(logger *cluster.Logger, p *metrics.Prometheus) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		method := path.Base(info.FullMethod)
		code := status.Code(err)
		if p != nil {
			p.RecordRequest(method, code.String())
		}
		if err != nil {
			logger.Warn("request failed", "method", method, "code", code.String(), "error", err)
		} else {
			logger.Debug("request served", "method", method, "duration", time.Since(start))
		}
		return resp, err
	}
}
