package runner

import (
	"context"
	pb "web/lodcluster/proto"

	"google.golang.org/grpc"
)

// localClient calls a ClusterServiceServer in process. Call options are
// ignored.
type localClient struct {
	srv pb.ClusterServiceServer
}

// LocalClient lets the HTTP gateway talk to a runner in the same process.
func LocalClient(srv pb.ClusterServiceServer) pb.ClusterServiceClient {
	return localClient{srv: srv}
}

func (c localClient) ListDatasets(ctx context.Context, in *pb.ListDatasetsRequest, _ ...grpc.CallOption) (*pb.ListDatasetsResponse, error) {
	return c.srv.ListDatasets(ctx, in)
}

func (c localClient) CreateDataset(ctx context.Context, in *pb.CreateDatasetRequest, _ ...grpc.CallOption) (*pb.CreateDatasetResponse, error) {
	return c.srv.CreateDataset(ctx, in)
}

func (c localClient) LoadDataset(ctx context.Context, in *pb.LoadDatasetRequest, _ ...grpc.CallOption) (*pb.LoadDatasetResponse, error) {
	return c.srv.LoadDataset(ctx, in)
}

func (c localClient) GetClusters(ctx context.Context, in *pb.GetClustersRequest, _ ...grpc.CallOption) (*pb.GetClustersResponse, error) {
	return c.srv.GetClusters(ctx, in)
}

func (c localClient) GetSummary(ctx context.Context, in *pb.GetSummaryRequest, _ ...grpc.CallOption) (*pb.GetSummaryResponse, error) {
	return c.srv.GetSummary(ctx, in)
}

func (c localClient) RemoveAllItems(ctx context.Context, in *pb.RemoveAllItemsRequest, _ ...grpc.CallOption) (*pb.RemoveAllItemsResponse, error) {
	return c.srv.RemoveAllItems(ctx, in)
}
