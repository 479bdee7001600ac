package proto

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	UnimplementedClusterServiceServer
}

func (echoServer) CreateDataset(_ context.Context, req *CreateDatasetRequest) (*CreateDatasetResponse, error) {
	return &CreateDatasetResponse{Dataset: &DatasetInfo{Id: "abcd1234", NumPoints: req.NumPoints}}, nil
}

func dial(t *testing.T, srv ClusterServiceServer, opts ...grpc.ServerOption) ClusterServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterClusterServiceServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewClusterServiceClient(conn)
}

func TestServiceOverJSONCodec(t *testing.T) {
	var seen []string
	interceptor := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	client := dial(t, echoServer{}, grpc.UnaryInterceptor(interceptor))

	resp, err := client.CreateDataset(context.Background(), &CreateDatasetRequest{NumPoints: 42})
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", resp.Dataset.Id)
	assert.Equal(t, int32(42), resp.Dataset.NumPoints)

	_, err = client.GetSummary(context.Background(), &GetSummaryRequest{DatasetId: "x"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	assert.Equal(t, []string{ClusterService_CreateDataset_FullMethodName, ClusterService_GetSummary_FullMethodName}, seen)
}

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&GetClustersResponse{
		Level:             &LevelInfo{Level: 3, Name: "LOD Level 3"},
		FeatureCollection: json.RawMessage(`{"type":"FeatureCollection","features":[]}`),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"featureCollection":{"type":"FeatureCollection"`)

	var out GetClustersResponse
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, int32(3), out.Level.Level)

	require.NoError(t, c.Unmarshal(nil, &out), "empty messages decode to the zero value")
	assert.Error(t, c.Unmarshal([]byte("{"), &out))
}
