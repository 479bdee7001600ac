// Package gateway exposes ClusterService over HTTP with gin.
package gateway

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
	"web/lodcluster/proto"
	"web/lodcluster/runner"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const requestTimeout = 2 * time.Minute

type Server struct {
	clusterClient proto.ClusterServiceClient
}

func NewServer(clusterClient proto.ClusterServiceClient) *Server {
	return &Server{clusterClient: clusterClient}
}

// Router builds the gin engine. metrics is served at /metrics when not nil.
func (s *Server) Router(metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors())

	api := r.Group("/api/datasets")
	api.GET("", s.listDatasets)
	api.POST("", s.createDataset)
	api.POST("/:id/load", s.loadDataset)
	api.GET("/:id/clusters", s.getClusters)
	api.GET("/:id/summary", s.getSummary)
	api.DELETE("/:id/items", s.removeAllItems)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) listDatasets(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.ListDatasets(ctx, &proto.ListDatasetsRequest{})
	if err != nil {
		writeError(c, err)
		return
	}
	datasets := resp.Datasets
	if datasets == nil {
		datasets = []*proto.DatasetInfo{}
	}
	c.JSON(http.StatusOK, datasets)
}

func (s *Server) createDataset(c *gin.Context) {
	var req struct {
		NumPoints int   `json:"numPoints"`
		Seed      int64 `json:"seed"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.NumPoints < 1 || req.NumPoints > runner.MaxCreatePoints {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("numPoints must be between 1 and %d", runner.MaxCreatePoints)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.CreateDataset(ctx, &proto.CreateDatasetRequest{
		NumPoints: int32(req.NumPoints),
		Seed:      req.Seed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.Dataset)
}

func (s *Server) loadDataset(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.LoadDataset(ctx, &proto.LoadDatasetRequest{DatasetId: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Dataset loaded successfully",
		"dataset":   resp.Dataset,
		"itemCount": resp.ItemCount,
	})
}

func (s *Server) getClusters(c *gin.Context) {
	scale, ok := scaleFromQuery(c)
	if !ok {
		return
	}
	minClusterCount, ok := minClusterCountFromQuery(c)
	if !ok {
		return
	}
	coverages := false
	if v := c.Query("coverages"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coverages parameter"})
			return
		}
		coverages = b
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.GetClusters(ctx, &proto.GetClustersRequest{
		DatasetId:        c.Param("id"),
		Scale:            scale,
		MinClusterCount:  minClusterCount,
		IncludeCoverages: coverages,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-LOD-Level", strconv.Itoa(int(resp.Level.Level)))
	c.Data(http.StatusOK, "application/geo+json", resp.FeatureCollection)
}

func (s *Server) getSummary(c *gin.Context) {
	scale, ok := scaleFromQuery(c)
	if !ok {
		return
	}
	minClusterCount, ok := minClusterCountFromQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.GetSummary(ctx, &proto.GetSummaryRequest{
		DatasetId:       c.Param("id"),
		Scale:           scale,
		MinClusterCount: minClusterCount,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	// Flatten metadata values into the shapes the map client reads.
	metadataSummary := make(map[string]interface{}, len(resp.MetadataSummary))
	for key, value := range resp.MetadataSummary {
		if value.Distribution != nil {
			metadataSummary[key] = map[string]interface{}{
				"distribution": map[string]interface{}{
					"values": value.Distribution.Values,
				},
			}
		} else if value.TimeRange != nil {
			metadataSummary[key] = map[string]interface{}{
				"earliest": value.TimeRange.Earliest,
				"latest":   value.TimeRange.Latest,
			}
		} else if value.SingleValue != "" {
			metadataSummary[key] = value.SingleValue
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"level":           resp.Level,
		"totalPoints":     resp.TotalPoints,
		"numClusters":     resp.NumClusters,
		"numSinglePoints": resp.NumSinglePoints,
		"metricsSummary":  resp.MetricsSummary,
		"metadataSummary": metadataSummary,
	})
}

func (s *Server) removeAllItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := s.clusterClient.RemoveAllItems(ctx, &proto.RemoveAllItemsRequest{DatasetId: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": resp.Removed})
}

// scaleFromQuery writes a 400 and reports false when scale is missing or
// not a positive finite number.
func scaleFromQuery(c *gin.Context) (float64, bool) {
	scale, err := strconv.ParseFloat(c.Query("scale"), 64)
	if err != nil || math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scale parameter"})
		return 0, false
	}
	return scale, true
}

func minClusterCountFromQuery(c *gin.Context) (int32, bool) {
	v := c.Query("minClusterCount")
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minClusterCount parameter"})
		return 0, false
	}
	return int32(n), true
}

func writeError(c *gin.Context, err error) {
	st, _ := status.FromError(err)
	c.JSON(httpStatus(st.Code()), gin.H{"error": st.Message()})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
