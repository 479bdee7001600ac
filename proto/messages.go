// Package proto defines the ClusterService wire contract shared by the
// runner and its clients. Messages are plain structs carried by the JSON
// codec registered in this package.
package proto

import "encoding/json"

type DatasetInfo struct {
	Id        string `json:"id"`
	NumPoints int32  `json:"numPoints"`
	Timestamp string `json:"timestamp"`
	FileSize  int64  `json:"fileSize"`
	Loaded    bool   `json:"loaded"`
}

type ListDatasetsRequest struct{}

type ListDatasetsResponse struct {
	Datasets []*DatasetInfo `json:"datasets"`
}

type CreateDatasetRequest struct {
	NumPoints int32 `json:"numPoints"`
	Seed      int64 `json:"seed"`
}

type CreateDatasetResponse struct {
	Dataset *DatasetInfo `json:"dataset"`
}

type LoadDatasetRequest struct {
	DatasetId string `json:"datasetId"`
}

type LoadDatasetResponse struct {
	Dataset   *DatasetInfo `json:"dataset"`
	ItemCount int32        `json:"itemCount"`
}

// LevelInfo describes the level chosen for a scale.
type LevelInfo struct {
	Level      int32   `json:"level"`
	Name       string  `json:"name"`
	Scale      float64 `json:"scale"`
	Resolution float64 `json:"resolution"`
	CellSize   float64 `json:"cellSize"`
}

type GetClustersRequest struct {
	DatasetId        string  `json:"datasetId"`
	Scale            float64 `json:"scale"`
	MinClusterCount  int32   `json:"minClusterCount"`
	IncludeCoverages bool    `json:"includeCoverages"`
}

type GetClustersResponse struct {
	Level        *LevelInfo `json:"level"`
	ClusterCount int32      `json:"clusterCount"`
	// FeatureCollection is a GeoJSON FeatureCollection.
	FeatureCollection json.RawMessage `json:"featureCollection"`
}

type GetSummaryRequest struct {
	DatasetId       string  `json:"datasetId"`
	Scale           float64 `json:"scale"`
	MinClusterCount int32   `json:"minClusterCount"`
}

type MetricStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
}

type Distribution struct {
	Values map[string]float64 `json:"values"`
}

type TimeRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// MetadataValue holds exactly one of its fields.
type MetadataValue struct {
	Distribution *Distribution `json:"distribution,omitempty"`
	TimeRange    *TimeRange    `json:"timeRange,omitempty"`
	SingleValue  string        `json:"singleValue,omitempty"`
}

type GetSummaryResponse struct {
	Level           *LevelInfo                `json:"level"`
	TotalPoints     int32                     `json:"totalPoints"`
	NumClusters     int32                     `json:"numClusters"`
	NumSinglePoints int32                     `json:"numSinglePoints"`
	MetricsSummary  map[string]*MetricStats   `json:"metricsSummary"`
	MetadataSummary map[string]*MetadataValue `json:"metadataSummary"`
}

type RemoveAllItemsRequest struct {
	DatasetId string `json:"datasetId"`
}

type RemoveAllItemsResponse struct {
	Removed int32 `json:"removed"`
}
