package runner

import (
	"fmt"
	"time"
	"web/lodcluster/cluster"
	"web/lodcluster/itemsource"

	pb "web/lodcluster/proto"
)

// convertMetricsSummary converts cluster.MetricStats to proto.MetricStats
func convertMetricsSummary(metrics map[string]cluster.MetricStats) map[string]*pb.MetricStats {
	result := make(map[string]*pb.MetricStats, len(metrics))
	for k, v := range metrics {
		result[k] = &pb.MetricStats{
			Min:     float64(v.Min),
			Max:     float64(v.Max),
			Sum:     float64(v.Sum),
			Average: float64(v.Average),
		}
	}
	return result
}

// convertMetadataSummary maps each summary value onto the one MetadataValue
// field that fits it.
func convertMetadataSummary(metadata map[string]interface{}) map[string]*pb.MetadataValue {
	result := make(map[string]*pb.MetadataValue, len(metadata))
	for k, v := range metadata {
		switch v := v.(type) {
		case map[string]float64:
			result[k] = &pb.MetadataValue{Distribution: &pb.Distribution{Values: v}}
		case map[string]string:
			result[k] = &pb.MetadataValue{TimeRange: &pb.TimeRange{
				Earliest: v["start"],
				Latest:   v["end"],
			}}
		case string:
			result[k] = &pb.MetadataValue{SingleValue: v}
		default:
			result[k] = &pb.MetadataValue{SingleValue: fmt.Sprint(v)}
		}
	}
	return result
}

func toDatasetInfo(info itemsource.DatasetInfo, loaded bool) *pb.DatasetInfo {
	return &pb.DatasetInfo{
		Id:        info.ID,
		NumPoints: int32(info.NumPoints),
		Timestamp: info.Timestamp.Format(time.RFC3339),
		FileSize:  info.FileSize,
		Loaded:    loaded,
	}
}

func toLevelInfo[T cluster.Item](grid *cluster.LevelGrid[T]) *pb.LevelInfo {
	return &pb.LevelInfo{
		Level:      int32(grid.Level()),
		Name:       grid.Name(),
		Scale:      grid.Scale(),
		Resolution: grid.Resolution(),
		CellSize:   grid.CellSize().Width,
	}
}
