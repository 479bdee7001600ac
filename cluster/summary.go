package cluster

import (
	"fmt"
	"time"
)

type MetadataSummary struct {
	TotalPoints     int                    `json:"totalPoints"`
	NumClusters     int                    `json:"numClusters"`
	NumSinglePoints int                    `json:"numSinglePoints"`
	MetricsSummary  map[string]MetricStats `json:"metricsSummary"`
	MetadataSummary map[string]interface{} `json:"metadataSummary"`
}

type MetricStats struct {
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
	Sum     float32 `json:"sum"`
	Average float32 `json:"average"`
}

// CalculateMetadataSummary rolls up the merged items of clusters as they
// would be displayed with minClusterCount: clusters below the threshold
// count their items as single points.
func CalculateMetadataSummary[T Item](clusters []*Cluster[T], minClusterCount int) MetadataSummary {
	summary := MetadataSummary{
		MetricsSummary:  make(map[string]MetricStats),
		MetadataSummary: make(map[string]interface{}),
	}

	if len(clusters) == 0 {
		return summary
	}

	metricsMap := make(map[string]struct {
		min   float32
		max   float32
		sum   float32
		count int
	})

	metadataFreq := make(map[string]map[string]int)
	timestampStats := struct {
		min   time.Time
		max   time.Time
		count int
	}{}

	for _, c := range clusters {
		items := c.Items()
		if len(items) == 0 {
			continue
		}
		if len(items) >= minClusterCount {
			summary.NumClusters++
		} else {
			summary.NumSinglePoints += len(items)
		}
		summary.TotalPoints += len(items)

		for _, item := range items {
			if m, ok := any(item).(Measured); ok {
				for metricName, value := range m.MetricValues() {
					stats, exists := metricsMap[metricName]
					if !exists || value < stats.min {
						stats.min = value
					}
					if !exists || value > stats.max {
						stats.max = value
					}
					stats.sum += value
					stats.count++
					metricsMap[metricName] = stats
				}
			}

			d, ok := any(item).(Described)
			if !ok {
				continue
			}
			for key, value := range d.MetadataValues() {
				switch v := value.(type) {
				case time.Time:
					if timestampStats.count == 0 || v.Before(timestampStats.min) {
						timestampStats.min = v
					}
					if timestampStats.count == 0 || v.After(timestampStats.max) {
						timestampStats.max = v
					}
					timestampStats.count++
				default:
					if _, exists := metadataFreq[key]; !exists {
						metadataFreq[key] = make(map[string]int)
					}
					metadataFreq[key][fmt.Sprint(v)]++
				}
			}
		}
	}

	for metricName, stats := range metricsMap {
		summary.MetricsSummary[metricName] = MetricStats{
			Min:     stats.min,
			Max:     stats.max,
			Sum:     stats.sum,
			Average: stats.sum / float32(stats.count),
		}
	}

	if timestampStats.count > 0 {
		summary.MetadataSummary["timeRange"] = map[string]string{
			"start": timestampStats.min.Format(time.RFC3339),
			"end":   timestampStats.max.Format(time.RFC3339),
		}
	}

	for key, freqMap := range metadataFreq {
		if key == "category" {
			distribution := make(map[string]float64)
			total := 0
			for _, count := range freqMap {
				total += count
			}
			for value, count := range freqMap {
				distribution[value] = float64(count) / float64(total) * 100
			}
			summary.MetadataSummary[key] = distribution
			continue
		}

		// Ties go to the lexically smaller value so the answer is stable.
		var mostCommon string
		var maxCount int
		for value, count := range freqMap {
			if count > maxCount || (count == maxCount && value < mostCommon) {
				maxCount = count
				mostCommon = value
			}
		}
		summary.MetadataSummary[key] = mostCommon
	}

	return summary
}
