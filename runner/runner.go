package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
	"web/lodcluster/cluster"
	"web/lodcluster/display"
	"web/lodcluster/itemsource"
	"web/lodcluster/metrics"
	pb "web/lodcluster/proto"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultMaxDatasets = 5
	DefaultIdleTimeout = 30 * time.Minute

	// MaxCreatePoints bounds the size of generated datasets.
	MaxCreatePoints = 5_000_000
)

type dataset struct {
	info         itemsource.DatasetInfo
	index        *cluster.ClusterIndex[*itemsource.Feature]
	lastAccessed time.Time
}

// ClusterRunner serves ClusterService over the datasets of a catalogue. At
// most maxDatasets indexes are held in memory; the least recently used one
// is dropped to make room, and idle ones are dropped in the background.
type ClusterRunner struct {
	pb.UnimplementedClusterServiceServer

	catalogue   *itemsource.Catalogue
	datasets    map[string]*dataset
	datasetLock sync.RWMutex
	maxDatasets int
	idleTimeout time.Duration

	indexOptions []cluster.Option
	logger       *cluster.Logger
	metrics      *metrics.Prometheus
	now          func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a ClusterRunner.
type Option func(*ClusterRunner)

// WithLogger sets the runner logger. It is also handed to every index.
func WithLogger(l *cluster.Logger) Option {
	return func(r *ClusterRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics reports index and registry activity to p.
func WithMetrics(p *metrics.Prometheus) Option {
	return func(r *ClusterRunner) { r.metrics = p }
}

// WithIdleTimeout sets how long an unused dataset stays in memory.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *ClusterRunner) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithIndexOptions adds options used for every index the runner builds.
func WithIndexOptions(opts ...cluster.Option) Option {
	return func(r *ClusterRunner) { r.indexOptions = append(r.indexOptions, opts...) }
}

// NewClusterRunner creates a runner and starts its idle sweeper. Call Close
// to stop the sweeper.
func NewClusterRunner(catalogue *itemsource.Catalogue, maxDatasets int, opts ...Option) *ClusterRunner {
	if maxDatasets < 1 {
		maxDatasets = DefaultMaxDatasets
	}
	r := &ClusterRunner{
		catalogue:   catalogue,
		datasets:    make(map[string]*dataset),
		maxDatasets: maxDatasets,
		idleTimeout: DefaultIdleTimeout,
		logger:      cluster.NoopLogger(),
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.cleanupInactiveDatasets()
	return r
}

// Close stops the idle sweeper. Loaded datasets stay usable.
func (r *ClusterRunner) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *ClusterRunner) cleanupInactiveDatasets() {
	interval := r.idleTimeout / 6
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

// evictIdle drops datasets not used within the idle timeout and returns
// their ids. Evicted indexes are left intact for requests still reading them.
func (r *ClusterRunner) evictIdle() []string {
	r.datasetLock.Lock()
	defer r.datasetLock.Unlock()

	now := r.now()
	var removed []string
	for id, d := range r.datasets {
		if now.Sub(d.lastAccessed) > r.idleTimeout {
			delete(r.datasets, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		r.logger.Info("idle datasets evicted", "ids", removed)
		r.reportLoadedLocked()
	}
	return removed
}

// evictOldestLocked makes room for one more dataset.
func (r *ClusterRunner) evictOldestLocked() {
	for len(r.datasets) >= r.maxDatasets {
		var oldestID string
		var oldestTime time.Time
		first := true
		for id, d := range r.datasets {
			if first || d.lastAccessed.Before(oldestTime) {
				oldestID = id
				oldestTime = d.lastAccessed
				first = false
			}
		}
		if oldestID == "" {
			return
		}
		delete(r.datasets, oldestID)
		r.logger.Info("least recently used dataset evicted", "id", oldestID)
	}
}

func (r *ClusterRunner) reportLoadedLocked() {
	if r.metrics != nil {
		r.metrics.SetDatasetsLoaded(len(r.datasets))
	}
}

func (r *ClusterRunner) newIndex() *cluster.ClusterIndex[*itemsource.Feature] {
	opts := []cluster.Option{cluster.WithLogger(r.logger)}
	if r.metrics != nil {
		opts = append(opts, cluster.WithMetrics(r.metrics))
	}
	opts = append(opts, r.indexOptions...)
	return cluster.New[*itemsource.Feature](opts...)
}

// Loaded reports whether the dataset is held in memory.
func (r *ClusterRunner) Loaded(id string) bool {
	r.datasetLock.RLock()
	defer r.datasetLock.RUnlock()
	_, ok := r.datasets[id]
	return ok
}

func (r *ClusterRunner) addLocked(info itemsource.DatasetInfo, index *cluster.ClusterIndex[*itemsource.Feature]) *dataset {
	r.evictOldestLocked()
	d := &dataset{info: info, index: index, lastAccessed: r.now()}
	r.datasets[info.ID] = d
	r.reportLoadedLocked()
	return d
}

// loadIfNeeded returns the dataset, reading it from the catalogue when it
// is not in memory.
func (r *ClusterRunner) loadIfNeeded(id string) (*dataset, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "dataset id is required")
	}

	r.datasetLock.Lock()
	defer r.datasetLock.Unlock()

	if d, ok := r.datasets[id]; ok {
		d.lastAccessed = r.now()
		return d, nil
	}

	start := time.Now()
	features, info, err := r.catalogue.Load(id)
	if err != nil {
		return nil, toStatus(fmt.Errorf("failed to load dataset %s: %w", id, err))
	}

	index := r.newIndex()
	stats := index.Add(features)
	r.logger.Info("dataset loaded",
		"id", id,
		"features", len(features),
		"skipped", stats[0].Skipped,
		"duration", time.Since(start),
	)
	return r.addLocked(info, index), nil
}

func (r *ClusterRunner) ListDatasets(ctx context.Context, req *pb.ListDatasetsRequest) (*pb.ListDatasetsResponse, error) {
	datasets, err := r.catalogue.List()
	if err != nil {
		return nil, toStatus(err)
	}

	r.datasetLock.RLock()
	defer r.datasetLock.RUnlock()

	out := make([]*pb.DatasetInfo, len(datasets))
	for i, d := range datasets {
		_, loaded := r.datasets[d.ID]
		out[i] = toDatasetInfo(d, loaded)
	}
	return &pb.ListDatasetsResponse{Datasets: out}, nil
}

func (r *ClusterRunner) CreateDataset(ctx context.Context, req *pb.CreateDatasetRequest) (*pb.CreateDatasetResponse, error) {
	if req.NumPoints <= 0 || req.NumPoints > MaxCreatePoints {
		return nil, status.Errorf(codes.InvalidArgument, "numPoints must be between 1 and %d, got %d", MaxCreatePoints, req.NumPoints)
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	features := itemsource.GenerateTestFeatures(int(req.NumPoints), itemsource.ContinentalUS, seed)
	index := r.newIndex()
	index.Add(features)

	info, err := r.catalogue.Save(features)
	if err != nil {
		return nil, toStatus(fmt.Errorf("failed to save dataset: %w", err))
	}
	r.logger.Info("dataset created",
		"id", info.ID,
		"features", len(features),
		"file_size", itemsource.FormatFileSize(info.FileSize),
		"duration", time.Since(start),
	)

	r.datasetLock.Lock()
	r.addLocked(info, index)
	r.datasetLock.Unlock()

	return &pb.CreateDatasetResponse{Dataset: toDatasetInfo(info, true)}, nil
}

func (r *ClusterRunner) LoadDataset(ctx context.Context, req *pb.LoadDatasetRequest) (*pb.LoadDatasetResponse, error) {
	d, err := r.loadIfNeeded(req.DatasetId)
	if err != nil {
		return nil, err
	}
	return &pb.LoadDatasetResponse{
		Dataset:   toDatasetInfo(d.info, true),
		ItemCount: int32(d.index.ItemCount()),
	}, nil
}

// levelForScale validates the request and returns the level ready for
// display.
func (r *ClusterRunner) levelForScale(id string, scale float64, minClusterCount int32) (*cluster.LevelGrid[*itemsource.Feature], error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "scale must be a positive finite number, got %v", scale)
	}
	if minClusterCount < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "minClusterCount must not be negative, got %d", minClusterCount)
	}

	d, err := r.loadIfNeeded(id)
	if err != nil {
		return nil, err
	}
	grid, ok := d.index.ClusterProvider(scale)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "no level of detail for scale %v", scale)
	}
	grid.EnsureClustersReadyForDisplay()
	return grid, nil
}

func (r *ClusterRunner) GetClusters(ctx context.Context, req *pb.GetClustersRequest) (*pb.GetClustersResponse, error) {
	grid, err := r.levelForScale(req.DatasetId, req.Scale, req.MinClusterCount)
	if err != nil {
		return nil, err
	}

	adapter := display.NewAdapter[*itemsource.Feature](r.logger)
	if req.MinClusterCount > 0 {
		adapter.MinClusterCount = int(req.MinClusterCount)
	}
	adapter.ShowCoverages = req.IncludeCoverages

	clusters := grid.Clusters()
	fc, err := json.Marshal(adapter.FeatureCollection(clusters))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode features: %v", err)
	}

	return &pb.GetClustersResponse{
		Level:             toLevelInfo(grid),
		ClusterCount:      int32(len(clusters)),
		FeatureCollection: fc,
	}, nil
}

func (r *ClusterRunner) GetSummary(ctx context.Context, req *pb.GetSummaryRequest) (*pb.GetSummaryResponse, error) {
	grid, err := r.levelForScale(req.DatasetId, req.Scale, req.MinClusterCount)
	if err != nil {
		return nil, err
	}

	k := int(req.MinClusterCount)
	if k == 0 {
		k = display.DefaultMinClusterCount
	}
	summary := cluster.CalculateMetadataSummary(grid.Clusters(), k)

	return &pb.GetSummaryResponse{
		Level:           toLevelInfo(grid),
		TotalPoints:     int32(summary.TotalPoints),
		NumClusters:     int32(summary.NumClusters),
		NumSinglePoints: int32(summary.NumSinglePoints),
		MetricsSummary:  convertMetricsSummary(summary.MetricsSummary),
		MetadataSummary: convertMetadataSummary(summary.MetadataSummary),
	}, nil
}

func (r *ClusterRunner) RemoveAllItems(ctx context.Context, req *pb.RemoveAllItemsRequest) (*pb.RemoveAllItemsResponse, error) {
	d, err := r.loadIfNeeded(req.DatasetId)
	if err != nil {
		return nil, err
	}

	r.datasetLock.Lock()
	defer r.datasetLock.Unlock()
	removed := d.index.ItemCount()
	d.index.RemoveAllItems()
	return &pb.RemoveAllItemsResponse{Removed: int32(removed)}, nil
}

// toStatus maps catalogue and I/O errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, itemsource.ErrDatasetNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
