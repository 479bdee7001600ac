package itemsource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	filenamePrefix  = "dataset"
	filenameExt     = ".zst"
	timestampLayout = "20060102-150405"
)

// DatasetInfo describes a saved dataset file.
type DatasetInfo struct {
	ID        string    `json:"id"`
	NumPoints int       `json:"numPoints"`
	Timestamp time.Time `json:"timestamp"`
	FileSize  int64     `json:"fileSize"`
	Path      string    `json:"-"`
}

// Catalogue manages the dataset files of one directory. File names carry
// the dataset metadata: dataset-{numPoints}p-{yyyymmdd-hhmmss}-{id}.zst.
type Catalogue struct {
	Dir string
	now func() time.Time
}

// NewCatalogue creates dir if needed.
func NewCatalogue(dir string) (*Catalogue, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}
	return &Catalogue{Dir: dir, now: time.Now}, nil
}

// NewFilename returns a fresh path and id for a dataset of numPoints.
func (c *Catalogue) NewFilename(numPoints int) (path, id string) {
	timestamp := c.now().Format(timestampLayout)
	id = uuid.New().String()[:8]
	name := fmt.Sprintf("%s-%dp-%s-%s%s", filenamePrefix, numPoints, timestamp, id, filenameExt)
	return filepath.Join(c.Dir, name), id
}

// Save writes features to a new compressed dataset file.
func (c *Catalogue) Save(features []*Feature) (DatasetInfo, error) {
	path, id := c.NewFilename(len(features))
	if err := SaveCompressed(path, features); err != nil {
		os.Remove(path)
		return DatasetInfo{}, err
	}
	return c.Info(id)
}

// Load reads the dataset with the given id.
func (c *Catalogue) Load(id string) ([]*Feature, DatasetInfo, error) {
	info, err := c.Info(id)
	if err != nil {
		return nil, DatasetInfo{}, err
	}
	features, err := LoadCompressed(info.Path)
	if err != nil {
		return nil, DatasetInfo{}, err
	}
	return features, info, nil
}

// List returns every dataset in the directory, newest first. Files whose
// names do not follow the dataset pattern are ignored.
func (c *Catalogue) List() ([]DatasetInfo, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	datasets := make([]DatasetInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseFilename(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		info.FileSize = fi.Size()
		info.Path = filepath.Join(c.Dir, entry.Name())
		datasets = append(datasets, info)
	}

	sort.Slice(datasets, func(i, j int) bool {
		if datasets[i].Timestamp.Equal(datasets[j].Timestamp) {
			return datasets[i].ID < datasets[j].ID
		}
		return datasets[i].Timestamp.After(datasets[j].Timestamp)
	})
	return datasets, nil
}

// Info returns the dataset with exactly this id.
func (c *Catalogue) Info(id string) (DatasetInfo, error) {
	datasets, err := c.List()
	if err != nil {
		return DatasetInfo{}, err
	}
	for _, d := range datasets {
		if d.ID == id {
			return d, nil
		}
	}
	return DatasetInfo{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
}

func parseFilename(filename string) (DatasetInfo, bool) {
	if filepath.Ext(filename) != filenameExt {
		return DatasetInfo{}, false
	}
	name := strings.TrimSuffix(filename, filenameExt)
	parts := strings.Split(name, "-")
	if len(parts) != 5 || parts[0] != filenamePrefix || !strings.HasSuffix(parts[1], "p") {
		return DatasetInfo{}, false
	}

	numPoints, err := strconv.Atoi(strings.TrimSuffix(parts[1], "p"))
	if err != nil || numPoints < 0 {
		return DatasetInfo{}, false
	}
	timestamp, err := time.Parse(timestampLayout, parts[2]+"-"+parts[3])
	if err != nil {
		return DatasetInfo{}, false
	}
	if parts[4] == "" {
		return DatasetInfo{}, false
	}

	return DatasetInfo{
		ID:        parts[4],
		NumPoints: numPoints,
		Timestamp: timestamp,
	}, true
}

// FormatFileSize renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
