package itemsource

import "errors"

var (
	// ErrBadMagic is returned when a file does not start with the dataset magic.
	ErrBadMagic = errors.New("itemsource: not a dataset file")
	// ErrUnsupportedVersion is returned for dataset files written by a newer format.
	ErrUnsupportedVersion = errors.New("itemsource: unsupported dataset version")
	// ErrCorruptRecord is returned when a record declares an impossible length.
	ErrCorruptRecord = errors.New("itemsource: corrupt record")
	// ErrDatasetNotFound is returned by the catalogue for unknown ids.
	ErrDatasetNotFound = errors.New("itemsource: dataset not found")
)
