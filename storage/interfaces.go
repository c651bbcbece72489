package storage

import "github.com/kaitlin-del/SiteSheets/models"

// RecordWriter is the interface any result sink must satisfy.
type RecordWriter interface {
	Append(item models.BatchItem) error
	Close() error
}
