package storage

import (
	"context"

	"housing-manager/models"
)

// ListingWriter is the interface any export backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

var (
	_ ListingWriter = (*CSVWriter)(nil)
	_ ListingReader = (*PostgresStore)(nil)
)

// ListingReader reads back what a store holds.
type ListingReader interface {
	FetchAll(ctx context.Context) ([]*models.Listing, error)
	Metadata(ctx context.Context) (*models.StoreMetadata, error)
}

// SessionStore keeps the serialized signed-in user between runs.
type SessionStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}
