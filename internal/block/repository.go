package block

import (
	"context"
	"time"
)

// Repository defines the storage interface for blocks.
type Repository interface {
	// LoadBlocks returns every block planned for the given month, in storage order.
	LoadBlocks(ctx context.Context, year int, month time.Month) ([]*Block, error)

	// SaveBlock inserts or replaces a block together with its payload rows.
	SaveBlock(ctx context.Context, b *Block) error

	// SaveBlocks saves multiple blocks atomically.
	SaveBlocks(ctx context.Context, blocks []*Block) error

	// DeleteBlock removes a block and its payload rows.
	DeleteBlock(ctx context.Context, id string) error

	// BulkDeleteBlocks removes multiple blocks atomically.
	BulkDeleteBlocks(ctx context.Context, ids []string) error

	// Close releases any resources held by the repository.
	Close() error
}
