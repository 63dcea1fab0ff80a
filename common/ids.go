package common

import "github.com/google/uuid"

// NewID returns a fresh process-generated opaque identifier. Transfer,
// file and block IDs are all drawn from the same space; block IDs are
// additionally reused as the block name in the blob-store commit step,
// so they must never collide and must be stable across resumes.
func NewID() string {
	return uuid.New().String()
}

// BlockName returns the name a block ID is registered under on the
// remote store. Equal to the block's opaque ID bytes.
func BlockName(blockID string) string {
	return blockID
}
