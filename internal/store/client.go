package store

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
)

// Kind names for the two core collections plus the supplementary app
// domains. Every entity lives under a User ancestor key, which is the
// per-owner partition; queries without an ancestor are the cross-owner
// scan (the collection-group equivalent).
const (
	KindUser     = "User"
	KindTask     = "Task"
	KindProject  = "Project"
	KindEvent    = "Event"
	KindSpending = "Spending"
)

// Client wraps the Google Cloud Datastore client. It is constructed once
// at bootstrap and injected into each repository; nothing holds it as a
// process-wide singleton.
type Client struct {
	ds *datastore.Client
}

// NewClient creates a new Google Cloud Datastore client.
// The official client detects DATASTORE_EMULATOR_HOST automatically; we
// log it here for visibility during development.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		fmt.Printf("Initializing Datastore Client against Emulator at %s\n", emulatorHost)
	}

	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}

	return &Client{ds: ds}, nil
}

// DS exposes the underlying datastore client to the repositories.
func (c *Client) DS() *datastore.Client {
	return c.ds
}

// OwnerKey returns the ancestor key partitioning an owner's documents.
func OwnerKey(ownerID string) *datastore.Key {
	return datastore.NameKey(KindUser, ownerID, nil)
}

// Close closes the underlying datastore client.
func (c *Client) Close() error {
	return c.ds.Close()
}
