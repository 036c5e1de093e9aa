package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/apex/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const kvCollection = "kv"

// FirestoreDB wraps the Firestore client and exposes it as a KV store,
// one document per key.
type FirestoreDB struct {
	client *firestore.Client
}

type kvDocument struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// NewFirestoreDB initializes a new Firestore client
func NewFirestoreDB(ctx context.Context, projectID, credentialsPath string) (*FirestoreDB, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.WithField("project", projectID).Info("✅ Connected to Firestore")

	return &FirestoreDB{client: client}, nil
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.client.Close()
}

// Get retrieves the value stored under key
func (db *FirestoreDB) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := db.client.Collection(kvCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var d kvDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return []byte(d.Value), nil
}

// Set overwrites the document for key
func (db *FirestoreDB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.client.Collection(kvCollection).Doc(key).Set(ctx, kvDocument{
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes the document for key
func (db *FirestoreDB) Delete(ctx context.Context, key string) error {
	_, err := db.client.Collection(kvCollection).Doc(key).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
