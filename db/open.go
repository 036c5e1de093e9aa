package db

import (
	"context"
	"fmt"
)

// Store is a KV that holds resources until closed.
type Store interface {
	KV
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Driver          string // memory, file or firestore
	FilePath        string
	ProjectID       string
	CredentialsPath string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryKV(), nil
	case "file":
		kv, err := NewFileKV(opts.FilePath)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case "firestore":
		fs, err := NewFirestoreDB(ctx, opts.ProjectID, opts.CredentialsPath)
		if err != nil {
			return nil, err
		}
		return fs, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// Close is a no-op; MemoryKV holds no resources.
func (m *MemoryKV) Close() error { return nil }

// Close is a no-op; every write is already flushed.
func (f *FileKV) Close() error { return nil }
