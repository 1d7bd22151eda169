package gateway

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)

// All backend contracts in one file
type (
	// DocumentStore persists JSON documents grouped by database and collection
	DocumentStore interface {
		CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error)
		GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error)
		UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error)
		ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error)
	}

	// UserDirectory owns patient accounts. CreateUser fails with ErrConflict when the email is taken.
	UserDirectory interface {
		CreateUser(ctx context.Context, userID, email, phone, name string) (*User, error)
		GetUser(ctx context.Context, userID string) (*User, error)
		ListUsers(ctx context.Context, queries ...Query) (*UserList, error)
	}

	FileStorage interface {
		CreateFile(ctx context.Context, bucketID, fileID string, file InputFile) (*File, error)
		// FileViewURL builds the public view URL of a stored file
		FileViewURL(bucketID, fileID string) string
	}

	Messenger interface {
		CreateSMS(ctx context.Context, messageID, content string, topics, userIDs []string) (*Receipt, error)
	}

	// Pinger is implemented by drivers that can report readiness
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

type InputFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Collections names where the application keeps its documents
type Collections struct {
	DatabaseID              string
	PatientCollectionID     string
	AppointmentCollectionID string
	BucketID                string
}

// Backend bundles the handles a service needs. It is built once at startup and injected.
type Backend struct {
	Documents   DocumentStore
	Users       UserDirectory
	Files       FileStorage
	Messages    Messenger
	Collections Collections
}

// Ping checks every driver that supports it, once per driver
func (b Backend) Ping(ctx context.Context) error {
	seen := map[any]bool{}
	for _, h := range []any{b.Documents, b.Users, b.Files, b.Messages} {
		for w, ok := h.(wrapper); ok; w, ok = h.(wrapper) {
			h = w.unwrap()
		}
		p, ok := h.(Pinger)
		if !ok || seen[h] {
			continue
		}
		seen[h] = true
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
