package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

// Message is an SMS captured in the outbox
type Message struct {
	ID      string
	Content string
	Topics  []string
	UserIDs []string
	SentAt  time.Time
}

type storedDocument struct {
	doc gateway.Document
	seq int64
}

type storedFile struct {
	file    gateway.File
	content []byte
}

// Backend keeps every document, user, file and message in process. It implements all
// gateway contracts and is meant for local development and tests.
type Backend struct {
	mu        sync.Mutex
	seq       int64
	now       func() time.Time
	baseURL   string
	documents map[string]map[string]*storedDocument
	users     map[string]gateway.User
	files     map[string]*storedFile
	outbox    []Message

	// FailSMS makes CreateSMS fail, for exercising notification failures
	FailSMS error
}

func New(baseURL string) *Backend {
	return &Backend{
		now:       time.Now,
		baseURL:   strings.TrimRight(baseURL, "/"),
		documents: make(map[string]map[string]*storedDocument),
		users:     make(map[string]gateway.User),
		files:     make(map[string]*storedFile),
	}
}

// Gateway returns a gateway.Backend served entirely by b
func (b *Backend) Gateway(collections gateway.Collections) gateway.Backend {
	return gateway.Backend{
		Documents:   b,
		Users:       b,
		Files:       b,
		Messages:    b,
		Collections: collections,
	}
}

func collectionKey(databaseID, collectionID string) string {
	return databaseID + "/" + collectionID
}

func (b *Backend) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	raw, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := collectionKey(databaseID, collectionID)
	coll, ok := b.documents[key]
	if !ok {
		coll = make(map[string]*storedDocument)
		b.documents[key] = coll
	}
	if _, exists := coll[documentID]; exists {
		return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrConflict)
	}

	now := b.now().UTC()
	b.seq++
	stored := &storedDocument{
		doc: gateway.Document{
			ID:           documentID,
			CollectionID: collectionID,
			CreatedAt:    now,
			UpdatedAt:    now,
			Data:         raw,
		},
		seq: b.seq,
	}
	coll[documentID] = stored
	doc := stored.doc
	return &doc, nil
}

func (b *Backend) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*gateway.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored, ok := b.documents[collectionKey(databaseID, collectionID)][documentID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrNotFound)
	}
	doc := stored.doc
	return &doc, nil
}

func (b *Backend) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	patch, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	stored, ok := b.documents[collectionKey(databaseID, collectionID)][documentID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, gateway.ErrNotFound)
	}
	merged, err := gateway.Merge(stored.doc.Data, patch)
	if err != nil {
		return nil, err
	}
	stored.doc.Data = merged
	stored.doc.UpdatedAt = b.now().UTC()
	doc := stored.doc
	return &doc, nil
}

func (b *Backend) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...gateway.Query) (*gateway.DocumentList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []*storedDocument
	for _, stored := range b.documents[collectionKey(databaseID, collectionID)] {
		ok, err := matches(stored.doc, queries)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, stored)
		}
	}

	sortDocuments(matched, queries)
	total := len(matched)

	for _, q := range queries {
		if n, ok := q.LimitOf(); ok && n >= 0 && n < len(matched) {
			matched = matched[:n]
		}
	}

	list := &gateway.DocumentList{Total: total, Documents: make([]gateway.Document, len(matched))}
	for i, stored := range matched {
		list.Documents[i] = stored.doc
	}
	return list, nil
}

func matches(doc gateway.Document, queries []gateway.Query) (bool, error) {
	var fields map[string]any
	for _, q := range queries {
		if q.Method != gateway.QueryEqual {
			continue
		}
		if fields == nil {
			if err := json.Unmarshal(doc.Data, &fields); err != nil {
				return false, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
			}
		}
		if !q.Matches(attribute(doc, fields, q.Attribute)) {
			return false, nil
		}
	}
	return true, nil
}

func attribute(doc gateway.Document, fields map[string]any, name string) any {
	switch name {
	case gateway.AttrID:
		return doc.ID
	case gateway.AttrCreatedAt:
		return doc.CreatedAt
	case gateway.AttrUpdatedAt:
		return doc.UpdatedAt
	}
	return fields[name]
}

// sortDocuments applies the first ordering query. Only metadata attributes are orderable.
// Without an ordering, documents come back in insertion order.
func sortDocuments(docs []*storedDocument, queries []gateway.Query) {
	less := func(a, b *storedDocument) bool { return a.seq < b.seq }
	desc := false
	for _, q := range queries {
		if q.Method != gateway.QueryOrderAsc && q.Method != gateway.QueryOrderDesc {
			continue
		}
		desc = q.Method == gateway.QueryOrderDesc
		if q.Attribute == gateway.AttrUpdatedAt {
			less = func(a, b *storedDocument) bool {
				if a.doc.UpdatedAt.Equal(b.doc.UpdatedAt) {
					return a.seq < b.seq
				}
				return a.doc.UpdatedAt.Before(b.doc.UpdatedAt)
			}
		}
		break
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}

func (b *Backend) CreateUser(ctx context.Context, userID, email, phone, name string) (*gateway.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, u := range b.users {
		if strings.EqualFold(u.Email, email) {
			return nil, fmt.Errorf("user with email %s: %w", email, gateway.ErrConflict)
		}
	}
	if _, exists := b.users[userID]; exists {
		return nil, fmt.Errorf("user %s: %w", userID, gateway.ErrConflict)
	}

	u := gateway.User{ID: userID, Name: name, Email: email, Phone: phone, CreatedAt: b.now().UTC()}
	b.users[userID] = u
	return &u, nil
}

func (b *Backend) GetUser(ctx context.Context, userID string) (*gateway.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, gateway.ErrNotFound)
	}
	return &u, nil
}

func (b *Backend) ListUsers(ctx context.Context, queries ...gateway.Query) (*gateway.UserList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := &gateway.UserList{}
	for _, u := range b.users {
		if userMatches(u, queries) {
			list.Users = append(list.Users, u)
		}
	}
	sort.Slice(list.Users, func(i, j int) bool { return list.Users[i].CreatedAt.Before(list.Users[j].CreatedAt) })
	list.Total = len(list.Users)
	return list, nil
}

func userMatches(u gateway.User, queries []gateway.Query) bool {
	for _, q := range queries {
		if q.Method != gateway.QueryEqual {
			continue
		}
		var v string
		switch q.Attribute {
		case gateway.AttrID:
			v = u.ID
		case "email":
			v = u.Email
		case "phone":
			v = u.Phone
		case "name":
			v = u.Name
		}
		if !q.Matches(v) {
			return false
		}
	}
	return true
}

func (b *Backend) CreateFile(ctx context.Context, bucketID, fileID string, file gateway.InputFile) (*gateway.File, error) {
	content, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := bucketID + "/" + fileID
	if _, exists := b.files[key]; exists {
		return nil, fmt.Errorf("file %s: %w", fileID, gateway.ErrConflict)
	}
	f := gateway.File{
		ID:        fileID,
		BucketID:  bucketID,
		Name:      file.Name,
		MimeType:  file.ContentType,
		SizeBytes: int64(len(content)),
		CreatedAt: b.now().UTC(),
	}
	b.files[key] = &storedFile{file: f, content: content}
	return &f, nil
}

func (b *Backend) FileViewURL(bucketID, fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view", b.baseURL, bucketID, fileID)
}

// FileContent returns the bytes of an uploaded file
func (b *Backend) FileContent(bucketID, fileID string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.files[bucketID+"/"+fileID]
	if !ok {
		return nil, false
	}
	return f.content, true
}

func (b *Backend) CreateSMS(ctx context.Context, messageID, content string, topics, userIDs []string) (*gateway.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailSMS != nil {
		return nil, b.FailSMS
	}
	b.outbox = append(b.outbox, Message{
		ID:      messageID,
		Content: content,
		Topics:  topics,
		UserIDs: userIDs,
		SentAt:  b.now().UTC(),
	})
	return &gateway.Receipt{ID: messageID, Status: "processing"}, nil
}

// Outbox returns a copy of every SMS sent so far
func (b *Backend) Outbox() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Message, len(b.outbox))
	copy(out, b.outbox)
	return out
}

func (b *Backend) Ping(ctx context.Context) error {
	return ctx.Err()
}
