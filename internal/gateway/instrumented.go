package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/caretrack/pkg/metrics"
)

// Instrument wraps every handle of b so each call is counted and timed
func Instrument(b Backend, m *metrics.Metrics) Backend {
	if m == nil {
		return b
	}
	r := recorder{m: m}
	return Backend{
		Documents:   &instrumentedDocuments{next: b.Documents, rec: r},
		Users:       &instrumentedUsers{next: b.Users, rec: r},
		Files:       &instrumentedFiles{next: b.Files, rec: r},
		Messages:    &instrumentedMessages{next: b.Messages, rec: r},
		Collections: b.Collections,
	}
}

type recorder struct {
	m *metrics.Metrics
}

func (r recorder) observe(operation string, start time.Time, err error) {
	r.m.GatewayLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	r.m.GatewayOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// wrapper is implemented by decorators so Backend.Ping reaches the driver
type wrapper interface {
	unwrap() any
}

type instrumentedDocuments struct {
	next DocumentStore
	rec  recorder
}

func (i *instrumentedDocuments) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	start := time.Now()
	doc, err := i.next.CreateDocument(ctx, databaseID, collectionID, documentID, data)
	i.rec.observe("create_document", start, err)
	return doc, err
}

func (i *instrumentedDocuments) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	start := time.Now()
	doc, err := i.next.GetDocument(ctx, databaseID, collectionID, documentID)
	i.rec.observe("get_document", start, err)
	return doc, err
}

func (i *instrumentedDocuments) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	start := time.Now()
	doc, err := i.next.UpdateDocument(ctx, databaseID, collectionID, documentID, data)
	i.rec.observe("update_document", start, err)
	return doc, err
}

func (i *instrumentedDocuments) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error) {
	start := time.Now()
	list, err := i.next.ListDocuments(ctx, databaseID, collectionID, queries...)
	i.rec.observe("list_documents", start, err)
	return list, err
}

func (i *instrumentedDocuments) unwrap() any { return i.next }

type instrumentedUsers struct {
	next UserDirectory
	rec  recorder
}

func (i *instrumentedUsers) CreateUser(ctx context.Context, userID, email, phone, name string) (*User, error) {
	start := time.Now()
	u, err := i.next.CreateUser(ctx, userID, email, phone, name)
	i.rec.observe("create_user", start, err)
	return u, err
}

func (i *instrumentedUsers) GetUser(ctx context.Context, userID string) (*User, error) {
	start := time.Now()
	u, err := i.next.GetUser(ctx, userID)
	i.rec.observe("get_user", start, err)
	return u, err
}

func (i *instrumentedUsers) ListUsers(ctx context.Context, queries ...Query) (*UserList, error) {
	start := time.Now()
	list, err := i.next.ListUsers(ctx, queries...)
	i.rec.observe("list_users", start, err)
	return list, err
}

func (i *instrumentedUsers) unwrap() any { return i.next }

type instrumentedFiles struct {
	next FileStorage
	rec  recorder
}

func (i *instrumentedFiles) CreateFile(ctx context.Context, bucketID, fileID string, file InputFile) (*File, error) {
	start := time.Now()
	f, err := i.next.CreateFile(ctx, bucketID, fileID, file)
	i.rec.observe("create_file", start, err)
	return f, err
}

func (i *instrumentedFiles) FileViewURL(bucketID, fileID string) string {
	return i.next.FileViewURL(bucketID, fileID)
}

func (i *instrumentedFiles) unwrap() any { return i.next }

type instrumentedMessages struct {
	next Messenger
	rec  recorder
}

func (i *instrumentedMessages) CreateSMS(ctx context.Context, messageID, content string, topics, userIDs []string) (*Receipt, error) {
	start := time.Now()
	r, err := i.next.CreateSMS(ctx, messageID, content, topics, userIDs)
	i.rec.observe("create_sms", start, err)
	return r, err
}

func (i *instrumentedMessages) unwrap() any { return i.next }
