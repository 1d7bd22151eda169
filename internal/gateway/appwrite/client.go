package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/pkg/circuitbreaker"
)

type Config struct {
	Endpoint        string
	ProjectID       string
	APIKey          string
	Timeout         time.Duration
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// Client speaks the Appwrite REST API. One client serves every gateway contract.
type Client struct {
	http      *resty.Client
	endpoint  string
	projectID string
	breaker   *circuitbreaker.CircuitBreaker
}

// APIError is the error body Appwrite returns
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("appwrite: %s (%d %s)", e.Message, e.Code, e.Type)
}

func NewClient(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("X-Appwrite-Project", cfg.ProjectID).
		SetHeader("X-Appwrite-Key", cfg.APIKey).
		SetHeader("X-Appwrite-Response-Format", "1.5.0")

	return &Client{
		http:      httpClient,
		endpoint:  endpoint,
		projectID: cfg.ProjectID,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "appwrite",
			MaxFailures: cfg.BreakerFailures,
			Timeout:     cfg.BreakerTimeout,
			IsFailure:   isOutage,
		}),
	}
}

// Gateway returns a gateway.Backend served entirely by c
func (c *Client) Gateway(collections gateway.Collections) gateway.Backend {
	return gateway.Backend{
		Documents:   c,
		Users:       c,
		Files:       c,
		Messages:    c,
		Collections: collections,
	}
}

// isOutage counts transport errors and server errors against the breaker.
// Client errors such as not found mean the backend is healthy.
func isOutage(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError
	}
	return err != nil
}

// do runs a prepared request through the breaker and decodes the result into out
func (c *Client) do(ctx context.Context, method, path string, prepare func(*resty.Request), out any) error {
	err := c.breaker.Execute(func() error {
		req := c.http.R().SetContext(ctx).SetError(&APIError{})
		if out != nil {
			req.SetResult(out)
		}
		if prepare != nil {
			prepare(req)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("appwrite %s %s: %w", method, path, err)
		}
		if resp.IsError() {
			apiErr, ok := resp.Error().(*APIError)
			if !ok || apiErr.Code == 0 {
				apiErr = &APIError{Message: http.StatusText(resp.StatusCode()), Code: resp.StatusCode()}
			}
			return apiErr
		}
		return nil
	})
	return translate(err)
}

func translate(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", gateway.ErrNotFound, apiErr.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", gateway.ErrConflict, apiErr.Message)
	}
	return err
}

func queryParams(queries []gateway.Query) url.Values {
	values := url.Values{}
	for _, q := range queries {
		values.Add("queries[]", q.String())
	}
	return values
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// documentEnvelope is the document shape on the wire: metadata keys prefixed with $
// next to the attributes
type documentEnvelope map[string]json.RawMessage

func (e documentEnvelope) toDocument() (gateway.Document, error) {
	var doc gateway.Document
	data := make(map[string]json.RawMessage, len(e))
	for k, v := range e {
		switch k {
		case "$id":
			if err := json.Unmarshal(v, &doc.ID); err != nil {
				return doc, fmt.Errorf("failed to decode document id: %w", err)
			}
		case "$collectionId":
			_ = json.Unmarshal(v, &doc.CollectionID)
		case "$createdAt":
			_ = json.Unmarshal(v, &doc.CreatedAt)
		case "$updatedAt":
			_ = json.Unmarshal(v, &doc.UpdatedAt)
		default:
			if !strings.HasPrefix(k, "$") {
				data[k] = v
			}
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return doc, fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}
	doc.Data = raw
	return doc, nil
}

func documentsPath(databaseID, collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", url.PathEscape(databaseID), url.PathEscape(collectionID))
}

func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	raw, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	var envelope documentEnvelope
	body := map[string]any{"documentId": documentID, "data": raw}
	err = c.do(ctx, http.MethodPost, documentsPath(databaseID, collectionID), func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, &envelope)
	if err != nil {
		return nil, err
	}
	return decodeDocument(envelope)
}

func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*gateway.Document, error) {
	var envelope documentEnvelope
	path := documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return decodeDocument(envelope)
}

func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*gateway.Document, error) {
	raw, err := gateway.Marshal(data)
	if err != nil {
		return nil, err
	}

	var envelope documentEnvelope
	path := documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	err = c.do(ctx, http.MethodPatch, path, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(map[string]any{"data": raw})
	}, &envelope)
	if err != nil {
		return nil, err
	}
	return decodeDocument(envelope)
}

func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...gateway.Query) (*gateway.DocumentList, error) {
	var page struct {
		Total     int                `json:"total"`
		Documents []documentEnvelope `json:"documents"`
	}
	err := c.do(ctx, http.MethodGet, documentsPath(databaseID, collectionID), func(r *resty.Request) {
		r.SetQueryParamsFromValues(queryParams(queries))
	}, &page)
	if err != nil {
		return nil, err
	}

	list := &gateway.DocumentList{Total: page.Total, Documents: make([]gateway.Document, 0, len(page.Documents))}
	for _, envelope := range page.Documents {
		doc, err := envelope.toDocument()
		if err != nil {
			return nil, err
		}
		list.Documents = append(list.Documents, doc)
	}
	return list, nil
}

func decodeDocument(envelope documentEnvelope) (*gateway.Document, error) {
	doc, err := envelope.toDocument()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
