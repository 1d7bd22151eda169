package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

// CreateFile uploads in a single request. Files above the 5MB chunk size are rejected by
// Appwrite, so the upload limit of the HTTP server must stay below it.
func (c *Client) CreateFile(ctx context.Context, bucketID, fileID string, file gateway.InputFile) (*gateway.File, error) {
	var created gateway.File
	path := fmt.Sprintf("/storage/buckets/%s/files", url.PathEscape(bucketID))
	err := c.do(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetMultipartFormData(map[string]string{"fileId": fileID}).
			SetMultipartField("file", file.Name, file.ContentType, file.Reader)
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) FileViewURL(bucketID, fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s", c.endpoint, bucketID, fileID, c.projectID)
}
