package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/gateway"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
)

// UploadField is the multipart field carrying the identification document
const UploadField = "identificationDocument"

// ReadUpload opens the identification document of a multipart request. It returns
// a nil file when the field was left empty. The returned close func is never nil.
func ReadUpload(c *gin.Context, maxBytes int64) (*gateway.InputFile, func(), error) {
	noop := func() {}

	header, err := c.FormFile(UploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperrors.BadRequest("failed to read upload", err)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, noop, apperrors.Validation(map[string]string{
			UploadField: fmt.Sprintf("File must be at most %d MB", maxBytes>>20),
		})
	}

	f, err := header.Open()
	if err != nil {
		return nil, noop, apperrors.BadRequest("failed to read upload", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}

	file := &gateway.InputFile{
		Name:        filepath.Base(header.Filename),
		ContentType: contentType,
		Size:        header.Size,
		Reader:      f,
	}
	return file, func() { f.Close() }, nil
}

// MergeFields folds field errors of err into errs. It reports false when err
// carries no field errors.
func MergeFields(errs map[string]string, err error) (map[string]string, bool) {
	if err == nil {
		return errs, false
	}
	appErr := apperrors.As(err)
	if appErr.Kind != apperrors.KindValidation || len(appErr.Fields) == 0 {
		return errs, false
	}
	if errs == nil {
		errs = make(map[string]string, len(appErr.Fields))
	}
	for k, v := range appErr.Fields {
		if _, ok := errs[k]; !ok {
			errs[k] = v
		}
	}
	return errs, true
}
