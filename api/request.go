package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	maxJSONBody     = 1 << 20
	maxFormOverhead = 1 << 20
	multipartMemory = 8 << 20
	dataField       = "data"
)

var (
	imageTypes = []string{"image/"}
	videoTypes = []string{"video/"}
)

// Uploader stores a file and returns its public URL. Remove deletes an
// object by the URL Upload returned.
type Uploader interface {
	Upload(ctx context.Context, bucket, filename, contentType string, body io.Reader, size int64) (string, error)
	Remove(ctx context.Context, url string) error
}

// fileField describes one accepted multipart file and where its URL goes
type fileField[I any] struct {
	name     string
	bucket   string
	maxBytes int64
	types    []string
	set      func(in *I, url string)
}

type pendingFile[I any] struct {
	field       fileField[I]
	header      *multipart.FileHeader
	contentType string
}

// formFiles are the checked file parts of one multipart request
type formFiles[I any] struct {
	form    *multipart.Form
	pending []pendingFile[I]
}

// remove deletes the temporary files the form spilled to disk. Handlers get a
// copy of the server's request, so net/http never cleans these up itself.
func (f formFiles[I]) remove() {
	if f.form == nil {
		return
	}
	if err := f.form.RemoveAll(); err != nil {
		log.Warn().Err(err).Msg("Failed to remove multipart temp files")
	}
}

// storedFiles are the uploads made for one request
type storedFiles struct {
	uploader Uploader
	urls     []string
}

// discard deletes uploads whose row was never written
func (s storedFiles) discard(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range s.urls {
		if err := s.uploader.Remove(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to remove orphaned upload")
		}
	}
}

// readInput decodes a JSON body, or a multipart form whose "data" field holds
// the JSON payload, into I. Files are checked against fields but not stored
// yet so that the payload can be validated first. Callers that get files
// back must remove them once the request is done.
func readInput[I any](w http.ResponseWriter, r *http.Request, fields []fileField[I]) (I, formFiles[I], error) {
	var in I
	var none formFiles[I]

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil && r.Header.Get("Content-Type") != "" {
		return in, none, errs.NewUnsupportedMediaTypeError("content-type", r.Header.Get("Content-Type"), "application/json or multipart/form-data")
	}

	switch mediaType {
	case "", "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := decodeStrict(r.Body, &in); err != nil {
			return in, none, err
		}
		return in, none, nil
	case "multipart/form-data":
		parsed, files, err := readMultipart(w, r, fields)
		if r.MultipartForm != nil && (err != nil || len(files.pending) == 0) {
			formFiles[I]{form: r.MultipartForm}.remove()
			files = none
		}
		return parsed, files, err
	}
	return in, none, errs.NewUnsupportedMediaTypeError("content-type", mediaType, "application/json or multipart/form-data")
}

func readMultipart[I any](w http.ResponseWriter, r *http.Request, fields []fileField[I]) (I, formFiles[I], error) {
	var in I
	var none formFiles[I]

	limit := int64(maxFormOverhead)
	for _, f := range fields {
		limit += f.maxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, none, errs.NewMaxBodySizeExceededError("body", limit)
		}
		return in, none, errs.NewMalformedPayloadError("multipart", err)
	}

	for key := range r.MultipartForm.Value {
		if key != dataField {
			return in, none, errs.NewInvalidFieldError(key, "unknown form field")
		}
	}
	if data := r.MultipartForm.Value[dataField]; len(data) > 0 {
		if len(data) > 1 {
			return in, none, errs.NewInvalidFieldError(dataField, "sent more than once")
		}
		if err := decodeStrict(strings.NewReader(data[0]), &in); err != nil {
			return in, none, err
		}
	}

	var pending []pendingFile[I]
	for name, headers := range r.MultipartForm.File {
		field, ok := findField(fields, name)
		if !ok {
			return in, none, errs.NewInvalidFieldError(name, "unexpected file field")
		}
		if len(headers) != 1 {
			return in, none, errs.NewInvalidFieldError(name, "exactly one file expected")
		}
		header := headers[0]
		if header.Size > field.maxBytes {
			return in, none, errs.NewMaxBodySizeExceededError(name, field.maxBytes)
		}
		contentType, err := fileContentType(header)
		if err != nil {
			return in, none, errs.NewMalformedPayloadError("multipart", err)
		}
		if !hasTypePrefix(contentType, field.types) {
			return in, none, errs.NewUnsupportedMediaTypeError(name, contentType, strings.Join(field.types, " or ")+"*")
		}
		pending = append(pending, pendingFile[I]{field: field, header: header, contentType: contentType})
	}
	return in, formFiles[I]{form: r.MultipartForm, pending: pending}, nil
}

// storeFiles uploads the pending files and merges their URLs into in. When
// one upload fails the ones before it are removed again.
func storeFiles[I any](ctx context.Context, uploader Uploader, in *I, files formFiles[I]) (storedFiles, error) {
	stored := storedFiles{uploader: uploader}
	if len(files.pending) == 0 {
		return stored, nil
	}
	if uploader == nil {
		return stored, errs.NewApiErr(http.StatusServiceUnavailable, "file uploads are not configured")
	}
	for _, p := range files.pending {
		file, err := p.header.Open()
		if err != nil {
			stored.discard(ctx)
			return storedFiles{}, errs.NewInternalErrorWithCause("failed to read upload", err)
		}
		url, err := uploader.Upload(ctx, p.field.bucket, p.header.Filename, p.contentType, file, p.header.Size)
		file.Close()
		if err != nil {
			stored.discard(ctx)
			return storedFiles{}, errs.NewInternalErrorWithCause("failed to upload "+p.field.name, err)
		}
		stored.urls = append(stored.urls, url)
		p.field.set(in, url)
	}
	return stored, nil
}

// decodeStrict decodes exactly one JSON value and rejects unknown fields
func decodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return jsonError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewMalformedPayloadError("JSON", fmt.Errorf("unexpected data after the JSON value"))
	}
	return nil
}

func jsonError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return errs.NewMalformedPayloadError("JSON", fmt.Errorf("request body is empty"))
	case errors.As(err, &tooLarge):
		return errs.NewMaxBodySizeExceededError("body", tooLarge.Limit)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errs.NewInvalidJSONError(err)
	case errors.As(err, &typeErr):
		return errs.NewInvalidFieldError(typeErr.Field, "expected "+typeErr.Type.String())
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return errs.NewInvalidFieldError(name, "unknown field")
	}
	return errs.NewMalformedPayloadError("JSON", err)
}

func findField[I any](fields []fileField[I], name string) (fileField[I], bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return fileField[I]{}, false
}

// fileContentType trusts the declared part type unless it is missing or
// generic, in which case the first bytes are sniffed.
func fileContentType(header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err == nil {
			return mediaType, nil
		}
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	return mediaType, nil
}

func hasTypePrefix(contentType string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(contentType, p) {
			return true
		}
	}
	return false
}

// idParam parses a positive integer path parameter
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive integer")
	}
	return id, nil
}

// idsBody is the payload of the relation replace endpoints
type idsBody struct {
	IDs []int64 `json:"ids"`
}

func (b idsBody) validate() error {
	if b.IDs == nil {
		return errs.NewMissingRequiredFieldError("ids")
	}
	for _, id := range b.IDs {
		if id <= 0 {
			return errs.NewInvalidFieldError("ids", "must contain positive integers")
		}
	}
	return nil
}
