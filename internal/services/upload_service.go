package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"itinera/pkg/utils"
)

const (
	UploadFieldName = "file"

	// room for the text fields that travel with the file
	formOverheadBytes = 1 << 20
	maxFieldBytes     = 64 << 10
)

type uploadType struct {
	mimeType string
	sniffs   func(*mimetype.MIME) bool
}

var uploadTypes = map[string]uploadType{
	".pdf":  {mimeType: "application/pdf", sniffs: func(m *mimetype.MIME) bool { return m.Is("application/pdf") }},
	".csv":  {mimeType: "text/csv", sniffs: isTextual},
	".json": {mimeType: "application/json", sniffs: isTextual},
}

func isTextual(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// ReceivedUpload is a validated file sitting in the temp directory together
// with the form fields that came with it. Callers own TempPath and must call
// Cleanup.
type ReceivedUpload struct {
	Fields       map[string]string
	OriginalName string
	Ext          string
	MimeType     string
	Size         int64
	TempPath     string
}

func (u *ReceivedUpload) Field(name string) string {
	return strings.TrimSpace(u.Fields[name])
}

func (u *ReceivedUpload) IsCSV() bool {
	return u.Ext == ".csv"
}

func (u *ReceivedUpload) Cleanup() {
	if u == nil || u.TempPath == "" {
		return
	}
	if err := os.Remove(u.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		zap.L().Warn("remove upload temp file", zap.String("path", u.TempPath), zap.Error(err))
	}
}

type UploadServiceInterface interface {
	Receive(w http.ResponseWriter, r *http.Request) (*ReceivedUpload, error)
}

type UploadService struct {
	tmpDir   string
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadService(tmpDir string, maxBytes int64, logger *zap.Logger) UploadServiceInterface {
	return &UploadService{
		tmpDir:   tmpDir,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Receive streams the multipart body. The single "file" part goes straight
// to a temp file; nothing is buffered in memory beyond the small text fields.
func (s *UploadService) Receive(w http.ResponseWriter, r *http.Request) (*ReceivedUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+formOverheadBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected a multipart/form-data body", utils.ErrNoFileProvided)
	}

	upload := &ReceivedUpload{Fields: make(map[string]string)}
	fail := func(err error) (*ReceivedUpload, error) {
		upload.Cleanup()
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(s.classifyBodyError(err))
		}

		switch {
		case part.FileName() == "":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
			if err != nil {
				return fail(s.classifyBodyError(err))
			}
			if len(value) > maxFieldBytes {
				return fail(utils.ValidationError("form field %q is too long", part.FormName()))
			}
			upload.Fields[part.FormName()] = string(value)

		case part.FormName() != UploadFieldName:
			s.logger.Debug("ignoring unexpected file part", zap.String("field", part.FormName()))

		case upload.TempPath != "":
			return fail(utils.ValidationError("only one file may be uploaded"))

		default:
			if err := s.materialize(part, upload); err != nil {
				return fail(err)
			}
		}
		_ = part.Close()
	}

	if upload.TempPath == "" {
		return nil, utils.ErrNoFileProvided
	}
	if upload.Size == 0 {
		return fail(fmt.Errorf("%w: uploaded file is empty", utils.ErrNoFileProvided))
	}

	kind, err := mimetype.DetectFile(upload.TempPath)
	if err != nil {
		return fail(fmt.Errorf("detect upload type: %w", err))
	}
	if !uploadTypes[upload.Ext].sniffs(kind) {
		return fail(fmt.Errorf("%w: %s content looks like %s", utils.ErrUnsupportedFileType, upload.Ext, kind.String()))
	}
	upload.MimeType = uploadTypes[upload.Ext].mimeType

	s.logger.Info("upload received",
		zap.String("name", upload.OriginalName),
		zap.String("mime", upload.MimeType),
		zap.Int64("size", upload.Size))
	return upload, nil
}

func (s *UploadService) materialize(part *multipart.Part, upload *ReceivedUpload) error {
	name := filepath.Base(part.FileName())
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := uploadTypes[ext]; !ok {
		return utils.ErrUnsupportedFileType
	}

	if err := os.MkdirAll(s.tmpDir, 0o700); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.tmpDir, "upload-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	upload.TempPath = tmp.Name()
	upload.OriginalName = name
	upload.Ext = ext

	body := &trackedReader{r: io.LimitReader(part, s.maxBytes+1)}
	n, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()

	if body.err != nil && body.err != io.EOF {
		return s.classifyBodyError(body.err)
	}
	if copyErr != nil {
		return fmt.Errorf("write temp file: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("write temp file: %w", closeErr)
	}
	if n > s.maxBytes {
		return s.tooLarge()
	}
	upload.Size = n
	return nil
}

func (s *UploadService) tooLarge() error {
	return fmt.Errorf("%w (max %dMB)", utils.ErrFileTooLarge, s.maxBytes>>20)
}

// classifyBodyError separates an oversized body from a broken one; both are the client's fault.
func (s *UploadService) classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return s.tooLarge()
	}
	return utils.ValidationError("malformed multipart body: %v", err)
}

// trackedReader remembers the last read error so body failures can be told
// apart from temp file write failures after io.Copy.
type trackedReader struct {
	r   io.Reader
	err error
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil {
		t.err = err
	}
	return n, err
}
