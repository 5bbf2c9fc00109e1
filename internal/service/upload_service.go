package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/techassist/support-service/internal/config"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// UploadResult describes a stored file.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// UploadService stores uploaded files under the configured directory,
// enforcing the extension allow-list and byte ceiling.
type UploadService struct {
	cfg config.UploadConfig
}

// NewUploadService builds the service and ensures the upload dir exists.
func NewUploadService(cfg config.UploadConfig) (*UploadService, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadService{cfg: cfg}, nil
}

// Store validates and persists one multipart file, returning its generated
// name and relative URL under the static-serving path.
func (s *UploadService) Store(header *multipart.FileHeader) (*UploadResult, error) {
	ext := extension(header.Filename)
	if !s.allowed(ext) {
		return nil, apperrors.NewValidationError("file type not allowed", map[string]any{"extension": ext})
	}
	if header.Size > s.cfg.MaxBytes {
		return nil, apperrors.NewValidationError("file too large", map[string]any{
			"size":      header.Size,
			"max_bytes": s.cfg.MaxBytes,
		})
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer src.Close()

	filename := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename))
	path := filepath.Join(s.cfg.Dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, s.cfg.MaxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return nil, apperrors.NewInternalError(err)
	}
	// The multipart header size is client-supplied; re-check what actually
	// arrived on disk.
	if written > s.cfg.MaxBytes {
		_ = os.Remove(path)
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.cfg.MaxBytes})
	}

	return &UploadResult{
		Filename: filename,
		URL:      "/uploads/" + filename,
		Size:     written,
	}, nil
}

func (s *UploadService) allowed(ext string) bool {
	for _, allowed := range s.cfg.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
