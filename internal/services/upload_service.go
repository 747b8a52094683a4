package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/metrics"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/storage"
)

var (
	allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	allowedVideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}

	allowedImageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
	allowedVideoExts = []string{".mp4", ".webm", ".mov"}
)

// sniffLen is how much of the file is inspected to detect its real type.
const sniffLen = 3072

type UploadLimits struct {
	Image     int64
	Video     int64
	LongVideo int64
}

// UploadFile is one multipart file as received by the handler.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	MimeType string    `json:"mime_type"`
}

type UploadService struct {
	store     storage.Storage
	mediaRepo MediaRepository
	limits    UploadLimits
	now       func() time.Time
	log       *zap.Logger
}

func NewUploadService(store storage.Storage, mediaRepo MediaRepository, limits UploadLimits, log *zap.Logger) *UploadService {
	return &UploadService{
		store:     store,
		mediaRepo: mediaRepo,
		limits:    limits,
		now:       time.Now,
		log:       log,
	}
}

func isVideoCategory(category string) bool {
	return category == models.UploadCategoryVideo
}

// maxSize is the ceiling for a category. Long videos are accepted only on the
// dedicated video endpoint.
func (s *UploadService) maxSize(category string, longVideo bool) int64 {
	if !isVideoCategory(category) {
		return s.limits.Image
	}
	if longVideo {
		return s.limits.LongVideo
	}
	return s.limits.Video
}

// Upload validates and stores one file. Nothing is written unless every check passes.
func (s *UploadService) Upload(ctx context.Context, ownerID uuid.UUID, category string, file UploadFile, longVideo bool, caption *string) (*UploadResult, error) {
	res, err := s.upload(ctx, ownerID, category, file, longVideo, caption)
	result := "ok"
	if err != nil {
		result = apperr.KindOf(err).String()
	}
	metrics.Uploads.WithLabelValues(category, result).Inc()
	return res, err
}

func (s *UploadService) upload(ctx context.Context, ownerID uuid.UUID, category string, file UploadFile, longVideo bool, caption *string) (*UploadResult, error) {
	if !models.IsValidUploadCategory(category) {
		return nil, apperr.Validation("unknown upload category", "category")
	}
	if longVideo && !isVideoCategory(category) {
		return nil, apperr.Validation("only videos can be uploaded here", "category")
	}

	allowedTypes, allowedExts := allowedImageTypes, allowedImageExts
	if isVideoCategory(category) {
		allowedTypes, allowedExts = allowedVideoTypes, allowedVideoExts
	}

	if file.Size <= 0 {
		return nil, apperr.Validation("file is empty", "file")
	}
	if limit := s.maxSize(category, longVideo); file.Size > limit {
		return nil, apperr.Validation(fmt.Sprintf("file exceeds the %d MB limit", limit>>20), "file")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !containsString(allowedExts, ext) {
		return nil, apperr.Validation("file extension is not allowed", "file")
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	if !containsString(allowedTypes, declared) {
		return nil, apperr.Validation("file type is not allowed", "file")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	detected := mimetype.Detect(head)
	if !mimeAllowed(detected, allowedTypes) {
		return nil, apperr.Validation("file content does not match an allowed type", "file")
	}

	key := s.storageKey(ownerID, category, ext)
	body := io.MultiReader(bytes.NewReader(head), file.Body)
	if err := s.store.Write(ctx, key, body, file.Size, declared); err != nil {
		s.log.Error("upload write failed", zap.String("key", key), zap.Error(err))
		return nil, apperr.Storage(err, "failed to store file")
	}
	metrics.UploadBytes.WithLabelValues(category).Add(float64(file.Size))

	res := &UploadResult{
		URL:      s.store.URL(key),
		Filename: path.Base(key),
		Size:     file.Size,
		MimeType: declared,
	}

	rec := &models.MediaUpload{
		OwnerUserID: ownerID,
		Category:    category,
		StorageKey:  key,
		URL:         res.URL,
		MimeType:    declared,
		Size:        file.Size,
		Caption:     caption,
	}
	if err := s.mediaRepo.Create(ctx, rec); err != nil {
		s.log.Warn("upload ledger write failed", zap.String("key", key), zap.Error(err))
	} else {
		res.ID = rec.ID
	}

	return res, nil
}

// storageKey builds <category>/<owner>-<category>-<unixMillis>-<random8><ext>.
func (s *UploadService) storageKey(ownerID uuid.UUID, category, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%s-%s-%d-%s%s", category, ownerID, category, s.now().UnixMilli(), random, ext)
}

// Delete removes an upload owned by userID, object first.
func (s *UploadService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.OwnerUserID != userID {
		return apperr.Permission("you do not own this upload")
	}
	if err := s.store.Delete(ctx, rec.StorageKey); err != nil {
		return apperr.Storage(err, "failed to delete file")
	}
	return s.mediaRepo.Delete(ctx, id)
}

func mimeAllowed(m *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if m.Is(a) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
