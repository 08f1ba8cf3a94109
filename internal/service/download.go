package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/klauspost/compress/zip"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/status"
	"obradoc/pkg/storage"
	"obradoc/pkg/timer"
	"obradoc/pkg/util"
)

// DownloadService assembles ZIP archives of a worker's documents.
type DownloadService struct {
	docsvc *DocumentService
	store  storage.ObjectStorage
	cfg    *config.Config
}

func NewDownloadService(docsvc *DocumentService, store storage.ObjectStorage, cfg *config.Config) *DownloadService {
	return &DownloadService{docsvc: docsvc, store: store, cfg: cfg}
}

// DownloadOptions tunes which documents go into the archive.
type DownloadOptions struct {
	SkipExpired bool                 `json:"skipExpired"`
	Types       []model.DocumentType `json:"types"`
}

// DownloadReport summarizes what made it into the archive.
type DownloadReport struct {
	Included       int      `json:"included"`
	Skipped        int      `json:"skipped"`
	Failed         []string `json:"failed"`
	PartialFailure bool     `json:"partialFailure"`
}

// WorkerArchive streams a ZIP of the worker's documents into w, grouped into
// one folder per document kind. Unfetchable files are listed in the report
// and in an error manifest inside the archive rather than failing the whole
// download.
func (s *DownloadService) WorkerArchive(ctx context.Context, session *auth.Session, workerID primitive.ObjectID, opts DownloadOptions, w io.Writer) (*DownloadReport, error) {
	defer timer.Track("Worker Archive")()

	docs, err := s.docsvc.ListByWorker(ctx, session, workerID)
	if err != nil {
		return nil, err
	}

	report := &DownloadReport{Failed: []string{}}
	zw := zip.NewWriter(w)

	for _, doc := range docs {
		if opts.SkipExpired && doc.Status == string(status.Expired) {
			report.Skipped++
			continue
		}
		if len(opts.Types) > 0 && !typeIncluded(doc.Type, opts.Types) {
			report.Skipped++
			continue
		}
		if doc.StoragePath == "" {
			report.Failed = append(report.Failed, doc.Name)
			continue
		}

		content, err := s.fetchWithRetry(ctx, doc.StoragePath)
		if err != nil {
			log.Printf("[download] giving up on %s: %v", doc.StoragePath, err)
			report.Failed = append(report.Failed, doc.Name)
			continue
		}

		entry, err := zw.Create(archivePath(doc))
		if err != nil {
			content.Close()
			zw.Close()
			return nil, backendError("failed to build archive", err)
		}
		if _, err := io.Copy(entry, content); err != nil {
			content.Close()
			zw.Close()
			return nil, backendError("failed to write archive entry", err)
		}
		content.Close()
		report.Included++
	}

	report.PartialFailure = len(report.Failed) > 0
	if report.PartialFailure {
		if err := writeManifest(zw, report.Failed); err != nil {
			zw.Close()
			return nil, backendError("failed to write archive manifest", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, backendError("failed to finalize archive", err)
	}
	return report, nil
}

// fetchWithRetry retries transient storage failures a fixed number of times
// with a flat delay between attempts.
func (s *DownloadService) fetchWithRetry(ctx context.Context, key string) (io.ReadCloser, error) {
	attempts := s.cfg.Download.FetchAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(s.cfg.Download.RetryDelaySec) * time.Second

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		reader, _, err := s.store.Get(ctx, key)
		if err == nil {
			return reader, nil
		}
		lastErr = err
		log.Printf("[download] fetch %s attempt %d/%d failed: %v", key, i+1, attempts, err)
	}
	return nil, lastErr
}

func archivePath(doc *model.Document) string {
	return fmt.Sprintf("%s/%s", doc.TypeLabel(), util.SanitizeFileName(doc.Name))
}

func writeManifest(zw *zip.Writer, failed []string) error {
	entry, err := zw.Create("ERRORES.txt")
	if err != nil {
		return err
	}
	for _, name := range failed {
		if _, err := fmt.Fprintf(entry, "No se pudo incluir: %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

func typeIncluded(t model.DocumentType, allowed []model.DocumentType) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}
	return false
}
