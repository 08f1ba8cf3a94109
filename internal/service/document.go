package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/internal/status"
	"obradoc/pkg/storage"
)

// Notifier receives notifications detected by read paths. Satisfied by
// notify.Outbox.
type Notifier interface {
	Enqueue(n *model.Notification)
}

// DocumentService owns the document lifecycle: upload, read with status
// re-derivation, delete with object cleanup.
type DocumentService struct {
	docs    repository.IDocumentRepository
	workers repository.IWorkerRepository
	store   storage.ObjectStorage
	notify  Notifier
	cfg     *config.Config
}

func NewDocumentService(docs repository.IDocumentRepository, workers repository.IWorkerRepository, store storage.ObjectStorage, notifier Notifier, cfg *config.Config) *DocumentService {
	return &DocumentService{docs: docs, workers: workers, store: store, notify: notifier, cfg: cfg}
}

// UploadInput is everything needed to create a document.
type UploadInput struct {
	WorkerID    primitive.ObjectID
	Type        model.DocumentType
	FileName    string
	ContentType string
	Content     []byte
	ExpiryDate  *time.Time
}

// MaxFutureMonths bounds how far out an expiry date may lie.
const MaxFutureMonths = 12

// Upload validates, stores the file and creates the document record. All
// validation happens before any storage or database call.
func (s *DocumentService) Upload(ctx context.Context, session *auth.Session, input UploadInput) (*model.Document, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapUploadDocument) {
		return nil, ErrPermissionDenied
	}

	if err := s.validateUpload(input); err != nil {
		return nil, err
	}

	worker, err := s.workers.FindByID(ctx, input.WorkerID)
	if err != nil {
		return nil, backendError("failed to load worker", err)
	}
	if worker == nil || worker.OrgID != session.OrgID {
		return nil, notFoundError("worker")
	}
	if session.ScopedToProjects() && !workerInProjects(worker, session.ProjectIDs) {
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	key := storage.ObjectKey(worker.ID.Hex(), input.FileName, now)
	checksum, size, err := s.store.Save(ctx, key, input.ContentType, input.Content)
	if err != nil {
		return nil, backendError("failed to store file", err)
	}

	md := model.DefaultMetadata(input.Type)
	md.LastModified = now
	md.ModifiedBy = session.UserID
	md.Version = 1

	doc := &model.Document{
		OrgID:       session.OrgID,
		Type:        input.Type,
		Name:        input.FileName,
		StoragePath: key,
		Bucket:      s.store.Bucket(),
		ContentType: input.ContentType,
		Size:        size,
		Checksum:    checksum,
		ExpiryDate:  input.ExpiryDate,
		Status:      string(status.Classify(input.ExpiryDate, now).Status),
		UploadedAt:  now,
		WorkerID:    worker.ID,
		Metadata:    md,
		AuditLog: model.AuditLog{
			CreatedAt: now,
			CreatedBy: session.UserID,
			Actions: []model.AuditAction{{
				Type:      "create",
				Timestamp: now,
				UserID:    session.UserID,
				Details:   fmt.Sprintf("document %s created for worker %s", input.Type, worker.ID.Hex()),
			}},
		},
	}
	if len(worker.ProjectIDs) == 1 {
		doc.ProjectID = worker.ProjectIDs[0]
	}

	created, err := s.docs.Insert(ctx, doc)
	if err != nil {
		// Compensate: don't leave an orphaned object behind.
		if delErr := s.store.Delete(context.Background(), key); delErr != nil {
			log.Printf("[documents] orphan cleanup failed for %s: %v", key, delErr)
		}
		return nil, backendError("failed to create document", err)
	}
	return created, nil
}

func (s *DocumentService) validateUpload(input UploadInput) error {
	if !model.IsValidDocumentType(input.Type) {
		return validationError("unknown document type")
	}
	if input.FileName == "" {
		return validationError("file name is required")
	}
	if len(input.Content) == 0 {
		return validationError("file content is required")
	}
	if int64(len(input.Content)) > s.cfg.Upload.MaxFileSizeBytes {
		return validationError(fmt.Sprintf("file exceeds the %dMB limit", s.cfg.Upload.MaxFileSizeBytes/(1024*1024)))
	}
	if !s.mimeAllowed(input.ContentType) {
		return validationError("only PDF, JPG and PNG files are allowed")
	}
	if input.ExpiryDate != nil {
		now := time.Now()
		if input.ExpiryDate.Before(now) {
			return validationError("expiry date cannot be in the past")
		}
		if input.ExpiryDate.After(now.AddDate(0, MaxFutureMonths, 0)) {
			return validationError(fmt.Sprintf("expiry date cannot be more than %d months out", MaxFutureMonths))
		}
	}
	return nil
}

func (s *DocumentService) mimeAllowed(contentType string) bool {
	for _, allowed := range s.cfg.Upload.AllowedMimeTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// Get loads a document, re-derives its status and reports the caller's view.
func (s *DocumentService) Get(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.Document, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, backendError("failed to fetch document", err)
	}
	if doc == nil || doc.OrgID != session.OrgID {
		return nil, notFoundError("document")
	}
	if err := s.checkProjectScope(ctx, session, doc); err != nil {
		return nil, err
	}
	s.Refresh(ctx, session, doc)
	return doc, nil
}

// GetContent streams the stored file.
func (s *DocumentService) GetContent(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.Document, io.ReadCloser, int64, error) {
	doc, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, nil, 0, err
	}
	reader, size, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, 0, backendError("failed to fetch file", err)
	}
	if err := s.docs.AppendAuditAction(ctx, doc.ID, model.AuditAction{
		Type:      "download",
		Timestamp: time.Now(),
		UserID:    session.UserID,
	}); err != nil {
		// The download itself is more important than its audit trail.
		log.Printf("[documents] audit append failed for %s: %v", doc.ID.Hex(), err)
	}
	return doc, reader, size, nil
}

// ListByWorker returns a worker's documents with fresh statuses.
func (s *DocumentService) ListByWorker(ctx context.Context, session *auth.Session, workerID primitive.ObjectID) ([]*model.Document, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	worker, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return nil, backendError("failed to load worker", err)
	}
	if worker == nil || worker.OrgID != session.OrgID {
		return nil, notFoundError("worker")
	}
	if session.ScopedToProjects() && !workerInProjects(worker, session.ProjectIDs) {
		return nil, ErrPermissionDenied
	}

	docs, err := s.docs.FindByWorker(ctx, workerID)
	if err != nil {
		return nil, backendError("failed to fetch documents", err)
	}
	for _, doc := range docs {
		doc.WorkerName = worker.Name
		s.Refresh(ctx, session, doc)
	}
	return docs, nil
}

// Delete removes the record and its stored object.
func (s *DocumentService) Delete(ctx context.Context, session *auth.Session, id primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	if !session.Can(auth.CapDeleteDocument) {
		return ErrPermissionDenied
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return backendError("failed to fetch document", err)
	}
	if doc == nil || doc.OrgID != session.OrgID {
		return notFoundError("document")
	}
	if err := s.checkProjectScope(ctx, session, doc); err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			return backendError("failed to delete file", err)
		}
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return backendError("failed to delete document", err)
	}
	return nil
}

// Refresh re-derives the document's status in place. When the stored value
// is stale it is persisted and, on a transition into expiring_soon or
// expired, exactly one notification is enqueued. Unchanged documents cause
// no writes and no notifications.
func (s *DocumentService) Refresh(ctx context.Context, session *auth.Session, doc *model.Document) {
	info := status.Classify(doc.ExpiryDate, time.Now())
	derived := string(info.Status)
	if derived == doc.Status {
		return
	}

	oldStatus := doc.Status
	doc.Status = derived

	if err := s.docs.UpdateStatus(ctx, doc.ID, derived, time.Now()); err != nil {
		// Stale cache is acceptable; the next read retries.
		log.Printf("[documents] status update failed for %s: %v", doc.ID.Hex(), err)
		return
	}

	if s.notify == nil || oldStatus == derived {
		return
	}
	switch status.Status(derived) {
	case status.ExpiringSoon, status.Expired:
		s.notify.Enqueue(buildStatusNotification(doc, info, session.UserID))
	}
}

func buildStatusNotification(doc *model.Document, info status.Info, userID primitive.ObjectID) *model.Notification {
	n := &model.Notification{
		UserID: userID,
		Metadata: model.NotificationMetadata{
			DocumentID: doc.ID,
			WorkerID:   doc.WorkerID,
			ProjectID:  doc.ProjectID,
		},
		Read: false,
	}
	if info.Status == status.Expired {
		n.Type = model.NotifDocumentExpired
		n.Title = "Documento Vencido"
		n.Message = fmt.Sprintf("El documento %s ha vencido", doc.Name)
	} else {
		n.Type = model.NotifDocumentExpiring
		n.Title = "Documento por Vencer"
		n.Message = fmt.Sprintf("El documento %s vencerá en %d días", doc.Name, info.DaysUntilExpiry)
	}
	return n
}

// checkProjectScope denies project-scoped roles access to documents of
// workers outside their assignments.
func (s *DocumentService) checkProjectScope(ctx context.Context, session *auth.Session, doc *model.Document) error {
	if !session.ScopedToProjects() {
		return nil
	}
	if !doc.ProjectID.IsZero() {
		if session.InProject(doc.ProjectID) {
			return nil
		}
		return ErrPermissionDenied
	}
	if doc.WorkerID.IsZero() {
		return ErrPermissionDenied
	}
	worker, err := s.workers.FindByID(ctx, doc.WorkerID)
	if err != nil {
		return backendError("failed to load worker", err)
	}
	if worker == nil || !workerInProjects(worker, session.ProjectIDs) {
		return ErrPermissionDenied
	}
	return nil
}

func workerInProjects(worker *model.Worker, projectIDs []primitive.ObjectID) bool {
	for _, wp := range worker.ProjectIDs {
		for _, sp := range projectIDs {
			if wp == sp {
				return true
			}
		}
	}
	return false
}
