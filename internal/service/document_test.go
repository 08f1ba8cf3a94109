package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/status"
)

type documentFixture struct {
	svc     *DocumentService
	docs    *fakeDocumentRepo
	workers *fakeWorkerRepo
	store   *fakeStorage
	notify  *fakeNotifier
	session *auth.Session
	worker  *model.Worker
}

func newDocumentFixture(role auth.Role) *documentFixture {
	docs := newFakeDocumentRepo()
	workers := newFakeWorkerRepo()
	store := newFakeStorage()
	notifier := &fakeNotifier{}

	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxFileSizeBytes: config.DefaultMaxFileSize,
			AllowedMimeTypes: config.DefaultAllowedMimeTypes,
		},
	}

	orgID := primitive.NewObjectID()
	worker := workers.add(&model.Worker{OrgID: orgID, Name: "Juan Pérez", DocumentNumber: "12345678"})

	return &documentFixture{
		svc:     NewDocumentService(docs, workers, store, notifier, cfg),
		docs:    docs,
		workers: workers,
		store:   store,
		notify:  notifier,
		session: &auth.Session{
			UserID: primitive.NewObjectID(),
			Role:   role,
			OrgID:  orgID,
		},
		worker: worker,
	}
}

func validUpload(workerID primitive.ObjectID) UploadInput {
	expiry := time.Now().AddDate(0, 3, 0)
	return UploadInput{
		WorkerID:    workerID,
		Type:        model.DocCarnetSalud,
		FileName:    "carnet.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 test"),
		ExpiryDate:  &expiry,
	}
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)

	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	assert.Equal(t, f.session.OrgID, doc.OrgID)
	assert.Equal(t, string(status.Valid), doc.Status)
	assert.NotEmpty(t, doc.StoragePath)
	assert.Equal(t, "test-bucket", doc.Bucket)
	assert.Equal(t, "checksum", doc.Checksum)
	assert.Equal(t, 1, f.store.saveCalls)
	assert.Equal(t, 1, f.docs.insertCalls)
	assert.Len(t, doc.AuditLog.Actions, 1)
	assert.Equal(t, "documentos_personales", doc.Metadata.Category)
}

func TestUploadViewerDenied(t *testing.T) {
	f := newDocumentFixture(auth.RoleViewer)

	_, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.store.saveCalls)
	assert.Zero(t, f.docs.insertCalls)
}

func TestUploadValidationBeforeBackend(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)

	tests := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{"unknown type", func(in *UploadInput) { in.Type = "pasaporte" }},
		{"empty file", func(in *UploadInput) { in.Content = nil }},
		{"oversized file", func(in *UploadInput) { in.Content = make([]byte, config.DefaultMaxFileSize+1) }},
		{"bad mime", func(in *UploadInput) { in.ContentType = "application/zip" }},
		{"past expiry", func(in *UploadInput) {
			past := time.Now().AddDate(0, 0, -1)
			in.ExpiryDate = &past
		}},
		{"expiry too far out", func(in *UploadInput) {
			far := time.Now().AddDate(0, 13, 0)
			in.ExpiryDate = &far
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validUpload(f.worker.ID)
			tt.mutate(&input)
			_, err := f.svc.Upload(context.Background(), f.session, input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	// None of the rejected uploads may have touched storage or the database.
	assert.Zero(t, f.store.saveCalls)
	assert.Zero(t, f.docs.insertCalls)
}

func TestUploadUnknownWorker(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)

	_, err := f.svc.Upload(context.Background(), f.session, validUpload(primitive.NewObjectID()))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.store.saveCalls)
}

func TestUploadCrossOrgWorkerHidden(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	other := f.workers.add(&model.Worker{OrgID: primitive.NewObjectID(), Name: "Otro", DocumentNumber: "87654321"})

	_, err := f.svc.Upload(context.Background(), f.session, validUpload(other.ID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadCollaboratorOutsideProjectDenied(t *testing.T) {
	f := newDocumentFixture(auth.RoleCollaborator)
	f.session.ProjectIDs = []primitive.ObjectID{primitive.NewObjectID()}
	f.worker.ProjectIDs = []primitive.ObjectID{primitive.NewObjectID()}

	_, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.store.saveCalls)
}

func TestUploadCompensatesStorageOnInsertFailure(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	f.docs.failNextInsert = true

	_, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Empty(t, f.store.objects, "orphaned object left behind")
}

func TestDeleteViewerDenied(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	viewer := &auth.Session{UserID: primitive.NewObjectID(), Role: auth.RoleViewer, OrgID: f.session.OrgID}
	err = f.svc.Delete(context.Background(), viewer, doc.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.docs.deleteCalls)
	assert.Len(t, f.store.objects, 1)
}

func TestDeleteRemovesObjectAndRecord(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.session, doc.ID))
	assert.Empty(t, f.store.objects)
	assert.Equal(t, 1, f.docs.deleteCalls)
}

func TestRefreshTransitionNotifiesOnce(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	// Move the expiry into the warning window while the stored status still
	// says valid.
	expiry := time.Now().AddDate(0, 0, 10)
	doc.ExpiryDate = &expiry

	f.svc.Refresh(context.Background(), f.session, doc)
	assert.Equal(t, string(status.ExpiringSoon), doc.Status)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, model.NotifDocumentExpiring, f.notify.sent[0].Type)
	assert.Equal(t, "Documento por Vencer", f.notify.sent[0].Title)

	// A second read with the same derived status is a no-op.
	f.svc.Refresh(context.Background(), f.session, doc)
	assert.Len(t, f.notify.sent, 1)
	assert.Equal(t, 1, f.docs.updateCalls)
}

func TestRefreshExpiredNotification(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 0, -1)
	doc.ExpiryDate = &expiry

	f.svc.Refresh(context.Background(), f.session, doc)
	assert.Equal(t, string(status.Expired), doc.Status)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, model.NotifDocumentExpired, f.notify.sent[0].Type)
	assert.Equal(t, "Documento Vencido", f.notify.sent[0].Title)
	assert.Equal(t, doc.ID, f.notify.sent[0].Metadata.DocumentID)
}

func TestGetRefreshesStatus(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 0, 5)
	f.docs.docs[doc.ID].ExpiryDate = &expiry

	got, err := f.svc.Get(context.Background(), f.session, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, string(status.ExpiringSoon), got.Status)
}

func TestGetCrossOrgHidden(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)

	outsider := &auth.Session{UserID: primitive.NewObjectID(), Role: auth.RoleSubscriber, OrgID: primitive.NewObjectID()}
	_, err = f.svc.Get(context.Background(), outsider, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadNoExpiryIsValid(t *testing.T) {
	f := newDocumentFixture(auth.RoleSubscriber)
	input := validUpload(f.worker.ID)
	input.ExpiryDate = nil

	doc, err := f.svc.Upload(context.Background(), f.session, input)
	require.NoError(t, err)
	assert.Equal(t, string(status.Valid), doc.Status)
}
