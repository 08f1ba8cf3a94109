package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// In-memory doubles for the repository and storage interfaces. They track
// call counts so tests can assert that rejected requests never reach the
// backend.

type fakeDocumentRepo struct {
	docs           map[primitive.ObjectID]*model.Document
	insertCalls    int
	updateCalls    int
	deleteCalls    int
	failNextInsert bool
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[primitive.ObjectID]*model.Document{}}
}

func (f *fakeDocumentRepo) Insert(_ context.Context, doc *model.Document) (*model.Document, error) {
	f.insertCalls++
	if f.failNextInsert {
		f.failNextInsert = false
		return nil, errors.New("insert failed")
	}
	doc.ID = primitive.NewObjectID()
	f.docs[doc.ID] = doc
	return doc, nil
}

func (f *fakeDocumentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDocumentRepo) FindByOrg(_ context.Context, orgID primitive.ObjectID, filter repository.DocumentFilter) ([]*model.Document, error) {
	var out []*model.Document
	for _, doc := range f.docs {
		if doc.OrgID != orgID {
			continue
		}
		if len(filter.WorkerIDs) > 0 && !containsID(filter.WorkerIDs, doc.WorkerID) {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, doc.Type) {
			continue
		}
		if !filter.Start.IsZero() && doc.UploadedAt.Before(filter.Start) {
			continue
		}
		if !filter.End.IsZero() && doc.UploadedAt.After(filter.End) {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsType(types []model.DocumentType, t model.DocumentType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func (f *fakeDocumentRepo) FindByWorker(_ context.Context, workerID primitive.ObjectID) ([]*model.Document, error) {
	var out []*model.Document
	for _, doc := range f.docs {
		if doc.WorkerID == workerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string, _ time.Time) error {
	f.updateCalls++
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
	}
	return nil
}

func (f *fakeDocumentRepo) AppendAuditAction(_ context.Context, id primitive.ObjectID, action model.AuditAction) error {
	if doc, ok := f.docs[id]; ok {
		doc.AuditLog.Actions = append(doc.AuditLog.Actions, action)
	}
	return nil
}

func (f *fakeDocumentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleteCalls++
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentRepo) DeleteByWorker(_ context.Context, workerID primitive.ObjectID) error {
	for id, doc := range f.docs {
		if doc.WorkerID == workerID {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeDocumentRepo) CountByOrg(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	var n int64
	for _, doc := range f.docs {
		if doc.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

type fakeWorkerRepo struct {
	workers map[primitive.ObjectID]*model.Worker
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: map[primitive.ObjectID]*model.Worker{}}
}

func (f *fakeWorkerRepo) add(w *model.Worker) *model.Worker {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	f.workers[w.ID] = w
	return w
}

func (f *fakeWorkerRepo) Create(_ context.Context, w *model.Worker) (*model.Worker, error) {
	return f.add(w), nil
}

func (f *fakeWorkerRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Worker, error) {
	return f.workers[id], nil
}

func (f *fakeWorkerRepo) FindByOrg(_ context.Context, orgID primitive.ObjectID) ([]*model.Worker, error) {
	var out []*model.Worker
	for _, w := range f.workers {
		if w.OrgID == orgID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkerRepo) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]*model.Worker, error) {
	return f.FindByProjects(context.Background(), []primitive.ObjectID{projectID})
}

func (f *fakeWorkerRepo) FindByProjects(_ context.Context, projectIDs []primitive.ObjectID) ([]*model.Worker, error) {
	var out []*model.Worker
	for _, w := range f.workers {
		for _, wp := range w.ProjectIDs {
			for _, pid := range projectIDs {
				if wp == pid {
					out = append(out, w)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeWorkerRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	return nil
}

func (f *fakeWorkerRepo) AddToProject(_ context.Context, workerID, projectID primitive.ObjectID) error {
	if w, ok := f.workers[workerID]; ok {
		w.ProjectIDs = append(w.ProjectIDs, projectID)
	}
	return nil
}

func (f *fakeWorkerRepo) RemoveFromProject(_ context.Context, workerID, projectID primitive.ObjectID) error {
	return nil
}

func (f *fakeWorkerRepo) RemoveProjectFromAll(_ context.Context, projectID primitive.ObjectID) error {
	return nil
}

func (f *fakeWorkerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.workers, id)
	return nil
}

func (f *fakeWorkerRepo) CountByOrg(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	var n int64
	for _, w := range f.workers {
		if w.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

type fakeProjectRepo struct {
	projects map[primitive.ObjectID]*model.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[primitive.ObjectID]*model.Project{}}
}

func (f *fakeProjectRepo) add(p *model.Project) *model.Project {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.projects[p.ID] = p
	return p
}

func (f *fakeProjectRepo) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	return f.add(p), nil
}

func (f *fakeProjectRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjectRepo) FindByOrg(_ context.Context, orgID primitive.ObjectID) ([]*model.Project, error) {
	var out []*model.Project
	for _, p := range f.projects {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Project, error) {
	var out []*model.Project
	for _, id := range ids {
		if p, ok := f.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) CountByOrg(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	var n int64
	for _, p := range f.projects {
		if p.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

type fakeStorage struct {
	objects   map[string][]byte
	saveCalls int
	getCalls  int
	failGets  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Save(_ context.Context, key, _ string, data []byte) (string, int64, error) {
	f.saveCalls++
	f.objects[key] = data
	return "checksum", int64(len(data)), nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f.getCalls++
	if f.failGets > 0 {
		f.failGets--
		return nil, 0, errors.New("storage unavailable")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, 0, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Bucket() string { return "test-bucket" }

type fakeNotifier struct {
	sent []*model.Notification
}

func (f *fakeNotifier) Enqueue(n *model.Notification) {
	f.sent = append(f.sent, n)
}
