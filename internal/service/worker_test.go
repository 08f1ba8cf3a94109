package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
)

type workerFixture struct {
	*documentFixture
	projects *fakeProjectRepo
	wsvc     *WorkerService
}

func newWorkerFixture(role auth.Role) *workerFixture {
	f := newDocumentFixture(role)
	projects := newFakeProjectRepo()
	return &workerFixture{
		documentFixture: f,
		projects:        projects,
		wsvc:            NewWorkerService(f.workers, projects, f.docs, f.store, nil),
	}
}

func TestCreateWorker(t *testing.T) {
	f := newWorkerFixture(auth.RoleSubscriber)

	worker, err := f.wsvc.Create(context.Background(), f.session, WorkerInput{
		Name:           "María González",
		DocumentNumber: "45678901",
	})
	require.NoError(t, err)
	assert.Equal(t, f.session.OrgID, worker.OrgID)
	assert.Equal(t, f.session.UserID, worker.CreatedBy)
	assert.Empty(t, worker.ProjectIDs)
}

func TestCreateWorkerViewerDenied(t *testing.T) {
	f := newWorkerFixture(auth.RoleViewer)

	_, err := f.wsvc.Create(context.Background(), f.session, WorkerInput{
		Name:           "María González",
		DocumentNumber: "45678901",
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateWorkerValidatesDocumentNumber(t *testing.T) {
	f := newWorkerFixture(auth.RoleSubscriber)

	for _, number := range []string{"", "123", "123456789", "1234567a"} {
		_, err := f.wsvc.Create(context.Background(), f.session, WorkerInput{
			Name:           "María",
			DocumentNumber: number,
		})
		assert.ErrorIs(t, err, ErrValidation, number)
	}
}

func TestCreateWorkerRejectsForeignProject(t *testing.T) {
	f := newWorkerFixture(auth.RoleSubscriber)
	foreign := f.projects.add(&model.Project{OrgID: primitive.NewObjectID(), Name: "Ajena"})

	_, err := f.wsvc.Create(context.Background(), f.session, WorkerInput{
		Name:           "María",
		DocumentNumber: "45678901",
		ProjectIDs:     []primitive.ObjectID{foreign.ID},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollaboratorCreatesOnlyInOwnProjects(t *testing.T) {
	f := newWorkerFixture(auth.RoleCollaborator)
	mine := f.projects.add(&model.Project{OrgID: f.session.OrgID, Name: "Mía"})
	other := f.projects.add(&model.Project{OrgID: f.session.OrgID, Name: "Otra"})
	f.session.ProjectIDs = []primitive.ObjectID{mine.ID}

	_, err := f.wsvc.Create(context.Background(), f.session, WorkerInput{
		Name:           "María",
		DocumentNumber: "45678901",
		ProjectIDs:     []primitive.ObjectID{mine.ID},
	})
	assert.NoError(t, err)

	_, err = f.wsvc.Create(context.Background(), f.session, WorkerInput{
		Name:           "Pedro",
		DocumentNumber: "45678902",
		ProjectIDs:     []primitive.ObjectID{other.ID},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListScopedForViewer(t *testing.T) {
	f := newWorkerFixture(auth.RoleViewer)
	projectID := primitive.NewObjectID()
	f.worker.ProjectIDs = []primitive.ObjectID{projectID}
	f.workers.add(&model.Worker{OrgID: f.session.OrgID, Name: "Sin obra", DocumentNumber: "99990000"})

	f.session.ProjectIDs = []primitive.ObjectID{projectID}
	workers, err := f.wsvc.List(context.Background(), f.session)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, f.worker.ID, workers[0].ID)
}

func TestDeleteWorkerCascades(t *testing.T) {
	f := newWorkerFixture(auth.RoleSubscriber)
	doc, err := f.svc.Upload(context.Background(), f.session, validUpload(f.worker.ID))
	require.NoError(t, err)
	require.Len(t, f.store.objects, 1)

	require.NoError(t, f.wsvc.Delete(context.Background(), f.session, f.worker.ID))

	assert.Empty(t, f.store.objects, "stored file should be gone")
	got, _ := f.docs.FindByID(context.Background(), doc.ID)
	assert.Nil(t, got, "document record should be gone")
	w, _ := f.workers.FindByID(context.Background(), f.worker.ID)
	assert.Nil(t, w)
}

func TestDeleteWorkerCollaboratorDenied(t *testing.T) {
	f := newWorkerFixture(auth.RoleCollaborator)

	err := f.wsvc.Delete(context.Background(), f.session, f.worker.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	w, _ := f.workers.FindByID(context.Background(), f.worker.ID)
	assert.NotNil(t, w)
}
