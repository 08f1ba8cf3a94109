package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
)

type downloadFixture struct {
	*documentFixture
	downloads *DownloadService
}

func newDownloadFixture() *downloadFixture {
	f := newDocumentFixture(auth.RoleSubscriber)
	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxFileSizeBytes: config.DefaultMaxFileSize,
			AllowedMimeTypes: config.DefaultAllowedMimeTypes,
		},
		// Immediate retries keep the tests fast.
		Download: config.DownloadConfig{FetchAttempts: 3, RetryDelaySec: 0},
	}
	return &downloadFixture{
		documentFixture: f,
		downloads:       NewDownloadService(f.svc, f.store, cfg),
	}
}

func (f *downloadFixture) upload(t *testing.T, name string, docType model.DocumentType, expiry *time.Time) *model.Document {
	t.Helper()
	input := validUpload(f.worker.ID)
	input.FileName = name
	input.Type = docType
	input.ExpiryDate = expiry
	doc, err := f.svc.Upload(context.Background(), f.session, input)
	require.NoError(t, err)
	return doc
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := map[string]string{}
	for _, file := range zr.File {
		rc, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[file.Name] = string(content)
	}
	return entries
}

func TestWorkerArchiveGroupsByTypeLabel(t *testing.T) {
	f := newDownloadFixture()
	f.upload(t, "carnet.pdf", model.DocCarnetSalud, nil)
	f.upload(t, "recibo enero.pdf", model.DocReciboSueldo, nil)

	var buf bytes.Buffer
	report, err := f.downloads.WorkerArchive(context.Background(), f.session, f.worker.ID, DownloadOptions{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Included)
	assert.False(t, report.PartialFailure)

	entries := readArchive(t, buf.Bytes())
	assert.Contains(t, entries, "Carnet de Salud/carnet.pdf")
	assert.Contains(t, entries, "Recibo de Sueldo/recibo_enero.pdf")
}

func TestWorkerArchiveSkipExpired(t *testing.T) {
	f := newDownloadFixture()
	f.upload(t, "vigente.pdf", model.DocCertBPS, nil)
	expired := f.upload(t, "vencido.pdf", model.DocCertDGI, nil)

	// Expire the stored record after upload.
	past := time.Now().AddDate(0, 0, -2)
	f.docs.docs[expired.ID].ExpiryDate = &past

	var buf bytes.Buffer
	report, err := f.downloads.WorkerArchive(context.Background(), f.session, f.worker.ID, DownloadOptions{SkipExpired: true}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Included)
	assert.Equal(t, 1, report.Skipped)

	entries := readArchive(t, buf.Bytes())
	assert.Contains(t, entries, "Certificado BPS/vigente.pdf")
	assert.NotContains(t, entries, "Certificado DGI/vencido.pdf")
}

func TestWorkerArchiveTypeFilter(t *testing.T) {
	f := newDownloadFixture()
	f.upload(t, "carnet.pdf", model.DocCarnetSalud, nil)
	f.upload(t, "recibo.pdf", model.DocReciboSueldo, nil)

	var buf bytes.Buffer
	report, err := f.downloads.WorkerArchive(context.Background(), f.session, f.worker.ID,
		DownloadOptions{Types: []model.DocumentType{model.DocCarnetSalud}}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Included)
	assert.Equal(t, 1, report.Skipped)
}

func TestWorkerArchivePartialFailureManifest(t *testing.T) {
	f := newDownloadFixture()
	f.upload(t, "bueno.pdf", model.DocCarnetSalud, nil)
	broken := f.upload(t, "roto.pdf", model.DocCertSeguro, nil)

	// Remove the object behind one document; every fetch attempt will fail.
	delete(f.store.objects, f.docs.docs[broken.ID].StoragePath)

	var buf bytes.Buffer
	report, err := f.downloads.WorkerArchive(context.Background(), f.session, f.worker.ID, DownloadOptions{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Included)
	assert.True(t, report.PartialFailure)
	assert.Equal(t, []string{"roto.pdf"}, report.Failed)

	entries := readArchive(t, buf.Bytes())
	assert.Contains(t, entries, "ERRORES.txt")
	assert.Contains(t, entries["ERRORES.txt"], "roto.pdf")
}

func TestWorkerArchiveRetriesTransientFailures(t *testing.T) {
	f := newDownloadFixture()
	f.upload(t, "carnet.pdf", model.DocCarnetSalud, nil)

	// First two fetches fail, the third succeeds.
	f.store.failGets = 2

	var buf bytes.Buffer
	report, err := f.downloads.WorkerArchive(context.Background(), f.session, f.worker.ID, DownloadOptions{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Included)
	assert.False(t, report.PartialFailure)
	assert.Equal(t, 3, f.store.getCalls)
}
