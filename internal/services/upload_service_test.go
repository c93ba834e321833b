package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permiso_backend/internal/models"
	"permiso_backend/pkg/apperrors"
)

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStorage) GetURL(_ context.Context, key string) (string, error) {
	return "https://files.example.com/" + key, nil
}

func makeFileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func newUploadTestService(store *fakeStorage, projects *fakeProjectRepo) UploadService {
	return NewUploadService(store, projects, UploadConfig{
		MaxSize:      1024,
		MaxFiles:     3,
		AllowedTypes: []string{"application/pdf", "image/png"},
		AllowedExts:  []string{".pdf", ".png"},
	})
}

func TestUploadFile(t *testing.T) {
	t.Parallel()
	store := newFakeStorage()
	svc := newUploadTestService(store, newFakeProjectRepo())

	header := makeFileHeader(t, "plan.pdf", "application/pdf", []byte("%PDF-1.4 content"))
	file, err := svc.UploadFile(context.Background(), header)

	require.NoError(t, err)
	assert.Equal(t, "plan.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.Type)
	assert.True(t, strings.HasPrefix(file.PublicID, "permiso-documents/"))
	assert.True(t, strings.HasSuffix(file.PublicID, ".pdf"))
	assert.Equal(t, "https://files.example.com/"+file.PublicID, file.URL)
	assert.Equal(t, []byte("%PDF-1.4 content"), store.objects[file.PublicID])
}

func TestUploadFile_TooLarge(t *testing.T) {
	t.Parallel()
	svc := newUploadTestService(newFakeStorage(), newFakeProjectRepo())

	header := makeFileHeader(t, "huge.pdf", "application/pdf", bytes.Repeat([]byte("x"), 2048))
	_, err := svc.UploadFile(context.Background(), header)

	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestUploadFile_DisallowedType(t *testing.T) {
	t.Parallel()
	svc := newUploadTestService(newFakeStorage(), newFakeProjectRepo())

	header := makeFileHeader(t, "virus.exe", "application/x-msdownload", []byte("MZ"))
	_, err := svc.UploadFile(context.Background(), header)

	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestUploadFile_ExtensionMismatch(t *testing.T) {
	t.Parallel()
	svc := newUploadTestService(newFakeStorage(), newFakeProjectRepo())

	// MIME type is allowed but the extension is not.
	header := makeFileHeader(t, "plan.exe", "application/pdf", []byte("%PDF-1.4"))
	_, err := svc.UploadFile(context.Background(), header)

	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestUploadMultiple_MixedResults(t *testing.T) {
	t.Parallel()
	svc := newUploadTestService(newFakeStorage(), newFakeProjectRepo())

	headers := []*multipart.FileHeader{
		makeFileHeader(t, "ok.pdf", "application/pdf", []byte("fine")),
		makeFileHeader(t, "bad.exe", "application/x-msdownload", []byte("MZ")),
	}

	resp, err := svc.UploadMultiple(context.Background(), headers)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Uploaded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "1 file(s) uploaded, 1 failed", resp.Message)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestUploadMultiple_TooMany(t *testing.T) {
	t.Parallel()
	svc := newUploadTestService(newFakeStorage(), newFakeProjectRepo())

	headers := make([]*multipart.FileHeader, 4)
	for i := range headers {
		headers[i] = makeFileHeader(t, fmt.Sprintf("f%d.pdf", i), "application/pdf", []byte("x"))
	}

	_, err := svc.UploadMultiple(context.Background(), headers)
	assert.Error(t, err)

	_, err = svc.UploadMultiple(context.Background(), nil)
	assert.Error(t, err)
}

func TestUploadToProject(t *testing.T) {
	t.Parallel()
	store := newFakeStorage()
	projects := newFakeProjectRepo()
	svc := newUploadTestService(store, projects)

	project := &models.Project{Title: "Site Plan", ApplicantID: "owner-1"}
	require.NoError(t, projects.Create(project))

	header := makeFileHeader(t, "site.png", "image/png", []byte("png-bytes"))

	// A plain user cannot attach to someone else's project.
	_, err := svc.UploadToProject(context.Background(), "stranger", models.UserRoleUser, project.ID, header)
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	doc, err := svc.UploadToProject(context.Background(), "owner-1", models.UserRoleUser, project.ID, header)
	require.NoError(t, err)
	assert.Equal(t, "site.png", doc.Name)
	assert.NotEmpty(t, doc.StorageKey)

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	require.Len(t, stored.Documents, 1)

	// Reviewers may attach to any project.
	_, err = svc.UploadToProject(context.Background(), "reviewer-1", models.UserRoleReviewer, project.ID,
		makeFileHeader(t, "notes.pdf", "application/pdf", []byte("notes")))
	assert.NoError(t, err)
}

func TestDeleteDocument(t *testing.T) {
	t.Parallel()
	store := newFakeStorage()
	projects := newFakeProjectRepo()
	svc := newUploadTestService(store, projects)

	project := &models.Project{Title: "Site Plan", ApplicantID: "owner-1"}
	require.NoError(t, projects.Create(project))

	doc, err := svc.UploadToProject(context.Background(), "owner-1", models.UserRoleUser, project.ID,
		makeFileHeader(t, "site.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	err = svc.DeleteDocument(context.Background(), "stranger", models.UserRoleUser, project.ID, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	err = svc.DeleteDocument(context.Background(), "owner-1", models.UserRoleUser, project.ID, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, store.deleted, doc.StorageKey)

	err = svc.DeleteDocument(context.Background(), "owner-1", models.UserRoleUser, project.ID, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}
