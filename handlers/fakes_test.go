package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"taskoo-project/backend/middleware"
	"taskoo-project/backend/models"
	"taskoo-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeProjects records every call so tests can assert that rejected requests never reach it.
type fakeProjects struct {
	calls       []string
	created     *models.Project
	attachments []models.Attachment
	uploads     []models.Upload
	content     []byte
	doneBucket  primitive.ObjectID
	err         error
}

func (f *fakeProjects) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeProjects) CreateProject(_ context.Context, p *models.Project) (primitive.ObjectID, error) {
	f.created = p
	return primitive.NewObjectID(), f.record("CreateProject")
}

func (f *fakeProjects) GetProjectList(context.Context, primitive.ObjectID, models.Page) (*models.PageResult[models.Project], error) {
	return &models.PageResult[models.Project]{List: []models.Project{}}, f.record("GetProjectList")
}

func (f *fakeProjects) GetDetails(context.Context, primitive.ObjectID) (*models.ProjectDetail, error) {
	return &models.ProjectDetail{}, f.record("GetDetails")
}

func (f *fakeProjects) GetStatusStatistic(context.Context, primitive.ObjectID) (models.StatusStatistic, error) {
	return models.NewStatusStatistic(), f.record("GetStatusStatistic")
}

func (f *fakeProjects) GetTaskStatistic(context.Context, primitive.ObjectID) (models.StatusStatistic, error) {
	return models.NewStatusStatistic(), f.record("GetTaskStatistic")
}

func (f *fakeProjects) GetFavoriteStatus(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error) {
	return true, f.record("GetFavoriteStatus")
}

func (f *fakeProjects) GetFavoriteList(context.Context, primitive.ObjectID, models.Page) (*models.PageResult[models.Project], error) {
	return &models.PageResult[models.Project]{List: []models.Project{}}, f.record("GetFavoriteList")
}

func (f *fakeProjects) AddToFavorite(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return f.record("AddToFavorite")
}

func (f *fakeProjects) RemoveFromFavorite(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return f.record("RemoveFromFavorite")
}

func (f *fakeProjects) GetTasks(context.Context, primitive.ObjectID) ([]models.Task, error) {
	return []models.Task{}, f.record("GetTasks")
}

func (f *fakeProjects) UploadAttachments(_ context.Context, _, _ primitive.ObjectID, uploads []models.Upload) ([]models.Attachment, error) {
	if err := f.record("UploadAttachments"); err != nil {
		return nil, err
	}
	out := make([]models.Attachment, 0, len(uploads))
	for _, u := range uploads {
		data, _ := io.ReadAll(u.Content)
		f.uploads = append(f.uploads, models.Upload{Name: u.Name, MimeType: u.MimeType, Content: bytes.NewReader(data)})
		out = append(out, models.NewAttachment(primitive.NewObjectID(), u.Name, u.MimeType, int64(len(data)), primitive.NilObjectID))
	}
	return out, nil
}

func (f *fakeProjects) GetAttachments(context.Context, primitive.ObjectID) ([]models.Attachment, error) {
	return f.attachments, f.record("GetAttachments")
}

func (f *fakeProjects) OpenAttachment(_ context.Context, _ primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error) {
	if err := f.record("OpenAttachment"); err != nil {
		return nil, nil, err
	}
	for i := range f.attachments {
		if f.attachments[i].ID == attachmentID {
			return &f.attachments[i], io.NopCloser(bytes.NewReader(f.content)), nil
		}
	}
	return nil, nil, fmt.Errorf("attachment %w", services.ErrNotFound)
}

func (f *fakeProjects) DoneCheck(context.Context, primitive.ObjectID) (*models.DoneCheck, error) {
	return &models.DoneCheck{Done: false, Total: 3, Unfinished: 1}, f.record("DoneCheck")
}

func (f *fakeProjects) SetDone(_ context.Context, _, bucketID primitive.ObjectID) error {
	f.doneBucket = bucketID
	return f.record("SetDone")
}

func (f *fakeProjects) GetStatus(context.Context, primitive.ObjectID) (string, error) {
	return models.StatusReview, f.record("GetStatus")
}

func (f *fakeProjects) GetActivities(context.Context, primitive.ObjectID, models.Page) (*models.PageResult[models.ProjectActivity], error) {
	return &models.PageResult[models.ProjectActivity]{List: []models.ProjectActivity{}}, f.record("GetActivities")
}

type fakeSearcher struct {
	term   string
	bucket primitive.ObjectID
}

func (f *fakeSearcher) Search(_ context.Context, term string, bucketID primitive.ObjectID) (*models.SearchResult, error) {
	f.term, f.bucket = term, bucketID
	return &models.SearchResult{Projects: []models.Project{}, Tasks: []models.Task{}}, nil
}

type fakePermissions struct {
	allowed  map[string]bool
	position string
}

func (f *fakePermissions) GetPermission(_ context.Context, positionID, permission string) (bool, error) {
	f.position = positionID
	return f.allowed[permission], nil
}

type fakeTasks struct {
	calls       []string
	tasks       []models.Task
	attachments []models.Attachment
	content     []byte
	created     *models.Task
	bucket      primitive.ObjectID
}

func (f *fakeTasks) CreateTask(_ context.Context, t *models.Task, bucketID primitive.ObjectID) (primitive.ObjectID, error) {
	f.calls = append(f.calls, "CreateTask")
	f.created, f.bucket = t, bucketID
	return primitive.NewObjectID(), nil
}

func (f *fakeTasks) GetTaskList(context.Context, primitive.ObjectID) ([]models.Task, error) {
	f.calls = append(f.calls, "GetTaskList")
	return f.tasks, nil
}

func (f *fakeTasks) GetTodoList(context.Context, primitive.ObjectID) ([]models.Task, error) {
	f.calls = append(f.calls, "GetTodoList")
	return models.FilterTodo(f.tasks), nil
}

func (f *fakeTasks) UploadAttachments(context.Context, primitive.ObjectID, primitive.ObjectID, []models.Upload) ([]models.Attachment, error) {
	f.calls = append(f.calls, "UploadAttachments")
	return []models.Attachment{}, nil
}

func (f *fakeTasks) GetAttachments(context.Context, primitive.ObjectID) ([]models.Attachment, error) {
	f.calls = append(f.calls, "GetAttachments")
	return f.attachments, nil
}

func (f *fakeTasks) OpenAttachment(_ context.Context, _ primitive.ObjectID, attachmentID string) (*models.Attachment, io.ReadCloser, error) {
	f.calls = append(f.calls, "OpenAttachment")
	for i := range f.attachments {
		if f.attachments[i].ID == attachmentID {
			return &f.attachments[i], io.NopCloser(bytes.NewReader(f.content)), nil
		}
	}
	return nil, nil, fmt.Errorf("attachment %w", services.ErrNotFound)
}

func (f *fakeTasks) DeleteTask(context.Context, primitive.ObjectID) error {
	f.calls = append(f.calls, "DeleteTask")
	return nil
}

type fakeAccounts struct {
	result *services.LoginResult
	err    error
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAccounts) GetAccount(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	return &models.Account{ID: id, Email: "ana@taskoo.com", Password: "hash"}, nil
}

// asCaller stands in for the session middleware.
func asCaller(info models.AccountInfo) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithAccountInfo(r.Context(), info)))
		})
	}
}

type testAPI struct {
	router      *mux.Router
	info        models.AccountInfo
	projects    *fakeProjects
	tasks       *fakeTasks
	search      *fakeSearcher
	permissions *fakePermissions
	accounts    *fakeAccounts
}

func newTestAPI() *testAPI {
	api := &testAPI{
		info:        models.AccountInfo{ID: primitive.NewObjectID(), Bucket: primitive.NewObjectID(), Position: "developer", Email: "ana@taskoo.com"},
		projects:    &fakeProjects{},
		tasks:       &fakeTasks{},
		search:      &fakeSearcher{},
		permissions: &fakePermissions{allowed: map[string]bool{}},
		accounts:    &fakeAccounts{},
	}
	api.router = mux.NewRouter()
	RegisterRoutes(api.router,
		NewProjectHandler(api.projects, api.search, api.permissions, 1<<20),
		NewTaskHandler(api.tasks, 1<<20),
		NewAccountHandler(api.accounts),
		nil,
		[]mux.MiddlewareFunc{asCaller(api.info)},
	)
	return api
}
