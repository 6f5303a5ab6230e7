package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devcommunity/internal/config"
	"devcommunity/internal/repository"
	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Read-only stubs. The embedded interface covers the methods the routing
// tests never reach.

type stubPostService struct{ service.PostService }

func (stubPostService) ListPosts(ctx context.Context) ([]service.PostDetails, error) {
	return nil, nil
}

func (stubPostService) GetPost(ctx context.Context, postID string) (*service.PostDetails, error) {
	return &service.PostDetails{}, nil
}

type stubQuestionService struct{ service.QuestionService }

func (stubQuestionService) ListQuestions(ctx context.Context) ([]service.QuestionDetails, error) {
	return nil, nil
}

func (stubQuestionService) GetQuestion(ctx context.Context, questionID string) (*service.QuestionDetails, error) {
	return &service.QuestionDetails{}, nil
}

type stubJobService struct{ service.JobService }

func (stubJobService) ListJobs(ctx context.Context, opts repository.ListOptions) ([]service.JobDetails, error) {
	return nil, nil
}

func (stubJobService) GetJob(ctx context.Context, jobID string) (*service.JobDetails, error) {
	return &service.JobDetails{}, nil
}

type stubProjectService struct{ service.ProjectService }

func (stubProjectService) ListProjects(ctx context.Context, opts repository.ListOptions) ([]service.ProjectDetails, error) {
	return nil, nil
}

func (stubProjectService) GetProject(ctx context.Context, projectID string) (*service.ProjectDetails, error) {
	return &service.ProjectDetails{}, nil
}

func newRoutesTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var cfg config.Config
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = time.Hour

	SetupRoutes(router, cfg, nil, nil, stubPostService{}, stubQuestionService{}, stubJobService{}, stubProjectService{})
	return router
}

func TestReadRoutesArePublic(t *testing.T) {
	router := newRoutesTestRouter()

	paths := []string{
		"/api/v1/get/posts",
		"/api/v1/get/post/abc",
		"/api/v1/get/questions",
		"/api/v1/get/question/abc",
		"/api/v1/get/jobs",
		"/api/v1/get/job/abc",
		"/api/v1/get/projects",
		"/api/v1/get/project/abc",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMutationRoutesRequireAuth(t *testing.T) {
	router := newRoutesTestRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/my/posts"},
		{http.MethodPost, "/api/v1/create/post"},
		{http.MethodGet, "/api/v1/post/likeAndunlike/abc"},
		{http.MethodGet, "/api/v1/question/viewed/abc"},
		{http.MethodPut, "/api/v1/apply/job/abc"},
		{http.MethodPost, "/api/v1/complete/project"},
	}
	for _, r := range requests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
	}
}
