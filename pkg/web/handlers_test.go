package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/embedding"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/llm"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence/file"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/services"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/vectorstore"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/web"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.Default()
	persistence := file.NewPersistence(t.TempDir())
	pipeline := retrieval.NewPipeline(embedding.NewHashEmbedder(), vectorstore.NewMemoryStore(), logger)
	executor := workflow.NewNodeExecutor(llm.NewMockProvider(), pipeline, logger)
	orchestrator := workflow.NewOrchestrator(executor, nil, logger)

	workflowService := services.NewWorkflow(persistence)
	knowledgeService := services.NewKnowledge(persistence, pipeline, nil, logger, t.TempDir())
	chatService := services.NewChat(persistence, orchestrator, logger)

	handlers := web.NewAPIHandlers(workflowService, knowledgeService, chatService,
		validator.New(validator.WithRequiredStructEnabled()), logger)

	app := fiber.New()

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Put("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/build", handlers.BuildWorkflow)
	w.Post("/:id/chats", handlers.CreateChat)
	w.Get("/:id/chats", handlers.GetChats)
	w.Get("/:id/chats/:chatId/messages", handlers.GetChatMessages)
	w.Post("/:id/chats/:chatId/messages", handlers.SendChatMessage)

	d := app.Group("/documents")
	d.Get("/", handlers.GetDocuments)
	d.Post("/upload", handlers.UploadDocument)
	d.Post("/:id/ingest", handlers.IngestDocument)
	d.Get("/:id/search", handlers.SearchDocument)
	d.Delete("/:id", handlers.DeleteDocument)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0})
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func createTestWorkflow(t *testing.T, app *fiber.App) models.Workflow {
	t.Helper()

	resp := postJSON(t, app, "/workflows/", web.CreateWorkflowRequest{
		Name: "Test Workflow",
		Nodes: []web.NodeRequest{
			{ID: "in", Type: "query-intake"},
			{ID: "out", Type: "output"},
		},
		Edges: []web.EdgeRequest{
			{ID: "e1", Source: "in", Target: "out"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow

	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)

	return created
}

func TestCreateWorkflow(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	assert.Equal(t, "Test Workflow", created.Name)
	assert.Len(t, created.Nodes, 2)
	assert.Len(t, created.Edges, 1)
	assert.Equal(t, models.EdgeTypeDefault, created.Edges[0].Type)
}

func TestCreateWorkflowValidation(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows/", web.CreateWorkflowRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/workflows/", web.CreateWorkflowRequest{
		Name:  "bad node type",
		Nodes: []web.NodeRequest{{ID: "x", Type: "mystery"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetWorkflow(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	req := httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/workflows/missing", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateWorkflow(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	body, err := json.Marshal(web.UpdateWorkflowRequest{
		Name: "Renamed",
		Nodes: []web.NodeRequest{
			{ID: "in", Type: "query-intake"},
			{ID: "gen", Type: "generation"},
			{ID: "out", Type: "output"},
		},
		Edges: []web.EdgeRequest{
			{ID: "e1", Source: "in", Target: "gen"},
			{ID: "e2", Source: "gen", Target: "out"},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/workflows/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Workflow

	decodeBody(t, resp, &updated)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Len(t, updated.Nodes, 3)
}

func TestDeleteWorkflow(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	req := httptest.NewRequest(http.MethodDelete, "/workflows/"+created.ID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/workflows/"+created.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBuildWorkflow(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	resp := postJSON(t, app, "/workflows/"+created.ID+"/build", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var build web.BuildResponse

	decodeBody(t, resp, &build)
	assert.True(t, build.Valid)
}

func TestBuildWorkflowInvalid(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows/", web.CreateWorkflowRequest{
		Name: "no output",
		Nodes: []web.NodeRequest{
			{ID: "in", Type: "query-intake"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow

	decodeBody(t, resp, &created)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/build", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var build web.BuildResponse

	decodeBody(t, resp, &build)
	assert.False(t, build.Valid)
	assert.NotEmpty(t, build.Error)
}

func TestChatMessageStreaming(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	resp := postJSON(t, app, "/workflows/"+created.ID+"/chats", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var chat models.Chat

	decodeBody(t, resp, &chat)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/chats/"+chat.ID+"/messages",
		web.SendMessageRequest{Content: "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	stream := string(body)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stream), "data: [DONE]"))

	// Reassemble the token payloads into the full response.
	var response strings.Builder

	for _, line := range strings.Split(stream, "\n") {
		payload, found := strings.CutPrefix(line, "data: ")
		if !found || payload == "[DONE]" {
			continue
		}

		var token map[string]string

		require.NoError(t, json.Unmarshal([]byte(payload), &token))
		response.WriteString(token["token"])
	}

	assert.Equal(t, "hello", response.String())

	// The transcript is persisted once the stream finishes.
	req := httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID+"/chats/"+chat.ID+"/messages", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []models.Message

	decodeBody(t, resp, &messages)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, models.MessageRoleAssistant, messages[1].Role)
}

func TestSendMessageValidation(t *testing.T) {
	app := setupTestApp(t)

	created := createTestWorkflow(t, app)

	resp := postJSON(t, app, "/workflows/"+created.ID+"/chats", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var chat models.Chat

	decodeBody(t, resp, &chat)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/chats/"+chat.ID+"/messages",
		web.SendMessageRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/chats/missing/messages",
		web.SendMessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func uploadTestDocument(t *testing.T, app *fiber.App, filename, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestDocumentLifecycle(t *testing.T) {
	app := setupTestApp(t)

	resp := uploadTestDocument(t, app, "notes.txt", "vacation policy grants twenty days per year")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var document models.Document

	decodeBody(t, resp, &document)
	require.NotEmpty(t, document.ID)

	resp = postJSON(t, app, "/documents/"+document.ID+"/ingest", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet,
		"/documents/"+document.ID+"/search?q=vacation+policy+grants+twenty+days+per+year", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var search struct {
		Results []models.SearchResult `json:"results"`
	}

	decodeBody(t, resp, &search)
	require.NotEmpty(t, search.Results)
	assert.Contains(t, search.Results[0].Content, "vacation policy")

	req = httptest.NewRequest(http.MethodDelete, "/documents/"+document.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUploadDocumentRejectsUnsupportedType(t *testing.T) {
	app := setupTestApp(t)

	resp := uploadTestDocument(t, app, "binary.exe", "MZ")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchDocumentNotIngested(t *testing.T) {
	app := setupTestApp(t)

	resp := uploadTestDocument(t, app, "notes.txt", "content")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var document models.Document

	decodeBody(t, resp, &document)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+document.ID+"/search?q=content", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
