// Package web provides HTTP handlers and REST API endpoints for the workflow
// builder.
package web

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/services"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

// doneSentinel terminates every chat token stream, success or failure.
const doneSentinel = "[DONE]"

type APIHandlers struct {
	workflowService  *services.Workflow
	knowledgeService *services.Knowledge
	chatService      *services.Chat
	validator        *validator.Validate
	logger           *slog.Logger
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	knowledgeService *services.Knowledge,
	chatService *services.Chat,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		knowledgeService: knowledgeService,
		chatService:      chatService,
		validator:        validator,
		logger:           logger.With("module", "api_handlers"),
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), toWorkflow(req.Name, req.Nodes, req.Edges))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	wf := toWorkflow(req.Name, req.Nodes, req.Edges)
	wf.ID = id

	updated, err := h.workflowService.Update(c.Context(), wf)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// BuildWorkflow runs the standalone validity check without executing anything.
func (h *APIHandlers) BuildWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Build(c.Context(), id)
	if err != nil {
		if workflow.IsValidationError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(BuildResponse{Valid: false, Error: err.Error()})
		}

		return handleServiceError(c, err)
	}

	return c.JSON(BuildResponse{Valid: true})
}

func (h *APIHandlers) CreateChat(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "Workflow ID is required")
	}

	chat, err := h.chatService.Create(c.Context(), workflowID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}

func (h *APIHandlers) GetChats(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "Workflow ID is required")
	}

	chats, err := h.chatService.List(c.Context(), workflowID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(chats)
}

func (h *APIHandlers) GetChatMessages(c fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return badRequest(c, "Chat ID is required")
	}

	messages, err := h.chatService.Messages(c.Context(), chatID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(messages)
}

// SendChatMessage runs the chat's workflow and streams the response over SSE:
// one "data:" line per token, terminated by the [DONE] sentinel. The run is
// detached from the request context so the workflow finishes (and the
// transcript persists) even when the client disconnects mid-stream.
func (h *APIHandlers) SendChatMessage(c fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return badRequest(c, "Chat ID is required")
	}

	var req SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tokens, err := h.chatService.SendMessage(context.WithoutCancel(c.Context()), chatID, req.Content)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		for token := range tokens {
			if token.Done {
				writeSSE(w, doneSentinel)

				break
			}

			payload, err := json.Marshal(fiber.Map{"token": token.Text})
			if err != nil {
				h.logger.Error("Failed to encode token", "error", err)

				continue
			}

			// On write failure the client went away; keep draining so the
			// run completes and the transcript persists.
			writeSSE(w, string(payload))
		}
	})
}

func writeSSE(w *bufio.Writer, data string) bool {
	if _, err := w.WriteString("data: " + data + "\n\n"); err != nil {
		return false
	}

	return w.Flush() == nil
}

func (h *APIHandlers) GetDocuments(c fiber.Ctx) error {
	documents, err := h.knowledgeService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(documents)
}

func (h *APIHandlers) UploadDocument(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A file upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("Failed to close upload", "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return internalError(c, err)
	}

	document, err := h.knowledgeService.Upload(c.Context(),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *APIHandlers) IngestDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	document, err := h.knowledgeService.Ingest(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(document)
}

func (h *APIHandlers) SearchDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	query := c.Query("q")

	topK := 0

	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil {
			return badRequest(c, "top_k must be an integer")
		}

		topK = parsed
	}

	results, err := h.knowledgeService.Search(c.Context(), id, query, topK)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"results": results})
}

func (h *APIHandlers) DeleteDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	err := h.knowledgeService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
