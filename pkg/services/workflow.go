package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow provides workflow definition management and the standalone build
// check.
type Workflow struct {
	persistence persistence.Persistence
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all stored workflows.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// Get returns one workflow by ID.
func (w *Workflow) Get(ctx context.Context, id string) (*models.Workflow, error) {
	wf, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return wf, nil
}

// Create stores a new workflow definition. The graph is accepted as drawn;
// structural soundness is checked by Build, not here.
func (w *Workflow) Create(ctx context.Context, wf *models.Workflow) (*models.Workflow, error) {
	if wf == nil {
		return nil, NewValidationError("Create", "WORKFLOW_NIL", "workflow cannot be nil", ErrWorkflowNil)
	}

	if wf.Name == "" {
		return nil, NewValidationError("Create", "NAME_REQUIRED", "workflow name is required", ErrWorkflowNameRequired)
	}

	if wf.ID == "" {
		wf.ID = uuid.NewString()
	}

	err := w.persistence.WorkflowRepository().Save(ctx, wf)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return wf, nil
}

// Update replaces an existing workflow's definition.
func (w *Workflow) Update(ctx context.Context, wf *models.Workflow) (*models.Workflow, error) {
	if wf == nil {
		return nil, NewValidationError("Update", "WORKFLOW_NIL", "workflow cannot be nil", ErrWorkflowNil)
	}

	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, wf.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if wf.Name == "" {
		wf.Name = existing.Name
	}

	wf.CreatedAt = existing.CreatedAt

	err = w.persistence.WorkflowRepository().Save(ctx, wf)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return wf, nil
}

// Delete removes a workflow definition.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	_, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get workflow: %w", err)
	}

	err = w.persistence.WorkflowRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	return nil
}

// Build runs the standalone validity check: graph structure plus per-node
// configuration schemas. It has no side effects.
func (w *Workflow) Build(ctx context.Context, id string) error {
	wf, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get workflow: %w", err)
	}

	err = workflow.Validate(wf)
	if err != nil {
		return err
	}

	return workflow.ValidateConfigs(wf)
}
