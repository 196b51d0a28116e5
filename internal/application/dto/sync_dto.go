package dto

import (
	"time"

	"github.com/jhoicas/cuentas-api/internal/application/tasks"
)

// TaskResponse descriptor de una tarea de sincronización en el wire.
type TaskResponse struct {
	TaskID      string     `json:"task_id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Progress    string     `json:"progress,omitempty"`
	Result      any        `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// FromTask convierte el registro del manager a su forma wire.
func FromTask(t tasks.Task) TaskResponse {
	return TaskResponse{
		TaskID:      t.ID,
		Type:        t.Type,
		Status:      string(t.Status),
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Progress:    t.Progress,
		Result:      t.Result,
		Error:       t.Err,
	}
}

// FromTasks convierte una lista de tareas.
func FromTasks(list []tasks.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, FromTask(t))
	}
	return out
}
