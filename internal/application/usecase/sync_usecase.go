package usecase

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
	"github.com/jhoicas/cuentas-api/internal/application/tasks"
)

// Tipos lógicos de tarea: cada uno con su propio single-flight.
const (
	TaskTypeSync   = "sync_sheets"
	TaskTypeVerify = "verify_accounts"
)

// SyncUseCase orquestador fino: traduce disparos HTTP/cron en tareas del
// manager y consultas de estado en lecturas del registro.
type SyncUseCase struct {
	manager *tasks.Manager
	engine  *sheetsync.Engine
}

// NewSyncUseCase construye el orquestador.
func NewSyncUseCase(manager *tasks.Manager, engine *sheetsync.Engine) *SyncUseCase {
	return &SyncUseCase{manager: manager, engine: engine}
}

// StartSync dispara una pasada de sincronización. Devuelve (false, tarea
// existente) si ya hay una corriendo.
func (uc *SyncUseCase) StartSync() (bool, tasks.Task) {
	return uc.manager.Start(TaskTypeSync, func(progress func(string)) (any, error) {
		// La tarea sobrevive a la petición HTTP que la disparó.
		clog, err := uc.engine.SyncPass(context.Background(), progress)
		if err != nil {
			return nil, err
		}
		return clog.Summarize(), nil
	})
}

// StartVerify dispara la verificación de borrados (tipo lógico propio).
func (uc *SyncUseCase) StartVerify() (bool, tasks.Task) {
	return uc.manager.Start(TaskTypeVerify, func(progress func(string)) (any, error) {
		return uc.engine.VerifyDeletions(context.Background(), progress)
	})
}

// Get devuelve una tarea por id.
func (uc *SyncUseCase) Get(taskID string) (tasks.Task, bool) {
	return uc.manager.Get(taskID)
}

// Latest devuelve la tarea más reciente del tipo, prefiriendo una en curso.
func (uc *SyncUseCase) Latest(taskType string) (tasks.Task, bool) {
	return uc.manager.GetLatest(taskType)
}

// List devuelve todas las tareas registradas, más recientes primero.
func (uc *SyncUseCase) List() []tasks.Task {
	return uc.manager.GetAll()
}
