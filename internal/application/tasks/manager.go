// Package tasks ejecuta unidades de trabajo en segundo plano con garantía
// single-flight: como máximo una tarea en ejecución por tipo lógico. El
// registro es puramente en memoria; la garantía vale solo dentro de un
// proceso (despliegue de instancia única).
package tasks

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Status estados posibles de una tarea. El manager crea las tareas ya en
// running (el despacho es inmediato); pending existe para completar el
// vocabulario del wire y que los clientes no tengan que tratarlo como
// desconocido.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task registro de una ejecución. El Manager entrega siempre copias;
// una tarea terminal no vuelve a mutar.
type Task struct {
	ID          string
	Type        string
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
	Progress    string
	Result      any
	Err         string
}

// Work unidad de trabajo. Recibe un setter de progreso que puede llamar
// cuantas veces quiera; el valor queda visible vía Get.
type Work func(progress func(string)) (any, error)

// Manager registro single-flight de tareas en segundo plano.
// No reintenta ni encola: si el tipo ya corre, Start devuelve la tarea existente.
type Manager struct {
	mu      sync.Mutex
	tasks   map[string]*Task
	running map[string]string // tipo lógico -> task id en ejecución
	log     *logger.Logger
}

// NewManager construye el manager. Crear una sola instancia por proceso
// e inyectarla donde se necesite.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		tasks:   make(map[string]*Task),
		running: make(map[string]string),
		log:     log.Component("tareas"),
	}
}

// Start lanza work en una goroutine propia si no hay otra tarea del mismo
// tipo corriendo. Devuelve (true, tarea nueva) si arrancó, o (false, tarea
// existente) si el tipo ya está en ejecución. Nunca bloquea.
func (m *Manager) Start(taskType string, work Work) (bool, Task) {
	m.mu.Lock()
	if id, ok := m.running[taskType]; ok {
		existing := *m.tasks[id]
		m.mu.Unlock()
		return false, existing
	}

	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	m.tasks[task.ID] = task
	m.running[taskType] = task.ID
	snapshot := *task
	m.mu.Unlock()

	m.log.Info().Str("task_id", task.ID).Str("type", taskType).Msg("tarea iniciada")

	go m.run(task.ID, taskType, work)

	return true, snapshot
}

// run ejecuta work y registra el resultado. Cualquier panic o error del
// trabajo se captura aquí: nunca se propaga al que llamó Start.
func (m *Manager) run(taskID, taskType string, work Work) {
	defer func() {
		if r := recover(); r != nil {
			m.finish(taskID, taskType, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	progress := func(msg string) {
		m.mu.Lock()
		if t, ok := m.tasks[taskID]; ok && t.Status == StatusRunning {
			t.Progress = msg
		}
		m.mu.Unlock()
	}

	result, err := work(progress)
	m.finish(taskID, taskType, result, err)
}

// finish aplica la transición terminal y libera el tipo lógico.
func (m *Manager) finish(taskID, taskType string, result any, err error) {
	now := time.Now()
	m.mu.Lock()
	task, ok := m.tasks[taskID]
	if ok {
		task.CompletedAt = &now
		if err != nil {
			task.Status = StatusFailed
			task.Err = err.Error()
		} else {
			task.Status = StatusCompleted
			task.Result = result
		}
	}
	if m.running[taskType] == taskID {
		delete(m.running, taskType)
	}
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Str("task_id", taskID).Str("type", taskType).Err(err).Msg("tarea fallida")
		return
	}
	m.log.Info().Str("task_id", taskID).Str("type", taskType).Msg("tarea completada")
}

// Get devuelve la tarea por id.
func (m *Manager) Get(taskID string) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// GetRunning devuelve la tarea en ejecución del tipo dado, si la hay.
func (m *Manager) GetRunning(taskType string) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.running[taskType]
	if !ok {
		return Task{}, false
	}
	return *m.tasks[id], true
}

// GetLatest devuelve la tarea más reciente del tipo, prefiriendo una en
// ejecución si existe.
func (m *Manager) GetLatest(taskType string) (Task, bool) {
	if t, ok := m.GetRunning(taskType); ok {
		return t, true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *Task
	for _, t := range m.tasks {
		if t.Type != taskType {
			continue
		}
		if latest == nil || t.StartedAt.After(latest.StartedAt) {
			latest = t
		}
	}
	if latest == nil {
		return Task{}, false
	}
	return *latest, true
}

// GetAll devuelve una copia de todas las tareas, más recientes primero.
func (m *Manager) GetAll() []Task {
	m.mu.Lock()
	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Reap elimina del registro tareas terminales más viejas que maxAge.
// Las tareas en ejecución no se tocan. Devuelve cuántas eliminó.
func (m *Manager) Reap(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, t := range m.tasks {
		if t.Status != StatusCompleted && t.Status != StatusFailed {
			continue
		}
		if t.CompletedAt != nil && t.CompletedAt.Before(cutoff) {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}
