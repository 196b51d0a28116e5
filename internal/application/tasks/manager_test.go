package tasks_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cuentas-api/internal/application/tasks"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

func newManager() *tasks.Manager {
	return tasks.NewManager(logger.New(logger.Config{Env: "development", Level: "error"}))
}

// waitTerminal sondea hasta que la tarea llega a estado terminal.
func waitTerminal(t *testing.T, m *tasks.Manager, id string) tasks.Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, ok := m.Get(id)
		require.True(t, ok)
		if task.Status == tasks.StatusCompleted || task.Status == tasks.StatusFailed {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("la tarea no terminó a tiempo")
	return tasks.Task{}
}

func TestManager_SingleFlight(t *testing.T) {
	m := newManager()
	release := make(chan struct{})

	started, first := m.Start("sync_sheets", func(func(string)) (any, error) {
		<-release
		return "ok", nil
	})
	require.True(t, started)
	assert.Equal(t, tasks.StatusRunning, first.Status)

	// Segundo disparo del mismo tipo: debe devolver la tarea existente sin arrancar nada.
	started2, second := m.Start("sync_sheets", func(func(string)) (any, error) {
		t.Error("el trabajo duplicado nunca debe ejecutarse")
		return nil, nil
	})
	assert.False(t, started2)
	assert.Equal(t, first.ID, second.ID)

	// Otro tipo lógico corre en paralelo sin conflicto.
	started3, third := m.Start("verify_accounts", func(func(string)) (any, error) {
		return nil, nil
	})
	assert.True(t, started3)
	assert.NotEqual(t, first.ID, third.ID)

	close(release)
	done := waitTerminal(t, m, first.ID)
	assert.Equal(t, tasks.StatusCompleted, done.Status)

	// Tipo liberado: un nuevo disparo arranca.
	started4, fourth := m.Start("sync_sheets", func(func(string)) (any, error) {
		return nil, nil
	})
	assert.True(t, started4)
	assert.NotEqual(t, first.ID, fourth.ID)
	waitTerminal(t, m, fourth.ID)
	waitTerminal(t, m, third.ID)
}

func TestManager_SingleFlight_Concurrente(t *testing.T) {
	m := newManager()
	release := make(chan struct{})

	var mu sync.Mutex
	startedCount := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started, _ := m.Start("sync_sheets", func(func(string)) (any, error) {
				<-release
				return nil, nil
			})
			if started {
				mu.Lock()
				startedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, startedCount, "exactamente un disparo debe ganar")
	running, ok := m.GetRunning("sync_sheets")
	require.True(t, ok)
	close(release)
	waitTerminal(t, m, running.ID)
}

func TestManager_ResultadoYProgreso(t *testing.T) {
	m := newManager()
	_, task := m.Start("sync_sheets", func(progress func(string)) (any, error) {
		progress("a mitad de camino")
		return 42, nil
	})

	done := waitTerminal(t, m, task.ID)
	assert.Equal(t, tasks.StatusCompleted, done.Status)
	assert.Equal(t, 42, done.Result)
	assert.Equal(t, "a mitad de camino", done.Progress)
	require.NotNil(t, done.CompletedAt)
	assert.Empty(t, done.Err)
}

func TestManager_ErrorCapturado(t *testing.T) {
	m := newManager()
	_, task := m.Start("sync_sheets", func(func(string)) (any, error) {
		return nil, errors.New("algo explotó")
	})

	done := waitTerminal(t, m, task.ID)
	assert.Equal(t, tasks.StatusFailed, done.Status)
	assert.Equal(t, "algo explotó", done.Err)
	assert.Nil(t, done.Result)

	// El tipo queda libre tras el fallo.
	_, ok := m.GetRunning("sync_sheets")
	assert.False(t, ok)
}

func TestManager_PanicCapturado(t *testing.T) {
	m := newManager()
	_, task := m.Start("sync_sheets", func(func(string)) (any, error) {
		panic("sin red de seguridad")
	})

	done := waitTerminal(t, m, task.ID)
	assert.Equal(t, tasks.StatusFailed, done.Status)
	assert.Contains(t, done.Err, "sin red de seguridad")
	_, ok := m.GetRunning("sync_sheets")
	assert.False(t, ok)
}

func TestManager_GetNoExistente(t *testing.T) {
	m := newManager()
	_, ok := m.Get("no-existe")
	assert.False(t, ok)
	_, ok = m.GetLatest("sync_sheets")
	assert.False(t, ok)
}

func TestManager_GetAllOrdenado(t *testing.T) {
	m := newManager()
	_, first := m.Start("a", func(func(string)) (any, error) { return nil, nil })
	waitTerminal(t, m, first.ID)
	time.Sleep(20 * time.Millisecond)
	_, second := m.Start("b", func(func(string)) (any, error) { return nil, nil })
	waitTerminal(t, m, second.ID)

	all := m.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "más reciente primero")
	assert.Equal(t, first.ID, all[1].ID)
}

func TestManager_Reap(t *testing.T) {
	m := newManager()
	_, done := m.Start("a", func(func(string)) (any, error) { return nil, nil })
	waitTerminal(t, m, done.ID)

	release := make(chan struct{})
	_, running := m.Start("b", func(func(string)) (any, error) {
		<-release
		return nil, nil
	})

	time.Sleep(20 * time.Millisecond)

	// maxAge cero: todo lo terminal es elegible; lo corriendo no se toca.
	removed := m.Reap(0)
	assert.Equal(t, 1, removed)
	_, ok := m.Get(done.ID)
	assert.False(t, ok)
	_, ok = m.Get(running.ID)
	assert.True(t, ok)

	close(release)
	waitTerminal(t, m, running.ID)
}
