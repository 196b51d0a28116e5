package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/notify"
	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
	"github.com/jhoicas/cuentas-api/internal/application/tasks"
	"github.com/jhoicas/cuentas-api/internal/application/usecase"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	apphttp "github.com/jhoicas/cuentas-api/internal/interfaces/http"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// blockingFetcher se queda esperando en release: permite mantener una
// sincronización "en curso" el tiempo que el test necesite.
type blockingFetcher struct {
	release chan struct{}
}

func (f *blockingFetcher) FetchAll(context.Context) ([]sheetsync.ExternalRecord, error) {
	<-f.release
	return nil, nil
}

type stubAccounts struct{}

func (stubAccounts) Create(*entity.Account) error            { return nil }
func (stubAccounts) GetByID(string) (*entity.Account, error) { return nil, nil }
func (stubAccounts) GetByEmailAndService(string, int64) (*entity.Account, error) {
	return nil, nil
}
func (stubAccounts) List(repository.AccountFilter, int, int) ([]*entity.Account, error) {
	return nil, nil
}
func (stubAccounts) ListActiveBySupplier(string) ([]*entity.Account, error) { return nil, nil }
func (stubAccounts) Update(*entity.Account) error                           { return nil }

type stubServices struct{}

func (stubServices) Create(*entity.Service) error             { return nil }
func (stubServices) GetByID(int64) (*entity.Service, error)   { return nil, nil }
func (stubServices) List(int, int) ([]*entity.Service, error) { return nil, nil }
func (stubServices) ListActive() ([]*entity.Service, error)   { return nil, nil }
func (stubServices) Update(*entity.Service) error             { return nil }

type stubCustomers struct{}

func (stubCustomers) Create(*entity.Customer) error            { return nil }
func (stubCustomers) GetByID(string) (*entity.Customer, error) { return nil, nil }
func (stubCustomers) List(int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (stubCustomers) Update(*entity.Customer) error { return nil }

type nopQueue struct{}

func (nopQueue) Enqueue(notify.Message) {}

// buildSyncApp arma la app con el handler de sync sobre un motor cuyo fetch
// bloquea hasta que el test lo libere.
func buildSyncApp() (*fiber.App, chan struct{}) {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	release := make(chan struct{})
	engine := sheetsync.NewEngine(
		&blockingFetcher{release: release},
		stubAccounts{}, stubServices{}, stubCustomers{},
		nopQueue{}, nil, "hoja-principal", log,
	)
	uc := usecase.NewSyncUseCase(tasks.NewManager(log), engine)
	h := apphttp.NewSyncHandler(uc)

	app := fiber.New()
	app.Post("/api/sync", h.TriggerSync)
	app.Post("/api/sync/verify", h.TriggerVerify)
	app.Get("/api/sync/status", h.Status)
	app.Get("/api/sync/tasks", h.List)
	return app, release
}

func decodeTask(t *testing.T, resp *http.Response) dto.TaskResponse {
	t.Helper()
	defer resp.Body.Close()
	var task dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func TestTriggerSync_AceptaYDetectaEnCurso(t *testing.T) {
	app, release := buildSyncApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	first := decodeTask(t, resp)
	assert.NotEmpty(t, first.TaskID)
	assert.Equal(t, usecase.TaskTypeSync, first.Type)
	assert.Equal(t, string(tasks.StatusRunning), first.Status)

	// Segundo disparo con la primera aún corriendo: 409 con la tarea en curso.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	second := decodeTask(t, resp)
	assert.Equal(t, first.TaskID, second.TaskID, "el 409 adjunta la tarea existente")

	close(release)
}

func TestTriggerVerify_TipoLogicoIndependiente(t *testing.T) {
	app, release := buildSyncApp()
	defer close(release)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	syncTask := decodeTask(t, resp)

	// La verificación usa otro single-flight: arranca aunque la sync corra.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/sync/verify", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	verifyTask := decodeTask(t, resp)
	assert.Equal(t, usecase.TaskTypeVerify, verifyTask.Type)
	assert.NotEqual(t, syncTask.TaskID, verifyTask.TaskID)
}

func TestStatus_PorTaskID(t *testing.T) {
	app, release := buildSyncApp()
	close(release) // fetch vacío: la pasada termina sola

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	started := decodeTask(t, resp)

	// Sondear hasta estado terminal, como lo haría un cliente real.
	require.Eventually(t, func() bool {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sync/status?task_id="+started.TaskID, nil), -1)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		return decodeTask(t, resp).Status == string(tasks.StatusCompleted)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStatus_SinTareasRetorna404(t *testing.T) {
	app, release := buildSyncApp()
	defer close(release)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sync/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/sync/status?task_id=no-existe", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatus_UltimaPorTipo(t *testing.T) {
	app, release := buildSyncApp()
	defer close(release)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	started := decodeTask(t, resp)

	// Sin task_id: devuelve la más reciente del tipo por defecto (sync_sheets).
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/sync/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	latest := decodeTask(t, resp)
	assert.Equal(t, started.TaskID, latest.TaskID)
}

func TestList_DevuelveTodas(t *testing.T) {
	app, release := buildSyncApp()
	defer close(release)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sync", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/sync/verify", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/sync/tasks", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list []dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 2)
}
