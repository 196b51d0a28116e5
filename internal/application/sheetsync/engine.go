// Package sheetsync reconcilia el spreadsheet de cuentas del proveedor
// contra el inventario local: crea, actualiza y marca como borradas,
// notificando cambios de clave a los clientes asignados.
//
// Política de normalización de emails: una sola, NormalizeEmail (trim +
// minúsculas), aplicada antes de cualquier búsqueda o comparación de
// conjuntos. Los repositorios reciben siempre la forma normalizada.
package sheetsync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cuentas-api/internal/application/notify"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Fetcher obtiene un snapshot completo del spreadsheet (una llamada por pasada).
type Fetcher interface {
	FetchAll(ctx context.Context) ([]ExternalRecord, error)
}

// TextEnqueuer encola notificaciones de texto sin bloquear (la cola ritmada).
type TextEnqueuer interface {
	Enqueue(msg notify.Message)
}

// EmailSender envío de correo de mejor esfuerzo (síncrono, fallos tragados
// por quien llama).
type EmailSender interface {
	Send(to, subject, body string) error
}

// Engine motor de reconciliación de una pasada: fetch -> agrupar -> validar
// -> resolver servicio -> reconciliar. Sin reintentos: la repetición de la
// pasada (scheduler o disparo manual) es el mecanismo de reintento.
type Engine struct {
	fetcher    Fetcher
	accounts   repository.AccountRepository
	services   repository.ServiceRepository
	customers  repository.CustomerRepository
	queue      TextEnqueuer
	email      EmailSender
	supplierID string
	log        *logger.Logger
}

// NewEngine construye el motor. email puede ser nil (correo deshabilitado).
func NewEngine(
	fetcher Fetcher,
	accounts repository.AccountRepository,
	services repository.ServiceRepository,
	customers repository.CustomerRepository,
	queue TextEnqueuer,
	email EmailSender,
	supplierID string,
	log *logger.Logger,
) *Engine {
	return &Engine{
		fetcher:    fetcher,
		accounts:   accounts,
		services:   services,
		customers:  customers,
		queue:      queue,
		email:      email,
		supplierID: supplierID,
		log:        log.Component("sincronización"),
	}
}

// SyncPass una pasada completa de creación/actualización. Los fallos por
// debajo de la granularidad de fila quedan en el ChangeLog; solo un fallo que
// impida siquiera empezar retornaría error (hoy: ninguno, el fetch fallido
// corta la pasada con resultado vacío).
func (e *Engine) SyncPass(ctx context.Context, progress func(string)) (*ChangeLog, error) {
	clog := NewChangeLog()

	progress("descargando hoja")
	records, err := e.fetcher.FetchAll(ctx)
	if err != nil {
		// Pasada corta con cero cambios: mejor que aplicar a medias sobre datos ausentes.
		clog.Errors = append(clog.Errors, fmt.Sprintf("fetch del spreadsheet: %v", err))
		e.log.Error().Err(err).Msg("fetch del spreadsheet fallido, pasada abortada")
		return clog, nil
	}

	catalog, err := e.serviceCatalog()
	if err != nil {
		clog.Errors = append(clog.Errors, fmt.Sprintf("catálogo de servicios: %v", err))
		return clog, nil
	}

	grouped := GroupRecords(records)
	e.log.Info().Int("filas", len(records)).Int("grupos", len(grouped)).Msg("snapshot descargado")

	for group, rows := range grouped {
		progress("procesando grupo " + group)
		// Resolución por grupo, calculada una vez y reutilizada por todas sus filas.
		groupServiceID, groupResolved := int64(0), false
		if len(rows) > 0 {
			groupServiceID, groupResolved = ResolveService(rows[0].Service, group, catalog)
		}

		for _, row := range rows {
			if !row.Valid() {
				e.log.Debug().Str("grupo", group).Str("email", row.Email).Msg("fila incompleta, omitida")
				continue
			}

			serviceID := row.ServiceID
			if serviceID == 0 {
				if !groupResolved {
					clog.Errors = append(clog.Errors,
						fmt.Sprintf("%s: servicio no identificado (grupo %s)", row.Email, group))
					continue
				}
				serviceID = groupServiceID
			}

			if err := e.reconcile(ctx, row, serviceID, clog); err != nil {
				// Una fila mala nunca aborta la pasada.
				clog.Errors = append(clog.Errors, fmt.Sprintf("%s: %v", row.Email, err))
				e.log.Error().Err(err).Str("email", row.Email).Msg("fila con error, se continúa")
			}
		}
	}

	e.log.Info().
		Int("creadas", len(clog.Created)).
		Int("actualizadas", len(clog.Updated)).
		Int("errores", len(clog.Errors)).
		Msg("pasada de sincronización terminada")
	return clog, nil
}

// reconcile aplica una fila válida contra el inventario.
func (e *Engine) reconcile(ctx context.Context, row ExternalRecord, serviceID int64, clog *ChangeLog) error {
	email := NormalizeEmail(row.Email)
	mappedStatus := MapStatus(row.Status)

	account, err := e.accounts.GetByEmailAndService(email, serviceID)
	if err != nil {
		return err
	}

	if account == nil {
		return e.createAccount(email, row, serviceID, mappedStatus, clog)
	}

	changed := false
	claveChanged := false
	if account.Clave != row.Clave {
		account.Clave = row.Clave
		clog.PasswordChanges = append(clog.PasswordChanges, email)
		changed = true
		claveChanged = true
	}
	if account.ExternalStatus != mappedStatus {
		account.ExternalStatus = mappedStatus
		clog.StatusChanges = append(clog.StatusChanges, email)
		changed = true
	}
	if account.Profile != row.Profile {
		account.Profile = row.Profile
		changed = true
	}

	if !changed {
		e.log.Debug().Str("email", email).Msg("sin cambios")
		return nil
	}

	account.UpdatedAt = time.Now()
	if err := e.accounts.Update(account); err != nil {
		return err
	}
	clog.Updated = append(clog.Updated, email)

	// Notificar recién con la mutación confirmada: un fallo de notificación
	// jamás revierte ni condiciona el cambio de clave.
	if claveChanged {
		e.notifyClaveChange(account, row.Clave)
	}
	return nil
}

// createAccount alta de una cuenta nueva: estado mapeado, perfil de la fila,
// vencimiento placeholder de 30 días, activa y sin cliente. La creación no
// notifica a nadie.
func (e *Engine) createAccount(email string, row ExternalRecord, serviceID int64, mappedStatus string, clog *ChangeLog) error {
	now := time.Now()
	account := &entity.Account{
		ID:             uuid.New().String(),
		Email:          email,
		Clave:          row.Clave,
		ServiceID:      serviceID,
		ExternalStatus: mappedStatus,
		Profile:        row.Profile,
		Active:         true,
		SupplierID:     e.supplierID,
		ExpiresAt:      now.AddDate(0, 0, entity.DefaultExpirationDays),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.accounts.Create(account); err != nil {
		return err
	}
	clog.Created = append(clog.Created, email)
	return nil
}

// notifyClaveChange avisa al cliente asignado del cambio de clave: WhatsApp
// vía la cola ritmada si tiene teléfono, correo síncrono de mejor esfuerzo si
// tiene email. Cuentas sin cliente no generan notificación alguna.
func (e *Engine) notifyClaveChange(account *entity.Account, newClave string) {
	if !account.Assigned() {
		return
	}
	customer, err := e.customers.GetByID(*account.CustomerID)
	if err != nil || customer == nil {
		e.log.Warn().Str("customer_id", *account.CustomerID).Err(err).Msg("cliente asignado no encontrado, sin notificación")
		return
	}

	if customer.Reachable() {
		e.queue.Enqueue(notify.Message{
			Text: fmt.Sprintf(
				"Hola %s, la clave de tu cuenta %s cambió. Nueva clave: %s",
				customer.Name, account.Email, newClave),
			CountryCode: customer.CountryCode,
			Phone:       customer.Phone,
		})
	}

	if customer.Email != "" && e.email != nil {
		body := fmt.Sprintf(
			"Hola %s,\n\nLa clave de tu cuenta %s cambió.\nNueva clave: %s\n\nEquipo de soporte",
			customer.Name, account.Email, newClave)
		if err := e.email.Send(customer.Email, "Actualización de clave de tu cuenta", body); err != nil {
			// Mejor esfuerzo: el cambio de clave ya quedó aplicado.
			e.log.Error().Err(err).Str("to", customer.Email).Msg("correo de notificación fallido")
		}
	}
}

// VerifyDeletions pasada independiente: marca como borradas las cuentas
// activas del proveedor cuyo email ya no aparece en la hoja.
//
// Guardia crítica: si el fetch devuelve cero filas (o falla), el conjunto de
// comparación estaría vacío y se marcaría TODO el inventario; el pase se
// corta sin mutar nada.
func (e *Engine) VerifyDeletions(ctx context.Context, progress func(string)) (*DeletionResult, error) {
	result := &DeletionResult{}

	progress("descargando hoja")
	records, err := e.fetcher.FetchAll(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("fetch del spreadsheet: %v", err))
		e.log.Error().Err(err).Msg("fetch fallido, verificación de borrados abortada")
		return result, nil
	}

	present := make(map[string]struct{})
	for _, r := range records {
		if Denylisted(r.Group) {
			continue
		}
		if email := NormalizeEmail(r.Email); email != "" {
			present[email] = struct{}{}
		}
	}

	if len(present) == 0 {
		result.Errors = append(result.Errors, "snapshot vacío: verificación de borrados omitida")
		e.log.Warn().Msg("snapshot vacío, no se marca ninguna cuenta como borrada")
		return result, nil
	}

	progress("comparando inventario")
	active, err := e.accounts.ListActiveBySupplier(e.supplierID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("listar cuentas activas: %v", err))
		return result, nil
	}

	for _, account := range active {
		if _, ok := present[NormalizeEmail(account.Email)]; ok {
			continue
		}
		e.log.Debug().Str("email", account.Email).Msg("candidata a borrado: ausente de la hoja")
		account.ExternalStatus = entity.StatusDeleted
		account.Active = false
		account.UpdatedAt = time.Now()
		if err := e.accounts.Update(account); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", account.Email, err))
			continue
		}
		result.MarkedAsDeleted++
		result.DeletedAccounts = append(result.DeletedAccounts, account.Email)
	}

	e.log.Info().Int("marcadas", result.MarkedAsDeleted).Msg("verificación de borrados terminada")
	return result, nil
}

// serviceCatalog materializa el catálogo activo para la resolución de nombres.
func (e *Engine) serviceCatalog() ([]ServiceRef, error) {
	services, err := e.services.ListActive()
	if err != nil {
		return nil, err
	}
	refs := make([]ServiceRef, 0, len(services))
	for _, s := range services {
		refs = append(refs, ServiceRef{ID: s.ID, Description: s.Description})
	}
	return refs, nil
}
