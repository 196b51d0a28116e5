// Package scheduler dispara la sincronización de forma periódica. El
// single-flight del manager de tareas hace inofensivo un disparo que
// coincida con una ejecución manual en curso.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Scheduler envoltorio fino sobre robfig/cron.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New construye el scheduler (parado).
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.Component("scheduler"),
	}
}

// Add registra un job con expresión cron estándar de 5 campos.
func (s *Scheduler) Add(spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, job)
	return err
}

// Start arranca el loop del cron.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler iniciado")
}

// Stop detiene el cron y espera a los jobs en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}
