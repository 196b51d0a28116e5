// Package notify serializa el envío de notificaciones salientes a través de
// un único worker con espaciado aleatorio entre envíos, para que los
// proveedores de mensajería no marquen la cuenta como spam.
package notify

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// pollInterval granularidad con la que el worker revisa la señal de parada
// mientras espera su turno de envío.
const pollInterval = 100 * time.Millisecond

// Message una notificación de texto pendiente de envío.
type Message struct {
	Text        string
	CountryCode string
	Phone       string
}

// TextSender contrato del gateway de mensajes (WhatsApp u otro proveedor).
type TextSender interface {
	SendText(ctx context.Context, msg Message) error
}

// Queue cola FIFO sin límite con un único worker que espacia los envíos con
// un retardo aleatorio en [minDelay, maxDelay]. Entrega a lo sumo una vez:
// un envío fallido se registra y se descarta, y aun así consume el
// presupuesto de espaciado (evita tormentas de reintentos).
type Queue struct {
	sender   TextSender
	log      *logger.Logger
	minDelay time.Duration
	maxDelay time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []Message
	started  bool
	stopped  bool
	deadline time.Time // límite de gracia para drenar tras Stop
	done     chan struct{}

	// lastMu protege lastSend por separado: lo consulta el worker mientras
	// los productores tienen tomado mu.
	lastMu   sync.Mutex
	lastSend time.Time
	sentAny  bool
}

// NewQueue construye la cola. El worker arranca perezosamente con el primer
// Enqueue.
func NewQueue(sender TextSender, minDelay, maxDelay time.Duration, log *logger.Logger) *Queue {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	q := &Queue{
		sender:   sender,
		log:      log.Component("cola-notificaciones"),
		minDelay: minDelay,
		maxDelay: maxDelay,
		done:     make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue agrega un mensaje al final de la cola y retorna de inmediato.
// Arranca el worker si aún no corre. Tras Stop los mensajes se descartan.
func (q *Queue) Enqueue(msg Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		q.log.Warn().Str("phone", msg.Phone).Msg("cola detenida, mensaje descartado")
		return
	}
	q.pending = append(q.pending, msg)
	if !q.started {
		q.started = true
		go q.worker()
	}
	q.cond.Signal()
}

// Size cantidad de mensajes pendientes.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// DrainAndWait bloquea hasta que la cola quede vacía o venza el timeout.
// Devuelve true si drenó por completo.
func (q *Queue) DrainAndWait(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if q.Size() == 0 {
			return true
		}
		time.Sleep(pollInterval)
	}
	return q.Size() == 0
}

// Stop señala al worker que termine y le da hasta grace para drenar lo
// pendiente, siempre respetando el espaciado entre envíos. Lo que no alcance
// a salir dentro de la gracia se descarta.
func (q *Queue) Stop(grace time.Duration) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.deadline = time.Now().Add(grace)
	started := q.started
	q.cond.Broadcast()
	q.mu.Unlock()

	if !started {
		return
	}
	// Margen extra sobre la gracia: el worker corta su espera en pasos de
	// pollInterval y puede tener un envío en vuelo al vencer el límite.
	select {
	case <-q.done:
	case <-time.After(grace + 2*pollInterval):
		q.log.Warn().Msg("el worker no terminó dentro del periodo de gracia")
	}
}

// worker único consumidor: respeta orden FIFO estricto entre todos los
// productores. Tras Stop sigue drenando hasta vaciar la cola o agotar la
// gracia; recién entonces descarta lo que quede.
func (q *Queue) worker() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.stopped {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		if q.stopped && !time.Now().Before(q.deadline) {
			dropped := len(q.pending)
			q.pending = nil
			q.mu.Unlock()
			q.log.Warn().Int("descartados", dropped).Msg("gracia agotada con mensajes pendientes")
			return
		}
		msg := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		if !q.waitTurn() {
			q.mu.Lock()
			dropped := len(q.pending) + 1 // incluye el mensaje ya sacado de la cola
			q.pending = nil
			q.mu.Unlock()
			q.log.Warn().Int("descartados", dropped).Msg("gracia agotada durante la espera de turno")
			return
		}
		q.send(msg)
	}
}

// waitTurn espera lo que falte para cumplir el retardo aleatorio desde el
// último envío. El primer envío de la vida de la cola sale sin espera.
// La parada no corta la espera por sí sola: el espaciado se respeta también
// durante el drenado de la gracia. Devuelve false solo si la gracia venció.
func (q *Queue) waitTurn() bool {
	q.lastMu.Lock()
	sentAny := q.sentAny
	last := q.lastSend
	q.lastMu.Unlock()

	if !sentAny {
		return true
	}

	delay := q.minDelay
	if q.maxDelay > q.minDelay {
		delay += time.Duration(rand.Int63n(int64(q.maxDelay - q.minDelay)))
	}
	remaining := delay - time.Since(last)

	for remaining > 0 {
		q.mu.Lock()
		expired := q.stopped && !time.Now().Before(q.deadline)
		q.mu.Unlock()
		if expired {
			return false
		}
		step := pollInterval
		if remaining < step {
			step = remaining
		}
		time.Sleep(step)
		remaining = delay - time.Since(last)
	}
	return true
}

// send entrega el mensaje al gateway. Éxito o fallo, actualiza el instante
// del último envío: un fallo también consume el presupuesto de espaciado.
func (q *Queue) send(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := q.sender.SendText(ctx, msg)
	cancel()

	q.lastMu.Lock()
	q.lastSend = time.Now()
	q.sentAny = true
	q.lastMu.Unlock()

	if err != nil {
		q.log.Error().Err(err).Str("phone", msg.Phone).Msg("envío fallido, mensaje descartado")
		return
	}
	q.log.Info().Str("phone", msg.Phone).Msg("notificación enviada")
}
