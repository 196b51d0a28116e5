package sheetsync

import "time"

// ChangeLog acumulador de una pasada de reconciliación. Se construye
// incrementalmente y se congela como resultado de la tarea.
type ChangeLog struct {
	Updated         []string  `json:"updated"`
	Created         []string  `json:"created"`
	Suspended       []string  `json:"suspended"`
	PasswordChanges []string  `json:"password_changes"`
	StatusChanges   []string  `json:"status_changes"`
	Errors          []string  `json:"errors"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewChangeLog crea el acumulador con el instante de la pasada.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{Timestamp: time.Now()}
}

// Summary resumen serializable del ChangeLog para la respuesta HTTP.
type Summary struct {
	TotalUpdated    int        `json:"total_updated"`
	TotalCreated    int        `json:"total_created"`
	TotalSuspended  int        `json:"total_suspended"`
	PasswordChanges int        `json:"password_changes"`
	StatusChanges   int        `json:"status_changes"`
	TotalErrors     int        `json:"total_errors"`
	Timestamp       time.Time  `json:"timestamp"`
	Details         *ChangeLog `json:"details"`
}

// Summarize congela el acumulador en un resumen.
func (c *ChangeLog) Summarize() Summary {
	return Summary{
		TotalUpdated:    len(c.Updated),
		TotalCreated:    len(c.Created),
		TotalSuspended:  len(c.Suspended),
		PasswordChanges: len(c.PasswordChanges),
		StatusChanges:   len(c.StatusChanges),
		TotalErrors:     len(c.Errors),
		Timestamp:       c.Timestamp,
		Details:         c,
	}
}

// DeletionResult resultado del pase de verificación de borrados.
type DeletionResult struct {
	MarkedAsDeleted int      `json:"marked_as_deleted"`
	DeletedAccounts []string `json:"deleted_accounts"`
	Errors          []string `json:"errors"`
}
