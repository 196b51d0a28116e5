// Package sheets adaptador de lectura del spreadsheet de cuentas del
// proveedor vía la API de Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
	"github.com/jhoicas/cuentas-api/pkg/config"
)

var _ sheetsync.Fetcher = (*Client)(nil)

// Client lee el spreadsheet completo: cada pestaña es un grupo y cada fila
// (saltando el encabezado) una cuenta. Columnas esperadas:
// A=email, B=clave, C=servicio, D=estado, E=perfil, F=service_id (opcional).
type Client struct {
	cfg config.SheetsConfig
}

// NewClient construye el cliente. La credencial se resuelve en cada fetch
// (service account JSON si está configurada, si no API key).
func NewClient(cfg config.SheetsConfig) *Client {
	return &Client{cfg: cfg}
}

// FetchAll descarga un snapshot completo del spreadsheet: una llamada de
// metadatos para enumerar pestañas y una lectura batch de todas.
func (c *Client) FetchAll(ctx context.Context) ([]sheetsync.ExternalRecord, error) {
	if c.cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: SPREADSHEET_ID sin configurar")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets: crear servicio: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: leer metadatos: %w", err)
	}

	ranges := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		ranges = append(ranges, fmt.Sprintf("'%s'!A2:F", s.Properties.Title))
	}
	if len(ranges) == 0 {
		return nil, nil
	}

	resp, err := svc.Spreadsheets.Values.BatchGet(c.cfg.SpreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: leer valores: %w", err)
	}

	var records []sheetsync.ExternalRecord
	for i, vr := range resp.ValueRanges {
		group := meta.Sheets[i].Properties.Title
		for _, row := range vr.Values {
			records = append(records, parseRow(group, row))
		}
	}
	return records, nil
}

func (c *Client) service(ctx context.Context) (*sheetsapi.Service, error) {
	if c.cfg.CredentialsJSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(c.cfg.CredentialsJSON), sheetsapi.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("credenciales de service account: %w", err)
		}
		return sheetsapi.NewService(ctx, option.WithCredentials(creds))
	}
	return sheetsapi.NewService(ctx, option.WithAPIKey(c.cfg.APIKey))
}

// parseRow convierte una fila cruda en registro. Celdas faltantes quedan
// vacías y las deja caer la validación del motor; perfil o id no numéricos
// se tratan como ausentes.
func parseRow(group string, row []interface{}) sheetsync.ExternalRecord {
	rec := sheetsync.ExternalRecord{Group: group}
	rec.Email = cell(row, 0)
	rec.Clave = cell(row, 1)
	rec.Service = cell(row, 2)
	rec.Status = cell(row, 3)
	if v := cell(row, 4); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rec.Profile = n
		}
	}
	if v := cell(row, 5); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			rec.ServiceID = n
		}
	}
	return rec
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}
