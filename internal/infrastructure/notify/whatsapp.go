// Package notify adaptadores de salida hacia los proveedores de mensajería.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appnotify "github.com/jhoicas/cuentas-api/internal/application/notify"
	"github.com/jhoicas/cuentas-api/pkg/config"
)

var _ appnotify.TextSender = (*WhatsAppClient)(nil)

// WhatsAppClient gateway HTTP de mensajes de texto. El proveedor expone un
// endpoint POST JSON con token Bearer; aquí solo se consume su contrato de
// envío one-shot.
type WhatsAppClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppClient construye el cliente.
func NewWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendTextRequest struct {
	Phone   string `json:"phone"` // código de país + número, sin "+"
	Message string `json:"message"`
}

// SendText envía un mensaje. Sin reintentos aquí: la política de entrega
// (a lo sumo una vez) vive en la cola.
func (c *WhatsAppClient) SendText(ctx context.Context, msg appnotify.Message) error {
	if c.cfg.APIURL == "" {
		return fmt.Errorf("whatsapp: gateway sin configurar")
	}

	body, err := json.Marshal(sendTextRequest{
		Phone:   msg.CountryCode + msg.Phone,
		Message: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("whatsapp: serializar petición: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: envío: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp: gateway respondió %d: %s", resp.StatusCode, detail)
	}
	return nil
}
