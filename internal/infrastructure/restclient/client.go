// Package restclient implementa los puertos CollectionStore y BinaryStore sobre la API REST
// de colecciones (/{collection}, /{collection}/{id}, /images).
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

var (
	_ repository.CollectionStore = (*Client)(nil)
	_ repository.BinaryStore     = (*Client)(nil)
)

// Config parámetros del cliente. BaseURL incluye el prefijo de la API (ej. http://host:8080/api).
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente REST respaldado por resty.
type Client struct {
	http *resty.Client
}

// New construye el cliente con la configuración dada (timeout por defecto 15s).
func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg, nil)
}

// NewWithHTTPClient permite inyectar el *http.Client subyacente (tests, transportes propios).
func NewWithHTTPClient(cfg Config, hc *http.Client) *Client {
	rc := resty.New()
	if hc != nil {
		rc = resty.NewWithClient(hc)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: rc}
}

// APIError error HTTP devuelto por el backend, con el mensaje que el servidor envió.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api %d: %s", e.Status, http.StatusText(e.Status))
}

// Unwrap traduce el estado HTTP al error de dominio equivalente.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		if e.Code == "UNKNOWN_COLLECTION" {
			return domain.ErrUnknownCollection
		}
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

func apiError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	var eb errorBody
	if json.Unmarshal(resp.Body(), &eb) == nil {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	return apiErr
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

func (c *Client) ListAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+collection, nil)
	if err != nil {
		return nil, err
	}
	return asArray(body)
}

func (c *Client) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, itemPath(collection, id), nil)
}

func (c *Client) Create(ctx context.Context, collection string, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/"+collection, payload)
}

func (c *Client) Replace(ctx context.Context, collection, id string, rec any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, itemPath(collection, id), rec)
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(collection, id), nil)
	return err
}

func (c *Client) ReplaceCollection(ctx context.Context, collection string, records any) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPut, "/"+collection, records)
	if err != nil {
		return nil, err
	}
	return asArray(body)
}

// asArray acepta un array JSON o un objeto suelto (se envuelve); vacío o null → lista vacía.
func asArray(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return []json.RawMessage{}, nil
	}
	if body[0] == '{' {
		return []json.RawMessage{json.RawMessage(body)}, nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("respuesta no es una lista: %w", err)
	}
	return out, nil
}

// UploadBinary envía el archivo como multipart (campo "image") y devuelve el ID asignado.
func (c *Client) UploadBinary(ctx context.Context, filename string, r io.Reader) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", filename, r).
		SetResult(&result).
		Post("/images/upload")
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", apiError(resp)
	}
	if result.ID == "" {
		return "", errors.New("upload: respuesta sin id")
	}
	return result.ID, nil
}

// FetchBinary devuelve los bytes crudos de la imagen y su content type.
func (c *Client) FetchBinary(ctx context.Context, id string) ([]byte, string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/images/" + url.PathEscape(id))
	if err != nil {
		return nil, "", fmt.Errorf("fetch image %s: %w", id, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, "", apiError(resp)
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
