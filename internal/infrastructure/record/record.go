// Package record reúne las reglas comunes de los stores de documentos: cada registro es un
// objeto JSON con un campo "id" string que el store controla.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-marue/internal/domain"
)

// NewID genera el ID de un registro nuevo.
func NewID() string {
	return uuid.NewString()
}

// Object codifica v y lo decodifica como objeto JSON conservando los números tal cual.
func Object(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return decodeObject(b)
}

func decodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: el registro debe ser un objeto JSON", domain.ErrInvalidInput)
	}
	return obj, nil
}

// Array codifica v y lo decodifica como array de objetos.
func Array(v any) ([]map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var arr []map[string]any
	if err := dec.Decode(&arr); err != nil {
		return nil, fmt.Errorf("%w: se esperaba un array de objetos", domain.ErrInvalidInput)
	}
	return arr, nil
}

// ID devuelve el id del objeto como string ("" si falta). Acepta IDs numéricos.
func ID(obj map[string]any) string {
	switch v := obj["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// WithID fija el id del objeto y lo serializa.
func WithID(obj map[string]any, id string) (json.RawMessage, error) {
	obj["id"] = id
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Prepare normaliza un payload para Create: descarta cualquier id del cliente y asigna uno nuevo.
func Prepare(payload any) (string, json.RawMessage, error) {
	obj, err := Object(payload)
	if err != nil {
		return "", nil, err
	}
	id := NewID()
	raw, err := WithID(obj, id)
	return id, raw, err
}

// PrepareReplace normaliza un registro para Replace: el id queda forzado al de la ruta.
func PrepareReplace(id string, rec any) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	obj, err := Object(rec)
	if err != nil {
		return nil, err
	}
	return WithID(obj, id)
}

// Entry registro listo para persistir.
type Entry struct {
	ID   string
	Body json.RawMessage
}

// PrepareCollection normaliza un reemplazo masivo: cada objeto conserva su id o recibe uno nuevo.
// IDs repetidos son inválidos.
func PrepareCollection(records any) ([]Entry, error) {
	arr, err := Array(records)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(arr))
	out := make([]Entry, 0, len(arr))
	for _, obj := range arr {
		if obj == nil {
			return nil, fmt.Errorf("%w: registro nulo", domain.ErrInvalidInput)
		}
		id := ID(obj)
		if id == "" {
			id = NewID()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: id repetido %q", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		body, err := WithID(obj, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, Body: body})
	}
	return out, nil
}

// Bodies extrae los cuerpos de las entradas.
func Bodies(entries []Entry) []json.RawMessage {
	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = e.Body
	}
	return out
}
