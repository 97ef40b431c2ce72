package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/gestor-marue/internal/application/normalize"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

// Colecciones cuyos registros deben tener nombre.
var namedCollections = map[string]bool{
	repository.CollectionRawMaterials:     true,
	repository.CollectionFinishedProducts: true,
	repository.CollectionCosts:            true,
}

// CollectionUseCase casos de uso del backend de colecciones: valida el nombre de la colección,
// exige name donde corresponde y normaliza los costos antes de persistir.
type CollectionUseCase struct {
	store repository.CollectionStore
}

// NewCollectionUseCase construye el caso de uso.
func NewCollectionUseCase(store repository.CollectionStore) *CollectionUseCase {
	return &CollectionUseCase{store: store}
}

func checkCollection(collection string) error {
	if !repository.IsCollection(collection) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return nil
}

// List devuelve todos los registros en orden de creación.
func (uc *CollectionUseCase) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return uc.store.ListAll(ctx, collection)
}

// Get devuelve domain.ErrNotFound si el registro no existe.
func (uc *CollectionUseCase) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return uc.store.GetByID(ctx, collection, id)
}

// Create persiste un registro nuevo; el store asigna el id.
func (uc *CollectionUseCase) Create(ctx context.Context, collection string, body []byte) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rec, err := prepare(collection, body)
	if err != nil {
		return nil, err
	}
	return uc.store.Create(ctx, collection, rec)
}

// Replace upsert del registro completo con el id de la ruta.
func (uc *CollectionUseCase) Replace(ctx context.Context, collection, id string, body []byte) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	rec, err := prepare(collection, body)
	if err != nil {
		return nil, err
	}
	return uc.store.Replace(ctx, collection, id, rec)
}

// ReplaceAll reemplaza la colección completa.
func (uc *CollectionUseCase) ReplaceAll(ctx context.Context, collection string, body []byte) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: se esperaba un array", domain.ErrInvalidInput)
	}
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		rec, err := prepare(collection, item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return uc.store.ReplaceCollection(ctx, collection, records)
}

// Delete es idempotente.
func (uc *CollectionUseCase) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return uc.store.Delete(ctx, collection, id)
}

// EnsureDefaults carga los ítems por defecto del DRE si la colección está vacía.
func (uc *CollectionUseCase) EnsureDefaults(ctx context.Context) (bool, error) {
	items, err := uc.store.ListAll(ctx, repository.CollectionDREItems)
	if err != nil {
		return false, err
	}
	if len(items) > 0 {
		return false, nil
	}
	if _, err := uc.store.ReplaceCollection(ctx, repository.CollectionDREItems, dre.DefaultItems()); err != nil {
		return false, err
	}
	return true, nil
}

type namedRecord struct {
	Name json.RawMessage `json:"name"`
}

// prepare valida el cuerpo como objeto JSON y normaliza los costos.
func prepare(collection string, body []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: el cuerpo debe ser un objeto JSON", domain.ErrInvalidInput)
	}
	if namedCollections[collection] {
		var nr namedRecord
		_ = json.Unmarshal(body, &nr)
		var name string
		if json.Unmarshal(nr.Name, &name) != nil || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
		}
	}
	if collection != repository.CollectionCosts {
		return body, nil
	}
	cost, err := normalize.Cost(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	out, err := json.Marshal(cost)
	if err != nil {
		return nil, err
	}
	return out, nil
}
