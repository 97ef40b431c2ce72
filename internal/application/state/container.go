// Package state mantiene el estado de dominio del cliente: las siete colecciones en memoria,
// sincronizadas con el backend mediante un repository.CollectionStore.
// Cada operación de escritura llama primero al store y solo actualiza el estado local si tuvo éxito.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestor-marue/internal/application/normalize"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

// Container contenedor de estado. Seguro para uso concurrente; el lock nunca se mantiene
// durante llamadas al store.
type Container struct {
	store  repository.CollectionStore
	images repository.BinaryStore
	now    func() time.Time
	loc    *time.Location

	mu               sync.RWMutex
	rawMaterials     []entity.RawMaterial
	finishedProducts []entity.FinishedProduct
	costs            []entity.Cost
	sales            []entity.Sale
	dreItems         []entity.DREItem
	dreData          []entity.DREData
	skuConfig        *entity.SKUConfig
	loading          bool
	loadErr          error
}

// Option configura el Container.
type Option func(*Container)

// WithClock reemplaza el reloj usado para fechar ventas.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// WithLocation zona horaria para agrupar ventas por mes (DRE y resumen). Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Container) { c.loc = loc }
}

// New crea el contenedor en estado "cargando". images puede ser nil si no se usan imágenes.
func New(store repository.CollectionStore, images repository.BinaryStore, opts ...Option) *Container {
	c := &Container{
		store:   store,
		images:  images,
		now:     time.Now,
		loc:     time.Local,
		loading: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load trae las siete colecciones en paralelo. Una colección que falla queda vacía sin afectar
// a las demás; los errores se combinan en el valor devuelto (también disponible en Err).
// IsLoading pasa a false una sola vez, cuando terminaron todas las lecturas.
func (c *Container) Load(ctx context.Context) error {
	var (
		rawMaterials     []entity.RawMaterial
		finishedProducts []entity.FinishedProduct
		costs            []entity.Cost
		sales            []entity.Sale
		dreItems         []entity.DREItem
		dreData          []entity.DREData
		skuConfig        *entity.SKUConfig
		errs             = make([]error, len(repository.Collections))
	)

	var g errgroup.Group
	g.Go(func() error {
		rawMaterials, errs[0] = listDecoded(ctx, c.store, repository.CollectionRawMaterials, normalize.RawMaterial)
		return nil
	})
	g.Go(func() error {
		finishedProducts, errs[1] = listDecoded(ctx, c.store, repository.CollectionFinishedProducts, normalize.FinishedProduct)
		return nil
	})
	g.Go(func() error {
		costs, errs[2] = listDecoded(ctx, c.store, repository.CollectionCosts, normalize.Cost)
		return nil
	})
	g.Go(func() error {
		sales, errs[3] = listDecoded(ctx, c.store, repository.CollectionSales, normalize.Sale)
		return nil
	})
	g.Go(func() error {
		dreItems, errs[4] = listDecoded(ctx, c.store, repository.CollectionDREItems, normalize.DREItem)
		return nil
	})
	g.Go(func() error {
		dreData, errs[5] = listDecoded(ctx, c.store, repository.CollectionDREData, normalize.DREData)
		return nil
	})
	g.Go(func() error {
		skuConfig, errs[6] = c.fetchSKUConfig(ctx)
		return nil
	})
	_ = g.Wait()

	sortSales(sales)
	err := errors.Join(errs...)

	c.mu.Lock()
	c.rawMaterials = rawMaterials
	c.finishedProducts = finishedProducts
	c.costs = costs
	c.sales = sales
	c.dreItems = dreItems
	c.dreData = dreData
	c.skuConfig = skuConfig
	c.loading = false
	c.loadErr = err
	c.mu.Unlock()
	return err
}

// fetchSKUConfig: un singleton inexistente no es un error, la configuración queda ausente.
func (c *Container) fetchSKUConfig(ctx context.Context) (*entity.SKUConfig, error) {
	raw, err := c.store.GetByID(ctx, repository.CollectionSKUConfig, entity.SKUConfigID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cargar %s: %w", repository.CollectionSKUConfig, err)
	}
	cfg, err := normalize.SKUConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("cargar %s: %w", repository.CollectionSKUConfig, err)
	}
	return &cfg, nil
}

func listDecoded[T any](ctx context.Context, store repository.CollectionStore, collection string, decode func(json.RawMessage) (T, error)) ([]T, error) {
	raws, err := store.ListAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("cargar %s: %w", collection, err)
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("cargar %s: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// sortSales ordena por fecha descendente (más reciente primero).
func sortSales(sales []entity.Sale) {
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
}

// IsLoading indica si la carga inicial todavía no terminó.
func (c *Container) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err error combinado de la última carga, o nil.
func (c *Container) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

func (c *Container) RawMaterials() []entity.RawMaterial {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.rawMaterials)
}

func (c *Container) FinishedProducts() []entity.FinishedProduct {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.finishedProducts)
}

func (c *Container) Costs() []entity.Cost {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.costs)
}

// Sales ventas ordenadas de la más reciente a la más antigua.
func (c *Container) Sales() []entity.Sale {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sales)
}

func (c *Container) DREItems() []entity.DREItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dreItems)
}

func (c *Container) DREData() []entity.DREData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dreData)
}

// SKUConfig copia de la configuración de SKU, o nil si no hay.
func (c *Container) SKUConfig() *entity.SKUConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.skuConfig == nil {
		return nil
	}
	cfg := *c.skuConfig
	return &cfg
}

// RawMaterial busca un insumo por ID.
func (c *Container) RawMaterial(id string) (entity.RawMaterial, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rawMaterialLocked(id)
}

func (c *Container) rawMaterialLocked(id string) (entity.RawMaterial, bool) {
	for _, m := range c.rawMaterials {
		if m.ID == id {
			return m, true
		}
	}
	return entity.RawMaterial{}, false
}

// FinishedProduct busca un producto por ID.
func (c *Container) FinishedProduct(id string) (entity.FinishedProduct, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.finishedProductLocked(id)
}

func (c *Container) finishedProductLocked(id string) (entity.FinishedProduct, bool) {
	for _, p := range c.finishedProducts {
		if p.ID == id {
			return p, true
		}
	}
	return entity.FinishedProduct{}, false
}

// replaceOrAppend reemplaza el elemento con el mismo ID o lo agrega al final.
func replaceOrAppend[T any](list []T, item T, id func(T) string) []T {
	key := id(item)
	for i := range list {
		if id(list[i]) == key {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func removeByID[T any](list []T, key string, id func(T) string) []T {
	return slices.DeleteFunc(list, func(v T) bool { return id(v) == key })
}

func rawMaterialID(m entity.RawMaterial) string         { return m.ID }
func finishedProductID(p entity.FinishedProduct) string { return p.ID }
func costID(c entity.Cost) string                       { return c.ID }
