package state

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-marue/internal/application/normalize"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

// ── Insumos ────────────────────────────────────────────────────────────────

// AddRawMaterial crea el insumo (el backend asigna el ID) y lo agrega al final de la lista.
func (c *Container) AddRawMaterial(ctx context.Context, m entity.RawMaterial) (entity.RawMaterial, error) {
	m.ID = ""
	raw, err := c.store.Create(ctx, repository.CollectionRawMaterials, m)
	if err != nil {
		return entity.RawMaterial{}, err
	}
	created, err := normalize.RawMaterial(raw)
	if err != nil {
		return entity.RawMaterial{}, err
	}
	c.mu.Lock()
	c.rawMaterials = append(c.rawMaterials, created)
	c.mu.Unlock()
	return created, nil
}

// UpdateRawMaterial envía el registro completo y reemplaza la copia local con la respuesta.
func (c *Container) UpdateRawMaterial(ctx context.Context, m entity.RawMaterial) (entity.RawMaterial, error) {
	if m.ID == "" {
		return entity.RawMaterial{}, fmt.Errorf("%w: insumo sin id", domain.ErrInvalidInput)
	}
	raw, err := c.store.Replace(ctx, repository.CollectionRawMaterials, m.ID, m)
	if err != nil {
		return entity.RawMaterial{}, err
	}
	updated, err := normalize.RawMaterial(raw)
	if err != nil {
		return entity.RawMaterial{}, err
	}
	c.mu.Lock()
	c.rawMaterials = replaceOrAppend(c.rawMaterials, updated, rawMaterialID)
	c.mu.Unlock()
	return updated, nil
}

func (c *Container) DeleteRawMaterial(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, repository.CollectionRawMaterials, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.rawMaterials = removeByID(c.rawMaterials, id, rawMaterialID)
	c.mu.Unlock()
	return nil
}

// ── Productos terminados ───────────────────────────────────────────────────

// AddProduct crea el producto. Si no trae SKU y hay configuración cargada, se genera uno definitivo.
func (c *Container) AddProduct(ctx context.Context, p entity.FinishedProduct) (entity.FinishedProduct, error) {
	p.ID = ""
	if p.SKU == "" && c.SKUConfig() != nil {
		p.SKU = c.GenerateSKU(p, false)
	}
	raw, err := c.store.Create(ctx, repository.CollectionFinishedProducts, p)
	if err != nil {
		return entity.FinishedProduct{}, err
	}
	created, err := normalize.FinishedProduct(raw)
	if err != nil {
		return entity.FinishedProduct{}, err
	}
	c.mu.Lock()
	c.finishedProducts = append(c.finishedProducts, created)
	c.mu.Unlock()
	return created, nil
}

func (c *Container) UpdateProduct(ctx context.Context, p entity.FinishedProduct) (entity.FinishedProduct, error) {
	if p.ID == "" {
		return entity.FinishedProduct{}, fmt.Errorf("%w: producto sin id", domain.ErrInvalidInput)
	}
	raw, err := c.store.Replace(ctx, repository.CollectionFinishedProducts, p.ID, p)
	if err != nil {
		return entity.FinishedProduct{}, err
	}
	updated, err := normalize.FinishedProduct(raw)
	if err != nil {
		return entity.FinishedProduct{}, err
	}
	c.mu.Lock()
	c.finishedProducts = replaceOrAppend(c.finishedProducts, updated, finishedProductID)
	c.mu.Unlock()
	return updated, nil
}

// DeleteProduct borra el producto. Las ventas que lo referencian se conservan.
func (c *Container) DeleteProduct(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, repository.CollectionFinishedProducts, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.finishedProducts = removeByID(c.finishedProducts, id, finishedProductID)
	c.mu.Unlock()
	return nil
}

// ── Costos ─────────────────────────────────────────────────────────────────

// AddCost crea el costo y lo antepone a la lista (más reciente primero).
func (c *Container) AddCost(ctx context.Context, cost entity.Cost) (entity.Cost, error) {
	cost = cost.Normalized()
	cost.ID = ""
	raw, err := c.store.Create(ctx, repository.CollectionCosts, cost)
	if err != nil {
		return entity.Cost{}, err
	}
	created, err := normalize.Cost(raw)
	if err != nil {
		return entity.Cost{}, err
	}
	c.mu.Lock()
	c.costs = append([]entity.Cost{created}, c.costs...)
	c.mu.Unlock()
	return created, nil
}

func (c *Container) UpdateCost(ctx context.Context, cost entity.Cost) (entity.Cost, error) {
	if cost.ID == "" {
		return entity.Cost{}, fmt.Errorf("%w: costo sin id", domain.ErrInvalidInput)
	}
	raw, err := c.store.Replace(ctx, repository.CollectionCosts, cost.ID, cost.Normalized())
	if err != nil {
		return entity.Cost{}, err
	}
	updated, err := normalize.Cost(raw)
	if err != nil {
		return entity.Cost{}, err
	}
	c.mu.Lock()
	c.costs = replaceOrAppend(c.costs, updated, costID)
	c.mu.Unlock()
	return updated, nil
}

func (c *Container) DeleteCost(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, repository.CollectionCosts, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.costs = removeByID(c.costs, id, costID)
	c.mu.Unlock()
	return nil
}
