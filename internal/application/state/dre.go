package state

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jhoicas/gestor-marue/internal/application/normalize"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

// UpdateDREItems reemplaza la lista completa de ítems del DRE. Una lista que elimina o
// modifica un ítem por defecto se rechaza sin llamar al store.
func (c *Container) UpdateDREItems(ctx context.Context, items []entity.DREItem) error {
	if err := dre.ValidateItemsUpdate(c.DREItems(), items); err != nil {
		return err
	}
	if _, err := c.store.ReplaceCollection(ctx, repository.CollectionDREItems, items); err != nil {
		return err
	}
	c.mu.Lock()
	c.dreItems = slices.Clone(items)
	c.mu.Unlock()
	return nil
}

// GetDREData lee los valores de un período directamente del store. Un período sin datos
// devuelve (nil, nil).
func (c *Container) GetDREData(ctx context.Context, period string) (*entity.DREData, error) {
	if !entity.ValidPeriod(period) {
		return nil, fmt.Errorf("%w: período %q (YYYY-MM)", domain.ErrInvalidInput, period)
	}
	raw, err := c.store.GetByID(ctx, repository.CollectionDREData, period)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := normalize.DREData(raw)
	if err != nil {
		return nil, err
	}
	if data.Period == "" {
		data.Period = period
	}
	return &data, nil
}

// dreDataPayload registro de escritura: el período viaja también como id del registro.
type dreDataPayload struct {
	ID string `json:"id"`
	entity.DREData
}

// UpdateDREData guarda los valores de un período (upsert por período) y los fusiona en el estado local.
func (c *Container) UpdateDREData(ctx context.Context, data entity.DREData) error {
	if !entity.ValidPeriod(data.Period) {
		return fmt.Errorf("%w: período %q (YYYY-MM)", domain.ErrInvalidInput, data.Period)
	}
	raw, err := c.store.Replace(ctx, repository.CollectionDREData, data.Period, dreDataPayload{ID: data.Period, DREData: data})
	if err != nil {
		return err
	}
	saved, err := normalize.DREData(raw)
	if err != nil {
		return err
	}
	if saved.Period == "" {
		saved.Period = data.Period
	}
	c.mu.Lock()
	c.dreData = replaceOrAppend(c.dreData, saved, func(d entity.DREData) string { return d.Period })
	c.mu.Unlock()
	return nil
}

// UpdateSKUConfig guarda el singleton de configuración y adopta la respuesta del store.
func (c *Container) UpdateSKUConfig(ctx context.Context, cfg entity.SKUConfig) error {
	cfg.ID = entity.SKUConfigID
	raw, err := c.store.Replace(ctx, repository.CollectionSKUConfig, entity.SKUConfigID, cfg)
	if err != nil {
		return err
	}
	saved, err := normalize.SKUConfig(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.skuConfig = &saved
	c.mu.Unlock()
	return nil
}

// DREReport líneas del DRE de un período: valores guardados con el ingreso de ventas
// calculado automáticamente para los ítems de venta.
func (c *Container) DREReport(ctx context.Context, period string) ([]dre.Line, error) {
	saved, err := c.GetDREData(ctx, period)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	items := slices.Clone(c.dreItems)
	products := make(map[string]entity.FinishedProduct, len(c.finishedProducts))
	for _, p := range c.finishedProducts {
		products[p.ID] = p
	}
	auto := dre.AutoRevenue(period, c.sales, products, c.loc)
	c.mu.RUnlock()

	if len(items) == 0 {
		items = dre.DefaultItems()
	}
	return dre.Lines(items, dre.PeriodValues(items, saved, auto)), nil
}
