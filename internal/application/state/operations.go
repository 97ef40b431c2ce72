package state

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestor-marue/internal/application/normalize"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/costing"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/domain/sku"
)

// GetProductCost costo unitario del producto con los costos de insumos actuales.
func (c *Container) GetProductCost(p entity.FinishedProduct) decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return costing.ProductCost(p, c.rawMaterialLocked)
}

// GenerateSKU sintetiza el SKU del producto contra los SKUs existentes.
// Sin configuración cargada devuelve sku.ConfigError.
func (c *Container) GenerateSKU(p entity.FinishedProduct, preview bool) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	existing := make([]string, 0, len(c.finishedProducts))
	for _, fp := range c.finishedProducts {
		existing = append(existing, fp.SKU)
	}
	return sku.Generate(c.skuConfig, sku.AttributesOf(p), existing, preview)
}

// RegisterSale registra la venta de quantity unidades aplicando los costos seleccionados
// (IDs desconocidos se ignoran) y descuenta el stock del producto.
//
// La venta se persiste antes de descontar el stock; si el descuento falla la venta queda
// registrada y se devuelve un *PartialError.
func (c *Container) RegisterSale(ctx context.Context, productID string, quantity decimal.Decimal, costIDs []string) (entity.Sale, error) {
	if !quantity.IsPositive() {
		return entity.Sale{}, fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	c.mu.RLock()
	product, ok := c.finishedProductLocked(productID)
	var unitCost decimal.Decimal
	var selected []entity.Cost
	if ok {
		unitCost = costing.ProductCost(product, c.rawMaterialLocked)
		selected = c.selectCostsLocked(costIDs)
	}
	c.mu.RUnlock()

	if !ok || product.Stock.LessThan(quantity) {
		return entity.Sale{}, domain.ErrInsufficientStock
	}

	settlement := costing.SettleSale(product.SalePrice, unitCost, quantity, selected)
	sale := entity.Sale{
		FinishedProductID: productID,
		Quantity:          quantity,
		TotalRevenue:      settlement.TotalRevenue,
		TotalCost:         settlement.TotalCost,
		NetProfit:         settlement.NetProfit,
		AppliedCosts:      settlement.AppliedCosts,
		Date:              c.now().UTC(),
	}
	raw, err := c.store.Create(ctx, repository.CollectionSales, sale)
	if err != nil {
		return entity.Sale{}, err
	}
	created, err := normalize.Sale(raw)
	if err != nil {
		return entity.Sale{}, err
	}
	c.mu.Lock()
	c.sales = append(c.sales, created)
	sortSales(c.sales)
	c.mu.Unlock()

	product.Stock = product.Stock.Sub(quantity)
	if _, err := c.UpdateProduct(ctx, product); err != nil {
		return created, &PartialError{Op: "venta", Done: "venta " + created.ID + " registrada, stock sin descontar", Err: err}
	}
	return created, nil
}

// selectCostsLocked resuelve los IDs en el orden recibido; duplicados se aplican cada vez.
func (c *Container) selectCostsLocked(ids []string) []entity.Cost {
	out := make([]entity.Cost, 0, len(ids))
	for _, id := range ids {
		for _, cost := range c.costs {
			if cost.ID == id {
				out = append(out, cost)
				break
			}
		}
	}
	return out
}

// ExecuteProduction produce quantity unidades con la receta dada: verifica todo el stock antes
// de escribir, descuenta los insumos en paralelo y luego suma el stock del producto.
//
// Un insumo repetido en varias líneas se verifica y se descuenta por la suma de sus líneas,
// con una sola escritura por insumo. Así una receta con dos líneas de 3 sobre stock 10 y
// quantity 2 se rechaza aunque cada línea por separado alcance: verificar línea por línea
// dejaría el stock negativo, y escribir una vez por línea perdería todas las escrituras menos la última.
func (c *Container) ExecuteProduction(ctx context.Context, productID string, quantity decimal.Decimal, recipe []entity.RecipeItem) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	c.mu.RLock()
	product, ok := c.finishedProductLocked(productID)
	var updates []entity.RawMaterial
	var shortage string
	if ok {
		updates, shortage = c.consumeLocked(recipe, quantity)
	}
	c.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if shortage != "" {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, shortage)
	}

	var g errgroup.Group
	for _, m := range updates {
		m := m
		g.Go(func() error {
			_, err := c.UpdateRawMaterial(ctx, m)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return &PartialError{Op: "producción", Done: "insumos descontados parcialmente, producto sin actualizar", Err: err}
	}

	product.Stock = product.Stock.Add(quantity)
	if _, err := c.UpdateProduct(ctx, product); err != nil {
		return &PartialError{Op: "producción", Done: "insumos descontados, stock del producto sin actualizar", Err: err}
	}
	return nil
}

// consumeLocked calcula los insumos con el stock ya descontado. Si falta stock devuelve el nombre
// del primer insumo insuficiente ("insumo" si la referencia no existe).
func (c *Container) consumeLocked(recipe []entity.RecipeItem, quantity decimal.Decimal) ([]entity.RawMaterial, string) {
	var order []string
	required := make(map[string]decimal.Decimal)
	for _, item := range recipe {
		if _, seen := required[item.RawMaterialID]; !seen {
			order = append(order, item.RawMaterialID)
		}
		required[item.RawMaterialID] = required[item.RawMaterialID].Add(costing.MaterialRequirement(item, quantity))
	}

	updates := make([]entity.RawMaterial, 0, len(order))
	for _, id := range order {
		m, ok := c.rawMaterialLocked(id)
		if !ok {
			return nil, "insumo"
		}
		if m.Stock.LessThan(required[id]) {
			return nil, m.Name
		}
		m.Stock = m.Stock.Sub(required[id])
		updates = append(updates, m)
	}
	return updates, ""
}
