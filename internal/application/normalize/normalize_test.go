package normalize

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

func TestDecodeCost(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want entity.Cost
	}{
		{
			name: "string numérico y booleano 1",
			raw:  `{"id":7,"name":"Taxa","value":"4.5","isPercentage":1,"category":"payment"}`,
			want: entity.Cost{ID: "7", Name: "Taxa", Value: decimal.RequireFromString("4.5"), IsPercentage: true, Category: entity.CostCategoryPayment},
		},
		{
			name: "string \"1\" y categoría desconocida",
			raw:  `{"id":"c1","name":"Aluguel","value":1500,"isPercentage":"1","category":"Imposto"}`,
			want: entity.Cost{ID: "c1", Name: "Aluguel", Value: decimal.NewFromInt(1500), IsPercentage: true, Category: entity.CostCategoryExpense},
		},
		{
			name: "valor inválido pasa a cero",
			raw:  `{"id":"c2","name":"X","value":"abc","isPercentage":false}`,
			want: entity.Cost{ID: "c2", Name: "X", Value: decimal.Zero, Category: entity.CostCategoryExpense},
		},
		{
			name: "número 1.0 es porcentaje",
			raw:  `{"id":"c4","name":"Cartão","value":3,"isPercentage":1.0,"category":"payment"}`,
			want: entity.Cost{ID: "c4", Name: "Cartão", Value: decimal.NewFromInt(3), IsPercentage: true, Category: entity.CostCategoryPayment},
		},
		{
			name: "número 2 no es porcentaje",
			raw:  `{"id":"c5","name":"Z","value":3,"isPercentage":2}`,
			want: entity.Cost{ID: "c5", Name: "Z", Value: decimal.NewFromInt(3), Category: entity.CostCategoryExpense},
		},
		{
			name: "string \"0\" no es porcentaje",
			raw:  `{"id":"c3","name":"Y","value":2,"isPercentage":"0","category":"tax"}`,
			want: entity.Cost{ID: "c3", Name: "Y", Value: decimal.NewFromInt(2), Category: entity.CostCategoryTax},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Cost(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want.ID, got.ID)
			assert.Equal(t, tc.want.Name, got.Name)
			assert.Equal(t, tc.want.Category, got.Category)
			assert.Equal(t, tc.want.IsPercentage, got.IsPercentage)
			assert.True(t, tc.want.Value.Equal(got.Value), "valor %s", got.Value)
		})
	}
}

func TestParseLooseDecimal(t *testing.T) {
	cases := map[string]string{
		"12.5":     "12.5",
		"12,5":     "12.5",
		"1.234,50": "1234.5",
		" 3 ":      "3",
	}
	for in, want := range cases {
		got, ok := parseLooseDecimal(in)
		assert.True(t, ok, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q → %s", in, got)
	}
	_, ok := parseLooseDecimal("")
	assert.False(t, ok)
	_, ok = parseLooseDecimal("n/a")
	assert.False(t, ok)
}

func TestDecodeFinishedProduct_LegacyShapes(t *testing.T) {
	raw := `{
		"id": 12,
		"name": "Café Especial 250g",
		"type": "Revenda",
		"stock": "10",
		"price": "45,90",
		"cost": 20,
		"image_ids": "a.png, b.png",
		"weight": "250",
		"weight_unit": "g",
		"recipe": "inválida"
	}`
	p, err := FinishedProduct(json.RawMessage(raw))
	require.NoError(t, err)
	assert.Equal(t, "12", p.ID)
	assert.Equal(t, entity.ProductTypeResold, p.Type)
	assert.True(t, decimal.NewFromInt(10).Equal(p.Stock))
	assert.True(t, decimal.RequireFromString("45.90").Equal(p.SalePrice))
	require.NotNil(t, p.ResaleCost)
	assert.True(t, decimal.NewFromInt(20).Equal(*p.ResaleCost))
	assert.Equal(t, []string{"a.png", "b.png"}, p.ImageIDs)
	require.NotNil(t, p.Weight)
	assert.Equal(t, "g", p.WeightUnit)
	assert.Empty(t, p.Recipe)
}

func TestDecodeFinishedProduct_Recipe(t *testing.T) {
	raw := `{"id":"p1","name":"Blend","type":"PRODUCED","recipe":[{"raw_material_id":3,"quantity":"0,25"},{"quantity":1},{"rawMaterialId":"rm2","quantity":2}]}`
	p, err := FinishedProduct(json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, p.Recipe, 2)
	assert.Equal(t, "3", p.Recipe[0].RawMaterialID)
	assert.True(t, decimal.RequireFromString("0.25").Equal(p.Recipe[0].Quantity))
	assert.Equal(t, "rm2", p.Recipe[1].RawMaterialID)
	assert.Nil(t, p.ResaleCost)
}

func TestDecodeRawMaterial_Fallbacks(t *testing.T) {
	m, err := RawMaterial(json.RawMessage(`{"id":1,"name":"Café cru","stock":"5,5","unity":"kg","cost":"32","imageIds":["x.png"]}`))
	require.NoError(t, err)
	assert.Equal(t, "1", m.ID)
	assert.Equal(t, "kg", m.Unit)
	assert.True(t, decimal.RequireFromString("5.5").Equal(m.Stock))
	assert.True(t, decimal.NewFromInt(32).Equal(m.CostPerUnit))
	assert.Equal(t, []string{"x.png"}, m.ImageIDs)
}

func TestDecodeSale_Dates(t *testing.T) {
	s, err := Sale(json.RawMessage(`{"id":"s1","finishedProductId":"p1","quantity":2,"totalRevenue":"100","date":"2024-08-15 10:30:00"}`))
	require.NoError(t, err)
	assert.Equal(t, 2024, s.Date.Year())
	assert.Equal(t, 15, s.Date.Day())
	assert.True(t, decimal.NewFromInt(100).Equal(s.TotalRevenue))

	s, err = Sale(json.RawMessage(`{"id":"s2","date":"2024-08-15T10:30:00.000Z"}`))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Date.Hour())
}

func TestDecodeDREData_IgnoresID(t *testing.T) {
	d, err := DREData(json.RawMessage(`{"id":"2024-08","period":"2024-08","data":{"vendaCafes":"700","impostoSimples":60}}`))
	require.NoError(t, err)
	assert.Equal(t, "2024-08", d.Period)
	assert.True(t, decimal.NewFromInt(700).Equal(d.Data["vendaCafes"]))
	assert.True(t, decimal.NewFromInt(60).Equal(d.Data["impostoSimples"]))
}

func TestDecodeSKUConfig_NumericIDs(t *testing.T) {
	cfg, err := SKUConfig(json.RawMessage(`{"productTypes":[{"id":1,"code":"CESP","name":"Café Especial"}],"origins":[{"id":2,"code":"PP","name":"Própria"}]}`))
	require.NoError(t, err)
	assert.Equal(t, entity.SKUConfigID, cfg.ID)
	assert.Equal(t, "CESP", cfg.ProductTypeCode("1"))
	assert.Equal(t, "PP", cfg.OriginCode("2"))
}
