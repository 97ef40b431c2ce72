package entity

// SKUConfigID ID fijo del registro singleton de configuración de SKU.
const SKUConfigID = "singleton"

// SKUSegmentOption opción de segmento de SKU (tipo de producto u origen).
type SKUSegmentOption struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// SKUConfig listas de tipos de producto y orígenes que componen el prefijo del SKU.
type SKUConfig struct {
	ID           string             `json:"id"`
	ProductTypes []SKUSegmentOption `json:"productTypes"`
	Origins      []SKUSegmentOption `json:"origins"`
}

// ProductTypeCode devuelve el código del tipo de producto con ese ID, o "" si no existe.
func (c SKUConfig) ProductTypeCode(id string) string {
	return findCode(c.ProductTypes, id)
}

// OriginCode devuelve el código del origen con ese ID, o "" si no existe.
func (c SKUConfig) OriginCode(id string) string {
	return findCode(c.Origins, id)
}

func findCode(opts []SKUSegmentOption, id string) string {
	if id == "" {
		return ""
	}
	for _, o := range opts {
		if o.ID == id {
			return o.Code
		}
	}
	return ""
}
