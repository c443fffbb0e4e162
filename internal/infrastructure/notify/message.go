package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

// lowStockSubject asunto común para email y webhook.
func lowStockSubject(items []dto.LowStockItemDTO) string {
	return fmt.Sprintf("[bodega-ledger] %d producto(s) en o bajo el nivel de reorden", len(items))
}

// renderLowStockText arma el cuerpo en texto plano, una línea por registro.
func renderLowStockText(items []dto.LowStockItemDTO, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reporte de stock bajo generado el %s\n\n", at.Format("2006-01-02 15:04"))
	for _, it := range items {
		wh := it.WarehouseName
		if wh == "" {
			wh = it.WarehouseID
		}
		fmt.Fprintf(&b, "- %s (%s) en %s: %d unidades, reorden %d, sugerido pedir %d\n",
			it.ProductName, it.SKU, wh, it.Quantity, it.ReorderLevel, it.SuggestedOrderQty)
	}
	return b.String()
}
