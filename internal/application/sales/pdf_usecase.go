package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// PDFUseCase genera el comprobante PDF de una venta.
type PDFUseCase struct {
	salesRepo     repository.SalesOrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	generator     ReceiptPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	salesRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	generator ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		salesRepo:     salesRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// DownloadReceiptPDF devuelve (pdfBytes, filename) o domain.ErrNotFound si la venta no existe.
func (uc *PDFUseCase) DownloadReceiptPDF(ctx context.Context, salesOrderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.salesRepo.GetByID(ctx, salesOrderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	wh, err := uc.warehouseRepo.GetByID(ctx, order.WarehouseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener bodega: %w", err)
	}
	if wh == nil {
		return nil, "", domain.ErrNotFound
	}

	enriched := make([]SalesItemForPDF, 0, len(order.Items))
	for _, it := range order.Items {
		line := SalesItemForPDF{SalesItem: it, ProductName: "Producto " + it.ProductID}
		if p, pErr := uc.productRepo.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			line.ProductName = p.Name
			line.SKU = p.SKU
		}
		enriched = append(enriched, line)
	}

	pdfBytes, err = uc.generator.GenerateSalesReceipt(ctx, order, wh, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", order.ID), nil
}
