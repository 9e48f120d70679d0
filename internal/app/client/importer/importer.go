package importer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"possync/internal/app/client/store"
	"possync/internal/domain/retail"
)

// Result итог импорта
type Result struct {
	Created   int
	Updated   int
	Restocked int
}

// Importer применяет строки каталога к локальному магазину.
// Существующий товар ищется по штрихкоду, затем по названию без учета регистра.
type Importer struct {
	store *store.Store
	log   *slog.Logger
}

func New(st *store.Store, log *slog.Logger) *Importer {
	return &Importer{
		store: st,
		log:   log.With("component", "importer"),
	}
}

func (im *Importer) Apply(rows []Row) (Result, error) {
	var res Result

	for _, row := range rows {
		existing, found := im.find(row)
		if !found {
			if _, err := im.store.AddProduct(toInput(row)); err != nil {
				return res, fmt.Errorf("строка %d: %w", row.Line, err)
			}
			res.Created++
			continue
		}

		cost, selling := row.CostPrice, row.SellingPrice
		patch := store.ProductPatch{SellingPrice: &selling}
		if !cost.IsZero() {
			patch.CostPrice = &cost
		}
		if row.Category != "" {
			category := row.Category
			patch.Category = &category
		}
		if row.Unit != "" {
			unit := row.Unit
			patch.Unit = &unit
		}
		if row.LowStockThreshold > 0 {
			threshold := row.LowStockThreshold
			patch.LowStockThreshold = &threshold
		}
		if _, err := im.store.UpdateProduct(existing.ID, patch); err != nil {
			return res, fmt.Errorf("строка %d: %w", row.Line, err)
		}
		res.Updated++

		if row.Quantity > 0 {
			if _, err := im.store.Restock(existing.ID, row.Quantity, "", patch.CostPrice); err != nil {
				return res, fmt.Errorf("строка %d: %w", row.Line, err)
			}
			res.Restocked++
		}
	}

	im.log.Info("Импорт каталога завершен", "created", res.Created, "updated", res.Updated, "restocked", res.Restocked)
	return res, nil
}

func (im *Importer) find(row Row) (retail.Product, bool) {
	if row.Barcode != "" {
		p, err := im.store.ProductByBarcode(row.Barcode)
		if err == nil {
			return p, true
		}
		if !errors.Is(err, retail.ErrNotFound) {
			im.log.Warn("Ошибка поиска по штрихкоду", "barcode", row.Barcode, "error", err)
		}
	}
	for _, p := range im.store.Products() {
		if strings.EqualFold(p.Name, row.Name) {
			return p, true
		}
	}
	return retail.Product{}, false
}

func toInput(row Row) store.ProductInput {
	in := store.ProductInput{
		Name:              row.Name,
		CostPrice:         row.CostPrice,
		SellingPrice:      row.SellingPrice,
		Quantity:          row.Quantity,
		Unit:              row.Unit,
		LowStockThreshold: row.LowStockThreshold,
		Barcode:           row.Barcode,
	}
	if row.Category != "" {
		category := row.Category
		in.Category = &category
	}
	return in
}
