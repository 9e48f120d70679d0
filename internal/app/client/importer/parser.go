// Package importer загрузка каталога товаров из xlsx.
package importer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row строка каталога. Пустые необязательные поля остаются нулевыми.
type Row struct {
	Line              int
	Name              string
	Barcode           string
	Category          string
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	Quantity          int
	Unit              string
	LowStockThreshold int
}

var ErrNoRows = errors.New("excel file has no valid data rows")

var headerAliases = map[string]string{
	"name":                "name",
	"product":             "name",
	"product name":        "name",
	"item":                "name",
	"barcode":             "barcode",
	"sku":                 "barcode",
	"ean":                 "barcode",
	"category":            "category",
	"cost":                "cost_price",
	"cost price":          "cost_price",
	"buy price":           "cost_price",
	"price":               "selling_price",
	"selling price":       "selling_price",
	"sell price":          "selling_price",
	"sales price":         "selling_price",
	"quantity":            "quantity",
	"qty":                 "quantity",
	"stock":               "quantity",
	"unit":                "unit",
	"low stock threshold": "low_stock_threshold",
	"reorder level":       "low_stock_threshold",
	"alarm":               "low_stock_threshold",
}

// Parse читает первый лист книги. Обязательны колонки названия и цены продажи.
func Parse(reader io.Reader) ([]Row, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	colMap := mapColumns(rows[0])
	for _, required := range []string{"name", "selling_price"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	result := make([]Row, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap, "name"))
		if name == "" {
			continue
		}

		row := Row{
			Line:     index + 1,
			Name:     name,
			Barcode:  strings.TrimSpace(readCell(cells, colMap, "barcode")),
			Category: strings.TrimSpace(readCell(cells, colMap, "category")),
			Unit:     strings.TrimSpace(readCell(cells, colMap, "unit")),
		}

		if row.SellingPrice, err = parseMoney(readCell(cells, colMap, "selling_price"), true); err != nil {
			return nil, fmt.Errorf("row %d invalid selling_price: %w", row.Line, err)
		}
		if row.CostPrice, err = parseMoney(readCell(cells, colMap, "cost_price"), false); err != nil {
			return nil, fmt.Errorf("row %d invalid cost_price: %w", row.Line, err)
		}
		if row.Quantity, err = parseOptionalInt(readCell(cells, colMap, "quantity")); err != nil {
			return nil, fmt.Errorf("row %d invalid quantity: %w", row.Line, err)
		}
		if row.LowStockThreshold, err = parseOptionalInt(readCell(cells, colMap, "low_stock_threshold")); err != nil {
			return nil, fmt.Errorf("row %d invalid low_stock_threshold: %w", row.Line, err)
		}

		result = append(result, row)
	}

	if len(result) == 0 {
		return nil, ErrNoRows
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, colMap map[string]int, column string) string {
	idx, ok := colMap[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseMoney(raw string, required bool) (decimal.Decimal, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		if required {
			return decimal.Zero, fmt.Errorf("value is empty")
		}
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if parsed.IsNegative() {
		return decimal.Zero, fmt.Errorf("must be non-negative")
	}
	return parsed, nil
}

func parseOptionalInt(raw string) (int, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, nil
	}

	asFloat, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.Mod(asFloat, 1) != 0 {
		return 0, fmt.Errorf("must be an integer")
	}
	if asFloat < 0 {
		return 0, fmt.Errorf("must be non-negative")
	}
	return int(asFloat), nil
}
