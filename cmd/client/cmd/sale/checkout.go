package sale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/app/client/store"
	"possync/internal/domain/retail"
)

var (
	checkoutItems    []string
	checkoutPayment  string
	checkoutCustomer string
	checkoutCash     string
	checkoutDiscount string
	checkoutStaff    string
)

var CheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Оформить продажу",
	Long: `Оформление продажи одной командой.

Пример:
  possync sale checkout --item p1:2 --item p2:1 --payment cash --cash 5000`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		st := app.Store()

		lines, err := parseItems(checkoutItems)
		if err != nil {
			return err
		}

		if err := st.ClearCart(); err != nil {
			return err
		}
		sale, err := checkout(st, lines)
		if err != nil {
			_ = st.ClearCart()
			return fmt.Errorf("продажа не оформлена: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(sale)
		}

		fmt.Printf("✅ Продажа %s оформлена\n", sale.ID)
		for _, item := range sale.Items {
			fmt.Printf("  %s × %d = %s\n", item.Product.Name, item.Quantity, item.LineTotal().StringFixed(2))
		}
		if sale.Discount.IsPositive() {
			fmt.Printf("Скидка: %s\n", sale.Discount.StringFixed(2))
		}
		fmt.Printf("Итого: %s (%s)\n", sale.Total.StringFixed(2), sale.PaymentMethod)
		if sale.ChangeGiven != nil {
			fmt.Printf("Сдача: %s\n", sale.ChangeGiven.StringFixed(2))
		}
		return nil
	},
}

type line struct {
	productID string
	qty       int
}

func parseItems(items []string) ([]line, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("укажите хотя бы один --item")
	}

	out := make([]line, 0, len(items))
	for _, it := range items {
		id, qtyStr, found := strings.Cut(it, ":")
		qty := 1
		if found {
			n, err := strconv.Atoi(qtyStr)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("неверное количество в --item %q", it)
			}
			qty = n
		}
		if id == "" {
			return nil, fmt.Errorf("неверный --item %q", it)
		}
		out = append(out, line{productID: id, qty: qty})
	}
	return out, nil
}

func checkout(st *store.Store, lines []line) (retail.Sale, error) {
	for _, l := range lines {
		if _, err := st.AddToCart(l.productID, l.qty); err != nil {
			return retail.Sale{}, err
		}
	}

	if checkoutDiscount != "" {
		d, err := decimal.NewFromString(checkoutDiscount)
		if err != nil {
			return retail.Sale{}, fmt.Errorf("неверная скидка %q", checkoutDiscount)
		}
		if err := st.SetCartDiscount(d); err != nil {
			return retail.Sale{}, err
		}
	}

	req := store.CheckoutRequest{
		PaymentMethod: retail.PaymentMethod(checkoutPayment),
		CustomerID:    checkoutCustomer,
		StaffName:     checkoutStaff,
	}
	if checkoutCash != "" {
		cash, err := decimal.NewFromString(checkoutCash)
		if err != nil {
			return retail.Sale{}, fmt.Errorf("неверная сумма --cash %q", checkoutCash)
		}
		req.CashReceived = &cash
	}

	return st.CompleteSale(req)
}

func init() {
	CheckoutCmd.Flags().StringArrayVar(&checkoutItems, "item", nil, "позиция в формате <product-id>[:количество]")
	CheckoutCmd.Flags().StringVar(&checkoutPayment, "payment", string(retail.PaymentCash), "способ оплаты: cash, transfer, pos, credit")
	CheckoutCmd.Flags().StringVar(&checkoutCustomer, "customer", "", "ID покупателя, обязателен для credit")
	CheckoutCmd.Flags().StringVar(&checkoutCash, "cash", "", "получено наличными")
	CheckoutCmd.Flags().StringVar(&checkoutDiscount, "discount", "", "скидка на чек")
	CheckoutCmd.Flags().StringVar(&checkoutStaff, "staff", "", "имя кассира")
}
