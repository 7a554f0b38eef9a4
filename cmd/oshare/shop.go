package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
)

func (a *app) items(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("items", stderr)
	brand := fs.String("brand", "", "Filter by brand ID")
	category := fs.String("category", "", "Filter by category ID")
	condition := fs.String("condition", "", "Filter by condition")
	size := fs.String("size", "", "Filter by size")
	search := fs.String("search", "", "Search name, description, brand")
	ordering := fs.String("sort", "", "Ordering (price, -price, created_at, -created_at)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := url.Values{}
	for key, value := range map[string]string{
		"brand":     *brand,
		"category":  *category,
		"condition": *condition,
		"size":      *size,
		"search":    *search,
		"ordering":  *ordering,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}

	items, err := a.catalog.Items(ctx, params)
	if err != nil {
		return err
	}
	printItems(a.stdout, items)
	return nil
}

func printItems(w io.Writer, items []domain.ItemSummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found")
		return
	}
	for _, item := range items {
		sold := ""
		if !item.IsAvailable {
			sold = " [sold]"
		}
		fmt.Fprintf(w, "#%d\t%s / %s\t%s yen\t%s %s%s\n",
			item.ID, item.BrandName, item.Name, item.Price, item.Condition, item.Size, sold)
	}
}

func (a *app) item(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("item", stderr)
	id := fs.Int("id", 0, "Item ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}

	item, err := a.catalog.Item(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "#%d %s (%s / %s)\n", item.ID, item.Name, item.Brand.Name, item.Category.Name)
	fmt.Fprintf(a.stdout, "Price:     %s yen", item.Price)
	if item.DiscountPercentage > 0 {
		fmt.Fprintf(a.stdout, " (was %s, -%.0f%%)", item.OriginalPrice, item.DiscountPercentage)
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "Condition: %s, size %s, %s", item.Condition, item.Size, item.Color)
	if item.Material != "" {
		fmt.Fprintf(a.stdout, ", %s", item.Material)
	}
	fmt.Fprintln(a.stdout)
	if !item.IsAvailable {
		fmt.Fprintln(a.stdout, "SOLD OUT")
	}
	if item.Description != "" {
		fmt.Fprintf(a.stdout, "\n%s\n", item.Description)
	}
	return nil
}

func (a *app) featured(ctx context.Context) error {
	items, err := a.catalog.Featured(ctx)
	if err != nil {
		return err
	}
	printItems(a.stdout, items)
	return nil
}

func (a *app) brands(ctx context.Context) error {
	brands, err := a.catalog.Brands(ctx)
	if err != nil {
		return err
	}
	for _, b := range brands {
		fmt.Fprintf(a.stdout, "#%d\t%s\t%s\n", b.ID, b.Name, b.WebsiteURL)
	}
	return nil
}

func (a *app) categories(ctx context.Context) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Fprintf(a.stdout, "#%d\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return nil
}

func (a *app) styles(ctx context.Context) error {
	styles, err := a.catalog.Styles(ctx)
	if err != nil {
		return err
	}
	for _, s := range styles {
		fmt.Fprintf(a.stdout, "#%d\t%s\t%s\n", s.ID, s.Name, s.Description)
	}
	return nil
}

func (a *app) cart(ctx context.Context, args []string, stderr io.Writer) error {
	action := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		action, args = args[0], args[1:]
	}

	switch action {
	case "list":
		return a.cartList(ctx)
	case "add":
		return a.cartAdd(ctx, args, stderr)
	case "update":
		return a.cartUpdate(ctx, args, stderr)
	case "remove":
		return a.cartRemove(ctx, args, stderr)
	case "clear":
		msg, err := a.commerce.ClearCart(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, msg.Message)
		return nil
	case "summary":
		return a.cartSummary(ctx)
	default:
		return fmt.Errorf("unknown cart action %q (list, add, update, remove, clear, summary)", action)
	}
}

func (a *app) cartList(ctx context.Context) error {
	lines, err := a.commerce.Cart(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.stdout, "Cart is empty")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintf(a.stdout, "#%d\t%s / %s\tx%d\t%.0f yen\n",
			line.ID, line.ItemDetails.BrandName, line.ItemDetails.Name, line.Quantity, line.TotalAmount)
	}
	return nil
}

func (a *app) cartAdd(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("cart add", stderr)
	itemID := fs.Int("item", 0, "Item ID")
	quantity := fs.Int("qty", 1, "Quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *itemID <= 0 {
		return fmt.Errorf("missing required flag: -item")
	}

	added, err := a.commerce.AddToCart(ctx, *itemID, *quantity)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added item #%d x%d to cart\n", added.Item, added.Quantity)
	return nil
}

func (a *app) cartUpdate(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("cart update", stderr)
	lineID := fs.Int("line", 0, "Cart line ID")
	quantity := fs.Int("qty", 0, "New quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lineID <= 0 || *quantity <= 0 {
		return fmt.Errorf("missing required flags: -line, -qty")
	}

	line, err := a.commerce.UpdateCartItem(ctx, *lineID, *quantity)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Cart line #%d now x%d (%.0f yen)\n", line.ID, line.Quantity, line.TotalAmount)
	return nil
}

func (a *app) cartRemove(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("cart remove", stderr)
	lineID := fs.Int("line", 0, "Cart line ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lineID <= 0 {
		return fmt.Errorf("missing required flag: -line")
	}

	if err := a.commerce.RemoveCartItem(ctx, *lineID); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Removed cart line #%d\n", *lineID)
	return nil
}

func (a *app) cartSummary(ctx context.Context) error {
	summary, err := a.commerce.CartSummary(ctx)
	if err != nil {
		return err
	}
	for _, line := range summary.Items {
		fmt.Fprintf(a.stdout, "#%d\t%s\tx%d\t%.0f yen\n",
			line.ID, line.ItemDetails.Name, line.Quantity, line.TotalAmount)
	}
	fmt.Fprintf(a.stdout, "Total: %d items, %.0f yen\n", summary.TotalItems, summary.TotalAmount)
	return nil
}

func (a *app) coupon(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("coupon", stderr)
	code := fs.String("code", "", "Coupon code")
	amount := fs.Float64("amount", 0, "Order amount to validate against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" || *amount <= 0 {
		return fmt.Errorf("missing required flags: -code, -amount")
	}

	validation, err := a.commerce.ValidateCoupon(ctx, *code, *amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Coupon %s: %s\n", validation.Coupon.Code, validation.Coupon.Name)
	fmt.Fprintf(a.stdout, "Discount %.0f yen, pay %.0f yen\n", validation.DiscountAmount, validation.FinalAmount)
	return nil
}

func (a *app) checkout(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("checkout", stderr)
	items := fs.String("items", "", "Order lines as id:qty,id:qty")
	payment := fs.Int("payment", 0, "Payment method ID")
	address := fs.String("address", "", "Shipping address")
	notes := fs.String("notes", "", "Order notes")
	couponCode := fs.String("coupon", "", "Coupon code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *items == "" || *payment <= 0 || *address == "" {
		return fmt.Errorf("missing required flags: -items, -payment, -address")
	}

	lines, err := parseOrderLines(*items)
	if err != nil {
		return err
	}

	order, err := a.commerce.CreateOrder(ctx, domain.OrderDraft{
		PaymentMethod:   *payment,
		ShippingAddress: *address,
		Notes:           *notes,
		Items:           lines,
		CouponCode:      *couponCode,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Order %s created (#%d)\n", order.OrderNumber, order.ID)
	fmt.Fprintf(a.stdout, "Subtotal %s, discount %s, total %s yen\n",
		order.Subtotal, order.CouponDiscount, order.TotalAmount)
	return nil
}

// parseOrderLines turns "3:1,7:2" into order draft items.
func parseOrderLines(raw string) ([]domain.OrderDraftItem, error) {
	parts := strings.Split(raw, ",")
	lines := make([]domain.OrderDraftItem, 0, len(parts))
	for _, part := range parts {
		id, qty, found := strings.Cut(strings.TrimSpace(part), ":")
		line := domain.OrderDraftItem{Quantity: 1}
		var err error
		if line.ItemID, err = strconv.Atoi(id); err != nil {
			return nil, fmt.Errorf("invalid order line %q", part)
		}
		if found {
			if line.Quantity, err = strconv.Atoi(qty); err != nil || line.Quantity <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", part)
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.commerce.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.stdout, "No orders")
		return nil
	}
	for _, o := range orders {
		fmt.Fprintf(a.stdout, "%s\t#%d\t%s\t%s yen\t%d lines\n",
			o.OrderNumber, o.ID, o.Status, o.TotalAmount, len(o.OrderItems))
	}
	return nil
}

func (a *app) orderDetail(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("order", stderr)
	id := fs.Int("id", 0, "Order ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}

	order, err := a.commerce.Order(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Order %s (#%d) %s\n", order.OrderNumber, order.ID, order.Status)
	for _, line := range order.OrderItems {
		fmt.Fprintf(a.stdout, "  %s x%d @ %s yen\n", line.ItemDetails.Name, line.Quantity, line.UnitPrice)
	}
	fmt.Fprintf(a.stdout, "Subtotal %s, discount %s, total %s yen\n",
		order.Subtotal, order.CouponDiscount, order.TotalAmount)
	if order.CouponDetails != nil {
		fmt.Fprintf(a.stdout, "Coupon:   %s\n", order.CouponDetails.Code)
	}
	if order.PaymentMethodDetails != nil {
		fmt.Fprintf(a.stdout, "Payment:  %s\n", order.PaymentMethodDetails.Name)
	}
	fmt.Fprintf(a.stdout, "Ship to:  %s\n", order.ShippingAddress)
	return nil
}

func (a *app) cancelOrder(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("cancel", stderr)
	id := fs.Int("id", 0, "Order ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}

	msg, err := a.commerce.CancelOrder(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, msg.Message)
	return nil
}

func (a *app) pay(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("pay", stderr)
	id := fs.Int("id", 0, "Order ID")
	transaction := fs.String("transaction", "", "External transaction reference")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}

	result, err := a.commerce.Pay(ctx, *id, *transaction)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, result.Message)
	fmt.Fprintf(a.stdout, "Payment #%d %s, %s yen\n",
		result.Payment.ID, result.Payment.Status, result.Payment.Amount)
	return nil
}
