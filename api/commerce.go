package api

import (
	"context"
	"fmt"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

// Commerce covers the purchase flow: cart, payment methods, coupons, orders,
// and settlements.
type Commerce struct {
	gw *gateway.Client
}

func NewCommerce(gw *gateway.Client) *Commerce {
	return &Commerce{gw: gw}
}

// Cart lists the current user's cart lines, newest first.
func (s *Commerce) Cart(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := s.gw.GetJSON(ctx, "ListCart", "/cart/", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddedCartLine acknowledges a cart addition. Adding an item already in the
// cart increases its quantity server-side.
type AddedCartLine struct {
	Item     int `json:"item"`
	Quantity int `json:"quantity"`
}

// AddToCart puts quantity of an item into the cart.
func (s *Commerce) AddToCart(ctx context.Context, itemID, quantity int) (*AddedCartLine, error) {
	payload := struct {
		Item     int `json:"item"`
		Quantity int `json:"quantity"`
	}{itemID, quantity}

	var added AddedCartLine
	if err := s.gw.PostJSON(ctx, "AddToCart", "/cart/add/", payload, &added); err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateCartItem changes the quantity of one cart line.
func (s *Commerce) UpdateCartItem(ctx context.Context, cartItemID, quantity int) (*domain.CartItem, error) {
	payload := struct {
		Quantity int `json:"quantity"`
	}{quantity}

	var item domain.CartItem
	path := fmt.Sprintf("/cart/%d/update/", cartItemID)
	if err := s.gw.PatchJSON(ctx, "UpdateCartItem", path, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem deletes one cart line.
func (s *Commerce) RemoveCartItem(ctx context.Context, cartItemID int) error {
	path := fmt.Sprintf("/cart/%d/delete/", cartItemID)
	return s.gw.DeleteJSON(ctx, "RemoveCartItem", path, nil)
}

// ClearCart empties the cart.
func (s *Commerce) ClearCart(ctx context.Context) (*Message, error) {
	var msg Message
	if err := s.gw.DeleteJSON(ctx, "ClearCart", "/cart/clear/", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CartSummary fetches the aggregate cart view used by checkout.
func (s *Commerce) CartSummary(ctx context.Context) (*domain.CartSummary, error) {
	var summary domain.CartSummary
	if err := s.gw.GetJSON(ctx, "CartSummary", "/cart/summary/", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// PaymentMethods lists the active payment methods.
func (s *Commerce) PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	if err := s.gw.GetJSON(ctx, "ListPaymentMethods", "/payment-methods/", &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// ValidateCoupon checks a coupon code against an order amount and returns
// the discount the backend would apply.
func (s *Commerce) ValidateCoupon(ctx context.Context, code string, orderAmount float64) (*domain.CouponValidation, error) {
	payload := struct {
		Code        string  `json:"code"`
		OrderAmount float64 `json:"order_amount"`
	}{code, orderAmount}

	var validation domain.CouponValidation
	if err := s.gw.PostJSON(ctx, "ValidateCoupon", "/coupons/validate/", payload, &validation); err != nil {
		return nil, err
	}
	return &validation, nil
}

// CreateOrder places an order; the backend prices it, applies the coupon,
// and decrements stock atomically.
func (s *Commerce) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	var order domain.Order
	if err := s.gw.PostJSON(ctx, "CreateOrder", "/orders/", draft, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the current user's orders, newest first.
func (s *Commerce) Orders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.gw.GetJSON(ctx, "ListOrders", "/orders/", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order with its lines.
func (s *Commerce) Order(ctx context.Context, id int) (*domain.Order, error) {
	var order domain.Order
	if err := s.gw.GetJSON(ctx, "GetOrder", fmt.Sprintf("/orders/%d/", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a pending or confirmed order and restores stock.
func (s *Commerce) CancelOrder(ctx context.Context, id int) (*Message, error) {
	var msg Message
	path := fmt.Sprintf("/orders/%d/cancel/", id)
	if err := s.gw.PostJSON(ctx, "CancelOrder", path, struct{}{}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// PayResult acknowledges a settlement.
type PayResult struct {
	Message string         `json:"message"`
	Payment domain.Payment `json:"payment"`
}

// Pay settles a pending order with an external transaction reference.
func (s *Commerce) Pay(ctx context.Context, orderID int, transactionID string) (*PayResult, error) {
	payload := struct {
		TransactionID string `json:"transaction_id"`
	}{transactionID}

	var result PayResult
	path := fmt.Sprintf("/orders/%d/pay/", orderID)
	if err := s.gw.PostJSON(ctx, "ProcessPayment", path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Payments lists the current user's settlement history.
func (s *Commerce) Payments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := s.gw.GetJSON(ctx, "ListPayments", "/payments/", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Payment fetches one settlement record.
func (s *Commerce) Payment(ctx context.Context, id int) (*domain.Payment, error) {
	var payment domain.Payment
	if err := s.gw.GetJSON(ctx, "GetPayment", fmt.Sprintf("/payments/%d/", id), &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
