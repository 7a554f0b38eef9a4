package domain

// PaymentMethod as served by /payment-methods/.
type PaymentMethod struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PaymentType       string `json:"payment_type"`
	IsActive          bool   `json:"is_active"`
	ProcessingFeeRate string `json:"processing_fee_rate"`
	Description       string `json:"description"`
	CreatedAt         string `json:"created_at"`
}

// Coupon as embedded in coupon validation and order payloads.
type Coupon struct {
	ID                    int    `json:"id"`
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	DiscountType          string `json:"discount_type"`
	DiscountValue         string `json:"discount_value"`
	MinimumOrderAmount    string `json:"minimum_order_amount"`
	MaximumDiscountAmount string `json:"maximum_discount_amount"`
	UsageLimit            *int   `json:"usage_limit"`
	UsageCount            int    `json:"usage_count"`
	ValidFrom             string `json:"valid_from"`
	ValidUntil            string `json:"valid_until"`
	IsActive              bool   `json:"is_active"`
	IsValid               bool   `json:"is_valid"`
	Description           string `json:"description"`
	CreatedAt             string `json:"created_at"`
}

// CouponValidation is the /coupons/validate/ response. The discount figures
// are raw decimals and arrive as JSON numbers, unlike serializer output.
type CouponValidation struct {
	Valid          bool    `json:"valid"`
	Coupon         Coupon  `json:"coupon"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// CartItem is one shopping cart line as served by /cart/.
type CartItem struct {
	ID          int         `json:"id"`
	User        int         `json:"user"`
	Item        int         `json:"item"`
	ItemDetails ItemSummary `json:"item_details"`
	Quantity    int         `json:"quantity"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// CartSummary is the aggregate view at /cart/summary/.
type CartSummary struct {
	TotalItems  int        `json:"total_items"`
	TotalAmount float64    `json:"total_amount"`
	Items       []CartItem `json:"items"`
}

// OrderItem is one ordered product line.
type OrderItem struct {
	ID          int         `json:"id"`
	Item        int         `json:"item"`
	ItemDetails ItemSummary `json:"item_details"`
	Quantity    int         `json:"quantity"`
	UnitPrice   string      `json:"unit_price"`
	TotalAmount float64     `json:"total_amount"`
}

// Order as served by /orders/ and /orders/{id}/.
type Order struct {
	ID                   int            `json:"id"`
	User                 int            `json:"user"`
	OrderNumber          string         `json:"order_number"`
	Status               string         `json:"status"`
	Subtotal             string         `json:"subtotal"`
	CouponDiscount       string         `json:"coupon_discount"`
	TotalAmount          string         `json:"total_amount"`
	Coupon               *int           `json:"coupon"`
	CouponDetails        *Coupon        `json:"coupon_details"`
	PaymentMethod        int            `json:"payment_method"`
	PaymentMethodDetails *PaymentMethod `json:"payment_method_details"`
	ShippingName         string         `json:"shipping_name"`
	ShippingPostalCode   string         `json:"shipping_postal_code"`
	ShippingAddress      string         `json:"shipping_address"`
	ShippingPhone        string         `json:"shipping_phone"`
	Notes                string         `json:"notes"`
	OrderItems           []OrderItem    `json:"order_items"`
	CreatedAt            string         `json:"created_at"`
	UpdatedAt            string         `json:"updated_at"`
}

// OrderDraftItem selects an item and quantity for checkout.
type OrderDraftItem struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// OrderDraft is the /orders/ creation payload.
type OrderDraft struct {
	PaymentMethod   int              `json:"payment_method"`
	ShippingAddress string           `json:"shipping_address"`
	BillingAddress  string           `json:"billing_address,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Items           []OrderDraftItem `json:"items"`
	CouponCode      string           `json:"coupon_code,omitempty"`
}

// Payment is one settlement record from /payments/.
type Payment struct {
	ID                    int            `json:"id"`
	Order                 int            `json:"order"`
	OrderDetails          *Order         `json:"order_details"`
	PaymentMethod         int            `json:"payment_method"`
	PaymentMethodDetails  *PaymentMethod `json:"payment_method_details"`
	Amount                string         `json:"amount"`
	Status                string         `json:"status"`
	ExternalTransactionID string         `json:"external_transaction_id"`
	ExternalPaymentID     string         `json:"external_payment_id"`
	ProcessingFee         string         `json:"processing_fee"`
	PaymentDetails        map[string]any `json:"payment_details"`
	ProcessedAt           string         `json:"processed_at"`
	CreatedAt             string         `json:"created_at"`
	UpdatedAt             string         `json:"updated_at"`
}
