package httphandler

type (
	Product struct {
		ID          int      `json:"id"`
		Name        string   `json:"name"`
		UnitPrice   int64    `json:"unit_price"`
		Description string   `json:"description"`
		Image       string   `json:"image"`
		Category    string   `json:"category"`
		Variants    []string `json:"variants"`
	}

	CartLine struct {
		ProductID       int    `json:"product_id"`
		Name            string `json:"name"`
		SelectedVariant string `json:"variant"`
		Quantity        int    `json:"quantity"`
		UnitPrice       int64  `json:"unit_price"`
		Total           int64  `json:"total"`
	}

	Cart struct {
		Lines     []CartLine `json:"lines"`
		Subtotal  int64      `json:"subtotal"`
		ItemCount int        `json:"item_count"`
	}
)

type AddCartItem struct {
	ProductID int    `json:"product_id"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

type AdjustQuantity struct {
	Delta int `json:"delta"`
}

type CheckoutForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}

type Feedback struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

type NewFeedback struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
