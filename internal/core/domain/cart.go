package domain

// A CartLine is one (product, variant, quantity) entry in the cart.
type CartLine struct {
	Product
	SelectedVariant string
	Quantity        int
}

// Total is the line price: unit price times quantity.
func (l CartLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// A Cart is an ordered sequence of lines, insertion order preserved.
// Two lines never share the same (product id, variant) pair.
// Aggregates are derived on every read, never cached.
type Cart struct {
	Lines []CartLine
}

// AddItem merges qty into an existing line with the same
// (product id, variant) pair, or appends a new line at the end.
//
// Callers must pass qty >= 1 and a variant the product actually has;
// violating calls are ignored and leave the cart untouched.
func (c *Cart) AddItem(p Product, variant string, qty int) {
	if qty < 1 || !p.HasVariant(variant) {
		return
	}

	for i := range c.Lines {
		if c.Lines[i].ID == p.ID && c.Lines[i].SelectedVariant == variant {
			c.Lines[i].Quantity += qty
			return
		}
	}

	c.Lines = append(c.Lines, CartLine{
		Product:         p,
		SelectedVariant: variant,
		Quantity:        qty,
	})
}

// RemoveItem deletes the line at index. Out of range is a no-op.
func (c *Cart) RemoveItem(index int) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
}

// AdjustQuantity adds delta to the line's quantity. A result of zero
// or below removes the line instead of keeping an empty one.
// Out of range is a no-op.
func (c *Cart) AdjustQuantity(index, delta int) {
	if index < 0 || index >= len(c.Lines) {
		return
	}

	newQty := c.Lines[index].Quantity + delta
	if newQty <= 0 {
		c.RemoveItem(index)
		return
	}
	c.Lines[index].Quantity = newQty
}

// Subtotal is the sum of line totals across the cart.
func (c *Cart) Subtotal() (sum int64) {
	for _, l := range c.Lines {
		sum += l.Total()
	}
	return sum
}

// ItemCount is the sum of quantities across the cart.
func (c *Cart) ItemCount() (n int) {
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

// Clone returns a deep copy, safe to hand out of the owning store.
func (c *Cart) Clone() Cart {
	cp := Cart{}
	if len(c.Lines) != 0 {
		cp.Lines = make([]CartLine, len(c.Lines))
		copy(cp.Lines, c.Lines)
	}
	return cp
}
