package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// An OrderMessage is the result of a checkout: the formatted text
// to hand to the outbound messaging link.
type OrderMessage struct {
	OrderID string
	Text    string
}

// An OrderPlaced event carries line quantities and totals for
// analytics. No customer contact data is included.
type OrderPlaced struct {
	OrderID  string
	Lines    []OrderPlacedLine
	Subtotal int64
}

type OrderPlacedLine struct {
	ProductID   int
	ProductName string
	Variant     string
	Quantity    int
	Total       int64
}

// Prices are always rendered for the id-ID locale: grouped by
// thousands with a dot separator and the rupiah prefix.
var idPrinter = message.NewPrinter(language.Indonesian)

// FormatPrice renders an amount in the smallest currency unit,
// e.g. 14000 -> "Rp 14.000".
func FormatPrice(amount int64) string {
	return idPrinter.Sprintf("Rp %d", amount)
}

// FormatOrder renders the outbound order message: the numbered line
// items, the grand total and the shipping block. The notes line is
// omitted entirely when the form has no notes.
//
// Output is deterministic for identical inputs. The cart must be
// non-empty; callers guard. Transport encoding of the returned text
// is the caller's concern.
func FormatOrder(cart Cart, form CustomerForm) string {
	var b strings.Builder

	b.WriteString("🛍️ *Pesanan Baru dari " + form.Name + "*\n\n")
	b.WriteString("📦 *Detail Pesanan:*\n")

	for i, line := range cart.Lines {
		b.WriteString(strconv.Itoa(i+1) + ". " + line.Name + "\n")
		b.WriteString("   • Warna: " + line.SelectedVariant + "\n")
		b.WriteString("   • Qty: " + strconv.Itoa(line.Quantity) + "pcs\n")
		b.WriteString("   • Harga: " + FormatPrice(line.Total()) + "\n\n")
	}

	b.WriteString("💰 *Total: " + FormatPrice(cart.Subtotal()) + "*\n")
	b.WriteString("\n━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("📍 *Informasi Pengiriman:*\n")
	b.WriteString("• Nama: " + form.Name + "\n")
	b.WriteString("• No. HP: " + form.Phone + "\n")
	b.WriteString("• Alamat: " + form.Address + "\n")
	if form.Notes != "" {
		b.WriteString("• Catatan: " + form.Notes + "\n")
	}

	return b.String()
}
