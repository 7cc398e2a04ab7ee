package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/phlox/storefront/internal/core/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFixture() (domain.Cart, domain.CustomerForm) {
	var c domain.Cart
	c.AddItem(kb1(), "Coklat", 2)
	c.AddItem(typeL(), "Original", 1)

	form := domain.CustomerForm{
		Name:    "Rina",
		Phone:   "081234567890",
		Address: "Jl. Melati No. 3, Bandung",
	}
	return c, form
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Rp 7.000", domain.FormatPrice(7000))
	assert.Equal(t, "Rp 14.000", domain.FormatPrice(14000))
	assert.Equal(t, "Rp 1.250.500", domain.FormatPrice(1250500))
	assert.Equal(t, "Rp 0", domain.FormatPrice(0))
}

func TestFormatOrder(t *testing.T) {

	t.Run("Deterministic", func(t *testing.T) {
		cart, form := orderFixture()

		first := domain.FormatOrder(cart, form)
		second := domain.FormatOrder(cart, form)
		assert.Equal(t, first, second)
	})

	t.Run("NumbersLinesInOrder", func(t *testing.T) {
		cart, form := orderFixture()

		got := domain.FormatOrder(cart, form)
		require.Contains(t, got, "1. KB-1")
		require.Contains(t, got, "2. Type L")
		assert.Less(t,
			strings.Index(got, "1. KB-1"),
			strings.Index(got, "2. Type L"),
		)
	})

	t.Run("LineAndGrandTotals", func(t *testing.T) {
		cart, form := orderFixture()

		got := domain.FormatOrder(cart, form)
		assert.Contains(t, got, "• Qty: 2pcs")
		assert.Contains(t, got, "• Harga: Rp 14.000")
		assert.Contains(t, got, "• Harga: Rp 15.000")
		assert.Contains(t, got, "*Total: Rp 29.000*")
	})

	t.Run("OmitsEmptyNotes", func(t *testing.T) {
		cart, form := orderFixture()

		got := domain.FormatOrder(cart, form)
		assert.NotContains(t, got, "Catatan")
	})

	t.Run("IncludesNotesWhenSet", func(t *testing.T) {
		cart, form := orderFixture()
		form.Notes = "fragile"

		got := domain.FormatOrder(cart, form)
		assert.Contains(t, got, "• Catatan: fragile\n")
	})

	t.Run("ShippingBlock", func(t *testing.T) {
		cart, form := orderFixture()

		got := domain.FormatOrder(cart, form)
		assert.Contains(t, got, "• Nama: Rina\n")
		assert.Contains(t, got, "• No. HP: 081234567890\n")
		assert.Contains(t, got, "• Alamat: Jl. Melati No. 3, Bandung\n")
	})

	t.Run("Golden", func(t *testing.T) {
		cart, form := orderFixture()
		form.Notes = "Bungkus kado"

		got := domain.FormatOrder(cart, form)

		g := goldie.New(t)
		g.Assert(t, "order_message", []byte(got))
	})
}

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func TestNewFeedback(t *testing.T) {
	at := mustParseTime(t, "2024-03-10T15:04:05+07:00")

	f := domain.NewFeedback("Andi P.", "Websitenya keren banget!", at)

	assert.Equal(t, at.UnixMilli(), f.ID)
	assert.Equal(t, "Andi P.", f.Name)
	assert.Equal(t, "Websitenya keren banget!", f.Message)
	assert.Equal(t, "10 Mar 2024", f.Date)
}

func TestFormatDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-10T10:00:00+07:00", "10 Mar 2024"},
		{"2025-05-01T10:00:00+07:00", "1 Mei 2025"},
		{"2026-08-28T10:00:00+07:00", "28 Agu 2026"},
		{"2023-12-31T10:00:00+07:00", "31 Des 2023"},
	}

	for _, tc := range tests {
		got := domain.FormatDisplayDate(mustParseTime(t, tc.in))
		assert.Equal(t, tc.want, got)
	}
}
