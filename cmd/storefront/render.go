package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/notify"
)

var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorMuted   = lipgloss.Color("#6C7A89")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	priceStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	infoStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	lowStyle     = lipgloss.NewStyle().Foreground(colorWarning)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func stockLabel(stock int) string {
	switch {
	case stock <= 0:
		return errorStyle.Render("out of stock")
	case stock < 5:
		return lowStyle.Render("only " + strconv.Itoa(stock) + " left")
	default:
		return mutedStyle.Render(strconv.Itoa(stock) + " in stock")
	}
}

func renderProducts(w io.Writer, products []product.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No products found."))
		return
	}
	idWidth, nameWidth := 2, 4
	for _, p := range products {
		idWidth = max(idWidth, lipgloss.Width(p.ID))
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	idCol := lipgloss.NewStyle().Width(idWidth + 2)
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	priceCol := lipgloss.NewStyle().Width(12)

	for _, p := range products {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idCol.Render(mutedStyle.Render(p.ID)),
			nameCol.Render(p.Name),
			priceCol.Render(priceStyle.Render(money(p.Price))),
			mutedStyle.Render(p.CategoryName)+"  ",
			stockLabel(p.Stock),
		))
	}
}

func renderProduct(w io.Writer, p *product.Product) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name) + "\n")
	b.WriteString(mutedStyle.Render(p.CategoryName) + "\n\n")
	b.WriteString(p.Description + "\n\n")
	b.WriteString(priceStyle.Render(money(p.Price)) + "  " + stockLabel(p.Stock) + "\n")
	b.WriteString(mutedStyle.Render("id: " + p.ID))
	if p.ImageURL != "" {
		b.WriteString("\n" + mutedStyle.Render("image: "+p.ImageURL))
	}
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

func renderCategories(w io.Writer, categories []product.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No categories."))
		return
	}
	for _, c := range categories {
		line := mutedStyle.Render(strconv.FormatInt(c.ID, 10)) + "  " + c.Name
		if c.Description != "" {
			line += "  " + mutedStyle.Render(c.Description)
		}
		fmt.Fprintln(w, line)
	}
}

func renderNotification(w io.Writer, msg notify.Message) {
	switch msg.Kind {
	case notify.Success:
		fmt.Fprintln(w, successStyle.Render("✓ "+msg.Text))
	case notify.Error:
		fmt.Fprintln(w, errorStyle.Render("✗ "+msg.Text))
	default:
		fmt.Fprintln(w, infoStyle.Render("• "+msg.Text))
	}
}

func renderCart(w io.Writer, items []cart.LineItem, count int, total decimal.Decimal) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Your cart is empty."))
		return
	}
	nameWidth := 4
	for _, it := range items {
		nameWidth = max(nameWidth, lipgloss.Width(it.Name))
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	qtyCol := lipgloss.NewStyle().Width(16)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Cart (%d items)", count)) + "\n")
	for _, it := range items {
		qty := fmt.Sprintf("%d × %s", it.Quantity, money(it.Price))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			nameCol.Render(it.Name),
			qtyCol.Render(qty),
			priceStyle.Render(money(it.Subtotal())),
		))
		if it.Quantity >= it.StockLimit {
			b.WriteString(" " + lowStyle.Render("(max)"))
		}
		b.WriteString("\n")
	}
	b.WriteString("Total: " + priceStyle.Render(money(total)))
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
