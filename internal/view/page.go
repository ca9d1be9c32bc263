package view

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// MessageKind styles the message region after a checkout attempt.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the outcome of the most recent checkout attempt. The region
// shows only the latest one; it never accumulates history.
type Message struct {
	Text string
	Kind MessageKind
}

// FormValues carries the checkout contact fields between renders so a failed
// attempt does not wipe what the customer typed. Reset on success.
type FormValues struct {
	CustomerName string
	Email        string
	Phone        string
	Address      string
}

// PageData is everything the full storefront page needs.
type PageData struct {
	CatalogHTML template.HTML
	CartHTML    template.HTML
	Form        FormValues
	Message     *Message
	Submitting  bool
	Year        int
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Ziad's Supplies</title>
<link rel="stylesheet" href="/static/css/styles.css">
</head>
<body>
<header class="site-header">
<h1>Ziad's Supplies</h1>
<p class="tagline">Bulk cleaning, packaging and hygiene supplies — cash on delivery.</p>
</header>
<main class="store-layout">
<section id="catalog-grid" class="catalog-grid">
{{.CatalogHTML}}
</section>
<aside class="cart-panel">
<h2>Your Cart</h2>
{{.CartHTML}}
<form id="checkout-form" method="post" action="/checkout">
<label>Name<input type="text" name="customerName" value="{{.Form.CustomerName}}"></label>
<label>Email<input type="email" name="email" value="{{.Form.Email}}"></label>
<label>Phone<input type="tel" name="phone" value="{{.Form.Phone}}"></label>
<label>Delivery address<textarea name="address">{{.Form.Address}}</textarea></label>
<button type="submit" class="checkout-submit"{{if .Submitting}} disabled{{end}}>Place order (COD)</button>
</form>
<div id="checkout-message" class="message{{with .Message}} {{.Kind}}{{end}}" role="status">{{with .Message}}{{.Text}}{{end}}</div>
</aside>
</main>
<footer class="site-footer">
<p>© <span id="footer-year">{{.Year}}</span> Ziad's Supplies. All orders are cash on delivery.</p>
</footer>
</body>
</html>`))

// RenderPage assembles the full storefront page around the already rendered
// catalog and cart fragments.
func RenderPage(data PageData) (string, error) {
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
