package notify

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/pkg/errors"

	"tradewatch/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	generatedLayout = "2006-01-02 15:04:05"
)

type alertView struct {
	Count     int
	Trades    []tradeView
	Generated string
}

type tradeView struct {
	Politician      string
	Ticker          string
	Asset           string
	TransactionType string
	Class           string
	AmountRange     string
	TransactionDate string
	DisclosureDate  string
}

func newAlertView(trades []model.Trade, generated time.Time) alertView {
	view := alertView{
		Count:     len(trades),
		Trades:    make([]tradeView, 0, len(trades)),
		Generated: generated.Format(generatedLayout),
	}
	for _, t := range trades {
		class := "sell"
		if strings.Contains(strings.ToLower(t.TransactionType), "purchase") {
			class = "buy"
		}
		disclosed := "N/A"
		if !t.DisclosureDate.IsZero() {
			disclosed = t.DisclosureDate.Format(dateLayout)
		}
		transacted := "N/A"
		if t.TransactionDate != nil {
			transacted = t.TransactionDate.Format(dateLayout)
		}
		view.Trades = append(view.Trades, tradeView{
			Politician:      t.PoliticianName,
			Ticker:          t.Ticker,
			Asset:           orNA(t.AssetDescription),
			TransactionType: t.TransactionType,
			Class:           class,
			AmountRange:     orNA(t.AmountRange),
			TransactionDate: transacted,
			DisclosureDate:  disclosed,
		})
	}
	return view
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`New Politician Trade Alert
==================================================

Detected {{.Count}} new trade(s):

{{range .Trades}}Politician: {{.Politician}}
Ticker: {{.Ticker}}
Asset: {{.Asset}}
Transaction: {{.TransactionType}}
Amount Range: {{.AmountRange}}
Transaction Date: {{.TransactionDate}}
Disclosed: {{.DisclosureDate}}
--------------------------------------------------

{{end}}
Generated: {{.Generated}}`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; }
.container { max-width: 800px; margin: 0 auto; padding: 20px; }
.header { background-color: #2c3e50; color: white; padding: 20px; border-radius: 5px; }
.trade-card { border: 1px solid #ddd; border-radius: 5px; padding: 15px; margin: 15px 0; background-color: #f9f9f9; }
.trade-header { font-size: 18px; font-weight: bold; color: #2c3e50; margin-bottom: 10px; }
.trade-detail { margin: 5px 0; font-size: 14px; }
.label { font-weight: bold; color: #555; }
.buy { color: #27ae60; }
.sell { color: #e74c3c; }
.footer { margin-top: 20px; padding-top: 10px; border-top: 1px solid #ddd; font-size: 12px; color: #777; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Politician Trade Alert</h1>
<p>Detected {{.Count}} new trade(s)</p>
</div>
{{range .Trades}}<div class="trade-card">
<div class="trade-header">{{.Politician}}</div>
<div class="trade-detail"><span class="label">Ticker:</span> <strong>{{.Ticker}}</strong></div>
<div class="trade-detail"><span class="label">Asset:</span> {{.Asset}}</div>
<div class="trade-detail"><span class="label">Transaction:</span> <span class="{{.Class}}">{{.TransactionType}}</span></div>
<div class="trade-detail"><span class="label">Amount Range:</span> {{.AmountRange}}</div>
<div class="trade-detail"><span class="label">Transaction Date:</span> {{.TransactionDate}}</div>
<div class="trade-detail"><span class="label">Disclosure Date:</span> {{.DisclosureDate}}</div>
</div>
{{end}}<div class="footer">Generated: {{.Generated}}</div>
</div>
</body>
</html>
`))

func renderText(trades []model.Trade, generated time.Time) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, newAlertView(trades, generated)); err != nil {
		return "", errors.Wrap(err, "render text body")
	}
	return buf.String(), nil
}

func renderHTML(trades []model.Trade, generated time.Time) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, newAlertView(trades, generated)); err != nil {
		return "", errors.Wrap(err, "render html body")
	}
	return buf.String(), nil
}
