package format

import (
	"fmt"
	"strings"

	"CandleScope/internal/model"
)

// DefaultCurrency prefixes volumes when none is configured.
const DefaultCurrency = "€"

// DateLayout is the long tooltip date, e.g. "Friday, 01 January 2021".
const DateLayout = "Monday, 02 January 2006"

// Quote is the tooltip content for one trading day.
type Quote struct {
	Date          string `json:"date"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
	Class         string `json:"class"`
	Volume        string `json:"volume"`
}

// NewQuote formats a price point. Volume is shown in millions.
func NewQuote(p model.PricePoint, currency string) Quote {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Quote{
		Date:          p.Date.Format(DateLayout),
		Open:          price(p.Open),
		High:          price(p.High),
		Low:           price(p.Low),
		Close:         price(p.Close),
		Change:        price(p.Change()),
		ChangePercent: fmt.Sprintf("%.2f%%", p.ChangePercent()),
		Class:         p.Class().String(),
		Volume:        fmt.Sprintf("%s%.2fM", currency, float64(p.Volume)/1e6),
	}
}

func price(v float64) string { return fmt.Sprintf("%.2f", v) }

// Lines renders the quote the way the tooltip lays it out, one field per line.
func (q Quote) Lines() []string {
	return []string{
		q.Date,
		"Open: " + q.Open,
		"Close: " + q.Close,
		"High: " + q.High,
		"Low: " + q.Low,
		"Change: " + q.Change + " (" + q.ChangePercent + ")",
		"Class: " + q.Class,
		"Volume: " + q.Volume,
	}
}

func (q Quote) String() string { return strings.Join(q.Lines(), "\n") }
