package notifier

import (
	"fmt"
	"html"
	"strings"

	"CandleScope/internal/format"
	"CandleScope/internal/model"
)

// FormatRefreshReport summarises a refreshed chart with its latest session.
func FormatRefreshReport(title string, series model.Series, currency string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> chart refreshed\n\n", html.EscapeString(title)))
	last, ok := series.Last()
	if !ok {
		b.WriteString("no data\n")
		return b.String()
	}

	q := format.NewQuote(last, currency)
	icon := "🟢"
	if last.Class() == model.Bearish {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", icon, q.Date))
	b.WriteString(fmt.Sprintf("O %s | H %s | L %s | C %s\n", q.Open, q.High, q.Low, q.Close))
	b.WriteString(fmt.Sprintf("Change: %s (%s)\n", q.Change, q.ChangePercent))
	b.WriteString(fmt.Sprintf("Volume: %s\n", html.EscapeString(q.Volume)))
	b.WriteString(fmt.Sprintf("\n%d sessions, %s to %s\n",
		len(series), series[0].Date.Format("02 Jan 2006"), last.Date.Format("02 Jan 2006")))
	return b.String()
}

// FormatLoadFailure reports a refresh that kept the previous chart.
func FormatLoadFailure(source string, err error) string {
	return fmt.Sprintf("❌ <b>refresh failed</b> (%s)\n%s\nthe previous chart stays live",
		html.EscapeString(source), html.EscapeString(err.Error()))
}
