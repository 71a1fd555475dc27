package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CandleScope/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource loads daily bars from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL   string
	Symbol    string
	Range     string
	Client    *http.Client
	SymbolMap map[string]string // maps index names to Yahoo tickers
}

// NewYahooSource creates a Yahoo source with optional proxy support.
func NewYahooSource(symbol, rng, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rng == "" {
		rng = "1y"
	}
	return &YahooSource{
		BaseURL: defaultYahooBaseURL,
		Symbol:  symbol,
		Range:   rng,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"IBEX35":  "^IBEX",
			"IBEX 35": "^IBEX",
			"SPX500":  "^GSPC",
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo:" + y.ticker() }

func (y *YahooSource) ticker() string {
	if mapped, ok := y.SymbolMap[y.Symbol]; ok {
		return mapped
	}
	return y.Symbol
}

// yahooChart is the subset of the chart API response we read.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) Load(ctx context.Context) (model.Series, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.BaseURL, url.PathEscape(y.ticker()), url.QueryEscape(y.Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, &LoadError{Path: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Path: u, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Path: u, Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))}
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", y.ticker())
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	at := func(vs []*float64, i int) (float64, bool) {
		if i >= len(vs) || vs[i] == nil {
			return 0, false
		}
		return *vs[i], true
	}

	byDay := make(map[time.Time]model.PricePoint, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue // null bars (holidays, halted sessions)
		}
		var vol int64
		if v, ok := at(quote.Volume, i); ok {
			n, err := volumeFromFloat(v)
			if err != nil {
				return nil, &ParseError{Row: i + 1, Field: "volume", Value: strconv.FormatFloat(v, 'g', -1, 64), Err: err}
			}
			vol = n
		}

		t := time.Unix(ts, 0).UTC()
		p := model.PricePoint{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		}
		for _, f := range []struct {
			name string
			v    float64
		}{{"open", o}, {"high", h}, {"low", l}, {"close", c}} {
			if !(f.v > 0) {
				return nil, &ParseError{Row: i + 1, Field: f.name, Value: strconv.FormatFloat(f.v, 'f', -1, 64), Err: errNotPositive}
			}
		}
		if err := checkRange(p); err != nil {
			return nil, &ParseError{Row: i + 1, Field: err.field, Value: err.value, Err: err.err}
		}
		// The API repeats the live session as a second bar; keep the latest.
		byDay[p.Date] = p
	}

	series := make(model.Series, 0, len(byDay))
	for _, p := range byDay {
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
