package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"CandleScope/internal/model"
)

// DateLayout is day/month/year; single-digit days and months are accepted.
const DateLayout = "2/1/2006"

var columns = []string{"date", "open", "high", "low", "close", "volume"}

var (
	errNotPositive  = errors.New("must be positive")
	errNegative     = errors.New("must not be negative")
	errNotIntegral  = errors.New("must be a whole number")
	errTooLarge     = errors.New("exceeds the int64 range")
	errHighBelowLow = errors.New("high is below low")
	errOutsideRange = errors.New("open/close outside low-high range")
)

// LoadFile reads a CSV file and asserts the series is in ascending date order.
func LoadFile(path string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	series, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// ParseCSV parses rows with the header date,open,high,low,close,volume.
// Columns are looked up by name. Rows keep their input order.
func ParseCSV(r io.Reader) (model.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}

	var series model.Series
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a short or long row surfaces as csv.ErrFieldCount
			return nil, &ParseError{Row: row, Err: err}
		}
		p, err := parseRecord(row, record, idx)
		if err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, nil
}

func parseRecord(row int, record []string, idx map[string]int) (model.PricePoint, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[idx[name]])
	}

	var p model.PricePoint
	raw := field("date")
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return p, &ParseError{Row: row, Field: "date", Value: raw, Err: err}
	}
	p.Date = date

	prices := []struct {
		name string
		dst  *float64
	}{
		{"open", &p.Open},
		{"high", &p.High},
		{"low", &p.Low},
		{"close", &p.Close},
	}
	for _, f := range prices {
		raw := field(f.name)
		v, err := parsePrice(raw)
		if err != nil {
			return p, &ParseError{Row: row, Field: f.name, Value: raw, Err: err}
		}
		*f.dst = v
	}

	raw = field("volume")
	vol, err := parseVolume(raw)
	if err != nil {
		return p, &ParseError{Row: row, Field: "volume", Value: raw, Err: err}
	}
	p.Volume = vol

	if err := checkRange(p); err != nil {
		return p, &ParseError{Row: row, Field: err.field, Value: err.value, Err: err.err}
	}
	return p, nil
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errNotPositive
	}
	return v, nil
}

func parseVolume(raw string) (int64, error) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			return 0, errNegative
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return volumeFromFloat(f)
}

// volumeFromFloat accepts whole numbers in [0, 2^63).
func volumeFromFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotIntegral
	}
	if f < 0 {
		return 0, errNegative
	}
	if f >= 1<<63 {
		return 0, errTooLarge
	}
	return int64(f), nil
}

type rangeError struct {
	field string
	value string
	err   error
}

// checkRange enforces low <= open,close <= high.
func checkRange(p model.PricePoint) *rangeError {
	if p.High < p.Low {
		return &rangeError{field: "high", value: strconv.FormatFloat(p.High, 'f', -1, 64), err: errHighBelowLow}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"open", p.Open}, {"close", p.Close}} {
		if f.v < p.Low || f.v > p.High {
			return &rangeError{field: f.name, value: strconv.FormatFloat(f.v, 'f', -1, 64), err: errOutsideRange}
		}
	}
	return nil
}
