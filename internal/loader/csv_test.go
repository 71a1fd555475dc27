package loader

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"CandleScope/internal/model"
)

const twoDays = `date,open,high,low,close,volume
1/1/2021,100,110,95,105,1000
2/1/2021,105,108,100,102,1500
`

func TestParseCSV_Valid(t *testing.T) {
	series, err := ParseCSV(strings.NewReader(twoDays))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	want := model.PricePoint{
		Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Open: 100, High: 110, Low: 95, Close: 105, Volume: 1000,
	}
	if series[0] != want {
		t.Errorf("expected %+v, got %+v", want, series[0])
	}
	if !series[1].Date.Equal(time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected 2 Jan 2021, got %s", series[1].Date)
	}
}

func TestParseCSV_ColumnOrderAndPadding(t *testing.T) {
	in := "volume, close, low, high, open, date\n1500.0, 102, 100, 108, 105, 15/03/2021\n"
	series, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series[0].Volume != 1500 || series[0].Open != 105 {
		t.Errorf("unexpected point %+v", series[0])
	}
	if series[0].Date.Day() != 15 || series[0].Date.Month() != time.March {
		t.Errorf("expected 15 March, got %s", series[0].Date)
	}
}

func TestParseCSV_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
	}{
		{"bad date", "2021-01-03,100,110,95,105,1000", "date"},
		{"non-numeric open", "3/1/2021,abc,110,95,105,1000", "open"},
		{"empty close", "3/1/2021,100,110,95,,1000", "close"},
		{"negative volume", "3/1/2021,100,110,95,105,-5", "volume"},
		{"fractional volume", "3/1/2021,100,110,95,105,10.5", "volume"},
		{"huge volume", "3/1/2021,100,110,95,105,1e30", "volume"},
		{"int64 overflow volume", "3/1/2021,100,110,95,105,9223372036854775808", "volume"},
		{"negative float volume", "3/1/2021,100,110,95,105,-1e3", "volume"},
		{"missing column", "3/1/2021,100,110,95,105", ""},
		{"extra column", "3/1/2021,100,110,95,105,1000,7", ""},
		{"zero price", "3/1/2021,0,110,95,105,1000", "open"},
		{"high below low", "3/1/2021,100,90,95,100,1000", "high"},
		{"close above high", "3/1/2021,100,110,95,111,1000", "close"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(twoDays + tt.row + "\n"))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Row != 3 {
				t.Errorf("expected row 3, got %d", pe.Row)
			}
			if pe.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, pe.Field)
			}
		})
	}
}

func TestParseCSV_WrongFieldCount(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(twoDays + "3/1/2021,100,110\n"))
	if !errors.Is(err, csv.ErrFieldCount) {
		t.Errorf("expected csv.ErrFieldCount in chain, got %v", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "row 3: ") {
		t.Errorf("expected row-indexed message, got %v", err)
	}
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("date,open,high,low,close\n1/1/2021,1,1,1,1\n"))
	if err == nil || !strings.Contains(err.Error(), "volume") {
		t.Fatalf("expected missing volume column error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.csv"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}

	unsorted := filepath.Join(dir, "unsorted.csv")
	body := "date,open,high,low,close,volume\n2/1/2021,105,108,100,102,1500\n1/1/2021,100,110,95,105,1000\n"
	if err := os.WriteFile(unsorted, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(unsorted); !errors.Is(err, model.ErrNotAscending) {
		t.Errorf("expected ErrNotAscending, got %v", err)
	}

	ok := filepath.Join(dir, "ibex.csv")
	if err := os.WriteFile(ok, []byte(twoDays), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	series, err := NewFileSource(ok).Load(testContext(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Errorf("expected 2 points, got %d", len(series))
	}
}
