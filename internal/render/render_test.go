package render

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"CandleScope/internal/model"
	"CandleScope/internal/scale"
)

var layout = model.Variants["compact"]

func date(d, m, y int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func scenario() model.Series {
	return model.Series{
		{Date: date(1, 1, 2021), Open: 100, High: 110, Low: 95, Close: 105, Volume: 1000},
		{Date: date(2, 1, 2021), Open: 105, High: 108, Low: 100, Close: 102, Volume: 1500},
	}
}

func yearSeries(n int) model.Series {
	s := make(model.Series, n)
	price := 8000.0
	for i := range s {
		open := price
		price += float64((i*37)%21 - 10)
		s[i] = model.PricePoint{
			Date: date(1, 1, 2021).AddDate(0, 0, i),
			Open: open, Close: price,
			High:   math.Max(open, price) + 15,
			Low:    math.Min(open, price) - 15,
			Volume: int64(1_000_000 + i*1000),
		}
	}
	return s
}

func mustScene(t *testing.T, series model.Series) (*Renderer, scale.Set, *Scene) {
	t.Helper()
	scales, err := scale.Derive(series, layout, scale.DefaultOptions)
	if err != nil {
		t.Fatalf("derive scales: %v", err)
	}
	r := NewRenderer(layout, DefaultOptions)
	return r, scales, r.Render(series, scales)
}

func TestRender_Scenario(t *testing.T) {
	r, scales, sc := mustScene(t, scenario())
	cw := r.CandleWidth(2)
	if want := 0.45 * 1050 / 2; cw != want {
		t.Fatalf("candle width = %v, want %v", cw, want)
	}

	body1, ok := sc.Get("01-01-2021/body")
	if !ok {
		t.Fatal("missing body for 01-01-2021")
	}
	if body1.Class != ClassBullishCandle {
		t.Errorf("day 1 class = %s, want %s", body1.Class, ClassBullishCandle)
	}
	if body1.Y != scales.Y.Apply(105) {
		t.Errorf("day 1 body top = %v, want y(105)=%v", body1.Y, scales.Y.Apply(105))
	}
	if want := math.Abs(scales.Y.Apply(100) - scales.Y.Apply(105)); body1.H != want {
		t.Errorf("day 1 body height = %v, want %v", body1.H, want)
	}
	if body1.X != -cw/2 || body1.W != cw {
		t.Errorf("day 1 body x/w = %v/%v, want %v/%v", body1.X, body1.W, -cw/2, cw)
	}

	body2, _ := sc.Get("02-01-2021/body")
	if body2.Class != ClassBearishCandle {
		t.Errorf("day 2 class = %s, want %s", body2.Class, ClassBearishCandle)
	}

	whisker, _ := sc.Get("02-01-2021/whisker")
	if whisker.X1 != 1050 || whisker.Y1 != scales.Y.Apply(108) || whisker.Y2 != scales.Y.Apply(100) {
		t.Errorf("unexpected whisker %+v", whisker)
	}
	if whisker.Class != ClassBearishLine {
		t.Errorf("whisker class = %s, want %s", whisker.Class, ClassBearishLine)
	}

	vol, _ := sc.Get("02-01-2021/volume")
	if vol.Y != scales.Z.Apply(1500) || vol.H != 550-scales.Z.Apply(1500) {
		t.Errorf("unexpected volume bar %+v", vol)
	}
	if vol.Class != ClassBearishBar {
		t.Errorf("volume class = %s, want %s", vol.Class, ClassBearishBar)
	}

	hit, _ := sc.Get("01-01-2021/hit")
	if hit.Opacity != 0 || hit.W != 1.25*cw || hit.H != layout.Height || hit.Y != 0 {
		t.Errorf("unexpected hit target %+v", hit)
	}
}

func TestRender_HitTargetBeneathCandle(t *testing.T) {
	_, _, sc := mustScene(t, scenario())
	var order []string
	for _, s := range sc.Group(GroupDates) {
		if strings.HasPrefix(s.Key, "01-01-2021/") {
			order = append(order, strings.TrimPrefix(s.Key, "01-01-2021/"))
		}
	}
	want := []string{"hit", "whisker", "body", "volume"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("draw order = %v, want %v", order, want)
	}
}

func TestRender_ExactlyOneClassPerPoint(t *testing.T) {
	series := append(scenario(), model.PricePoint{
		Date: date(3, 1, 2021), Open: 102, High: 104, Low: 101, Close: 102, Volume: 900,
	})
	_, _, sc := mustScene(t, series)
	for _, p := range series {
		body, _ := sc.Get(DateKey(p.Date) + "/body")
		bull := body.Class == ClassBullishCandle
		bear := body.Class == ClassBearishCandle
		if bull == bear {
			t.Errorf("%s: expected exactly one class, got %q", DateKey(p.Date), body.Class)
		}
		if p.Open == p.Close && !bull {
			t.Errorf("%s: tie must be bullish", DateKey(p.Date))
		}
	}
}

func TestCandleWidth_NoOverlapBound(t *testing.T) {
	r := NewRenderer(layout, DefaultOptions)
	for _, n := range []int{1, 2, 7, 250, 1000, 5000} {
		if got := r.CandleWidth(n) * float64(n); got > 0.45*layout.PlotWidth()+1e-9 {
			t.Errorf("n=%d: total candle width %v exceeds %v", n, got, 0.45*layout.PlotWidth())
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	series := yearSeries(250)
	scales, err := scale.Derive(series, layout, scale.DefaultOptions)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	r := NewRenderer(layout, DefaultOptions)
	a, b := r.Render(series, scales), r.Render(series, scales)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("rendering twice produced different scenes")
	}
	if p := Reconcile(a, b); !p.Empty() {
		t.Errorf("expected empty patch, got %d enter / %d update / %d exit",
			len(p.Enter), len(p.Update), len(p.Exit))
	}
}

func TestReconcile(t *testing.T) {
	prev := NewScene()
	prev.Add(
		Shape{Key: "a", Group: GroupDates, Kind: Rect, W: 1},
		Shape{Key: "b", Group: GroupDates, Kind: Rect, W: 1},
	)
	next := prev.Clone()
	next.ReplaceGroup(GroupDates, []Shape{
		{Key: "b", Group: GroupDates, Kind: Rect, W: 2},
		{Key: "c", Group: GroupDates, Kind: Rect, W: 1},
	})
	next.SetTransform(GroupDates, Affine{K: 2, X: -10})

	p := Reconcile(prev, next)
	if len(p.Enter) != 1 || p.Enter[0].Key != "c" {
		t.Errorf("enter = %+v, want [c]", p.Enter)
	}
	if len(p.Update) != 1 || p.Update[0].Key != "b" || p.Update[0].W != 2 {
		t.Errorf("update = %+v, want [b]", p.Update)
	}
	if !reflect.DeepEqual(p.Exit, []string{"a"}) {
		t.Errorf("exit = %v, want [a]", p.Exit)
	}
	if p.Transforms[GroupDates] != (Affine{K: 2, X: -10}) {
		t.Errorf("transforms = %v", p.Transforms)
	}
	// the source scene is untouched
	if s, _ := prev.Get("b"); s.W != 1 {
		t.Errorf("clone leaked into original: %+v", s)
	}
}

func TestWriteSVG_EscapesText(t *testing.T) {
	series := scenario()
	scales, err := scale.Derive(series, layout, scale.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions
	opts.Title = "S&P <500>"
	sc := NewRenderer(layout, opts).Render(series, scales)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, sc, layout, DefaultStyle); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "S&amp;P &lt;500&gt;") {
		t.Error("title text was not escaped")
	}
}

func TestAxes(t *testing.T) {
	r, scales, sc := mustScene(t, yearSeries(365))
	labels := 0
	for _, s := range sc.Group(GroupXAxis) {
		if s.Kind == Text {
			labels++
			if _, err := time.Parse("Jan 2006", s.Text); err != nil {
				t.Errorf("rest label %q is not month-level: %v", s.Text, err)
			}
		}
	}
	if labels == 0 {
		t.Fatal("expected x axis labels")
	}

	for _, s := range r.XAxis(scales.X.Rescale(5, 0), true) {
		if s.Kind == Text {
			if _, err := time.Parse("02 Jan", s.Text); err != nil {
				t.Errorf("zoomed label %q is not day-level: %v", s.Text, err)
			}
		}
	}

	for _, s := range sc.Group(GroupYAxis) {
		if s.Class == ClassGrid && (s.X1 != 0 || s.X2 != layout.PlotWidth()) {
			t.Errorf("grid line %s should span the plot, got %v..%v", s.Key, s.X1, s.X2)
		}
	}
}

func TestWriteSVG(t *testing.T) {
	_, _, sc := mustScene(t, scenario())
	sc.SetTransform(GroupDates, Affine{K: 2, X: -1050})

	var buf bytes.Buffer
	if err := WriteSVG(&buf, sc, layout, DefaultStyle); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document: %.80s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 1100 600"`) {
		t.Errorf("expected 1100x600 surface")
	}
}
