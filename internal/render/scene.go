package render

// Kind is the primitive a shape is drawn with.
type Kind int

const (
	Rect Kind = iota
	Line
	Text
)

// Group identifies a layer of the surface. Each group has a fixed origin and
// an optional affine transform.
type Group string

const (
	GroupTitle Group = "title"
	GroupDates Group = "dates"
	GroupMouse Group = "mouseLines"
	GroupXAxis Group = "xAxis"
	GroupYAxis Group = "yAxis"
)

// drawOrder is bottom to top.
var drawOrder = []Group{GroupTitle, GroupDates, GroupMouse, GroupXAxis, GroupYAxis}

// Anchor is the horizontal alignment of a text shape.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Shape is one drawing command, identified by Key across redraws.
type Shape struct {
	Key   string
	Group Group
	Kind  Kind
	Class string

	// Rect: X, Y, W, H. Text: X, Y is the baseline anchor point.
	X, Y, W, H float64
	// Line endpoints.
	X1, Y1, X2, Y2 float64

	Text    string
	Anchor  Anchor
	Opacity float64
	Hidden  bool
}

// Contains reports whether a point in group coordinates lies inside a rect shape.
func (s Shape) Contains(x, y float64) bool {
	if s.Kind != Rect {
		return false
	}
	return x >= s.X && x <= s.X+s.W && y >= s.Y && y <= s.Y+s.H
}

// Affine is a uniform scale followed by a translation: p' = K*p + (X, Y).
type Affine struct {
	K, X, Y float64
}

// Identity leaves coordinates untouched.
var Identity = Affine{K: 1}

// Apply maps a group-local point to its parent.
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.K*x + a.X, a.K*y + a.Y
}

// Invert maps a parent point back into the group.
func (a Affine) Invert(x, y float64) (float64, float64) {
	return (x - a.X) / a.K, (y - a.Y) / a.K
}

// Scene is the retained set of shapes for one surface.
type Scene struct {
	shapes     []Shape
	index      map[string]int
	transforms map[Group]Affine
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{index: map[string]int{}, transforms: map[Group]Affine{}}
}

// Add appends a shape, or replaces the shape already stored under its key.
func (s *Scene) Add(shapes ...Shape) {
	for _, sh := range shapes {
		if i, ok := s.index[sh.Key]; ok {
			s.shapes[i] = sh
			continue
		}
		s.index[sh.Key] = len(s.shapes)
		s.shapes = append(s.shapes, sh)
	}
}

// Get looks a shape up by key.
func (s *Scene) Get(key string) (Shape, bool) {
	i, ok := s.index[key]
	if !ok {
		return Shape{}, false
	}
	return s.shapes[i], true
}

// Len is the number of shapes.
func (s *Scene) Len() int { return len(s.shapes) }

// Shapes returns every shape in insertion order.
func (s *Scene) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Group returns the shapes of one group in insertion order.
func (s *Scene) Group(g Group) []Shape {
	var out []Shape
	for _, sh := range s.shapes {
		if sh.Group == g {
			out = append(out, sh)
		}
	}
	return out
}

// Transform returns the group's transform, identity when unset.
func (s *Scene) Transform(g Group) Affine {
	if a, ok := s.transforms[g]; ok {
		return a
	}
	return Identity
}

// SetTransform moves a whole group without touching its shapes.
func (s *Scene) SetTransform(g Group, a Affine) {
	if a == Identity {
		delete(s.transforms, g)
		return
	}
	s.transforms[g] = a
}

// ReplaceGroup drops every shape of a group and adds the given ones.
func (s *Scene) ReplaceGroup(g Group, shapes []Shape) {
	kept := s.shapes[:0:0]
	for _, sh := range s.shapes {
		if sh.Group != g {
			kept = append(kept, sh)
		}
	}
	s.shapes = kept
	s.index = make(map[string]int, len(kept)+len(shapes))
	for i, sh := range s.shapes {
		s.index[sh.Key] = i
	}
	s.Add(shapes...)
}

// Clone returns an independent copy.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		shapes:     make([]Shape, len(s.shapes)),
		index:      make(map[string]int, len(s.index)),
		transforms: make(map[Group]Affine, len(s.transforms)),
	}
	copy(c.shapes, s.shapes)
	for k, v := range s.index {
		c.index[k] = v
	}
	for k, v := range s.transforms {
		c.transforms[k] = v
	}
	return c
}

// Patch is the difference between two scenes.
type Patch struct {
	Enter      []Shape
	Update     []Shape
	Exit       []string
	Transforms map[Group]Affine
}

// Empty reports whether applying the patch would change nothing.
func (p Patch) Empty() bool {
	return len(p.Enter) == 0 && len(p.Update) == 0 && len(p.Exit) == 0 && len(p.Transforms) == 0
}

// Reconcile diffs next against prev by shape key: new keys enter, changed
// shapes update, missing keys exit. Changed group transforms are reported too.
func Reconcile(prev, next *Scene) Patch {
	var p Patch
	if prev == nil {
		prev = NewScene()
	}
	for _, sh := range next.shapes {
		old, ok := prev.Get(sh.Key)
		switch {
		case !ok:
			p.Enter = append(p.Enter, sh)
		case old != sh:
			p.Update = append(p.Update, sh)
		}
	}
	for _, sh := range prev.shapes {
		if _, ok := next.index[sh.Key]; !ok {
			p.Exit = append(p.Exit, sh.Key)
		}
	}
	for _, g := range drawOrder {
		if a := next.Transform(g); a != prev.Transform(g) {
			if p.Transforms == nil {
				p.Transforms = map[Group]Affine{}
			}
			p.Transforms[g] = a
		}
	}
	return p
}
