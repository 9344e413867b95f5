package scene

import (
	"slices"

	"github.com/lixenwraith/weatherfx/render"
)

// Group is an ordered container; child groups with larger Depth draw first
type Group struct {
	Name    string
	Depth   float64
	Visible bool

	children []Object
	sorted   bool
	disposed bool
}

// NewGroup creates an empty visible group
func NewGroup(name string) *Group {
	return &Group{Name: name, Visible: true, sorted: true}
}

// Add appends objects, ignoring nil
func (g *Group) Add(objs ...Object) {
	for _, o := range objs {
		if o == nil {
			continue
		}
		g.children = append(g.children, o)
	}
	g.sorted = false
}

// Remove detaches an object without disposing it, returns false if absent
func (g *Group) Remove(obj Object) bool {
	i := slices.Index(g.children, obj)
	if i < 0 {
		return false
	}
	g.children = slices.Delete(g.children, i, i+1)
	return true
}

// Clear detaches all children without disposing them
func (g *Group) Clear() {
	clear(g.children)
	g.children = g.children[:0]
}

// Len returns the number of direct children
func (g *Group) Len() int {
	return len(g.children)
}

// Children returns a copy of the direct children
func (g *Group) Children() []Object {
	return slices.Clone(g.children)
}

func depthOf(o Object) float64 {
	if sub, ok := o.(*Group); ok {
		return sub.Depth
	}
	return 0
}

// Draw renders children back to front
func (g *Group) Draw(buf *render.Buffer, cam *Camera) {
	if !g.Visible || g.disposed {
		return
	}
	if !g.sorted {
		slices.SortStableFunc(g.children, func(a, b Object) int {
			da, db := depthOf(a), depthOf(b)
			switch {
			case da > db:
				return -1
			case da < db:
				return 1
			}
			return 0
		})
		g.sorted = true
	}
	for _, c := range g.children {
		c.Draw(buf, cam)
	}
}

// Dispose releases every child recursively, safe to call repeatedly
func (g *Group) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	for _, c := range g.children {
		c.Dispose()
	}
	g.Clear()
}

// Disposed reports whether Dispose has run
func (g *Group) Disposed() bool {
	return g.disposed
}
