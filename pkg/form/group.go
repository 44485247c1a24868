package form

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/prefs"
)

// Group is a named, collapsible cluster of fields. Groups are a pure display
// concern: a field inside a collapsed group is still validated and still
// participates in visibility conditions of other fields.
type Group struct {
	Name      string
	Label     string
	Fields    []string
	collapsed bool

	prefs    prefs.Store
	prefsKey string
}

// AddGroup declares a group over existing field names. The collapsed state is
// restored from the preference store when one was remembered.
func (f *Form) AddGroup(name, label string, fieldNames []string, collapsed bool) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("form: group name is required")
	}
	for _, g := range f.groups {
		if g.Name == name {
			return nil, fmt.Errorf("form: duplicate group %q", name)
		}
	}
	for _, fn := range fieldNames {
		if f.byName[fn] == nil {
			return nil, fmt.Errorf("form: group %q references unknown field %q", name, fn)
		}
	}

	g := &Group{
		Name:      name,
		Label:     label,
		Fields:    fieldNames,
		collapsed: collapsed,
		prefs:     f.prefs,
		prefsKey:  prefs.Key(f.name, "group", name, "collapsed"),
	}
	if remembered, ok := g.prefs.Get(g.prefsKey); ok {
		g.collapsed = remembered == "1"
	}
	f.groups = append(f.groups, g)
	return g, nil
}

// Groups returns the declared groups in order.
func (f *Form) Groups() []*Group {
	out := make([]*Group, len(f.groups))
	copy(out, f.groups)
	return out
}

// Group returns the named group, nil when absent.
func (f *Form) Group(name string) *Group {
	for _, g := range f.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Collapsed reports the display state.
func (g *Group) Collapsed() bool { return g.collapsed }

// SetCollapsed records the display state and remembers it.
func (g *Group) SetCollapsed(collapsed bool) {
	g.collapsed = collapsed
	state := "0"
	if collapsed {
		state = "1"
	}
	g.prefs.Set(g.prefsKey, state)
}

// Toggle flips the display state.
func (g *Group) Toggle() { g.SetCollapsed(!g.collapsed) }
