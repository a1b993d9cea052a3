package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// Module is a single unit of study. The relation lists name other modules
// by their bare name; omitted lists decode to empty slices so callers never
// have to nil-check them.
type Module struct {
	Name string   `json:"name" bson:"name"`
	Pre  []string `json:"pre,omitempty" bson:"pre,omitempty"`   // must be completed before this module
	Co   []string `json:"co,omitempty" bson:"co,omitempty"`     // must be taken in the same year
	Sug  []string `json:"sug,omitempty" bson:"sug,omitempty"`   // advisory, non-blocking
	Excl []string `json:"excl,omitempty" bson:"excl,omitempty"` // mutually exclusive with this module
}

// Year is an ordinal grouping of modules. Year 0 is the first year of a
// programme; the index scopes the corequisite relation.
type Year []Module

// Programme is a named course of study: ordered years of modules, an
// optional set of required module names, and optional includes naming other
// programmes whose years are merged in.
type Programme struct {
	Name     string
	Years    []Year
	Required []string
	Include  []string

	yearmap map[string]int
}

// programmeSpec is the object form of a programme in the input file.
// The shorthand form is a bare array of years.
type programmeSpec struct {
	Years    []Year   `json:"years"`
	Required []string `json:"required,omitempty"`
	Include  []string `json:"include,omitempty"`
}

// Catalog is the full decoded input: every programme, sorted by name so
// iteration is deterministic regardless of JSON object order.
type Catalog struct {
	Programmes []Programme
}

// Load reads and decodes a modules file from disk.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	cat, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cat, nil
}

// Read decodes a modules file from r. Each programme value is either a bare
// array of years or an object with "years", "required", and "include" keys:
//
//	{
//	  "CS": [[{"name": "M1"}, {"name": "M2", "pre": ["M1"]}]],
//	  "CS+Maths": {"years": [[]], "include": ["CS"]}
//	}
//
// Includes are resolved before the catalog is returned.
func Read(r io.Reader) (*Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cat := &Catalog{Programmes: make([]Programme, 0, len(raw))}
	for name, msg := range raw {
		p, err := decodeProgramme(name, msg)
		if err != nil {
			return nil, err
		}
		cat.Programmes = append(cat.Programmes, p)
	}
	slices.SortFunc(cat.Programmes, func(a, b Programme) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	if err := cat.resolveIncludes(); err != nil {
		return nil, err
	}
	for i := range cat.Programmes {
		cat.Programmes[i].buildYearmap()
	}
	return cat, nil
}

func decodeProgramme(name string, msg json.RawMessage) (Programme, error) {
	p := Programme{Name: name}

	trimmed := bytes.TrimLeft(msg, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := strictUnmarshal(msg, &p.Years); err != nil {
			return Programme{}, fmt.Errorf("programme %s: %w", name, err)
		}
	} else {
		var spec programmeSpec
		if err := strictUnmarshal(msg, &spec); err != nil {
			return Programme{}, fmt.Errorf("programme %s: %w", name, err)
		}
		p.Years = spec.Years
		p.Required = spec.Required
		p.Include = spec.Include
	}

	for y := range p.Years {
		for m := range p.Years[y] {
			if p.Years[y][m].Name == "" {
				return Programme{}, fmt.Errorf("programme %s: year %d: module without a name", name, y+1)
			}
			p.Years[y][m].normalize()
		}
	}
	return p, nil
}

// strictUnmarshal decodes msg into v, rejecting unknown fields so typos in
// relation list names surface as errors instead of silently empty lists.
func strictUnmarshal(msg json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// normalize replaces omitted relation lists with empty slices.
func (m *Module) normalize() {
	if m.Pre == nil {
		m.Pre = []string{}
	}
	if m.Co == nil {
		m.Co = []string{}
	}
	if m.Sug == nil {
		m.Sug = []string{}
	}
	if m.Excl == nil {
		m.Excl = []string{}
	}
}

// Programme returns the programme with the given name.
func (c *Catalog) Programme(name string) (*Programme, bool) {
	for i := range c.Programmes {
		if c.Programmes[i].Name == name {
			return &c.Programmes[i], true
		}
	}
	return nil, false
}

// resolveIncludes merges each included programme's years (index-wise) and
// required set into the including programme. Includes may chain but must
// not form a cycle.
func (c *Catalog) resolveIncludes() error {
	const (
		unvisited = iota
		resolving
		done
	)
	state := make(map[string]int, len(c.Programmes))

	var resolve func(p *Programme) error
	resolve = func(p *Programme) error {
		switch state[p.Name] {
		case done:
			return nil
		case resolving:
			return fmt.Errorf("programme %s: include cycle", p.Name)
		}
		state[p.Name] = resolving
		for _, incName := range p.Include {
			inc, ok := c.Programme(incName)
			if !ok {
				return fmt.Errorf("programme %s: includes unknown programme %q", p.Name, incName)
			}
			if err := resolve(inc); err != nil {
				return err
			}
			p.merge(inc)
		}
		state[p.Name] = done
		return nil
	}

	for i := range c.Programmes {
		if err := resolve(&c.Programmes[i]); err != nil {
			return err
		}
	}
	return nil
}

// merge folds other's years and required set into p. Years align by index;
// a module already present by name in the target year is not duplicated.
func (p *Programme) merge(other *Programme) {
	for len(p.Years) < len(other.Years) {
		p.Years = append(p.Years, Year{})
	}
	for y, year := range other.Years {
		for _, m := range year {
			if !p.Years[y].contains(m.Name) {
				p.Years[y] = append(p.Years[y], m)
			}
		}
	}
	for _, name := range other.Required {
		if !slices.Contains(p.Required, name) {
			p.Required = append(p.Required, name)
		}
	}
}

func (y Year) contains(name string) bool {
	for _, m := range y {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (p *Programme) buildYearmap() {
	p.yearmap = make(map[string]int)
	for y, year := range p.Years {
		for _, m := range year {
			if _, ok := p.yearmap[m.Name]; !ok {
				p.yearmap[m.Name] = y
			}
		}
	}
}

// YearOf returns the zero-based year index of the named module.
func (p *Programme) YearOf(name string) (int, bool) {
	if p.yearmap == nil {
		p.buildYearmap()
	}
	y, ok := p.yearmap[name]
	return y, ok
}

// IsRequired reports whether the named module is in the programme's
// required set.
func (p *Programme) IsRequired(name string) bool {
	return slices.Contains(p.Required, name)
}

// ModuleCount returns the number of modules across all years.
func (p *Programme) ModuleCount() int {
	n := 0
	for _, y := range p.Years {
		n += len(y)
	}
	return n
}
