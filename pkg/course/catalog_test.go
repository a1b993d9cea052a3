package course

import (
	"strings"
	"testing"
)

func TestRead_Shorthand(t *testing.T) {
	input := `{
		"CS": [
			[{"name": "M1"}, {"name": "M2", "pre": ["M1"]}],
			[{"name": "M3", "co": ["M4"]}, {"name": "M4"}]
		]
	}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	p, ok := cat.Programme("CS")
	if !ok {
		t.Fatal("programme CS not found")
	}
	if len(p.Years) != 2 {
		t.Fatalf("years = %d, want 2", len(p.Years))
	}
	if p.ModuleCount() != 4 {
		t.Errorf("ModuleCount() = %d, want 4", p.ModuleCount())
	}

	m2 := p.Years[0][1]
	if m2.Name != "M2" {
		t.Errorf("module name = %q, want M2", m2.Name)
	}
	if len(m2.Pre) != 1 || m2.Pre[0] != "M1" {
		t.Errorf("pre = %v, want [M1]", m2.Pre)
	}
}

func TestRead_OmittedListsAreEmpty(t *testing.T) {
	input := `{"CS": [[{"name": "M1"}]]}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	m := cat.Programmes[0].Years[0][0]
	for name, list := range map[string][]string{"pre": m.Pre, "co": m.Co, "sug": m.Sug, "excl": m.Excl} {
		if list == nil {
			t.Errorf("%s list is nil, want empty slice", name)
		}
		if len(list) != 0 {
			t.Errorf("%s list = %v, want empty", name, list)
		}
	}
}

func TestRead_ObjectForm(t *testing.T) {
	input := `{
		"CS": {
			"years": [[{"name": "M1"}]],
			"required": ["M1"]
		}
	}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	p := cat.Programmes[0]
	if !p.IsRequired("M1") {
		t.Error("M1 should be required")
	}
	if p.IsRequired("M2") {
		t.Error("M2 should not be required")
	}
}

func TestRead_Include(t *testing.T) {
	input := `{
		"Base": {
			"years": [[{"name": "Intro"}], [{"name": "Advanced", "pre": ["Intro"]}]],
			"required": ["Intro"]
		},
		"Joint": {
			"years": [[{"name": "Extra"}]],
			"include": ["Base"]
		}
	}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	p, ok := cat.Programme("Joint")
	if !ok {
		t.Fatal("programme Joint not found")
	}
	if len(p.Years) != 2 {
		t.Fatalf("years = %d, want 2", len(p.Years))
	}
	if !p.Years[0].contains("Extra") || !p.Years[0].contains("Intro") {
		t.Errorf("year 1 = %v, want Extra and Intro", p.Years[0])
	}
	if !p.Years[1].contains("Advanced") {
		t.Errorf("year 2 = %v, want Advanced", p.Years[1])
	}
	if !p.IsRequired("Intro") {
		t.Error("required set should be inherited from Base")
	}
}

func TestRead_IncludeChain(t *testing.T) {
	input := `{
		"A": [[{"name": "M1"}]],
		"B": {"years": [[]], "include": ["A"]},
		"C": {"years": [[]], "include": ["B"]}
	}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	p, _ := cat.Programme("C")
	if !p.Years[0].contains("M1") {
		t.Errorf("C should contain M1 via B, got %v", p.Years[0])
	}
}

func TestRead_IncludeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "UnknownInclude",
			input: `{"A": {"years": [[]], "include": ["Missing"]}}`,
		},
		{
			name: "IncludeCycle",
			input: `{
				"A": {"years": [[]], "include": ["B"]},
				"B": {"years": [[]], "include": ["A"]}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("Read should fail")
			}
		})
	}
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NotJSON", input: `not json`},
		{name: "MissingName", input: `{"CS": [[{"pre": ["M1"]}]]}`},
		{name: "UnknownField", input: `{"CS": [[{"name": "M1", "prereq": ["M2"]}]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("Read should fail")
			}
		})
	}
}

func TestProgrammesSortedByName(t *testing.T) {
	input := `{
		"Zoology": [[{"name": "Z1"}]],
		"Art": [[{"name": "A1"}]],
		"Maths": [[{"name": "M1"}]]
	}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []string{"Art", "Maths", "Zoology"}
	for i, p := range cat.Programmes {
		if p.Name != want[i] {
			t.Errorf("programme[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestYearOf(t *testing.T) {
	input := `{"CS": [[{"name": "M1"}], [{"name": "M2"}]]}`

	cat, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	p := cat.Programmes[0]
	if y, ok := p.YearOf("M2"); !ok || y != 1 {
		t.Errorf("YearOf(M2) = %d, %v; want 1, true", y, ok)
	}
	if _, ok := p.YearOf("Missing"); ok {
		t.Error("YearOf(Missing) should report false")
	}
}
