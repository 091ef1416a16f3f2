package unify

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// termSpec decodes one node of testdata/unify_vectors.yaml's term
// tree into a Term; exactly one of Var/Atom/Seq is set per node.
type termSpec struct {
	Var  *int     `yaml:"var"`
	Atom *string  `yaml:"atom"`
	Seq  *seqSpec `yaml:"seq"`
}

type seqSpec struct {
	Symbol string     `yaml:"symbol"`
	Args   []termSpec `yaml:"args"`
}

func (s termSpec) build() Term {
	switch {
	case s.Var != nil:
		return Variable{Ordinal: *s.Var}
	case s.Atom != nil:
		return Atom{Symbol: *s.Atom}
	case s.Seq != nil:
		args := make([]Term, len(s.Seq.Args))
		for i, a := range s.Seq.Args {
			args[i] = a.build()
		}
		return Sequence{Symbol: s.Seq.Symbol, Args: args}
	default:
		panic("unify_vectors.yaml: empty term node")
	}
}

type pairSpec struct {
	Left  termSpec `yaml:"left"`
	Right termSpec `yaml:"right"`
}

type caseSpec struct {
	Name           string           `yaml:"name"`
	Pairs          []pairSpec       `yaml:"pairs"`
	ExpectConflict bool             `yaml:"expectConflict"`
	ExpectCycle    bool             `yaml:"expectCycle"`
	CycleVariable  int              `yaml:"cycleVariable"`
	ExpectBindings map[int]termSpec `yaml:"expectBindings"`
}

type fixture struct {
	Cases []caseSpec `yaml:"cases"`
}

func loadFixture(t *testing.T) fixture {
	t.Helper()
	data, err := os.ReadFile("../../testdata/unify_vectors.yaml")
	if err != nil {
		t.Fatalf("reading unify_vectors.yaml: %v", err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		t.Fatalf("parsing unify_vectors.yaml: %v", err)
	}
	return f
}

func TestUnifyVectors(t *testing.T) {
	f := loadFixture(t)
	for _, c := range f.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			pairs := make([]Pair, len(c.Pairs))
			for i, p := range c.Pairs {
				pairs[i] = NewPair(p.Left.build(), p.Right.build())
			}
			sub, fail := Unify(pairs, nil, nil)

			switch {
			case c.ExpectConflict:
				if _, ok := fail.(*Conflict); !ok {
					t.Fatalf("expected *Conflict, got %v", fail)
				}
			case c.ExpectCycle:
				cycle, ok := fail.(*Cycle)
				if !ok {
					t.Fatalf("expected *Cycle, got %v", fail)
				}
				if cycle.Variable.Ordinal != c.CycleVariable {
					t.Errorf("Cycle.Variable = %d, want %d", cycle.Variable.Ordinal, c.CycleVariable)
				}
			default:
				if fail != nil {
					t.Fatalf("unify failed unexpectedly: %v", fail)
				}
				for ordinal, want := range c.ExpectBindings {
					bound, ok := sub.Lookup(Variable{Ordinal: ordinal})
					if !ok {
						t.Fatalf("$%d is unbound", ordinal)
					}
					got := sub.Apply(bound)
					wantTerm := want.build()
					if !equalTerms(got, wantTerm) {
						t.Errorf("$%d = %s, want %s", ordinal, got, wantTerm)
					}
				}
			}
		})
	}
}
