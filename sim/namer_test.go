package sim

import (
	"regexp"
	"testing"
)

var namePattern = regexp.MustCompile(`^[A-Z][a-z]+-[A-Z]{1,2}[0-9]{4}$`)

func TestNamerFormat(t *testing.T) {
	n := NewNamer(42)
	for i := 0; i < 100; i++ {
		name := n.Name()
		if !namePattern.MatchString(name) {
			t.Fatalf("Name() = %q, does not match %s", name, namePattern)
		}
	}
}

func TestNamerIsSeeded(t *testing.T) {
	a := NewNamer(7)
	b := NewNamer(7)
	for i := 0; i < 20; i++ {
		if na, nb := a.Name(), b.Name(); na != nb {
			t.Fatalf("name %d differs for the same seed: %q vs %q", i, na, nb)
		}
	}
}

func TestEngineNamesFollowSeed(t *testing.T) {
	e1 := NewEngineWithSeed(99)
	e2 := NewEngineWithSeed(99)
	b1 := e1.AddBody(Attributes{})
	b2 := e2.AddBody(Attributes{})
	if b1.Name != b2.Name {
		t.Errorf("names differ for the same seed: %q vs %q", b1.Name, b2.Name)
	}
}
