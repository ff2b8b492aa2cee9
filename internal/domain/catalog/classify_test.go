package catalog

import (
	"strings"
	"testing"
	"time"
)

func TestIsConstant(t *testing.T) {
	cases := []struct {
		s    Service
		want bool
	}{
		{Service{Name: "Технологическая мойка"}, true},
		{Service{Name: "Мойка", Family: FamilyWash}, true},
		{Service{Radius: Exact(17)}, false},
		{Service{Category: CategoryLight}, false},
		{Service{LowProfile: true}, false},
		{Service{RunFlat: true}, false},
	}
	for i, tc := range cases {
		if got := IsConstant(tc.s); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestEnsureTechWash(t *testing.T) {
	in := []Service{{ID: "1", Name: "Монтаж R17", Radius: Exact(17)}}
	out := EnsureTechWash(in, 0, "")
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	w := out[1]
	if w.Name != TechWashName || w.Price != DefaultTechWashPrice || !IsConstant(w) || w.Family != FamilyWash {
		t.Fatalf("unexpected wash: %+v", w)
	}
	if !strings.HasPrefix(string(w.ID), techWashIDPrefix) {
		t.Fatalf("id %q", w.ID)
	}
	if len(in) != 1 {
		t.Fatal("input mutated")
	}

	again := EnsureTechWash(out, 300, "")
	if len(again) != 2 {
		t.Fatalf("second call appended: len = %d", len(again))
	}
}

func TestEnsureTechWashReusesID(t *testing.T) {
	prev := EnsureTechWash([]Service{{ID: "1", Name: "Монтаж R17"}}, 0, "")
	id := SynthesizedTechWashID(prev)
	if id == "" || id != prev[1].ID {
		t.Fatalf("synthesized id = %q", id)
	}

	out := EnsureTechWash([]Service{{ID: "2", Name: "Демонтаж R17"}}, 0, id)
	if out[1].ID != id {
		t.Fatalf("id changed: %q -> %q", id, out[1].ID)
	}

	// занятый id не переиспользуем
	out = EnsureTechWash([]Service{{ID: id, Name: "Демонтаж R17", Radius: Exact(17)}}, 0, id)
	if len(out) != 2 || out[1].ID == id {
		t.Fatalf("duplicate id reused: %+v", out)
	}

	if got := SynthesizedTechWashID([]Service{{ID: "w", Name: TechWashName}}); got != "" {
		t.Fatalf("wash from source reported as synthesized: %q", got)
	}
}

func TestEnsureTechWashIgnoresRestrictedWash(t *testing.T) {
	in := []Service{{ID: "1", Name: "Технологическая мойка джип", Category: CategoryJeep}}
	out := EnsureTechWash(in, 250, "")
	if len(out) != 2 || out[1].Price != 250 {
		t.Fatalf("constant wash not added: %+v", out)
	}
}

func TestCanonical(t *testing.T) {
	e := NewExtractor()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Snapshot{
		Subdivision: "Шиномонтаж",
		Mechanics:   []string{" Иванов ", "", "Иванов", "Петров"},
		Services:    []Service{{ID: "1", Name: "Монтаж R17 light"}},
	}
	out, err := e.Canonical(in, "", 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(out.Mechanics, ","); got != "Иванов,Петров" {
		t.Fatalf("mechanics = %q", got)
	}
	if out.Services[0].Radius != Exact(17) || out.Services[0].Category != CategoryLight {
		t.Fatalf("not normalized: %+v", out.Services[0])
	}
	if !HasTechWash(out.Services) {
		t.Fatal("tech wash missing")
	}
	if !out.LoadedAt.Equal(now) || out.Subdivision != "Шиномонтаж" {
		t.Fatalf("meta: %+v", out)
	}
	if in.Services[0].Radius.IsSet() {
		t.Fatal("input mutated")
	}

	dup := Snapshot{Services: []Service{{ID: "1", Name: "a"}, {ID: "1", Name: "b"}}}
	if _, err := e.Canonical(dup, "", 0, now); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
