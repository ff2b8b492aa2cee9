package catalog

import "testing"

func TestNormalize(t *testing.T) {
	e := NewExtractor()
	cases := []struct {
		name string
		want Service
	}{
		{"2 Демонтаж шины R17 light", Service{Radius: Exact(17), Category: CategoryLight}},
		{"Балансировка R16-18 джип", Service{Radius: Range(16, 18), Category: CategoryJeep}},
		{"Монтаж R20 и более", Service{Radius: Minimum(20)}},
		{"Монтаж шины R18 газель", Service{Radius: Exact(18), Category: CategoryJeep}},
		{"Монтаж R19 низкий профиль", Service{Radius: Exact(19), LowProfile: true}},
		{"Монтаж R18 RunFlat", Service{Radius: Exact(18), RunFlat: true}},
		{"Технологическая мойка", Service{Family: FamilyWash}},
		{"Шиноремонт жгутом", Service{}},
	}
	for _, tc := range cases {
		got := e.Normalize(Service{Name: tc.name})
		tc.want.Name = tc.name
		if got != tc.want {
			t.Fatalf("%q: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeKeepsPresetFields(t *testing.T) {
	e := NewExtractor()
	in := Service{Name: "Монтаж R17 light", Radius: Exact(15), Category: CategoryJeep}
	got := e.Normalize(in)
	if got.Radius != Exact(15) || got.Category != CategoryJeep {
		t.Fatalf("preset fields overwritten: %+v", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	e := NewExtractor()
	for _, s := range append(DefaultServices(),
		Service{ID: "x1", Name: "3 Балансировка R16-18 джип низкий профиль runflat"},
		Service{ID: "x2", Name: "Технологическая мойка джип"},
		Service{ID: "x3", Name: "Монтаж R21 и более"},
	) {
		once := e.Normalize(s)
		if twice := e.Normalize(once); twice != once {
			t.Fatalf("%q: not idempotent: %+v vs %+v", s.Name, once, twice)
		}
	}
}

func TestCustomWashMarkers(t *testing.T) {
	e := NewExtractor("мойка колеса")
	got := e.Normalize(Service{Name: "Мойка колеса R17 джип"})
	if got.Family != FamilyWash {
		t.Fatalf("family = %q, want wash", got.Family)
	}
	if got := e.Normalize(Service{Name: "Технологическая мойка"}); got.Family == FamilyWash {
		t.Fatal("default marker must be replaced by custom ones")
	}
}
