package catalog

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRadiusJSON(t *testing.T) {
	cases := []struct {
		r    Radius
		wire string
	}{
		{Radius{}, `null`},
		{Exact(17), `17`},
		{Range(16, 18), `"16-18"`},
		{Minimum(20), `"20 и более"`},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.r)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != tc.wire {
			t.Fatalf("marshal %+v = %s, want %s", tc.r, b, tc.wire)
		}
		var back Radius
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatal(err)
		}
		if back != tc.r {
			t.Fatalf("unmarshal %s = %+v, want %+v", b, back, tc.r)
		}
	}
}

func TestRadiusUnmarshalTolerant(t *testing.T) {
	cases := map[string]Radius{
		`"R17"`:       Exact(17),
		`"17"`:        Exact(17),
		`" 16 - 18 "`: Range(16, 18),
		`"что-то"`:    {},
		`""`:          {},
		`17.0`:        Exact(17),
		`17.5`:        {},
	}
	for in, want := range cases {
		var r Radius
		if err := json.Unmarshal([]byte(in), &r); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if r != want {
			t.Fatalf("%s: got %+v, want %+v", in, r, want)
		}
	}
}

func TestIDAcceptsNumbers(t *testing.T) {
	var items []Material
	if err := json.Unmarshal([]byte(`[{"id":5,"name":"a","price":1},{"id":"7","name":"b","price":2},{"id":null,"name":"c"}]`), &items); err != nil {
		t.Fatal(err)
	}
	if items[0].ID != "5" || items[1].ID != "7" || items[2].ID != "" {
		t.Fatalf("ids: %+v", items)
	}
}

func TestServiceFromSource(t *testing.T) {
	var s Service
	raw := `{"id":"12","name":"Монтаж","price":300,"radius":"20 и более","carType":"jeep","runflat":true}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatal(err)
	}
	if s.Radius != Minimum(20) || s.Category != CategoryJeep || !s.RunFlat || s.Price != 300 {
		t.Fatalf("got %+v", s)
	}
}

func TestSnapshotValidate(t *testing.T) {
	ok := Snapshot{
		Materials: []Material{{ID: "1"}},
		Services:  []Service{{ID: "1"}},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("materials and services have separate id spaces: %v", err)
	}
	bad := Snapshot{Materials: []Material{{ID: "1"}, {ID: "1"}}}
	if err := bad.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v", err)
	}
}
