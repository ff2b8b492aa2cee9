package catalog

import (
	"testing"
)

func TestXLSXExportImport(t *testing.T) {
	in := Snapshot{
		Mechanics: []string{"Иванов Иван", "Петров Пётр"},
		Materials: []Material{{ID: "1", Name: "Грузик", Price: 50.5}},
		Services: []Service{
			{ID: "1", Name: "Монтаж R17 light", Price: 250, Radius: Exact(17), Category: CategoryLight},
			{ID: "2", Name: "Балансировка", Price: 300, Radius: Range(16, 18), Category: CategoryJeep, LowProfile: true},
			{ID: "3", Name: "Монтаж", Price: 400, Radius: Minimum(20), RunFlat: true},
			{ID: "4", Name: "Технологическая мойка", Price: 200},
		},
	}
	data, err := WriteXLSX(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ReadXLSX(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Mechanics) != 2 || out.Mechanics[1] != "Петров Пётр" {
		t.Fatalf("mechanics: %v", out.Mechanics)
	}
	if len(out.Materials) != 1 || out.Materials[0] != in.Materials[0] {
		t.Fatalf("materials: %+v", out.Materials)
	}
	if len(out.Services) != len(in.Services) {
		t.Fatalf("services: %d", len(out.Services))
	}
	for i := range in.Services {
		// семейство в файл не пишется, его восстанавливает нормализация
		if out.Services[i] != in.Services[i] {
			t.Fatalf("service %d: got %+v, want %+v", i, out.Services[i], in.Services[i])
		}
	}
}

func TestReadXLSXGarbage(t *testing.T) {
	if _, err := ReadXLSX([]byte("not an excel file")); err == nil {
		t.Fatal("expected error")
	}
}
