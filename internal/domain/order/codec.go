package order

import (
	"encoding/json"

	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
)

// EncodeDraft сериализует черновик для хранилища.
func EncodeDraft(d Draft) ([]byte, error) { return json.Marshal(d) }

// DecodeDraft разбирает сохранённый черновик. Битый блоб не ошибка: возвращается
// пустой черновик и ok=false. Недостающие поля добиваются значениями по умолчанию.
func DecodeDraft(raw []byte) (Draft, bool) {
	if len(raw) == 0 {
		return blankDraft(), false
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return blankDraft(), false
	}
	return sanitize(d, raw), true
}

func blankDraft() Draft {
	return Draft{
		Mechanics: []string{},
		Wheels:    eligibility.DefaultWheelsConfig(),
		Materials: []MaterialLine{},
		Services:  []ServiceLine{},
	}
}

func sanitize(d Draft, raw []byte) Draft {
	if d.Mechanics == nil {
		d.Mechanics = []string{}
	}
	if d.Materials == nil {
		d.Materials = []MaterialLine{}
	}
	if d.Services == nil {
		d.Services = []ServiceLine{}
	}

	var shape struct {
		Wheels *struct {
			Radius *int `json:"radius"`
			Count  *int `json:"qty"`
		} `json:"wheels"`
	}
	_ = json.Unmarshal(raw, &shape)
	def := eligibility.DefaultWheelsConfig()
	switch {
	case shape.Wheels == nil:
		d.Wheels = def
	default:
		if shape.Wheels.Radius == nil || d.Wheels.Radius <= 0 {
			d.Wheels.Radius = def.Radius
		}
		if shape.Wheels.Count == nil {
			d.Wheels.Count = def.Count
		}
		d.Wheels.Count = eligibility.ClampCount(d.Wheels.Count)
	}

	for i := range d.Materials {
		if d.Materials[i].Qty < 0 {
			d.Materials[i].Qty = 0
		}
	}
	for i := range d.Services {
		if d.Services[i].Qty < 0 {
			d.Services[i].Qty = 0
		}
	}
	return d
}
