package order

import (
	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
)

// ApplyCounts сколько позиций затронула массовая установка количества.
type ApplyCounts struct {
	Materials int
	Constant  int
	Variable  int
}

func (c ApplyCounts) Total() int { return c.Materials + c.Constant + c.Variable }

// ApplyToAll ставит количество q всем материалам, постоянным и подходящим переменным услугам.
// Отметку не ставит: количество только подготовлено, клерк подтверждает позиции сам.
func ApplyToAll(d *Draft, q int) ApplyCounts {
	if q < 0 {
		q = 0
	}
	var c ApplyCounts
	for i := range d.Materials {
		d.Materials[i].Qty = q
		d.Materials[i].Selected = false
		c.Materials++
	}
	for i := range d.Services {
		sv := &d.Services[i]
		switch {
		case catalog.IsConstant(sv.Service):
			c.Constant++
		case eligibility.Matches(sv.Service, d.Wheels):
			c.Variable++
		default:
			continue
		}
		sv.Qty = q
		sv.Selected = false
	}
	return c
}

// MarkPackage отмечает подходящие услуги шага step на все колёса, остальные услуги сбрасывает.
// Если подходящих услуг с таким шагом нет или шаг вне 1–5, ничего не меняет и возвращает 0.
func MarkPackage(d *Draft, step int) int {
	if step < eligibility.FirstStep || step > eligibility.LastStep {
		return 0
	}
	return markSteps(d, func(s int) bool { return s == step })
}

// MarkComplex то же для всего комплекса (шаги 1–5).
func MarkComplex(d *Draft) int {
	return markSteps(d, func(s int) bool { return s != eligibility.NoStep })
}

func markSteps(d *Draft, want func(step int) bool) int {
	hit := make([]bool, len(d.Services))
	n := 0
	for i, sv := range d.Services {
		if want(eligibility.PackageStep(sv.Name)) && eligibility.Eligible(sv.Service, d.Wheels) {
			hit[i] = true
			n++
		}
	}
	if n == 0 {
		return 0
	}
	count := eligibility.ClampCount(d.Wheels.Count)
	for i := range d.Services {
		if hit[i] {
			d.Services[i].Qty = count
			d.Services[i].Selected = true
		} else {
			d.Services[i].Qty = 0
			d.Services[i].Selected = false
		}
	}
	return n
}

// ResetInvalidServices сбрасывает переменные услуги, которые перестали подходить
// после смены параметров колёс. Возвращает true, если что-то изменилось.
func ResetInvalidServices(d *Draft) bool {
	changed := false
	for i := range d.Services {
		sv := &d.Services[i]
		if sv.Qty > 0 && !eligibility.Eligible(sv.Service, d.Wheels) {
			sv.Qty = 0
			sv.Selected = false
			changed = true
		}
	}
	return changed
}
