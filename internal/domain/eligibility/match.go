// Package eligibility решает, какие услуги каталога подходят под выбранные параметры колёс.
// Работает только со структурированными полями: всё, что можно вытащить из названия,
// уже сделано на этапе нормализации каталога.
package eligibility

import "github.com/Spok95/tireshop-bot/internal/domain/catalog"

const (
	MinWheels = 1
	MaxWheels = 20

	DefaultRadius = 17
	DefaultWheels = 4
)

// Wheels текущие параметры колёс заказа.
// Light и Jeep в интерфейсе взаимоисключающие, но здесь допустимы любые сочетания.
type Wheels struct {
	Radius     int  `json:"radius"`
	Light      bool `json:"light"`
	Jeep       bool `json:"jeep"`
	LowProfile bool `json:"lowProfile"`
	RunFlat    bool `json:"runflat"`
	Count      int  `json:"qty"`
}

func DefaultWheelsConfig() Wheels {
	return Wheels{Radius: DefaultRadius, Count: DefaultWheels}
}

// ClampCount приводит количество колёс к диапазону [1,20].
func ClampCount(n int) int {
	if n < MinWheels {
		return MinWheels
	}
	if n > MaxWheels {
		return MaxWheels
	}
	return n
}

// Matches подходит ли переменная услуга под параметры колёс.
// Для постоянных услуг вызывать не нужно, см. Eligible.
func Matches(s catalog.Service, w Wheels) bool {
	if !radiusOK(s.Radius, w.Radius) {
		return false
	}
	if s.Category != catalog.CategoryUnspecified && !categoryOK(s, w) {
		return false
	}
	if s.Family == catalog.FamilyWash {
		return true
	}
	if w.LowProfile && !s.LowProfile {
		return false
	}
	if w.RunFlat && !s.RunFlat {
		return false
	}
	return true
}

// Eligible постоянная услуга или подходящая переменная.
func Eligible(s catalog.Service, w Wheels) bool {
	return catalog.IsConstant(s) || Matches(s, w)
}

// radiusOK диапазон с min > max никогда не совпадает.
func radiusOK(r catalog.Radius, wheel int) bool {
	switch r.Kind {
	case catalog.RadiusExact:
		return wheel == r.Min
	case catalog.RadiusRange:
		return r.Min <= wheel && wheel <= r.Max
	case catalog.RadiusMinimum:
		return wheel >= r.Min
	default:
		return true
	}
}

func categoryOK(s catalog.Service, w Wheels) bool {
	light := s.Category == catalog.CategoryLight
	jeep := s.Category == catalog.CategoryJeep

	if s.Family == catalog.FamilyWash {
		return (w.Light && light) || (w.Jeep && jeep)
	}

	if !w.Light && !w.Jeep {
		return false
	}
	if w.Light && jeep {
		return false
	}
	if w.Jeep && light {
		return false
	}
	return true
}
