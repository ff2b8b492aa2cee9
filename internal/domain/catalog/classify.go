package catalog

import (
	"strings"

	"github.com/google/uuid"
)

const (
	TechWashName         = "5 Технологическая мойка"
	DefaultTechWashPrice = 200.0
	techWashMarker       = "технологическая мойка"
	techWashIDPrefix     = "tech_wash_"
)

// IsConstant услуга без ограничений по радиусу, типу авто и типу шины, доступна всегда.
func IsConstant(s Service) bool {
	return !s.Radius.IsSet() &&
		s.Category == CategoryUnspecified &&
		!s.LowProfile && !s.RunFlat
}

// HasTechWash есть ли в списке постоянная технологическая мойка.
// Сравниваем по названию и ограничениям, а не по id: id у синтезированной услуги случайный.
func HasTechWash(services []Service) bool {
	for _, s := range services {
		if IsConstant(s) && strings.Contains(strings.ToLower(s.Name), techWashMarker) {
			return true
		}
	}
	return false
}

// SynthesizedTechWashID id мойки, которую добавил EnsureTechWash, или "".
func SynthesizedTechWashID(services []Service) ID {
	for _, s := range services {
		if strings.HasPrefix(string(s.ID), techWashIDPrefix) && IsConstant(s) &&
			strings.Contains(strings.ToLower(s.Name), techWashMarker) {
			return s.ID
		}
	}
	return ""
}

// EnsureTechWash добавляет базовую технологическую мойку, если её нет.
// Непустой reuse становится id новой мойки, если он не занят.
func EnsureTechWash(services []Service, price float64, reuse ID) []Service {
	if HasTechWash(services) {
		return services
	}
	if price <= 0 {
		price = DefaultTechWashPrice
	}
	id := reuse
	for _, s := range services {
		if s.ID == id {
			id = ""
			break
		}
	}
	if id == "" {
		id = ID(techWashIDPrefix + uuid.NewString())
	}
	return append(services[:len(services):len(services)], Service{
		ID:     id,
		Name:   TechWashName,
		Price:  price,
		Family: FamilyWash,
	})
}
