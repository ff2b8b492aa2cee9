package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	radiusRangeRe = regexp.MustCompile(`r(\d+)\s*-\s*(\d+)`)
	radiusRe      = regexp.MustCompile(`r(\d+)`)
)

const minimumMarker = "и более"

// FamilyRule относит услугу к семейству по подстроке названия.
type FamilyRule struct {
	Marker string
	Family Family
}

// Extractor достраивает технические атрибуты услуги по её названию.
// Уже заполненные поля не трогает, поэтому повторный прогон ничего не меняет.
type Extractor struct {
	LightWords      []string
	JeepWords       []string
	VanWords        []string
	LowProfileWords []string
	RunFlatWords    []string
	Families        []FamilyRule
}

func DefaultWashMarkers() []string { return []string{"технологическая мойка"} }

// NewExtractor словари по умолчанию; washMarkers, подстроки семейства «мойка».
func NewExtractor(washMarkers ...string) *Extractor {
	if len(washMarkers) == 0 {
		washMarkers = DefaultWashMarkers()
	}
	e := &Extractor{
		LightWords:      []string{"легкового", "легковой", "light"},
		JeepWords:       []string{"джип", "минивэн", "кроссовер", "паркетник", "внедорожник", "jeep", "suv"},
		VanWords:        []string{"газель"},
		LowProfileWords: []string{"низкий профиль", "низкопрофил"},
		RunFlatWords:    []string{"runflat", "run flat", "ранфлет"},
	}
	for _, m := range washMarkers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		e.Families = append(e.Families, FamilyRule{Marker: m, Family: FamilyWash})
	}
	return e
}

// Normalize возвращает копию услуги с выведенными из названия атрибутами.
func (e *Extractor) Normalize(s Service) Service {
	name := strings.ToLower(s.Name)

	if !s.Radius.IsSet() {
		s.Radius = extractRadius(name)
	}
	if s.Category == CategoryUnspecified {
		switch {
		case containsAny(name, e.LightWords):
			s.Category = CategoryLight
		case containsAny(name, e.JeepWords), containsAny(name, e.VanWords):
			s.Category = CategoryJeep
		}
	}
	if !s.LowProfile && containsAny(name, e.LowProfileWords) {
		s.LowProfile = true
	}
	if !s.RunFlat && containsAny(name, e.RunFlatWords) {
		s.RunFlat = true
	}
	if s.Family == FamilyStandard {
		for _, r := range e.Families {
			if strings.Contains(name, r.Marker) {
				s.Family = r.Family
				break
			}
		}
	}
	return s
}

// NormalizeAll прогоняет нормализацию по всему списку, исходный срез не меняется.
func (e *Extractor) NormalizeAll(in []Service) []Service {
	out := make([]Service, len(in))
	for i, s := range in {
		out[i] = e.Normalize(s)
	}
	return out
}

func extractRadius(name string) Radius {
	if m := radiusRangeRe.FindStringSubmatch(name); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return Range(lo, hi)
	}
	m := radiusRe.FindStringSubmatch(name)
	if m == nil {
		return Radius{}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Radius{}
	}
	if strings.Contains(name, minimumMarker) {
		return Minimum(n)
	}
	return Exact(n)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}
