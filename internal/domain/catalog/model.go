package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrDuplicateID = errors.New("catalog: duplicate id")

// ID идентификатор позиции. 1С отдаёт то числа, то строки, принимаем оба варианта.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("catalog: bad id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

type RadiusKind uint8

const (
	RadiusUnspecified RadiusKind = iota
	RadiusExact
	RadiusRange
	RadiusMinimum
)

// Radius ограничение услуги по посадочному диаметру.
type Radius struct {
	Kind RadiusKind
	Min  int
	Max  int
}

func Exact(n int) Radius     { return Radius{Kind: RadiusExact, Min: n, Max: n} }
func Range(a, b int) Radius  { return Radius{Kind: RadiusRange, Min: a, Max: b} }
func Minimum(n int) Radius   { return Radius{Kind: RadiusMinimum, Min: n} }
func (r Radius) IsSet() bool { return r.Kind != RadiusUnspecified }

const minimumSuffix = " и более"

func (r Radius) String() string {
	switch r.Kind {
	case RadiusExact:
		return fmt.Sprintf("R%d", r.Min)
	case RadiusRange:
		return fmt.Sprintf("R%d-%d", r.Min, r.Max)
	case RadiusMinimum:
		return fmt.Sprintf("R%d%s", r.Min, minimumSuffix)
	default:
		return ""
	}
}

// MarshalJSON пишет радиус в формате 1С: null | 17 | "16-18" | "20 и более".
func (r Radius) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RadiusExact:
		return []byte(strconv.Itoa(r.Min)), nil
	case RadiusRange:
		return json.Marshal(fmt.Sprintf("%d-%d", r.Min, r.Max))
	case RadiusMinimum:
		return json.Marshal(fmt.Sprintf("%d%s", r.Min, minimumSuffix))
	default:
		return []byte("null"), nil
	}
}

func (r *Radius) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = Radius{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] != '"' {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("catalog: bad radius %s: %w", b, err)
		}
		if n != math.Trunc(n) {
			// дробный радиус не бывает, считаем как нераспознанную строку
			return nil
		}
		*r = Exact(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseRadius(s)
	if !ok {
		// нераспознанная строка = ограничения нет
		return nil
	}
	*r = parsed
	return nil
}

// ParseRadius разбирает строковое представление радиуса ("17", "R17", "16-18", "20 и более").
func ParseRadius(s string) (Radius, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "r")
	if s == "" {
		return Radius{}, false
	}
	if strings.HasSuffix(s, strings.TrimSpace(minimumSuffix)) {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, strings.TrimSpace(minimumSuffix))))
		if err != nil {
			return Radius{}, false
		}
		return Minimum(n), true
	}
	if a, b, ok := strings.Cut(s, "-"); ok {
		lo, err1 := strconv.Atoi(strings.TrimSpace(a))
		hi, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return Radius{}, false
		}
		return Range(lo, hi), true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Radius{}, false
	}
	return Exact(n), true
}

type VehicleCategory string

const (
	CategoryUnspecified VehicleCategory = ""
	CategoryLight       VehicleCategory = "light"
	CategoryJeep        VehicleCategory = "jeep" // джип/минивэн/кроссовер/газель
)

// Family семейство услуги: влияет на правило сопоставления по типу авто.
type Family string

const (
	FamilyStandard Family = ""
	FamilyWash     Family = "wash" // технологическая мойка и подобные
)

type Material struct {
	ID    ID      `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Service struct {
	ID         ID              `json:"id"`
	Name       string          `json:"name"`
	Price      float64         `json:"price"`
	Radius     Radius          `json:"radius"`
	Category   VehicleCategory `json:"carType,omitempty"`
	LowProfile bool            `json:"lowProfile"`
	RunFlat    bool            `json:"runflat"`
	Family     Family          `json:"family,omitempty"`
}

// Snapshot эталонный каталог. После публикации не изменяется, только заменяется целиком.
type Snapshot struct {
	Subdivision string
	Mechanics   []string
	Materials   []Material
	Services    []Service
	LoadedAt    time.Time
}

// Validate проверяет уникальность идентификаторов внутри снимка.
func (s Snapshot) Validate() error {
	seen := make(map[ID]struct{}, len(s.Materials))
	for _, m := range s.Materials {
		if _, ok := seen[m.ID]; ok {
			return fmt.Errorf("material %q: %w", m.ID, ErrDuplicateID)
		}
		seen[m.ID] = struct{}{}
	}
	seen = make(map[ID]struct{}, len(s.Services))
	for _, sv := range s.Services {
		if _, ok := seen[sv.ID]; ok {
			return fmt.Errorf("service %q: %w", sv.ID, ErrDuplicateID)
		}
		seen[sv.ID] = struct{}{}
	}
	return nil
}

// HasMechanic есть ли механик в штатном списке.
func (s Snapshot) HasMechanic(name string) bool {
	for _, m := range s.Mechanics {
		if m == name {
			return true
		}
	}
	return false
}
