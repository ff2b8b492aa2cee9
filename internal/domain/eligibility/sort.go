package eligibility

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NoStep приоритет услуг без номера шага комплекса, в конец списка.
const NoStep = 999

// Шаги комплекса
const (
	FirstStep = 1
	LastStep  = 5
)

var stepRe = regexp.MustCompile(`^([1-5])\s`)

// PackageStep номер шага комплекса (1–5) из начала названия, иначе NoStep.
func PackageStep(name string) int {
	m := stepRe.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return NoStep
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// SortByPrefix сортирует по шагу комплекса, затем по названию (русская локаль).
// Сортировка устойчивая, входной срез не меняется.
func SortByPrefix[T any](items []T, name func(T) string) []T {
	out := append([]T(nil), items...)
	col := collate.New(language.Russian)
	sort.SliceStable(out, func(i, j int) bool {
		a := strings.TrimSpace(name(out[i]))
		b := strings.TrimSpace(name(out[j]))
		sa, sb := PackageStep(a), PackageStep(b)
		if sa != sb {
			return sa < sb
		}
		return col.CompareString(a, b) < 0
	})
	return out
}
