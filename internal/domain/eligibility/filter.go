package eligibility

import "github.com/Spok95/tireshop-bot/internal/domain/catalog"

// Filter оставляет постоянные услуги и подходящие переменные, порядок сохраняется.
func Filter(services []catalog.Service, w Wheels) []catalog.Service {
	out := make([]catalog.Service, 0, len(services))
	for _, s := range services {
		if Eligible(s, w) {
			out = append(out, s)
		}
	}
	return out
}
