package catalog

import (
	"strings"
	"time"
)

// Canonical готовит снимок к публикации: нормализует услуги, гарантирует
// технологическую мойку и проверяет уникальность id. Входной снимок не меняется.
// washID id ранее синтезированной мойки, чтобы не менять его при каждом обновлении.
func (e *Extractor) Canonical(in Snapshot, washID ID, washPrice float64, now time.Time) (Snapshot, error) {
	out := Snapshot{
		Subdivision: in.Subdivision,
		Mechanics:   cleanMechanics(in.Mechanics),
		Materials:   append([]Material(nil), in.Materials...),
		Services:    e.NormalizeAll(in.Services),
		LoadedAt:    now,
	}
	out.Services = EnsureTechWash(out.Services, washPrice, washID)
	if err := out.Validate(); err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

func cleanMechanics(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
