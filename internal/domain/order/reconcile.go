package order

import "github.com/Spok95/tireshop-bot/internal/domain/catalog"

// Reconcile пересобирает строки черновика по эталонному каталогу.
// Количество и отметки переносятся по id, пропавшие позиции молча отбрасываются,
// новые приходят с нулевым количеством. Механики, в порядке черновика, только из штата.
func Reconcile(prev Draft, s catalog.Snapshot) Draft {
	out := Draft{
		Client: prev.Client,
		Wheels: prev.Wheels,
	}

	out.Mechanics = make([]string, 0, len(prev.Mechanics))
	seen := make(map[string]struct{}, len(prev.Mechanics))
	for _, m := range prev.Mechanics {
		if _, dup := seen[m]; dup || !s.HasMechanic(m) {
			continue
		}
		seen[m] = struct{}{}
		out.Mechanics = append(out.Mechanics, m)
	}

	mats := make(map[catalog.ID]MaterialLine, len(prev.Materials))
	for _, m := range prev.Materials {
		mats[m.ID] = m
	}
	out.Materials = make([]MaterialLine, 0, len(s.Materials))
	for _, src := range s.Materials {
		line := MaterialLine{Material: src}
		if p, ok := mats[src.ID]; ok {
			line.Qty, line.Selected = p.Qty, p.Selected
		}
		out.Materials = append(out.Materials, line)
	}

	svcs := make(map[catalog.ID]ServiceLine, len(prev.Services))
	for _, sv := range prev.Services {
		svcs[sv.ID] = sv
	}
	out.Services = make([]ServiceLine, 0, len(s.Services))
	for _, src := range s.Services {
		line := ServiceLine{Service: src}
		if p, ok := svcs[src.ID]; ok {
			line.Qty, line.Selected = p.Qty, p.Selected
		}
		out.Services = append(out.Services, line)
	}
	return out
}
