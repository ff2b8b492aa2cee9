package order

import (
	"errors"
	"fmt"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
)

var (
	ErrUnknownItem      = errors.New("order: unknown item")
	ErrNoMechanics      = errors.New("order: no mechanics selected")
	ErrClientIncomplete = errors.New("order: client data incomplete")
	ErrNoServices       = errors.New("order: no services selected")
)

// MaxItemQty верхняя граница количества в выпадающем списке позиции.
const MaxItemQty = 20

// SetQuantity выбор количества у позиции: отметка синхронизируется с qty > 0.
func SetQuantity(d *Draft, kind Kind, id catalog.ID, q int) error {
	if q < 0 {
		q = 0
	}
	if q > MaxItemQty {
		q = MaxItemQty
	}
	qty, sel, err := line(d, kind, id)
	if err != nil {
		return err
	}
	*qty = q
	*sel = q > 0
	return nil
}

// Toggle галочка у позиции: при включении пустой позиции ставится количество колёс,
// при выключении количество обнуляется.
func Toggle(d *Draft, kind Kind, id catalog.ID, checked bool) error {
	qty, sel, err := line(d, kind, id)
	if err != nil {
		return err
	}
	*sel = checked
	switch {
	case checked && *qty == 0:
		*qty = eligibility.ClampCount(d.Wheels.Count)
	case !checked:
		*qty = 0
	}
	return nil
}

func line(d *Draft, kind Kind, id catalog.ID) (*int, *bool, error) {
	switch kind {
	case KindMaterial:
		for i := range d.Materials {
			if d.Materials[i].ID == id {
				return &d.Materials[i].Qty, &d.Materials[i].Selected, nil
			}
		}
	case KindService:
		for i := range d.Services {
			if d.Services[i].ID == id {
				return &d.Services[i].Qty, &d.Services[i].Selected, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%s %q: %w", kind, id, ErrUnknownItem)
}

// ToggleMechanic добавляет или убирает механика; механик должен быть в штате.
func ToggleMechanic(d *Draft, name string, s catalog.Snapshot) error {
	for i, m := range d.Mechanics {
		if m == name {
			d.Mechanics = append(d.Mechanics[:i:i], d.Mechanics[i+1:]...)
			return nil
		}
	}
	if !s.HasMechanic(name) {
		return fmt.Errorf("mechanic %q: %w", name, ErrUnknownItem)
	}
	d.Mechanics = append(d.Mechanics, name)
	return nil
}

func SetRadius(d *Draft, r int) { d.Wheels.Radius = r }

// ToggleCategory переключает тип авто. Легковой и джип в интерфейсе взаимоисключающие.
func ToggleCategory(d *Draft, c catalog.VehicleCategory) {
	switch c {
	case catalog.CategoryLight:
		d.Wheels.Light = !d.Wheels.Light
		if d.Wheels.Light {
			d.Wheels.Jeep = false
		}
	case catalog.CategoryJeep:
		d.Wheels.Jeep = !d.Wheels.Jeep
		if d.Wheels.Jeep {
			d.Wheels.Light = false
		}
	}
}

func ToggleLowProfile(d *Draft) { d.Wheels.LowProfile = !d.Wheels.LowProfile }
func ToggleRunFlat(d *Draft)    { d.Wheels.RunFlat = !d.Wheels.RunFlat }

func SetCount(d *Draft, n int) { d.Wheels.Count = eligibility.ClampCount(n) }

// AddWheels меняет количество колёс на delta в пределах [1,20].
func AddWheels(d *Draft, delta int) {
	SetCount(d, d.Wheels.Count+delta)
}

// Validate проверка перед отправкой заказа.
func Validate(d Draft) error {
	if len(d.Mechanics) == 0 {
		return ErrNoMechanics
	}
	if !d.Client.Complete() {
		return ErrClientIncomplete
	}
	for _, sv := range d.Services {
		if sv.Selected {
			return nil
		}
	}
	return ErrNoServices
}
