package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	sheetServices  = "services"
	sheetMaterials = "materials"
	sheetMechanics = "mechanics"
)

var (
	servicesHeader  = []interface{}{"id", "name", "price", "radius", "car_type", "low_profile", "runflat"}
	materialsHeader = []interface{}{"id", "name", "price"}
	mechanicsHeader = []interface{}{"name"}
)

// WriteXLSX выгружает каталог в Excel: по листу на услуги, материалы и механиков.
func WriteXLSX(s Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(first, sheetServices); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetMaterials, sheetMechanics} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(sheetServices, "A1", &servicesHeader); err != nil {
		return nil, fmt.Errorf("services header: %w", err)
	}
	for i, sv := range s.Services {
		row := []interface{}{
			string(sv.ID),
			sv.Name,
			sv.Price,
			radiusCell(sv.Radius),
			string(sv.Category),
			yesNo(sv.LowProfile),
			yesNo(sv.RunFlat),
		}
		if err := setRow(f, sheetServices, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(sheetMaterials, "A1", &materialsHeader); err != nil {
		return nil, fmt.Errorf("materials header: %w", err)
	}
	for i, m := range s.Materials {
		if err := setRow(f, sheetMaterials, i+2, []interface{}{string(m.ID), m.Name, m.Price}); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(sheetMechanics, "A1", &mechanicsHeader); err != nil {
		return nil, fmt.Errorf("mechanics header: %w", err)
	}
	for i, name := range s.Mechanics {
		if err := setRow(f, sheetMechanics, i+2, []interface{}{name}); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

// ReadXLSX читает файл в формате WriteXLSX. Лист механиков необязателен.
// Строки без id пропускаются, некорректная цена, ошибка с номером строки.
func ReadXLSX(data []byte) (Snapshot, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	var s Snapshot

	rows, err := f.GetRows(sheetServices)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sheet %s: %w", sheetServices, err)
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		price, err := parsePrice(row[2])
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s row %d: %w", sheetServices, i+1, err)
		}
		sv := Service{
			ID:    ID(strings.TrimSpace(row[0])),
			Name:  strings.TrimSpace(row[1]),
			Price: price,
		}
		if len(row) > 3 {
			sv.Radius, _ = ParseRadius(row[3])
		}
		if len(row) > 4 {
			sv.Category = parseCategory(row[4])
		}
		if len(row) > 5 {
			sv.LowProfile = isYes(row[5])
		}
		if len(row) > 6 {
			sv.RunFlat = isYes(row[6])
		}
		s.Services = append(s.Services, sv)
	}

	rows, err = f.GetRows(sheetMaterials)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sheet %s: %w", sheetMaterials, err)
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		price, err := parsePrice(row[2])
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s row %d: %w", sheetMaterials, i+1, err)
		}
		s.Materials = append(s.Materials, Material{
			ID:    ID(strings.TrimSpace(row[0])),
			Name:  strings.TrimSpace(row[1]),
			Price: price,
		})
	}

	if idx, _ := f.GetSheetIndex(sheetMechanics); idx >= 0 {
		rows, err = f.GetRows(sheetMechanics)
		if err != nil {
			return Snapshot{}, fmt.Errorf("sheet %s: %w", sheetMechanics, err)
		}
		for i := 1; i < len(rows); i++ {
			if len(rows[i]) == 0 {
				continue
			}
			if name := strings.TrimSpace(rows[i][0]); name != "" {
				s.Mechanics = append(s.Mechanics, name)
			}
		}
	}
	return s, nil
}

func radiusCell(r Radius) string {
	switch r.Kind {
	case RadiusExact:
		return strconv.Itoa(r.Min)
	case RadiusRange:
		return fmt.Sprintf("%d-%d", r.Min, r.Max)
	case RadiusMinimum:
		return fmt.Sprintf("%d%s", r.Min, minimumSuffix)
	default:
		return ""
	}
}

func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad price %q", s)
	}
	return v, nil
}

func parseCategory(s string) VehicleCategory {
	switch VehicleCategory(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryLight:
		return CategoryLight
	case CategoryJeep:
		return CategoryJeep
	default:
		return CategoryUnspecified
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "да", "1", "true":
		return true
	}
	return false
}
