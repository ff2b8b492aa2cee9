package order

// Total сумма по отмеченным позициям с положительным количеством.
func Total(d Draft) float64 {
	return MaterialsTotal(d.Materials) + ServicesTotal(d.Services)
}

func MaterialsTotal(lines []MaterialLine) float64 {
	var sum float64
	for _, l := range lines {
		if l.Selected && l.Qty > 0 {
			sum += l.Price * float64(l.Qty)
		}
	}
	return sum
}

func ServicesTotal(lines []ServiceLine) float64 {
	var sum float64
	for _, l := range lines {
		if l.Selected && l.Qty > 0 {
			sum += l.Price * float64(l.Qty)
		}
	}
	return sum
}
