package catalog

// Стартовый каталог: используется, пока в базе ничего нет и 1С ещё не выгружала настройки.

func DefaultMechanics() []string {
	return []string{
		"Андреев Андрей", "Борисов Борис", "Власов Владислав", "Григорьев Григорий",
		"Дмитриев Дмитрий", "Егоров Егор", "Жуков Жорж", "Зайцев Захар",
	}
}

func DefaultMaterials() []Material {
	return []Material{
		{ID: "1", Name: "Расходные материалы", Price: 150},
		{ID: "2", Name: "Грузик набивной", Price: 50},
		{ID: "3", Name: "Грузик самоклеющийся", Price: 80},
		{ID: "4", Name: "Вентиль простой", Price: 100},
		{ID: "5", Name: "Вентиль хром", Price: 250},
		{ID: "6", Name: "Жгут", Price: 200},
	}
}

func DefaultServices() []Service {
	return []Service{
		{ID: "1", Name: "Съём и установка колеса R16 light", Price: 300, Radius: Exact(16), Category: CategoryLight},
		{ID: "2", Name: "Демонтаж шины R17 light", Price: 250, Radius: Exact(17), Category: CategoryLight},
		{ID: "3", Name: "Монтаж шины R17 light", Price: 250, Radius: Exact(17), Category: CategoryLight},
		{ID: "4", Name: "Балансировка R17 light", Price: 350, Radius: Exact(17), Category: CategoryLight},
		{ID: "5", Name: "Технологическая мойка", Price: 200},
		{ID: "6", Name: "Сложность с датчиком", Price: 500},
		{ID: "7", Name: "Обработка ступицы", Price: 150},
		{ID: "8", Name: "Шиноремонт жгутом", Price: 400},
		{ID: "9", Name: "Съём и установка камеры", Price: 350},
		{ID: "10", Name: "Погрузка колеса в сборе", Price: 100},
	}
}

func Default() Snapshot {
	return Snapshot{
		Mechanics: DefaultMechanics(),
		Materials: DefaultMaterials(),
		Services:  DefaultServices(),
	}
}
