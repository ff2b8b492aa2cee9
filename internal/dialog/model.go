package dialog

type State string

const (
	StateIdle State = "idle"

	// Регистрация
	StateAwaitFIO State = "await_fio"

	// Клиент
	StateClientName  State = "client_name"
	StateClientPhone State = "client_phone"
	StateClientCar   State = "client_car"

	// Ввод количества позиции вручную; kind и id в payload
	StateItemQty State = "item_qty"

	// Каталог (админ)
	StateCatSubdivision State = "cat_subdivision" // подразделение для выгрузки из 1С
	StateCatImportFile  State = "cat_import_file" // ожидание Excel с каталогом
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
