package order

import (
	"time"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
)

type Kind string

const (
	KindMaterial Kind = "mat"
	KindService  Kind = "svc"
)

type Client struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Car   string `json:"car"`
}

func (c Client) Complete() bool { return c.Name != "" && c.Phone != "" && c.Car != "" }

type MaterialLine struct {
	catalog.Material
	Qty      int  `json:"qty"`
	Selected bool `json:"selected"`
}

type ServiceLine struct {
	catalog.Service
	Qty      int  `json:"qty"`
	Selected bool `json:"selected"`
}

// Draft черновик заказа. Ядро его не хранит: получает, читает или меняет и отдаёт обратно.
type Draft struct {
	Mechanics []string           `json:"mechanics"`
	Client    Client             `json:"client"`
	Wheels    eligibility.Wheels `json:"wheels"`
	Materials []MaterialLine     `json:"materials"`
	Services  []ServiceLine      `json:"services"`
}

// NewDraft пустой черновик со строками по каталогу.
func NewDraft(s catalog.Snapshot) Draft {
	d := Draft{
		Mechanics: []string{},
		Wheels:    eligibility.DefaultWheelsConfig(),
	}
	return Reconcile(d, s)
}

// Order отправленный заказ (история).
type Order struct {
	ID          int64
	ChatID      int64
	Subdivision string
	Total       float64
	Draft       Draft
	Status      string
	CreatedAt   time.Time
}
