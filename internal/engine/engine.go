// Package engine связывает ядро подбора услуг с хранилищами и 1С:
// держит эталонный каталог, загружает и сверяет черновики, пересчитывает витрину.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
	"github.com/Spok95/tireshop-bot/internal/infra/metrics"
)

// DraftStore хранилище черновиков: для него черновик, непрозрачный блоб.
type DraftStore interface {
	Get(ctx context.Context, chatID int64) ([]byte, error)
	Put(ctx context.Context, chatID int64, raw []byte) error
	Delete(ctx context.Context, chatID int64) error
}

type CatalogStore interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
	Replace(ctx context.Context, s catalog.Snapshot) error
}

// Source удалённый источник справочников (1С).
type Source interface {
	FetchSettings(ctx context.Context, subdivision string) (catalog.Snapshot, error)
	SubmitOrder(ctx context.Context, subdivision string, d order.Draft) (string, error)
}

type History interface {
	Create(ctx context.Context, chatID int64, subdivision string, d order.Draft, total float64, status string) (int64, error)
	ListSince(ctx context.Context, chatID int64, since time.Time) ([]order.Order, error)
}

type Deps struct {
	Log       *slog.Logger
	Catalogs  CatalogStore
	Drafts    DraftStore
	Source    Source
	History   History
	Metrics   *metrics.Registry
	Extractor *catalog.Extractor
}

type Options struct {
	TechWashPrice      float64
	DefaultSubdivision string
	Location           *time.Location
}

type Engine struct {
	log      *slog.Logger
	ext      *catalog.Extractor
	catalogs CatalogStore
	drafts   DraftStore
	source   Source
	history  History
	metrics  *metrics.Registry
	opts     Options

	current atomic.Pointer[catalog.Snapshot]
	now     func() time.Time
}

func New(d Deps, opts Options) *Engine {
	if d.Extractor == nil {
		d.Extractor = catalog.NewExtractor()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewRegistry()
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Engine{
		log:      d.Log,
		ext:      d.Extractor,
		catalogs: d.Catalogs,
		drafts:   d.Drafts,
		source:   d.Source,
		history:  d.History,
		metrics:  d.Metrics,
		opts:     opts,
		now:      time.Now,
	}
}

// Init загружает каталог из хранилища, а если его там нет, записывает стартовый.
func (e *Engine) Init(ctx context.Context) error {
	stored, err := e.catalogs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	src := catalog.Default()
	src.Subdivision = e.opts.DefaultSubdivision
	if stored != nil && (len(stored.Services) > 0 || len(stored.Materials) > 0) {
		src = *stored
	}
	snap, err := e.ext.Canonical(src, "", e.opts.TechWashPrice, e.now())
	if err != nil {
		return fmt.Errorf("canonical catalog: %w", err)
	}
	if stored == nil || len(snap.Services) != len(stored.Services) {
		// стартовый каталог или досинтезированная мойка, сохраняем, чтобы id мойки был стабильным
		if err := e.catalogs.Replace(ctx, snap); err != nil {
			return fmt.Errorf("store catalog: %w", err)
		}
	}
	e.publish(snap)
	return nil
}

func (e *Engine) publish(s catalog.Snapshot) {
	e.current.Store(&s)
	e.metrics.CatalogServices.Set(float64(len(s.Services)))
	e.metrics.CatalogMaterial.Set(float64(len(s.Materials)))
}

// Catalog текущий эталонный снимок.
func (e *Engine) Catalog() catalog.Snapshot {
	if s := e.current.Load(); s != nil {
		return *s
	}
	return catalog.Snapshot{}
}

// Refresh тянет справочники из 1С и атомарно подменяет каталог.
// При любой ошибке текущий каталог и черновики остаются как были.
func (e *Engine) Refresh(ctx context.Context, subdivision string) (catalog.Snapshot, error) {
	if subdivision == "" {
		subdivision = e.Catalog().Subdivision
	}
	if subdivision == "" {
		subdivision = e.opts.DefaultSubdivision
	}
	raw, err := e.source.FetchSettings(ctx, subdivision)
	if err != nil {
		e.metrics.RefreshFailed.Inc()
		return catalog.Snapshot{}, err
	}
	raw.Subdivision = subdivision
	snap, err := e.install(ctx, raw)
	if err != nil {
		e.metrics.RefreshFailed.Inc()
		return catalog.Snapshot{}, err
	}
	e.metrics.RefreshOK.Inc()
	e.log.Info("catalog refreshed",
		"subdivision", subdivision,
		"mechanics", len(snap.Mechanics),
		"materials", len(snap.Materials),
		"services", len(snap.Services),
	)
	return snap, nil
}

// Import подменяет каталог загруженным из Excel. Пустой список механиков
// в файле означает «оставить текущих».
func (e *Engine) Import(ctx context.Context, raw catalog.Snapshot) (catalog.Snapshot, error) {
	cur := e.Catalog()
	if len(raw.Mechanics) == 0 {
		raw.Mechanics = cur.Mechanics
	}
	raw.Subdivision = cur.Subdivision
	return e.install(ctx, raw)
}

func (e *Engine) install(ctx context.Context, raw catalog.Snapshot) (catalog.Snapshot, error) {
	washID := catalog.SynthesizedTechWashID(e.Catalog().Services)
	snap, err := e.ext.Canonical(raw, washID, e.opts.TechWashPrice, e.now())
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if err := e.catalogs.Replace(ctx, snap); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("store catalog: %w", err)
	}
	e.publish(snap)
	return snap, nil
}

// Draft загружает черновик чата и сверяет его с текущим каталогом.
func (e *Engine) Draft(ctx context.Context, chatID int64) (order.Draft, error) {
	snap := e.Catalog()
	raw, err := e.drafts.Get(ctx, chatID)
	if err != nil {
		return order.Draft{}, fmt.Errorf("get draft: %w", err)
	}
	if raw == nil {
		return order.NewDraft(snap), nil
	}
	d, ok := order.DecodeDraft(raw)
	if !ok {
		e.metrics.DraftFallbacks.Inc()
		e.log.Warn("corrupt draft discarded", "chat_id", chatID, "bytes", len(raw))
	}
	return order.Reconcile(d, snap), nil
}

func (e *Engine) Save(ctx context.Context, chatID int64, d order.Draft) error {
	raw, err := order.EncodeDraft(d)
	if err != nil {
		return err
	}
	return e.drafts.Put(ctx, chatID, raw)
}

// Update загружает черновик, применяет fn и сохраняет результат.
// Если fn вернула ошибку, черновик не сохраняется.
func (e *Engine) Update(ctx context.Context, chatID int64, fn func(d *order.Draft, s catalog.Snapshot) error) (order.Draft, View, error) {
	d, err := e.Draft(ctx, chatID)
	if err != nil {
		return order.Draft{}, View{}, err
	}
	if err := fn(&d, e.Catalog()); err != nil {
		return d, e.View(d), err
	}
	if err := e.Save(ctx, chatID, d); err != nil {
		return d, e.View(d), fmt.Errorf("save draft: %w", err)
	}
	return d, e.View(d), nil
}

// Reset начинает черновик заново: сохранённый удаляется, следующая загрузка
// получит черновик по умолчанию.
func (e *Engine) Reset(ctx context.Context, chatID int64) (order.Draft, error) {
	if err := e.drafts.Delete(ctx, chatID); err != nil {
		return order.Draft{}, fmt.Errorf("delete draft: %w", err)
	}
	return order.NewDraft(e.Catalog()), nil
}

// View данные для отрисовки после каждого пересчёта.
type View struct {
	Services       []order.ServiceLine // подходящие под колёса, отсортированные
	Materials      []order.MaterialLine
	ServicesTotal  float64 // по подходящим услугам
	MaterialsTotal float64
	Total          float64 // MaterialsTotal + ServicesTotal, неподходящие строки не учитываются
}

func (e *Engine) View(d order.Draft) View {
	start := time.Now()
	defer func() { e.metrics.RecomputeSec.Observe(time.Since(start).Seconds()) }()

	eligible := make([]order.ServiceLine, 0, len(d.Services))
	for _, sv := range d.Services {
		if eligibility.Eligible(sv.Service, d.Wheels) {
			eligible = append(eligible, sv)
		}
	}
	sorted := eligibility.SortByPrefix(eligible, func(l order.ServiceLine) string { return l.Name })
	v := View{
		Services:       sorted,
		Materials:      d.Materials,
		ServicesTotal:  order.ServicesTotal(sorted),
		MaterialsTotal: order.MaterialsTotal(d.Materials),
	}
	v.Total = v.MaterialsTotal + v.ServicesTotal
	return v
}

// Submit проверяет черновик, отправляет заказ в 1С, пишет историю и начинает новый черновик.
func (e *Engine) Submit(ctx context.Context, chatID int64) (string, error) {
	d, err := e.Draft(ctx, chatID)
	if err != nil {
		return "", err
	}
	// отправляем то же, что клерк видит на экране
	order.ResetInvalidServices(&d)
	if err := order.Validate(d); err != nil {
		return "", err
	}
	subdivision := e.Catalog().Subdivision
	total := order.Total(d)

	number, err := e.source.SubmitOrder(ctx, subdivision, d)
	if err != nil {
		e.metrics.OrdersFailed.Inc()
		if _, herr := e.history.Create(ctx, chatID, subdivision, d, total, order.StatusFailed); herr != nil {
			e.log.Error("order history write failed", "chat_id", chatID, "err", herr)
		}
		return "", fmt.Errorf("submit order: %w", err)
	}
	e.metrics.OrdersSubmitted.Inc()
	if _, err := e.history.Create(ctx, chatID, subdivision, d, total, order.StatusSent); err != nil {
		e.log.Error("order history write failed", "chat_id", chatID, "err", err)
	}
	if _, err := e.Reset(ctx, chatID); err != nil {
		e.log.Error("draft reset failed", "chat_id", chatID, "err", err)
	}
	return number, nil
}

// Today заказы чата за текущие сутки.
func (e *Engine) Today(ctx context.Context, chatID int64) ([]order.Order, error) {
	now := e.now().In(e.opts.Location)
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.opts.Location)
	return e.history.ListSince(ctx, chatID, since)
}
