package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
)

type memCatalogs struct {
	stored   *catalog.Snapshot
	replaced int
	failNext bool
}

func (m *memCatalogs) Load(context.Context) (*catalog.Snapshot, error) { return m.stored, nil }

func (m *memCatalogs) Replace(_ context.Context, s catalog.Snapshot) error {
	if m.failNext {
		m.failNext = false
		return errors.New("db down")
	}
	m.stored = &s
	m.replaced++
	return nil
}

type memDrafts struct {
	mu   sync.Mutex
	data map[int64][]byte
}

func (m *memDrafts) Get(_ context.Context, id int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id], nil
}

func (m *memDrafts) Put(_ context.Context, id int64, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = raw
	return nil
}

func (m *memDrafts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type fakeSource struct {
	snap      catalog.Snapshot
	fetchErr  error
	submitErr error
	submitted []order.Draft
}

func (f *fakeSource) FetchSettings(_ context.Context, subdivision string) (catalog.Snapshot, error) {
	if f.fetchErr != nil {
		return catalog.Snapshot{}, f.fetchErr
	}
	s := f.snap
	s.Subdivision = subdivision
	return s, nil
}

func (f *fakeSource) SubmitOrder(_ context.Context, _ string, d order.Draft) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, d)
	return "ЗН-1", nil
}

type memHistory struct {
	orders []order.Order
}

func (h *memHistory) Create(_ context.Context, chatID int64, sub string, d order.Draft, total float64, status string) (int64, error) {
	h.orders = append(h.orders, order.Order{ID: int64(len(h.orders) + 1), ChatID: chatID, Subdivision: sub, Draft: d, Total: total, Status: status, CreatedAt: time.Now()})
	return int64(len(h.orders)), nil
}

func (h *memHistory) ListSince(_ context.Context, chatID int64, since time.Time) ([]order.Order, error) {
	var out []order.Order
	for _, o := range h.orders {
		if o.ChatID == chatID && !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fixture struct {
	eng      *Engine
	catalogs *memCatalogs
	drafts   *memDrafts
	source   *fakeSource
	history  *memHistory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalogs: &memCatalogs{},
		drafts:   &memDrafts{data: map[int64][]byte{}},
		source:   &fakeSource{},
		history:  &memHistory{},
	}
	f.eng = New(Deps{
		Log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Catalogs: f.catalogs,
		Drafts:   f.drafts,
		Source:   f.source,
		History:  f.history,
	}, Options{DefaultSubdivision: "Центр", Location: time.UTC})
	if err := f.eng.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestInitSeedsDefaults(t *testing.T) {
	f := newFixture(t)
	s := f.eng.Catalog()
	if s.Subdivision != "Центр" || len(s.Services) != len(catalog.DefaultServices()) {
		t.Fatalf("catalog %+v", s)
	}
	if f.catalogs.replaced != 1 {
		t.Fatalf("replaced = %d", f.catalogs.replaced)
	}
	if s.Services[4].Family != catalog.FamilyWash {
		t.Fatal("defaults not normalized")
	}

	// повторный старт читает сохранённое и не перезаписывает
	eng2 := New(Deps{Catalogs: f.catalogs, Drafts: f.drafts, Source: f.source, History: f.history}, Options{})
	if err := eng2.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.catalogs.replaced != 1 {
		t.Fatalf("stored catalog rewritten: %d", f.catalogs.replaced)
	}
}

func TestUpdateAndView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, v, err := f.eng.Update(ctx, 1, func(d *order.Draft, _ catalog.Snapshot) error {
		d.Wheels.Light = true
		return order.SetQuantity(d, order.KindService, "2", 4) // Демонтаж R17 light
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.Total != 1000 || v.ServicesTotal != 1000 {
		t.Fatalf("totals %+v", v)
	}
	for _, s := range v.Services {
		if s.ID == "1" {
			t.Fatal("R16 service shown for R17 wheels")
		}
	}
	if len(v.Materials) != len(catalog.DefaultMaterials()) {
		t.Fatal("materials must not be filtered")
	}

	d, err := f.eng.Draft(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Wheels.Light || order.Total(d) != 1000 {
		t.Fatalf("draft not persisted: %+v", d.Wheels)
	}
}

func TestUpdateErrorDoesNotSave(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.eng.Update(context.Background(), 1, func(d *order.Draft, _ catalog.Snapshot) error {
		d.Client.Name = "x"
		return order.ErrUnknownItem
	})
	if !errors.Is(err, order.ErrUnknownItem) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := f.drafts.data[1]; ok {
		t.Fatal("draft saved despite error")
	}
}

func TestCorruptDraftFallsBack(t *testing.T) {
	f := newFixture(t)
	f.drafts.data[7] = []byte(`{broken`)
	d, err := f.eng.Draft(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Services) != len(f.eng.Catalog().Services) || order.Total(d) != 0 {
		t.Fatalf("fallback draft %+v", d)
	}
}

func TestRefreshSwapsAndReconciles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, _ = f.eng.Update(ctx, 1, func(d *order.Draft, s catalog.Snapshot) error {
		_ = order.ToggleMechanic(d, s.Mechanics[0], s)
		_ = order.SetQuantity(d, order.KindService, "6", 1)
		return order.SetQuantity(d, order.KindService, "5", 2)
	})

	f.source.snap = catalog.Snapshot{
		Mechanics: []string{"Новый"},
		Services: []catalog.Service{
			{ID: "6", Name: "Сложность с датчиком", Price: 600},
			{ID: "20", Name: "Монтаж R20 и более", Price: 900},
		},
	}
	snap, err := f.eng.Refresh(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Subdivision != "Центр" {
		t.Fatalf("subdivision %q", snap.Subdivision)
	}
	if !catalog.HasTechWash(snap.Services) || snap.Services[1].Radius != catalog.Minimum(20) {
		t.Fatalf("refreshed catalog not canonical: %+v", snap.Services)
	}

	d, _ := f.eng.Draft(ctx, 1)
	if len(d.Mechanics) != 0 {
		t.Fatalf("dismissed mechanic kept: %v", d.Mechanics)
	}
	for _, s := range d.Services {
		switch s.ID {
		case "5":
			t.Fatal("removed service survived")
		case "6":
			if s.Qty != 1 || s.Price != 600 {
				t.Fatalf("carried line %+v", s)
			}
		default:
			if s.Qty != 0 || s.Selected {
				t.Fatalf("new line %+v", s)
			}
		}
	}
}

func TestRefreshFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.eng.Catalog()
	_, _, _ = f.eng.Update(ctx, 1, func(d *order.Draft, _ catalog.Snapshot) error {
		return order.SetQuantity(d, order.KindService, "5", 2)
	})
	rawBefore := string(f.drafts.data[1])

	f.source.fetchErr = errors.New("network")
	if _, err := f.eng.Refresh(ctx, ""); err == nil {
		t.Fatal("expected error")
	}

	f.source.fetchErr = nil
	f.source.snap = catalog.Snapshot{Services: []catalog.Service{{ID: "1", Name: "a"}, {ID: "1", Name: "b"}}}
	if _, err := f.eng.Refresh(ctx, ""); !errors.Is(err, catalog.ErrDuplicateID) {
		t.Fatalf("err = %v", err)
	}

	f.source.snap = catalog.Snapshot{Services: []catalog.Service{{ID: "1", Name: "a"}}}
	f.catalogs.failNext = true
	if _, err := f.eng.Refresh(ctx, ""); err == nil {
		t.Fatal("expected store error")
	}

	after := f.eng.Catalog()
	if len(after.Services) != len(before.Services) || !after.LoadedAt.Equal(before.LoadedAt) {
		t.Fatal("catalog changed after failed refresh")
	}
	if string(f.drafts.data[1]) != rawBefore {
		t.Fatal("draft changed after failed refresh")
	}
}

func TestImportKeepsMechanics(t *testing.T) {
	f := newFixture(t)
	mechs := f.eng.Catalog().Mechanics
	snap, err := f.eng.Import(context.Background(), catalog.Snapshot{
		Services: []catalog.Service{{ID: "1", Name: "Монтаж R18 джип"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Mechanics) != len(mechs) {
		t.Fatalf("mechanics %v", snap.Mechanics)
	}
	if snap.Services[0].Category != catalog.CategoryJeep {
		t.Fatal("import not normalized")
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.eng.Submit(ctx, 1); !errors.Is(err, order.ErrNoMechanics) {
		t.Fatalf("err = %v", err)
	}

	_, _, _ = f.eng.Update(ctx, 1, func(d *order.Draft, s catalog.Snapshot) error {
		_ = order.ToggleMechanic(d, s.Mechanics[0], s)
		d.Client = order.Client{Name: "Клиент", Phone: "+7", Car: "Лада"}
		return order.Toggle(d, order.KindService, "5", true)
	})

	f.source.submitErr = errors.New("1c down")
	if _, err := f.eng.Submit(ctx, 1); err == nil {
		t.Fatal("expected error")
	}
	if d, _ := f.eng.Draft(ctx, 1); order.Total(d) == 0 {
		t.Fatal("draft lost after failed submit")
	}

	f.source.submitErr = nil
	number, err := f.eng.Submit(ctx, 1)
	if err != nil || number != "ЗН-1" {
		t.Fatalf("submit: %q %v", number, err)
	}
	if d, _ := f.eng.Draft(ctx, 1); order.Total(d) != 0 || len(d.Mechanics) != 0 {
		t.Fatal("draft not reset after submit")
	}
	if _, ok := f.drafts.data[1]; ok {
		t.Fatal("stored draft not deleted on reset")
	}

	today, err := f.eng.Today(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 2 || today[0].Status != order.StatusFailed || today[1].Status != order.StatusSent || today[1].Total != 800 {
		t.Fatalf("history %+v", today)
	}
}

func TestTechWashSurvivesRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.source.snap = catalog.Snapshot{
		Services: []catalog.Service{{ID: "6", Name: "Сложность с датчиком", Price: 600}},
	}
	snap, err := f.eng.Refresh(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	washID := catalog.SynthesizedTechWashID(snap.Services)
	if washID == "" {
		t.Fatalf("no synthesized wash: %+v", snap.Services)
	}
	if _, _, err := f.eng.Update(ctx, 1, func(d *order.Draft, _ catalog.Snapshot) error {
		return order.SetQuantity(d, order.KindService, washID, 4)
	}); err != nil {
		t.Fatal(err)
	}

	snap, err = f.eng.Refresh(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := catalog.SynthesizedTechWashID(snap.Services); got != washID {
		t.Fatalf("wash id changed: %q -> %q", washID, got)
	}
	d, err := f.eng.Draft(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range d.Services {
		if s.ID == washID && (s.Qty != 4 || !s.Selected) {
			t.Fatalf("wash selection lost: %+v", s)
		}
	}
}

func TestViewIgnoresIneligibleLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// выбор под R17, затем радиус сменился без сброса: так выглядит старый сохранённый черновик
	_, _, _ = f.eng.Update(ctx, 1, func(d *order.Draft, s catalog.Snapshot) error {
		_ = order.ToggleMechanic(d, s.Mechanics[0], s)
		d.Client = order.Client{Name: "Клиент", Phone: "+7", Car: "Лада"}
		d.Wheels.Light = true
		d.Wheels.Radius = 17
		_ = order.SetQuantity(d, order.KindService, "2", 4)
		return order.Toggle(d, order.KindService, "5", true)
	})
	_, v, err := f.eng.Update(ctx, 1, func(d *order.Draft, _ catalog.Snapshot) error {
		d.Wheels.Radius = 16
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.Total != v.MaterialsTotal+v.ServicesTotal || v.Total != 800 {
		t.Fatalf("totals %+v", v)
	}

	if _, err := f.eng.Submit(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if got := f.history.orders[0].Total; got != 800 {
		t.Fatalf("submitted total = %v, want 800", got)
	}
	for _, s := range f.source.submitted[0].Services {
		if s.ID == "2" && s.Qty != 0 {
			t.Fatalf("ineligible line submitted: %+v", s)
		}
	}
	if _, ok := f.drafts.data[1]; ok {
		t.Fatal("draft kept after submit")
	}
}
