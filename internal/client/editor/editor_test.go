package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

type fakeRemote struct {
	calls []string

	detail   *models.CahierDetail
	saved    models.SaveCahierRequest
	savedID  int64
	nextID   int64
	nextComm int64

	deleteErr error
	addErr    error
	exportErr error
}

func (f *fakeRemote) GetCahier(ctx context.Context, id int64) (*models.CahierDetail, error) {
	f.calls = append(f.calls, "get")
	if f.detail == nil || f.detail.Cahier.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.detail, nil
}

func (f *fakeRemote) SaveCahier(ctx context.Context, id int64, req models.SaveCahierRequest) (*models.CahierDetail, error) {
	f.calls = append(f.calls, "save")
	f.saved, f.savedID = req, id
	if id == 0 {
		f.nextID++
		id = f.nextID
	}
	d := &models.CahierDetail{
		Cahier:     models.Cahier{ID: id, Evenement: req.Evenement},
		Indicatifs: req.Indicatifs,
	}
	for _, in := range req.Communications {
		c, err := in.Parse()
		if err != nil {
			return nil, err
		}
		if c.ID == 0 {
			f.nextComm++
			c.ID = f.nextComm
		}
		c.CahierID = id
		d.Communications = append(d.Communications, c)
	}
	f.detail = d
	return d, nil
}

func (f *fakeRemote) DeleteCommunication(ctx context.Context, cahierID, commID int64) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeRemote) Archive(ctx context.Context, id int64) error {
	f.calls = append(f.calls, "archive")
	return nil
}

func (f *fakeRemote) AddIndicatif(ctx context.Context, cahierID int64, label string) error {
	f.calls = append(f.calls, "add:"+label)
	return f.addErr
}

func (f *fakeRemote) RemoveIndicatif(ctx context.Context, cahierID int64, label string) error {
	f.calls = append(f.calls, "remove:"+label)
	return nil
}

func (f *fakeRemote) Export(ctx context.Context, id int64) ([]byte, string, error) {
	f.calls = append(f.calls, "export")
	return []byte("%PDF-"), "x.pdf", f.exportErr
}

type fakeTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped int
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped++
	return true
}

// clock hands out fakeTimers and fires the latest one on demand.
type clock struct {
	timers []*fakeTimer
}

func (c *clock) afterFunc(d time.Duration, f func()) stopper {
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *clock) fireLast() { c.timers[len(c.timers)-1].fn() }

func newEditor(r Remote) (*Editor, *clock) {
	c := &clock{}
	return New(r, Options{afterFunc: c.afterFunc}), c
}

var t0 = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestLoad(t *testing.T) {
	r := &fakeRemote{detail: &models.CahierDetail{
		Cahier:         models.Cahier{ID: 7, Evenement: "Incident A", Archived: true},
		Communications: []models.Communication{{ID: 1, Appele: "Alpha1", Heure: t0}},
		Indicatifs:     []string{"Alpha1"},
	}}
	e, _ := newEditor(r)

	require.NoError(t, e.Load(context.Background(), 7))
	assert.Equal(t, int64(7), e.ID())
	assert.True(t, e.Archived())
	assert.Equal(t, "Incident A", e.Event().Evenement)
	assert.Len(t, e.Rows(), 1)
	assert.Equal(t, []string{"Alpha1"}, e.Indicatifs())

	assert.ErrorIs(t, e.Load(context.Background(), 8), common.ErrorNotFound)
	assert.Equal(t, int64(7), e.ID())

	require.NoError(t, e.Load(context.Background(), 0))
	assert.Zero(t, e.ID())
	assert.Empty(t, e.Rows())
	assert.Empty(t, e.Indicatifs())
}

func TestAddRowAndSort(t *testing.T) {
	e, _ := newEditor(&fakeRemote{})

	for i, v := range []string{"Bravo", "alpha", "Alpha", "Bravo"} {
		idx := e.AddRow(t0.Add(time.Duration(i) * time.Minute))
		require.NoError(t, e.SetField(idx, ColAppele, v))
		require.NoError(t, e.SetField(idx, ColCommunication, string(rune('1'+i))))
	}

	comms := func() []string {
		var out []string
		for _, r := range e.Rows() {
			out = append(out, r.Communication)
		}
		return out
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, comms())

	require.NoError(t, e.ToggleSort(ColAppele))
	col, dir := e.Sort()
	assert.Equal(t, ColAppele, col)
	assert.Equal(t, Asc, dir)
	// bytewise: upper case first, ties keep insertion order
	assert.Equal(t, []string{"3", "1", "4", "2"}, comms())

	require.NoError(t, e.ToggleSort(ColAppele))
	assert.Equal(t, []string{"2", "1", "4", "3"}, comms())

	require.NoError(t, e.ToggleSort(ColAppele))
	_, dir = e.Sort()
	assert.Equal(t, Unsorted, dir)
	assert.Equal(t, []string{"1", "2", "3", "4"}, comms())

	require.NoError(t, e.ToggleSort(ColHeure))
	require.NoError(t, e.ToggleSort(ColHeure))
	assert.Equal(t, []string{"4", "3", "2", "1"}, comms())

	// a new row lands where the active sort puts it
	idx := e.AddRow(t0.Add(time.Hour))
	assert.Equal(t, 0, idx)

	require.NoError(t, e.ToggleSort(ColAppelant))
	_, dir = e.Sort()
	assert.Equal(t, Asc, dir)

	assert.ErrorIs(t, e.ToggleSort("frequence"), ErrUnknownColumn)
}

func TestSetField(t *testing.T) {
	e, _ := newEditor(&fakeRemote{})
	i := e.AddRow(t0)

	require.NoError(t, e.SetField(i, ColHeure, "19/10/2026, 16:30:00"))
	assert.Equal(t, time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC), e.Rows()[i].Heure.UTC())

	var verr *common.ValidationError
	assert.True(t, errors.As(e.SetField(i, ColHeure, "demain"), &verr))
	assert.True(t, errors.As(e.SetField(i, ColHeure, " "), &verr))
	assert.ErrorIs(t, e.SetField(5, ColAppele, "x"), ErrNoSuchRow)
	assert.ErrorIs(t, e.SetField(i, "x", "x"), ErrUnknownColumn)
}

func TestProposalsAreDebounced(t *testing.T) {
	r := &fakeRemote{}
	e, clk := newEditor(r)
	require.NoError(t, e.Save(context.Background()))
	require.NoError(t, e.RegisterCallSign(context.Background(), "Base"))

	i := e.AddRow(t0)
	require.NoError(t, e.SetField(i, ColAppele, "Al"))
	require.NoError(t, e.SetField(i, ColAppele, "Alpha1"))
	require.NoError(t, e.SetField(i, ColAppelant, "Base"))
	require.Len(t, clk.timers, 3)
	assert.Equal(t, 1, clk.timers[0].stopped)

	// a superseded timer does nothing
	clk.timers[0].fn()
	assert.Empty(t, e.Proposals())

	clk.fireLast()
	assert.Equal(t, []string{"Alpha1"}, e.Proposals())

	// nothing was sent to the server
	assert.Equal(t, []string{"save", "add:Base"}, r.calls)

	require.NoError(t, e.SetField(i, ColAppelant, "Alpha1"))
	clk.fireLast()
	assert.Equal(t, []string{"Alpha1"}, e.Proposals())

	require.NoError(t, e.RegisterCallSign(context.Background(), " Alpha1 "))
	assert.Empty(t, e.Proposals())
	assert.Equal(t, []string{"Base", "Alpha1"}, e.Indicatifs())

	require.NoError(t, e.SetField(i, ColAppele, "Zulu"))
	clk.fireLast()
	e.DismissProposal("Zulu")
	assert.Empty(t, e.Proposals())
}

func TestProposalsSurviveFirstSave(t *testing.T) {
	ctx := context.Background()
	r := &fakeRemote{}
	e, clk := newEditor(r)

	i := e.AddRow(t0)
	require.NoError(t, e.SetField(i, ColAppele, "Alpha1"))
	clk.fireLast()
	require.Equal(t, []string{"Alpha1"}, e.Proposals())
	assert.ErrorIs(t, e.RegisterCallSign(ctx, "Alpha1"), common.ErrNotSaved)

	// typed but not yet debounced when saving
	require.NoError(t, e.SetField(i, ColAppelant, "Bravo2"))

	require.NoError(t, e.Save(ctx))
	assert.Equal(t, int64(1), e.ID())
	assert.Equal(t, []string{"Alpha1", "Bravo2"}, e.Proposals())
	assert.Empty(t, e.Indicatifs())

	require.NoError(t, e.RegisterCallSign(ctx, "Alpha1"))
	assert.Equal(t, []string{"Bravo2"}, e.Proposals())

	// labels the server already knows are no longer proposed
	require.NoError(t, e.Save(ctx))
	assert.Equal(t, []string{"Alpha1"}, r.saved.Indicatifs)
	assert.Equal(t, []string{"Bravo2"}, e.Proposals())
}

func TestOnPropose(t *testing.T) {
	clk := &clock{}
	var got []string
	e := New(&fakeRemote{}, Options{
		afterFunc: clk.afterFunc,
		OnPropose: func(labels []string) { got = labels },
	})
	i := e.AddRow(t0)
	require.NoError(t, e.SetField(i, ColAppele, "Charlie"))
	require.NoError(t, e.SetField(i, ColAppelant, "  "))
	clk.fireLast()
	assert.Equal(t, []string{"Charlie"}, got)
}

func TestDebounceWithRealTimer(t *testing.T) {
	e := New(&fakeRemote{}, Options{Debounce: 10 * time.Millisecond})
	i := e.AddRow(t0)
	require.NoError(t, e.SetField(i, ColAppele, "Delta"))
	assert.Eventually(t, func() bool { return len(e.Proposals()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeleteRow(t *testing.T) {
	ctx := context.Background()
	r := &fakeRemote{}
	e, _ := newEditor(r)

	e.AddRow(t0)
	require.NoError(t, e.DeleteRow(ctx, 0))
	assert.Empty(t, e.Rows())
	assert.Empty(t, r.calls, "an unsaved row never reaches the server")

	e.AddRow(t0)
	e.AddRow(t0.Add(time.Minute))
	require.NoError(t, e.Save(ctx))
	require.Len(t, e.Rows(), 2)

	r.deleteErr = errors.New("boom")
	assert.EqualError(t, e.DeleteRow(ctx, 0), "boom")
	assert.Len(t, e.Rows(), 2)

	r.deleteErr = nil
	require.NoError(t, e.DeleteRow(ctx, 0))
	require.Len(t, e.Rows(), 1)
	assert.True(t, t0.Add(time.Minute).Equal(e.Rows()[0].Heure))

	assert.ErrorIs(t, e.DeleteRow(ctx, 3), ErrNoSuchRow)
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	r := &fakeRemote{}
	e, _ := newEditor(r)

	e.SetEvent(models.EventDetailsRequest{Evenement: "Incident A", Poste: "P1"})
	i := e.AddRow(t0)
	require.NoError(t, e.SetField(i, ColAppele, "Alpha1"))

	require.NoError(t, e.Save(ctx))
	assert.Zero(t, r.savedID)
	assert.Equal(t, int64(1), e.ID())
	require.Len(t, e.Rows(), 1)
	assert.Equal(t, int64(1), e.Rows()[0].ID)
	assert.NotNil(t, r.saved.Indicatifs)

	e.AddRow(t0.Add(time.Minute))
	require.NoError(t, e.Save(ctx))
	assert.Equal(t, int64(1), r.savedID)
	require.Len(t, r.saved.Communications, 2)
	assert.Equal(t, int64(1), r.saved.Communications[0].ID)
	assert.Zero(t, r.saved.Communications[1].ID)
	assert.Equal(t, "Incident A", e.Event().Evenement)
}

func TestRequiresSavedCahier(t *testing.T) {
	ctx := context.Background()
	r := &fakeRemote{}
	e, _ := newEditor(r)

	assert.ErrorIs(t, e.Archive(ctx), common.ErrNotSaved)
	assert.ErrorIs(t, e.RegisterCallSign(ctx, "Alpha1"), common.ErrNotSaved)
	assert.ErrorIs(t, e.RemoveCallSign(ctx, "Alpha1"), common.ErrNotSaved)
	_, _, err := e.Export(ctx)
	assert.ErrorIs(t, err, common.ErrNotSaved)
	assert.Empty(t, r.calls)

	require.NoError(t, e.Save(ctx))
	require.NoError(t, e.Archive(ctx))
	assert.True(t, e.Archived())

	var verr *common.ValidationError
	assert.True(t, errors.As(e.RegisterCallSign(ctx, "  "), &verr))

	r.addErr = common.ErrorAlreadyExists
	assert.ErrorIs(t, e.RegisterCallSign(ctx, "Alpha1"), common.ErrorAlreadyExists)
	assert.Empty(t, e.Indicatifs())

	r.addErr = nil
	require.NoError(t, e.RegisterCallSign(ctx, "Alpha1"))
	require.NoError(t, e.RemoveCallSign(ctx, "Alpha1"))
	assert.Empty(t, e.Indicatifs())

	data, name, err := e.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x.pdf", name)
	assert.Equal(t, []byte("%PDF-"), data)
}
