// Package editor models the cahier editor screen: event details, the
// communication rows with their sort order, and the call-signs of the cahier.
// Everything that must reach the server goes through a Remote.
package editor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

// DefaultDebounce is the quiet period after the last keystroke in a
// call-sign field before its value is proposed.
const DefaultDebounce = 800 * time.Millisecond

const msgIndicatifRequired = "L'indicatif est requis"

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoSuchRow     = errors.New("no such row")
)

// Remote is the server side of the editor. *client.Client implements it.
type Remote interface {
	GetCahier(ctx context.Context, id int64) (*models.CahierDetail, error)
	SaveCahier(ctx context.Context, id int64, req models.SaveCahierRequest) (*models.CahierDetail, error)
	DeleteCommunication(ctx context.Context, cahierID, commID int64) error
	Archive(ctx context.Context, id int64) error
	AddIndicatif(ctx context.Context, cahierID int64, label string) error
	RemoveIndicatif(ctx context.Context, cahierID int64, label string) error
	Export(ctx context.Context, id int64) ([]byte, string, error)
}

type Column string

const (
	ColAppele        Column = "appele"
	ColAppelant      Column = "appelant"
	ColHeure         Column = "heure"
	ColCommunication Column = "communication"
)

type Direction int

const (
	Unsorted Direction = iota
	Asc
	Desc
)

type row struct {
	seq int
	models.Communication
}

type cell struct {
	row *row
	col Column
}

func (c cell) label() string {
	if c.col == ColAppelant {
		return strings.TrimSpace(c.row.Appelant)
	}
	return strings.TrimSpace(c.row.Appele)
}

// Options tunes an Editor. Zero values pick the defaults.
type Options struct {
	Debounce time.Duration
	// OnPropose is called, outside the editor lock, with the labels that
	// became proposals when a debounce period ends.
	OnPropose func(labels []string)

	afterFunc func(d time.Duration, f func()) stopper
}

type stopper interface{ Stop() bool }

// Editor is safe for concurrent use.
type Editor struct {
	mu     sync.Mutex
	remote Remote
	opts   Options

	id         int64
	archived   bool
	event      models.EventDetailsRequest
	rows       []*row // insertion order
	nextSeq    int
	indicatifs []string
	proposals  []string

	sortCol Column
	sortDir Direction

	pending map[cell]struct{}
	timer   stopper
	gen     int
}

func New(remote Remote, opts Options) *Editor {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.afterFunc == nil {
		opts.afterFunc = func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) }
	}
	return &Editor{remote: remote, opts: opts, pending: map[cell]struct{}{}}
}

// Load replaces the editor state with cahier id, or with a blank cahier
// when id is zero.
func (e *Editor) Load(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == 0 {
		e.reset(nil)
		return nil
	}

	d, err := e.remote.GetCahier(ctx, id)
	if err != nil {
		return err
	}
	e.reset(d)
	return nil
}

func (e *Editor) reset(d *models.CahierDetail) {
	e.stopTimer()
	e.id, e.archived = 0, false
	e.event = models.EventDetailsRequest{}
	e.rows = nil
	e.indicatifs = nil
	e.proposals = nil
	if d != nil {
		e.apply(d)
	}
}

// apply installs the authoritative state returned by the server. Proposals
// and labels still waiting for the debounce survive unless the server now
// knows them.
func (e *Editor) apply(d *models.CahierDetail) {
	var waiting []string
	for c := range e.pending {
		waiting = append(waiting, c.label())
	}
	sort.Strings(waiting)
	carried := append(append([]string(nil), e.proposals...), waiting...)

	e.stopTimer()
	e.id = d.Cahier.ID
	e.archived = d.Cahier.Archived
	e.event = models.EventDetailsRequest{
		Evenement:   d.Cahier.Evenement,
		Redacteur:   d.Cahier.Redacteur,
		Poste:       d.Cahier.Poste,
		Frequence:   d.Cahier.Frequence,
		Responsable: d.Cahier.Responsable,
	}
	e.rows = e.rows[:0]
	for _, c := range d.Communications {
		e.rows = append(e.rows, e.newRow(c))
	}
	e.indicatifs = append([]string(nil), d.Indicatifs...)

	e.proposals = nil
	for _, label := range carried {
		if label == "" || e.known(label) || contains(e.proposals, label) {
			continue
		}
		e.proposals = append(e.proposals, label)
	}
}

func (e *Editor) newRow(c models.Communication) *row {
	e.nextSeq++
	return &row{seq: e.nextSeq, Communication: c}
}

func (e *Editor) stopTimer() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	clear(e.pending)
}

// ID is zero until the cahier has been saved once.
func (e *Editor) ID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) Archived() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.archived
}

func (e *Editor) Event() models.EventDetailsRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.event
}

func (e *Editor) SetEvent(ev models.EventDetailsRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.event = ev
}

// Rows returns the communications in display order.
func (e *Editor) Rows() []models.Communication {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.view()
	out := make([]models.Communication, len(view))
	for i, r := range view {
		out[i] = r.Communication
	}
	return out
}

func (e *Editor) Indicatifs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.indicatifs...)
}

// Proposals returns labels typed in a call-sign field that are not
// registered call-signs of the cahier.
func (e *Editor) Proposals() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.proposals...)
}

func (e *Editor) Sort() (Column, Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortCol, e.sortDir
}

// view returns the rows in display order. Ties keep insertion order.
func (e *Editor) view() []*row {
	out := append([]*row(nil), e.rows...)
	if e.sortDir == Unsorted {
		return out
	}

	less := columnLess(e.sortCol)
	if e.sortDir == Desc {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func columnLess(col Column) func(a, b *row) bool {
	switch col {
	case ColAppele:
		return func(a, b *row) bool { return a.Appele < b.Appele }
	case ColAppelant:
		return func(a, b *row) bool { return a.Appelant < b.Appelant }
	case ColHeure:
		return func(a, b *row) bool { return a.Heure.Before(b.Heure) }
	default:
		return func(a, b *row) bool { return a.Communication.Communication < b.Communication.Communication }
	}
}

func validColumn(col Column) bool {
	switch col {
	case ColAppele, ColAppelant, ColHeure, ColCommunication:
		return true
	}
	return false
}

// ToggleSort cycles the active column asc, desc, unsorted. Another column
// becomes the active one, ascending.
func (e *Editor) ToggleSort(col Column) error {
	if !validColumn(col) {
		return ErrUnknownColumn
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if col != e.sortCol || e.sortDir == Unsorted {
		e.sortCol, e.sortDir = col, Asc
		return nil
	}
	switch e.sortDir {
	case Asc:
		e.sortDir = Desc
	case Desc:
		e.sortCol, e.sortDir = "", Unsorted
	}
	return nil
}

// AddRow appends a blank communication stamped now and returns its
// position in display order.
func (e *Editor) AddRow(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.newRow(models.Communication{Heure: now})
	e.rows = append(e.rows, r)
	for i, v := range e.view() {
		if v == r {
			return i
		}
	}
	return len(e.rows) - 1
}

func (e *Editor) at(i int) (*row, error) {
	view := e.view()
	if i < 0 || i >= len(view) {
		return nil, ErrNoSuchRow
	}
	return view[i], nil
}

// SetField edits the row at display position i. Heure takes any layout
// accepted by the API. Editing a call-sign field restarts the debounce
// period after which unknown labels are proposed.
func (e *Editor) SetField(i int, col Column, value string) error {
	if !validColumn(col) {
		return ErrUnknownColumn
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.at(i)
	if err != nil {
		return err
	}

	switch col {
	case ColAppele:
		r.Appele = value
	case ColAppelant:
		r.Appelant = value
	case ColCommunication:
		r.Communication.Communication = value
	case ColHeure:
		c, err := models.CommunicationInput{Heure: strings.TrimSpace(value)}.Parse()
		if err != nil || c.Heure.IsZero() {
			return common.NewValidationError("Heure invalide")
		}
		r.Heure = c.Heure
		return nil
	}

	if col == ColAppele || col == ColAppelant {
		e.pending[cell{row: r, col: col}] = struct{}{}
		if e.timer != nil {
			e.timer.Stop()
		}
		e.gen++
		gen := e.gen
		e.timer = e.opts.afterFunc(e.opts.Debounce, func() { e.flushProposals(gen) })
	}
	return nil
}

func (e *Editor) flushProposals(gen int) {
	e.mu.Lock()
	if gen != e.gen {
		// superseded by a later keystroke or a reload
		e.mu.Unlock()
		return
	}
	var added []string
	for c := range e.pending {
		label := c.label()
		if label == "" || e.known(label) || contains(e.proposals, label) || contains(added, label) {
			continue
		}
		added = append(added, label)
	}
	sort.Strings(added)
	e.proposals = append(e.proposals, added...)
	clear(e.pending)
	e.timer = nil
	cb := e.opts.OnPropose
	e.mu.Unlock()

	if cb != nil && len(added) > 0 {
		cb(added)
	}
}

func (e *Editor) known(label string) bool {
	return contains(e.indicatifs, label)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// DeleteRow removes the row at display position i. A persisted row is
// deleted on the server first; local state only changes on success.
func (e *Editor) DeleteRow(ctx context.Context, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.at(i)
	if err != nil {
		return err
	}

	if r.ID != 0 {
		if err := e.remote.DeleteCommunication(ctx, e.id, r.ID); err != nil {
			return err
		}
	}

	for k, v := range e.rows {
		if v == r {
			e.rows = append(e.rows[:k], e.rows[k+1:]...)
			break
		}
	}
	for c := range e.pending {
		if c.row == r {
			delete(e.pending, c)
		}
	}
	return nil
}

// Save sends the whole cahier and replaces the local state with what the
// server stored.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	req := models.SaveCahierRequest{
		EventDetailsRequest: e.event,
		Communications:      make([]models.CommunicationInput, 0, len(e.rows)),
		Indicatifs:          append([]string{}, e.indicatifs...),
	}
	for _, r := range e.rows {
		req.Communications = append(req.Communications, models.NewCommunicationInput(r.Communication))
	}

	d, err := e.remote.SaveCahier(ctx, e.id, req)
	if err != nil {
		return err
	}
	e.apply(d)
	return nil
}

func (e *Editor) Archive(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.id == 0 {
		return common.ErrNotSaved
	}
	if err := e.remote.Archive(ctx, e.id); err != nil {
		return err
	}
	e.archived = true
	return nil
}

// RegisterCallSign adds label to the call-signs of the saved cahier.
func (e *Editor) RegisterCallSign(ctx context.Context, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.id == 0 {
		return common.ErrNotSaved
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return common.NewValidationError(msgIndicatifRequired)
	}
	if err := e.remote.AddIndicatif(ctx, e.id, label); err != nil {
		return err
	}
	e.indicatifs = append(e.indicatifs, label)
	e.proposals = remove(e.proposals, label)
	return nil
}

func (e *Editor) RemoveCallSign(ctx context.Context, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.id == 0 {
		return common.ErrNotSaved
	}
	if err := e.remote.RemoveIndicatif(ctx, e.id, label); err != nil {
		return err
	}
	e.indicatifs = remove(e.indicatifs, label)
	return nil
}

// DismissProposal forgets a proposed label without registering it.
func (e *Editor) DismissProposal(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.proposals = remove(e.proposals, label)
}

// Export returns the PDF of the saved cahier and its file name.
func (e *Editor) Export(ctx context.Context) ([]byte, string, error) {
	e.mu.Lock()
	id := e.id
	e.mu.Unlock()

	if id == 0 {
		return nil, "", common.ErrNotSaved
	}
	return e.remote.Export(ctx, id)
}
