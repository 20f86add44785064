package table

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownAction = errors.New("unknown action")
)

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 10

// View is one rendered page of the filtered and sorted rows.
type View struct {
	Rows      []DisplayRow
	PageIndex int
	PageCount int
	PageSize  int
	// Filtered counts rows passing both filters; Total counts all rows.
	Filtered int
	Total    int
	// From and To are 1-based bounds of Rows within the filtered set,
	// both zero when it is empty.
	From    int
	To      int
	CanPrev bool
	CanNext bool

	GlobalFilter string
	StatusFilter string
	Sort         SortSpec
}

// Engine holds the view state of one listing over entities of type E.
// It never mutates the entities it is given.
type Engine[E any] struct {
	project Projector[E]

	mu       sync.Mutex
	rows     []DisplayRow
	index    map[string]E
	filtered []DisplayRow

	global   string
	status   string
	sort     SortSpec
	page     int
	pageSize int

	actions map[Action]func(E)

	collator *collate.Collator
	fold     cases.Caser
}

func New[E any](project Projector[E], pageSize int) *Engine[E] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine[E]{
		project:  project,
		index:    map[string]E{},
		status:   StatusAll,
		pageSize: pageSize,
		actions:  map[Action]func(E){},
		collator: collate.New(language.English),
		fold:     cases.Fold(),
	}
}

func NewUsers(pageSize int) *Engine[models.User] {
	return New[models.User](ProjectUser, pageSize)
}

func NewMatches(pageSize int) *Engine[models.Match] {
	return New[models.Match](ProjectMatch, pageSize)
}

// SetData replaces the source collection. Rows and the id index are derived
// from it again; filters, sort and page survive, the page clamped.
func (e *Engine[E]) SetData(entities []E) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rows = make([]DisplayRow, 0, len(entities))
	e.index = make(map[string]E, len(entities))
	for _, ent := range entities {
		row := e.project(ent)
		e.rows = append(e.rows, row)
		e.index[row.ID] = ent
	}
	e.refresh()
}

// SetGlobalFilter sets the free-text search. Empty matches everything.
func (e *Engine[E]) SetGlobalFilter(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.global = text
	e.refresh()
}

// SetStatusFilter keeps only rows whose status tag equals s, ignoring case.
// "all" and "" disable it.
func (e *Engine[E]) SetStatusFilter(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s == "" {
		s = StatusAll
	}
	e.status = s
	e.refresh()
}

// ToggleSort activates column c: a new column sorts ascending, the current
// one moves to descending and then back to source order.
func (e *Engine[E]) ToggleSort(c Column) SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sort = e.sort.next(c)
	e.refresh()
	return e.sort
}

func (e *Engine[E]) SetSort(s SortSpec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s.Direction == Unsorted {
		s = SortSpec{}
	}
	e.sort = s
	e.refresh()
}

func (e *Engine[E]) SetPageSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= 0 {
		n = DefaultPageSize
	}
	e.pageSize = n
	e.clamp()
}

// SetPage moves to page i, clamped into range, and returns the page shown.
func (e *Engine[E]) SetPage(i int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page = i
	e.clamp()
	return e.page
}

func (e *Engine[E]) NextPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page++
	e.clamp()
	return e.page
}

func (e *Engine[E]) PrevPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page--
	e.clamp()
	return e.page
}

func (e *Engine[E]) FirstPage() int {
	return e.SetPage(0)
}

func (e *Engine[E]) LastPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page = e.lastPage()
	return e.page
}

func (e *Engine[E]) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.filtered)
	v := View{
		PageIndex:    e.page,
		PageCount:    e.pageCount(),
		PageSize:     e.pageSize,
		Filtered:     n,
		Total:        len(e.rows),
		GlobalFilter: e.global,
		StatusFilter: e.status,
		Sort:         e.sort,
	}

	start := min(e.page*e.pageSize, n)
	end := min(start+e.pageSize, n)
	v.Rows = slices.Clone(e.filtered[start:end])
	if end > start {
		v.From, v.To = start+1, end
	}
	v.CanPrev = e.page > 0
	v.CanNext = e.page < v.PageCount-1
	return v
}

// Row returns the current row with the given id, filtered out or not.
func (e *Engine[E]) Row(id string) (DisplayRow, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rows {
		if r.ID == id {
			return r, true
		}
	}
	return DisplayRow{}, false
}

// Entity resolves a row id to the entity it was projected from.
func (e *Engine[E]) Entity(id string) (E, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.index[id]
	return ent, ok
}

func (e *Engine[E]) refresh() {
	out := make([]DisplayRow, 0, len(e.rows))
	needle := e.fold.String(e.global)
	for _, r := range e.rows {
		if e.matchStatus(r) && e.matchText(r, needle) {
			out = append(out, r)
		}
	}

	if e.sort.Active() {
		c, desc := e.sort.Column, e.sort.Direction == Descending
		slices.SortStableFunc(out, func(a, b DisplayRow) int {
			n := compareRows(e.collator, c, a, b)
			if desc {
				return -n
			}
			return n
		})
	}

	e.filtered = out
	e.clamp()
}

func (e *Engine[E]) matchStatus(r DisplayRow) bool {
	if strings.EqualFold(e.status, StatusAll) {
		return true
	}
	return strings.EqualFold(r.StatusTag, e.status)
}

func (e *Engine[E]) matchText(r DisplayRow, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range [...]string{
		r.Name, strconv.Itoa(r.Age), r.City, r.MaritalStatus, r.StatusTag, r.Email,
	} {
		if strings.Contains(e.fold.String(field), needle) {
			return true
		}
	}
	return false
}

func (e *Engine[E]) pageCount() int {
	return (len(e.filtered) + e.pageSize - 1) / e.pageSize
}

func (e *Engine[E]) lastPage() int {
	return max(0, e.pageCount()-1)
}

func (e *Engine[E]) clamp() {
	e.page = min(max(e.page, 0), e.lastPage())
}
