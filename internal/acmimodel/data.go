package acmimodel

// AcmiData is the fully decoded document: header, global metadata, the
// chronological frame list, and the per-entity property table. It is
// immutable after a Parser returns it; the trajectory builder and any
// concurrent readers never mutate it.
type AcmiData struct {
	IsValid          bool
	Header           Header
	GlobalProperties GlobalProperties
	TimeSpan         TimeSpan
	Entities         *EntityTable
	Frames           []Frame
}

// NewAcmiData returns a freshly initialized AcmiData for a new parse,
// valid until a decoding step proves otherwise.
func NewAcmiData() *AcmiData {
	return &AcmiData{
		IsValid:          true,
		GlobalProperties: NewGlobalProperties(),
		Entities:         NewEntityTable(),
	}
}

// EntityTable is the map from entity id to its EntityProps, preserving
// the order in which each id was first upserted, mirroring Scene's
// insertion-order contract.
type EntityTable struct {
	byID  map[uint64]*EntityProps
	order []uint64
}

// NewEntityTable returns an empty EntityTable.
func NewEntityTable() *EntityTable {
	return &EntityTable{byID: make(map[uint64]*EntityProps)}
}

// Get returns the EntityProps for id, if present.
func (t *EntityTable) Get(id uint64) (*EntityProps, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Put stores e under its own ID, appending to the insertion order the
// first time this id is seen.
func (t *EntityTable) Put(e *EntityProps) {
	if _, exists := t.byID[e.ID]; !exists {
		t.order = append(t.order, e.ID)
	}
	t.byID[e.ID] = e
}

// IDs returns every stored id in first-seen order.
func (t *EntityTable) IDs() []uint64 {
	out := make([]uint64, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports how many entities are stored.
func (t *EntityTable) Len() int { return len(t.order) }

// Each calls fn for every entity in first-seen order.
func (t *EntityTable) Each(fn func(e *EntityProps)) {
	for _, id := range t.order {
		if e, ok := t.byID[id]; ok {
			fn(e)
		}
	}
}
