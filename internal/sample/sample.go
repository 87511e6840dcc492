// Package sample holds the mutable MCMC state (Sample) and the change
// tracking (DirtySet) that lets the oracle re-evaluate only what a proposal
// actually touched.
package sample

// Matrix is a row-major boolean matrix with a fixed row width, used for
// area assignment Z, family assignment Φ, and — one layer deeper — sources U.
type Matrix struct {
	Rows, Cols int
	Data       []bool
}

// NewMatrix allocates a zeroed Matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// Row returns the backing slice for row r. Mutating it mutates the matrix.
func (m Matrix) Row(r int) []bool {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

// Clone returns an independent copy.
func (m Matrix) Clone() Matrix {
	data := make([]bool, len(m.Data))
	copy(data, m.Data)
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: data}
}

// FloatMatrix is a row-major float64 matrix, used for weights W and the
// probability tables P_global/P_area/P_family. Rows are independent
// simplices; sharing a row's backing slice across Samples is safe until
// one of them mutates it, which is what Sample.Copy's row-level
// copy-on-write exploits.
type FloatMatrix struct {
	Rows, Cols int
	Data       [][]float64 // Data[r] is the row r slice, possibly shared
}

// NewFloatMatrix allocates a FloatMatrix with independently-owned rows.
func NewFloatMatrix(rows, cols int) FloatMatrix {
	data := make([][]float64, rows)
	for r := range data {
		data[r] = make([]float64, cols)
	}
	return FloatMatrix{Rows: rows, Cols: cols, Data: data}
}

// Row returns row r's backing slice.
func (m FloatMatrix) Row(r int) []float64 {
	return m.Data[r]
}

// SetRow replaces row r's backing slice with a new owned copy of values.
func (m FloatMatrix) SetRow(r int, values []float64) {
	owned := make([]float64, len(values))
	copy(owned, values)
	m.Data[r] = owned
}

// ShallowClone returns a FloatMatrix sharing every row's backing slice with
// m. A caller that later wants to mutate row r in the clone must call
// SetRow first to give that row its own backing array.
func (m FloatMatrix) ShallowClone() FloatMatrix {
	data := make([][]float64, len(m.Data))
	copy(data, m.Data)
	return FloatMatrix{Rows: m.Rows, Cols: m.Cols, Data: data}
}

// Sample is the complete MCMC state at one step: area membership, the
// (immutable) family membership, mixture weights, the three probability
// tables, source assignment, and the dirty-set tracking what changed since
// the oracle last folded this sample's likelihood/prior into its cache.
//
// Sample values are always handled by pointer and never mutated in place
// once shared; Copy produces the next step's working copy.
type Sample struct {
	Generation int // bumped by every Mark* call; the oracle's cache key

	Areas    Matrix // K x N
	Families Matrix // M x N, immutable after construction

	Weights FloatMatrix // F x C
	PGlobal FloatMatrix // F x S (single row-group, arity-aware callers slice it)
	PArea   FloatMatrix // (K*F) x S, addressed area-major
	PFamily FloatMatrix // (M*F) x S, addressed family-major

	Sources Matrix // N x (F*C), addressed feature-major

	Dirty *DirtySet
}

// Copy returns a new Sample for mutation. Areas, Sources and Dirty are
// deep-cloned; Families is aliased; the FloatMatrix fields share every row
// slice with the receiver, so callers must replace a row with SetRow
// rather than writing through it, or they will corrupt the sample being
// copied from.
func (s *Sample) Copy() *Sample {
	return &Sample{
		Generation: s.Generation,
		Areas:      s.Areas.Clone(),
		Families:   s.Families, // never mutated, safe to alias
		Weights:    s.Weights.ShallowClone(),
		PGlobal:    s.PGlobal.ShallowClone(),
		PArea:      s.PArea.ShallowClone(),
		PFamily:    s.PFamily.ShallowClone(),
		Sources:    s.Sources.Clone(),
		Dirty:      s.Dirty.Clone(),
	}
}

// MarkEverythingChanged flags every field as fully dirty, used once when
// constructing the initial sample so the oracle's first evaluation has no
// cached state to reuse.
func (s *Sample) MarkEverythingChanged() {
	s.Dirty.MarkEverythingChanged()
	s.Generation++
}

// MarkWeights flags a mixture-weight row as changed.
func (s *Sample) MarkWeights(feature int) {
	s.Dirty.Mark(FieldWeights, feature)
	s.Generation++
}

// MarkArea flags an area row as changed.
func (s *Sample) MarkArea(area int) {
	s.Dirty.Mark(FieldAreas, area)
	s.Generation++
}

// MarkPGlobal flags that P_global changed.
func (s *Sample) MarkPGlobal() {
	s.Dirty.MarkAll(FieldPGlobal)
	s.Generation++
}

// MarkPArea flags an area's P_area row as changed.
func (s *Sample) MarkPArea(area int) {
	s.Dirty.Mark(FieldPArea, area)
	s.Generation++
}

// MarkPFamily flags a family's P_family row as changed.
func (s *Sample) MarkPFamily(family int) {
	s.Dirty.Mark(FieldPFamily, family)
	s.Generation++
}
