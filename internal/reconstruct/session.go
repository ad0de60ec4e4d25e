package reconstruct

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"dnarecon/internal/common"
	"dnarecon/internal/compare"
	"dnarecon/internal/diagnostic"
	"dnarecon/internal/dna"
	"dnarecon/internal/plan"
)

// Status is the outcome of one Reconstruct call.
type Status int

const (
	// StatusRemoved means the struct no longer exists; Data is nil.
	StatusRemoved Status = iota
	// StatusCopied means the layouts were equal and Data is a verbatim copy.
	StatusCopied
	// StatusReconstructed means Data was rebuilt member by member.
	StatusReconstructed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusCopied:
		return "copied"
	case StatusReconstructed:
		return "reconstructed"
	default:
		return common.UnknownStr
	}
}

// Result is the new-format array for one old struct array.
type Result struct {
	Status Status
	// Data holds Count new instances; nil when Status is StatusRemoved.
	Data []byte
	// NewStruct is the new table index, -1 when removed.
	NewStruct int
	Count     int
	// Warnings explain a removal and list dropped, zero-filled or retyped members.
	Warnings []diagnostic.Diagnostic
}

// Session reconstructs data for one (old, new) table pair. Plans are built
// on first use; call Prepare first when Reconstruct is called from several
// goroutines.
type Session struct {
	old *dna.Table
	new *dna.Table

	cmp     *compare.Result
	planner *plan.Planner

	alloc     Allocator
	log       *slog.Logger
	order     binary.ByteOrder
	renames   []dna.Rename
	maxBlocks int
}

// Option configures a Session.
type Option func(*Session)

// WithAllocator sets the allocator for reconstructed buffers.
func WithAllocator(a Allocator) Option {
	return func(s *Session) { s.alloc = a }
}

// WithLogger sets the logger for debug events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithByteOrder sets the byte order used to convert primitives. The old
// table's byte order is used by default.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(s *Session) { s.order = order }
}

// WithRenames applies versioning renames to the old table before comparing.
func WithRenames(renames ...dna.Rename) Option {
	return func(s *Session) { s.renames = append(s.renames, renames...) }
}

// WithMaxBlocks refuses block counts above n. Zero means no limit.
func WithMaxBlocks(n int) Option {
	return func(s *Session) { s.maxBlocks = n }
}

// NewSession compares the tables and prepares an empty plan cache.
func NewSession(oldTable, newTable *dna.Table, opts ...Option) (*Session, error) {
	s := &Session{
		old:   oldTable,
		new:   newTable,
		alloc: HeapAllocator{},
		log:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if len(s.renames) > 0 {
		patched, err := dna.ApplyRenames(s.old, s.renames)
		if err != nil {
			return nil, fmt.Errorf("failed to apply renames: %w", err)
		}

		s.old = patched
	}

	if s.order == nil {
		s.order = s.old.ByteOrder()
	}

	s.cmp = compare.Compare(s.old, s.new)
	s.planner = plan.NewPlanner(s.old, s.new, s.cmp)

	s.log.Debug("tables compared",
		"structs", s.cmp.Len(),
		"equal", s.cmp.Count(compare.Equal),
		"not_equal", s.cmp.Count(compare.NotEqual),
		"removed", s.cmp.Count(compare.Removed))

	return s, nil
}

// Old returns the old table, with renames applied.
func (s *Session) Old() *dna.Table { return s.old }

// New returns the new table.
func (s *Session) New() *dna.Table { return s.new }

// Compare returns the per-struct comparison.
func (s *Session) Compare() *compare.Result { return s.cmp }

// Planner returns the session's plan cache.
func (s *Session) Planner() *plan.Planner { return s.planner }

// Prepare builds every plan up front. Afterwards Reconstruct only reads
// shared state and may be called concurrently for different structs.
func (s *Session) Prepare() error {
	plans, err := s.planner.PlanAll()
	if err != nil {
		return err
	}

	s.log.Debug("plans prepared", "count", len(plans))

	return nil
}

// ReconstructByName is Reconstruct for the old struct with the given name,
// looked up literally and then through the old table's aliases.
func (s *Session) ReconstructByName(name string, count int, data []byte) (*Result, error) {
	idx, ok := s.old.FindStructWithAlias(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStruct, name)
	}

	return s.Reconstruct(idx, count, data, "")
}

// Reconstruct converts count old instances of old struct oldIndex held in
// data. allocName labels the allocation and defaults to the struct name.
// The whole array succeeds or fails; no partial output is returned.
func (s *Session) Reconstruct(oldIndex, count int, data []byte, allocName string) (*Result, error) {
	if oldIndex < 0 || oldIndex >= s.old.NumStructs() {
		return nil, fmt.Errorf("%w: index %d outside [0,%d)", ErrUnknownStruct, oldIndex, s.old.NumStructs())
	}

	name := s.old.StructName(oldIndex)
	if allocName == "" {
		allocName = name
	}

	if count < 0 {
		return nil, fmt.Errorf("%w: %s: negative block count %d", ErrCorruptData, name, count)
	}

	if s.maxBlocks > 0 && count > s.maxBlocks {
		return nil, fmt.Errorf("%w: %s: block count %d exceeds limit %d", ErrCorruptData, name, count, s.maxBlocks)
	}

	res := &Result{NewStruct: -1, Count: count, Warnings: s.structWarnings(name)}

	switch s.cmp.Flag(oldIndex) {
	case compare.Removed:
		s.log.Debug("struct dropped", "struct", name, "blocks", count)
		res.Status = StatusRemoved

		return res, nil

	case compare.Equal:
		size, _ := s.old.StructSize(oldIndex)
		if !spans(count, size, len(data)) {
			return nil, fmt.Errorf("%w: %s: %d blocks of %d bytes, got %d bytes", ErrCorruptData, name, count, size, len(data))
		}

		buf, err := s.allocate(len(data), allocName)
		if err != nil {
			return nil, err
		}

		copy(buf, data)

		res.Status = StatusCopied
		res.Data = buf
		res.NewStruct, _ = s.cmp.Match(oldIndex)

		s.log.Debug("struct copied", "struct", name, "blocks", count)

		return res, nil
	}

	p, err := s.planner.Plan(oldIndex)
	if err != nil {
		return nil, err
	}

	if !spans(count, p.OldSize, len(data)) {
		return nil, fmt.Errorf("%w: %s: %d blocks of %d bytes, got %d bytes", ErrCorruptData, name, count, p.OldSize, len(data))
	}

	if p.NewSize > 0 && count > math.MaxInt/p.NewSize {
		return nil, fmt.Errorf("%w: %s: %d blocks of %d bytes overflow", ErrCorruptData, name, count, p.NewSize)
	}

	buf, err := s.allocate(count*p.NewSize, allocName)
	if err != nil {
		return nil, err
	}

	if err := Execute(p, buf, data, count, s.order); err != nil {
		return nil, err
	}

	p.Walk(func(q *plan.Plan) {
		res.Warnings = append(res.Warnings, q.Diagnostics.Warnings...)
		res.Warnings = append(res.Warnings, q.Diagnostics.Infos...)
	})

	res.Status = StatusReconstructed
	res.Data = buf
	res.NewStruct = p.NewStruct

	s.log.Debug("struct reconstructed",
		"struct", name, "blocks", count, "old_size", p.OldSize, "new_size", p.NewSize, "steps", len(p.Steps))

	return res, nil
}

func (s *Session) allocate(size int, name string) ([]byte, error) {
	buf, err := s.alloc.Alloc(size, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAllocationFailure, name, err)
	}

	if len(buf) != size {
		return nil, fmt.Errorf("%w: %s: allocator returned %d bytes, want %d", ErrAllocationFailure, name, len(buf), size)
	}

	// Zero-fill is the baseline for every member not produced by a plan.
	clear(buf)

	return buf, nil
}

func (s *Session) structWarnings(name string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic

	for _, d := range s.cmp.Diagnostics.Warnings {
		if d.Struct == name {
			out = append(out, d)
		}
	}

	return out
}
