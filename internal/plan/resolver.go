package plan

import (
	"errors"
	"fmt"

	"dnarecon/internal/compare"
	"dnarecon/internal/diagnostic"
	"dnarecon/internal/dna"
	"dnarecon/internal/match"
)

// ErrNotPlannable is returned when a plan is requested for a struct whose
// comparison flag is not compare.NotEqual.
var ErrNotPlannable = errors.New("struct does not need a reconstruction plan")

// Planner builds and caches plans for one (old, new) table pair.
type Planner struct {
	old *dna.Table
	new *dna.Table
	cmp *compare.Result
	// plans caches plans by old struct index. A plan is stored before its
	// steps are filled so nested lookups never rebuild it.
	plans map[int]*Plan
}

// NewPlanner creates a Planner. cmp must come from compare.Compare on the
// same two tables.
func NewPlanner(oldTable, newTable *dna.Table, cmp *compare.Result) *Planner {
	return &Planner{
		old:   oldTable,
		new:   newTable,
		cmp:   cmp,
		plans: make(map[int]*Plan),
	}
}

// Compare returns the comparison the planner was built with.
func (p *Planner) Compare() *compare.Result { return p.cmp }

// Plan returns the plan for old struct s, building it on first use.
func (p *Planner) Plan(s int) (*Plan, error) {
	if s < 0 || s >= p.old.NumStructs() {
		return nil, fmt.Errorf("old struct index %d outside [0,%d)", s, p.old.NumStructs())
	}

	if cached, ok := p.plans[s]; ok {
		return cached, nil
	}

	if flag := p.cmp.Flag(s); flag != compare.NotEqual {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotPlannable, p.old.StructName(s), flag)
	}

	ns, _ := p.cmp.Match(s)

	oldSize, _ := p.old.StructSize(s)
	newSize, _ := p.new.StructSize(ns)

	result := &Plan{
		Name:      p.old.StructName(s),
		OldStruct: s,
		NewStruct: ns,
		OldSize:   oldSize,
		NewSize:   newSize,
	}
	p.plans[s] = result

	used := make([]bool, p.old.MemberCount(s))

	for j := range p.new.MemberCount(ns) {
		nm := p.new.MemberAt(ns, j)

		i, ok := p.findOldMember(s, nm.Name.Base)
		if !ok {
			newOff, _ := p.new.MemberOffset(ns, j)
			result.Steps = append(result.Steps, zeroStep(nm.Name.Raw, newOff, "not in the old layout"))
			result.Diagnostics.AddInfo(diagnostic.CodeMemberZeroFilled, "not in the old layout, zero-filled",
				result.Name, nm.Name.Raw)

			continue
		}

		used[i] = true

		step, err := p.memberStep(s, i, ns, j)
		if err != nil {
			delete(p.plans, s)
			return nil, fmt.Errorf("failed to plan %s.%s: %w", result.Name, nm.Name.Raw, err)
		}

		if step.Kind == StepZero {
			result.Diagnostics.AddWarning(diagnostic.CodeMemberKindChanged, step.Reason+", zero-filled",
				result.Name, nm.Name.Raw)
		}

		result.Steps = append(result.Steps, step)
	}

	p.recordDropped(result, used)
	result.Steps = mergeCopies(result.Steps)

	return result, nil
}

// PlanAll builds the plan of every NotEqual old struct, in index order.
func (p *Planner) PlanAll() ([]*Plan, error) {
	var plans []*Plan

	for s := range p.old.NumStructs() {
		if p.cmp.Flag(s) != compare.NotEqual {
			continue
		}

		pl, err := p.Plan(s)
		if err != nil {
			return nil, err
		}

		plans = append(plans, pl)
	}

	return plans, nil
}

func (p *Planner) findOldMember(s int, base string) (int, bool) {
	for i := range p.old.MemberCount(s) {
		if p.old.MemberAt(s, i).Name.Base == base {
			return i, true
		}
	}

	return -1, false
}

func (p *Planner) recordDropped(result *Plan, used []bool) {
	var newNames []string

	for j := range p.new.MemberCount(result.NewStruct) {
		newNames = append(newNames, p.new.MemberAt(result.NewStruct, j).Name.Base)
	}

	for i, ok := range used {
		if ok {
			continue
		}

		om := p.old.MemberAt(result.OldStruct, i)
		result.Dropped = append(result.Dropped, om.Name.Raw)
		result.Diagnostics.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticInfo,
			Code:     diagnostic.CodeMemberDropped,
			Message:  "not in the new layout, dropped",
			Struct:   result.Name,
			Member:   om.Name.Raw,
			Suggestions: match.Suggest(om.Name.Base, newNames,
				compare.SuggestLimit, compare.SuggestThreshold),
		})
	}
}

func zeroStep(member string, newOffset int, reason string) Step {
	return Step{Kind: StepZero, Members: []string{member}, NewOffset: newOffset, Reason: reason}
}
