package domain

// Plan is an ordered (or batched) set of operations produced by the
// planner for a single install/remove/switch request. Sequential plans
// populate Operations; plans the dependency graph found safe to
// parallelize populate Batches instead (§4.12 step 4/5).
type Plan struct {
	Operations []Operation

	// Batches holds groups of operations that may run concurrently within
	// each group, with groups themselves executed in order. Set only when
	// the dependency graph permits parallel execution.
	Batches [][]Operation

	// PackageOperations maps a package name to the IDs of operations this
	// plan performs on its behalf, for progress reporting and partial
	// cancellation bookkeeping.
	PackageOperations map[string][]OperationID

	// Conflicts and Warnings surfaced while the plan was built.
	Conflicts []ConflictInfo
	Warnings  []WarningInfo
}

// Validate checks every operation in the plan.
func (p Plan) Validate() error {
	for _, op := range p.Operations {
		if err := op.Validate(); err != nil {
			return err
		}
	}
	for _, batch := range p.Batches {
		for _, op := range batch {
			if err := op.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CanParallelize reports whether this plan has batches to execute
// concurrently rather than a single sequential operation list.
func (p Plan) CanParallelize() bool {
	return len(p.Batches) > 0
}

// ParallelBatches returns the plan's batches.
func (p Plan) ParallelBatches() [][]Operation {
	return p.Batches
}

// PackageNames returns the names of packages this plan touches.
func (p Plan) PackageNames() []string {
	names := make([]string, 0, len(p.PackageOperations))
	for name := range p.PackageOperations {
		names = append(names, name)
	}
	return names
}

// HasPackage reports whether the plan has any operations for pkg.
func (p Plan) HasPackage(pkg string) bool {
	_, ok := p.PackageOperations[pkg]
	return ok
}

// OperationCountForPackage returns how many operations the plan performs
// for pkg.
func (p Plan) OperationCountForPackage(pkg string) int {
	return len(p.PackageOperations[pkg])
}

// IsEmpty reports whether the plan has no work at all.
func (p Plan) IsEmpty() bool {
	return len(p.Operations) == 0 && len(p.Batches) == 0
}
