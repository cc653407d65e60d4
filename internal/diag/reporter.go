package diag

// Reporter is the minimal contract analysis phases use to emit findings.
// Implementations: BagReporter (stores into a Bag) and NopReporter
// (disposable sink for speculative analysis).
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes every diagnostic into the wrapped Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards everything. Speculative on-demand analysis uses it so
// the authoritative pass over the same unit does not produce duplicates.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
