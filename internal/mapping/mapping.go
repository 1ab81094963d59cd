// Package mapping resolves upstream conids to instrument descriptors.
package mapping

import "github.com/atmx/options-flow/internal/model"

// Unknown is returned for conids that have not been mapped yet.
var Unknown = model.InstrumentDescriptor{Symbol: "Unknown", InstrumentType: "OPT"}

// Resolver is a conid → descriptor table. Descriptors are replaced
// wholesale, never merged. Not safe for concurrent use; the session
// serializes access.
type Resolver struct {
	byConid map[int64]model.InstrumentDescriptor
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{byConid: make(map[int64]model.InstrumentDescriptor)}
}

// Upsert inserts or replaces the descriptor for conid. A descriptor
// without a symbol (a null or empty mapping upstream) removes the binding,
// so the conid resolves to Unknown again.
func (r *Resolver) Upsert(conid int64, d model.InstrumentDescriptor) {
	if d.Symbol == "" {
		delete(r.byConid, conid)
		return
	}
	r.byConid[conid] = d
}

// Resolve returns the descriptor for conid, or Unknown.
func (r *Resolver) Resolve(conid int64) model.InstrumentDescriptor {
	if d, ok := r.byConid[conid]; ok {
		return d
	}
	return Unknown
}

// Lookup is Resolve without the placeholder.
func (r *Resolver) Lookup(conid int64) (model.InstrumentDescriptor, bool) {
	d, ok := r.byConid[conid]
	return d, ok
}

func (r *Resolver) Len() int { return len(r.byConid) }
