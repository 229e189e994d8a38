package index

// Tour visits the entry registered under id and then, recursively, each
// of its children in list order: a deterministic pre-order flattening
// of the entity. It is a pure read of registry state and must not run
// concurrently with Purge or Put.
//
// A missing identifier (the start or any child reference) returns a
// wrapped ErrNotFound; child references are guaranteed by construction,
// so a miss means the document set was indexed inconsistently and the
// caller should abort the current page.
func (r *Registry) Tour(id string, fn func(Entry)) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	fn(e)
	for _, child := range e.Children {
		if err := r.Tour(child, fn); err != nil {
			return err
		}
	}
	return nil
}
