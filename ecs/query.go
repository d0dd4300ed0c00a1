package ecs

// intersect returns entities present in both sets, iterating the smaller.
func intersect[A, B any](a *sparseSet[A], b *sparseSet[B]) []Entity {
	if a == nil || b == nil {
		return nil
	}
	if a.len() > b.len() {
		out := make([]Entity, 0, b.len())
		for _, e := range b.snapshot() {
			if a.has(e.id()) {
				out = append(out, e)
			}
		}
		return out
	}
	out := make([]Entity, 0, a.len())
	for _, e := range a.snapshot() {
		if b.has(e.id()) {
			out = append(out, e)
		}
	}
	return out
}
