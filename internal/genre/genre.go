package genre

// Renamer maps long form genre labels to their short form.
type Renamer map[string]string

func DefaultTable() Renamer {
	return Renamer{
		"少年マンガ": "少年",
		"青年マンガ": "青年",
		"少女マンガ": "少女",
		"女性マンガ": "女性",
	}
}

// Rename returns the short form of label, labels missing from the table are
// returned as is. Matching is exact.
func (r Renamer) Rename(label string) string {
	if short, ok := r[label]; ok {
		return short
	}
	return label
}

// With returns a copy of the table with the overrides applied on top.
func (r Renamer) With(overrides map[string]string) Renamer {
	out := make(Renamer, len(r)+len(overrides))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
