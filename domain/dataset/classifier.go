package dataset

// CategoricalColumns returns the names of the columns holding label values,
// in dataset order. The result is empty, never nil, when there are none.
func CategoricalColumns(d *Dataset) []string {
	names := []string{}
	if d == nil {
		return names
	}
	for _, col := range d.Columns {
		if col.Kind == KindCategorical {
			names = append(names, col.Name)
		}
	}
	return names
}

// IsCategorical reports whether name is a categorical column of d
func IsCategorical(d *Dataset, name string) bool {
	if d == nil {
		return false
	}
	col, ok := d.Column(name)
	return ok && col.Kind == KindCategorical
}
