package table

// SelectAll returns a copy of every row in table order.
func (t *Table) SelectAll() []Row {
	result := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		result = append(result, cloneRow(row))
	}
	return result
}

// Select returns a copy of every row whose field is loosely equal to value.
func (t *Table) Select(field string, value any) []Row {
	result := []Row{}
	for _, row := range t.rows {
		if matches(row, field, value) {
			result = append(result, cloneRow(row))
		}
	}
	return result
}

// matches reports whether row has field set to a non null value loosely
// equal to value.
func matches(row Row, field string, value any) bool {
	v, exists := row[field]
	if !exists || v == nil {
		return false
	}
	return LooseEqual(v, value)
}
