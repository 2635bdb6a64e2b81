package table

import "sort"

// Insert appends row at the end of the table.
func (t *Table) Insert(row Row) error {

	err := t.lock()
	if err != nil {
		return err
	}

	t.rows = append(t.rows, cloneRow(row))

	return nil
}

// Update replaces the first row whose field is loosely equal to value with
// newRow. Later matches are left untouched.
func (t *Table) Update(field string, value any, newRow Row) (bool, error) {

	err := t.lock()
	if err != nil {
		return false, err
	}

	for i, row := range t.rows {
		if matches(row, field, value) {
			t.rows[i] = cloneRow(newRow)
			return true, nil
		}
	}

	return false, nil
}

// UpdateAll replaces the whole table with a single row: content itself.
// It does not update rows one by one, use Update for that.
func (t *Table) UpdateAll(content Row) error {

	err := t.lock()
	if err != nil {
		return err
	}

	t.rows = []Row{cloneRow(content)}

	return nil
}

func (t *Table) DeleteAll() error {

	err := t.lock()
	if err != nil {
		return err
	}

	t.rows = []Row{}

	return nil
}

// Delete removes every row whose field is loosely equal to value and returns
// how many were removed. When something is removed the remaining rows are
// left in natural order (see Compare), not in insertion order.
func (t *Table) Delete(field string, value any) (int, error) {

	err := t.lock()
	if err != nil {
		return 0, err
	}

	kept := make([]Row, 0, len(t.rows))
	removed := 0
	for _, row := range t.rows {
		if matches(row, field, value) {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	if removed > 0 {
		sortRows(kept)
		t.rows = kept
	}

	return removed, nil
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return Compare(rows[i], rows[j]) < 0
	})
}
