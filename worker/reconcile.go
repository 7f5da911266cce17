package worker

import (
	"slices"

	"go.uber.org/zap"

	"hdoc/element"
)

// addRow collects cells stacked since enclosing table was pushed into a new
// row and infers column widths. Declared widths are summed, cells without
// width share the remaining percentage only when at least one cell declared
// its width in percents. Table widths are those of the last row.
func (w *Worker) addRow() {
	idx := -1
	for i := len(w.stack) - 1; i >= 0; i-- {
		if _, ok := w.stack[i].(*element.Table); ok {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.log.Debug("Row outside of table ignored")
		return
	}

	var (
		cells      []*element.Cell
		widths     []float64
		total      float64
		zeroCount  int
		percentage bool
	)
	for len(w.stack) > idx+1 {
		switch e := w.pop().(type) {
		case *element.Cell:
			cells = append(cells, e)
			widths = append(widths, e.Width)
			percentage = percentage || e.Percentage
			if e.Width == 0 {
				zeroCount++
			} else {
				total += e.Width
			}
		default:
			w.log.Debug("Unexpected element in table row dropped", zap.Stringer("element", e.Type()))
		}
	}
	table := w.stack[idx].(*element.Table)

	// cells were popped in reverse order
	slices.Reverse(cells)
	slices.Reverse(widths)
	if percentage && zeroCount > 0 {
		share := (100 - total) / float64(zeroCount)
		for i, v := range widths {
			if v == 0 {
				widths[i] = share
			}
		}
	}

	row := &element.Row{Cells: cells, Widths: widths}
	table.Add(row)
	if len(widths) > 0 {
		table.Widths = slices.Clone(widths)
	}
	w.skipText = true
}

// addTable finishes table on top of the stack and restores row and cell
// state of the enclosing table.
func (w *Worker) addTable() error {
	if n := len(w.tables); n > 0 {
		st := w.tables[n-1]
		w.tables = w.tables[:n-1]
		w.pendingTR, w.pendingTD = st.pendingTR, st.pendingTD
	}
	w.skipText = false

	top := w.pop()
	table, ok := top.(*element.Table)
	if !ok {
		if top != nil {
			w.log.Debug("Table expected on stack", zap.Stringer("element", top.Type()))
			w.push(top)
		}
		return nil
	}
	table.SplitRows = true
	return w.attach(table)
}

func (w *Worker) addList() error {
	top := w.pop()
	list, ok := top.(*element.List)
	if !ok {
		if top != nil {
			w.log.Debug("List expected on stack", zap.Stringer("element", top.Type()))
			w.push(top)
		}
		return nil
	}
	return w.attach(list)
}

// addListItem moves list item on top of the stack into the list below it.
// Item without list is sent to the listener when nothing else is open and
// dropped otherwise.
func (w *Worker) addListItem() error {
	top := w.pop()
	item, ok := top.(*element.ListItem)
	if !ok {
		if top != nil {
			w.push(top)
		}
		return nil
	}
	if len(w.stack) == 0 {
		return w.emit(item)
	}
	list, ok := w.stack[len(w.stack)-1].(*element.List)
	if !ok {
		w.log.Debug("List item outside of list dropped")
		return nil
	}
	list.Add(item)
	item.Symbol = list.Label(len(list.Items()) - 1)
	if chunks := item.Chunks(); len(chunks) > 0 {
		item.SymbolFont = chunks[0].Font
	}
	return nil
}

// unwind closes containers left open above the nearest stack element
// matching stop, attaching each one to the element below it. Containers the
// element below does not accept are returned in document order. Nothing
// happens when no element matches.
func (w *Worker) unwind(stop func(element.Element) bool) []element.Element {
	idx := -1
	for i := len(w.stack) - 1; i >= 0; i-- {
		if stop(w.stack[i]) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	var rejected []element.Element
	for len(w.stack) > idx+1 {
		e := w.pop()
		if c, ok := w.stack[len(w.stack)-1].(element.Container); ok && c.Add(e) {
			continue
		}
		w.log.Debug("Open element moved out of table", zap.Stringer("element", e.Type()))
		rejected = append(rejected, e)
	}
	slices.Reverse(rejected)
	return rejected
}

func isCellOrTable(e element.Element) bool {
	switch e.(type) {
	case *element.Cell, *element.Table:
		return true
	}
	return false
}

func isTable(e element.Element) bool {
	_, ok := e.(*element.Table)
	return ok
}
