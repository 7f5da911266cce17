package worker

import (
	"io"

	"hdoc/element"
)

// Listener receives top level elements as soon as they are complete.
// Returning false stops the worker, all further events are ignored. Error
// aborts parsing and is returned from the event which produced the element.
type Listener interface {
	Add(e element.Element) (bool, error)
}

// ListenerFunc adapts function to Listener.
type ListenerFunc func(e element.Element) (bool, error)

func (f ListenerFunc) Add(e element.Element) (bool, error) {
	return f(e)
}

// Collector keeps all elements in document order.
type Collector struct {
	elements []element.Element
}

func (c *Collector) Add(e element.Element) (bool, error) {
	c.elements = append(c.elements, e)
	return true, nil
}

// Elements returns collected elements.
func (c *Collector) Elements() []element.Element {
	return c.elements
}

// DumpListener writes debug tree of every element to the writer as soon as
// it arrives.
type DumpListener struct {
	w     io.Writer
	count int
}

func NewDumpListener(w io.Writer) *DumpListener {
	return &DumpListener{w: w}
}

func (d *DumpListener) Add(e element.Element) (bool, error) {
	if _, err := io.WriteString(d.w, element.Dump(e)); err != nil {
		return false, err
	}
	d.count++
	return true, nil
}

// Count returns number of elements written so far.
func (d *DumpListener) Count() int {
	return d.count
}
