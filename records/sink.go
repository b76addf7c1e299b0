package records

// multiWriter fans each record out to several writers in order.
type multiWriter struct {
	writers []Writer
}

// MultiWriter returns a Writer that writes each record to every given
// writer in turn. The first failing writer stops the fan-out and its error
// is returned.
func MultiWriter(writers ...Writer) Writer {
	all := make([]Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			all = append(all, w)
		}
	}
	return &multiWriter{writers: all}
}

func (m *multiWriter) Write(rec Record) error {
	for _, w := range m.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
