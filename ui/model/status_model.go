package model

// StatusModel holds the status-bar message. Presenters write it from callbacks
// and the status presenter flushes it on tick. The zero value is usable.
type StatusModel struct {
	text    string
	isError bool
	version uint64
}

func NewStatusModel() *StatusModel { return &StatusModel{} }

// Info sets a normal message.
func (m *StatusModel) Info(text string) { m.set(text, false) }

// Error sets an error message.
func (m *StatusModel) Error(text string) { m.set(text, true) }

func (m *StatusModel) set(text string, isErr bool) {
	if m == nil {
		return
	}
	m.text, m.isError = text, isErr
	m.version++
}

// Value returns the message, whether it is an error, and a version that
// increases on every write.
func (m *StatusModel) Value() (text string, isError bool, version uint64) {
	if m == nil {
		return "", false, 0
	}
	return m.text, m.isError, m.version
}
