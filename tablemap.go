package tablemap

// DataSource defines the read side of the mapping contract. An implementation
// exposes an ordered list of named fields and resolves cell values against a
// per-call entry (a row, a cursor position, or a business object).
// A nil value is the canonical null marker across all source shapes.
type DataSource interface {
	FieldCount() int
	FieldName(i int) string
	Value(i int, entry any) any
}

// DataReceiver defines the write side of the mapping contract. Ordinal returns
// -1 when the receiver has no slot with the given name; callers treat that as
// a normal outcome and skip the field.
type DataReceiver interface {
	Ordinal(name string) int
	SetValue(ordinal int, name string, entry any, value any) error
}

// Reader is a forward-only record cursor, shaped after database/sql.Rows.
// The cursor must be advanced with Next before each record is read; iteration
// is single-pass and not restartable. Value results are valid only for the
// current position.
type Reader interface {
	Next() bool
	FieldCount() int
	FieldName(i int) string
	Ordinal(name string) int
	Value(i int) any
	Err() error
}

// FieldSetter lets a destination intercept individual fields before the
// generic copy path runs. SetField returns true when the field was handled;
// the engine then skips slot resolution and conversion for it.
type FieldSetter interface {
	SetField(name string, value any) bool
}

// Initializer brackets field population for destinations that defer their
// internal consistency checks until every field has been written.
type Initializer interface {
	BeginInit()
	EndInit()
}

// ContextInitializer is implemented by destinations that take over their own
// population. InitMapping runs right after allocation, before the copy phase,
// and may read the source through the context or stop the copy phase entirely.
type ContextInitializer interface {
	InitMapping(ctx *InitContext)
}

// InitContext carries the state of one destination instance being mapped:
// the source adapter, the raw source entry it reads from, the destination
// instance itself, and any extra parameters forwarded by the calling
// operation. It lives for a single instance and is discarded once the copy
// phase completes.
type InitContext struct {
	Source      DataSource
	SourceEntry any
	Entry       any
	Params      []any

	stop bool
}

// StopMapping suppresses the generic copy phase for the current instance.
// Used by destinations whose InitMapping already populated everything.
func (c *InitContext) StopMapping() {
	c.stop = true
}

// Stopped reports whether the copy phase was suppressed.
func (c *InitContext) Stopped() bool {
	return c.stop
}

// Logger defines the interface for logging in tablemap.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
