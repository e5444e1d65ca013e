// Package field implements the focus-aware synchronization controller of a
// numeric text field.
//
// A Field decides what the field displays and when a change is reported
// upstream. While focused it shows the raw buffer exactly as typed and
// reports changes after a quiet period (or immediately in instant mode);
// on blur it shows the formatted projection and commits once more. The
// upstream value stays owned by the caller: the Field only reads it through
// SetValue and requests changes through the ChangeFunc. Hosts should call
// SetValue after every notification, even when they keep the old value, so
// a refused change reverts the display.
//
// A Field is not safe for concurrent use. All methods and all timer
// callbacks must run on the host's event goroutine, which is what the
// sched.Scheduler contract guarantees.
package field

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/sched"
)

const (
	// DefaultDebounce is the quiet period before a typed value is committed.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultSelectCooldown suppresses select-all right after a blur.
	DefaultSelectCooldown = 500 * time.Millisecond
)

// Commit triggers.
const (
	TriggerDebounce = "debounce"
	TriggerInstant  = "instant"
	TriggerBlur     = "blur"
)

// ErrNoScheduler is returned when Options carries no Scheduler.
var ErrNoScheduler = errors.New("field: scheduler is required")

// ChangeFunc receives committed, unformatted values.
type ChangeFunc func(numfmt.Value)

// Options configures a Field.
type Options struct {
	// ID names the field in logs. A random id is used when empty.
	ID string
	// Format is the Format Configuration.
	Format numfmt.Options
	// Debounce is the commit delay while typing. Zero means DefaultDebounce.
	Debounce time.Duration
	// InstantUpdates commits on every keystroke without a timer.
	InstantUpdates bool
	// SelectAllOnFocus asks the host to select the buffer on focus.
	SelectAllOnFocus bool
	// SelectCooldown is how long select-all stays suppressed after a blur.
	// Zero means DefaultSelectCooldown.
	SelectCooldown time.Duration
	// Disabled ignores focus and input.
	Disabled bool
	// Scheduler runs the debounce and cool-down timers.
	Scheduler sched.Scheduler
	// Logger receives transition logs. Defaults to logging.Default().
	Logger *slog.Logger
}

// State is a snapshot of a Field.
type State struct {
	Focused bool
	Session Session
	// Upstream is the text of the last externally known value.
	Upstream string
	// Pending reports a scheduled debounced commit.
	Pending bool
}

// Field is the synchronization controller of one numeric text field.
type Field struct {
	id        string
	opts      Options
	formatter *numfmt.Formatter
	onChange  ChangeFunc
	logger    *slog.Logger

	session  Session
	focused  bool
	upstream numfmt.Value

	scope       *sched.Scope
	debounce    *sched.Slot
	cooldown    *sched.Slot
	blockSelect bool
}

// New mounts a field showing the formatted projection of initial.
func New(initial numfmt.Value, opts Options, onChange ChangeFunc) (*Field, error) {
	formatter, err := numfmt.New(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SelectCooldown <= 0 {
		opts.SelectCooldown = DefaultSelectCooldown
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if onChange == nil {
		onChange = func(numfmt.Value) {}
	}

	scope := sched.NewScope(opts.Scheduler)
	f := &Field{
		id:        opts.ID,
		opts:      opts,
		formatter: formatter,
		onChange:  onChange,
		logger:    logger.With(logging.Field(opts.ID)),
		upstream:  initial,
		scope:     scope,
		debounce:  scope.Slot(),
		cooldown:  scope.Slot(),
	}
	f.session = mount(initial.String(), formatter.Format)
	f.logger.Debug("field mounted", logging.Value(initial.String()), logging.Display(f.session.Value))
	return f, nil
}

// ID returns the field's log identifier.
func (f *Field) ID() string {
	return f.id
}

// Formatter returns the formatter built from the field's options.
func (f *Field) Formatter() *numfmt.Formatter {
	return f.formatter
}

// Display returns the string the field currently shows.
func (f *Field) Display() string {
	return f.session.Value
}

// Focused reports whether the field is being edited.
func (f *Field) Focused() bool {
	return f.focused
}

// Disabled reports whether edits are suppressed.
func (f *Field) Disabled() bool {
	return f.opts.Disabled
}

// Closed reports whether the field has been torn down.
func (f *Field) Closed() bool {
	return f.scope.Closed()
}

// State returns a snapshot of the field.
func (f *Field) State() State {
	return State{
		Focused:  f.focused,
		Session:  f.session,
		Upstream: f.upstream.String(),
		Pending:  f.debounce.Pending(),
	}
}

// SetValue records the upstream value. While unfocused a value that differs
// from the session rebuilds the display; while focused the buffer is left
// alone until blur.
func (f *Field) SetValue(v numfmt.Value) {
	if f.Closed() {
		return
	}
	f.upstream = v
	if f.focused {
		f.logger.Debug("upstream changed while editing", logging.Value(v.String()))
		return
	}
	next, changed := f.session.sync(v.String(), f.formatter.Format)
	if changed {
		f.session = next
		f.logger.Debug("upstream changed", logging.Value(v.String()), logging.Display(next.Value))
	}
}

// Focus starts editing. It reports whether the host should select the
// whole buffer.
func (f *Field) Focus() bool {
	if f.Closed() || f.opts.Disabled || f.focused {
		return false
	}
	f.focused = true
	f.session = f.session.focus()
	f.logger.Debug("field focused", logging.Buffer(f.session.Value))
	return f.opts.SelectAllOnFocus && !f.blockSelect
}

// Input replaces the buffer with raw. Nothing is formatted while typing.
func (f *Field) Input(raw string) {
	if f.Closed() || f.opts.Disabled || !f.focused {
		return
	}
	f.session = f.session.input(raw, f.formatter.Format)
	f.debounce.Cancel()
	if raw == f.upstream.String() {
		return
	}

	if f.opts.InstantUpdates {
		f.emit(TriggerInstant, f.typed(raw))
		return
	}
	f.debounce.Schedule(f.opts.Debounce, func() {
		f.emit(TriggerDebounce, f.typed(raw))
	})
	f.logger.Debug("commit scheduled", logging.Buffer(raw), logging.Delay(f.opts.Debounce))
}

// Blur ends editing, shows the formatted projection and commits the buffer
// if it differs from the upstream value. Rejected input commits the
// configured default.
func (f *Field) Blur() {
	if f.Closed() || !f.focused {
		return
	}
	f.debounce.Cancel()
	f.focused = false
	f.session = f.session.blur()

	f.blockSelect = true
	f.cooldown.Schedule(f.opts.SelectCooldown, func() {
		f.blockSelect = false
	})
	f.logger.Debug("field blurred", logging.Display(f.session.Value))

	if f.session.Unformatted != f.upstream.String() {
		f.emit(TriggerBlur, f.formatter.Commit(f.session.Unformatted))
	}
}

// Close cancels pending timers. Later events are ignored.
func (f *Field) Close() {
	if f.Closed() {
		return
	}
	f.scope.Close()
	f.logger.Debug("field closed")
}

// typed parses a buffer committed while typing. Input that is not a number
// clears the value.
func (f *Field) typed(raw string) numfmt.Value {
	v, err := f.formatter.ParseValue(raw)
	if err != nil {
		f.logger.Debug("buffer rejected", logging.Buffer(raw), logging.Err(err))
		return numfmt.Empty
	}
	return v
}

func (f *Field) emit(trigger string, v numfmt.Value) {
	f.logger.Debug("change emitted", logging.Trigger(trigger), logging.Value(v.String()))
	f.onChange(v)
}
