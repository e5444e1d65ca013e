package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/klauern/numfield/internal/field"
	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/sched"
)

// Entry kinds that are not step actions.
const (
	KindMount  = "mount"
	KindCommit = "commit"
	KindEnd    = "end"
)

// Entry is one line of a transcript.
type Entry struct {
	// At is the virtual time of the entry.
	At time.Duration `yaml:"at"`
	// Kind is a step action, or mount, commit or end.
	Kind string `yaml:"kind"`
	// Input is the step argument, if any.
	Input string `yaml:"input,omitempty"`
	// Value is the committed or final value.
	Value string `yaml:"value,omitempty"`
	// Display is what the field showed after the entry.
	Display *string `yaml:"display,omitempty"`
	// SelectAll is set when focus asked for the buffer to be selected.
	SelectAll bool `yaml:"select_all,omitempty"`
}

// Result is the outcome of a replay.
type Result struct {
	Name    string         `yaml:"name"`
	Trace   []Entry        `yaml:"trace"`
	Commits []numfmt.Value `yaml:"-"`
	Final   numfmt.Value   `yaml:"-"`
}

// session carries the mutable state of one replay.
type session struct {
	script   *Script
	clock    *sched.Manual
	field    *field.Field
	host     numfmt.Value
	buffer   []rune
	selected bool
	result   *Result
}

// Run executes the script on a virtual clock. Timers fire only while a wait
// or keys step advances the clock.
func Run(ctx context.Context, script *Script, logger *slog.Logger) (*Result, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &session{
		script: script,
		clock:  sched.NewManual(),
		host:   script.Value,
		result: &Result{Name: script.Name},
	}
	opts := field.Options{
		ID:               script.Name,
		Format:           script.Format,
		Debounce:         script.Field.Debounce,
		InstantUpdates:   script.Field.InstantUpdates,
		SelectAllOnFocus: script.Field.SelectAllOnFocus,
		SelectCooldown:   script.Field.SelectCooldown,
		Disabled:         script.Field.Disabled,
		Scheduler:        s.clock,
		Logger:           logger,
	}
	f, err := field.New(script.Value, opts, s.commit)
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", script.Name, err)
	}
	defer f.Close()
	s.field = f
	s.record(Entry{Kind: KindMount, Value: valueText(script.Value)})

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("replay step", slog.Int("step", i+1), slog.String("action", step.String()))
		s.apply(step)
	}

	s.result.Final = s.host
	s.record(Entry{Kind: KindEnd, Value: valueText(s.host)})
	return s.result, nil
}

func (s *session) apply(step Step) {
	entry := Entry{Kind: step.Action}
	switch step.Action {
	case ActionFocus:
		s.selected = s.field.Focus()
		s.buffer = []rune(s.field.Display())
		entry.SelectAll = s.selected
	case ActionBlur:
		s.field.Blur()
		s.selected = false
	case ActionClose:
		s.field.Close()
	case ActionType:
		entry.Input = step.Text
		s.edit([]rune(step.Text))
	case ActionKeys:
		entry.Input = step.Text
		for _, r := range step.Text {
			s.edit(append(s.current(), r))
			if s.script.KeyDelay > 0 {
				s.clock.Advance(s.script.KeyDelay)
			}
		}
	case ActionErase:
		entry.Input = strconv.Itoa(step.Count)
		buf := s.current()
		n := min(step.Count, len(buf))
		s.edit(buf[:len(buf)-n])
	case ActionWait:
		entry.Input = step.Wait.String()
		s.clock.Advance(step.Wait)
	case ActionSet:
		entry.Input = valueText(step.Value)
		s.host = step.Value
		s.field.SetValue(step.Value)
	}
	s.record(entry)
}

// current returns the buffer as the next edit sees it. A selected buffer is
// replaced by whatever comes next.
func (s *session) current() []rune {
	if s.selected {
		return nil
	}
	return append([]rune(nil), s.buffer...)
}

func (s *session) edit(buf []rune) {
	s.selected = false
	s.buffer = buf
	s.field.Input(string(buf))
}

// commit is the field's ChangeFunc.
func (s *session) commit(v numfmt.Value) {
	s.result.Commits = append(s.result.Commits, v)
	s.result.Trace = append(s.result.Trace, Entry{
		At:    s.clock.Now(),
		Kind:  KindCommit,
		Value: valueText(v),
	})
	switch s.script.Host {
	case HostAccept:
		s.host = v
		s.field.SetValue(v)
	case HostRefuse:
		s.field.SetValue(s.host)
	}
}

func (s *session) record(e Entry) {
	e.At = s.clock.Now()
	display := s.field.Display()
	e.Display = &display
	s.result.Trace = append(s.result.Trace, e)
}

func valueText(v numfmt.Value) string {
	if v.IsEmpty() {
		return "null"
	}
	return v.String()
}

// WriteText writes the transcript, one entry per line.
func (r *Result) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s\n", r.Name); err != nil {
		return err
	}
	for _, e := range r.Trace {
		if _, err := io.WriteString(w, e.String()+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// String renders the entry as "[<ms>ms] <kind> key=value...".
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%dms] %s", e.At.Milliseconds(), e.Kind)
	if e.Input != "" {
		fmt.Fprintf(&b, " input=%q", e.Input)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value=%s", e.Value)
	}
	if e.Display != nil {
		fmt.Fprintf(&b, " display=%q", *e.Display)
	}
	if e.SelectAll {
		b.WriteString(" select_all")
	}
	return b.String()
}
