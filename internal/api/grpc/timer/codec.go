package timer

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/engine"
)

// Struct field names used on the wire.
const (
	fieldPhase             = "phase"
	fieldRemainingSeconds  = "remaining_seconds"
	fieldCompleted         = "completed_work_intervals"
	fieldRunning           = "running"
	fieldClock             = "clock"
	fieldCycle             = "cycle"
	fieldConfig            = "config"
	fieldWorkSeconds       = "work_seconds"
	fieldShortBreakSeconds = "short_break_seconds"
	fieldLongBreakSeconds  = "long_break_seconds"

	fieldID           = "id"
	fieldKind         = "kind"
	fieldNotification = "notification"
	fieldTitle        = "title"
	fieldMessage      = "message"
	fieldAt           = "at"
	fieldState        = "state"

	// Reset request fields, in minutes.
	FieldWorkMinutes       = "work_minutes"
	FieldShortBreakMinutes = "short_break_minutes"
	FieldLongBreakMinutes  = "long_break_minutes"
)

var (
	// errMissingField is returned when a required struct field is absent.
	errMissingField = errors.New("missing field")
	// errBadField is returned when a struct field has an unexpected type or value.
	errBadField = errors.New("bad field")
)

// Snapshot is a timer state together with the configuration that produced it.
type Snapshot struct {
	State  pomodoro.State
	Config pomodoro.Config
}

// SnapshotToStruct encodes a snapshot for the wire.
func SnapshotToStruct(snapshot Snapshot) *structpb.Struct {
	fields := stateFields(snapshot.State)
	fields[fieldConfig] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		fieldWorkSeconds:       structpb.NewNumberValue(snapshot.Config.Work.Seconds()),
		fieldShortBreakSeconds: structpb.NewNumberValue(snapshot.Config.ShortBreak.Seconds()),
		fieldLongBreakSeconds:  structpb.NewNumberValue(snapshot.Config.LongBreak.Seconds()),
	}})

	return &structpb.Struct{Fields: fields}
}

// SnapshotFromStruct decodes a snapshot produced by SnapshotToStruct.
func SnapshotFromStruct(s *structpb.Struct) (Snapshot, error) {
	state, err := stateFromStruct(s)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{State: state}

	cfg := s.GetFields()[fieldConfig].GetStructValue()
	if cfg == nil {
		return snapshot, nil
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{fieldWorkSeconds, &snapshot.Config.Work},
		{fieldShortBreakSeconds, &snapshot.Config.ShortBreak},
		{fieldLongBreakSeconds, &snapshot.Config.LongBreak},
	}

	for _, d := range durations {
		secs, err := intField(cfg, d.name)
		if err != nil {
			return Snapshot{}, err
		}

		*d.target = time.Duration(secs) * time.Second
	}

	return snapshot, nil
}

// EventToStruct encodes an engine event for the Watch stream.
func EventToStruct(ev engine.Event) *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldID:    structpb.NewStringValue(ev.ID.String()),
		fieldKind:  structpb.NewStringValue(ev.Kind.String()),
		fieldAt:    structpb.NewStringValue(ev.At.UTC().Format(time.RFC3339Nano)),
		fieldState: structpb.NewStructValue(&structpb.Struct{Fields: stateFields(ev.State)}),
	}

	if ev.Kind == engine.KindNotification {
		fields[fieldNotification] = structpb.NewStringValue(ev.Notification.String())
		fields[fieldTitle] = structpb.NewStringValue(ev.Notification.Title())
		fields[fieldMessage] = structpb.NewStringValue(ev.Notification.Message())
	}

	return &structpb.Struct{Fields: fields}
}

// EventFromStruct decodes an event produced by EventToStruct.
func EventFromStruct(s *structpb.Struct) (engine.Event, error) {
	fields := s.GetFields()

	var (
		ev  engine.Event
		err error
	)

	if ev.ID, err = uuid.Parse(fields[fieldID].GetStringValue()); err != nil {
		return engine.Event{}, fmt.Errorf("%w %s: %w", errBadField, fieldID, err)
	}

	switch kind := fields[fieldKind].GetStringValue(); kind {
	case engine.KindDisplay.String():
		ev.Kind = engine.KindDisplay
	case engine.KindNotification.String():
		ev.Kind = engine.KindNotification
		if ev.Notification, err = parseNotification(fields[fieldNotification].GetStringValue()); err != nil {
			return engine.Event{}, err
		}
	default:
		return engine.Event{}, fmt.Errorf("%w %s: %q", errBadField, fieldKind, kind)
	}

	if ev.At, err = time.Parse(time.RFC3339Nano, fields[fieldAt].GetStringValue()); err != nil {
		return engine.Event{}, fmt.Errorf("%w %s: %w", errBadField, fieldAt, err)
	}

	if ev.State, err = stateFromStruct(fields[fieldState].GetStructValue()); err != nil {
		return engine.Event{}, err
	}

	return ev, nil
}

// ResetRequest builds a Reset request from minute strings.
// With no arguments it asks for a reset that keeps the current durations.
func ResetRequest(minutes ...string) (*structpb.Struct, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{}}

	if len(minutes) == 0 {
		return req, nil
	}

	names := []string{FieldWorkMinutes, FieldShortBreakMinutes, FieldLongBreakMinutes}
	if len(minutes) != len(names) {
		return nil, fmt.Errorf("%w: expected %d durations, got %d", errBadField, len(names), len(minutes))
	}

	for i, name := range names {
		req.Fields[name] = structpb.NewStringValue(minutes[i])
	}

	return req, nil
}

// ConfigFromResetRequest decodes the optional configuration of a Reset request.
// An empty request yields nil. Values may be numbers or strings of minutes.
func ConfigFromResetRequest(req *structpb.Struct) (*pomodoro.Config, error) {
	fields := req.GetFields()
	if len(fields) == 0 {
		return nil, nil //nolint:nilnil // Nil config means keep the current durations.
	}

	names := []struct {
		wire   string
		domain string
	}{
		{FieldWorkMinutes, pomodoro.FieldWork},
		{FieldShortBreakMinutes, pomodoro.FieldShortBreak},
		{FieldLongBreakMinutes, pomodoro.FieldLongBreak},
	}

	values := make([]time.Duration, 0, len(names))

	for _, name := range names {
		text, err := minutesText(fields[name.wire])
		if err != nil {
			return nil, &pomodoro.ValidationError{Field: name.domain, Reason: err.Error()}
		}

		d, err := pomodoro.ParseMinutes(name.domain, text)
		if err != nil {
			return nil, err
		}

		values = append(values, d)
	}

	return &pomodoro.Config{Work: values[0], ShortBreak: values[1], LongBreak: values[2]}, nil
}

func minutesText(v *structpb.Value) (string, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), nil
	case nil:
		return "", errMissingField
	default:
		return "", errBadField
	}
}

func stateFields(state pomodoro.State) map[string]*structpb.Value {
	return map[string]*structpb.Value{
		fieldPhase:            structpb.NewStringValue(state.Phase.String()),
		fieldRemainingSeconds: structpb.NewNumberValue(float64(state.RemainingSeconds)),
		fieldCompleted:        structpb.NewNumberValue(float64(state.CompletedWorkIntervals)),
		fieldRunning:          structpb.NewBoolValue(state.Running),
		fieldClock:            structpb.NewStringValue(state.Clock()),
		fieldCycle:            structpb.NewStringValue(state.CycleIndicator()),
	}
}

func stateFromStruct(s *structpb.Struct) (pomodoro.State, error) {
	if s == nil {
		return pomodoro.State{}, fmt.Errorf("%w: %s", errMissingField, fieldState)
	}

	var (
		state pomodoro.State
		ok    bool
		err   error
	)

	phase := s.GetFields()[fieldPhase].GetStringValue()
	if state.Phase, ok = pomodoro.ParsePhase(phase); !ok {
		return pomodoro.State{}, fmt.Errorf("%w %s: %q", errBadField, fieldPhase, phase)
	}

	if state.RemainingSeconds, err = intField(s, fieldRemainingSeconds); err != nil {
		return pomodoro.State{}, err
	}

	if state.CompletedWorkIntervals, err = intField(s, fieldCompleted); err != nil {
		return pomodoro.State{}, err
	}

	running, ok := s.GetFields()[fieldRunning].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return pomodoro.State{}, fmt.Errorf("%w: %s", errMissingField, fieldRunning)
	}

	state.Running = running.BoolValue

	return state, nil
}

func intField(s *structpb.Struct, name string) (int, error) {
	number, ok := s.GetFields()[name].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingField, name)
	}

	return int(number.NumberValue), nil
}

func parseNotification(s string) (pomodoro.Notification, error) {
	for _, n := range []pomodoro.Notification{pomodoro.NotifyShortBreak, pomodoro.NotifyLongBreak, pomodoro.NotifyWork} {
		if n.String() == s {
			return n, nil
		}
	}

	return pomodoro.NotifyNone, fmt.Errorf("%w %s: %q", errBadField, fieldNotification, s)
}
