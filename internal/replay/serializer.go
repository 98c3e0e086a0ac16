// Package replay turns resolved turns into self-describing protobuf Struct
// records and persists them as newline-delimited protojson.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed is returned when a record does not decode into a valid value
var ErrMalformed = errors.New("malformed replay record")

// EncodeBoard converts a board into a Struct with the field dimensions, the
// row-major cell kinds, agents, bases, turn, status and previous actions
func EncodeBoard(b *core.BoardState) (*structpb.Struct, error) {
	if b == nil || b.Map == nil {
		return nil, fmt.Errorf("encode board: nil board: %w", ErrMalformed)
	}

	cells := make([]interface{}, len(b.Map.Cells))
	for i, k := range b.Map.Cells {
		cells[i] = int(k)
	}

	agents := make([]interface{}, len(b.Agents))
	for i, a := range b.Agents {
		agents[i] = map[string]interface{}{
			"id":    a.ID,
			"x":     a.Pos.X,
			"y":     a.Pos.Y,
			"side":  int(a.Side),
			"alive": a.Alive,
		}
	}

	bases := make([]interface{}, len(b.Bases))
	for i, base := range b.Bases {
		bases[i] = map[string]interface{}{
			"x":     base.Pos.X,
			"y":     base.Pos.Y,
			"side":  int(base.Side),
			"alive": base.Alive,
		}
	}

	return structpb.NewStruct(map[string]interface{}{
		"width":        b.Map.W,
		"height":       b.Map.H,
		"cells":        cells,
		"agents":       agents,
		"bases":        bases,
		"turn":         b.Turn,
		"status":       int(b.Status),
		"prev_actions": actionCodes(b.PrevActions[:]),
	})
}

// DecodeBoard is the inverse of EncodeBoard
func DecodeBoard(s *structpb.Struct) (*core.BoardState, error) {
	r := reader{fields: s.GetFields()}

	w, h := r.getInt("width"), r.getInt("height")
	cells := r.getList("cells")
	agents := r.getList("agents")
	bases := r.getList("bases")
	turn := r.getInt("turn")
	status := r.getInt("status")
	prev := r.getList("prev_actions")
	if r.err != nil {
		return nil, fmt.Errorf("decode board: %w", r.err)
	}

	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil, fmt.Errorf("decode board: %d cells for %dx%d: %w", len(cells), w, h, ErrMalformed)
	}
	if len(agents) != core.AgentCount || len(bases) != core.SideCount || len(prev) != core.AgentCount {
		return nil, fmt.Errorf("decode board: wrong agent, base or action count: %w", ErrMalformed)
	}
	if status < int(core.StatusInProgress) || status > int(core.StatusDraw) {
		return nil, fmt.Errorf("decode board: status %d: %w", status, ErrMalformed)
	}

	b := &core.BoardState{Map: core.NewMap(w, h), Turn: turn, Status: core.GameStatus(status)}
	for i, v := range cells {
		k := int(v.GetNumberValue())
		if k < int(core.CellEmpty) || k > int(core.CellWater) {
			return nil, fmt.Errorf("decode board: cell %d kind %d: %w", i, k, ErrMalformed)
		}
		b.Map.Cells[i] = core.CellKind(k)
	}

	for i, v := range agents {
		ar := reader{fields: v.GetStructValue().GetFields()}
		a := core.Agent{
			ID:    ar.getInt("id"),
			Side:  core.Side(ar.getInt("side")),
			Pos:   core.NewCoordinate(ar.getInt("x"), ar.getInt("y")),
			Alive: ar.getBool("alive"),
		}
		if ar.err != nil {
			return nil, fmt.Errorf("decode board: agent %d: %w", i, ar.err)
		}
		if a.ID != i || a.Side != core.SideOf(i) {
			return nil, fmt.Errorf("decode board: agent %d has id %d side %d: %w", i, a.ID, a.Side, ErrMalformed)
		}
		b.Agents[i] = a
	}

	for i, v := range bases {
		br := reader{fields: v.GetStructValue().GetFields()}
		base := core.Base{
			Side:  core.Side(br.getInt("side")),
			Pos:   core.NewCoordinate(br.getInt("x"), br.getInt("y")),
			Alive: br.getBool("alive"),
		}
		if br.err != nil {
			return nil, fmt.Errorf("decode board: base %d: %w", i, br.err)
		}
		if base.Side != core.Side(i) {
			return nil, fmt.Errorf("decode board: base %d has side %d: %w", i, base.Side, ErrMalformed)
		}
		b.Bases[i] = base
	}

	actions, err := decodeActions(prev)
	if err != nil {
		return nil, fmt.Errorf("decode board: prev_actions: %w", err)
	}
	copy(b.PrevActions[:], actions)

	return b, nil
}

// EncodeAnimations converts animation cues into a list of Structs. Durations
// are stored in whole milliseconds.
func EncodeAnimations(evs []animation.Event) (*structpb.ListValue, error) {
	items := make([]interface{}, len(evs))
	for i, e := range evs {
		items[i] = map[string]interface{}{
			"kind":        string(e.Kind),
			"agent_id":    e.AgentID,
			"origin":      []interface{}{e.Origin.X, e.Origin.Y},
			"destination": []interface{}{e.Destination.X, e.Destination.Y},
			"duration_ms": e.Duration.Milliseconds(),
		}
	}
	return structpb.NewList(items)
}

// DecodeAnimations is the inverse of EncodeAnimations
func DecodeAnimations(l *structpb.ListValue) ([]animation.Event, error) {
	values := l.GetValues()
	evs := make([]animation.Event, 0, len(values))
	for i, v := range values {
		r := reader{fields: v.GetStructValue().GetFields()}
		e := animation.Event{
			Kind:        animation.Kind(r.getString("kind")),
			AgentID:     r.getInt("agent_id"),
			Origin:      r.getCoordinate("origin"),
			Destination: r.getCoordinate("destination"),
			Duration:    time.Duration(r.getInt("duration_ms")) * time.Millisecond,
		}
		if r.err != nil {
			return nil, fmt.Errorf("decode animation %d: %w", i, r.err)
		}
		evs = append(evs, e)
	}
	return evs, nil
}

func actionCodes(actions []core.Action) []interface{} {
	codes := make([]interface{}, len(actions))
	for i, a := range actions {
		codes[i] = a.Code()
	}
	return codes
}

func decodeActions(values []*structpb.Value) ([]core.Action, error) {
	out := make([]core.Action, len(values))
	for i, v := range values {
		a, err := core.ActionFromCode(int(v.GetNumberValue()))
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

// reader pulls typed fields out of a Struct and remembers the first failure
type reader struct {
	fields map[string]*structpb.Value
	err    error
}

func (r *reader) value(key string) *structpb.Value {
	v, ok := r.fields[key]
	if !ok && r.err == nil {
		r.err = fmt.Errorf("missing field %q: %w", key, ErrMalformed)
	}
	return v
}

func (r *reader) getInt(key string) int {
	v := r.value(key)
	if v == nil {
		return 0
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok && r.err == nil {
		r.err = fmt.Errorf("field %q is not a number: %w", key, ErrMalformed)
	}
	return int(v.GetNumberValue())
}

func (r *reader) getBool(key string) bool {
	v := r.value(key)
	if v == nil {
		return false
	}
	if _, ok := v.GetKind().(*structpb.Value_BoolValue); !ok && r.err == nil {
		r.err = fmt.Errorf("field %q is not a bool: %w", key, ErrMalformed)
	}
	return v.GetBoolValue()
}

func (r *reader) getString(key string) string {
	v := r.value(key)
	if v == nil {
		return ""
	}
	if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok && r.err == nil {
		r.err = fmt.Errorf("field %q is not a string: %w", key, ErrMalformed)
	}
	return v.GetStringValue()
}

func (r *reader) getList(key string) []*structpb.Value {
	v := r.value(key)
	if v == nil {
		return nil
	}
	if _, ok := v.GetKind().(*structpb.Value_ListValue); !ok && r.err == nil {
		r.err = fmt.Errorf("field %q is not a list: %w", key, ErrMalformed)
	}
	return v.GetListValue().GetValues()
}

func (r *reader) getCoordinate(key string) core.Coordinate {
	xy := r.getList(key)
	if len(xy) != 2 {
		if r.err == nil {
			r.err = fmt.Errorf("field %q is not an x,y pair: %w", key, ErrMalformed)
		}
		return core.Coordinate{}
	}
	return core.NewCoordinate(int(xy[0].GetNumberValue()), int(xy[1].GetNumberValue()))
}
