package headless

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"car-scene/core"
	"car-scene/input"
)

// Step is one scripted key transition.
type Step struct {
	Tick   int
	Key    int
	Action input.Action
	// Tap releases the key in the same tick it is pressed.
	Tap bool
}

// ParseScript reads a key script of comma- or space-separated steps:
//
//	down:<key>@<tick>   press and hold
//	up:<key>@<tick>     release
//	press:<key>@<tick>  press and release within the tick
//
// Keys are named as core.KeyByName accepts them.
func ParseScript(script string) ([]Step, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})

	steps := make([]Step, 0, len(fields))
	for _, f := range fields {
		verb, rest, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("script step %q: missing ':'", f)
		}
		name, at, ok := strings.Cut(rest, "@")
		if !ok {
			return nil, fmt.Errorf("script step %q: missing '@<tick>'", f)
		}
		key, ok := core.KeyByName(name)
		if !ok {
			return nil, fmt.Errorf("script step %q: unknown key %q", f, name)
		}
		tick, err := strconv.Atoi(at)
		if err != nil || tick < 0 {
			return nil, fmt.Errorf("script step %q: bad tick %q", f, at)
		}

		step := Step{Tick: tick, Key: key}
		switch strings.ToLower(verb) {
		case "down":
			step.Action = input.Press
		case "up":
			step.Action = input.Release
		case "press":
			step.Action = input.Press
			step.Tap = true
		default:
			return nil, fmt.Errorf("script step %q: unknown action %q", f, verb)
		}
		steps = append(steps, step)
	}

	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Tick < steps[j].Tick })
	return steps, nil
}

// ScriptedInput replays a key script into a keyboard, one tick per Poll, and
// asks to close after a fixed number of ticks.
type ScriptedInput struct {
	kb    *input.Keyboard
	steps []Step
	next  int
	tick  int
	ticks int
}

func NewScriptedInput(kb *input.Keyboard, steps []Step, ticks int) *ScriptedInput {
	return &ScriptedInput{kb: kb, steps: steps, ticks: ticks}
}

func (s *ScriptedInput) Poll() {
	for s.next < len(s.steps) && s.steps[s.next].Tick <= s.tick {
		st := s.steps[s.next]
		s.kb.HandleKey(st.Key, st.Action)
		if st.Tap {
			s.kb.HandleKey(st.Key, input.Release)
		}
		s.next++
	}
	s.tick++
}

func (s *ScriptedInput) ShouldClose() bool {
	return s.tick >= s.ticks
}

// Tick is the number of polls so far.
func (s *ScriptedInput) Tick() int {
	return s.tick
}
