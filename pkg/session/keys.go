package session

import (
	"github.com/matzehuels/sketchbook/pkg/observability"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// Action is a host-independent keyboard command.
type Action int

const (
	ActionNone Action = iota
	ActionSaveSVG
	ActionSavePNG
	ActionReroll
	ActionCyclePalette
	ActionToggleDebug
	ActionToggleLayer
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionSaveSVG:      "save svg",
	ActionSavePNG:      "save png",
	ActionReroll:       "reroll",
	ActionCyclePalette: "cycle palette",
	ActionToggleDebug:  "toggle debug",
	ActionToggleLayer:  "toggle layer",
	ActionQuit:         "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Format returns the export format for save actions, or "".
func (a Action) Format() string {
	switch a {
	case ActionSaveSVG:
		return sink.FormatSVG
	case ActionSavePNG:
		return sink.FormatPNG
	}
	return ""
}

// Keymap maps key names, as reported by bubbletea's KeyMsg.String and the
// viewer's key translation, to actions.
type Keymap map[string]Action

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		"s":      ActionSaveSVG,
		"S":      ActionSaveSVG,
		"p":      ActionSavePNG,
		"P":      ActionSavePNG,
		"r":      ActionReroll,
		"R":      ActionReroll,
		"c":      ActionCyclePalette,
		"d":      ActionToggleDebug,
		"l":      ActionToggleLayer,
		"q":      ActionQuit,
		"esc":    ActionQuit,
		"ctrl+c": ActionQuit,
	}
}

// Lookup returns the action bound to key.
func (k Keymap) Lookup(key string) Action {
	return k[key]
}

// Outcome is the result of dispatching an action against a session.
type Outcome struct {
	Action      Action
	Composition *sketch.Composition
	// Format is set for save actions; the host writes the artifact.
	Format string
	Quit   bool
}

// DefaultLayer is the layer toggled by [ActionToggleLayer].
const DefaultLayer = "overlay"

// Dispatch applies the action bound to key. Save and quit actions do not
// touch the session; the host acts on Outcome.Format and Outcome.Quit.
// Bound actions are reported to the session hooks.
func (s *Session) Dispatch(k Keymap, key string) (out Outcome, err error) {
	a := k.Lookup(key)
	out = Outcome{Action: a}
	if a != ActionNone {
		defer func() {
			n := 0
			if out.Composition != nil {
				n = out.Composition.Count()
			}
			observability.Session().OnAction(s.id, s.sk.Info().Name, a.String(), n, err)
		}()
	}
	switch a {
	case ActionSaveSVG, ActionSavePNG:
		out.Format = a.Format()
		out.Composition = s.Composition()
		if out.Composition == nil {
			return out, ErrNotReady
		}
	case ActionReroll:
		out.Composition, err = s.Reroll()
	case ActionCyclePalette:
		out.Composition, err = s.CyclePalette()
	case ActionToggleDebug:
		out.Composition, err = s.ToggleDebug()
	case ActionToggleLayer:
		out.Composition, err = s.ToggleLayer(DefaultLayer)
	case ActionQuit:
		out.Quit = true
	}
	return out, err
}
