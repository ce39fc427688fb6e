package design

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyValue is returned when an action that needs a value receives none.
var ErrEmptyValue = errors.New("design: action value must not be empty")

// Draft is an in-progress edit of a card's design. Apply returns a new
// Draft and leaves the receiver untouched.
type Draft struct {
	state State
}

// NewDraft starts a draft from a committed state.
func NewDraft(state State) Draft {
	return Draft{state: state}
}

// State returns the draft's current snapshot.
func (d Draft) State() State {
	return d.state
}

// Apply runs one transition against the draft.
func (d Draft) Apply(action Action) (Draft, error) {
	if action == nil {
		return d, errors.New("design: nil action")
	}
	next, err := action.apply(d.state)
	if err != nil {
		return d, err
	}
	return Draft{state: next}, nil
}

// Action is a design transition. The set of actions is closed.
type Action interface {
	apply(State) (State, error)
}

// UploadCustom installs a user-uploaded background.
type UploadCustom struct{ URL string }

// GenerateAI installs an AI-generated background and drops any custom upload
// so the new image is the one shown.
type GenerateAI struct{ URL string }

// PickColor switches to manual mode with the given colour.
type PickColor struct{ Color string }

// PickTemplate switches to a named template.
type PickTemplate struct{ ID string }

// ClearCustom removes the custom upload.
type ClearCustom struct{}

// ClearAI removes the AI background.
type ClearAI struct{}

// Reset clears every design field.
type Reset struct{}

func (a UploadCustom) apply(s State) (State, error) {
	url := strings.TrimSpace(a.URL)
	if url == "" {
		return s, ErrEmptyValue
	}
	s.CustomDesignURL = url
	s.Mode = ModeCustom
	return s, nil
}

func (a GenerateAI) apply(s State) (State, error) {
	url := strings.TrimSpace(a.URL)
	if url == "" {
		return s, ErrEmptyValue
	}
	s.CustomDesignURL = ""
	s.AIBackground = url
	s.Mode = ModeAI
	return s, nil
}

func (a PickColor) apply(s State) (State, error) {
	if strings.TrimSpace(a.Color) == "" {
		return s, ErrEmptyValue
	}
	color, err := NormalizeHex(strings.TrimSpace(a.Color))
	if err != nil {
		return s, err
	}
	s.CustomDesignURL = ""
	s.AIBackground = ""
	s.Color = color
	s.Mode = ModeManual
	return s, nil
}

func (a PickTemplate) apply(s State) (State, error) {
	id := strings.TrimSpace(a.ID)
	if id == "" {
		return s, ErrEmptyValue
	}
	s.CustomDesignURL = ""
	s.AIBackground = ""
	s.Template = id
	s.Mode = ModeTemplate
	return s, nil
}

func (ClearCustom) apply(s State) (State, error) {
	s.CustomDesignURL = ""
	s.Mode = inferMode(s)
	return s, nil
}

func (ClearAI) apply(s State) (State, error) {
	s.AIBackground = ""
	s.Mode = inferMode(s)
	return s, nil
}

func (Reset) apply(State) (State, error) {
	return State{}, nil
}

// inferMode picks the mode matching whatever source Resolve would now use.
func inferMode(s State) Mode {
	switch {
	case s.CustomDesignURL != "":
		return ModeCustom
	case s.AIBackground != "":
		return ModeAI
	case s.Mode == ModeManual && s.Color != "":
		return ModeManual
	case s.Template != "":
		return ModeTemplate
	case s.Color != "":
		return ModeManual
	default:
		return ModeUnset
	}
}

// ParseAction builds an Action from its wire name and value.
func ParseAction(name, value string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "upload_custom":
		return UploadCustom{URL: value}, nil
	case "generate_ai":
		return GenerateAI{URL: value}, nil
	case "pick_color":
		return PickColor{Color: value}, nil
	case "pick_template":
		return PickTemplate{ID: value}, nil
	case "clear_custom":
		return ClearCustom{}, nil
	case "clear_ai":
		return ClearAI{}, nil
	case "reset":
		return Reset{}, nil
	default:
		return nil, fmt.Errorf("design: unknown action %q", name)
	}
}
