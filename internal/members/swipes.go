package members

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

type Action string

const (
	Connect Action = "connect"
	Pass    Action = "pass"
)

func (a Action) Valid() bool {
	return a == Connect || a == Pass
}

// Swipes is the connect/pass history of one member.
type Swipes struct {
	Items []*Swipe `json:"items"`
}

type Swipe struct {
	MemberID string    `json:"member_id"`
	Action   Action    `json:"action"`
	At       time.Time `json:"at"`
}

func NewSwipe(memberID string, action Action) *Swipe {
	return &Swipe{MemberID: memberID, Action: action, At: time.Now().UTC()}
}

// LoadSwipes reads the history file. A missing or empty file is an empty history.
func LoadSwipes(path string) (*Swipes, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Swipes{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Swipes{}, nil
	}

	var swipes Swipes
	if err := json.NewDecoder(file).Decode(&swipes); err != nil {
		return nil, fmt.Errorf("decoding swipe history %s: %w", path, err)
	}

	for idx, swipe := range swipes.Items {
		if swipe == nil || !swipe.Action.Valid() {
			return nil, fmt.Errorf("swipe history %s: entry %d has no valid action", path, idx)
		}
	}

	return &swipes, nil
}

func (s *Swipes) Append(swipes ...*Swipe) {
	s.Items = append(s.Items, swipes...)
}

func (s *Swipes) Len() int {
	return len(s.Items)
}

// MemberIDs lists swiped members, optionally only those swiped with one of actions.
func (s *Swipes) MemberIDs(actions ...Action) []string {
	ids := make([]string, 0, len(s.Items))
	for _, swipe := range s.Items {
		if len(actions) > 0 && !containsAction(actions, swipe.Action) {
			continue
		}
		ids = append(ids, swipe.MemberID)
	}
	return ids
}

func containsAction(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func (s *Swipes) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
