// Package split holds the participant selector for new expenses. It is a pure
// reducer over the loaded member list; the backend computes the actual shares.
package split

import (
	"errors"
	"slices"

	"github.com/dukerupert/repapp/internal/model"
)

// Mode is the division mode label sent with an expense.
type Mode string

const (
	ModeAll           Mode = "TODOS"
	ModeAdminsMembers Mode = "ADM_MEMBRO"
	ModeManual        Mode = "MANUAL"
)

var ErrNoParticipants = errors.New("select at least one participant")

// State is the selector value. Participants is kept sorted ascending and is
// empty in ModeAll.
type State struct {
	Mode         Mode
	Participants []int64
}

// Initial is the selector state before any interaction.
func Initial() State {
	return State{Mode: ModeAll}
}

type ActionKind int

const (
	SelectAll ActionKind = iota
	SelectAdminsMembers
	Toggle
)

type Action struct {
	Kind     ActionKind
	MemberID int64
}

// Reduce applies action to s given the currently loaded members.
func Reduce(s State, members []model.Member, a Action) State {
	switch a.Kind {
	case SelectAll:
		return State{Mode: ModeAll}

	case SelectAdminsMembers:
		ids := []int64{}
		for _, m := range members {
			if m.Role == model.RoleAdmin || m.Role == model.RoleMember {
				ids = append(ids, m.UserID)
			}
		}
		return State{Mode: ModeAdminsMembers, Participants: normalize(ids)}

	case Toggle:
		// Leaving TODOS starts from everyone and drops the toggled member.
		if s.Mode == ModeAll {
			ids := []int64{}
			for _, m := range members {
				if m.UserID != a.MemberID {
					ids = append(ids, m.UserID)
				}
			}
			return State{Mode: ModeManual, Participants: normalize(ids)}
		}

		ids := slices.Clone(s.Participants)
		if i, found := slices.BinarySearch(ids, a.MemberID); found {
			ids = slices.Delete(ids, i, i+1)
		} else {
			ids = slices.Insert(ids, i, a.MemberID)
		}
		if ids == nil {
			ids = []int64{}
		}
		return State{Mode: ModeManual, Participants: ids}
	}
	return s
}

// Selected reports whether id is shown as a participant.
func (s State) Selected(id int64) bool {
	if s.Mode == ModeAll {
		return true
	}
	_, found := slices.BinarySearch(s.Participants, id)
	return found
}

// Validate rejects a manual selection with nobody in it.
func (s State) Validate() error {
	if s.Mode == ModeManual && len(s.Participants) == 0 {
		return ErrNoParticipants
	}
	return nil
}

// RequestIDs is the participant list sent to the backend. It is never nil;
// an empty list means the whole household.
func (s State) RequestIDs() []int64 {
	if s.Mode == ModeAll {
		return []int64{}
	}
	return append([]int64{}, s.Participants...)
}

func normalize(ids []int64) []int64 {
	slices.Sort(ids)
	return slices.Compact(ids)
}
