package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StateRef is the wire shape of every currentState and movement type: {"id": N, "name": "label"}
type StateRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// EntityRef points at another resource. Requests only need the id.
type EntityRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Ref builds a request reference carrying only the id
func Ref(id int64) EntityRef {
	return EntityRef{ID: id}
}

type ToolState int

const (
	ToolStateUnknown ToolState = iota
	ToolStateAvailable
	ToolStateLoaned
	ToolStateInRepair
	ToolStateDecommissioned
)

var toolStateLabels = map[ToolState]string{
	ToolStateAvailable:      "Disponible",
	ToolStateLoaned:         "Prestada",
	ToolStateInRepair:       "En reparación",
	ToolStateDecommissioned: "Dada de baja",
}

// ToolStates lists the selectable tool states in backend id order
func ToolStates() []ToolState {
	return []ToolState{ToolStateAvailable, ToolStateLoaned, ToolStateInRepair, ToolStateDecommissioned}
}

func (s ToolState) Valid() bool {
	_, ok := toolStateLabels[s]
	return ok
}

func (s ToolState) Label() string {
	if l, ok := toolStateLabels[s]; ok {
		return l
	}
	return "Desconocido"
}

func (s ToolState) String() string { return s.Label() }

func (s ToolState) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(StateRef{ID: int64(s), Name: s.Label()})
}

func (s *ToolState) UnmarshalJSON(data []byte) error {
	ref, err := decodeStateRef(data)
	if err != nil {
		return fmt.Errorf("tool state: %w", err)
	}
	*s = ToolStateUnknown
	if st := ToolState(ref.ID); st.Valid() {
		*s = st
		return nil
	}
	for st, label := range toolStateLabels {
		if label == ref.Name {
			*s = st
			return nil
		}
	}
	return nil
}

type ClientState int

const (
	ClientStateUnknown ClientState = iota
	ClientStateActive
	ClientStateInactive
)

var clientStateLabels = map[ClientState]string{
	ClientStateActive:   "Activo",
	ClientStateInactive: "Inactivo",
}

// ClientStates lists the selectable client states in backend id order
func ClientStates() []ClientState {
	return []ClientState{ClientStateActive, ClientStateInactive}
}

func (s ClientState) Valid() bool {
	_, ok := clientStateLabels[s]
	return ok
}

func (s ClientState) Label() string {
	if l, ok := clientStateLabels[s]; ok {
		return l
	}
	return "Desconocido"
}

func (s ClientState) String() string { return s.Label() }

func (s ClientState) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(StateRef{ID: int64(s), Name: s.Label()})
}

func (s *ClientState) UnmarshalJSON(data []byte) error {
	ref, err := decodeStateRef(data)
	if err != nil {
		return fmt.Errorf("client state: %w", err)
	}
	*s = ClientStateUnknown
	if st := ClientState(ref.ID); st.Valid() {
		*s = st
		return nil
	}
	for st, label := range clientStateLabels {
		if label == ref.Name {
			*s = st
			return nil
		}
	}
	return nil
}

// LoanStatus is the backend label of a loan's state. Labels outside the
// known set are kept as sent so they can still be displayed.
type LoanStatus string

const (
	LoanStatusUnknown   LoanStatus = ""
	LoanStatusInProcess LoanStatus = "En proceso"
	LoanStatusOverdue   LoanStatus = "Atrasado"
	LoanStatusReturned  LoanStatus = "Devuelto"
	LoanStatusCompleted LoanStatus = "Completado"
)

var loanStatusIDs = map[LoanStatus]int64{
	LoanStatusInProcess: 1,
	LoanStatusOverdue:   2,
	LoanStatusReturned:  3,
	LoanStatusCompleted: 4,
}

// Known reports whether s is one of the four statuses this build understands
func (s LoanStatus) Known() bool {
	_, ok := loanStatusIDs[s]
	return ok
}

func (s LoanStatus) String() string {
	if s == LoanStatusUnknown {
		return "-"
	}
	return string(s)
}

func (s LoanStatus) MarshalJSON() ([]byte, error) {
	if s == LoanStatusUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(StateRef{ID: loanStatusIDs[s], Name: string(s)})
}

// UnmarshalJSON accepts either the state object or a bare label
func (s *LoanStatus) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return fmt.Errorf("loan status: %w", err)
		}
		*s = LoanStatus(label)
		return nil
	}
	ref, err := decodeStateRef(trimmed)
	if err != nil {
		return fmt.Errorf("loan status: %w", err)
	}
	if ref.Name == "" {
		for st, id := range loanStatusIDs {
			if id == ref.ID {
				*s = st
				return nil
			}
		}
	}
	*s = LoanStatus(ref.Name)
	return nil
}

func decodeStateRef(data []byte) (StateRef, error) {
	var ref StateRef
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ref, nil
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return StateRef{}, err
	}
	return ref, nil
}
