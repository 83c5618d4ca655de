package bot

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// stage identifies which free-text input, if any, a chat is currently
// expected to provide. Anything other than stageIdle means a multi-step
// conversation is in flight.
type stage int

const (
	stageIdle stage = iota

	// ledger entry
	stageAwaitTravelLocation
	stageAwaitKilometers
	stageAwaitMaintenanceDescription
	stageAwaitMaintenanceCost
	stageAwaitFuelAmount
	stageAwaitFuelPrice

	// reminder creation
	stageAwaitReminderDescription
	stageAwaitReminderFrequencyKm
	stageAwaitReminderFrequencyMonths
	stageAwaitReminderLastDone

	// reminder completion
	stageAwaitCompletionDate
)

// reminderKind tags which cycle axes a reminder under construction tracks.
// Dispatching on the tag, instead of probing which fields happen to be
// set, keeps the creation flow branching explicit.
type reminderKind int

const (
	kindNone reminderKind = iota
	kindDistance
	kindTime
	kindDual
)

// reminderDraft accumulates the answers of the reminder creation dialogue
// until the user confirms.
type reminderDraft struct {
	kind            reminderKind
	description     string
	frequencyKm     int
	frequencyMonths int
	lastDoneRaw     string // empty means "use the defaults"
}

// session is the conversation state of a single chat.
type session struct {
	stage stage

	// scratch for the in-flight conversation, valid per stage
	maintenanceType domain.MaintenanceType
	maintenanceDesc string
	fuelAmount      float64
	draft           reminderDraft
	completingID    uuid.UUID
}

// sessionStore hands out per-chat sessions. The zero session means no
// conversation is in flight.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

// get returns the session for a chat, creating it on first contact.
func (s *sessionStore) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	return sess
}

// reset drops all conversation state for a chat. Called when a dialogue
// finishes and on /cancel.
func (s *sessionStore) reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
