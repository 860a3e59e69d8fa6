package domain

import "strconv"

// GroupSettings holds the per-group moderation knobs. DeleteTimer is always
// stored in seconds even though users configure it in minutes.
type GroupSettings struct {
	DeleteTimer    int  `json:"delete_timer"`
	AutoDelete     bool `json:"auto_delete"`
	TextAutoDelete bool `json:"text_auto_delete"`
}

// DefaultDeleteTimer is the fallback auto-delete delay in seconds (30 minutes).
const DefaultDeleteTimer = 30 * 60

// DefaultSettings returns the settings applied to groups that never configured
// anything. A non-positive timer falls back to DefaultDeleteTimer.
func DefaultSettings(deleteTimer int) GroupSettings {
	if deleteTimer <= 0 {
		deleteTimer = DefaultDeleteTimer
	}
	return GroupSettings{
		DeleteTimer:    deleteTimer,
		AutoDelete:     true,
		TextAutoDelete: true,
	}
}

// BotState is the root persisted document. Group-keyed maps use the decimal
// string form of the chat ID, matching the on-disk format of earlier versions.
// AuthorizedUsers and AuthorizedUserIDs are legacy fields kept so that old
// documents round-trip unchanged.
type BotState struct {
	StartedUsers          []int64                  `json:"started_users"`
	GroupIDs              []int64                  `json:"group_ids"`
	AuthorizedUsers       []int64                  `json:"authorized_users"`
	AuthorizedUserIDs     []int64                  `json:"authorized_user_ids"`
	GlobalAuthorizedUsers []int64                  `json:"global_authorized_users"`
	GroupAuthorizedUsers  map[string][]int64       `json:"group_authorized_users"`
	GroupSettings         map[string]GroupSettings `json:"group_settings"`
}

// NewBotState returns an empty state with all maps initialized.
func NewBotState() *BotState {
	return &BotState{
		StartedUsers:          []int64{},
		GroupIDs:              []int64{},
		AuthorizedUsers:       []int64{},
		AuthorizedUserIDs:     []int64{},
		GlobalAuthorizedUsers: []int64{},
		GroupAuthorizedUsers:  map[string][]int64{},
		GroupSettings:         map[string]GroupSettings{},
	}
}

// GroupKey converts a chat ID into the string key used by the persisted maps.
func GroupKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Normalize initializes nil maps and slices after unmarshaling a document that
// predates some of the fields.
func (s *BotState) Normalize() {
	if s.StartedUsers == nil {
		s.StartedUsers = []int64{}
	}
	if s.GroupIDs == nil {
		s.GroupIDs = []int64{}
	}
	if s.AuthorizedUsers == nil {
		s.AuthorizedUsers = []int64{}
	}
	if s.AuthorizedUserIDs == nil {
		s.AuthorizedUserIDs = []int64{}
	}
	if s.GlobalAuthorizedUsers == nil {
		s.GlobalAuthorizedUsers = []int64{}
	}
	if s.GroupAuthorizedUsers == nil {
		s.GroupAuthorizedUsers = map[string][]int64{}
	}
	if s.GroupSettings == nil {
		s.GroupSettings = map[string]GroupSettings{}
	}
}

// AuthResult reports the outcome of an authorize operation.
type AuthResult struct {
	Scope   AuthScope
	Target  int64
	Already bool
}

// UnauthResult reports the outcome of an unauthorize operation.
type UnauthResult struct {
	Scope         AuthScope
	Target        int64
	WasAuthorized bool
}
