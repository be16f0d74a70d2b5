package domain

import "time"

const (
	DefaultHistoryDurationHours = 24
	DefaultMaxUsers             = 50
)

type RoomSettings struct {
	HistoryDurationHours int  `json:"historyDurationHours"`
	MaxUsers             int  `json:"maxUsers"`
	AllowAnonymous       bool `json:"allowAnonymous"`
}

func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		HistoryDurationHours: DefaultHistoryDurationHours,
		MaxUsers:             DefaultMaxUsers,
		AllowAnonymous:       true,
	}
}

// Normalize replaces non-positive limits with the package defaults.
func (s RoomSettings) Normalize() RoomSettings {
	if s.HistoryDurationHours <= 0 {
		s.HistoryDurationHours = DefaultHistoryDurationHours
	}
	if s.MaxUsers <= 0 {
		s.MaxUsers = DefaultMaxUsers
	}
	return s
}

// SettingsPatch carries the settings a creator supplied. Nil fields keep the
// base value, so an omitted allowAnonymous stays true.
type SettingsPatch struct {
	HistoryDurationHours *int  `json:"historyDurationHours,omitempty"`
	MaxUsers             *int  `json:"maxUsers,omitempty"`
	AllowAnonymous       *bool `json:"allowAnonymous,omitempty"`
}

// Apply overlays the supplied fields on base and normalizes the result.
func (p *SettingsPatch) Apply(base RoomSettings) RoomSettings {
	if p != nil {
		if p.HistoryDurationHours != nil {
			base.HistoryDurationHours = *p.HistoryDurationHours
		}
		if p.MaxUsers != nil {
			base.MaxUsers = *p.MaxUsers
		}
		if p.AllowAnonymous != nil {
			base.AllowAnonymous = *p.AllowAnonymous
		}
	}
	return base.Normalize()
}

// Retention is how long a message may live regardless of who has seen it.
func (s RoomSettings) Retention() time.Duration {
	return time.Duration(s.HistoryDurationHours) * time.Hour
}

// Policy holds the process-wide timing and size limits every room obeys.
type Policy struct {
	InactiveAfter        time.Duration
	AwayAfter            time.Duration
	ExpiryGrace          time.Duration
	MaxMessageLength     int
	MaxDisplayNameLength int
	MinCodeLength        int
	MaxCodeLength        int
}

func DefaultPolicy() Policy {
	return Policy{
		InactiveAfter:        30 * time.Second,
		AwayAfter:            5 * time.Minute,
		ExpiryGrace:          2 * time.Second,
		MaxMessageLength:     500,
		MaxDisplayNameLength: 32,
		MinCodeLength:        3,
		MaxCodeLength:        64,
	}
}

// WithDefaults fills every zero field from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.InactiveAfter <= 0 {
		p.InactiveAfter = d.InactiveAfter
	}
	if p.AwayAfter <= 0 {
		p.AwayAfter = d.AwayAfter
	}
	if p.ExpiryGrace <= 0 {
		p.ExpiryGrace = d.ExpiryGrace
	}
	if p.MaxMessageLength <= 0 {
		p.MaxMessageLength = d.MaxMessageLength
	}
	if p.MaxDisplayNameLength <= 0 {
		p.MaxDisplayNameLength = d.MaxDisplayNameLength
	}
	if p.MinCodeLength <= 0 {
		p.MinCodeLength = d.MinCodeLength
	}
	if p.MaxCodeLength <= 0 {
		p.MaxCodeLength = d.MaxCodeLength
	}
	return p
}
