package domain

import "errors"

// Kind groups domain errors by how callers are expected to react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindCapacity
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity_exceeded"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidRoomCode     = errors.New("invalid room code")
	ErrEmptyOrTooLong      = errors.New("message is empty or too long")
	ErrInvalidDisplayName  = errors.New("invalid display name")
	ErrDisplayNameRequired = errors.New("display name is required in this room")

	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")

	ErrRoomFull     = errors.New("room is full")
	ErrTooManyRooms = errors.New("room limit reached")

	ErrRoomClosed = errors.New("room is closed")
)

type classified struct {
	err  error
	kind Kind
	code string
}

var classification = []classified{
	{ErrInvalidRoomCode, KindInvalidInput, "invalid_room_code"},
	{ErrEmptyOrTooLong, KindInvalidInput, "empty_or_too_long"},
	{ErrInvalidDisplayName, KindInvalidInput, "invalid_display_name"},
	{ErrDisplayNameRequired, KindInvalidInput, "display_name_required"},
	{ErrRoomNotFound, KindNotFound, "room_not_found"},
	{ErrParticipantNotFound, KindNotFound, "participant_not_found"},
	{ErrRoomFull, KindCapacity, "room_full"},
	{ErrTooManyRooms, KindCapacity, "too_many_rooms"},
	{ErrRoomClosed, KindConflict, "room_closed"},
}

// KindOf reports the Kind of the first known sentinel found in err's chain.
func KindOf(err error) Kind {
	for _, c := range classification {
		if errors.Is(err, c.err) {
			return c.kind
		}
	}
	return KindUnknown
}

// Code returns the stable reason code clients receive for err.
func Code(err error) string {
	for _, c := range classification {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal_error"
}

// ReasonText returns the text of the sentinel behind err, without any wrapping
// detail. Unclassified errors yield an empty string.
func ReasonText(err error) string {
	for _, c := range classification {
		if errors.Is(err, c.err) {
			return c.err.Error()
		}
	}
	return ""
}
