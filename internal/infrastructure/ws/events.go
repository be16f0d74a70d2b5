package ws

// Outbound frame types. Room events reuse their domain kind as the type.
const (
	RoomStateEvent = "room.state"
	ErrorEvent     = "error"
)

// Inbound frame types.
const (
	FrameSendMessage = "message.send"
	FrameTyping      = "typing"
	FrameHeartbeat   = "heartbeat"
	FrameAck         = "ack"
	FrameLeave       = "leave"
)
