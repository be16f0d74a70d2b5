package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	Room            Category = "Room"
	Presence        Category = "Presence"
	Message         Category = "Message"
	Reaper          Category = "Reaper"
	Gateway         Category = "Gateway"
	RabbitMQ        Category = "RabbitMQ"
	MongoDB         Category = "MongoDB"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Room lifecycle
	Join     SubCategory = "Join"
	Leave    SubCategory = "Leave"
	Capacity SubCategory = "Capacity"
	Reap     SubCategory = "Reap"

	// Messages
	Send   SubCategory = "Send"
	Expiry SubCategory = "Expiry"
	Prune  SubCategory = "Prune"

	// Gateway / broker
	Publish   SubCategory = "Publish"
	Consume   SubCategory = "Consume"
	Websocket SubCategory = "Websocket"
)

const (
	AppName       ExtraKey = "AppName"
	LoggerName    ExtraKey = "Logger"
	ClientIp      ExtraKey = "ClientIp"
	Method        ExtraKey = "Method"
	StatusCode    ExtraKey = "StatusCode"
	Path          ExtraKey = "Path"
	Latency       ExtraKey = "Latency"
	ErrorMessage  ExtraKey = "ErrorMessage"
	RoomCode      ExtraKey = "RoomCode"
	ParticipantID ExtraKey = "ParticipantId"
	MessageID     ExtraKey = "MessageId"
	Count         ExtraKey = "Count"
	Duration      ExtraKey = "Duration"
)
