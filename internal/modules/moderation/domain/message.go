package domain

// IncomingMessage is the scheduler's view of a platform message event.
type IncomingMessage struct {
	ChatID    int64
	MessageID int
	UserID    int64
	UserName  string
	Kind      MediaType
}
