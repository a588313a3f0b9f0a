package model

// Conversation tracks one outbound question sent over the messenger side
// channel and its eventual reply. Keyed by (Channel, TargetUserID); carries a
// back-reference to the job it completes. Created once, mutated once when a
// reply is detected, never deleted.
type Conversation struct {
	ID                string
	Channel           string // messenger channel the question was delivered to
	TargetUserID      string // resolved messenger identity of the addressee
	SessionID         string
	JobID             string
	DeliveryTS        string // message timestamp of the outbound question
	ExtractedEmail    string
	ExtractedQuestion string
	UserResponse      *string // nil until a qualifying reply arrives
}
