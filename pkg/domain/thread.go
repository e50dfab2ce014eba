package domain

// Thread is the ticket-like conversation between a recipient and the support
// team. Scope is the key under which the thread's questionnaire configuration
// lives in the config store.
type Thread struct {
	ID        string     `json:"id"`
	Channel   ChannelRef `json:"channel"`
	Recipient UserRef    `json:"recipient"`
	Scope     string     `json:"scope"`
}

// ThreadReady is emitted by the gateway once a thread has been created and is
// ready for messages.
type ThreadReady struct {
	Thread         Thread       `json:"thread"`
	Creator        UserRef      `json:"creator"`
	Category       *CategoryRef `json:"category,omitempty"`
	InitialMessage *Message     `json:"initial_message,omitempty"`
}
