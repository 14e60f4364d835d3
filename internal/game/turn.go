package game

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerAgent    Speaker = "agent"
	SpeakerCustomer Speaker = "customer"
	SpeakerSystem   Speaker = "system"
)

// Turn is one utterance in a call. Turns are append-only: once recorded in
// the transcript they are never edited.
type Turn struct {
	Speaker  Speaker `json:"speaker"`
	Text     string  `json:"text"`
	Ordinal  int     `json:"turn"`
	IsBounce bool    `json:"is_bounce,omitempty"`
}
