package live

// Wire message types. Inbound and outbound frames are JSON objects tagged
// with a "type" field.
const (
	MsgSubscribe   = "+sub"
	MsgUnsubscribe = "-sub"
	MsgVoteCounts  = "~voteCounts"
	MsgPollDeleted = "-poll"
)

// ClientMessage is an inbound subscribe/unsubscribe intent.
type ClientMessage struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// OptionCount is one entry of a poll tally. Options nobody voted for are
// included with a zero count.
type OptionCount struct {
	ID    uint  `json:"id"`
	Count int64 `json:"count"`
}

// VoteCountsMessage carries a freshly recomputed tally. UserVote is set only
// on the copies delivered to the voting user's own connections.
type VoteCountsMessage struct {
	Type     string        `json:"type"`
	PollID   uint          `json:"pollId"`
	Votes    []OptionCount `json:"votes"`
	UserVote *uint         `json:"userVote,omitempty"`
}

func NewVoteCountsMessage(pollID uint, votes []OptionCount) VoteCountsMessage {
	return VoteCountsMessage{Type: MsgVoteCounts, PollID: pollID, Votes: votes}
}

// PollDeletedMessage tells subscribers a poll was removed.
type PollDeletedMessage struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

func NewPollDeletedMessage(pollID uint) PollDeletedMessage {
	return PollDeletedMessage{Type: MsgPollDeleted, ID: pollID}
}
