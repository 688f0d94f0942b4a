package model

// Segment is one element of an outgoing group message: either a user
// mention or plain text. The adapter decides how to render mentions on
// its platform.
type Segment struct {
	MentionID string
	Text      string
}

func Mention(userID string) Segment {
	return Segment{MentionID: userID}
}

func Text(text string) Segment {
	return Segment{Text: text}
}

func (s Segment) IsMention() bool {
	return s.MentionID != ""
}
