package onebot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// A group message as delivered by the event stream. IDs are kept as decimal
// strings throughout; the wire format uses numbers but nothing in the engine
// does arithmetic on them.
type MessageEvent struct {
	MessageID  string
	GroupID    string
	UserID     string
	SelfID     string
	Raw        string
	Segments   []Segment
	SenderCard string
	SenderName string
}

// PlainText returns the message text with inline CQ markup stripped.
func (evt *MessageEvent) PlainText() string {
	return strings.TrimSpace(StripCQ(evt.Raw))
}

// A group message withdrawal.
type RecallEvent struct {
	GroupID    string
	UserID     string
	OperatorID string
	MessageID  string
}

// A new member entering a group.
type MemberJoinEvent struct {
	GroupID string
	UserID  string
}

// A member's display card changing, as observed by the host.
type MemberCardEvent struct {
	GroupID string
	UserID  string
	NewCard string
	OldCard string
}

// Callback functions for each event kind the engine consumes. Nil callbacks
// mean the event kind is ignored.
type EventCallbacks struct {
	Message    func(evt *MessageEvent) error
	Recall     func(evt *RecallEvent) error
	MemberJoin func(evt *MemberJoinEvent) error
	MemberCard func(evt *MemberCardEvent) error
}

type rawSender struct {
	Card     string `json:"card"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// Superset of the fields carried by the OneBot event types we dispatch on.
type rawEvent struct {
	PostType    string      `json:"post_type"`
	MessageType string      `json:"message_type"`
	NoticeType  string      `json:"notice_type"`
	SubType     string      `json:"sub_type"`
	MessageID   json.Number `json:"message_id"`
	GroupID     json.Number `json:"group_id"`
	UserID      json.Number `json:"user_id"`
	OperatorID  json.Number `json:"operator_id"`
	SelfID      json.Number `json:"self_id"`
	RawMessage  string      `json:"raw_message"`
	Message     []Segment   `json:"message"`
	Sender      *rawSender  `json:"sender"`
	CardNew     string      `json:"card_new"`
	CardOld     string      `json:"card_old"`
}

// dispatchEvent decodes one event frame and routes it to the matching
// callback. Unknown event types are silently skipped; the stream carries many
// kinds we have no rules for.
func dispatchEvent(raw []byte, cb *EventCallbacks) error {
	var evt rawEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return fmt.Errorf("decoding event frame: %w", err)
	}

	switch evt.PostType {
	case "message":
		if evt.MessageType != "group" || cb.Message == nil {
			return nil
		}
		msg := &MessageEvent{
			MessageID: evt.MessageID.String(),
			GroupID:   evt.GroupID.String(),
			UserID:    evt.UserID.String(),
			SelfID:    evt.SelfID.String(),
			Raw:       evt.RawMessage,
			Segments:  evt.Message,
		}
		if evt.Sender != nil {
			msg.SenderCard = evt.Sender.Card
			msg.SenderName = evt.Sender.Nickname
		}
		return cb.Message(msg)
	case "notice":
		switch evt.NoticeType {
		case "group_recall":
			if cb.Recall == nil {
				return nil
			}
			return cb.Recall(&RecallEvent{
				GroupID:    evt.GroupID.String(),
				UserID:     evt.UserID.String(),
				OperatorID: evt.OperatorID.String(),
				MessageID:  evt.MessageID.String(),
			})
		case "group_increase":
			if cb.MemberJoin == nil {
				return nil
			}
			return cb.MemberJoin(&MemberJoinEvent{
				GroupID: evt.GroupID.String(),
				UserID:  evt.UserID.String(),
			})
		case "group_card":
			if cb.MemberCard == nil {
				return nil
			}
			return cb.MemberCard(&MemberCardEvent{
				GroupID: evt.GroupID.String(),
				UserID:  evt.UserID.String(),
				NewCard: evt.CardNew,
				OldCard: evt.CardOld,
			})
		}
	}
	return nil
}
