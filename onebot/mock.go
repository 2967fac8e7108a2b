package onebot

import (
	"context"
	"sync"
	"time"
)

// A recorded action call, in issue order.
type RecordedAction struct {
	Kind      string
	GroupID   string
	UserID    string
	MessageID string
	Duration  time.Duration
	Text      string
	Enabled   bool
	Content   []Segment
}

// ActionRecorder implements ActionAPI by recording every call, for use in
// tests. Member roles and cards can be seeded via SetMember.
type ActionRecorder struct {
	mu      sync.Mutex
	actions []RecordedAction
	members map[string]*MemberInfo
	// Err, if set, is returned by every call.
	Err error
}

var _ ActionAPI = (*ActionRecorder)(nil)

func NewActionRecorder() *ActionRecorder {
	return &ActionRecorder{
		members: make(map[string]*MemberInfo),
	}
}

func (r *ActionRecorder) record(a RecordedAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.actions = append(r.actions, a)
	return nil
}

// Actions returns a copy of all recorded calls.
func (r *ActionRecorder) Actions() []RecordedAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedAction, len(r.actions))
	copy(out, r.actions)
	return out
}

// ByKind returns the recorded calls of one kind, in issue order.
func (r *ActionRecorder) ByKind(kind string) []RecordedAction {
	var out []RecordedAction
	for _, a := range r.Actions() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (r *ActionRecorder) SetMember(groupID string, info MemberInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[groupID+":"+info.UserID] = &info
}

func (r *ActionRecorder) Kick(ctx context.Context, groupID, userID string) error {
	return r.record(RecordedAction{Kind: "kick", GroupID: groupID, UserID: userID})
}

func (r *ActionRecorder) Mute(ctx context.Context, groupID, userID string, d time.Duration) error {
	return r.record(RecordedAction{Kind: "mute", GroupID: groupID, UserID: userID, Duration: d})
}

func (r *ActionRecorder) SetWholeGroupMute(ctx context.Context, groupID string, enabled bool) error {
	return r.record(RecordedAction{Kind: "whole_mute", GroupID: groupID, Enabled: enabled})
}

func (r *ActionRecorder) DeleteMessage(ctx context.Context, messageID string) error {
	return r.record(RecordedAction{Kind: "delete", MessageID: messageID})
}

func (r *ActionRecorder) SetCard(ctx context.Context, groupID, userID, card string) error {
	return r.record(RecordedAction{Kind: "set_card", GroupID: groupID, UserID: userID, Text: card})
}

func (r *ActionRecorder) SetSpecialTitle(ctx context.Context, groupID, userID, title string) error {
	return r.record(RecordedAction{Kind: "set_title", GroupID: groupID, UserID: userID, Text: title})
}

func (r *ActionRecorder) ReactToMessage(ctx context.Context, messageID, emojiID string) error {
	return r.record(RecordedAction{Kind: "react", MessageID: messageID, Text: emojiID})
}

func (r *ActionRecorder) SendGroupMessage(ctx context.Context, groupID string, content []Segment) error {
	return r.record(RecordedAction{Kind: "group_msg", GroupID: groupID, Content: content})
}

func (r *ActionRecorder) SendForwardNodes(ctx context.Context, groupID string, nodes []Segment) error {
	return r.record(RecordedAction{Kind: "forward_msg", GroupID: groupID, Content: nodes})
}

func (r *ActionRecorder) SendPrivateMessage(ctx context.Context, userID string, content []Segment) error {
	return r.record(RecordedAction{Kind: "private_msg", UserID: userID, Content: content})
}

func (r *ActionRecorder) MemberInfo(ctx context.Context, groupID, userID string) (*MemberInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if info, ok := r.members[groupID+":"+userID]; ok {
		cp := *info
		return &cp, nil
	}
	return &MemberInfo{UserID: userID, Role: RoleMember}, nil
}
