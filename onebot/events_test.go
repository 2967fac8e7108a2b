package onebot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchGroupMessage(t *testing.T) {
	assert := assert.New(t)

	frame := []byte(`{
		"post_type": "message",
		"message_type": "group",
		"message_id": 123,
		"group_id": 10086,
		"user_id": 424242,
		"self_id": 600000,
		"raw_message": "[CQ:at,qq=424242] hello",
		"message": [
			{"type": "at", "data": {"qq": "424242"}},
			{"type": "text", "data": {"text": " hello"}}
		],
		"sender": {"card": "the card", "nickname": "the nick", "role": "member"}
	}`)

	var got *MessageEvent
	cb := &EventCallbacks{Message: func(evt *MessageEvent) error {
		got = evt
		return nil
	}}
	require.NoError(t, dispatchEvent(frame, cb))
	require.NotNil(t, got)

	assert.Equal("123", got.MessageID)
	assert.Equal("10086", got.GroupID)
	assert.Equal("424242", got.UserID)
	assert.Equal("600000", got.SelfID)
	assert.Equal("[CQ:at,qq=424242] hello", got.Raw)
	assert.Equal("hello", got.PlainText())
	assert.Len(got.Segments, 2)
	assert.Equal("the card", got.SenderCard)
	assert.Equal("the nick", got.SenderName)
}

func TestDispatchPrivateMessageIgnored(t *testing.T) {
	assert := assert.New(t)

	frame := []byte(`{"post_type": "message", "message_type": "private", "user_id": 1, "raw_message": "hi"}`)
	called := false
	cb := &EventCallbacks{Message: func(evt *MessageEvent) error {
		called = true
		return nil
	}}
	assert.NoError(dispatchEvent(frame, cb))
	assert.False(called)
}

func TestDispatchRecall(t *testing.T) {
	assert := assert.New(t)

	frame := []byte(`{
		"post_type": "notice",
		"notice_type": "group_recall",
		"group_id": 10086,
		"user_id": 424242,
		"operator_id": 424242,
		"message_id": 456
	}`)
	var got *RecallEvent
	cb := &EventCallbacks{Recall: func(evt *RecallEvent) error {
		got = evt
		return nil
	}}
	require.NoError(t, dispatchEvent(frame, cb))
	require.NotNil(t, got)
	assert.Equal("10086", got.GroupID)
	assert.Equal("424242", got.UserID)
	assert.Equal("424242", got.OperatorID)
	assert.Equal("456", got.MessageID)
}

func TestDispatchMemberJoin(t *testing.T) {
	frame := []byte(`{"post_type": "notice", "notice_type": "group_increase", "group_id": 10086, "user_id": 424242}`)
	var got *MemberJoinEvent
	cb := &EventCallbacks{MemberJoin: func(evt *MemberJoinEvent) error {
		got = evt
		return nil
	}}
	require.NoError(t, dispatchEvent(frame, cb))
	require.NotNil(t, got)
	assert.Equal(t, "10086", got.GroupID)
	assert.Equal(t, "424242", got.UserID)
}

func TestDispatchMemberCard(t *testing.T) {
	frame := []byte(`{
		"post_type": "notice",
		"notice_type": "group_card",
		"group_id": 10086,
		"user_id": 424242,
		"card_new": "after",
		"card_old": "before"
	}`)
	var got *MemberCardEvent
	cb := &EventCallbacks{MemberCard: func(evt *MemberCardEvent) error {
		got = evt
		return nil
	}}
	require.NoError(t, dispatchEvent(frame, cb))
	require.NotNil(t, got)
	assert.Equal(t, "after", got.NewCard)
	assert.Equal(t, "before", got.OldCard)
}

func TestDispatchUnknownEventsSkipped(t *testing.T) {
	assert := assert.New(t)

	cb := &EventCallbacks{}
	assert.NoError(dispatchEvent([]byte(`{"post_type": "meta_event", "meta_event_type": "heartbeat"}`), cb))
	assert.NoError(dispatchEvent([]byte(`{"post_type": "notice", "notice_type": "group_admin"}`), cb))
	// nil callbacks never panic
	assert.NoError(dispatchEvent([]byte(`{"post_type": "message", "message_type": "group", "raw_message": "x"}`), cb))
}

func TestDispatchMalformedFrame(t *testing.T) {
	assert.Error(t, dispatchEvent([]byte(`{not json`), &EventCallbacks{}))
}

func TestDecodeActionResponseProbe(t *testing.T) {
	assert := assert.New(t)

	resp := decodeActionResponse([]byte(`{"status": "ok", "retcode": 0, "echo": "7", "data": {"message_id": 1}}`))
	require.NotNil(t, resp)
	assert.Equal("7", resp.Echo)
	assert.Zero(resp.Retcode)

	// event frames carry a post_type and are not responses
	assert.Nil(decodeActionResponse([]byte(`{"post_type": "message", "echo": "x"}`)))
	// frames without an echo are not responses either
	assert.Nil(decodeActionResponse([]byte(`{"status": "ok", "retcode": 0}`)))
	assert.Nil(decodeActionResponse([]byte(`garbage`)))
}
