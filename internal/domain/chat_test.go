package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNewChat_Single(t *testing.T) {
	chat, err := NewChat(1, nil, []int64{1, 2}, false)
	require.NoError(t, err)
	require.Equal(t, ChatTypeSingle, chat.Type)
	require.Nil(t, chat.Name)
	require.Len(t, chat.Members, 2)
}

func TestNewChat_Group(t *testing.T) {
	chat, err := NewChat(1, nil, []int64{1, 2, 3}, false)
	require.NoError(t, err)
	require.Equal(t, ChatTypeGroup, chat.Type)
}

func TestNewChat_Channels(t *testing.T) {
	chat, err := NewChat(1, strptr("general"), []int64{1, 2, 3}, true)
	require.NoError(t, err)
	require.Equal(t, ChatTypePublicChannel, chat.Type)
	require.Equal(t, "general", *chat.Name)

	chat, err = NewChat(1, strptr("secret"), []int64{1, 2, 3}, false)
	require.NoError(t, err)
	require.Equal(t, ChatTypePrivateChannel, chat.Type)
}

func TestNewChat_TooFewMembers(t *testing.T) {
	_, err := NewChat(1, nil, []int64{1}, false)
	require.ErrorIs(t, err, ErrInvalidMembership)

	// дубли схлопываются до одного участника
	_, err = NewChat(1, nil, []int64{7, 7, 7}, false)
	require.ErrorIs(t, err, ErrInvalidMembership)
}

func TestNewChat_LargeGroupNeedsName(t *testing.T) {
	members := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	_, err := NewChat(1, nil, members, false)
	require.ErrorIs(t, err, ErrInvalidMembership)

	chat, err := NewChat(1, strptr("big"), members, false)
	require.NoError(t, err)
	require.Equal(t, ChatTypePrivateChannel, chat.Type)
}

func TestNewChat_BlankNameIsNoName(t *testing.T) {
	chat, err := NewChat(1, strptr("   "), []int64{1, 2}, true)
	require.NoError(t, err)
	require.Equal(t, ChatTypeSingle, chat.Type)
	require.Nil(t, chat.Name)
}

func TestNormalizeMembers_KeepsOrder(t *testing.T) {
	got := NormalizeMembers([]int64{3, 1, 3, 2, 1})
	require.Equal(t, []int64{3, 1, 2}, got)
}

func TestChat_AddMember(t *testing.T) {
	chat, err := NewChat(1, strptr("dev"), []int64{1, 2, 3}, false)
	require.NoError(t, err)

	require.NoError(t, chat.AddMember(4))
	require.Equal(t, []int64{1, 2, 3, 4}, chat.Members)

	require.ErrorIs(t, chat.AddMember(4), ErrAlreadyMember)
}

func TestChat_RemoveMember(t *testing.T) {
	chat, err := NewChat(1, strptr("dev"), []int64{1, 2, 3}, false)
	require.NoError(t, err)

	require.NoError(t, chat.RemoveMember(2))
	require.Equal(t, []int64{1, 3}, chat.Members)

	require.ErrorIs(t, chat.RemoveMember(2), ErrNotMember)
}

func TestChat_MembershipFrozenForSingleAndGroup(t *testing.T) {
	single, err := NewChat(1, nil, []int64{1, 2}, false)
	require.NoError(t, err)
	require.ErrorIs(t, single.AddMember(3), ErrInvalidChatType)
	require.ErrorIs(t, single.RemoveMember(2), ErrInvalidChatType)
	require.Len(t, single.Members, 2)

	group, err := NewChat(1, nil, []int64{1, 2, 3}, false)
	require.NoError(t, err)
	require.ErrorIs(t, group.AddMember(4), ErrInvalidChatType)
}
