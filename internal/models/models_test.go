package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPledgeVisibleTo(t *testing.T) {
	const owner, supporter, stranger = 1, 2, 3
	hidden := Pledge{Comment: "secret", SupporterID: supporter, IsHiddenByOwner: true}

	assert.Equal(t, "secret", hidden.VisibleTo(owner, owner).Comment)
	assert.Equal(t, "secret", hidden.VisibleTo(supporter, owner).Comment)
	assert.Empty(t, hidden.VisibleTo(stranger, owner).Comment)
	assert.Empty(t, hidden.VisibleTo(0, owner).Comment)
	assert.Equal(t, "secret", hidden.Comment, "the receiver is not modified")

	shown := Pledge{Comment: "hello", SupporterID: supporter}
	assert.Equal(t, "hello", shown.VisibleTo(0, owner).Comment)
}

func TestFundraiserDetailFor(t *testing.T) {
	f := Fundraiser{ID: 5, OwnerID: 1}
	detail := f.DetailFor(0)
	require.NotNil(t, detail.Pledges)

	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []any{}, body["pledges"])
	assert.EqualValues(t, 1, body["owner"])

	f.Pledges = []Pledge{
		{ID: 1, Comment: "visible", SupporterID: 2},
		{ID: 2, Comment: "hidden", SupporterID: 2, IsHiddenByOwner: true},
	}
	assert.Equal(t, "hidden", f.DetailFor(1).Pledges[1].Comment)
	assert.Empty(t, f.DetailFor(3).Pledges[1].Comment)
	assert.Equal(t, "visible", f.DetailFor(3).Pledges[0].Comment)
}

func TestUserNeverSerializesPassword(t *testing.T) {
	raw, err := json.Marshal(User{ID: 1, Username: "alice", Password: "$2a$hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$hash")
}

func TestNewPledgeMessageRendersForPublic(t *testing.T) {
	msg := NewPledgeMessage(Pledge{ID: 9, FundraiserID: 4, Comment: "shh", SupporterID: 2, IsHiddenByOwner: true}, 1)
	assert.Equal(t, MessageTypePledgeCreated, msg.Type)
	assert.EqualValues(t, 4, msg.FundraiserID)
	require.NotNil(t, msg.Pledge)
	assert.Empty(t, msg.Pledge.Comment)
}
