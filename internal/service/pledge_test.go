package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/models"
)

func TestCreatePledgeAssignsSupporterAndPublishes(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	fr := f.fundraiser(t, alice.ID, true)

	p, err := f.svc.Pledge.CreatePledge(f.ctx, bob.ID, PledgeInput{Amount: ptr(25), Comment: "Good luck", Fundraiser: ptr(fr.ID)})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, p.SupporterID)
	assert.Equal(t, fr.ID, p.FundraiserID)

	require.Len(t, f.feed.messages, 1)
	msg := f.feed.messages[0]
	assert.Equal(t, models.MessageTypePledgeCreated, msg.Type)
	assert.Equal(t, fr.ID, msg.FundraiserID)
	assert.Equal(t, 25, msg.Pledge.Amount)

	detail, err := f.svc.Fundraiser.GetFundraiser(f.ctx, fr.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Pledges, 1)
}

func TestCreatePledgeRejections(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	closed := f.fundraiser(t, alice.ID, false)

	cases := []struct {
		name  string
		input PledgeInput
		field string
		msg   string
	}{
		{"missing fundraiser", PledgeInput{Amount: ptr(5), Fundraiser: ptr(uint(999))}, "fundraiser", `Invalid pk "999" - object does not exist.`},
		{"closed fundraiser", PledgeInput{Amount: ptr(5), Fundraiser: ptr(closed.ID)}, "fundraiser", "This fundraiser is no longer accepting pledges."},
		{"zero amount", PledgeInput{Amount: ptr(0), Fundraiser: ptr(closed.ID)}, "amount", "Amount must be greater than zero."},
		{"negative amount", PledgeInput{Amount: ptr(-3), Fundraiser: ptr(closed.ID)}, "amount", "Amount must be greater than zero."},
		{"no amount", PledgeInput{Fundraiser: ptr(closed.ID)}, "amount", "This field is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Pledge.CreatePledge(f.ctx, bob.ID, tc.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields[tc.field], tc.msg)
		})
	}

	_, err := f.svc.Pledge.CreatePledge(f.ctx, 0, PledgeInput{Amount: ptr(5), Fundraiser: ptr(closed.ID)})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	all, err := f.svc.Pledge.ListPledges(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "nothing persisted")
	assert.Empty(t, f.feed.messages)
}

func TestPledgeWrites(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")
	fr := f.fundraiser(t, alice.ID, true)

	p, err := f.svc.Pledge.CreatePledge(f.ctx, bob.ID, PledgeInput{Amount: ptr(10), Comment: "hi", Fundraiser: ptr(fr.ID)})
	require.NoError(t, err)

	t.Run("update by supporter", func(t *testing.T) {
		got, err := f.svc.Pledge.UpdatePledge(f.ctx, bob.ID, p.ID, PledgePatch{Comment: ptr("hello"), Anonymous: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Comment)
		assert.True(t, got.Anonymous)
		assert.Equal(t, 10, got.Amount)
	})

	t.Run("update by fundraiser owner", func(t *testing.T) {
		_, err := f.svc.Pledge.UpdatePledge(f.ctx, alice.ID, p.ID, PledgePatch{Comment: ptr("x")})
		var ferr *ForbiddenError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, "Only the pledge supporter can edit this pledge.", ferr.Detail)
	})

	t.Run("update by stranger", func(t *testing.T) {
		_, err := f.svc.Pledge.UpdatePledge(f.ctx, carol.ID, p.ID, PledgePatch{Comment: ptr("x")})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("hide by owner", func(t *testing.T) {
		got, err := f.svc.Pledge.SetHidden(f.ctx, alice.ID, p.ID, ModerationInput{"is_hidden_by_owner": true})
		require.NoError(t, err)
		assert.True(t, got.IsHiddenByOwner)

		_, err = f.svc.Pledge.SetHidden(f.ctx, bob.ID, p.ID, ModerationInput{"is_hidden_by_owner": false})
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.svc.Pledge.SetHidden(f.ctx, bob.ID, p.ID, ModerationInput{})
		assert.ErrorIs(t, err, ErrForbidden, "permission is checked before the body")
	})

	t.Run("hide flag parsing", func(t *testing.T) {
		cases := []struct {
			input  ModerationInput
			hidden bool
			detail string
		}{
			{ModerationInput{"is_hidden_by_owner": "True"}, true, ""},
			{ModerationInput{"is_hidden_by_owner": float64(0)}, false, ""},
			{ModerationInput{"is_hidden_by_owner": "1"}, true, ""},
			{ModerationInput{}, false, "Provide 'is_hidden_by_owner': true or false."},
			{ModerationInput{"is_hidden_by_owner": "maybe"}, false, "is_hidden_by_owner must be true or false."},
			{ModerationInput{"is_hidden_by_owner": float64(2)}, false, "is_hidden_by_owner must be true or false."},
		}
		for _, tc := range cases {
			got, err := f.svc.Pledge.SetHidden(f.ctx, alice.ID, p.ID, tc.input)
			if tc.detail != "" {
				var bad *BadRequestError
				require.ErrorAs(t, err, &bad)
				assert.Equal(t, tc.detail, bad.Detail)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hidden, got.IsHiddenByOwner)
		}
		_, err := f.svc.Pledge.SetHidden(f.ctx, alice.ID, p.ID, ModerationInput{"is_hidden_by_owner": true})
		require.NoError(t, err)
	})

	t.Run("clear comment", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Pledge.ClearComment(f.ctx, alice.ID, p.ID), ErrForbidden)
		require.NoError(t, f.svc.Pledge.ClearComment(f.ctx, bob.ID, p.ID))

		got, err := f.svc.Pledge.GetPledge(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Comment)
		assert.True(t, got.IsHiddenByOwner)
	})

	t.Run("missing pledge", func(t *testing.T) {
		_, err := f.svc.Pledge.UpdatePledge(f.ctx, bob.ID, 999, PledgePatch{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mine, err := f.svc.Pledge.ListBySupporter(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestAuthorizeEdit(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")
	fr := f.fundraiser(t, alice.ID, true)

	p, err := f.svc.Pledge.CreatePledge(f.ctx, bob.ID, PledgeInput{Amount: ptr(10), Fundraiser: ptr(fr.ID)})
	require.NoError(t, err)

	assert.NoError(t, f.svc.Pledge.AuthorizeEdit(f.ctx, bob.ID, p.ID))
	assert.ErrorIs(t, f.svc.Pledge.AuthorizeEdit(f.ctx, carol.ID, p.ID), ErrForbidden)

	var ferr *ForbiddenError
	require.ErrorAs(t, f.svc.Pledge.AuthorizeEdit(f.ctx, alice.ID, p.ID), &ferr)
	assert.Equal(t, "Only the pledge supporter can edit this pledge.", ferr.Detail)

	assert.ErrorIs(t, f.svc.Pledge.AuthorizeEdit(f.ctx, bob.ID, 999), ErrNotFound)
}
