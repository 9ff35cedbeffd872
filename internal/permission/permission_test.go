package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var writes = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func TestSafeMethodsAlwaysAllowed(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.True(t, OwnerOrReadOnly(m, 0, 7), m)
		assert.True(t, OwnerOrReadOnly(m, 3, 7), m)
		assert.True(t, AuthenticatedOrReadOnly(m, 0), m)
	}
}

func TestOwnerOrReadOnlyWrites(t *testing.T) {
	for _, m := range writes {
		assert.True(t, OwnerOrReadOnly(m, 7, 7), m)
		assert.False(t, OwnerOrReadOnly(m, 3, 7), m)
		assert.False(t, OwnerOrReadOnly(m, 0, 7), m)
		assert.False(t, OwnerOrReadOnly(m, 0, 0), "anonymous never owns")
	}
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	assert.False(t, AuthenticatedOrReadOnly(http.MethodPost, 0))
	assert.True(t, AuthenticatedOrReadOnly(http.MethodPost, 1))
}

func TestSupporterOrFundraiserOwner(t *testing.T) {
	const supporter, owner, stranger = 1, 2, 3
	assert.True(t, SupporterOrFundraiserOwnerOrReadOnly(http.MethodPut, supporter, supporter, owner))
	assert.True(t, SupporterOrFundraiserOwnerOrReadOnly(http.MethodPut, owner, supporter, owner))
	assert.False(t, SupporterOrFundraiserOwnerOrReadOnly(http.MethodPut, stranger, supporter, owner))
	assert.True(t, SupporterOrFundraiserOwnerOrReadOnly(http.MethodGet, stranger, supporter, owner))
	assert.False(t, SupporterOrReadOnly(http.MethodDelete, owner, supporter))
}
