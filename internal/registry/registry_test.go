package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAndIdentityOf(t *testing.T) {
	r := New()

	assert.False(t, r.Bound("c1"))
	assert.Equal(t, Unknown, r.IdentityOf("c1"))

	r.Bind("c1", "alice")
	assert.True(t, r.Bound("c1"))
	assert.Equal(t, "alice", r.IdentityOf("c1"))
}

func TestRebindOverwritesButKeepsOrder(t *testing.T) {
	r := New()
	r.Bind("c1", "alice")
	r.Bind("c2", "bob")

	r.Bind("c1", "alicia")
	assert.Equal(t, "alicia", r.IdentityOf("c1"))
	assert.Equal(t, []string{"alicia", "bob"}, r.Online())
}

func TestUnbind(t *testing.T) {
	r := New()
	r.Bind("c1", "alice")
	r.Bind("c2", "bob")

	r.Unbind("c1")
	assert.False(t, r.Bound("c1"))
	assert.Equal(t, Unknown, r.IdentityOf("c1"))
	assert.Equal(t, []string{"bob"}, r.Online())

	// Unbinding twice is a no-op
	r.Unbind("c1")
	assert.Equal(t, []string{"bob"}, r.Online())
}

func TestOnlineKeepsBindOrderAndDuplicates(t *testing.T) {
	r := New()
	r.Bind("c1", "alice")
	r.Bind("c2", "bob")
	r.Bind("c3", "alice")

	assert.Equal(t, []string{"alice", "bob", "alice"}, r.Online())
}

func TestFindByIdentityReturnsFirstBound(t *testing.T) {
	r := New()
	r.Bind("c1", "alice")
	r.Bind("c2", "bob")
	r.Bind("c3", "alice")

	id, found := r.FindByIdentity("alice")
	require.True(t, found)
	assert.Equal(t, "c1", id)

	// After the first holder leaves, resolution moves to the next one
	r.Unbind("c1")
	id, found = r.FindByIdentity("alice")
	require.True(t, found)
	assert.Equal(t, "c3", id)

	_, found = r.FindByIdentity("carol")
	assert.False(t, found)
}
