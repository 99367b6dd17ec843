package session

import (
	"testing"

	"user_center/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CurrentUser(t *testing.T) {
	sess := New()

	_, ok := sess.CurrentUser()
	assert.False(t, ok)

	u := &model.SafeUser{ID: 1, Account: "alice123"}
	sess.SetCurrentUser(u)

	current, ok := sess.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u, current)
}

func TestSession_CurrentUser_Rebind(t *testing.T) {
	sess := New()
	sess.SetCurrentUser(&model.SafeUser{ID: 1, Account: "alice123"})
	sess.SetCurrentUser(&model.SafeUser{ID: 2, Account: "bobby123"})

	current, ok := sess.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, int64(2), current.ID)
}

func TestSession_Attributes(t *testing.T) {
	sess := New()
	sess.Set("k", 42)

	v, ok := sess.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = sess.Get("missing")
	assert.False(t, ok)
}
