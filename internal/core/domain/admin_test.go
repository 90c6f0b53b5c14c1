package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

func TestHashPassword(t *testing.T) {
	hash, err := domain.HashPassword("0909")
	require.NoError(t, err)

	assert.NotEqual(t, "0909", hash)
	assert.True(t, domain.CheckPassword(hash, "0909"))
	assert.False(t, domain.CheckPassword(hash, "9090"))
	assert.False(t, domain.CheckPassword("", "0909"))
	assert.False(t, domain.CheckPassword("not-a-hash", "0909"))
}

func TestHashPassword_Validation(t *testing.T) {
	_, err := domain.HashPassword("")
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = domain.HashPassword("abc")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestMember_Validate(t *testing.T) {
	empty := ""
	m := domain.Member{ID: " 1 ", Name: "  Alice ", Photo: &empty}
	require.NoError(t, m.Validate())
	assert.Equal(t, "1", m.ID)
	assert.Equal(t, "Alice", m.Name)
	assert.Nil(t, m.Photo)

	noName := domain.Member{ID: "1", Name: " "}
	assert.ErrorIs(t, noName.Validate(), domain.ErrInvalidMember)

	noID := domain.Member{Name: "Bob"}
	assert.ErrorIs(t, noID.Validate(), domain.ErrInvalidMember)
}
