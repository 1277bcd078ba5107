package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Password(t *testing.T) {
	u := &User{Name: "Ana"}
	require.NoError(t, u.SetPassword("s3nh@forte"))

	assert.NotEqual(t, "s3nh@forte", u.Password)
	assert.True(t, u.CheckPassword("s3nh@forte"))
	assert.False(t, u.CheckPassword("outra"))
}
