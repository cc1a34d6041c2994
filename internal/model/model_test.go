package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShareLinkExpiredAt(t *testing.T) {
	now := time.Now()
	link := &ShareLink{}
	require.False(t, link.ExpiredAt(now))

	exp := now.Add(time.Minute)
	link.ExpiresAt = &exp
	require.False(t, link.ExpiredAt(now))
	require.True(t, link.ExpiredAt(exp))
	require.True(t, link.ExpiredAt(exp.Add(time.Second)))
}

func TestProjectEnums(t *testing.T) {
	require.True(t, ValidProjectLayout("masonry"))
	require.False(t, ValidProjectLayout("list"))
	require.True(t, ValidProjectAnimation("none"))
	require.False(t, ValidProjectAnimation("spin"))
}
