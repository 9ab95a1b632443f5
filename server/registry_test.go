package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acesso-etec/biometric/protocol"
)

func TestRegistryAssignsIDs(t *testing.T) {
	registry := NewRegistry(nil, nil)
	fixed := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return fixed }

	first, err := registry.Add("529.982.247-25", protocol.IndexRight, "ETEC01", []byte{1})
	require.NoError(t, err)
	second, err := registry.Add("52998224725", protocol.ThumbRight, "ETEC01", []byte{2})
	require.NoError(t, err)
	third, err := registry.Add("012.345.678-90", protocol.IndexRight, "ETEC01", []byte{3})
	require.NoError(t, err)

	require.Equal(t, 1, first.ID)
	require.Equal(t, 2, second.ID)
	require.Equal(t, 3, third.ID)
	require.Equal(t, first.PersonID, second.PersonID)
	require.NotEqual(t, first.PersonID, third.PersonID)
	require.Equal(t, fixed, first.CreatedAt)
}

func TestRegistrySeeded(t *testing.T) {
	registry := NewRegistry([]string{"52998224725"}, []string{"ETEC01"})

	_, err := registry.Add("529.982.247-25", protocol.IndexRight, "ETEC01", nil)
	require.NoError(t, err)

	_, err = registry.Add("012.345.678-90", protocol.IndexRight, "ETEC01", nil)
	require.ErrorIs(t, err, ErrPersonNotFound)

	_, err = registry.Add("529.982.247-25", protocol.IndexLeft, "FATEC1", nil)
	require.ErrorIs(t, err, ErrUnitNotFound)

	_, err = registry.Add("529.982.247-25", protocol.IndexRight, "ETEC01", nil)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestRegistryRemove(t *testing.T) {
	registry := NewRegistry(nil, nil)

	require.ErrorIs(t, registry.Remove("52998224725", protocol.IndexRight), ErrNotEnrolled)

	_, err := registry.Add("52998224725", protocol.IndexRight, "ETEC01", nil)
	require.NoError(t, err)
	require.NoError(t, registry.Remove("529.982.247-25", protocol.IndexRight))

	_, _, ok := registry.lookup("52998224725", protocol.IndexRight)
	require.False(t, ok)
}
