package optimistic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string
	Read bool
}

func cloneNote(n note) note { return n }

func TestUpdateKeepsMutationOnSuccess(t *testing.T) {
	n := note{ID: "n-1", Read: false}

	err := Update(&n, cloneNote,
		func(v *note) { v.Read = true },
		func(v note) error { return nil },
	)

	require.NoError(t, err)
	assert.True(t, n.Read)
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	n := note{ID: "n-1", Read: false}
	persistErr := errors.New("boom")

	err := Update(&n, cloneNote,
		func(v *note) { v.Read = true },
		func(v note) error { return persistErr },
	)

	require.ErrorIs(t, err, persistErr)
	assert.False(t, n.Read, "value must be restored after a failed persist")
}

func TestUpdateAllRollsBackEveryElement(t *testing.T) {
	notes := []note{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	err := UpdateAll(notes, cloneNote,
		func(v *note) { v.Read = true },
		func(vs []note) error { return errors.New("boom") },
	)

	require.Error(t, err)
	for _, n := range notes {
		assert.False(t, n.Read)
	}
}

func TestUpdateAllPersistsBatch(t *testing.T) {
	notes := []note{{ID: "a"}, {ID: "b"}}
	var persisted []note

	err := UpdateAll(notes, cloneNote,
		func(v *note) { v.Read = true },
		func(vs []note) error {
			persisted = append(persisted, vs...)
			return nil
		},
	)

	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.True(t, persisted[0].Read)
	assert.True(t, persisted[1].Read)
}
