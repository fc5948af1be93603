package testutils

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routineshell/pkg/routinetypes"
)

func TestDeterministicIDs(t *testing.T) {
	next := DeterministicIDs()
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", next())
	assert.Equal(t, DeterministicID(2), next())

	other := DeterministicIDs()
	assert.Equal(t, DeterministicID(1), other())
}

func TestRandomIDs(t *testing.T) {
	next := RandomIDs()
	assert.NotEqual(t, next(), next())
}

func TestSampleCatalog(t *testing.T) {
	idx := SampleCatalog()
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{"cleanser", "serum", "sunscreen"}, idx.Categories())
	assert.False(t, EmbeddedCatalog(t).IsEmpty())
}

func TestTempHelpers(t *testing.T) {
	path := CreateTempFile(t, "a.json", "[]")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	dir := CreateTempDir(t, map[string]string{"nested/b.txt": "b"})
	data, err = os.ReadFile(dir + "/nested/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestFakeExchanger(t *testing.T) {
	fake := &FakeExchanger{Reply: "ok"}
	msgs := []routinetypes.Message{{Role: routinetypes.RoleUser, Content: "hi"}}

	reply, err := fake.Send(context.Background(), msgs, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, msgs, fake.LastCall(t).Messages)

	fake.Err = errors.New("down")
	_, err = fake.Send(context.Background(), nil, nil)
	assert.EqualError(t, err, "down")
	assert.Len(t, fake.Calls(), 2)
}
