package commitment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitVerify(t *testing.T) {
	cells := []uint8{0, 1, 1, 0, 0, 0, 1, 0, 0}

	c, err := Commit(cells)
	require.NoError(t, err)
	assert.Len(t, c.SaltHex, 2*SaltSize)
	assert.Len(t, c.RootHex, 64)

	ok, err := Verify(cells, c)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := append([]uint8(nil), cells...)
	tampered[0] = 1
	ok, err = Verify(tampered, c)
	require.NoError(t, err)
	assert.False(t, ok, "changed layout must not verify")
}

func TestCommitIsSalted(t *testing.T) {
	cells := []uint8{1, 0, 0, 1}

	first, err := Commit(cells)
	require.NoError(t, err)
	second, err := Commit(cells)
	require.NoError(t, err)
	assert.NotEqual(t, first.RootHex, second.RootHex)

	salt := bytes.Repeat([]byte{7}, SaltSize)
	a, err := CommitWithSalt(cells, salt)
	require.NoError(t, err)
	b, err := CommitWithSalt(cells, salt)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVerifyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		c    Commitment
	}{
		{name: "salt not hex", c: Commitment{RootHex: "00", SaltHex: "zz"}},
		{name: "short salt", c: Commitment{RootHex: "00", SaltHex: "0102"}},
		{name: "root not hex", c: Commitment{RootHex: "xy", SaltHex: string(bytes.Repeat([]byte("ab"), SaltSize))}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Verify([]uint8{0, 1}, test.c); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}

	_, err := CommitWithSalt([]uint8{1}, []byte{1, 2, 3})
	assert.Error(t, err)
}
