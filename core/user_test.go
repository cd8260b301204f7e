package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntheticLoginKey(t *testing.T) {
	key := SyntheticLoginKey("0x8ba1f109551bD432803012645Ac136ddd64DBA72")
	assert.Equal(t, "0x8ba1f109551bD432803012645Ac136ddd64DBA72@worldcoin.local", key)

	// Deterministic: the same wallet always maps to the same key.
	assert.Equal(t, key, SyntheticLoginKey("0x8ba1f109551bD432803012645Ac136ddd64DBA72"))
}
