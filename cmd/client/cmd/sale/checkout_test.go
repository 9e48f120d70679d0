package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems(t *testing.T) {
	lines, err := parseItems([]string{"p1:2", "p2"})
	require.NoError(t, err)
	assert.Equal(t, []line{{productID: "p1", qty: 2}, {productID: "p2", qty: 1}}, lines)

	for _, bad := range [][]string{nil, {"p1:0"}, {"p1:x"}, {":3"}} {
		_, err := parseItems(bad)
		assert.Error(t, err, "%v", bad)
	}
}
