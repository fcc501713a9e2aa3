package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRequestClampsValues(t *testing.T) {
	req := FromRequest("0", "500")
	require.Equal(t, 1, req.Page)
	require.Equal(t, MaxLimit, req.Limit)
	require.Equal(t, int64(0), req.Skip())

	req = FromRequest("3", "abc")
	require.Equal(t, 3, req.Page)
	require.Equal(t, DefaultLimit, req.Limit)
	require.Equal(t, int64(40), req.Skip())
}
