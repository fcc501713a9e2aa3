package donations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimeRemaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		in   time.Duration
		want string
	}{
		{2*time.Hour + 15*time.Minute + 30*time.Second, "2h 15m 30s"},
		{26*time.Hour + 5*time.Minute, "1d 2h 5m"},
		{4*time.Minute + 2*time.Second, "4m 2s"},
		{45 * time.Second, "45s"},
		{500 * time.Millisecond, "0s"},
		{0, ""},
		{-time.Minute, ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatTimeRemaining(now.Add(tc.in), now), tc.in.String())
	}
}

func TestViewDerivesFreshness(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	expiry := now.Add(90 * time.Minute)
	d := &Donation{Category: CategoryFood, Status: "Pending", ExpiryTime: &expiry}

	v := d.View(now)
	require.False(t, v.IsExpired)
	require.Equal(t, "1h 30m 0s", v.TimeRemaining)
	require.Equal(t, StatusPending, v.Status)
	require.NotNil(t, v.Images)

	v = d.View(expiry)
	require.True(t, v.IsExpired, "expiry equal to now counts as expired")
	require.Empty(t, v.TimeRemaining)

	books := &Donation{Category: "books", Status: StatusReceived}
	v = books.View(now)
	require.False(t, v.IsExpired)
	require.Empty(t, v.TimeRemaining)
}

func TestNormalizeStatus(t *testing.T) {
	require.Equal(t, StatusReceived, NormalizeStatus("RECEIVED"))
	require.Equal(t, StatusRejected, NormalizeStatus(" rejected "))
	require.Equal(t, StatusPending, NormalizeStatus("claimed"))
	require.Equal(t, StatusPending, NormalizeStatus(""))
}

func TestValidateCreate(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	valid := func() *CreateDonationRequest {
		return &CreateDonationRequest{
			ItemName: " Bread ",
			Category: "Food",
			Quantity: "3 loaves",
			Location: "Main St",
		}
	}

	req := valid()
	req.ExpiryTime = &future
	require.NoError(t, ValidateCreate(req, now))
	require.Equal(t, "Bread", req.ItemName)
	require.Equal(t, CategoryFood, req.Category)

	req = valid()
	req.ExpiryTime = &past
	require.Error(t, ValidateCreate(req, now))

	req = valid()
	req.Category = "books"
	req.ExpiryTime = &future
	require.Error(t, ValidateCreate(req, now))

	req = valid()
	req.Category = "weapons"
	require.Error(t, ValidateCreate(req, now))

	req = valid()
	req.Images = []string{"not a url"}
	require.Error(t, ValidateCreate(req, now))
}

func TestValidateBrowseQuery(t *testing.T) {
	q := &BrowseQuery{}
	require.NoError(t, ValidateBrowseQuery(q))
	require.Equal(t, StatusAll, q.Status)

	q = &BrowseQuery{Status: "Received", Category: "All"}
	require.NoError(t, ValidateBrowseQuery(q))
	require.Equal(t, StatusReceived, q.Status)
	require.Empty(t, q.Category)

	require.Error(t, ValidateBrowseQuery(&BrowseQuery{Status: "claimed"}))
	require.Error(t, ValidateBrowseQuery(&BrowseQuery{Category: "cars"}))
}
