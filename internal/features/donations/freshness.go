package donations

import (
	"fmt"
	"time"
)

// IsExpiredAt reports whether the donation's expiry time has been reached.
// Donations without an expiry never expire.
func (d *Donation) IsExpiredAt(now time.Time) bool {
	return d.ExpiryTime != nil && !d.ExpiryTime.After(now)
}

// FormatTimeRemaining renders the countdown until expiry, e.g. "2h 15m 30s"
// or "1d 4h 0m". It returns "" once expiry has been reached.
func FormatTimeRemaining(expiry, now time.Time) string {
	remaining := expiry.Sub(now)
	if remaining <= 0 {
		return ""
	}

	total := int64(remaining / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// View computes the derived fields at now
func (d *Donation) View(now time.Time) DonationView {
	v := DonationView{Donation: *d}
	v.Status = NormalizeStatus(d.Status)
	if v.Images == nil {
		v.Images = []string{}
	}
	if d.ExpiryTime != nil {
		v.IsExpired = d.IsExpiredAt(now)
		v.TimeRemaining = FormatTimeRemaining(*d.ExpiryTime, now)
	}
	return v
}
