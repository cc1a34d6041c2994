package model

import "time"

// ShareLink is a capability mapping an unguessable id to a protected target.
type ShareLink struct {
	ID         string     `json:"id"`
	TargetURL  string     `json:"target_url"`
	SecretCode string     `json:"-"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (l *ShareLink) Protected() bool {
	return l.SecretCode != ""
}

// ExpiredAt reports whether the link is no longer redeemable at now.
func (l *ShareLink) ExpiredAt(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}
