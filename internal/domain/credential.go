package domain

// Credential is an API key with its own daily quota budget.
type Credential struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	APIKey     string `db:"api_key"`
	QuotaUsed  int64  `db:"quota_used"`
	QuotaLimit int64  `db:"quota_limit"`
	IsActive   bool   `db:"is_active"`
}

// HasHeadroom reports whether units more can be billed without passing the ceiling.
func (c *Credential) HasHeadroom(units int64) bool {
	return c.IsActive && c.QuotaUsed+units <= c.QuotaLimit
}

// Remaining returns the quota left under the ceiling.
func (c *Credential) Remaining() int64 {
	if c.QuotaUsed >= c.QuotaLimit {
		return 0
	}
	return c.QuotaLimit - c.QuotaUsed
}
