package entity

// ApproverParty is static reference data: one of the three fixed approver
// identities with its contact email and notification toggle.
type ApproverParty struct {
	Party               Party  `db:"party"`
	Email               string `db:"email"`
	NotificationEnabled bool   `db:"notification_enabled"`
}
