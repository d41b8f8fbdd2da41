package model

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatus reports whether s is a known status. Empty is valid and means active.
func ValidStatus(s string) bool {
	return s == "" || s == StatusActive || s == StatusInactive
}
