// internal/app/system/status/status.go
package status

// Record status values shared by schools and employees.
const (
	Active   = "active"
	Inactive = "inactive"
)

// IsValid reports whether s is a known record status.
func IsValid(s string) bool {
	return s == Active || s == Inactive
}
