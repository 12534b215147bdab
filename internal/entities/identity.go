package entities

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
)

func (r Role) String() string {
	return string(r)
}

// Identity - проверенная личность вызывающего, приходит от аутентификации.
type Identity struct {
	Subject string
	Role    Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// DriverID возвращает id водителя, если вызывающий - водитель.
func (i Identity) DriverID() (string, bool) {
	if i.Role != RoleDriver || i.Subject == "" {
		return "", false
	}
	return i.Subject, true
}
