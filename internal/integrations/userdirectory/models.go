package userdirectory

// Роли пользователей в UserDirectory
const (
	RoleDesigner = "designer"
	RoleCreator  = "creator"
)

// User модель пользователя из UserDirectory
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsDesigner проверяет, что пользователь является дизайнером
func (u *User) IsDesigner() bool {
	return u.Role == RoleDesigner
}

// ErrorResponse модель ошибки от UserDirectory
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
