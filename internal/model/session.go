package model

// User is the account a session belongs to, as returned by login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) IsClient() bool     { return u.Role == "client" }
func (u User) IsFreelancer() bool { return u.Role == "freelancer" }

// Session is passed explicitly to everything that talks to the API.
type Session struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}
