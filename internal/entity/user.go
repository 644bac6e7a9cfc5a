package entity

const (
	OrgTypeSchool       = "School"
	OrgTypeOrganisation = "Organisation"
)

// User is the signup payload for a new election organiser.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
	OrgName  string `json:"orgname"`
}

// Missing returns the names of required signup fields left empty.
func (u User) Missing() []string {
	var missing []string
	if u.Username == "" {
		missing = append(missing, "name")
	}
	if u.Email == "" {
		missing = append(missing, "email")
	}
	if u.Password == "" {
		missing = append(missing, "password")
	}
	if u.Type == "" {
		missing = append(missing, "type")
	}
	return missing
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
}

// Session carries the bearer token of the signed in organiser. The zero value
// is an anonymous visitor.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
