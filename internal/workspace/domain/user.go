package domain

// User denormalized profile record used to resolve authorship for display
type User struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayname"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	ProfilePic  string `json:"profilePic,omitempty"`
	Online      bool   `json:"online,omitempty"`
}

// Directory per-scope mapping from user id to profile. Merged additively from
// multiple fetch paths, never wholesale-replaced except on channel switch.
type Directory map[string]*User

// Merge add all entries of other into d. A later fetch never removes a
// previously known user.
func (d Directory) Merge(other Directory) {
	for id, u := range other {
		if u != nil {
			d[id] = u
		}
	}
}

// Clone shallow copy of the directory
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for id, u := range d {
		out[id] = u
	}
	return out
}

// SessionData session user identity from the auth API
type SessionData struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayname"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ProfilePic  string `json:"profilePic"`
}

// AsUser session identity as a directory record
func (s *SessionData) AsUser() *User {
	return &User{
		ID:          s.UserID,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		Role:        s.Role,
		ProfilePic:  s.ProfilePic,
	}
}
