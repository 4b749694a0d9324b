package credstore

import (
	"encoding/json"
	"time"
)

// Gender of a user profile. Unknown values are preserved as-is.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// UserID tolerates both string and numeric JSON representations. Backends
// routinely emit snowflake IDs beyond 2^53, so the numeric form is captured
// verbatim instead of going through float64.
type UserID string

func (id UserID) String() string { return string(id) }

// IsZero reports whether the ID is unset
func (id UserID) IsZero() bool { return id == "" }

func (id *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// Token is an access token record. Tokens are replaced wholesale, never
// mutated in place.
type Token struct {
	Value         string    `json:"value"`
	CreateTime    time.Time `json:"create_time"`
	MaxAge        int64     `json:"max_age,omitempty"`
	PreviousValue string    `json:"previous_value,omitempty"`
}

// IsValid reports whether the token carries a usable value
func (t *Token) IsValid() bool {
	return t != nil && t.Value != ""
}

// User is the profile attached to a session.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Name     string `json:"name"`
	Gender   Gender `json:"gender"`
	Mobile   string `json:"mobile"`
}

// Organization is backend-defined and passed through opaquely.
type Organization map[string]any

// UserInfo groups the profile entities that share persistence rules.
type UserInfo struct {
	User         *User
	Privileges   []string
	Roles        []string
	Organization Organization
}

// LoginBundle is everything a successful login leaves in storage.
type LoginBundle struct {
	UserInfo
	Token *Token
}
