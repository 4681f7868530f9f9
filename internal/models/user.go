package models

// UserID identifies an account on the Parking Service. Zero means "no id".
type UserID int64

// User is the authenticated profile returned by the login endpoint.
type User struct {
	ID            UserID `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	CarYear       string `json:"car_year,omitempty"`
	CarModel      string `json:"car_model,omitempty"`
	CarColor      string `json:"car_color,omitempty"`
	CarType       string `json:"car_type,omitempty"`
}

// HasID reports whether the user carries a server-assigned id.
func (u User) HasID() bool {
	return u.ID != 0
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SignUpForm carries the registration fields. The server expects the
// misspelled lisence_plate_number key.
type SignUpForm struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PhoneNumber   string `json:"phone_number"`
	LicenseNumber string `json:"lisence_plate_number"`
}

// LoginResult is the decoded login response.
type LoginResult struct {
	User    User `json:"user"`
	IsAdmin bool `json:"is_admin"`
}
