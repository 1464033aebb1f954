/*
Package user contains the data structures for user identity and profiles.

Profile is the minimal projection of an account that other users are allowed
to see. It is what message fan-out and the contacts endpoints embed; the full
account record (password hash, profile flags) never leaves the store layer.
*/
package user

// Profile is the public projection of a user account.
type Profile struct {
	// ID is the unique account identifier (UUID).
	ID string `json:"id"`

	// Email is the account's email address.
	Email string `json:"email"`

	// FirstName is the user's first name, empty until profile setup.
	FirstName string `json:"firstName"`

	// LastName is the user's last name, empty until profile setup.
	LastName string `json:"lastName"`

	// Image is the avatar URL, empty when none was uploaded.
	Image string `json:"image"`
}

// Account is the full user record as stored, including fields that only the
// owner may see.
type Account struct {
	Profile

	// Color is the profile accent color chosen during setup.
	Color string `json:"color"`

	// ProfileSetup reports whether the user completed first-time profile setup.
	ProfileSetup bool `json:"profileSetup"`
}
