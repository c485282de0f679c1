package domain

// User represents an account that can authenticate against the API.
// Username is the natural key (unique, minimum length 3).
type User struct {
	Record
	Username      string   `json:"username"`
	FavoriteGenre string   `json:"favorite_genre"`
	Friends       []string `json:"friends,omitempty"` // Person IDs, deduplicated on append.
}

// IsFriend reports whether the person is already in the user's friends list.
func (u *User) IsFriend(personID string) bool {
	for _, id := range u.Friends {
		if id == personID {
			return true
		}
	}
	return false
}

// AddFriend appends the person to the user's friends list if not already
// present. Returns true when the list changed.
func (u *User) AddFriend(personID string) bool {
	if u.IsFriend(personID) {
		return false
	}
	u.Friends = append(u.Friends, personID)
	return true
}
