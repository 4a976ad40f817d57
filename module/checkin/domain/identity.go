package domain

type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// FindIdentity returns the roster entry with the given id.
func FindIdentity(roster []Identity, id string) (Identity, bool) {
	for _, ident := range roster {
		if ident.ID == id {
			return ident, true
		}
	}
	return Identity{}, false
}
