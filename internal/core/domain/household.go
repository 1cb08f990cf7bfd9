package domain

import "time"

// Household is the shared organizational unit users join as members.
// Members carries set semantics; exactly one member holds the owner role
// and it always matches OwnerID.
type Household struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasMember reports whether the user is in the membership set.
func (h *Household) HasMember(userID string) bool {
	for _, id := range h.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Member is a joined view of a household member: identity plus the role
// held in this household.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
