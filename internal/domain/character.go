package domain

import "time"

type CharacterStatus string

const (
	CharacterActive    CharacterStatus = "ACTIVE"
	CharacterNotActive CharacterStatus = "NOT_ACTIVE"
)

// Character is a playable roster entry owned by exactly one user.
// Dkp is the single source of truth for the character's point balance;
// every mutation goes through the attendance engine or an admin
// adjustment, never through plain field updates.
type Character struct {
	ID         uint            `json:"id"`
	UserID     uint            `json:"user_id"`
	Name       string          `json:"name"`
	CombatRole string          `json:"combat_role,omitempty"` // "tank", "healer" or "damage"
	Dkp        int             `json:"dkp"`
	Status     CharacterStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (c Character) CanAfford(item Item) bool {
	return c.Dkp >= item.MinDkpCost
}
