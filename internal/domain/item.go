package domain

import "time"

type Item struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	MinDkpCost int       `json:"min_dkp_cost"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Wish is a demand record linking a character to an item it wants.
// The pair (CharacterID, ItemID) is unique; ordering among wishers is
// computed at read time from the characters' current balances.
type Wish struct {
	CharacterID uint      `json:"character_id"`
	ItemID      uint      `json:"item_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Wisher is one wishing character joined to its current balance and
// status, as read from storage before the ranking flags are computed.
type Wisher struct {
	CharacterID   uint
	CharacterName string
	Dkp           int
	Status        CharacterStatus
	WishedAt      time.Time
}

// WishRank is one row of the loot-priority order for an item.
// The ranking is advisory; it neither reserves nor debits DKP.
type WishRank struct {
	CharacterID   uint   `json:"character_id"`
	CharacterName string `json:"character_name"`
	Dkp           int    `json:"dkp"`
	Affordable    bool   `json:"affordable"`
	Eligible      bool   `json:"eligible"`
}
