package user

import "time"

// Defaults applied to new accounts.
const (
	DefaultBudgetMin   = 0
	DefaultBudgetMax   = 100000
	DefaultTravelStyle = "solo"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Profile   Profile   `json:"profile"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Profile struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Preferences drive recommendation scoring. Every field is optional.
type Preferences struct {
	Interests   []string     `json:"interests" validate:"omitempty,dive,interest"`
	Activities  []string     `json:"activities"`
	BudgetRange *BudgetRange `json:"budgetRange,omitempty"`
	TravelStyle string       `json:"travelStyle,omitempty" validate:"omitempty,travelstyle"`
}

type BudgetRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Interests:   []string{},
		Activities:  []string{},
		BudgetRange: &BudgetRange{Min: DefaultBudgetMin, Max: DefaultBudgetMax},
		TravelStyle: DefaultTravelStyle,
	}
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
