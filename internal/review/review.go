package review

import (
	"math"
	"time"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Review is the only stored record of a rating. A destination's ratings
// aggregate is derived from these rows.
type Review struct {
	ID            int       `json:"id"`
	DestinationID int       `json:"destinationId"`
	UserID        int       `json:"userId"`
	Rating        int       `json:"rating" validate:"gte=1,lte=5"`
	Comment       string    `json:"comment" validate:"max=2000"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Author struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Place struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DestinationReview is a review listed under its destination.
type DestinationReview struct {
	Review
	User Author `json:"user"`
}

// UserReview is a review listed under its author.
type UserReview struct {
	Review
	Destination Place `json:"destination"`
}

// Aggregate recomputes a destination's ratings from all of its review
// scores. The average is rounded to two decimals.
func Aggregate(ratings []int) destination.Ratings {
	if len(ratings) == 0 {
		return destination.Ratings{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return destination.Ratings{
		Average: math.Round(avg*100) / 100,
		Count:   len(ratings),
	}
}
