package destination

import "time"

type Destination struct {
	ID              int           `json:"id"`
	Name            string        `json:"name" validate:"required"`
	Description     string        `json:"description" validate:"required,max=2000"`
	Location        Location      `json:"location"`
	Images          []Image       `json:"images"`
	Categories      []string      `json:"categories" validate:"omitempty,dive,category"`
	Ratings         Ratings       `json:"ratings"`
	Attractions     []string      `json:"attractions"`
	BestTimeToVisit []Season      `json:"bestTimeToVisit" validate:"omitempty,dive"`
	EstimatedCost   EstimatedCost `json:"estimatedCost"`
	Activities      []string      `json:"activities"`
	Tags            []string      `json:"tags"`
	WeatherInfo     *WeatherInfo  `json:"weatherInfo,omitempty"`
	TravelTips      []string      `json:"travelTips"`
	IsActive        bool          `json:"isActive"`
	Trending        bool          `json:"trending"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type Location struct {
	Country     string      `json:"country" validate:"required"`
	City        string      `json:"city" validate:"required"`
	State       string      `json:"state,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type Image struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// Ratings is derived from stored reviews and never accepted from clients.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Season struct {
	Season      string   `json:"season" validate:"omitempty,season"`
	Months      []string `json:"months,omitempty"`
	Description string   `json:"description,omitempty"`
}

type EstimatedCost struct {
	Budget   *CostRange `json:"budget,omitempty"`
	MidRange *CostRange `json:"midRange,omitempty"`
	Luxury   *CostRange `json:"luxury,omitempty"`
}

type CostRange struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gtefield=Min"`
	Currency string  `json:"currency,omitempty"`
}

type WeatherInfo struct {
	Climate     string       `json:"climate,omitempty"`
	AverageTemp *Temperature `json:"averageTemp,omitempty"`
}

type Temperature struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit,omitempty"`
}

const (
	DefaultCurrency = "USD"
	DefaultTempUnit = "Celsius"
)

// Patch is a partial destination document. Nil fields keep the stored value.
type Patch struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Location        *Location      `json:"location"`
	Images          []Image        `json:"images"`
	Categories      []string       `json:"categories"`
	Attractions     []string       `json:"attractions"`
	BestTimeToVisit []Season       `json:"bestTimeToVisit"`
	EstimatedCost   *EstimatedCost `json:"estimatedCost"`
	Activities      []string       `json:"activities"`
	Tags            []string       `json:"tags"`
	WeatherInfo     *WeatherInfo   `json:"weatherInfo"`
	TravelTips      []string       `json:"travelTips"`
	IsActive        *bool          `json:"isActive"`
	Trending        *bool          `json:"trending"`
}

func (p Patch) applyTo(d *Destination) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Images != nil {
		d.Images = p.Images
	}
	if p.Categories != nil {
		d.Categories = p.Categories
	}
	if p.Attractions != nil {
		d.Attractions = p.Attractions
	}
	if p.BestTimeToVisit != nil {
		d.BestTimeToVisit = p.BestTimeToVisit
	}
	if p.EstimatedCost != nil {
		d.EstimatedCost = *p.EstimatedCost
	}
	if p.Activities != nil {
		d.Activities = p.Activities
	}
	if p.Tags != nil {
		d.Tags = p.Tags
	}
	if p.WeatherInfo != nil {
		d.WeatherInfo = p.WeatherInfo
	}
	if p.TravelTips != nil {
		d.TravelTips = p.TravelTips
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	if p.Trending != nil {
		d.Trending = *p.Trending
	}
}

// withDefaults fills currency and unit defaults and replaces nil slices so
// documents serialize with [] rather than null.
func withDefaults(d Destination) Destination {
	for _, r := range []*CostRange{d.EstimatedCost.Budget, d.EstimatedCost.MidRange, d.EstimatedCost.Luxury} {
		if r != nil && r.Currency == "" {
			r.Currency = DefaultCurrency
		}
	}
	if d.WeatherInfo != nil && d.WeatherInfo.AverageTemp != nil && d.WeatherInfo.AverageTemp.Unit == "" {
		d.WeatherInfo.AverageTemp.Unit = DefaultTempUnit
	}
	if d.Images == nil {
		d.Images = []Image{}
	}
	d.Categories = nonNil(d.Categories)
	d.Attractions = nonNil(d.Attractions)
	d.Activities = nonNil(d.Activities)
	d.Tags = nonNil(d.Tags)
	d.TravelTips = nonNil(d.TravelTips)
	if d.BestTimeToVisit == nil {
		d.BestTimeToVisit = []Season{}
	}
	return d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
