package destination

// SampleDestinations is the development seed set.
func SampleDestinations() []Destination {
	return []Destination{
		{
			Name:        "Maya Bay",
			Description: "Sheltered bay ringed by limestone cliffs on Koh Phi Phi Leh.",
			Location:    Location{Country: "Thailand", City: "Krabi", Coordinates: Coordinates{Latitude: 7.6781, Longitude: 98.7657}},
			Categories:  []string{"beach", "nature"},
			Activities:  []string{"snorkeling", "swimming", "boat tour"},
			Tags:        []string{"island", "tropical"},
			Attractions: []string{"Pileh Lagoon", "Viking Cave"},
			BestTimeToVisit: []Season{
				{Season: "winter", Months: []string{"November", "December", "January", "February"}, Description: "Dry season with calm seas"},
			},
			EstimatedCost: EstimatedCost{
				Budget:   &CostRange{Min: 40, Max: 80},
				MidRange: &CostRange{Min: 100, Max: 250},
				Luxury:   &CostRange{Min: 300, Max: 800},
			},
			WeatherInfo: &WeatherInfo{Climate: "tropical", AverageTemp: &Temperature{Min: 25, Max: 33}},
			TravelTips:  []string{"Swimming inside the bay is restricted, book an early boat."},
			IsActive:    true,
			Trending:    true,
		},
		{
			Name:        "Zermatt",
			Description: "Car-free alpine village at the foot of the Matterhorn.",
			Location:    Location{Country: "Switzerland", City: "Zermatt", State: "Valais", Coordinates: Coordinates{Latitude: 46.0207, Longitude: 7.7491}},
			Categories:  []string{"mountain", "adventure"},
			Activities:  []string{"skiing", "hiking", "mountaineering"},
			Tags:        []string{"alps", "snow"},
			Attractions: []string{"Matterhorn Glacier Paradise", "Gornergrat"},
			EstimatedCost: EstimatedCost{
				MidRange: &CostRange{Min: 250, Max: 500, Currency: "CHF"},
				Luxury:   &CostRange{Min: 600, Max: 2000, Currency: "CHF"},
			},
			WeatherInfo: &WeatherInfo{Climate: "alpine", AverageTemp: &Temperature{Min: -8, Max: 18}},
			IsActive:    true,
		},
		{
			Name:        "Kyoto",
			Description: "Former imperial capital with temples, shrines and wooden machiya.",
			Location:    Location{Country: "Japan", City: "Kyoto", Coordinates: Coordinates{Latitude: 35.0116, Longitude: 135.7681}},
			Categories:  []string{"cultural", "historical", "city"},
			Activities:  []string{"temple visits", "tea ceremony", "walking tour"},
			Tags:        []string{"temples", "food"},
			Attractions: []string{"Fushimi Inari", "Kinkaku-ji", "Arashiyama"},
			BestTimeToVisit: []Season{
				{Season: "spring", Months: []string{"March", "April"}, Description: "Cherry blossoms"},
				{Season: "autumn", Months: []string{"November"}, Description: "Autumn foliage"},
			},
			EstimatedCost: EstimatedCost{MidRange: &CostRange{Min: 120, Max: 300, Currency: "USD"}},
			IsActive:      true,
			Trending:      true,
		},
		{
			Name:          "Varanasi",
			Description:   "Riverside city of ghats on the Ganges.",
			Location:      Location{Country: "India", City: "Varanasi", State: "Uttar Pradesh", Coordinates: Coordinates{Latitude: 25.3176, Longitude: 82.9739}},
			Categories:    []string{"religious", "cultural", "historical"},
			Activities:    []string{"boat tour", "walking tour"},
			Tags:          []string{"ghats", "river"},
			EstimatedCost: EstimatedCost{Budget: &CostRange{Min: 15, Max: 40}, MidRange: &CostRange{Min: 50, Max: 120}},
			IsActive:      true,
		},
	}
}
