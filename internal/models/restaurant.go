package models

// Restaurant represents a restaurant that sells pizzas
type Restaurant struct {
	ID               uint              `json:"id" gorm:"primaryKey"`
	Name             string            `json:"name" gorm:"not null"`
	Address          string            `json:"address"`
	RestaurantPizzas []RestaurantPizza `json:"-" gorm:"foreignKey:RestaurantID"`
}

// RestaurantSummary is the listing shape of a restaurant, without its pizzas
type RestaurantSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RestaurantDetail is a restaurant together with the pizzas it sells
type RestaurantDetail struct {
	ID               uint                  `json:"id"`
	Name             string                `json:"name"`
	Address          string                `json:"address"`
	RestaurantPizzas []RestaurantPizzaItem `json:"restaurant_pizzas"`
}

// Summary returns the listing view of the restaurant
func (r Restaurant) Summary() RestaurantSummary {
	return RestaurantSummary{ID: r.ID, Name: r.Name, Address: r.Address}
}

// Detail returns the restaurant with its join records. RestaurantPizzas must be
// loaded, with their Pizza preloaded, for the nested pizza to be populated.
func (r Restaurant) Detail() RestaurantDetail {
	items := make([]RestaurantPizzaItem, 0, len(r.RestaurantPizzas))
	for _, rp := range r.RestaurantPizzas {
		items = append(items, rp.Item())
	}
	return RestaurantDetail{
		ID:               r.ID,
		Name:             r.Name,
		Address:          r.Address,
		RestaurantPizzas: items,
	}
}

// RestaurantSummaries maps a slice of restaurants to their listing views
func RestaurantSummaries(restaurants []Restaurant) []RestaurantSummary {
	out := make([]RestaurantSummary, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, r.Summary())
	}
	return out
}
