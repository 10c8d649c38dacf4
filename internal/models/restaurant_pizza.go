package models

// Price bounds enforced when a restaurant pizza is created
const (
	MinPrice = 1
	MaxPrice = 30
)

// RestaurantPizza links a pizza to a restaurant that sells it at Price
type RestaurantPizza struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Price        float64     `json:"price" gorm:"not null"`
	PizzaID      uint        `json:"pizza_id" gorm:"not null;index"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null;index"`
	Pizza        *Pizza      `json:"-"`
	Restaurant   *Restaurant `json:"-"`
}

// Validate checks the fields of a restaurant pizza before it is stored
func (rp RestaurantPizza) Validate() error {
	if rp.Price < MinPrice || rp.Price > MaxPrice {
		return NewValidationError("price", "must be between 1 and 30")
	}
	if rp.PizzaID == 0 {
		return NewValidationError("pizza_id", "is required")
	}
	if rp.RestaurantID == 0 {
		return NewValidationError("restaurant_id", "is required")
	}
	return nil
}

// RestaurantPizzaItem is a join record as nested in a restaurant detail
type RestaurantPizzaItem struct {
	ID           uint          `json:"id"`
	Price        float64       `json:"price"`
	PizzaID      uint          `json:"pizza_id"`
	RestaurantID uint          `json:"restaurant_id"`
	Pizza        *PizzaSummary `json:"pizza,omitempty"`
}

// RestaurantPizzaCreated is the response body of a created restaurant pizza
type RestaurantPizzaCreated struct {
	ID           uint              `json:"id"`
	Price        float64           `json:"price"`
	PizzaID      uint              `json:"pizza_id"`
	RestaurantID uint              `json:"restaurant_id"`
	Pizza        PizzaSummary      `json:"pizza"`
	Restaurant   RestaurantSummary `json:"restaurant"`
}

// Item returns the nested view used inside a restaurant detail
func (rp RestaurantPizza) Item() RestaurantPizzaItem {
	item := RestaurantPizzaItem{
		ID:           rp.ID,
		Price:        rp.Price,
		PizzaID:      rp.PizzaID,
		RestaurantID: rp.RestaurantID,
	}
	if rp.Pizza != nil {
		pizza := rp.Pizza.Summary()
		item.Pizza = &pizza
	}
	return item
}

// Created returns the composed creation response. Pizza and Restaurant must be loaded.
func (rp RestaurantPizza) Created() RestaurantPizzaCreated {
	out := RestaurantPizzaCreated{
		ID:           rp.ID,
		Price:        rp.Price,
		PizzaID:      rp.PizzaID,
		RestaurantID: rp.RestaurantID,
	}
	if rp.Pizza != nil {
		out.Pizza = rp.Pizza.Summary()
	}
	if rp.Restaurant != nil {
		out.Restaurant = rp.Restaurant.Summary()
	}
	return out
}
