package pizzeria

// Pizza is one menu item.
type Pizza struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
}

// Menu returns the fixed five-pizza menu.
func Menu() []Pizza {
	return []Pizza{
		{
			ID:          "1",
			Name:        "Margherita",
			Description: "Classic tomato, mozzarella, and fresh basil",
			Price:       300.0,
			Ingredients: []string{"tomato sauce", "mozzarella", "basil"},
		},
		{
			ID:          "2",
			Name:        "Pepperoni",
			Description: "Tomato sauce, mozzarella, and pepperoni slices",
			Price:       400.0,
			Ingredients: []string{"tomato sauce", "mozzarella", "pepperoni"},
		},
		{
			ID:          "3",
			Name:        "Vegetarian",
			Description: "Mixed vegetables with mozzarella and olive oil",
			Price:       350.0,
			Ingredients: []string{"tomato sauce", "mozzarella", "bell peppers", "mushrooms", "onions"},
		},
		{
			ID:          "4",
			Name:        "Chicken Tikka",
			Description: "Indian style pizza with tandoori chicken",
			Price:       450.0,
			Ingredients: []string{"chicken tikka", "mozzarella", "onions", "cilantro"},
		},
		{
			ID:          "5",
			Name:        "Paneer Masala",
			Description: "Spiced cottage cheese with Indian spices",
			Price:       380.0,
			Ingredients: []string{"paneer", "mozzarella", "tomato sauce", "spices"},
		},
	}
}

// SizeMultipliers scale the base price by pizza size.
var SizeMultipliers = map[string]float64{
	"s": 0.8,
	"m": 1.0,
	"l": 1.2,
}

// Order statuses, in lifecycle order.
const (
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusReady          = "ready"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
)

var validStatuses = map[string]bool{
	StatusConfirmed:      true,
	StatusPreparing:      true,
	StatusReady:          true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
}
