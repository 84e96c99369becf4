package inventory

import (
	"time"

	"github.com/google/uuid"
)

// StarterInventory returns the catalog loaded on first run so a new shop can
// generate designs immediately.
func StarterInventory() []FlowerStock {
	now := time.Now().Unix()
	flowers := []FlowerStock{
		{Name: "White Rose", Color: "#FFFFFF", Quantity: 50, InitialStock: 50, Category: CategoryMain, UnitCost: 5, RetailPrice: 12, Meaning: "Pure love", CultureTags: []string{"western", "universal"}},
		{Name: "Pink Rose", Color: "#FFC0CB", Quantity: 30, InitialStock: 30, Category: CategoryMain, UnitCost: 5, RetailPrice: 15, Meaning: "First love, gratitude", CultureTags: []string{"western", "universal"}},
		{Name: "Red Rose", Color: "#DC143C", Quantity: 60, InitialStock: 60, Category: CategoryMain, UnitCost: 6, RetailPrice: 15, Meaning: "Passionate love", CultureTags: []string{"western", "universal"}},
		{Name: "Sunflower", Color: "#FFD700", Quantity: 20, InitialStock: 20, Category: CategoryMain, UnitCost: 6, RetailPrice: 10, Meaning: "Silent devotion, loyalty", CultureTags: []string{"western", "universal"}},
		{Name: "White Lily", Color: "#FFFFFF", Quantity: 20, InitialStock: 20, Category: CategoryMain, UnitCost: 8, RetailPrice: 20, Meaning: "A hundred years of harmony", CultureTags: []string{"chinese", "western", "universal"}},
		{Name: "Tulip", Color: "#FFA500", Quantity: 25, InitialStock: 25, Category: CategoryMain, UnitCost: 6, RetailPrice: 12, Meaning: "Thoughtfulness, elegance", CultureTags: []string{"western", "universal"}},
		{Name: "Pink Carnation", Color: "#FFB6C1", Quantity: 40, InitialStock: 40, Category: CategoryMain, UnitCost: 4, RetailPrice: 10, Meaning: "A mother's love", CultureTags: []string{"western", "universal"}},
		{Name: "Blue Hydrangea", Color: "#87CEEB", Quantity: 15, InitialStock: 15, Category: CategoryMain, UnitCost: 15, RetailPrice: 38, Meaning: "Reunion, fullness", CultureTags: []string{"western", "universal"}},
		{Name: "Chamomile", Color: "#FFFFE0", Quantity: 60, InitialStock: 60, Category: CategoryFiller, UnitCost: 3, RetailPrice: 8, Meaning: "Strength in adversity", CultureTags: []string{"western", "universal"}},
		{Name: "Baby's Breath", Color: "#FFFFFF", Quantity: 200, InitialStock: 200, Category: CategoryFiller, UnitCost: 1, RetailPrice: 3, CultureTags: []string{"universal"}},
		{Name: "Eucalyptus", Color: "#5F8575", Quantity: 100, InitialStock: 100, Category: CategoryFoliage, UnitCost: 2, RetailPrice: 5, Meaning: "Blessing", CultureTags: []string{"western", "universal"}},
	}

	for idx := range flowers {
		flowers[idx].ID = uuid.NewString()
		flowers[idx].CreatedAt = now
		flowers[idx].UpdatedAt = now
	}
	return flowers
}
