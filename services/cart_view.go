package services

import (
	"time"

	"foodcart/entity"

	"github.com/shopspring/decimal"
)

type CartView struct {
	ID           uint            `json:"id"`
	UserID       string          `json:"userId"`
	RestaurantID uint            `json:"restaurantId"`
	Version      uint            `json:"version"`
	Items        []CartLineView  `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CartLineView struct {
	MenuItemID uint             `json:"menuItemId"`
	MenuItem   *MenuItemSummary `json:"menuItem"` // nil once the item left the catalog
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
}

// MenuItemSummary is the catalog's current record, not the add-time one.
type MenuItemSummary struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	RestaurantID uint            `json:"restaurantId"`
	IsAvailable  bool            `json:"isAvailable"`
}

func NewCartView(c *entity.Cart, items map[uint]entity.MenuItem) *CartView {
	v := &CartView{
		ID:           c.ID,
		UserID:       c.UserID,
		RestaurantID: c.RestaurantID,
		Version:      c.Version,
		Items:        make([]CartLineView, 0, len(c.Lines)),
		Total:        c.Total(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for _, l := range c.Lines {
		lv := CartLineView{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Price:      l.Price,
			Subtotal:   l.Subtotal(),
		}
		if m, ok := items[l.MenuItemID]; ok {
			lv.MenuItem = &MenuItemSummary{
				ID:           m.ID,
				Name:         m.Name,
				Price:        m.Price,
				RestaurantID: m.RestaurantID,
				IsAvailable:  m.IsAvailable,
			}
		}
		v.Items = append(v.Items, lv)
	}
	return v
}
