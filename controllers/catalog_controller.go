// controllers/catalog_controller.go
package controllers

import (
	"strconv"

	"foodcart/entity"
	"foodcart/pkg/resp"
	"foodcart/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogController struct {
	Service *services.CatalogService
}

func NewCatalogController(s *services.CatalogService) *CatalogController {
	return &CatalogController{Service: s}
}

// ====== Response DTO ======
type RestaurantResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Rating      float64         `json:"rating"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	MinOrder    decimal.Decimal `json:"min_order"`
	IsActive    bool            `json:"is_active"`
}

type MenuItemResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	RestaurantID uint            `json:"restaurantId"`
	IsAvailable  bool            `json:"isAvailable"`
}

// GET /api/restaurants
func (ctl *CatalogController) ListRestaurants(c *gin.Context) {
	rests, err := ctl.Service.ListRestaurants(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	out := make([]RestaurantResponse, 0, len(rests))
	for i := range rests {
		out = append(out, mapRestaurant(&rests[i]))
	}
	resp.OK(c, out)
}

// GET /api/restaurants/:id
func (ctl *CatalogController) GetRestaurant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	r, err := ctl.Service.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, mapRestaurant(r))
}

// GET /api/restaurants/:id/menu-items
func (ctl *CatalogController) RestaurantMenu(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	items, err := ctl.Service.RestaurantMenu(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, mapMenuItems(items))
}

// GET /api/menu-items
func (ctl *CatalogController) ListMenuItems(c *gin.Context) {
	items, err := ctl.Service.ListMenuItems(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, mapMenuItems(items))
}

func mapRestaurant(r *entity.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Rating:      r.Rating,
		DeliveryFee: r.DeliveryFee,
		MinOrder:    r.MinOrder,
		IsActive:    r.IsActive,
	}
}

func mapMenuItems(items []entity.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MenuItemResponse{
			ID:           m.ID,
			Name:         m.Name,
			Price:        m.Price,
			RestaurantID: m.RestaurantID,
			IsAvailable:  m.IsAvailable,
		})
	}
	return out
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}
