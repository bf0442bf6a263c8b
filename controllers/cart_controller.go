package controllers

import (
	"foodcart/pkg/resp"
	"foodcart/services"
	"foodcart/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

type addItemRequest struct {
	MenuItemID   uint             `json:"menuItemId" binding:"required"`
	RestaurantID uint             `json:"restaurantId" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required,min=1"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
}

type updateQuantityRequest struct {
	// zero is allowed and removes the line
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /api/cart/:userId
func (h *CartController) Get(c *gin.Context) {
	cart, err := h.Svc.GetCart(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// POST /api/cart/:userId
func (h *CartController) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.Price.IsNegative() {
		resp.BadRequest(c, "price must not be negative")
		return
	}

	cart, err := h.Svc.AddItem(c.Request.Context(), utils.CurrentUserID(c), services.AddToCartIn{
		RestaurantID: req.RestaurantID,
		MenuItemID:   req.MenuItemID,
		Quantity:     req.Quantity,
		Price:        *req.Price,
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// PUT /api/cart/:userId/item/:itemId
func (h *CartController) UpdateQuantity(c *gin.Context) {
	itemID, ok := uintParam(c, "itemId")
	if !ok {
		return
	}
	var body updateQuantityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cart, err := h.Svc.UpdateQuantity(c.Request.Context(), utils.CurrentUserID(c), itemID, *body.Quantity)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /api/cart/:userId/item/:itemId
func (h *CartController) RemoveItem(c *gin.Context) {
	itemID, ok := uintParam(c, "itemId")
	if !ok {
		return
	}
	cart, err := h.Svc.RemoveItem(c.Request.Context(), utils.CurrentUserID(c), itemID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /api/cart/:userId
func (h *CartController) Clear(c *gin.Context) {
	cart, err := h.Svc.ClearCart(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}
