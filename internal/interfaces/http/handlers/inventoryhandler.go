package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/application/inventory"
	"github.com/pedalworks/repairbay/internal/domain/user"
	domaininventory "github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/constants"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// InventoryHandler implements C3's read-heavy CRUD over categories, items
// and parts (spec.md §4.3). Reads are open to any authenticated caller;
// writes require MANAGER or SUPER_ADMIN — spec.md §4.1's capability table
// doesn't name an inventory capability, so this is a direct role check
// rather than a casbin/permission.Service capability lookup.
type InventoryHandler struct {
	categoryUC *inventory.CategoryUseCase
	itemUC     *inventory.ItemUseCase
	partUC     *inventory.PartUseCase
}

func NewInventoryHandler(categoryUC *inventory.CategoryUseCase, itemUC *inventory.ItemUseCase, partUC *inventory.PartUseCase) *InventoryHandler {
	return &InventoryHandler{categoryUC: categoryUC, itemUC: itemUC, partUC: partUC}
}

func requireInventoryWriter(c *gin.Context) (*user.User, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		httpresponse.FromError(c, apperrors.NewUnauthenticatedError("authentication required"))
		return nil, false
	}
	if !caller.ActiveRoleSet().HasAny(authorization.RoleManager, authorization.RoleSuperAdmin) {
		httpresponse.FromError(c, apperrors.NewForbiddenError("caller lacks required role"))
		return nil, false
	}
	return caller, true
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory handles POST /inventory/categories.
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	if _, ok := requireInventoryWriter(c); !ok {
		return
	}
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.categoryUC.Create(c.Request.Context(), inventory.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.Created(c, result)
}

type renameCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCategory handles PATCH /inventory/categories/:id.
func (h *InventoryHandler) RenameCategory(c *gin.Context) {
	if _, ok := requireInventoryWriter(c); !ok {
		return
	}
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	var req renameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.categoryUC.Rename(c.Request.Context(), categoryID, req.Name)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// ListCategories handles GET /inventory/categories.
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	if _, ok := requireAuthenticated(c); !ok {
		return
	}
	result, err := h.categoryUC.List(c.Request.Context())
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

type createItemRequest struct {
	SerialNumber string `json:"serial_number" binding:"required"`
	Name         string `json:"name" binding:"required"`
	CategoryID   uint   `json:"category_id" binding:"required"`
}

// CreateItem handles POST /inventory/items.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	if _, ok := requireInventoryWriter(c); !ok {
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.itemUC.Create(c.Request.Context(), inventory.CreateItemCommand{
		SerialNumber: req.SerialNumber, Name: req.Name, CategoryID: req.CategoryID,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.Created(c, result)
}

// ListItems handles GET /inventory/items.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	if _, ok := requireAuthenticated(c); !ok {
		return
	}
	cmd := inventory.ListItemsCommand{
		Query:   c.Query("q"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", constants.DefaultPageSize),
	}
	if categoryID := parseUintQuery(c, "category_id"); categoryID != nil {
		cmd.CategoryID = categoryID
	}
	if status := c.Query("status"); status != "" {
		s := domaininventory.ItemStatus(status)
		cmd.Status = &s
	}
	result, err := h.itemUC.List(c.Request.Context(), cmd)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.List(c, result.Items, result.Total, result.Page, result.PerPage)
}

// GetItem handles GET /inventory/items/:id.
func (h *InventoryHandler) GetItem(c *gin.Context) {
	if _, ok := requireAuthenticated(c); !ok {
		return
	}
	itemID, err := parseUintParam(c, "id")
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	item, err := h.itemUC.Get(c.Request.Context(), itemID)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, item)
}

// DeactivateItem handles POST /inventory/items/:id/deactivate.
func (h *InventoryHandler) DeactivateItem(c *gin.Context) {
	if _, ok := requireInventoryWriter(c); !ok {
		return
	}
	itemID, err := parseUintParam(c, "id")
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	if err := h.itemUC.Deactivate(c.Request.Context(), itemID); err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.NoContent(c)
}

type createPartRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
	ItemID     *uint  `json:"item_id"`
}

// CreatePart handles POST /inventory/parts.
func (h *InventoryHandler) CreatePart(c *gin.Context) {
	if _, ok := requireInventoryWriter(c); !ok {
		return
	}
	var req createPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.partUC.Create(c.Request.Context(), inventory.CreatePartCommand{
		Name: req.Name, CategoryID: req.CategoryID, ItemID: req.ItemID,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.Created(c, result)
}

// ListParts handles GET /inventory/parts.
func (h *InventoryHandler) ListParts(c *gin.Context) {
	if _, ok := requireAuthenticated(c); !ok {
		return
	}
	categoryID, err := parseUintQueryRequired(c, "category_id")
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	itemID := parseUintQuery(c, "item_id")
	parts, err := h.partUC.ListByCategory(c.Request.Context(), categoryID, itemID)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, parts)
}

func requireAuthenticated(c *gin.Context) (*user.User, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		httpresponse.FromError(c, apperrors.NewUnauthenticatedError("authentication required"))
		return nil, false
	}
	return caller, true
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	return parseUintPathParam(c, name)
}
