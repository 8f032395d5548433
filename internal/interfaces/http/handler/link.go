package handler

import (
	applinking "github.com/channelbridge/backend/internal/application/linking"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LinkHandler handles link-graph API endpoints
type LinkHandler struct {
	BaseHandler
	syncService      *applinking.HierarchySyncService
	rebuildService   *applinking.RebuildService
	validatorService *applinking.ValidatorService
	repairService    *applinking.RepairService
	autoLinkService  *applinking.AutoLinkService
	statsService     *applinking.StatsService
	adminService     *applinking.AdminService
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(
	syncService *applinking.HierarchySyncService,
	rebuildService *applinking.RebuildService,
	validatorService *applinking.ValidatorService,
	repairService *applinking.RepairService,
	autoLinkService *applinking.AutoLinkService,
	statsService *applinking.StatsService,
	adminService *applinking.AdminService,
) *LinkHandler {
	return &LinkHandler{
		syncService:      syncService,
		rebuildService:   rebuildService,
		validatorService: validatorService,
		repairService:    repairService,
		autoLinkService:  autoLinkService,
		statsService:     statsService,
		adminService:     adminService,
	}
}

// SyncHierarchy godoc
// @Summary      Sync one product's link hierarchy
// @Description  Atomically upserts the product-level link and one variant-level link per resolvable variant entry for one account
// @Tags         links
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        account_id path string true "Marketplace account ID"
// @Param        request body SyncHierarchyRequest true "Marketplace-side hierarchy data"
// @Success      200 {object} dto.Response{data=SyncResultResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/products/{product_id}/accounts/{account_id}/sync [post]
func (h *LinkHandler) SyncHierarchy(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req SyncHierarchyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.syncService.SyncProductHierarchy(c.Request.Context(), productID, accountID, req.Product, req.Variants)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, toSyncResultResponse(result))
}

// Rebuild godoc
// @Summary      Rebuild parent references for one account
// @Description  Repoints detached or drifted variant-level links at the account's product-level links, best effort
// @Tags         links
// @Produce      json
// @Param        account_id path string true "Marketplace account ID"
// @Success      200 {object} dto.Response{data=linking.RebuildReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/accounts/{account_id}/rebuild [post]
func (h *LinkHandler) Rebuild(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	report, err := h.rebuildService.RebuildForAccount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, report)
}

// Validate godoc
// @Summary      Validate link-graph integrity
// @Description  Scans for orphaned variants, dangling parents and cross-marketplace children without modifying anything
// @Tags         links
// @Produce      json
// @Param        account_id query string false "Limit validation to one account"
// @Success      200 {object} dto.Response{data=linking.ValidationReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/validate [get]
func (h *LinkHandler) Validate(c *gin.Context) {
	accountID, ok := h.optionalAccountID(c)
	if !ok {
		return
	}

	report, err := h.validatorService.Validate(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Repair godoc
// @Summary      Repair detected link-graph defects
// @Description  Runs a validation pass and applies deterministic fixes. One failed fix never blocks the rest.
// @Tags         links
// @Produce      json
// @Param        account_id query string false "Limit repair to one account"
// @Success      200 {object} dto.Response{data=linking.RepairReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/repair [post]
func (h *LinkHandler) Repair(c *gin.Context) {
	accountID, ok := h.optionalAccountID(c)
	if !ok {
		return
	}

	validation, err := h.validatorService.Validate(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	report, err := h.repairService.Repair(c.Request.Context(), validation.Issues)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, report)
}

// AutoLinkHierarchical godoc
// @Summary      Auto-link products hierarchically
// @Description  Probes the marketplace for unlinked products with a parent SKU and creates full link hierarchies for matches
// @Tags         links
// @Produce      json
// @Success      200 {object} dto.Response{data=AutoLinkResponse}
// @Router       /links/auto-link/hierarchical [post]
func (h *LinkHandler) AutoLinkHierarchical(c *gin.Context) {
	created, err := h.autoLinkService.AutoLinkHierarchical(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, AutoLinkResponse{LinksCreated: created})
}

// AutoLinkBySKU godoc
// @Summary      Auto-link products by SKU
// @Description  Probes the marketplace for unlinked products and creates flat product-level links for matches
// @Tags         links
// @Produce      json
// @Success      200 {object} dto.Response{data=AutoLinkResponse}
// @Router       /links/auto-link/sku [post]
func (h *LinkHandler) AutoLinkBySKU(c *gin.Context) {
	created, err := h.autoLinkService.AutoLinkBySKU(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, AutoLinkResponse{LinksCreated: created})
}

// Stats godoc
// @Summary      Get hierarchy statistics
// @Description  Aggregates link counts, status distribution and hierarchy completion, optionally for one account
// @Tags         links
// @Produce      json
// @Param        account_id query string false "Limit statistics to one account"
// @Success      200 {object} dto.Response{data=linking.HierarchyStats}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/stats [get]
func (h *LinkHandler) Stats(c *gin.Context) {
	accountID, ok := h.optionalAccountID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetHierarchyStatistics(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// List godoc
// @Summary      List links
// @Description  Lists links filtered by account, level, status and parent presence
// @Tags         links
// @Produce      json
// @Param        account_id query string false "Account filter"
// @Param        level query string false "Level filter (product, variant)"
// @Param        status query string false "Status filter (pending, linked, failed, unlinked)"
// @Param        has_parent query bool false "Parent presence filter"
// @Success      200 {object} dto.Response{data=LinkListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links [get]
func (h *LinkHandler) List(c *gin.Context) {
	var query ListLinksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter linking.LinkFilter
	if query.AccountID != "" {
		accountID, err := uuid.Parse(query.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		filter = linking.ByAccount(accountID)
	}
	if query.Level != "" {
		filter = filter.WithLevel(linking.LinkLevel(query.Level))
	}
	if query.Status != "" {
		filter = filter.WithStatus(linking.LinkStatus(query.Status))
	}
	if query.HasParent != nil {
		filter = filter.WithHasParent(*query.HasParent)
	}

	links, total, err := h.adminService.ListLinks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LinkListResponse{Links: toLinkResponses(links), Total: total})
}

// Get godoc
// @Summary      Get one link
// @Tags         links
// @Produce      json
// @Param        id path string true "Link ID"
// @Success      200 {object} dto.Response{data=LinkResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/{id} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	linkID, ok := h.linkIDParam(c)
	if !ok {
		return
	}

	link, err := h.adminService.GetLink(c.Request.Context(), linkID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLinkResponse(link))
}

// Unlink godoc
// @Summary      Mark a link unlinked
// @Description  Transitions a link to the unlinked status without removing it
// @Tags         links
// @Produce      json
// @Param        id path string true "Link ID"
// @Success      200 {object} dto.Response{data=LinkResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/{id}/unlink [post]
func (h *LinkHandler) Unlink(c *gin.Context) {
	linkID, ok := h.linkIDParam(c)
	if !ok {
		return
	}

	link, err := h.adminService.UnlinkLink(c.Request.Context(), linkID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.Success(c, toLinkResponse(link))
}

// Delete godoc
// @Summary      Delete a link tree
// @Description  Permanently deletes a link. For product-level links the children are deleted first.
// @Tags         links
// @Produce      json
// @Param        id path string true "Link ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /links/{id} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	linkID, ok := h.linkIDParam(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteLinkTree(c.Request.Context(), linkID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.statsService.InvalidateCache(c.Request.Context())
	h.NoContent(c)
}

// RegisterRoutes registers link routes on the given group
func (h *LinkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	links := rg.Group("/links")
	{
		links.GET("", h.List)
		links.GET("/stats", h.Stats)
		links.GET("/validate", h.Validate)
		links.POST("/repair", h.Repair)
		links.POST("/auto-link/hierarchical", h.AutoLinkHierarchical)
		links.POST("/auto-link/sku", h.AutoLinkBySKU)
		links.POST("/products/:product_id/accounts/:account_id/sync", h.SyncHierarchy)
		links.POST("/accounts/:account_id/rebuild", h.Rebuild)
		links.GET("/:id", h.Get)
		links.POST("/:id/unlink", h.Unlink)
		links.DELETE("/:id", h.Delete)
	}
}

// linkIDParam parses the :id path parameter, writing the error response on
// failure
func (h *LinkHandler) linkIDParam(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid link ID")
		return uuid.Nil, false
	}
	linkID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return uuid.Nil, false
	}
	return linkID, true
}

// optionalAccountID parses the account_id query parameter when present
func (h *LinkHandler) optionalAccountID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("account_id")
	if raw == "" {
		return nil, true
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return nil, false
	}
	return &accountID, true
}
