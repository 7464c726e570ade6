package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/service"
)

type HTTPHandler struct {
	cache    *service.InventoryCache
	session  *service.SessionService
	checkout service.Checkout
	pageSize int
	log      *logrus.Logger
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SetStockRequest struct {
	Qtd *int `json:"qtd" binding:"required"`
}

type BackendModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func NewHTTPHandler(cache *service.InventoryCache, session *service.SessionService, checkout service.Checkout, pageSize int, logger *logrus.Logger) *HTTPHandler {
	if pageSize <= 0 {
		pageSize = service.DefaultCatalogPageSize
	}
	return &HTTPHandler{
		cache:    cache,
		session:  session,
		checkout: checkout,
		pageSize: pageSize,
		log:      logger,
	}
}

// Router builds a gin engine with the request middleware and every route.
func (h *HTTPHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.log))
	h.RegisterRoutes(r)
	return r
}

func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/stream", h.StreamProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/checkout", h.Checkout)
	}

	admin := r.Group("/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("", RequireSession(h.session, h.log))
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/session", h.Session)
		protected.POST("/products", h.CreateProduct)
		protected.PATCH("/products/:id", h.UpdateProduct)
		protected.DELETE("/products/:id", h.DeleteProduct)
		protected.POST("/products/:id/increment", h.IncrementStock)
		protected.POST("/products/:id/decrement", h.DecrementStock)
		protected.PUT("/products/:id/stock", h.SetStock)
		protected.POST("/reset", h.Reset)
		protected.PUT("/backend-mode", h.SetBackendMode)
		protected.GET("/stock-history", h.StockHistory)
	}
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   h.cache.Mode(),
		"ready":  h.cache.Ready(),
	})
}

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		h.fail(c, err)
		return
	}
	size, err := intQuery(c, "page_size", h.pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}

	result := service.QueryCatalog(h.cache.Products(), service.CatalogQuery{
		Search:   c.Query("q"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: size,
	})
	c.JSON(http.StatusOK, result)
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	product, ok := h.cache.Product(c.Param("id"))
	if !ok {
		h.fail(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

// StreamProducts pushes the snapshot as server-sent events: the current one
// first, then one event per change, until the client goes away.
func (h *HTTPHandler) StreamProducts(c *gin.Context) {
	updates, cancel := h.cache.Subscribe(c.Request.Context())
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		products, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("products", products)
		return true
	})
}

func (h *HTTPHandler) Checkout(c *gin.Context) {
	qty, err := intQuery(c, "qty", 1)
	if err != nil {
		h.fail(c, err)
		return
	}
	product, ok := h.cache.Product(c.Param("id"))
	if !ok {
		h.fail(c, domain.ErrNotFound)
		return
	}

	order, err := h.checkout.Order(product, qty)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	cred, err := h.session.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": cred.Username})
}

func (h *HTTPHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

func (h *HTTPHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": h.session.IsAuthenticated(),
		"mode":          h.cache.Mode(),
	})
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid product body"})
		return
	}
	if strings.TrimSpace(product.ID) == "" {
		product.ID = domain.NewProductID()
	}

	created, err := h.cache.Create(c.Request.Context(), product)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil || patch.Empty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "nothing to update"})
		return
	}

	updated, err := h.cache.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) IncrementStock(c *gin.Context) {
	product, err := h.cache.Increment(c.Request.Context(), c.Param("id"))
	h.respondStock(c, product, err)
}

func (h *HTTPHandler) DecrementStock(c *gin.Context) {
	product, err := h.cache.Decrement(c.Request.Context(), c.Param("id"))
	h.respondStock(c, product, err)
}

func (h *HTTPHandler) SetStock(c *gin.Context) {
	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Qtd < 0 {
		h.fail(c, domain.ErrInvalidQuantity)
		return
	}
	product, err := h.cache.SetQuantity(c.Request.Context(), c.Param("id"), *req.Qtd)
	h.respondStock(c, product, err)
}

func (h *HTTPHandler) Reset(c *gin.Context) {
	if err := h.cache.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cache.Products())
}

func (h *HTTPHandler) SetBackendMode(c *gin.Context) {
	var req BackendModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.ErrInvalidBackendMode)
		return
	}
	mode, err := domain.ParseBackendMode(req.Mode)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.cache.SetBackendMode(c.Request.Context(), mode); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": h.cache.Mode(), "products": len(h.cache.Products())})
}

func (h *HTTPHandler) StockHistory(c *gin.Context) {
	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		h.fail(c, err)
		return
	}

	movements, err := h.cache.StockHistory(c.Request.Context(), c.Query("product_id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, key)
	}
	return n, nil
}
