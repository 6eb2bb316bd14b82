package v1

import (
	"github.com/gin-gonic/gin"

	"bistro/internal/infrastructure/http/v1/handlers"
)

// DocumentRouteHandler is the CRUD surface shared by order and bill handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterDocumentRoutes registers list, get and delete routes for a document.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", handler.Delete)
}

// registerOrderRoutes wires order endpoints and the bill-for-order sub-resource.
func registerOrderRoutes(group *gin.RouterGroup, orders *handlers.OrderHandler, bills *handlers.BillHandler) {
	RegisterDocumentRoutes(group, orders)
	group.POST("", orders.Create)
	group.GET("/number/:number", orders.GetByNumber)
	group.PUT("/:id/items", orders.UpdateItems)
	group.POST("/:id/status", orders.SetStatus)
	group.POST("/:id/bill", bills.CreateForOrder)
	group.GET("/:id/bill", bills.GetForOrder)
}

// registerBillRoutes wires bill endpoints.
func registerBillRoutes(group *gin.RouterGroup, bills *handlers.BillHandler) {
	RegisterDocumentRoutes(group, bills)
	group.PUT("/:id/adjustments", bills.UpdateAdjustments)
	group.POST("/:id/pay", bills.Pay)
}
