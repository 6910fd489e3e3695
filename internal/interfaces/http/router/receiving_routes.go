package router

import (
	"github.com/gin-gonic/gin"
	"github.com/inboundhq/receiving/internal/interfaces/http/handler"
)

// ReceivingRoutes registers the inbound receiving endpoints
type ReceivingRoutes struct {
	handler *handler.ReceivingHandler
}

// NewReceivingRoutes creates a new ReceivingRoutes registrar
func NewReceivingRoutes(h *handler.ReceivingHandler) *ReceivingRoutes {
	return &ReceivingRoutes{handler: h}
}

// RegisterRoutes registers the ASN lifecycle routes
func (r *ReceivingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	asns := rg.Group("/asns")
	{
		asns.POST("", r.handler.CreateASN)
		asns.GET("", r.handler.ListASNs)
		asns.GET("/:number", r.handler.GetASN)
		asns.GET("/:number/inspections", r.handler.ListInspections)
		asns.POST("/:number/in-transit", r.handler.MarkInTransit)
		asns.POST("/:number/arrived", r.handler.MarkArrived)
		asns.POST("/:number/receiving", r.handler.StartReceiving)
		asns.POST("/:number/receipts", r.handler.ReceiveGoods)
		asns.POST("/:number/cancel", r.handler.CancelASN)
	}
}

var _ RouteRegistrar = (*ReceivingRoutes)(nil)
