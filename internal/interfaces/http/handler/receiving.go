package handler

import (
	"github.com/gin-gonic/gin"
	receivingapp "github.com/inboundhq/receiving/internal/application/receiving"
	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/inboundhq/receiving/internal/interfaces/http/dto"
	"github.com/inboundhq/receiving/internal/interfaces/http/middleware"
)

// ReceivingHandler handles inbound receiving API endpoints
type ReceivingHandler struct {
	BaseHandler
	receivingService *receivingapp.ReceivingService
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(receivingService *receivingapp.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{
		receivingService: receivingService,
	}
}

// CreateASN handles POST /api/v1/asns
func (h *ReceivingHandler) CreateASN(c *gin.Context) {
	var req dto.CreateASNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lines := make([]receivingapp.ASNLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, receivingapp.ASNLineInput{
			LineNumber:  l.LineNumber,
			SKU:         l.SKU,
			GTIN:        l.GTIN,
			ExpectedQty: l.ExpectedQty,
			UOM:         l.UOM,
			Lot:         l.Lot,
			Serial:      l.Serial,
			ExpDate:     l.ExpDate,
			MfgDate:     l.MfgDate,
		})
	}

	input := receivingapp.ProcessASNInput{
		ASNNumber:       req.ASNNumber,
		PONumber:        req.PONumber,
		SupplierID:      req.SupplierID,
		Carrier:         req.Carrier,
		ExpectedArrival: req.ExpectedArrival,
		Dock:            req.Dock,
		Notes:           req.Notes,
		Lines:           lines,
	}

	response, err := h.receivingService.ProcessASN(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// ListASNs handles GET /api/v1/asns
func (h *ReceivingHandler) ListASNs(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	status := receiving.ASNStatus(c.Query("status"))

	page, err := h.receivingService.ListByStatus(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListInspections handles GET /api/v1/asns/:number/inspections
func (h *ReceivingHandler) ListInspections(c *gin.Context) {
	inspections, err := h.receivingService.ListInspections(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inspections)
}

// GetASN handles GET /api/v1/asns/:number
func (h *ReceivingHandler) GetASN(c *gin.Context) {
	response, err := h.receivingService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// MarkInTransit handles POST /api/v1/asns/:number/in-transit
func (h *ReceivingHandler) MarkInTransit(c *gin.Context) {
	response, err := h.receivingService.MarkInTransit(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// MarkArrived handles POST /api/v1/asns/:number/arrived
func (h *ReceivingHandler) MarkArrived(c *gin.Context) {
	response, err := h.receivingService.MarkArrived(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// StartReceiving handles POST /api/v1/asns/:number/receiving
func (h *ReceivingHandler) StartReceiving(c *gin.Context) {
	var req dto.StartReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	info := receivingapp.CarrierInfo{
		Carrier:       req.Carrier,
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
	}

	response, err := h.receivingService.StartReceiving(c.Request.Context(), c.Param("number"), req.Dock, info)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// ReceiveGoods handles POST /api/v1/asns/:number/receipts
func (h *ReceivingHandler) ReceiveGoods(c *gin.Context) {
	var req dto.ReceiveGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inputs := make([]receivingapp.ReceiveLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		criteria := make([]receivingapp.CriterionInput, 0, len(l.Criteria))
		for _, cr := range l.Criteria {
			criteria = append(criteria, receivingapp.CriterionInput{
				Criterion: cr.Criterion,
				Expected:  cr.Expected,
				Actual:    cr.Actual,
				Pass:      cr.Pass,
				Required:  cr.Required,
				Notes:     cr.Notes,
			})
		}
		inputs = append(inputs, receivingapp.ReceiveLineInput{
			LineNumber:     l.LineNumber,
			ReceivedQty:    l.ReceivedQty,
			Lot:            l.Lot,
			Serial:         l.Serial,
			QARequired:     l.QARequired,
			InspectionType: receiving.InspectionType(l.InspectionType),
			InspectedBy:    l.InspectedBy,
			Criteria:       criteria,
		})
	}

	result, err := h.receivingService.ReceiveGoods(c.Request.Context(), c.Param("number"), inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelASN handles POST /api/v1/asns/:number/cancel
func (h *ReceivingHandler) CancelASN(c *gin.Context) {
	var req dto.CancelASNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := h.receivingService.Cancel(c.Request.Context(), c.Param("number"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}
