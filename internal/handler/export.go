package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/apierror"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct{ svc service.ExportService }

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// PedidosCSV godoc
// @Summary      Exportar pedidos em CSV
// @Description  Aceita os mesmos filtros da listagem de pedidos; ignora paginacao.
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Param        data       query string false "Data YYYY-MM-DD"
// @Param        status     query string false "pendente | processando | concluido | cancelado | all"
// @Param        cliente_id query string false "UUID do cliente"
// @Success      200
// @Router       /v1/export/pedidos [get]
func (h *ExportHandler) PedidosCSV(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	data, err := h.svc.PedidosCSV(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao exportar pedidos"))
		return
	}
	filename := fmt.Sprintf("pedidos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
