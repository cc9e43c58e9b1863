package handler

import (
	"net/http"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/apierror"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// CriarBags godoc
// @Summary      Cadastrar bags de um produto
// @Description  Registra uma ou mais bags pesadas de uma vez sob o produto.
// @Tags         estoque
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "UUID do produto"
// @Param        body body dto.CriarBagsRequest true "Bags pesadas"
// @Success      201  {array}  dto.BagResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/produtos/{id}/bags [post]
func (h *EstoqueHandler) CriarBags(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CriarBagsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarBags(c.Request.Context(), produtoID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EstoqueHandler) ListarBags(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarBags(c.Request.Context(), produtoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar bags"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AtualizarBag is the manual stock edit endpoint (weight and/or status).
func (h *EstoqueHandler) AtualizarBag(c *gin.Context) {
	bagID, err := uuid.Parse(c.Param("bagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AtualizarBagRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarBag(c.Request.Context(), bagID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) ExcluirBag(c *gin.Context) {
	bagID, err := uuid.Parse(c.Param("bagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.ExcluirBag(c.Request.Context(), bagID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary      Posicao de estoque por produto
// @Tags         estoque
// @Produce      json
// @Security     BearerAuth
// @Param        com_bags query bool false "Incluir a lista de bags de cada produto"
// @Success      200 {array} dto.EstoqueProdutoResponse
// @Router       /v1/estoque [get]
func (h *EstoqueHandler) Listar(c *gin.Context) {
	comBags := c.Query("com_bags") == "true"
	resp, err := h.svc.ListarEstoque(c.Request.Context(), comBags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar estoque"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Movimentos(c *gin.Context) {
	var filter dto.MovimentoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Movimentos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
