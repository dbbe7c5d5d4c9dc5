package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bimal-bp/DPR/internal/application/dto"
	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/pkg/logger"
)

// LedgerHandler expone el libro diario: apertura, vista del día, guardado y consultas de rango.
type LedgerHandler struct {
	resolver *inventory.Resolver
	saveDay  *inventory.SaveDayUseCase
	daily    *inventory.DailyViewUseCase
	history  *inventory.HistoryUseCase
	report   *inventory.ReportUseCase
	log      *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	resolver *inventory.Resolver,
	saveDay *inventory.SaveDayUseCase,
	daily *inventory.DailyViewUseCase,
	history *inventory.HistoryUseCase,
	report *inventory.ReportUseCase,
	log *logger.Logger,
) *LedgerHandler {
	return &LedgerHandler{resolver: resolver, saveDay: saveDay, daily: daily, history: history, report: report, log: log}
}

// Opening godoc
// @Summary      Apertura de un producto en una fecha
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        date        query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.OpeningResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/opening [get]
func (h *LedgerHandler) Opening(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return writeError(c, domain.NewValidationError("", "product_id", "requerido"))
	}
	date, err := ledger.ParseDate("date", c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	opening, err := h.resolver.ResolveOpening(c.UserContext(), productID, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OpeningResponse{ProductID: productID, Date: ledger.FormatDate(date), Opening: opening})
}

// Daily godoc
// @Summary      Vista diaria (crea las entradas faltantes con apertura arrastrada)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        date      query  string  true   "YYYY-MM-DD"
// @Param        category  query  string  false  "finished | raw | bag (vacío = todas)"
// @Success      200  {object}  dto.DailyViewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/ledger/daily [get]
func (h *LedgerHandler) Daily(c *fiber.Ctx) error {
	date, err := ledger.ParseDate("date", c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.daily.GetOrCreateDailyView(c.UserContext(), date, entity.Category(c.Query("category")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDailyView(date, items))
}

// SaveDay godoc
// @Summary      Guardar movimientos de un día (lote atómico)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        date  path  string              true  "YYYY-MM-DD"
// @Param        body  body  dto.SaveDayRequest  true  "edits: product_id → movimientos"
// @Success      200  {object}  dto.SaveDayResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/ledger/daily/{date} [put]
func (h *LedgerHandler) SaveDay(c *fiber.Ctx) error {
	date, err := ledger.ParseDate("date", c.Params("date"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SaveDayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	saved, err := h.saveDay.SaveDay(c.UserContext(), date, in.ToEdits())
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().
		Str("operator_id", GetOperatorID(c)).
		Str("date", ledger.FormatDate(date)).
		Int("entries", len(saved)).
		Msg("día guardado")
	return c.JSON(dto.FromSavedDay(date, saved))
}

// History godoc
// @Summary      Consulta histórica por categoría y rango
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  true  "finished | raw | bag"
// @Param        start     query  string  true  "YYYY-MM-DD"
// @Param        end       query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/history [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	category, start, end, err := rangeParams(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.history.QueryRange(c.UserContext(), category, start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromHistory(category, start, end, rows))
}

// Pivot godoc
// @Summary      Consulta histórica pivoteada (producto × fecha)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  true  "finished | raw | bag"
// @Param        start     query  string  true  "YYYY-MM-DD"
// @Param        end       query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.PivotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/history/pivot [get]
func (h *LedgerHandler) Pivot(c *fiber.Ctx) error {
	category, start, end, err := rangeParams(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.history.QueryRange(c.UserContext(), category, start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPivot(inventory.PivotHistory(category, start, end, rows)))
}

// HistoryPDF godoc
// @Summary      Reporte PDF de la consulta histórica
// @Tags         ledger
// @Security     Bearer
// @Produce      application/pdf
// @Param        category  query  string  true  "finished | raw | bag"
// @Param        start     query  string  true  "YYYY-MM-DD"
// @Param        end       query  string  true  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/history/pdf [get]
func (h *LedgerHandler) HistoryPDF(c *fiber.Ctx) error {
	category, start, end, err := rangeParams(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.report.DownloadHistoryPDF(c.UserContext(), category, start, end)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// rangeParams lee category, start y end del query string.
func rangeParams(c *fiber.Ctx) (entity.Category, time.Time, time.Time, error) {
	category, ok := entity.ParseCategory(c.Query("category"))
	if !ok {
		return "", time.Time{}, time.Time{}, domain.NewValidationError("", "category", "categoría desconocida o ausente")
	}
	start, err := ledger.ParseDate("start", c.Query("start"))
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	end, err := ledger.ParseDate("end", c.Query("end"))
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return category, start, end, nil
}
