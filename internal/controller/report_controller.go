package controller

import (
	"errors"
	"fmt"
	"net/http"

	"mockview_backend/internal/service"
	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// @Summary 生成面试报告
// @Description 根据前端记录的答题历史生成 PDF 报告并作为附件下载
// @Tags 报告
// @Accept json
// @Produce application/pdf
// @Param request body service.ReportRequest true "答题历史与汇总"
// @Success 200 {file} file
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/generate-report [post]
func (c *ReportController) Generate(ctx *gin.Context) {
	var req service.ReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pdf, err := c.ReportService.Generate(ctx.Request.Context(), util.GetSessionID(ctx), req)
	if err != nil {
		if errors.Is(err, util.ErrRendererUnavailable) {
			util.Error(ctx, http.StatusServiceUnavailable, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, util.ReportFileName))
	ctx.Data(http.StatusOK, util.MimePDF, pdf)
}

// @Summary 历史报告
// @Description 当前会话已归档的报告，按时间倒序
// @Tags 报告
// @Produce json
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 401 {object} util.Response
// @Router /api/reports [get]
func (c *ReportController) List(ctx *gin.Context) {
	records, err := c.ReportService.ListReports(ctx.Request.Context(), util.GetSessionID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  records,
		Total: int64(len(records)),
		Page:  1,
		Limit: len(records),
	})
}
