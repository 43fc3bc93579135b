package controller

import (
	"mockview_backend/internal/config"
	"mockview_backend/internal/middleware"
	"mockview_backend/internal/service"
	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InterviewController struct {
	InterviewService *service.InterviewService
	SessionConfig    *config.SessionConfig
}

func NewInterviewController(interviewService *service.InterviewService, sessionCfg *config.SessionConfig) *InterviewController {
	return &InterviewController{InterviewService: interviewService, SessionConfig: sessionCfg}
}

type StartResponse struct {
	Message string   `json:"message"`
	Skills  []string `json:"skills,omitempty"`
	Token   string   `json:"token"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type HintRequest struct {
	Question string `json:"question"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type ExplainRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// @Summary 开始主题面试
// @Description 按主题开始新一轮面试，签发会话令牌（Cookie 与响应体各一份）
// @Tags 面试
// @Accept json
// @Produce json
// @Param request body service.StartRequest true "主题、面试官人设、历史已答题目"
// @Success 200 {object} util.Response{data=StartResponse}
// @Failure 400 {object} util.Response
// @Router /api/start [post]
func (c *InterviewController) Start(ctx *gin.Context) {
	var req service.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InterviewService.Start(ctx.Request.Context(), util.GetSessionID(ctx), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	c.respondStarted(ctx, result)
}

// @Summary 开始定制面试
// @Description 从职位描述中提取技能并组卷，题库不足时由大模型补题
// @Tags 面试
// @Accept json
// @Produce json
// @Param request body service.StartCustomRequest true "职位描述与人设"
// @Success 200 {object} util.Response{data=StartResponse}
// @Failure 400 {object} util.Response
// @Router /api/start-custom-interview [post]
func (c *InterviewController) StartCustom(ctx *gin.Context) {
	var req service.StartCustomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InterviewService.StartCustom(ctx.Request.Context(), util.GetSessionID(ctx), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	c.respondStarted(ctx, result)
}

// @Summary 获取下一题
// @Description 返回下一道题，题目用尽时 status 为 complete
// @Tags 面试
// @Produce json
// @Success 200 {object} util.Response{data=service.AskResult}
// @Failure 400 {object} util.Response
// @Router /api/ask [get]
func (c *InterviewController) Ask(ctx *gin.Context) {
	result, err := c.InterviewService.Ask(ctx.Request.Context(), util.GetSessionID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交答案
// @Description 对当前题目评分，大模型不可用时使用关键词匹配
// @Tags 面试
// @Accept json
// @Produce json
// @Param request body AnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response
// @Router /api/answer [post]
func (c *InterviewController) Answer(ctx *gin.Context) {
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InterviewService.Answer(ctx.Request.Context(), util.GetSessionID(ctx), req.Answer)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取提示
// @Tags 面试
// @Accept json
// @Produce json
// @Param request body HintRequest true "题目"
// @Success 200 {object} util.Response{data=HintResponse}
// @Failure 400 {object} util.Response
// @Router /api/hint [post]
func (c *InterviewController) Hint(ctx *gin.Context) {
	var req HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	persona := c.InterviewService.Persona(ctx.Request.Context(), util.GetSessionID(ctx))
	hint, err := c.InterviewService.Hint(ctx.Request.Context(), persona, req.Question)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, HintResponse{Hint: hint})
}

// @Summary 讲解知识点
// @Tags 面试
// @Accept json
// @Produce json
// @Param request body ExplainRequest true "题目与参考答案"
// @Success 200 {object} util.Response{data=ExplainResponse}
// @Failure 400 {object} util.Response
// @Router /api/explain [post]
func (c *InterviewController) Explain(ctx *gin.Context) {
	var req ExplainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	persona := c.InterviewService.Persona(ctx.Request.Context(), util.GetSessionID(ctx))
	explanation, err := c.InterviewService.Explain(ctx.Request.Context(), persona, req.Question, req.Answer)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, ExplainResponse{Explanation: explanation})
}

func (c *InterviewController) respondStarted(ctx *gin.Context, result *service.StartResult) {
	token, err := middleware.IssueSessionToken(ctx, c.SessionConfig, result.SessionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, StartResponse{Message: result.Message, Skills: result.Skills, Token: token})
}
