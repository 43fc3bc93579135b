package controller

import (
	"mockview_backend/internal/repository"
	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	QuestionRepo *repository.QuestionRepository
}

func NewTopicController(questionRepo *repository.QuestionRepository) *TopicController {
	return &TopicController{QuestionRepo: questionRepo}
}

// @Summary 主题列表
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	topics, err := c.QuestionRepo.ListTopics()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}
