package controller

import (
	"errors"

	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 可预期的业务错误，直接以 400 返回给前端
var badRequestErrors = []error{
	util.ErrSessionNotStarted,
	util.ErrNoActiveQuestion,
	util.ErrEmptyAnswer,
	util.ErrTopicRequired,
	util.ErrJobDescriptionRequired,
	util.ErrNoSkillsExtracted,
	util.ErrCustomInterviewFailed,
	util.ErrQuestionRequired,
	util.ErrQuestionAnswerRequired,
	util.ErrInvalidTopic,
}

func handleServiceError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			util.BadRequest(c, target.Error())
			return
		}
	}
	util.LogInternalError(c, err)
}
