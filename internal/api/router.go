package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	deps Deps
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{deps: deps}

	router := gin.New()
	router.Use(requestId(), accessLog(), gin.Recovery())

	v1 := router.Group("/api/v1")
	if deps.Verifier != nil {
		v1.Use(authenticate(deps.Verifier))
	}

	v1.GET("/questions", s.listQuestions)
	v1.GET("/questions/:questionId", s.getQuestion)

	users := v1.Group("/users/:userId")
	{
		users.GET("/home", s.getHome)
		users.GET("/questions/unanswered", s.listUnanswered)

		users.GET("/questions/:questionId/answers", s.getAnswers)
		users.POST("/questions/:questionId/answers", s.submitAnswer)
		users.PUT("/questions/:questionId/reaction", s.react)
		users.POST("/questions/:questionId/complete", s.retryComplete)

		users.GET("/image", s.getImage)
		users.PUT("/image", s.putImage)
		users.DELETE("/image", s.deleteImage)
	}

	return router
}
