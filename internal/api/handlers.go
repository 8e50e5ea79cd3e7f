package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/handler/checkanswer"
	"go-firestore-qna/internal/localstore"
	"go-firestore-qna/internal/model"
	"go-firestore-qna/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 10 << 20

type submitAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

type reactRequest struct {
	Reaction model.ReactionType `json:"reaction"`
}

func questionIdParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("questionId"))
	if err != nil {
		return 0, fmt.Errorf("questionId %q: %w", c.Param("questionId"), ierr.InvalidInput)
	}
	return id, nil
}

func (s *Server) getHome(c *gin.Context) {
	state, err := s.deps.Home.Load(c.Request.Context(), c.Param("userId"), s.deps.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) listUnanswered(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := s.deps.Users.GetById(ctx, c.Param("userId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	questions, err := s.deps.Questions.ListUnanswered(ctx, user.Id, user.FianceId)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) listQuestions(c *gin.Context) {
	ids := []int{}
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				abortWithError(c, fmt.Errorf("ids %q: %w", raw, ierr.InvalidInput))
				return
			}
			ids = append(ids, id)
		}
	}

	questions, err := s.deps.Questions.ListByIds(c.Request.Context(), ids)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) getQuestion(c *gin.Context) {
	id, err := questionIdParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	question, err := s.deps.Questions.GetById(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (s *Server) getAnswers(c *gin.Context) {
	id, err := questionIdParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	screen, err := s.deps.Answers.Show(c.Request.Context(), c.Param("userId"), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (s *Server) submitAnswer(c *gin.Context) {
	id, err := questionIdParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", ierr.InvalidInput, err))
		return
	}

	answer, err := s.deps.Answers.Submit(c.Request.Context(), c.Param("userId"), id, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (s *Server) react(c *gin.Context) {
	id, err := questionIdParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", ierr.InvalidInput, err))
		return
	}

	result, err := s.deps.Answers.React(c.Request.Context(), c.Param("userId"), id, req.Reaction)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) retryComplete(c *gin.Context) {
	id, err := questionIdParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var previous checkanswer.CompletionResult
	if err := c.ShouldBindJSON(&previous); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", ierr.InvalidInput, err))
		return
	}

	result, err := s.deps.Answers.RetryComplete(c.Request.Context(), c.Param("userId"), id, previous)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func imageName(c *gin.Context) string {
	return c.DefaultQuery("name", localstore.MainImageName)
}

func (s *Server) getImage(c *gin.Context) {
	img, err := s.deps.Images.LoadImage(c.Request.Context(), c.Param("userId"), imageName(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	etag := `"` + utils.Hash(img.Data) + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (s *Server) putImage(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes))
	if err != nil {
		abortWithError(c, fmt.Errorf("read image: %w: %v", ierr.InvalidInput, err))
		return
	}

	img, err := s.deps.Images.SaveImage(c.Request.Context(), c.Param("userId"), imageName(c), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("ETag", `"`+utils.Hash(img.Data)+`"`)
	c.JSON(http.StatusOK, gin.H{"name": img.Name, "contentType": img.ContentType, "updatedAt": img.UpdatedAt})
}

func (s *Server) deleteImage(c *gin.Context) {
	if err := s.deps.Images.DeleteImage(c.Request.Context(), c.Param("userId"), imageName(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
