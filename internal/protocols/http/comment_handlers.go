package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bloghub/pkg/models"
)

// createComment creates a new root comment on a post
func (s *Server) createComment(c *gin.Context) {
	viewer := GetViewer(c)

	postID := c.Param("id")
	if postID == "" {
		c.JSON(http.StatusBadRequest, models.Fail(models.ErrInvalidInput))
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(models.ErrInvalidInput))
		return
	}

	comment, err := s.commentSvc.CreateComment(c.Request.Context(), postID, viewer.ID, req.Content)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, models.OK("Comment created successfully", comment))
}

// createReply creates a reply under a root comment
func (s *Server) createReply(c *gin.Context) {
	viewer := GetViewer(c)

	parentID := c.Param("id")
	var req models.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(models.ErrInvalidInput))
		return
	}

	reply, err := s.commentSvc.CreateReply(c.Request.Context(), parentID, viewer.ID, req.Content)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, models.OK("Reply created successfully", reply))
}

// listComments returns one page of a post's comment section
func (s *Server) listComments(c *gin.Context) {
	viewer := GetViewer(c)

	postID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	threadPage, err := s.commentSvc.ListForPost(c.Request.Context(), postID, viewer, page, pageSize)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusOK, models.OK("", threadPage))
}

// updateComment edits comment content
func (s *Server) updateComment(c *gin.Context) {
	viewer := GetViewer(c)

	commentID := c.Param("id")
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(models.ErrInvalidInput))
		return
	}

	comment, err := s.commentSvc.EditComment(c.Request.Context(), commentID, viewer, req.Content)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusOK, models.OK("Comment updated successfully", comment))
}

// deleteComment removes a comment (cascading for roots)
func (s *Server) deleteComment(c *gin.Context) {
	viewer := GetViewer(c)

	commentID := c.Param("id")
	result, err := s.commentSvc.DeleteComment(c.Request.Context(), commentID, viewer)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusOK, models.OK("Comment deleted successfully", result))
}

// likeComment increments the like counter
func (s *Server) likeComment(c *gin.Context) {
	commentID := c.Param("id")

	result, err := s.commentSvc.Like(c.Request.Context(), commentID)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusOK, models.OK("Comment liked", result))
}

// setApproval transitions a comment between pending and approved
func (s *Server) setApproval(c *gin.Context) {
	viewer := GetViewer(c)

	commentID := c.Param("id")
	var req models.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(models.ErrInvalidInput))
		return
	}

	comment, err := s.commentSvc.Approve(c.Request.Context(), commentID, req.Approved, viewer)
	if err != nil {
		c.JSON(models.HTTPStatus(err), models.Fail(err))
		return
	}

	c.JSON(http.StatusOK, models.OK("Comment approval updated", comment))
}
