package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roamify/internal/logging"
	"roamify/internal/ratings"
	"roamify/internal/recommend"
)

// DefaultCount is the number of attractions asked for when none is given.
const DefaultCount = 5

type recommendationQuery struct {
	Region string `form:"region" binding:"required"`
	Count  string `form:"count"`
	User   string `form:"user"`
}

// count parses the requested size, falling back to DefaultCount.
func (q recommendationQuery) count() (int, error) {
	if q.Count == "" {
		return DefaultCount, nil
	}
	n, err := strconv.Atoi(q.Count)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", recommend.ErrInvalidCount, q.Count)
	}
	return n, nil
}

type recommendationResponse struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
	User   string `json:"user"`
	// Heading is set when a ranked list is returned.
	Heading string `json:"heading,omitempty"`
	recommend.Result
}

func (h *Handler) Regions(c *gin.Context) {
	regions, err := h.svc.Regions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func (h *Handler) Recommendations(c *gin.Context) {
	var q recommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := q.count()
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.svc.Recommend(c.Request.Context(), q.Region, n, q.User)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := recommendationResponse{Region: q.Region, Count: n, User: q.User, Result: res}
	if len(res.Recommendations) > 0 {
		resp.Heading = recommend.Heading(n, q.Region, q.User)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Rating(c *gin.Context) {
	user := c.Query("user")
	attraction := c.Query("attraction")
	if user == "" || attraction == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user and attraction are required"})
		return
	}
	rating, err := h.svc.LookupRating(c.Request.Context(), user, attraction)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "attraction": attraction, "rating": rating})
}

func (h *Handler) UserRatings(c *gin.Context) {
	user := c.Param("user")
	rows, found, err := h.svc.UserView(c.Request.Context(), user)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": recommend.NotFoundMessage(user)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "attractions": rows})
}

type submitRequest struct {
	Ratings map[string]float64 `json:"ratings" binding:"required"`
}

func (h *Handler) SubmitRatings(c *gin.Context) {
	user := c.Param("user")
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	column, err := h.svc.Submit(c.Request.Context(), user, ratings.Submission(req.Ratings))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "ratings": column})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
