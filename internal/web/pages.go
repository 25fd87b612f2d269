package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"roamify/internal/logging"
	"roamify/internal/models"
	"roamify/internal/ratings"
	"roamify/internal/recommend"
	"roamify/internal/service"
)

// SubmittedMessage confirms a saved rating form.
const SubmittedMessage = "Ratings submitted successfully!"

type indexPage struct {
	Regions []string
	Region  string
	Count   int
	User    string
	Raw     bool
	Min     int
	Max     int
}

type resultsPage struct {
	indexPage
	Heading         string
	Message         string
	Recommendations []models.Recommendation
	RawRows         []models.UserAttraction
	RawMessage      string
}

type ratePage struct {
	Regions []string
	Region  string
	User    string
	Entries []service.FormEntry
	Message string
	Error   string
}

func (h *Handler) indexData(c *gin.Context) (indexPage, error) {
	regions, err := h.svc.Regions(c.Request.Context())
	if err != nil {
		return indexPage{}, err
	}
	page := indexPage{
		Regions: regions,
		Region:  c.Query("region"),
		Count:   DefaultCount,
		User:    c.Query("user"),
		Raw:     c.Query("raw") != "",
		Min:     recommend.MinCount,
		Max:     recommend.MaxCount,
	}
	if page.Region == "" && len(regions) > 0 {
		page.Region = regions[0]
	}
	return page, nil
}

func (h *Handler) Index(c *gin.Context) {
	page, err := h.indexData(c)
	if err != nil {
		h.failPage(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", page)
}

func (h *Handler) RecommendationsPage(c *gin.Context) {
	base, err := h.indexData(c)
	if err != nil {
		h.failPage(c, err)
		return
	}
	var q recommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.HTML(http.StatusBadRequest, "index.html", base)
		return
	}
	n, err := q.count()
	if err != nil {
		h.failPage(c, err)
		return
	}
	base.Count = n

	ctx := c.Request.Context()
	res, err := h.svc.Recommend(ctx, q.Region, n, q.User)
	if err != nil {
		h.failPage(c, err)
		return
	}
	page := resultsPage{indexPage: base, Message: res.Message, Recommendations: res.Recommendations}
	if len(res.Recommendations) > 0 {
		page.Heading = recommend.Heading(n, q.Region, q.User)
	}

	if base.Raw {
		rows, found, err := h.svc.UserView(ctx, q.User)
		if err != nil {
			h.failPage(c, err)
			return
		}
		if found {
			page.RawRows = rows
		} else {
			page.RawMessage = recommend.NotFoundMessage(q.User)
		}
	}
	c.HTML(http.StatusOK, "results.html", page)
}

func (h *Handler) RateForm(c *gin.Context) {
	page, err := h.rateData(c, c.Query("region"), c.Query("user"))
	if err != nil {
		h.failPage(c, err)
		return
	}
	c.HTML(http.StatusOK, "rate.html", page)
}

func (h *Handler) rateData(c *gin.Context, region, user string) (ratePage, error) {
	ctx := c.Request.Context()
	regions, err := h.svc.Regions(ctx)
	if err != nil {
		return ratePage{}, err
	}
	if region == "" && len(regions) > 0 {
		region = regions[0]
	}
	entries, err := h.svc.RegionForm(ctx, region, user)
	if err != nil {
		return ratePage{}, err
	}
	return ratePage{Regions: regions, Region: region, User: user, Entries: entries}, nil
}

// SubmitForm reads rating[<attraction>] slider fields. Sliders left at 0 mean
// "not rated".
func (h *Handler) SubmitForm(c *gin.Context) {
	user := strings.TrimSpace(c.PostForm("user"))
	region := c.PostForm("region")

	sub := make(ratings.Submission)
	for name, raw := range c.PostFormMap("rating") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			h.renderRateError(c, region, user, "invalid rating for "+name)
			return
		}
		sub[name] = v
	}

	if _, err := h.svc.Submit(c.Request.Context(), user, sub); err != nil {
		if service.IsBadRequest(err) {
			h.renderRateError(c, region, user, err.Error())
			return
		}
		h.failPage(c, err)
		return
	}

	page, err := h.rateData(c, region, user)
	if err != nil {
		h.failPage(c, err)
		return
	}
	page.Message = SubmittedMessage
	c.HTML(http.StatusOK, "rate.html", page)
}

func (h *Handler) renderRateError(c *gin.Context, region, user, msg string) {
	page, err := h.rateData(c, region, user)
	if err != nil {
		h.failPage(c, err)
		return
	}
	page.Error = msg
	c.HTML(http.StatusBadRequest, "rate.html", page)
}

func (h *Handler) failPage(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.FullPath()).Msg("Page failed")
		msg = "Something went wrong loading the attraction data."
	}
	c.HTML(status, "error.html", gin.H{"Status": status, "Message": msg})
}
