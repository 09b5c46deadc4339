// Package controller exposes the movies service over http.
package controller

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/internal/web/movies/service"
)

const maxInsertBodyBytes = 1 << 20

// statusReceived is the acknowledgement of a bulk load, the load keeps
// running after the response is sent.
const statusReceived = "Received"

// Controller holds the http handlers of the movies service.
type Controller struct {
	svc         *service.Service
	moviesFile  string
	creditsFile string
}

// New create new controller, moviesFile and creditsFile are the files
// loaded by the bulk load endpoints.
func New(svc *service.Service, moviesFile, creditsFile string) *Controller {
	return &Controller{
		svc:         svc,
		moviesFile:  moviesFile,
		creditsFile: creditsFile,
	}
}

// RegisterRoutes mounts the handlers on r.
func (ctl *Controller) RegisterRoutes(r gin.IRouter) {
	r.POST("/insert/movie", ctl.InsertMovie)
	r.GET("/populate", ctl.PopulateMovies)
	r.GET("/popCredit", ctl.PopulateCredits)
	r.GET("/jobs/:id", ctl.GetJob)

	r.GET("/castinfo", ctl.CastInfo)
	r.GET("/similar", ctl.SimilarMovies)
	// kept for clients of the first release
	r.GET("/similiar", ctl.SimilarMovies)
	r.GET("/profit", ctl.Profit)
}

// InsertMovie stores one movie given as a json object keyed like the columns
// of the movies file.
func (ctl *Controller) InsertMovie(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInsertBodyBytes))
	if err != nil {
		abortWithError(c, errors.Wrap(model.ErrInvalidArgument, "read body"))
		return
	}

	row, err := service.RowFromJSON(body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	movie, err := ctl.svc.InsertMovie(c.Request.Context(), row)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// PopulateMovies starts loading the movies file.
func (ctl *Controller) PopulateMovies(c *gin.Context) {
	job, err := ctl.svc.StartMovieLoad(c.Request.Context(), ctl.moviesFile)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoadAck{Status: statusReceived, JobID: job.ID})
}

// PopulateCredits starts loading the credits file.
func (ctl *Controller) PopulateCredits(c *gin.Context) {
	job, err := ctl.svc.StartCreditLoad(c.Request.Context(), ctl.creditsFile)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoadAck{Status: statusReceived, JobID: job.ID})
}

// GetJob reports the progress of a bulk load.
func (ctl *Controller) GetJob(c *gin.Context) {
	job, err := ctl.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CastInfo returns the genre distribution of every actor of ?moviename.
func (ctl *Controller) CastInfo(c *gin.Context) {
	result, err := ctl.svc.CastGenreDistribution(c.Request.Context(), c.Query("moviename"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SimilarMovies returns the keyword buckets of ?moviename, at most ?limitCount of them.
func (ctl *Controller) SimilarMovies(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limitCount"))
	if err != nil {
		abortWithError(c, errors.Wrap(model.ErrInvalidArgument, "limitCount must be an integer"))
		return
	}

	result, err := ctl.svc.SimilarMovies(c.Request.Context(), c.Query("moviename"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Profit returns the profit of every production company active in ?year.
func (ctl *Controller) Profit(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		abortWithError(c, errors.Wrap(model.ErrInvalidArgument, "year must be an integer"))
		return
	}

	result, err := ctl.svc.ProductionCompanyProfit(c.Request.Context(), year)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusOf maps service errors to http status codes.
func statusOf(err error) int {
	var (
		parseErr *model.ParseError
		aggErr   *model.AggregationError
	)
	switch {
	case errors.As(err, &aggErr):
		// a failed lookup inside a fan-out is never the caller's fault
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrInvalidArgument), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAmbiguousTitle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	logger := gmw.GetLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
	} else {
		logger.Debug("bad request", zap.Error(err), zap.String("path", c.FullPath()))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
