package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/internal/web/movies/service"
	"github.com/Laisky/movie-analytics/library/log"
)

var ginModeOnce sync.Once

func setupGinTestMode() {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
}

type testEnv struct {
	store  *dao.Memory
	svc    *service.Service
	router *gin.Engine
}

func newTestEnv(t *testing.T, moviesFile string) *testEnv {
	t.Helper()
	setupGinTestMode()

	store := dao.NewMemory()
	svc, err := service.New(store, dao.NewMemoryJobs())
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	router := gin.New()
	router.Use(gmw.NewLoggerMiddleware(
		gmw.WithLogger(log.Logger.Named("test")),
	))
	New(svc, moviesFile, filepath.Join(t.TempDir(), "missing.csv")).RegisterRoutes(router)

	return &testEnv{store: store, svc: svc, router: router}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	released := time.Date(2010, time.July, 16, 0, 0, 0, 0, time.UTC)
	movies := []*model.Movie{
		{
			ID: 1, Title: "Inception", Budget: 100, Revenue: 300,
			ReleaseDate:         &released,
			Genres:              []model.Tag{{ID: 28, Name: "Action"}},
			Keywords:            []model.Tag{{ID: 1, Name: "dream"}, {ID: 2, Name: "heist"}},
			ProductionCompanies: []model.Tag{{ID: 1, Name: "Legendary"}},
		},
		{
			ID: 2, Title: "Titanic",
			Genres:   []model.Tag{{ID: 18, Name: "Drama"}},
			Keywords: []model.Tag{{ID: 2, Name: "heist"}},
		},
	}
	failures, err := e.store.InsertMovies(ctx, movies)
	require.NoError(t, err)
	require.Empty(t, failures)

	credits := []*model.Credit{
		{MovieID: 1, Title: "Inception", Cast: []model.CastMember{{Name: "Leonardo DiCaprio"}}},
		{MovieID: 2, Title: "Titanic", Cast: []model.CastMember{{Name: "Leonardo DiCaprio"}}},
	}
	failures, err = e.store.InsertCredits(ctx, credits)
	require.NoError(t, err)
	require.Empty(t, failures)
}

func TestCastInfo(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	env.seed(t)

	w := env.do(t, http.MethodGet, "/castinfo?moviename=Inception", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]dto.ActorGenres](t, w)
	require.Len(t, got, 1)
	require.Equal(t, "Leonardo DiCaprio", got[0].ActorName)
	require.ElementsMatch(t, []dto.GenreCount{
		{Genre: "Action", Count: 1},
		{Genre: "Drama", Count: 1},
	}, got[0].Genres)

	w = env.do(t, http.MethodGet, "/castinfo?moviename=Nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, decode[map[string]string](t, w)["error"], "not found")
}

func TestSimilarMovies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	env.seed(t)

	for _, path := range []string{"/similar", "/similiar"} {
		w := env.do(t, http.MethodGet, path+"?moviename=Inception&limitCount=5", "")
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Equal(t, []dto.KeywordBucket{
			{MatchedKeywordCount: 1, MovieNames: []string{"Titanic"}},
		}, decode[[]dto.KeywordBucket](t, w))
	}

	for _, limit := range []string{"", "abc", "0"} {
		w := env.do(t, http.MethodGet, "/similar?moviename=Inception&limitCount="+limit, "")
		require.Equal(t, http.StatusBadRequest, w.Code, limit)
	}
}

func TestProfit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	env.seed(t)

	w := env.do(t, http.MethodGet, "/profit?year=2010", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]float64{"Legendary": 200}, decode[map[string]float64](t, w))

	w = env.do(t, http.MethodGet, "/profit?year=twenty", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsertMovie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/insert/movie",
		`{"id": 7, "title": "Heat", "budget": "60000000", "revenue": 187436818,
		  "genres": "[{\"id\": 80, \"name\": \"Crime\"}]", "release_date": "1995-12-15"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	movie := decode[model.Movie](t, w)
	require.Equal(t, int64(7), movie.ID)
	require.Equal(t, int64(60000000), movie.Budget)
	require.Equal(t, []model.Tag{{ID: 80, Name: "Crime"}}, movie.Genres)

	stored, err := env.store.FindMoviesByTitle(context.Background(), "Heat")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	cases := map[string]string{
		"not json":      `[1, 2]`,
		"missing title": `{"id": 8, "budget": 1, "revenue": 1}`,
		"bad budget":    `{"id": 8, "title": "X", "budget": "lots", "revenue": 1}`,
	}
	for name, body := range cases {
		w := env.do(t, http.MethodPost, "/insert/movie", body)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestPopulate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte("budget,id,revenue,title\n1,1,2,Up\n"), 0o600))
	env := newTestEnv(t, path)

	w := env.do(t, http.MethodGet, "/populate", "")
	require.Equal(t, http.StatusOK, w.Code)
	ack := decode[dto.LoadAck](t, w)
	require.Equal(t, "Received", ack.Status)
	require.NotEmpty(t, ack.JobID)

	require.Eventually(t, func() bool {
		w := env.do(t, http.MethodGet, "/jobs/"+ack.JobID, "")
		if w.Code != http.StatusOK {
			return false
		}
		var job model.Job
		if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
			return false
		}
		return job.Status == model.JobStatusDone && job.Created == 1
	}, 5*time.Second, 10*time.Millisecond)

	// the credits file does not exist, the load is still acknowledged
	w = env.do(t, http.MethodGet, "/popCredit", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/jobs/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusBadRequest, statusOf(&model.ParseError{Field: "id"}))
	require.Equal(t, http.StatusBadRequest, statusOf(model.ErrInvalidArgument))
	require.Equal(t, http.StatusNotFound, statusOf(model.ErrJobNotFound))
	require.Equal(t, http.StatusConflict, statusOf(model.ErrAmbiguousTitle))
	require.Equal(t, http.StatusInternalServerError,
		statusOf(&model.AggregationError{Key: "x", Err: model.ErrNotFound}))
}
