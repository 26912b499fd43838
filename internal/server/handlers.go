package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/user/top-movies-go/internal/forms"
	"github.com/user/top-movies-go/internal/metrics"
	"github.com/user/top-movies-go/internal/model"
	"github.com/user/top-movies-go/internal/ranking"
	"github.com/user/top-movies-go/internal/store"
)

// ErrNotFound is returned when a request references a movie id that is not stored
var ErrNotFound = errors.New("movie not found")

// errInvalidID is returned when the id query parameter is missing or not a positive integer
var errInvalidID = errors.New("invalid id")

const csrfFailedMessage = "Your session expired, please submit the form again."

// handleList recomputes rankings and renders every movie, best rated first
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ranked, err := ranking.Recompute(r.Context(), s.store)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to rank movies")
		metrics.RecordError("store")
		s.renderError(w, r, http.StatusInternalServerError, "Your movies could not be loaded. Please try again.")
		return
	}

	metrics.SetMovieCount(int64(len(ranked)))
	s.render(w, r, http.StatusOK, "index", &pageData{Movies: ranked, Flashes: s.sessions.flashes(w, r)})
}

// handleAddForm shows the title search form
func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	s.renderAddForm(w, r, http.StatusOK, nil, nil)
}

// handleAddSubmit searches the provider and lists the results to choose from
func (s *Server) handleAddSubmit(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseAddMovieForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	if errs := form.Validate(); errs != nil {
		s.renderAddForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	results, err := s.provider.Search(r.Context(), form.Title)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("title", form.Title).Msg("Provider search failed")
		metrics.RecordError("provider")
		s.renderError(w, r, http.StatusBadGateway, "The movie database could not be searched right now. Please try again later.")
		return
	}

	s.render(w, r, http.StatusOK, "select", &pageData{Query: form.Title, Results: results})
}

func (s *Server) renderAddForm(w http.ResponseWriter, r *http.Request, status int, form *forms.AddMovieForm, errs forms.Errors) {
	data := &pageData{Errors: errs}
	if form != nil {
		data.Form = form
	}
	s.render(w, r, status, "add", data)
}

// handleFind imports the chosen provider result as a new movie
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	providerID, err := queryID(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "No movie was selected.")
		return
	}

	logger := hlog.FromRequest(r).With().Int("providerID", providerID).Logger()

	detail, err := s.provider.FetchDetail(r.Context(), providerID)
	if err != nil {
		logger.Error().Err(err).Msg("Provider detail lookup failed")
		metrics.RecordImport(metrics.ImportFailed)
		metrics.RecordError("provider")
		s.renderError(w, r, http.StatusBadGateway, "The movie details could not be fetched. Please try again later.")
		return
	}

	movie := &model.Movie{
		Title:       detail.Title,
		Year:        detail.Year,
		Description: detail.Description,
		Rating:      0,
		Ranking:     0,
		Review:      "",
		ImgURL:      detail.ImageURL(s.opts.ImageBaseURL),
	}

	if err := s.store.InsertMovie(r.Context(), movie); err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			logger.Warn().Str("title", movie.Title).Msg("Movie already in the list")
			metrics.RecordImport(metrics.ImportDuplicate)
			s.sessions.addFlash(w, r, movie.Title+" is already in your list.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		logger.Error().Err(err).Msg("Failed to insert movie")
		metrics.RecordImport(metrics.ImportFailed)
		metrics.RecordError("store")
		s.renderError(w, r, http.StatusInternalServerError, "The movie could not be saved.")
		return
	}

	logger.Info().Uint("movieID", movie.ID).Str("title", movie.Title).Msg("Movie imported")
	metrics.RecordImport(metrics.ImportCreated)
	s.refreshMovieCount(r.Context(), &logger)
	s.sessions.addFlash(w, r, "Added "+movie.Title+".")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEditForm shows the rating/review form for an existing movie
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	movie, ok := s.loadMovie(w, r)
	if !ok {
		return
	}
	s.renderEditForm(w, r, http.StatusOK, movie, nil, nil)
}

// handleEditSubmit applies a partial rating/review update
func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	movie, ok := s.loadMovie(w, r)
	if !ok {
		return
	}

	form, err := forms.ParseRateMovieForm(r)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	if errs := form.Validate(); errs != nil {
		s.renderEditForm(w, r, http.StatusBadRequest, movie, form, errs)
		return
	}

	if err := s.store.UpdateMovie(r.Context(), movie.ID, form.Update()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Uint("movieID", movie.ID).Msg("Failed to update movie")
		metrics.RecordError("store")
		s.renderError(w, r, http.StatusInternalServerError, "Your changes could not be saved.")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderEditForm(w http.ResponseWriter, r *http.Request, status int, movie *model.Movie, form *forms.RateMovieForm, errs forms.Errors) {
	data := &pageData{Movie: movie, Errors: errs}
	if form != nil {
		data.Form = form
	}
	s.render(w, r, status, "edit", data)
}

// handleDelete removes a movie; unknown ids are ignored
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		hlog.FromRequest(r).Debug().Str("id", r.URL.Query().Get("id")).Msg("Ignoring delete with invalid id")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.store.DeleteMovie(r.Context(), uint(id)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Int("movieID", id).Msg("Failed to delete movie")
		metrics.RecordError("store")
		s.renderError(w, r, http.StatusInternalServerError, "The movie could not be deleted.")
		return
	}

	s.refreshMovieCount(r.Context(), hlog.FromRequest(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCSRFFailure re-renders the submitted form when the csrf check fails.
// Nothing is mutated.
func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	hlog.FromRequest(r).Warn().Err(csrf.FailureReason(r)).Str("path", r.URL.Path).Msg("CSRF check failed")
	errs := forms.Errors{forms.CSRFField: csrfFailedMessage}

	switch r.URL.Path {
	case "/add":
		form, _ := forms.ParseAddMovieForm(r)
		s.renderAddForm(w, r, http.StatusBadRequest, form, errs)
	case "/edit":
		movie, ok := s.loadMovie(w, r)
		if !ok {
			return
		}
		form, _ := forms.ParseRateMovieForm(r)
		s.renderEditForm(w, r, http.StatusBadRequest, movie, form, errs)
	default:
		s.renderError(w, r, http.StatusForbidden, csrfFailedMessage)
	}
}

// refreshMovieCount updates the movies gauge after the catalogue changed
func (s *Server) refreshMovieCount(ctx context.Context, logger *zerolog.Logger) {
	count, err := s.store.CountMovies(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count movies")
		return
	}
	metrics.SetMovieCount(count)
}

// loadMovie resolves the id query parameter to a stored movie.
// It writes the error page itself and reports false when there is nothing to edit.
func (s *Server) loadMovie(w http.ResponseWriter, r *http.Request) (*model.Movie, bool) {
	movie, err := s.findMovie(r)
	switch {
	case err == nil:
		return movie, true
	case errors.Is(err, ErrNotFound), errors.Is(err, errInvalidID):
		hlog.FromRequest(r).Info().Err(err).Str("id", r.URL.Query().Get("id")).Msg("Movie not found")
		s.renderError(w, r, http.StatusNotFound, "That movie is not in your list.")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load movie")
		metrics.RecordError("store")
		s.renderError(w, r, http.StatusInternalServerError, "The movie could not be loaded.")
	}
	return nil, false
}

func (s *Server) findMovie(r *http.Request) (*model.Movie, error) {
	id, err := queryID(r)
	if err != nil {
		return nil, err
	}
	movie, err := s.store.GetMovie(r.Context(), uint(id))
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrNotFound
	}
	return movie, nil
}

// queryID parses the positive integer id query parameter
func queryID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
