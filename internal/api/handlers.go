package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recshelf/recshelf/internal/auth"
	"github.com/recshelf/recshelf/internal/media"
	"github.com/recshelf/recshelf/internal/preferences"
	"github.com/recshelf/recshelf/internal/recommend"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "email, username, and password are required")
	}

	user, err := s.authService.Register(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return errorJSON(c, http.StatusConflict, codeConflict, "email is already registered")
		}
		s.logger.Error().Err(err).Msg("Registration failed")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "registration failed")
	}

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token generation failed")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "registration failed")
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
	}

	token, user, err := s.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errorJSON(c, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
		}
		s.logger.Error().Err(err).Msg("Login failed")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "login failed")
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

type recommendationsResponse struct {
	MediaType media.Type   `json:"mediaType"`
	Items     []media.Item `json:"items"`
}

// getRecommendations serves the single-type recommendation list.
// The type query parameter defaults to movie.
func (s *Server) getRecommendations(c echo.Context) error {
	typeParam := c.QueryParam("type")
	if typeParam == "" {
		typeParam = string(media.TypeMovie)
	}
	t, err := media.ParseType(typeParam)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "unknown media type")
	}

	items, err := s.engine.Recommend(c.Request().Context(), userID(c), t)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoSignal):
			return errorJSON(c, http.StatusNotFound, codeNoSignal, "no liked items for this media type")
		case errors.Is(err, recommend.ErrUpstream):
			return errorJSON(c, http.StatusBadGateway, codeUpstream, "recommendation sources are unavailable")
		case errors.Is(err, recommend.ErrParse):
			return errorJSON(c, http.StatusBadGateway, codeParseFailure, "recommendation response could not be parsed")
		default:
			s.logger.Error().Err(err).Str("media_type", string(t)).Msg("Recommendation failed")
			return errorJSON(c, http.StatusInternalServerError, codeInternal, "recommendation failed")
		}
	}

	return c.JSON(http.StatusOK, recommendationsResponse{MediaType: t, Items: items})
}

// getAllRecommendations serves the multi-media view. Always 200 with all
// four media types present; degraded types carry empty lists.
func (s *Server) getAllRecommendations(c echo.Context) error {
	results, err := s.engine.RecommendAll(c.Request().Context(), userID(c))
	if err != nil {
		s.logger.Error().Err(err).Msg("Multi-media recommendation failed")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "recommendation failed")
	}

	return c.JSON(http.StatusOK, map[string]map[media.Type][]media.Item{"results": results})
}

type preferenceRequest struct {
	MediaType string `json:"mediaType"`
	MediaID   string `json:"mediaId"`
}

func (s *Server) bindPreference(c echo.Context) (media.Type, string, error) {
	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return "", "", errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
	}
	t, err := media.ParseType(req.MediaType)
	if err != nil {
		return "", "", errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "unknown media type")
	}
	if req.MediaID == "" {
		return "", "", errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "mediaId is required")
	}
	return t, req.MediaID, nil
}

type preferenceResponse struct {
	Status string `json:"status"`
}

type removalResponse struct {
	Removed bool `json:"removed"`
}

func (s *Server) addLike(c echo.Context) error {
	t, id, err := s.bindPreference(c)
	if err != nil {
		return err
	}

	if err := s.prefService.AddLike(c.Request().Context(), userID(c), t, id); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save like")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "failed to save preference")
	}
	return c.JSON(http.StatusOK, preferenceResponse{Status: "ok"})
}

func (s *Server) removeLike(c echo.Context) error {
	t, id, err := s.bindPreference(c)
	if err != nil {
		return err
	}

	err = s.prefService.RemoveLike(c.Request().Context(), userID(c), t, id)
	if errors.Is(err, preferences.ErrNothingToRemove) {
		return c.JSON(http.StatusOK, removalResponse{Removed: false})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to remove like")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "failed to save preference")
	}
	return c.JSON(http.StatusOK, removalResponse{Removed: true})
}

func (s *Server) addDislike(c echo.Context) error {
	t, id, err := s.bindPreference(c)
	if err != nil {
		return err
	}

	if err := s.prefService.AddDislike(c.Request().Context(), userID(c), t, id); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save dislike")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "failed to save preference")
	}
	return c.JSON(http.StatusOK, preferenceResponse{Status: "ok"})
}

func (s *Server) removeDislike(c echo.Context) error {
	t, id, err := s.bindPreference(c)
	if err != nil {
		return err
	}

	err = s.prefService.RemoveDislike(c.Request().Context(), userID(c), t, id)
	if errors.Is(err, preferences.ErrNothingToRemove) {
		return c.JSON(http.StatusOK, removalResponse{Removed: false})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to remove dislike")
		return errorJSON(c, http.StatusInternalServerError, codeInternal, "failed to save preference")
	}
	return c.JSON(http.StatusOK, removalResponse{Removed: true})
}

const trendingPageSize = 10

// getTrending serves the cached trending list for a media type, fetching
// and caching on a miss.
func (s *Server) getTrending(c echo.Context) error {
	typeParam := c.QueryParam("type")
	if typeParam == "" {
		typeParam = string(media.TypeMovie)
	}
	t, err := media.ParseType(typeParam)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "unknown media type")
	}

	if items, ok := s.trending.Get(t); ok {
		return c.JSON(http.StatusOK, recommendationsResponse{MediaType: t, Items: items})
	}

	adapter, err := s.catalogs.Get(t)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, codeNotFound, "no catalog for this media type")
	}

	items, err := adapter.GetTrending(c.Request().Context(), trendingPageSize)
	if err != nil {
		s.logger.Error().Err(err).Str("media_type", string(t)).Msg("Trending lookup failed")
		return errorJSON(c, http.StatusBadGateway, codeUpstream, "trending source is unavailable")
	}
	s.trending.Set(t, items)

	return c.JSON(http.StatusOK, recommendationsResponse{MediaType: t, Items: items})
}

// healthCheck reports liveness and which upstreams are configured.
func (s *Server) healthCheck(c echo.Context) error {
	catalogs := make(map[media.Type]bool, len(media.AllTypes()))
	for _, t := range media.AllTypes() {
		adapter, err := s.catalogs.Get(t)
		catalogs[t] = err == nil && adapter.IsConfigured()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"catalogs": catalogs,
		"oracle":   s.oracle.IsConfigured(),
	})
}
