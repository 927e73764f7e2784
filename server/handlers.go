package server

import (
	"net/http"
	"strconv"

	"github.com/rushteam/mycontent/core"
)

// recommendResponse 是 /api/recommend 的响应包。
type recommendResponse struct {
	UserID          int64                 `json:"user_id"`
	Recommendations []core.Recommendation `json:"recommendations"`
	Count           int                   `json:"count"`
}

// handleRecommend 处理 GET /api/recommend?user_id=...&top_n=...
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("user_id")
	if rawUserID == "" {
		s.writeError(w, http.StatusBadRequest, "missing required parameter 'user_id'")
		return
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "user_id must be an integer")
		return
	}

	topN := s.defaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "top_n must be an integer")
			return
		}
	}

	eng, err := s.provider.Get(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("engine load failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recs := eng.Recommend(r.Context(), userID, topN)
	if recs == nil {
		recs = []core.Recommendation{}
	}
	s.writeJSON(w, http.StatusOK, recommendResponse{
		UserID:          userID,
		Recommendations: recs,
		Count:           len(recs),
	})
}

// usersResponse 是 /api/users 的响应包。
type usersResponse struct {
	Users []int64 `json:"users"`
	Count int     `json:"count"`
}

// handleUsers 处理 GET /api/users?limit=...，供演示端挑选用户。
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	eng, err := s.provider.Get(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("engine load failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	users := eng.SampleUserIDs(limit)
	if users == nil {
		users = []int64{}
	}
	s.writeJSON(w, http.StatusOK, usersResponse{Users: users, Count: len(users)})
}

// handleHealth 处理 GET /api/health，纯存活信号，不触发数据加载。
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
