// Package server 是推荐引擎之上的薄 HTTP 层：解析参数、调用引擎、渲染 JSON。
// 校验失败（非整数参数）是客户端错误，由本层拦截，不进入引擎。
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/engine"
)

// ServiceName 出现在健康检查响应中。
const ServiceName = "My Content Recommendation API"

// Server 持有引擎 Provider 与服务配置。
type Server struct {
	provider    *engine.Provider
	defaultTopN int
	logger      zerolog.Logger
}

// New 创建 Server。defaultTopN <= 0 时取引擎默认值。
func New(provider *engine.Provider, defaultTopN int, logger zerolog.Logger) *Server {
	if defaultTopN <= 0 {
		defaultTopN = engine.DefaultTopN
	}
	return &Server{
		provider:    provider,
		defaultTopN: defaultTopN,
		logger:      logger,
	}
}

// Router 装配路由。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/recommend", s.handleRecommend)
	r.Get("/api/users", s.handleUsers)
	return r
}

// requestLogger 按请求打一条访问日志。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
