package httpserver

import (
	"cinema/catalog"
	"cinema/pkg/metrics"

	"go.uber.org/zap"
)

type Options func(s *Server)

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

func WithMetrics(m *metrics.Recorder) Options {
	return func(s *Server) {
		if m != nil {
			s.Metrics = m
		}
	}
}

func WithCatalogService(svc catalog.Service) Options {
	return func(s *Server) {
		s.CatalogService = svc
	}
}
