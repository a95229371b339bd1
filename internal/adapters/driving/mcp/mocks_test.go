package mcp

import (
	"context"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
)

// mockConversionService implements driving.ConversionService for tests.
type mockConversionService struct {
	summary *domain.BatchSummary
	err     error

	lastRequest driving.ConversionRequest
}

var _ driving.ConversionService = (*mockConversionService)(nil)

func (m *mockConversionService) Convert(_ context.Context, req driving.ConversionRequest) (*domain.BatchSummary, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	if m.summary != nil {
		return m.summary, nil
	}
	return &domain.BatchSummary{}, nil
}
