package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

type performanceRepoMock struct {
	mock.Mock
}

func (m *performanceRepoMock) Snapshot(ctx context.Context) (playerstats.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(playerstats.Snapshot), args.Error(1)
}

func (m *performanceRepoMock) Reload(ctx context.Context) (playerstats.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(playerstats.Snapshot), args.Error(1)
}

type contractRepoMock struct {
	mock.Mock
}

func (m *contractRepoMock) Snapshot(ctx context.Context) (contract.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(contract.Snapshot), args.Error(1)
}

func (m *contractRepoMock) Reload(ctx context.Context) (contract.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(contract.Snapshot), args.Error(1)
}

func TestDashboardServiceSummaryUsingMocks(t *testing.T) {
	t.Parallel()

	performanceRepo := &performanceRepoMock{}
	contractRepo := &contractRepoMock{}
	service := NewDashboardService(performanceRepo, contractRepo)

	performanceRepo.
		On("Snapshot", mock.Anything).
		Return(performanceFixture(), nil).
		Once()
	contractRepo.
		On("Snapshot", mock.Anything).
		Return(contractsFixture(), nil).
		Once()

	summary, err := service.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Performance.Rows != 4 || summary.Contracts.Rows != 4 {
		t.Fatalf("unexpected row counts: %+v", summary)
	}
	if summary.Clubs != 2 {
		t.Fatalf("Clubs = %d, want 2", summary.Clubs)
	}

	performanceRepo.AssertExpectations(t)
	contractRepo.AssertExpectations(t)
}

func TestDashboardServiceSummaryStopsOnPerformanceError(t *testing.T) {
	t.Parallel()

	errLoad := errors.New("export unreadable")
	performanceRepo := &performanceRepoMock{}
	contractRepo := &contractRepoMock{}
	service := NewDashboardService(performanceRepo, contractRepo)

	performanceRepo.
		On("Snapshot", mock.Anything).
		Return(playerstats.Snapshot{}, errLoad).
		Once()

	_, err := service.Summary(context.Background())
	if !errors.Is(err, errLoad) {
		t.Fatalf("Summary error = %v, want wrapped %v", err, errLoad)
	}

	performanceRepo.AssertExpectations(t)
	contractRepo.AssertNotCalled(t, "Snapshot")
}
