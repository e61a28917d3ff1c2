package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/errcodes"
	"market_buyer/pkg/httpx/reply"
	"market_buyer/pkg/httpx/req"
	"market_buyer/pkg/rest"
)

type settingsService interface {
	Settings(ctx context.Context) (entity.Settings, error)
	SetBalance(ctx context.Context, balance value.Balance) error
	SetDiscountRatio(ctx context.Context, ratio value.DiscountRatio) error
	SyncBalance(ctx context.Context) (value.Price, error)
}

type SettingsServer struct {
	settingsService settingsService
}

func NewSettingsServer(settingsService settingsService) SettingsServer {
	return SettingsServer{
		settingsService: settingsService,
	}
}

func (s SettingsServer) getV1Settings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	settings, err := s.settingsService.Settings(ctx)
	if err != nil {
		return fmt.Errorf("settingsService.Settings: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSettings(settings))

	return nil
}

func (s SettingsServer) putV1Settings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SettingsUpdate

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	update, err := newDomainSettingsUpdate(request)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainSettingsUpdate: %w", err),
			failure.WithCode(errcodes.InvalidDiscount),
		)
	}

	if update.balance != nil {
		if err = s.settingsService.SetBalance(ctx, *update.balance); err != nil {
			return fmt.Errorf("settingsService.SetBalance: %w", err)
		}
	}

	if update.discount != nil {
		if err = s.settingsService.SetDiscountRatio(ctx, *update.discount); err != nil {
			return fmt.Errorf("settingsService.SetDiscountRatio: %w", err)
		}
	}

	return s.getV1Settings(w, r)
}

func (s SettingsServer) postV1BalanceSync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if _, err := s.settingsService.SyncBalance(ctx); err != nil {
		return fmt.Errorf("settingsService.SyncBalance: %w", err)
	}

	return s.getV1Settings(w, r)
}
