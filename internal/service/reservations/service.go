package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifier"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

const notifyTimeout = 5 * time.Second

// Service сервис для работы с записями
type Service struct {
	reservationRepo ReservationRepository
	staffRepo       StaffRepository
	notifierClient  NotifierClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	reservationRepo ReservationRepository,
	staffRepo StaffRepository,
	notifierClient NotifierClient,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		staffRepo:       staffRepo,
		notifierClient:  notifierClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пользователь может видеть только свою запись
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if reservation.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.ReservationStatus
	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.ListByUser(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetStaffReservations получает расписание сотрудника на день:
// все его активные записи на дату, упорядоченные по времени начала
func (s *Service) GetStaffReservations(ctx context.Context, req *models.GetStaffReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetStaffReservations: fetching reservations for staff=%d, date=%s",
		req.StaffID, req.Date.Format(domain.DateFormat))

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetStaffReservations: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffReservations: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffReservations - failed to get staff: %v", ErrInternal, err)
	}

	reservations, err := s.reservationRepo.ListActiveByStaffAndDate(ctx, req.StaffID, req.Date)
	if err != nil {
		s.logger.Error("GetStaffReservations: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffReservations: successfully fetched %d reservations for staff=%d",
		len(reservations), req.StaffID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет запись
// Пользователь может отменить только свою запись
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	// Получаем запись
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем владельца
	if reservation.UserID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", req.UserID, reservationID)
		return ErrAccessDenied
	}

	// Проверяем, можно ли отменить запись
	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, reservation.Status)
		return ErrCannotCancel
	}

	// Отменяем запись
	if err := s.reservationRepo.Cancel(ctx, reservationID, req.CancellationReason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found during cancellation", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)

	// Уведомление отправляется после отмены в режиме fire-and-forget
	s.notifyCancelled(reservation, req.CancellationReason)

	return nil
}

// UpdateStatus обновляет статус записи (подтверждение, завершение, неявка)
func (s *Service) UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s", reservationID, req.Status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Обновляем статус
	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("UpdateStatus: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", reservationID, newStatus)
	return nil
}

// notifyCancelled отправляет уведомление об отменённой записи в фоне
func (s *Service) notifyCancelled(res *domain.Reservation, reason string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		n := notifier.ReservationCancelledNotification{
			ReservationID: res.ID,
			UserID:        res.UserID,
			Reason:        reason,
		}
		if err := s.notifierClient.SendReservationCancelled(ctx, n); err != nil {
			s.logger.Error("Cancel: failed to send notification for reservation id=%d: %v", res.ID, err)
		}
	}()
}
