package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
	"github.com/vitaclinic/clinic-server/internal/platform/notification"
)

// AnimalInfo is the slice of an animal this service needs for snapshots and
// notification routing.
type AnimalInfo struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	Name     string
}

// ClientInfo carries the contact details used when notifying an owner.
type ClientInfo struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// VeterinarianInfo is the name snapshot source for a booked veterinarian.
type VeterinarianInfo struct {
	ID   uuid.UUID
	Name string
}

// ClinicInfo is the settings slice that controls notification dispatch.
type ClinicInfo struct {
	Name         string
	Phone        string
	EmailEnabled bool
	SMSEnabled   bool
}

// The directories decouple this service from the other domain packages;
// main wires them to the real services through small adapters.
type (
	AnimalDirectory interface {
		AnimalInfo(ctx context.Context, id uuid.UUID) (*AnimalInfo, error)
	}
	ClientDirectory interface {
		ClientInfo(ctx context.Context, id uuid.UUID) (*ClientInfo, error)
	}
	VeterinarianDirectory interface {
		VeterinarianInfo(ctx context.Context, id uuid.UUID) (*VeterinarianInfo, error)
	}
	SettingsSource interface {
		ClinicInfo(ctx context.Context) (*ClinicInfo, error)
	}
	Notifier interface {
		SendConfirmationEmail(ctx context.Context, msg notification.AppointmentMessage) error
		SendConfirmationSMS(ctx context.Context, msg notification.AppointmentMessage) error
	}
)

type Service struct {
	repo     AppointmentRepository
	animals  AnimalDirectory
	clients  ClientDirectory
	vets     VeterinarianDirectory
	settings SettingsSource
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(
	repo AppointmentRepository,
	animals AnimalDirectory,
	clients ClientDirectory,
	vets VeterinarianDirectory,
	settings SettingsSource,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		animals:  animals,
		clients:  clients,
		vets:     vets,
		settings: settings,
		notifier: notifier,
		logger:   logger.With().Str("component", "appointments").Logger(),
		now:      time.Now,
	}
}

func (s *Service) validate(a *Appointment) error {
	if a.AnimalID == uuid.Nil {
		return fmt.Errorf("%w: animal_id is required", clinicerr.ErrValidation)
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled_at is required", clinicerr.ErrValidation)
	}
	if a.Status == "" {
		a.Status = StatusWaiting
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("%w: invalid status %q", clinicerr.ErrValidation, a.Status)
	}
	return nil
}

// CreateAppointment persists a new appointment with name snapshots resolved
// from the linked records, then kicks off confirmation notifications in the
// background. The create succeeds regardless of what happens to the
// notifications.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}

	animal, err := s.animals.AnimalInfo(ctx, a.AnimalID)
	if err != nil {
		return fmt.Errorf("%w: animal %s does not exist", clinicerr.ErrValidation, a.AnimalID)
	}
	client, err := s.clients.ClientInfo(ctx, animal.ClientID)
	if err != nil {
		return fmt.Errorf("%w: owner of animal %s does not exist", clinicerr.ErrValidation, a.AnimalID)
	}

	petName := animal.Name
	ownerName := client.FirstName + " " + client.LastName
	a.PetName = &petName
	a.OwnerName = &ownerName

	if a.VeterinarianID != nil {
		vet, err := s.vets.VeterinarianInfo(ctx, *a.VeterinarianID)
		if err != nil {
			return fmt.Errorf("%w: veterinarian %s does not exist", clinicerr.ErrValidation, *a.VeterinarianID)
		}
		a.VeterinarianName = &vet.Name
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}

	if s.notifier != nil {
		// Fire and forget: the request context may be gone before the
		// provider answers.
		go s.dispatchConfirmation(context.WithoutCancel(ctx), *a, *client)
	}
	return nil
}

// dispatchConfirmation reads the clinic settings and sends whatever channels
// are enabled. Failures are logged and dropped.
func (s *Service) dispatchConfirmation(ctx context.Context, a Appointment, client ClientInfo) {
	clinic, err := s.settings.ClinicInfo(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", a.ID.String()).
			Msg("settings unavailable, confirmation not sent")
		return
	}
	if !clinic.EmailEnabled && !clinic.SMSEnabled {
		return
	}

	msg := notification.AppointmentMessage{
		ClientName:  client.FirstName + " " + client.LastName,
		ClientEmail: client.Email,
		ClientPhone: client.Phone,
		StartTime:   a.ScheduledAt,
		ClinicName:  clinic.Name,
		ClinicPhone: clinic.Phone,
	}
	if a.PetName != nil {
		msg.AnimalName = *a.PetName
	}
	if a.AppointmentType != nil {
		msg.Reason = *a.AppointmentType
	}

	if clinic.EmailEnabled && client.Email != "" {
		if err := s.notifier.SendConfirmationEmail(ctx, msg); err != nil {
			s.logger.Error().Err(err).Str("appointment_id", a.ID.String()).
				Msg("confirmation email failed")
		}
	}
	if clinic.SMSEnabled && client.Phone != "" {
		if err := s.notifier.SendConfirmationSMS(ctx, msg); err != nil {
			s.logger.Error().Err(err).Str("appointment_id", a.ID.String()).
				Msg("confirmation sms failed")
		}
	}
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAppointment is a full-record replace. It does not police status
// transitions; ChangeStatus is the validated path.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, a *Appointment) error {
	if a.ID != uuid.Nil && a.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, a.ID, id)
	}
	a.ID = id
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

// ChangeStatus moves an appointment through its lifecycle. Transitions out
// of a terminal status, or skipping ahead (waiting straight to completed),
// are rejected.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus string) (*Appointment, error) {
	if !validStatuses[newStatus] {
		return nil, fmt.Errorf("%w: invalid status %q", clinicerr.ErrValidation, newStatus)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == newStatus {
		return a, nil
	}
	if !CanTransition(a.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move appointment from %s to %s", clinicerr.ErrValidation, a.Status, newStatus)
	}
	return s.repo.UpdateStatus(ctx, id, a.Status, newStatus)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListAppointmentsOn returns appointments scheduled on the given calendar
// day in the day's own location.
func (s *Service) ListAppointmentsOn(ctx context.Context, day time.Time) ([]*Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.repo.ListBetween(ctx, start, start.AddDate(0, 0, 1))
}

func (s *Service) ListTodaysAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.ListAppointmentsOn(ctx, s.now())
}

func (s *Service) ListAppointmentsByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Appointment, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}
