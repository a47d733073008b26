package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
)

type capturingAppointmentStore struct {
	created []persistence.Appointment
}

func (c *capturingAppointmentStore) CreateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	c.created = append(c.created, appointment)
	return nil
}

func (c *capturingAppointmentStore) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	return persistence.Appointment{}, persistence.ErrNotFound
}

func (c *capturingAppointmentStore) UpdateAppointmentStatus(ctx context.Context, id string, from, to persistence.AppointmentStatus, reason *string, updatedAt time.Time) (persistence.Appointment, error) {
	return persistence.Appointment{}, persistence.ErrNotFound
}

func (c *capturingAppointmentStore) ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error) {
	return nil, nil
}

func (c *capturingAppointmentStore) CompleteElapsed(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

type fixtureServiceCatalog struct {
	service persistence.Service
}

func (f *fixtureServiceCatalog) GetService(ctx context.Context, id string) (persistence.Service, error) {
	if f.service.ID != id {
		return persistence.Service{}, persistence.ErrNotFound
	}
	return f.service, nil
}

func TestServiceFactoryNewBookingService(t *testing.T) {
	factory := NewServiceFactory()
	store := &capturingAppointmentStore{}
	fixture := NewServiceFixture()

	svc := factory.NewBookingService(BookingServiceDeps{
		Appointments: store,
		Services:     &fixtureServiceCatalog{service: fixture},
	})

	start := factory.Clock.Current().Add(2 * time.Hour)
	created, err := svc.CreateAppointment(context.Background(), application.BookingInput{
		OrgID:       fixture.OrgID,
		ServiceID:   fixture.ID,
		ClientName:  "Sara",
		ClientPhone: "09120000000",
		Start:       start,
	}, jalali.LocaleEnglish)
	if err != nil {
		t.Fatalf("CreateAppointment returned error: %v", err)
	}

	if created.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", created.ID)
	}
	if len(store.created) != 1 || store.created[0].ID != created.ID {
		t.Fatalf("repository received unexpected appointment: %+v", store.created)
	}
	if !created.CreatedAt.Equal(factory.Clock.Current()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Current(), created.CreatedAt)
	}
}
