package testfixtures

import (
	"time"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/jalali"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// AvailabilityServiceDeps captures dependencies for constructing an
// availability service.
type AvailabilityServiceDeps struct {
	Hours        application.BusinessHoursReader
	Holidays     application.HolidayReader
	Services     application.ServiceCatalog
	Appointments application.AppointmentReader
	National     *jalali.HolidayCalendar
	Now          func() time.Time
}

// NewAvailabilityService builds an availability service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewAvailabilityService(deps AvailabilityServiceDeps) *application.AvailabilityService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAvailabilityService(
		deps.Hours,
		deps.Holidays,
		deps.Services,
		deps.Appointments,
		deps.National,
		now,
	)
}

// BookingServiceDeps captures dependencies for constructing a booking service.
type BookingServiceDeps struct {
	Appointments application.AppointmentStore
	Services     application.ServiceCatalog
	Availability application.AvailabilityInvalidator
	IDGenerator  func() string
	Now          func() time.Time
}

// NewBookingService builds a booking service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewBookingService(deps BookingServiceDeps) *application.BookingService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewBookingService(
		deps.Appointments,
		deps.Services,
		deps.Availability,
		idGen,
		now,
	)
}
