package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/calendar"
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

// ServiceDeps captures dependencies shared by the room and reservation services.
// Zero fields fall back to the factory's clock and id generator.
type ServiceDeps struct {
	Store        application.Store
	Availability application.AvailabilityCache
	IDGenerator  func() string
	Now          func() time.Time
	Today        calendar.Clock
	Logger       *slog.Logger
}

func (f *ServiceFactory) resolve(deps ServiceDeps) (func() string, func() time.Time, calendar.Clock) {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	var today calendar.Clock = f.Clock
	if deps.Today != nil {
		today = deps.Today
	}
	return idGen, now, today
}

// NewRoomService builds a room service using the supplied dependencies.
func (f *ServiceFactory) NewRoomService(deps ServiceDeps) *application.RoomService {
	idGen, now, today := f.resolve(deps)
	return application.NewRoomServiceWithLogger(
		deps.Store,
		deps.Availability,
		idGen,
		now,
		today,
		deps.Logger,
	)
}

// NewReservationService builds a reservation service using the supplied dependencies.
func (f *ServiceFactory) NewReservationService(deps ServiceDeps) *application.ReservationService {
	idGen, now, today := f.resolve(deps)
	return application.NewReservationServiceWithLogger(
		deps.Store,
		deps.Availability,
		idGen,
		now,
		today,
		deps.Logger,
	)
}
