package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// Mocks shared by the service tests in this package.

type MockSchedulingProvider struct {
	mock.Mock
}

func (m *MockSchedulingProvider) ListDates(ctx context.Context, appointmentTypeID, month, timezone string) ([]string, error) {
	args := m.Called(ctx, appointmentTypeID, month, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSchedulingProvider) ListTimes(ctx context.Context, appointmentTypeID, date, timezone string) ([]string, error) {
	args := m.Called(ctx, appointmentTypeID, date, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSchedulingProvider) ValidateSlot(ctx context.Context, appointmentTypeID, datetime, timezone string) (*entities.SlotValidation, error) {
	args := m.Called(ctx, appointmentTypeID, datetime, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SlotValidation), args.Error(1)
}

func (m *MockSchedulingProvider) CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.ProviderAppointment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProviderAppointment), args.Error(1)
}

func (m *MockSchedulingProvider) ListAppointments(ctx context.Context, minDate, maxDate, emailFilter string) ([]entities.ProviderAppointment, error) {
	args := m.Called(ctx, minDate, maxDate, emailFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProviderAppointment), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.BookingRecord) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.BookingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingRecord), args.Error(1)
}

func (m *MockBookingRepository) GetByExternalEventID(ctx context.Context, externalEventID string) (*entities.BookingRecord, error) {
	args := m.Called(ctx, externalEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingRecord), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *entities.BookingRecord) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByMentee(ctx context.Context, menteeID string) ([]*entities.BookingRecord, error) {
	args := m.Called(ctx, menteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BookingRecord), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type MockMentorRepository struct {
	mock.Mock
}

func (m *MockMentorRepository) GetByMentorID(ctx context.Context, humanMentorID string) (*entities.AppointmentTypeMapping, error) {
	args := m.Called(ctx, humanMentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AppointmentTypeMapping), args.Error(1)
}

func (m *MockMentorRepository) GetByAppointmentTypeID(ctx context.Context, appointmentTypeID string) (*entities.AppointmentTypeMapping, error) {
	args := m.Called(ctx, appointmentTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AppointmentTypeMapping), args.Error(1)
}

func (m *MockMentorRepository) List(ctx context.Context) ([]*entities.AppointmentTypeMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AppointmentTypeMapping), args.Error(1)
}
