package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mediconnect/internal/domain"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	if n != nil && n.ID == 0 {
		n.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipient domain.Recipient, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, recipient, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipient domain.Recipient) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}

func statusChangedEvent(actor domain.Role) domain.Event {
	return domain.Event{
		Type:          domain.EventAppointmentStatusChanged,
		AppointmentID: "apt-1",
		DoctorID:      10,
		PatientID:     20,
		OldStatus:     domain.AppointmentPending,
		NewStatus:     domain.AppointmentAccepted,
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
	}
}

func TestService_Record_NotifiesNonActorParty(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	// Doctor accepted: the patient is told.
	created, err := svc.Record(context.Background(), statusChangedEvent(domain.RoleDoctor))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, int64(20), created[0].RecipientID)
	assert.Equal(t, domain.RolePatient, created[0].RecipientRole)
	assert.Equal(t, domain.EventAppointmentStatusChanged, created[0].Type)
	assert.Equal(t, "apt-1", created[0].AppointmentID)
	assert.False(t, created[0].IsRead)

	// Patient cancelled: the doctor is told.
	created, err = svc.Record(context.Background(), statusChangedEvent(domain.RolePatient))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, int64(10), created[0].RecipientID)
	assert.Equal(t, domain.RoleDoctor, created[0].RecipientRole)
}

func TestService_Record_BookedEventTargetsDoctor(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	created, err := svc.Record(context.Background(), domain.Event{
		Type:          domain.EventAppointmentBooked,
		AppointmentID: "apt-2",
		DoctorID:      10,
		PatientID:     20,
		Actor:         domain.RolePatient,
		OccurredAt:    time.Now().UTC(),
	})

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, int64(10), created[0].RecipientID)
	assert.Equal(t, domain.RoleDoctor, created[0].RecipientRole)
	assert.Equal(t, "You have a new appointment request", created[0].Message)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_Dismiss_OwnershipEnforced(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo)

	owned := &domain.Notification{
		ID: 5, RecipientID: 20, RecipientRole: domain.RolePatient,
	}
	repo.On("GetByID", mock.Anything, int64(5)).Return(owned, nil)

	// Wrong owner: refused, record untouched.
	err := svc.Dismiss(context.Background(), 5, domain.Recipient{ID: 99, Role: domain.RolePatient})
	assert.ErrorIs(t, err, ErrForbidden)

	// Same id but doctor role: also refused.
	err = svc.Dismiss(context.Background(), 5, domain.Recipient{ID: 20, Role: domain.RoleDoctor})
	assert.ErrorIs(t, err, ErrForbidden)

	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Dismiss_Owner(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo)

	owned := &domain.Notification{
		ID: 5, RecipientID: 20, RecipientRole: domain.RolePatient,
	}
	repo.On("GetByID", mock.Anything, int64(5)).Return(owned, nil)
	repo.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.Dismiss(context.Background(), 5, domain.Recipient{ID: 20, Role: domain.RolePatient})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Dismiss_NotFound(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Dismiss(context.Background(), 404, domain.Recipient{ID: 20, Role: domain.RolePatient})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderMessage(t *testing.T) {
	e := statusChangedEvent(domain.RoleDoctor)
	assert.Equal(t, "Your appointment has been accepted",
		RenderMessage(e, domain.Recipient{ID: 20, Role: domain.RolePatient}))

	e.NewStatus = domain.AppointmentRejected
	assert.Equal(t, "Your appointment has been rejected",
		RenderMessage(e, domain.Recipient{ID: 20, Role: domain.RolePatient}))

	e.NewStatus = domain.AppointmentCancelled
	assert.Equal(t, "An appointment has been cancelled",
		RenderMessage(e, domain.Recipient{ID: 10, Role: domain.RoleDoctor}))
}
