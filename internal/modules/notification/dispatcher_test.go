package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"mediconnect/internal/domain"
	"mediconnect/internal/realtime"
)

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Publish(targets []domain.Recipient, p realtime.Push) {
	m.Called(targets, p)
}

func TestDispatcher_PersistsAndPushes(t *testing.T) {
	repo := new(MockNotificationRepository)
	pusher := new(MockPusher)
	d := NewDispatcher(NewService(repo), pusher)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	pusher.On("Publish",
		[]domain.Recipient{{ID: 20, Role: domain.RolePatient}},
		mock.MatchedBy(func(p realtime.Push) bool {
			return p.Type == string(domain.EventAppointmentStatusChanged) &&
				p.AppointmentID == "apt-1" &&
				p.NewStatus == string(domain.AppointmentAccepted)
		})).Return().Once()

	d.Publish(context.Background(), statusChangedEvent(domain.RoleDoctor))

	repo.AssertNumberOfCalls(t, "Create", 1)
	pusher.AssertExpectations(t)
}

// Persistence and live delivery are independent best-effort paths: a failed
// store write must not swallow the push.
func TestDispatcher_PushSurvivesStoreFailure(t *testing.T) {
	repo := new(MockNotificationRepository)
	pusher := new(MockPusher)
	d := NewDispatcher(NewService(repo), pusher)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	pusher.On("Publish", mock.Anything, mock.Anything).Return().Once()

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), statusChangedEvent(domain.RoleDoctor))
	})
	pusher.AssertNumberOfCalls(t, "Publish", 1)
}
