package appointment

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"mediconnect/internal/domain"
)

// memAppointmentRepo is a thread-safe in-memory store. The optional
// findDelay widens the gap between the conflict check and the insert so a
// missing serialization guard would let racing bookings through.
type memAppointmentRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Appointment
	nextID    int
	findDelay time.Duration
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{items: make(map[string]*domain.Appointment)}
}

func (r *memAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if a.ID == "" {
		a.ID = "apt-" + strconv.Itoa(r.nextID)
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAppointmentRepo) FindActiveOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]domain.Appointment, error) {
	r.mu.Lock()
	var out []domain.Appointment
	for _, a := range r.items {
		if a.DoctorID == doctorID && a.Status.Active() && a.Overlaps(start, end) {
			out = append(out, *a)
		}
	}
	r.mu.Unlock()

	if r.findDelay > 0 {
		time.Sleep(r.findDelay)
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.Appointment, error) {
	return nil, nil
}

func (r *memAppointmentRepo) ListByPatient(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return nil, nil
}

func (r *memAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.Status != from {
		return gorm.ErrRecordNotFound
	}
	a.Status = to
	return nil
}

type countingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *countingPublisher) Publish(ctx context.Context, e domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestService_Book_ConcurrentSameSlot_OneWinner(t *testing.T) {
	repo := newMemAppointmentRepo()
	repo.findDelay = 10 * time.Millisecond
	events := &countingPublisher{}
	svc := NewService(repo, events, 5*time.Second)

	slot := futureSlot(0, 30*time.Minute)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), CreateAppointmentRequest{
				DoctorID: 1, PatientID: patientID, Slot: slot,
			})
			results <- err
		}(int64(100 + i))
	}
	wg.Wait()
	close(results)

	var ok, conflicts, busy int
	for err := range results {
		switch err {
		case nil:
			ok++
		case ErrSlotConflict:
			conflicts++
		case ErrBusy:
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok, "exactly one booking must win")
	assert.Equal(t, attempts-1, conflicts+busy)
	assert.Equal(t, 1, events.count(), "only the winner emits an event")
}

func TestService_Book_NonOverlappingSlots_AllSucceed(t *testing.T) {
	repo := newMemAppointmentRepo()
	events := &countingPublisher{}
	svc := NewService(repo, events, 5*time.Second)

	const attempts = 5
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slot := futureSlot(time.Duration(i)*time.Hour, 30*time.Minute)
			_, err := svc.Book(context.Background(), CreateAppointmentRequest{
				DoctorID: 1, PatientID: int64(200 + i), Slot: slot,
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	for err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, attempts, events.count())
}

func TestService_Book_LockTimeoutIsBusy(t *testing.T) {
	repo := newMemAppointmentRepo()
	repo.findDelay = 200 * time.Millisecond
	svc := NewService(repo, &countingPublisher{}, 20*time.Millisecond)

	slotA := futureSlot(0, 30*time.Minute)
	slotB := futureSlot(time.Hour, 30*time.Minute)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, slot := range []SlotRequest{slotA, slotB} {
		wg.Add(1)
		go func(s SlotRequest) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), CreateAppointmentRequest{
				DoctorID: 1, PatientID: 3, Slot: s,
			})
			results <- err
		}(slot)
	}
	wg.Wait()
	close(results)

	var ok, busy int
	for err := range results {
		switch err {
		case nil:
			ok++
		case ErrBusy:
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, busy, "the loser must fail fast with busy, not deadlock")
}

// Equal boundaries do not overlap: a slot ending at 10:30 and one starting
// at 10:30 can both be booked.
func TestService_Book_TouchingSlotsDoNotConflict(t *testing.T) {
	repo := newMemAppointmentRepo()
	svc := NewService(repo, &countingPublisher{}, time.Second)

	first := futureSlot(0, 30*time.Minute)
	_, err := svc.Book(context.Background(), CreateAppointmentRequest{
		DoctorID: 1, PatientID: 2, Slot: first,
	})
	assert.NoError(t, err)

	second := SlotRequest{Start: first.End, End: first.End.Add(30 * time.Minute)}
	_, err = svc.Book(context.Background(), CreateAppointmentRequest{
		DoctorID: 1, PatientID: 3, Slot: second,
	})
	assert.NoError(t, err)
}
