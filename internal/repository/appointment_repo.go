package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mediconnect/internal/domain"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	DoctorID  int64     `gorm:"column:doctor_id;index"`
	PatientID int64     `gorm:"column:patient_id;index"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`
	Status    string    `gorm:"column:status;size:20;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (appointmentModel) TableName() string { return "appointments" }

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	return &domain.Appointment{
		ID:        m.ID,
		DoctorID:  m.DoctorID,
		PatientID: m.PatientID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Status:    domain.AppointmentStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	return appointmentModel{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m := toAppointmentModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAppointment(m)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var m appointmentModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAppointment(m), nil
}

// FindActiveOverlapping returns the doctor's pending/accepted appointments
// whose slot intersects [start, end). Slots that merely touch at a boundary
// are not returned.
func (r *AppointmentRepository) FindActiveOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentAccepted)}).
		Where("start_time < ? AND ? < end_time", end, start).
		Order("start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "doctor_id = ?", doctorID)
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "patient_id = ?", patientID)
}

func (r *AppointmentRepository) list(ctx context.Context, cond string, arg int64) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

// UpdateStatus moves the appointment from one status to another. The WHERE
// on the old status makes the write a compare-and-swap: if a concurrent
// transition got there first, zero rows match and ErrRecordNotFound is
// returned without touching the record.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
