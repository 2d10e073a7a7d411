package main

import (
	"context"
	"log"
	"os"
	"time"

	"mediconnect/internal/database"
	"mediconnect/internal/domain"
	"mediconnect/internal/modules/notification"
	"mediconnect/internal/repository"
)

// Seeds a development database with a handful of appointments and the
// notifications they would have produced, so the frontend has data to
// render without walking through the booking flow by hand.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "mediconnect.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM appointments")

	appointments := repository.NewAppointmentRepository(db)
	notifications := repository.NewNotificationRepository(db)
	ctx := context.Background()

	log.Println("Creating appointments...")

	// Tomorrow morning for doctor 1, back to back slots.
	day := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	seeds := []struct {
		doctorID  int64
		patientID int64
		offset    time.Duration
		length    time.Duration
		status    domain.AppointmentStatus
	}{
		{1, 21, 0, 30 * time.Minute, domain.AppointmentAccepted},
		{1, 22, 30 * time.Minute, 30 * time.Minute, domain.AppointmentPending},
		{1, 23, time.Hour, 45 * time.Minute, domain.AppointmentPending},
		{2, 21, 0, time.Hour, domain.AppointmentAccepted},
		{2, 24, 2 * time.Hour, 30 * time.Minute, domain.AppointmentRejected},
	}

	for _, s := range seeds {
		a := &domain.Appointment{
			DoctorID:  s.doctorID,
			PatientID: s.patientID,
			StartTime: day.Add(s.offset),
			EndTime:   day.Add(s.offset + s.length),
			Status:    domain.AppointmentPending,
		}
		if err := appointments.Create(ctx, a); err != nil {
			log.Fatal("Appointment create failed:", err)
		}
		if s.status != domain.AppointmentPending {
			if err := appointments.UpdateStatus(ctx, a.ID, domain.AppointmentPending, s.status); err != nil {
				log.Fatal("Status update failed:", err)
			}
		}

		// The doctor sees the request, the patient sees the decision.
		booked := domain.Event{
			Type:          domain.EventAppointmentBooked,
			AppointmentID: a.ID,
			DoctorID:      s.doctorID,
			PatientID:     s.patientID,
			NewStatus:     domain.AppointmentPending,
			Actor:         domain.RolePatient,
			OccurredAt:    time.Now().UTC(),
		}
		doctorRecipient := domain.Recipient{ID: s.doctorID, Role: domain.RoleDoctor}
		if err := notifications.Create(ctx, &domain.Notification{
			RecipientID:   s.doctorID,
			RecipientRole: domain.RoleDoctor,
			Type:          booked.Type,
			Message:       notification.RenderMessage(booked, doctorRecipient),
			AppointmentID: a.ID,
		}); err != nil {
			log.Fatal("Notification create failed:", err)
		}

		if s.status != domain.AppointmentPending {
			changed := domain.Event{
				Type:          domain.EventAppointmentStatusChanged,
				AppointmentID: a.ID,
				DoctorID:      s.doctorID,
				PatientID:     s.patientID,
				OldStatus:     domain.AppointmentPending,
				NewStatus:     s.status,
				Actor:         domain.RoleDoctor,
				OccurredAt:    time.Now().UTC(),
			}
			patientRecipient := domain.Recipient{ID: s.patientID, Role: domain.RolePatient}
			if err := notifications.Create(ctx, &domain.Notification{
				RecipientID:   s.patientID,
				RecipientRole: domain.RolePatient,
				Type:          changed.Type,
				Message:       notification.RenderMessage(changed, patientRecipient),
				AppointmentID: a.ID,
			}); err != nil {
				log.Fatal("Notification create failed:", err)
			}
		}
	}

	log.Printf("Seeded %d appointments for doctors 1 and 2", len(seeds))
	log.Println("Done")
}
