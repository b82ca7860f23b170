package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"viewing-scheduler-server/internal/models"
)

// createAttempts bounds how often Create retries after losing a race for the
// next seq value.
const createAttempts = 5

// GormStore persists appointments through gorm. Insertion order is kept in
// the seq column, which is unique.
type GormStore struct {
	DB   *gorm.DB
	opts Options

	nextSeq func(tx *gorm.DB) (int64, error)
}

// NewGormStore creates a store on an already migrated database. The database
// must be opened with TranslateError so seq conflicts surface as
// gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB, opts Options) *GormStore {
	return &GormStore{DB: db, opts: opts, nextSeq: nextSeq}
}

func (s *GormStore) Get(ctx context.Context, id string) (models.Appointment, error) {
	var a models.Appointment
	if err := s.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	if err := s.DB.WithContext(ctx).Order("seq asc, id asc").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (s *GormStore) Create(ctx context.Context, patch models.AppointmentPatch) (models.Appointment, error) {
	a, err := s.opts.newAppointment(patch)
	if err != nil {
		return models.Appointment{}, err
	}

	for attempt := 1; ; attempt++ {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seq, err := s.nextSeq(tx)
			if err != nil {
				return err
			}
			a.Seq = seq
			return tx.Create(&a).Error
		})
		// Another writer took the same seq; read MAX(seq) again.
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < createAttempts {
			a.ID = ""
			continue
		}
		break
	}
	if err != nil {
		return models.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

func (s *GormStore) Update(ctx context.Context, id string, patch models.AppointmentPatch) (models.Appointment, error) {
	var updated models.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Appointment
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		merged, err := s.opts.merge(current, patch)
		if err != nil {
			return err
		}
		updated = merged
		return tx.Save(&updated).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Appointment{}, err
		}
		return models.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return updated, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts appointments with their ids kept, only into an empty table.
func (s *GormStore) Seed(ctx context.Context, appointments []models.Appointment) (int, error) {
	inserted := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Appointment{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i, a := range appointments {
			a.Seq = int64(i + 1)
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed appointments: %w", err)
	}
	return inserted, nil
}

func nextSeq(tx *gorm.DB) (int64, error) {
	var last int64
	if err := tx.Model(&models.Appointment{}).Select("COALESCE(MAX(seq), 0)").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last + 1, nil
}
