package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/repositories"
	"github.com/mentorloop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

var mappingColumns = []interface{}{
	"appointment_type_id", "human_mentor_id", "mentor_name",
	"default_duration_minutes", "created_at", "updated_at",
}

// MentorAdapter implements the MentorRepository interface over the read-only
// appointment-type mapping table.
type MentorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMentorAdapter creates a new mentor adapter
func NewMentorAdapter(client *postgres.Client) repositories.MentorRepository {
	return &MentorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByMentorID retrieves the mapping for an internal mentor id
func (a *MentorAdapter) GetByMentorID(ctx context.Context, humanMentorID string) (*entities.AppointmentTypeMapping, error) {
	return a.getOne(ctx, goqu.Ex{"human_mentor_id": humanMentorID})
}

// GetByAppointmentTypeID retrieves the mapping for a provider type id
func (a *MentorAdapter) GetByAppointmentTypeID(ctx context.Context, appointmentTypeID string) (*entities.AppointmentTypeMapping, error) {
	return a.getOne(ctx, goqu.Ex{"appointment_type_id": appointmentTypeID})
}

// List retrieves every bookable mentor mapping
func (a *MentorAdapter) List(ctx context.Context) ([]*entities.AppointmentTypeMapping, error) {
	query, args, err := a.db.Select(mappingColumns...).
		From("appointment_type_mappings").
		Order(goqu.I("mentor_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list mentor mappings", err)
	}
	defer rows.Close()

	var mappings []*entities.AppointmentTypeMapping
	for rows.Next() {
		mapping := &entities.AppointmentTypeMapping{}
		if err := rows.Scan(
			&mapping.AppointmentTypeID,
			&mapping.HumanMentorID,
			&mapping.MentorName,
			&mapping.DefaultDurationMinutes,
			&mapping.CreatedAt,
			&mapping.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan mentor mapping", err)
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate mentor mappings", err)
	}

	return mappings, nil
}

func (a *MentorAdapter) getOne(ctx context.Context, where goqu.Ex) (*entities.AppointmentTypeMapping, error) {
	query, args, err := a.db.Select(mappingColumns...).
		From("appointment_type_mappings").
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	mapping := &entities.AppointmentTypeMapping{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&mapping.AppointmentTypeID,
		&mapping.HumanMentorID,
		&mapping.MentorName,
		&mapping.DefaultDurationMinutes,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get mentor mapping", err)
	}
	return mapping, nil
}
