package queries

const (
	GetAvailabilityByProviderID = `
		SELECT provider_id, day_of_week, status, slot_time
		FROM availability_days
		WHERE provider_id = $1
	`

	DeleteAvailabilityByProviderID = `
		DELETE FROM availability_days
		WHERE provider_id = $1
	`

	InsertAvailabilityDay = `
		INSERT INTO availability_days (provider_id, day_of_week, status, slot_time)
		VALUES ($1, $2, $3, $4)
	`
)
