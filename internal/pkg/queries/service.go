package queries

const (
	GetServicesByProviderID = `
		SELECT id, provider_id, service_name, price, status, created_at, updated_at
		FROM services
		WHERE provider_id = $1
		ORDER BY service_name
	`

	GetActiveServicesByProviderID = `
		SELECT id, provider_id, service_name, price, status, created_at, updated_at
		FROM services
		WHERE provider_id = $1 AND status = 'active'
		ORDER BY service_name
	`

	GetServiceByID = `
		SELECT id, provider_id, service_name, price, status, created_at, updated_at
		FROM services
		WHERE provider_id = $1 AND id = $2
	`

	InsertService = `
		INSERT INTO services (provider_id, service_name, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	UpdateService = `
		UPDATE services
		SET service_name = $1, price = $2, status = $3, updated_at = $4
		WHERE provider_id = $5 AND id = $6
	`

	DeleteService = `
		DELETE FROM services
		WHERE provider_id = $1 AND id = $2
	`
)
