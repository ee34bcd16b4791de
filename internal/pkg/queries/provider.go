package queries

const (
	GetProviderByID = `
		SELECT id, kind, name, email, phone, address, postal_code, approved, created_at, updated_at
		FROM providers
		WHERE id = $1
	`

	GetBookableProvidersByPostalCode = `
		SELECT id, kind, name, email, phone, address, postal_code, approved, created_at, updated_at
		FROM providers
		WHERE postal_code = $1 AND (kind = 'doctor' OR approved = TRUE)
		ORDER BY name
	`

	InsertProvider = `
		INSERT INTO providers (kind, name, email, phone, address, postal_code, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	UpdateProviderApproval = `
		UPDATE providers
		SET approved = $1, updated_at = NOW()
		WHERE id = $2
	`
)
