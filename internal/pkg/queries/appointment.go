package queries

import "fmt"

const appointmentColumns = `
	id, provider_id, provider_kind, user_id, user_name, phone, gender, dob, date, time,
	purpose, price, status, COALESCE(payment_order_id, ''), COALESCE(meet_url, ''),
	reports, bills, prescriptions, created_at, updated_at
`

var (
	GetAppointmentByID = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE id = $1
	`, appointmentColumns)

	GetAppointmentsByUserID = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE user_id = $1
		ORDER BY date DESC, time DESC
	`, appointmentColumns)

	GetAppointmentsByProviderID = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE provider_id = $1
		ORDER BY date DESC, time DESC
	`, appointmentColumns)

	GetLiveAppointmentBySlot = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE provider_id = $1 AND date = $2 AND time = $3 AND status NOT IN ('cancelled', 'rejected')
		LIMIT 1
	`, appointmentColumns)

	GetAppointmentByPaymentOrderID = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE payment_order_id = $1
	`, appointmentColumns)

	// Free rows get a minute so the booking request can settle them itself.
	GetPendingAppointmentsToReconcile = fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE status = 'pending'
		  AND (
		    (price > 0 AND payment_order_id IS NOT NULL)
		    OR (price = 0 AND created_at < NOW() - INTERVAL '1 minute')
		  )
		ORDER BY updated_at
		LIMIT $1
	`, appointmentColumns)

	UpdateAppointmentStatus = fmt.Sprintf(`
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING %s
	`, appointmentColumns)

	UpdateAppointmentMeetURL = fmt.Sprintf(`
		UPDATE appointments
		SET meet_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s
	`, appointmentColumns)
)

const (
	InsertAppointment = `
		INSERT INTO appointments (
			id, provider_id, provider_kind, user_id, user_name, phone, gender, dob, date, time,
			purpose, price, status, reports, bills, prescriptions, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	UpdateAppointmentPaymentOrderID = `
		UPDATE appointments
		SET payment_order_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	TouchPendingAppointment = `
		UPDATE appointments
		SET updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	UpdateAppointmentFailedOrderID = `
		UPDATE appointments
		SET failed_order_id = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending' AND failed_order_id IS DISTINCT FROM $1
	`

	DeleteAppointment = `
		DELETE FROM appointments
		WHERE id = $1
	`
)

// AppendAppointmentDocument returns the array_append update for one of the
// document columns. column must come from a fixed whitelist.
func AppendAppointmentDocument(column string) string {
	return fmt.Sprintf(`
		UPDATE appointments
		SET %[1]s = array_append(%[1]s, $1), updated_at = NOW()
		WHERE id = $2
		RETURNING %[2]s
	`, column, appointmentColumns)
}
