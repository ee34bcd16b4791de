package constvars

const (
	URLParamProviderID    = "provider_id"
	URLParamServiceID     = "service_id"
	URLParamAppointmentID = "appointment_id"
	URLParamDocumentKind  = "document_kind"
)

const (
	QueryParamPostalCode = "postal_code"
	QueryParamLatitude   = "lat"
	QueryParamLongitude  = "lng"
	QueryParamDate       = "date"
	QueryParamAll        = "all"
)

const (
	FormFieldDocumentFile = "file"
)
